package caloreco

import (
	"go-hep.org/x/hep/lcio"
)

// LCIOStore reads particles, clusters and calorimeter hits from an LCIO
// event. Collections are converted on every call.
type LCIOStore struct {
	evt *lcio.Event
}

func NewLCIOStore(evt *lcio.Event) *LCIOStore {
	return &LCIOStore{evt: evt}
}

// LCIOEvent wraps evt. An LCIO file carries both the simulated and the
// reconstructed collections, so the same store serves as truth and reco.
func LCIOEvent(evt *lcio.Event) Event {
	s := NewLCIOStore(evt)
	return Event{Number: int(evt.EventNumber), Truth: s, Reco: s}
}

func (s *LCIOStore) Particles(name string) ([]TrueParticle, bool) {
	coll, ok := s.evt.Get(name).(*lcio.McParticleContainer)
	if !ok {
		return nil, false
	}
	parts := make([]TrueParticle, 0, len(coll.Particles))
	for _, mc := range coll.Particles {
		parts = append(parts, NewTrueParticle(
			Vec3{X: mc.Vertex[0], Y: mc.Vertex[1], Z: mc.Vertex[2]},
			Vec3{X: mc.P[0], Y: mc.P[1], Z: mc.P[2]},
			mc.Mass,
		))
	}
	return parts, true
}

func (s *LCIOStore) Clusters(name string) ([]CaloCluster, bool) {
	coll, ok := s.evt.Get(name).(*lcio.ClusterContainer)
	if !ok {
		return nil, false
	}
	clusters := make([]CaloCluster, 0, len(coll.Clusters))
	for _, clu := range coll.Clusters {
		clusters = append(clusters, CaloCluster{
			Pos:    Vec3{X: float64(clu.Pos[0]), Y: float64(clu.Pos[1]), Z: float64(clu.Pos[2])},
			Energy: float64(clu.Energy),
		})
	}
	return clusters, true
}

func (s *LCIOStore) Hits(name string) ([]CaloHit, bool) {
	coll, ok := s.evt.Get(name).(*lcio.CalorimeterHitContainer)
	if !ok {
		return nil, false
	}
	hits := make([]CaloHit, 0, len(coll.Hits))
	for _, hit := range coll.Hits {
		hits = append(hits, CaloHit{
			CellID: cellID(hit.CellID0, hit.CellID1),
			Energy: float64(hit.Energy),
		})
	}
	return hits, true
}

// cellID packs the two 32-bit halves of an LCIO cell identifier.
func cellID(id0, id1 int32) int64 {
	return int64(uint32(id0)) | int64(id1)<<32
}
