package caloreco

import (
	"github.com/proio-org/go-proio"
	"github.com/proio-org/go-proio-pb/model/eic"
)

// ProioTruth reads generated particles from a proio event. Collection names
// are entry tags, e.g. "GenStable". It provides neither clusters nor hits.
type ProioTruth struct {
	evt *proio.Event
}

func NewProioTruth(evt *proio.Event) *ProioTruth {
	return &ProioTruth{evt: evt}
}

func (s *ProioTruth) Particles(tag string) ([]TrueParticle, bool) {
	ids := s.evt.TaggedEntries(tag)
	if len(ids) == 0 {
		return nil, false
	}

	var parts []TrueParticle
	for _, id := range ids {
		part, ok := s.evt.GetEntry(id).(*eic.Particle)
		if !ok {
			continue
		}
		v := part.GetVertex()
		p := part.GetP()
		parts = append(parts, NewTrueParticle(
			Vec3{X: v.GetX(), Y: v.GetY(), Z: v.GetZ()},
			Vec3{X: float64(p.GetX()), Y: float64(p.GetY()), Z: float64(p.GetZ())},
			float64(part.GetMass()),
		))
	}
	return parts, true
}

func (s *ProioTruth) Clusters(string) ([]CaloCluster, bool) { return nil, false }

func (s *ProioTruth) Hits(string) ([]CaloHit, bool) { return nil, false }
