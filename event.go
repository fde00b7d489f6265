package caloreco

import (
	"math"

	"go-hep.org/x/hep/fmom"
)

// TrueParticle is a generator-level particle.
type TrueParticle struct {
	Vertex Vec3
	P4     fmom.PxPyPzE
	Mass   float64
	Label  string // energy scale label, e.g. "GeV"
}

// NewTrueParticle builds a particle from its momentum and mass, deriving the
// energy component of the four-momentum.
func NewTrueParticle(vertex, p Vec3, mass float64) TrueParticle {
	e := math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z + mass*mass)
	return TrueParticle{
		Vertex: vertex,
		P4:     fmom.NewPxPyPzE(p.X, p.Y, p.Z, e),
		Mass:   mass,
		Label:  "GeV",
	}
}

// Momentum returns the three-momentum of the particle.
func (p *TrueParticle) Momentum() Vec3 {
	return Vec3{X: p.P4.Px(), Y: p.P4.Py(), Z: p.P4.Pz()}
}

// Eta returns the pseudorapidity of the particle direction. Particles along
// the beam axis get +/-1e10, like Eta.
func (p *TrueParticle) Eta() float64 {
	eta := p.P4.Eta()
	if math.IsInf(eta, 0) {
		return math.Copysign(onAxisEta, eta)
	}
	return eta
}

// Phi returns the azimuthal angle of the particle direction.
func (p *TrueParticle) Phi() float64 {
	return p.P4.Phi()
}

// CaloCluster is a reconstructed calorimeter cluster.
type CaloCluster struct {
	Pos    Vec3
	Energy float64
}

func (c CaloCluster) Eta() float64 { return Eta(c.Pos) }
func (c CaloCluster) Phi() float64 { return Phi(c.Pos) }

// CaloHit is an energy deposit in a single calorimeter cell.
type CaloHit struct {
	CellID int64
	Energy float64
}

// Store gives access to the named collections of one event. The second
// return value reports whether the collection exists.
type Store interface {
	Particles(name string) ([]TrueParticle, bool)
	Clusters(name string) ([]CaloCluster, bool)
	Hits(name string) ([]CaloHit, bool)
}

// Event bundles the simulation (truth) and reconstruction stores of one event.
// Particles and hits are read from Truth, clusters from Reco.
type Event struct {
	Number int
	Truth  Store
	Reco   Store
}

// MemStore is an in-memory Store.
type MemStore struct {
	particles map[string][]TrueParticle
	clusters  map[string][]CaloCluster
	hits      map[string][]CaloHit
}

func NewMemStore() *MemStore {
	return &MemStore{
		particles: make(map[string][]TrueParticle),
		clusters:  make(map[string][]CaloCluster),
		hits:      make(map[string][]CaloHit),
	}
}

func (s *MemStore) PutParticles(name string, coll []TrueParticle) *MemStore {
	s.particles[name] = coll
	return s
}

func (s *MemStore) PutClusters(name string, coll []CaloCluster) *MemStore {
	s.clusters[name] = coll
	return s
}

func (s *MemStore) PutHits(name string, coll []CaloHit) *MemStore {
	s.hits[name] = coll
	return s
}

func (s *MemStore) Particles(name string) ([]TrueParticle, bool) {
	coll, ok := s.particles[name]
	return coll, ok
}

func (s *MemStore) Clusters(name string) ([]CaloCluster, bool) {
	coll, ok := s.clusters[name]
	return coll, ok
}

func (s *MemStore) Hits(name string) ([]CaloHit, bool) {
	coll, ok := s.hits[name]
	return coll, ok
}

// MultiStore looks a collection up in each store in turn and returns the
// first one found.
type MultiStore []Store

func (ms MultiStore) Particles(name string) ([]TrueParticle, bool) {
	for _, s := range ms {
		if coll, ok := s.Particles(name); ok {
			return coll, true
		}
	}
	return nil, false
}

func (ms MultiStore) Clusters(name string) ([]CaloCluster, bool) {
	for _, s := range ms {
		if coll, ok := s.Clusters(name); ok {
			return coll, true
		}
	}
	return nil, false
}

func (ms MultiStore) Hits(name string) ([]CaloHit, bool) {
	for _, s := range ms {
		if coll, ok := s.Hits(name); ok {
			return coll, true
		}
	}
	return nil, false
}

// Detach copies the collections cfg reads from evt into memory, so that evt
// stays valid once the underlying reader moves on.
func Detach(evt Event, cfg Config) Event {
	truth := NewMemStore()
	reco := NewMemStore()
	if evt.Truth != nil {
		if coll, ok := evt.Truth.Particles(cfg.ParticleColl); ok {
			truth.PutParticles(cfg.ParticleColl, coll)
		}
		if cfg.Upstream != nil {
			if coll, ok := evt.Truth.Hits(cfg.HitColl); ok {
				truth.PutHits(cfg.HitColl, coll)
			}
		}
	}
	if evt.Reco != nil {
		if coll, ok := evt.Reco.Clusters(cfg.ClusterColl); ok {
			reco.PutClusters(cfg.ClusterColl, coll)
		}
	}
	return Event{Number: evt.Number, Truth: truth, Reco: reco}
}
