package caloreco

import (
	"errors"
	"fmt"
	"log"
	"math"
)

var (
	ErrNoEvents    = errors.New("caloreco: no events to normalize to")
	ErrNoClusters  = errors.New("caloreco: no reconstructed particle to normalize to")
	ErrRunFinished = errors.New("caloreco: run already finished")
)

// Status is the outcome of processing one event.
type Status int

const (
	StatusOK Status = iota
	StatusNoParticle
	StatusNoHits
	StatusNoClusters
	StatusFinished
	nStatus
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoParticle:
		return "no-particle"
	case StatusNoHits:
		return "no-hits"
	case StatusNoClusters:
		return "no-clusters"
	case StatusFinished:
		return "finished"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// histograms normalized to the number of events
var perEventHists = []string{HEnergyTotal, HClusters, HClustersPhi, HClustersEta}

// histograms normalized to the number of reconstructed particles
var perClusterHists = []string{HEnergy, HEnergyCorrected, HEnergyPhi, HEta, HPhi, HPhiPhi, HEtaEta}

type Option func(*Monitor)

// WithLogger sets the logger used for diagnostics. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(m *Monitor) { m.log = l }
}

// WithLayerFunc sets the cell-id to layer decoder used by the upstream
// correction. Defaults to UnknownLayer.
func WithLayerFunc(f LayerFunc) Option {
	return func(m *Monitor) { m.layerOf = f }
}

// Monitor fills the reconstruction monitoring histograms of a single
// particle sample, one event at a time. It is not safe for concurrent use.
type Monitor struct {
	cfg     Config
	hists   *Hists
	layerOf LayerFunc
	log     *log.Logger

	finished bool
	counts   [nStatus]int
}

func NewMonitor(cfg Config, opts ...Option) (*Monitor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Monitor{
		cfg:     cfg,
		hists:   NewHists(cfg.Binning()),
		layerOf: UnknownLayer,
		log:     log.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Monitor) Hists() *Hists { return m.hists }

func (m *Monitor) Config() Config { return m.cfg }

// Events returns the number of events handed to ProcessEvent before the run
// was finished.
func (m *Monitor) Events() int {
	n := 0
	for s, c := range m.counts {
		if Status(s) != StatusFinished {
			n += c
		}
	}
	return n
}

// Count returns the number of events that ended with status s.
func (m *Monitor) Count(s Status) int {
	if s < 0 || s >= nStatus {
		return 0
	}
	return m.counts[s]
}

// ProcessEvent classifies the clusters of evt and fills the histograms.
// Events lacking a required collection are skipped without touching any
// histogram.
func (m *Monitor) ProcessEvent(evt Event) Status {
	st := m.process(evt)
	m.counts[st]++
	return st
}

func (m *Monitor) process(evt Event) Status {
	if m.finished {
		m.log.Printf("event %d: run already finished, event ignored", evt.Number)
		return StatusFinished
	}

	var particles []TrueParticle
	ok := false
	if evt.Truth != nil {
		particles, ok = evt.Truth.Particles(m.cfg.ParticleColl)
	}
	if !ok || len(particles) == 0 {
		m.log.Printf("event %d: no MC particle collection %q", evt.Number, m.cfg.ParticleColl)
		return StatusNoParticle
	}
	if len(particles) > 1 {
		m.log.Printf("event %d: not a single particle event, number of particles: %d", evt.Number, len(particles))
	}

	// single particle events: the last particle wins
	var truth *TrueParticle
	for i := range particles {
		p := &particles[i]
		if m.cfg.Verbose {
			m.log.Printf("particle at %v, %v, %v with momentum %v, %v, %v and mass %v %s",
				p.Vertex.X, p.Vertex.Y, p.Vertex.Z,
				p.P4.Px(), p.P4.Py(), p.P4.Pz(), p.Mass, p.Label,
			)
		}
		truth = p
	}

	efirst := 0.0
	if m.cfg.Upstream != nil {
		var cells []CaloHit
		ok = false
		if evt.Truth != nil {
			cells, ok = evt.Truth.Hits(m.cfg.HitColl)
		}
		if !ok {
			m.log.Printf("event %d: no cell collection %q", evt.Number, m.cfg.HitColl)
			return StatusNoHits
		}
		if m.cfg.Verbose {
			m.log.Printf("number of cells: %d", len(cells))
		}
		efirst = m.firstLayerEnergy(cells)
	}

	var clusters []CaloCluster
	ok = false
	if evt.Reco != nil {
		clusters, ok = evt.Reco.Clusters(m.cfg.ClusterColl)
	}
	if !ok || len(clusters) == 0 {
		m.log.Printf("event %d: no cluster collection %q", evt.Number, m.cfg.ClusterColl)
		return StatusNoClusters
	}
	if m.cfg.Verbose {
		m.log.Printf("number of clusters: %d", len(clusters))
	}

	if err := m.fill(truth, clusters, efirst); err != nil {
		m.log.Printf("event %d: %v", evt.Number, err)
	}
	return StatusOK
}

func (m *Monitor) firstLayerEnergy(cells []CaloHit) float64 {
	maxLayer := m.cfg.FirstLayerCount + m.cfg.FirstLayerID
	sum := 0.0
	for _, cell := range cells {
		if m.layerOf(cell.CellID) < maxLayer {
			sum += cell.Energy
		}
	}
	return sum
}

func (m *Monitor) fill(truth *TrueParticle, clusters []CaloCluster, efirst float64) error {
	hs := m.hists

	best := 0
	sumEnergy := 0.0
	for i, clu := range clusters {
		if m.cfg.Verbose {
			m.log.Printf("cluster reconstructed at %v, %v, %v with energy %v GeV",
				clu.Pos.X, clu.Pos.Y, clu.Pos.Z, clu.Energy,
			)
		}
		sumEnergy += clu.Energy
		if clusters[best].Energy < clu.Energy {
			best = i
		}
	}
	maxEnergy := clusters[best].Energy
	etaAtMax := clusters[best].Eta()
	phiAtMax := clusters[best].Phi()
	n := float64(len(clusters))

	errs := []error{
		hs.Fill1D(HEnergyTotal, sumEnergy, 1),
		hs.Fill2D(HClustersPhi, phiAtMax, n, 1),
		hs.Fill2D(HClustersEta, etaAtMax, n, 1),
		hs.Fill1D(HClusters, n, 1),
	}

	trueEta := truth.Eta()
	truePhi := truth.Phi()

	for _, clu := range clusters {
		if clu.Energy < maxEnergy {
			// duplicate
			eta := clu.Eta()
			phi := clu.Phi()
			errs = append(errs,
				hs.Fill1D(HEnergyDiff, (maxEnergy-clu.Energy)/m.cfg.Energy, 1),
				hs.Fill1D(HEnergyDuplicates, clu.Energy, 1),
				hs.Fill1D(HEtaDuplicates, eta, 1),
				hs.Fill1D(HEtaDiff, etaAtMax-eta, 1),
				hs.Fill1D(HPhiDuplicates, phi, 1),
				hs.Fill1D(HPhiDiff, phiAtMax-phi, 1),
				// difference of the (phi, eta) magnitudes, not an angular distance
				hs.Fill1D(HRDiff, math.Sqrt(phiAtMax*phiAtMax+etaAtMax*etaAtMax)-math.Sqrt(phi*phi+eta*eta), 1),
			)
			continue
		}

		// reconstructed particle
		errs = append(errs,
			hs.Fill1D(HEta, etaAtMax-trueEta, maxEnergy),
			hs.Fill1D(HPhi, phiAtMax-truePhi, maxEnergy),
			hs.Fill2D(HEtaEta, trueEta, etaAtMax-trueEta, maxEnergy),
			hs.Fill2D(HPhiPhi, truePhi, phiAtMax-truePhi, maxEnergy),
			hs.Fill1D(HEnergy, maxEnergy, 1),
			hs.Fill2D(HEnergyPhi, truePhi, maxEnergy, 1),
		)
		if m.cfg.Upstream != nil {
			errs = append(errs, hs.Fill1D(HEnergyCorrected, m.cfg.Upstream.Correct(maxEnergy, efirst), 1))
		}
	}
	return errors.Join(errs...)
}

// FinishRun normalizes the per-event histograms to numEvents and the
// per-particle histograms to the number of reconstructed particles.
// A group whose normalization would be zero is left untouched and reported.
// FinishRun must be called once; later calls return ErrRunFinished.
func (m *Monitor) FinishRun(numEvents int) error {
	if m.finished {
		return ErrRunFinished
	}
	m.finished = true

	numClusters, err := m.hists.Entries(HEnergy)
	if err != nil {
		return err
	}

	var errs []error
	if numEvents > 0 {
		errs = append(errs, m.scale(perEventHists, 1/float64(numEvents)))
	} else {
		m.log.Printf("warning: %d events, per-event histograms not normalized", numEvents)
		errs = append(errs, ErrNoEvents)
	}
	if numClusters > 0 {
		errs = append(errs, m.scale(perClusterHists, 1/float64(numClusters)))
	} else {
		m.log.Printf("warning: no reconstructed particle, per-particle histograms not normalized")
		errs = append(errs, ErrNoClusters)
	}
	return errors.Join(errs...)
}

func (m *Monitor) scale(names []string, factor float64) error {
	var errs []error
	for _, name := range names {
		errs = append(errs, m.hists.Scale(name, factor))
	}
	return errors.Join(errs...)
}
