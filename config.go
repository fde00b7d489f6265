package caloreco

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidConfig = errors.New("caloreco: invalid configuration")

// Config describes a monitoring run.
type Config struct {
	ClusterColl  string // reconstructed clusters (reco store)
	ParticleColl string // generated particles (truth store)
	HitColl      string // positioned calorimeter cells (truth store)

	Energy float64 // beam energy (GeV)
	EtaMax float64
	NEta   int
	NPhi   int
	DEta   float64
	DPhi   float64

	// Cells with layer < FirstLayerID+FirstLayerCount make up the first
	// calorimeter layer used by the upstream correction.
	FirstLayerID    int
	FirstLayerCount int

	// Upstream enables the upstream energy correction when non-nil.
	Upstream *UpstreamCorrection

	Verbose bool
}

// DefaultConfig returns the settings of a 50 GeV electron scan of the
// barrel calorimeter, without upstream correction.
func DefaultConfig() Config {
	return Config{
		ClusterColl:     "CaloClusters",
		ParticleColl:    "GenParticles",
		HitColl:         "ECalPositionedHits",
		Energy:          50,
		EtaMax:          1.68,
		NEta:            336,
		NPhi:            629,
		DEta:            0.01,
		DPhi:            2 * math.Pi / 629,
		FirstLayerID:    1,
		FirstLayerCount: 4,
	}
}

func (cfg Config) Binning() Binning {
	return Binning{
		Energy: cfg.Energy,
		EtaMax: cfg.EtaMax,
		NEta:   cfg.NEta,
		NPhi:   cfg.NPhi,
		DEta:   cfg.DEta,
		DPhi:   cfg.DPhi,
	}
}

// Validate reports the first setting that cannot produce a usable binning.
func (cfg Config) Validate() error {
	switch {
	case cfg.ClusterColl == "":
		return fmt.Errorf("missing cluster collection name: %w", ErrInvalidConfig)
	case cfg.ParticleColl == "":
		return fmt.Errorf("missing particle collection name: %w", ErrInvalidConfig)
	case !(cfg.Energy > 0):
		return fmt.Errorf("beam energy must be positive (got %v): %w", cfg.Energy, ErrInvalidConfig)
	case !(cfg.EtaMax > 0):
		return fmt.Errorf("eta max must be positive (got %v): %w", cfg.EtaMax, ErrInvalidConfig)
	case cfg.NEta <= 0 || cfg.NPhi <= 0:
		return fmt.Errorf("bin counts must be positive (got eta=%d, phi=%d): %w", cfg.NEta, cfg.NPhi, ErrInvalidConfig)
	case !(cfg.DEta > 0) || !(cfg.DPhi > 0):
		return fmt.Errorf("bin widths must be positive (got eta=%v, phi=%v): %w", cfg.DEta, cfg.DPhi, ErrInvalidConfig)
	}
	if cfg.Upstream != nil {
		if cfg.HitColl == "" {
			return fmt.Errorf("upstream correction needs a hit collection: %w", ErrInvalidConfig)
		}
		if cfg.FirstLayerID < 0 || cfg.FirstLayerCount <= 0 {
			return fmt.Errorf("invalid first layer (id=%d, count=%d): %w", cfg.FirstLayerID, cfg.FirstLayerCount, ErrInvalidConfig)
		}
	}
	return nil
}
