package caloreco

import (
	"fmt"
	"strconv"
	"strings"
)

const nUpstreamParams = 4

// UpstreamFlag collects the upstream correction fit parameters
// (p0p0, p0p1, p1p0, p1p1) from the command line, given either as one
// comma-separated value or by repeating the flag.
type UpstreamFlag struct {
	Params []float64
}

func (f *UpstreamFlag) Set(valueStr string) error {
	for _, s := range strings.Split(valueStr, ",") {
		value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return err
		}
		if len(f.Params) == nUpstreamParams {
			return fmt.Errorf("more than %d upstream parameters", nUpstreamParams)
		}
		f.Params = append(f.Params, value)
	}
	return nil
}

func (f *UpstreamFlag) String() string {
	if f == nil {
		return "[]"
	}
	return fmt.Sprint(f.Params)
}

// Correction returns the configured correction, or nil if the flag was
// never set.
func (f *UpstreamFlag) Correction() (*UpstreamCorrection, error) {
	switch len(f.Params) {
	case 0:
		return nil, nil
	case nUpstreamParams:
		p := f.Params
		return &UpstreamCorrection{P0p0: p[0], P0p1: p[1], P1p0: p[2], P1p1: p[3]}, nil
	default:
		return nil, fmt.Errorf("need %d upstream parameters, got %d: %w", nUpstreamParams, len(f.Params), ErrInvalidConfig)
	}
}
