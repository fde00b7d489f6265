package caloreco

import "math"

// UpstreamCorrection estimates the energy lost in front of the calorimeter
// (tracker, cryostat) from the energy deposited in its first layer.
//
// Only P0p0 and P0p1 enter the formula. P1p0 and P1p1 are carried along
// with the fit but the second parameter is evaluated with the P0 pair,
// exactly as the reference fit application does.
type UpstreamCorrection struct {
	P0p0, P0p1 float64
	P1p0, P1p1 float64
}

// Eupstream returns the upstream energy for a cluster of energy erec and a
// first-layer deposit efirst.
func (c UpstreamCorrection) Eupstream(erec, efirst float64) float64 {
	p0 := c.P0p0 + c.P0p1*erec
	p1 := c.P0p0 + c.P0p1/math.Sqrt(erec)
	return p0 + p1*efirst
}

// Correct returns erec with the upstream energy added back.
func (c UpstreamCorrection) Correct(erec, efirst float64) float64 {
	return erec + c.Eupstream(erec, efirst)
}
