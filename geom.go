package caloreco

import "math"

// Vec3 is a position or momentum in detector coordinates.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Perp() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vec3) Mag() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

const onAxisEta = 1e10

// Eta returns the pseudorapidity of v. Vectors along the beam axis get
// +/-1e10 (0 at the origin), so that they land in the overflow bins.
func Eta(v Vec3) float64 {
	mag := v.Mag()
	if mag == 0 {
		return 0
	}
	cosTheta := v.Z / mag
	if cosTheta*cosTheta < 1 {
		return 0.5 * math.Log((1+cosTheta)/(1-cosTheta))
	}
	if v.Z > 0 {
		return onAxisEta
	}
	return -onAxisEta
}

// Phi returns the azimuthal angle of v in (-pi, pi].
func Phi(v Vec3) float64 {
	if v.X == 0 && v.Y == 0 {
		return 0
	}
	return math.Atan2(v.Y, v.X)
}
