package physics

import "math"

type Particle uint8

const (
	Alpha Particle = iota
	Beta
	Gamma
)

var particleNames = [...]string{"alpha", "beta", "gamma"}

func (p Particle) String() string { return particleNames[p] }

// Straight-line range at full energy, and the sign and strength of the bend
// in a field. Alpha curves one way, beta the other and harder, gamma not at all.
var (
	baseRange = [...]float64{220, 380, 720}
	deflect   = [...]float64{-0.15, 0.6, 0}
)

// Range is how far p travels with no field at energy e.
func Range(p Particle, e float64) float64 {
	return baseRange[p] * e
}

// DeflectedLength is the path length drawn for p in a field.
func DeflectedLength(e float64) float64 {
	return 520 * e
}

// Deflection is the total sideways displacement of p over its path in a
// field of strength f. Slow particles bend more.
func Deflection(p Particle, e, f float64) float64 {
	return deflect[p] * f * 140 / math.Max(e, 0.2)
}

// Absorber is the first shield layer that stops p: 0 paper, 1 aluminium,
// -1 nothing.
func Absorber(p Particle) int {
	switch p {
	case Alpha:
		return 0
	case Beta:
		return 1
	}
	return -1
}
