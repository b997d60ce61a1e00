package physics

import "math"

// Current is Ohm's law for a closed circuit; an open circuit carries none.
func Current(v, r float64, closed bool) float64 {
	if !closed || r <= 0 {
		return 0
	}
	return v / r
}

// Gravitation is the gravity lab's constant in scene units.
const Gravitation = 60.0

// InverseSquare returns g*m1*m2/r^2. r is floored at 1 to keep the
// force finite.
func InverseSquare(g, m1, m2, r float64) float64 {
	r = math.Max(r, 1)
	return g * m1 * m2 / (r * r)
}

// Flux is the field linkage through a coil at distance d from a magnet,
// modelled as k/(d^2 + c) so it stays finite when the magnet sits inside.
func Flux(k, c, d float64) float64 {
	return k / (d*d + c)
}

// WireForce is the force per unit length between two parallel currents,
// scaled so that 1 is the maximum the bench shows. Positive attracts.
func WireForce(i1, i2 float64, sameDirection bool) float64 {
	f := i1 * i2
	if !sameDirection {
		f = -f
	}
	return f
}
