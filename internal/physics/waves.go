package physics

import "math"

type Interference uint8

const (
	Partial Interference = iota
	Constructive
	Destructive
)

func (i Interference) String() string {
	switch i {
	case Constructive:
		return "constructive"
	case Destructive:
		return "destructive"
	}
	return "partial"
}

const (
	phaseTolerance = 0.3
	ampTolerance   = 5.0
)

// Classify names the interference of two waves with amplitudes a1, a2 and a
// phase difference phi in radians. Destructive needs near-equal amplitudes;
// constructive does not.
func Classify(a1, a2, phi float64) Interference {
	phi = math.Mod(math.Mod(phi, 2*math.Pi)+2*math.Pi, 2*math.Pi)
	if math.Abs(phi-math.Pi) < phaseTolerance && math.Abs(a1-a2) < ampTolerance {
		return Destructive
	}
	if phi < phaseTolerance || math.Abs(phi-2*math.Pi) < phaseTolerance {
		return Constructive
	}
	return Partial
}

// Superpose returns a1*sin(k*x+t) + a2*sin(k*x+t+phi).
func Superpose(a1, a2, k, phi, x, t float64) float64 {
	return a1*math.Sin(k*x+t) + a2*math.Sin(k*x+t+phi)
}

// ResultantAmplitude is the amplitude of the superposed wave.
func ResultantAmplitude(a1, a2, phi float64) float64 {
	return math.Sqrt(a1*a1 + a2*a2 + 2*a1*a2*math.Cos(phi))
}
