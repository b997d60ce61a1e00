package physics

import "math"

// PistonVolume is the volume the gas settles at under load, in the bench's
// height units. At fixed load it grows linearly with temperature; both
// inputs are in [0,1].
func PistonVolume(temp, load float64) float64 {
	gas := 0.5 + temp*1.8
	held := 0.5 + load*2
	return 260 * gas / held
}

// Ease moves cur a fraction k of the way toward target.
func Ease(cur, target, k float64) float64 {
	return cur + (target-cur)*k
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// AtomSpeed is the per-frame speed multiplier of gas atoms at temp.
func AtomSpeed(temp float64) float64 {
	return 1 + temp*4
}

// Phase is the state of matter of water at a given temperature.
type Phase uint8

const (
	Solid Phase = iota
	Liquid
	Gas
)

func (p Phase) String() string {
	switch p {
	case Solid:
		return "solid"
	case Liquid:
		return "liquid"
	}
	return "gas"
}

// PhaseAt classifies a temperature in degrees Celsius at standard pressure.
func PhaseAt(celsius float64) Phase {
	switch {
	case celsius < 0:
		return Solid
	case celsius <= 100:
		return Liquid
	}
	return Gas
}

// Heating curve bounds in degrees Celsius.
const (
	CurveMin = -20.0
	CurveMax = 140.0
)

// CurvePoint is one sample of the heating curve: heat supplied in arbitrary
// units against temperature.
type CurvePoint struct {
	Heat, Temp float64
}

// HeatingCurve samples the temperature of water as heat is supplied at a
// constant rate: rising through ice, flat while melting, rising through
// liquid, flat while boiling, rising as steam. Each stretch takes 20
// samples.
func HeatingCurve() []CurvePoint {
	legs := [][2]float64{
		{CurveMin, 0},
		{0, 0},
		{0, 100},
		{100, 100},
		{100, CurveMax},
	}
	const per = 20
	out := make([]CurvePoint, 0, len(legs)*per)
	for _, leg := range legs {
		for i := 0; i < per; i++ {
			out = append(out, CurvePoint{
				Heat: float64(len(out)),
				Temp: leg[0] + (leg[1]-leg[0])*float64(i)/per,
			})
		}
	}
	return out
}

// CurveIndex is the heating curve sample reached at temperature celsius,
// read off the dial linearly across the curve's range.
func CurveIndex(celsius float64, samples int) int {
	i := int(math.Floor((celsius - CurveMin) / (CurveMax - CurveMin) * float64(samples)))
	return max(0, min(i, samples-1))
}

// ParticleSpeed is the per-frame speed of a water molecule at celsius:
// zero for the vibrating solid, slow drift in the liquid and fast free
// flight in the gas.
func ParticleSpeed(celsius float64) float64 {
	switch PhaseAt(celsius) {
	case Solid:
		return 0
	case Liquid:
		return 0.2 + celsius/100*0.8
	}
	return 1.2 + math.Min((celsius-100)/40, 1)*2.2
}

// CarnotLeg is one stroke of the engine drawn as a quadratic Bezier on the
// P-V diagram.
type CarnotLeg struct {
	Name          string
	From, Via, To [2]float64
}

// CarnotCycle is the four strokes A->B->C->D->A in (V, P) diagram units.
var CarnotCycle = [4]CarnotLeg{
	{"isothermal expansion", [2]float64{1.1, 4.1}, [2]float64{2.0, 3.0}, [2]float64{2.9, 3.1}},
	{"adiabatic expansion", [2]float64{2.9, 3.1}, [2]float64{2.3, 2.2}, [2]float64{3.1, 1.5}},
	{"isothermal compression", [2]float64{3.1, 1.5}, [2]float64{3.5, 1.0}, [2]float64{1.4, 2.0}},
	{"adiabatic compression", [2]float64{1.4, 2.0}, [2]float64{0.7, 4.2}, [2]float64{1.1, 4.1}},
}

// At evaluates the leg at t in [0,1] and returns volume and pressure.
func (l CarnotLeg) At(t float64) (v, p float64) {
	t = Clamp(t, 0, 1)
	a, b, c := (1-t)*(1-t), 2*(1-t)*t, t*t
	return a*l.From[0] + b*l.Via[0] + c*l.To[0], a*l.From[1] + b*l.Via[1] + c*l.To[1]
}
