package physics

import (
	"math"

	"github.com/san-kum/physlab/internal/integrators"
)

// Pendulum is a rigid pendulum with a point bob. State is {theta, omega}
// in radians.
type Pendulum struct {
	Mass    float64
	Length  float64
	Damping float64
	Gravity float64
}

func NewPendulum(mass, length float64) *Pendulum {
	return &Pendulum{
		Mass:    mass,
		Length:  length,
		Gravity: G,
	}
}

func (p *Pendulum) Derive(x integrators.State, t float64) integrators.State {
	theta, omega := x[0], x[1]
	alpha := -p.Gravity/p.Length*math.Sin(theta) - p.Damping*omega/(p.Mass*p.Length*p.Length)
	return integrators.State{omega, alpha}
}

// Energies returns kinetic and potential energy with the lowest point as
// the zero of potential.
func (p *Pendulum) Energies(x integrators.State) (ke, pe float64) {
	v := p.Length * x[1]
	ke = 0.5 * p.Mass * v * v
	pe = p.Mass * p.Gravity * p.Length * (1 - math.Cos(x[0]))
	return ke, pe
}

func (p *Pendulum) Energy(x integrators.State) float64 {
	ke, pe := p.Energies(x)
	return ke + pe
}

// Period is the small-angle period 2*pi*sqrt(L/g).
func (p *Pendulum) Period() float64 {
	return 2 * math.Pi * math.Sqrt(p.Length/p.Gravity)
}
