// Package integrators advances ordinary differential equations in time.
package integrators

// State is a flat vector of the quantities being integrated.
type State []float64

// System supplies the time derivative of a State.
type System interface {
	Derive(x State, t float64) State
}

// Func adapts a plain function to System.
type Func func(x State, t float64) State

func (f Func) Derive(x State, t float64) State { return f(x, t) }

type Integrator interface {
	Step(sys System, x State, t, dt float64) State
}

// Substeps splits dt into n equal steps so a coarse frame step stays
// accurate for stiff motion.
func Substeps(in Integrator, sys System, x State, t, dt float64, n int) State {
	if n < 1 {
		n = 1
	}
	h := dt / float64(n)
	for i := 0; i < n; i++ {
		x = in.Step(sys, x, t+float64(i)*h, h)
	}
	return x
}
