package control

import (
	"math"
	"strings"
)

type AxisState uint8

const (
	AxisRest AxisState = iota
	AxisRising
	AxisFalling
	AxisReturning
)

func (s AxisState) String() string {
	switch s {
	case AxisRest:
		return "rest"
	case AxisRising:
		return "rising"
	case AxisFalling:
		return "falling"
	case AxisReturning:
		return "returning"
	}
	return "unknown"
}

// AxisSpec binds a pair of keys to a numeric control. Step is applied per
// frame while a key is held; Return is the per-frame decay toward Rest once
// both keys are released. A zero Return latches the value on release.
type AxisSpec struct {
	Param  string
	DecKey string
	IncKey string
	Step   float64
	Return float64
	Rest   float64
}

// snapEps absorbs float drift so a decay of n*Return lands on Rest in n frames.
const snapEps = 1e-9

// Axis is the key-driven state machine behind keyboard controls.
type Axis struct {
	spec     AxisSpec
	min, max float64
	value    float64
	state    AxisState
	incHeld  bool
	decHeld  bool
	// written holds a directly set value through the next Tick.
	written bool
}

// NewAxis creates an axis at rest. The domain comes from the control spec the
// axis drives.
func NewAxis(a AxisSpec, s Spec) *Axis {
	lo, hi := s.Bounds()
	a.Rest = math.Max(lo, math.Min(hi, a.Rest))
	return &Axis{
		spec:  a,
		min:   lo,
		max:   hi,
		value: s.Clamp(s.Default),
		state: AxisRest,
	}
}

func (a *Axis) Spec() AxisSpec     { return a.spec }
func (a *Axis) Param() string      { return a.spec.Param }
func (a *Axis) Value() float64     { return a.value }
func (a *Axis) State() AxisState   { return a.state }
func (a *Axis) Held() bool         { return a.incHeld || a.decHeld }
func (a *Axis) Keys() []string     { return []string{a.spec.DecKey, a.spec.IncKey} }
func (a *Axis) Owns(k string) bool { return a.isInc(k) || a.isDec(k) }

func (a *Axis) isInc(k string) bool { return strings.EqualFold(k, a.spec.IncKey) }
func (a *Axis) isDec(k string) bool { return strings.EqualFold(k, a.spec.DecKey) }

// KeyDown reports whether the key belongs to this axis.
func (a *Axis) KeyDown(key string) bool {
	switch {
	case a.isInc(key):
		a.incHeld = true
		a.state = AxisRising
	case a.isDec(key):
		a.decHeld = true
		a.state = AxisFalling
	default:
		return false
	}
	a.written = false
	return true
}

func (a *Axis) KeyUp(key string) bool {
	switch {
	case a.isInc(key):
		a.incHeld = false
		if a.state == AxisRising {
			if a.decHeld {
				a.state = AxisFalling
			} else {
				a.release()
			}
		}
	case a.isDec(key):
		a.decHeld = false
		if a.state == AxisFalling {
			if a.incHeld {
				a.state = AxisRising
			} else {
				a.release()
			}
		}
	default:
		return false
	}
	return true
}

// Set writes the value directly, as a slider does. The next Tick returns it
// unchanged; an unheld axis starts returning to rest on the tick after.
func (a *Axis) Set(v float64) {
	a.value = a.clamp(v)
	a.written = true
	if !a.Held() {
		a.release()
	}
}

// Tick advances one frame and returns the new value.
func (a *Axis) Tick() float64 {
	if a.written {
		a.written = false
		return a.value
	}
	switch a.state {
	case AxisRising:
		a.value = a.clamp(a.value + a.spec.Step)
	case AxisFalling:
		a.value = a.clamp(a.value - a.spec.Step)
	case AxisReturning:
		d := a.spec.Rest - a.value
		if math.Abs(d) <= a.spec.Return+snapEps {
			a.value = a.spec.Rest
			a.state = AxisRest
		} else {
			a.value += math.Copysign(a.spec.Return, d)
		}
	}
	return a.value
}

func (a *Axis) release() {
	if a.spec.Return > 0 && a.value != a.spec.Rest {
		a.state = AxisReturning
		return
	}
	a.state = AxisRest
}

func (a *Axis) clamp(v float64) float64 {
	return math.Max(a.min, math.Min(a.max, v))
}
