package metrics

import (
	"math"

	"github.com/san-kum/physlab/internal/engine"
)

// Drift tracks the largest relative departure of a readout from its first
// observed value. Pointed at a conserved quantity such as a pendulum's
// total energy it measures integration error.
type Drift struct {
	name     string
	label    string
	initial  float64
	current  float64
	maxDrift float64
	samples  int
}

func NewDrift(label string) *Drift {
	return &Drift{
		name:  label + "_drift",
		label: label,
	}
}

func (d *Drift) Name() string { return d.name }

func (d *Drift) Observe(f engine.Frame) {
	v, ok := lookup(f, d.label)
	if !ok {
		return
	}

	if d.samples == 0 {
		d.initial = v
	}

	d.current = v
	d.samples++

	if d.initial != 0 {
		drift := math.Abs(v-d.initial) / math.Abs(d.initial)
		d.maxDrift = math.Max(d.maxDrift, drift)
	}
}

func (d *Drift) Value() float64 {
	return d.maxDrift
}

// Current is the latest observed value.
func (d *Drift) Current() float64 { return d.current }

func (d *Drift) Reset() {
	d.initial = 0
	d.current = 0
	d.maxDrift = 0
	d.samples = 0
}
