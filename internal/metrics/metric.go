// Package metrics condenses a run's frames into single numbers. Every
// metric is an engine.Observer, so a Set can be handed straight to a
// controller.
package metrics

import (
	"sort"

	"github.com/san-kum/physlab/internal/engine"
)

type Metric interface {
	Name() string
	Observe(f engine.Frame)
	Value() float64
	Reset()
}

// lookup finds a numeric readout by label. Text-only readouts do not count.
func lookup(f engine.Frame, label string) (float64, bool) {
	for _, r := range f.Readouts {
		if r.Label == label && r.Text == "" {
			return r.Value, true
		}
	}
	return 0, false
}

// Set fans frames out to several metrics.
type Set []Metric

func (s Set) OnFrame(f engine.Frame) {
	for _, m := range s {
		m.Observe(f)
	}
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}

// Report returns each metric's value keyed by name.
func (s Set) Report() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}

// Names lists the metric names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for _, m := range s {
		names = append(names, m.Name())
	}
	sort.Strings(names)
	return names
}
