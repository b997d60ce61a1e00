package experiment

import (
	"sort"
	"time"

	"github.com/san-kum/physlab/internal/engine"
)

// Trace records every numeric readout of every frame.
type Trace struct {
	Times  []time.Duration
	values map[string][]float64
	order  []string
}

func NewTrace() *Trace {
	return &Trace{values: make(map[string][]float64)}
}

func (t *Trace) OnFrame(f engine.Frame) {
	t.Times = append(t.Times, f.Elapsed)
	for _, r := range f.Readouts {
		if r.Text != "" {
			continue
		}
		if _, ok := t.values[r.Label]; !ok {
			t.order = append(t.order, r.Label)
		}
		t.values[r.Label] = append(t.values[r.Label], r.Value)
	}
}

// Labels lists the recorded readouts in first-seen order.
func (t *Trace) Labels() []string { return append([]string(nil), t.order...) }

// Values returns the history of one readout.
func (t *Trace) Values(label string) ([]float64, bool) {
	v, ok := t.values[label]
	return v, ok
}

func (t *Trace) Len() int { return len(t.Times) }

// Summary holds the range of one readout over a run.
type Summary struct {
	Label          string
	Min, Max, Last float64
}

func (t *Trace) Summaries() []Summary {
	out := make([]Summary, 0, len(t.order))
	for _, label := range t.order {
		v := t.values[label]
		s := Summary{Label: label, Min: v[0], Max: v[0], Last: v[len(v)-1]}
		for _, x := range v {
			if x < s.Min {
				s.Min = x
			}
			if x > s.Max {
				s.Max = x
			}
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
