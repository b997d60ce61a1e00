package metrics

import (
	"math"

	"github.com/san-kum/physlab/internal/engine"
)

// Mean is the average magnitude of one readout over the frames that carry it.
type Mean struct {
	name    string
	label   string
	sum     float64
	samples int
}

func NewMean(label string) *Mean {
	return &Mean{
		name:  "mean_" + label,
		label: label,
	}
}

func (m *Mean) Name() string {
	return m.name
}

func (m *Mean) Observe(f engine.Frame) {
	v, ok := lookup(f, m.label)
	if !ok {
		return
	}
	m.sum += math.Abs(v)
	m.samples++
}

func (m *Mean) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Mean) Reset() {
	m.sum = 0
	m.samples = 0
}
