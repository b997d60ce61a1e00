package metrics

import (
	"math"

	"github.com/san-kum/physlab/internal/engine"
)

// Stability is the fraction of frames in which a readout stays within
// threshold of zero.
type Stability struct {
	name       string
	label      string
	threshold  float64
	violations int
	samples    int
}

func NewStability(label string, threshold float64) *Stability {
	return &Stability{
		name:      label + "_stability",
		label:     label,
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f engine.Frame) {
	v, ok := lookup(f, s.label)
	if !ok {
		return
	}
	s.samples++
	if math.Abs(v) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
