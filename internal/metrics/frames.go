package metrics

import (
	"time"

	"github.com/san-kum/physlab/internal/engine"
)

// FrameRate is the simulated frames per second over the run.
type FrameRate struct {
	frames  int
	elapsed time.Duration
}

func NewFrameRate() *FrameRate { return &FrameRate{} }

func (r *FrameRate) Name() string { return "fps" }

func (r *FrameRate) Observe(f engine.Frame) {
	r.frames++
	r.elapsed += f.DT
}

func (r *FrameRate) Value() float64 {
	if r.elapsed <= 0 {
		return 0
	}
	return float64(r.frames) / r.elapsed.Seconds()
}

func (r *FrameRate) Reset() {
	r.frames = 0
	r.elapsed = 0
}

// settleDegrees is how close to rest an angle must be to count as settled.
const settleDegrees = 5.0

// Defaults returns the metrics worth watching on a lab: frame rate always,
// plus the drift of a total, the mean of the first numeric readout seen in
// sample, and how often an angle in degrees sits near rest.
func Defaults(sample []engine.Readout) Set {
	set := Set{NewFrameRate()}
	for _, r := range sample {
		if r.Label == "total" && r.Text == "" {
			set = append(set, NewDrift("total"))
			break
		}
	}
	for _, r := range sample {
		if r.Text == "" {
			set = append(set, NewMean(r.Label))
			break
		}
	}
	for _, r := range sample {
		if r.Label == "angle" && r.Unit == "deg" && r.Text == "" {
			set = append(set, NewStability("angle", settleDegrees))
		}
	}
	return set
}
