package engine

import (
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/san-kum/physlab/internal/control"
	"github.com/san-kum/physlab/internal/draw"
)

// Env is what a lab receives when its simulation is created.
type Env struct {
	Size   draw.Size
	Params *control.Params
	Rand   *rand.Rand
}

// Lab describes one experiment and builds its simulation state.
type Lab interface {
	Name() string
	Title() string
	Controls() []control.Spec
	New(env Env) Sim
}

// Sim is one running instance of a lab. Update mutates state; Render must
// only read it and must start with a full Clear.
type Sim interface {
	Update(dt float64, p *control.Params)
	Render(dc draw.Context)
	Resize(s draw.Size)
	Readouts() []Readout
}

// KeyBound labs drive some parameters from held keys.
type KeyBound interface {
	Axes() []control.AxisSpec
}

// Serieser sims keep a history worth charting.
type Serieser interface {
	Series() []Series
}

type Series struct {
	Name   string
	Values []float64
}

// Readout is a derived quantity shown next to the canvas. Text, when set,
// replaces the formatted value.
type Readout struct {
	Label string
	Value float64
	Unit  string
	Text  string
}

func (r Readout) String() string {
	if r.Text != "" {
		return r.Text
	}
	s := strconv.FormatFloat(r.Value, 'f', 3, 64)
	if a := math.Abs(r.Value); a > 0 && a < 0.01 {
		s = strconv.FormatFloat(r.Value, 'g', 4, 64)
	}
	if r.Unit != "" {
		s += " " + r.Unit
	}
	return s
}

// Frame describes a frame that has just been rendered.
type Frame struct {
	Index    int
	DT       time.Duration
	Elapsed  time.Duration
	Context  draw.Context
	Readouts []Readout
}

type Observer interface {
	OnFrame(f Frame)
}

type ObserverFunc func(f Frame)

func (fn ObserverFunc) OnFrame(f Frame) { fn(f) }
