// Package experiment runs a lab headlessly: frames are driven by a manual
// clock rather than a display, so every run with the same seed and
// overrides renders the same pictures. A realtime run paces the same
// frames to the wall clock instead.
package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/san-kum/physlab/internal/draw"
	"github.com/san-kum/physlab/internal/engine"
	"github.com/san-kum/physlab/internal/labs"
	"github.com/san-kum/physlab/internal/metrics"
)

type Config struct {
	Lab       string
	Width     float64
	Height    float64
	Frames    int
	FPS       int
	Seed      int64
	Overrides map[string]float64
	// Metrics attaches the default metric set for the lab.
	Metrics bool
	// Realtime fires frames from a ticker at FPS. Frame steps then follow
	// the wall clock and are not reproducible.
	Realtime bool
}

// Result is what a finished run leaves behind.
type Result struct {
	Lab      engine.Lab
	Frame    *draw.List
	Readouts []engine.Readout
	Series   []engine.Series
	Trace    *Trace
	Stats    engine.Stats
	Metrics  map[string]float64
}

type Experiment struct {
	cfg       Config
	registry  *labs.Registry
	logger    *slog.Logger
	observers []engine.Observer
}

func New(cfg Config, registry *labs.Registry, logger *slog.Logger) *Experiment {
	if registry == nil {
		registry = labs.NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Experiment{cfg: cfg, registry: registry, logger: logger}
}

// AddObserver registers obs for every frame of the next Run.
func (e *Experiment) AddObserver(o engine.Observer) { e.observers = append(e.observers, o) }

func (e *Experiment) validateConfig() error {
	if e.cfg.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", e.cfg.Frames)
	}
	if e.cfg.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", e.cfg.FPS)
	}
	if e.cfg.Width <= 0 || e.cfg.Height <= 0 {
		return fmt.Errorf("surface must have an area, got %gx%g", e.cfg.Width, e.cfg.Height)
	}
	return nil
}

// Run renders the configured number of frames and returns the last one.
// A frame fault ends the run early; the partial result is returned with
// the error.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if err := e.validateConfig(); err != nil {
		return nil, err
	}
	lab, err := e.registry.Get(e.cfg.Lab)
	if err != nil {
		return nil, err
	}

	surface := draw.NewSurface(e.cfg.Width, e.cfg.Height)
	trace := NewTrace()

	opts := []engine.Option{
		engine.WithSeed(e.cfg.Seed),
		engine.WithOverrides(e.cfg.Overrides),
		engine.WithLogger(e.logger),
		engine.WithObserver(trace),
	}
	for _, o := range e.observers {
		opts = append(opts, engine.WithObserver(o))
	}
	var set metrics.Set
	if e.cfg.Metrics {
		set = metrics.Defaults(sampleReadouts(lab))
		opts = append(opts, engine.WithObserver(set))
	}

	step := time.Second / time.Duration(e.cfg.FPS)
	result := &Result{Lab: lab, Trace: trace}

	if e.cfg.Realtime {
		ticker := engine.NewTickerScheduler(ctx, e.cfg.FPS)
		defer ticker.Close()
		c := engine.Start(surface, lab, ticker, engine.NewWindow(), opts...)
		defer c.Stop()
		if err := c.Err(); err != nil {
			return nil, err
		}
		e.logger.Debug("realtime experiment started", "lab", lab.Name(), "frames", e.cfg.Frames, "fps", e.cfg.FPS)
		err := e.waitFrames(ctx, c, step)
		c.Stop()
		e.finish(result, c, surface, set)
		return result, err
	}

	sched := engine.NewManualScheduler(time.Unix(0, 0))
	c := engine.Start(surface, lab, sched, engine.NewWindow(), opts...)
	defer c.Stop()
	if err := c.Err(); err != nil {
		return nil, err
	}

	e.logger.Debug("experiment started", "lab", lab.Name(), "frames", e.cfg.Frames, "seed", e.cfg.Seed)

	for i := 0; i < e.cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			e.finish(result, c, surface, set)
			return result, ctx.Err()
		default:
		}
		sched.Advance(step)
		if err := c.Err(); err != nil {
			e.finish(result, c, surface, set)
			return result, err
		}
	}

	e.finish(result, c, surface, set)
	return result, nil
}

// waitFrames blocks until a ticker-driven controller has rendered the
// configured number of frames. The last frame stops the loop itself so no
// extra frame slips in.
func (e *Experiment) waitFrames(ctx context.Context, c *engine.Controller, step time.Duration) error {
	done := make(chan struct{})
	var once sync.Once
	c.AddObserver(engine.ObserverFunc(func(f engine.Frame) {
		if f.Index >= e.cfg.Frames {
			c.Stop()
			once.Do(func() { close(done) })
		}
	}))

	poll := time.NewTicker(step)
	defer poll.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-done:
			return nil
		case <-poll.C:
			if err := c.Err(); err != nil {
				return err
			}
			if c.Stats().Frames >= e.cfg.Frames {
				return nil
			}
		}
	}
}

func (e *Experiment) finish(r *Result, c *engine.Controller, surface *draw.Surface, set metrics.Set) {
	r.Frame = surface.List().Snapshot()
	r.Readouts = c.Readouts()
	r.Series = c.Series()
	r.Stats = c.Stats()
	if set != nil {
		r.Metrics = set.Report()
	}
}

// sampleReadouts builds a throwaway sim to learn which readouts a lab
// reports.
func sampleReadouts(lab engine.Lab) []engine.Readout {
	c := engine.Start(draw.NewSurface(1, 1), lab, engine.NewManualScheduler(time.Unix(0, 0)), nil,
		engine.WithLogger(slog.New(slog.DiscardHandler)))
	defer c.Stop()
	return c.Readouts()
}
