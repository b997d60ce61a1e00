package engine

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/san-kum/physlab/internal/control"
	"github.com/san-kum/physlab/internal/draw"
)

// Surface is the drawable target a controller paints into.
type Surface interface {
	Size() draw.Size
	Context() draw.Context
}

// Controller runs one lab. The zero value is not usable; see Start.
type Controller struct {
	lab     Lab
	sim     Sim
	surface Surface
	dc      draw.Context
	sched   Scheduler
	host    Host
	log     *slog.Logger

	maxStep   time.Duration
	firstStep time.Duration

	// pmu guards the parameter store and key axes, written from event
	// handlers while a frame may be running.
	pmu    sync.Mutex
	params *control.Params
	axes   []*control.Axis

	// fmu serialises frames and resizes; everything below is owned by the
	// frame in progress.
	fmu       sync.Mutex
	snapshot  *control.Params
	last      time.Time
	index     int
	stats     Stats
	observers []Observer

	// mu guards scheduling and teardown.
	mu        sync.Mutex
	token     Token
	scheduled bool
	listeners []ListenerID
	err       error
	stopped   atomic.Bool
}

// Start creates the lab's simulation on surface and schedules its first
// frame. A nil lab, or a surface without a context or an area, yields an
// inert controller that has already stopped; Err reports why.
func Start(surface Surface, lab Lab, sched Scheduler, host Host, opts ...Option) *Controller {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Controller{
		lab:       lab,
		surface:   surface,
		sched:     sched,
		host:      host,
		log:       o.logger,
		maxStep:   o.maxStep,
		firstStep: o.firstStep,
		observers: o.observers,
	}

	if lab == nil {
		c.halt(ErrNoLab)
		return c
	}
	c.log = c.log.With("lab", lab.Name())

	params, err := control.NewParams(lab.Controls())
	if err != nil {
		c.halt(fmt.Errorf("engine: lab %s: %w", lab.Name(), err))
		return c
	}
	for name, v := range o.overrides {
		if _, err := params.Set(name, v); err != nil {
			c.log.Warn("ignoring override", "control", name, "err", err)
		}
	}
	c.params = params

	if surface == nil || surface.Size().Empty() || surface.Context() == nil {
		c.log.Debug("surface unavailable, controller inert")
		c.halt(ErrNoSurface)
		return c
	}
	c.dc = surface.Context()
	c.snapshot = params.Clone()

	if kb, ok := lab.(KeyBound); ok {
		for _, as := range kb.Axes() {
			sp, ok := params.Spec(as.Param)
			if !ok {
				c.log.Warn("key axis for unknown control", "control", as.Param)
				continue
			}
			a := control.NewAxis(as, sp)
			a.Set(params.Get(as.Param))
			c.axes = append(c.axes, a)
		}
	}

	rng := o.rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	c.sim = lab.New(Env{Size: surface.Size(), Params: c.snapshot, Rand: rng})

	if host != nil {
		c.listeners = append(c.listeners, host.AddListener(EventResize, c.onResize))
		if len(c.axes) > 0 {
			c.listeners = append(c.listeners,
				host.AddListener(EventKeyDown, c.onKey),
				host.AddListener(EventKeyUp, c.onKey),
			)
		}
	}

	c.mu.Lock()
	c.token = sched.Schedule(c.frame)
	c.scheduled = true
	c.mu.Unlock()

	c.log.Debug("controller started", "size", surface.Size(), "axes", len(c.axes))
	return c
}

func (c *Controller) halt(err error) {
	c.err = err
	c.stopped.Store(true)
}

func (c *Controller) Lab() Lab { return c.lab }

// SetControl stores the clamped value for the next frame. It never waits on
// a frame in progress. Writing a key-bound parameter moves its axis too.
func (c *Controller) SetControl(name string, v float64) error {
	c.pmu.Lock()
	defer c.pmu.Unlock()
	if c.params == nil {
		return c.err
	}
	v, err := c.params.Set(name, v)
	if err != nil {
		return err
	}
	for _, a := range c.axes {
		if a.Param() == name {
			a.Set(v)
		}
	}
	return nil
}

func (c *Controller) Control(name string) (float64, bool) {
	c.pmu.Lock()
	defer c.pmu.Unlock()
	if c.params == nil {
		return 0, false
	}
	return c.params.Lookup(name)
}

// Controls returns a copy of the current parameter values.
func (c *Controller) Controls() map[string]float64 {
	c.pmu.Lock()
	defer c.pmu.Unlock()
	if c.params == nil {
		return nil
	}
	return c.params.Values()
}

// Stop cancels the pending frame and removes the controller's listeners.
// Later calls do nothing.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	first := !c.stopped.Swap(true)
	if c.scheduled {
		c.sched.Cancel(c.token)
		c.scheduled = false
	}
	for _, id := range c.listeners {
		c.host.RemoveListener(id)
	}
	c.listeners = nil
	if first && c.err == nil {
		c.log.Debug("controller stopped")
	}
}

// Stopped reports whether the loop will run no more frames.
func (c *Controller) Stopped() bool { return c.stopped.Load() }

// Err is nil while running and after a clean Stop. It reports ErrNoSurface
// for an inert controller and a *FrameError after a render fault.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Controller) Stats() Stats {
	c.fmu.Lock()
	defer c.fmu.Unlock()
	return c.stats
}

// Readouts reports the sim's derived values as of the last frame.
func (c *Controller) Readouts() []Readout {
	c.fmu.Lock()
	defer c.fmu.Unlock()
	if c.sim == nil {
		return nil
	}
	return c.sim.Readouts()
}

// Series returns the sim's chart history, if it keeps one.
func (c *Controller) Series() []Series {
	c.fmu.Lock()
	defer c.fmu.Unlock()
	if s, ok := c.sim.(Serieser); ok {
		return s.Series()
	}
	return nil
}

// AddObserver registers obs to be called after each rendered frame, on the
// frame goroutine. Observers may call Stop but not Stats or Readouts.
func (c *Controller) AddObserver(obs Observer) {
	c.fmu.Lock()
	defer c.fmu.Unlock()
	c.observers = append(c.observers, obs)
}

// Axes exposes the key axes' states, mostly for display.
func (c *Controller) Axes() []control.AxisState {
	c.pmu.Lock()
	defer c.pmu.Unlock()
	out := make([]control.AxisState, len(c.axes))
	for i, a := range c.axes {
		out[i] = a.State()
	}
	return out
}

func (c *Controller) onKey(ev Event) {
	c.pmu.Lock()
	defer c.pmu.Unlock()
	for _, a := range c.axes {
		if ev.Kind == EventKeyDown {
			a.KeyDown(ev.Key)
		} else {
			a.KeyUp(ev.Key)
		}
	}
}

func (c *Controller) onResize(Event) {
	if c.stopped.Load() {
		return
	}
	size := c.surface.Size()
	if size.Empty() {
		return
	}
	c.fmu.Lock()
	defer c.fmu.Unlock()
	if dc := c.surface.Context(); dc != nil {
		c.dc = dc
	}
	c.sim.Resize(size)
}

func (c *Controller) frame(now time.Time) {
	c.fmu.Lock()
	defer c.fmu.Unlock()

	c.mu.Lock()
	c.scheduled = false
	c.mu.Unlock()
	if c.stopped.Load() {
		return
	}

	dt := c.firstStep
	if !c.last.IsZero() {
		dt = now.Sub(c.last)
	}
	c.last = now
	clamped := false
	if dt < 0 {
		dt, clamped = 0, true
	} else if dt > c.maxStep {
		dt, clamped = c.maxStep, true
	}

	c.pmu.Lock()
	for _, a := range c.axes {
		c.params.Set(a.Param(), a.Tick())
	}
	c.snapshot.CopyFrom(c.params)
	c.pmu.Unlock()

	readouts, err := c.step(dt)
	if err != nil {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		c.log.Error("frame loop halted", "err", err)
		c.Stop()
		return
	}

	c.stats.observe(dt, clamped)
	c.index++
	f := Frame{Index: c.index, DT: dt, Elapsed: c.stats.Elapsed, Context: c.dc, Readouts: readouts}
	for _, obs := range c.observers {
		obs.OnFrame(f)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped.Load() {
		return
	}
	c.token = c.sched.Schedule(c.frame)
	c.scheduled = true
}

// step runs one update and render, turning a panic into a FrameError.
// Readouts are collected only when someone is watching.
func (c *Controller) step(dt time.Duration) (readouts []Readout, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &FrameError{
				Frame:   c.index + 1,
				Elapsed: c.stats.Elapsed,
				Cause:   r,
				Wrapped: ErrRenderFault,
			}
		}
	}()
	c.sim.Update(dt.Seconds(), c.snapshot)
	c.sim.Render(c.dc)
	if len(c.observers) > 0 {
		readouts = c.sim.Readouts()
	}
	return readouts, nil
}
