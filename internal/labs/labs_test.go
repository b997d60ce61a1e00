package labs

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/san-kum/physlab/internal/control"
	"github.com/san-kum/physlab/internal/draw"
	"github.com/san-kum/physlab/internal/engine"
	"github.com/san-kum/physlab/internal/physics"
)

const step = 1.0 / 60

var benchSize = draw.Size{W: 700, H: 420}

type bench struct {
	sim    engine.Sim
	params *control.Params
}

func newBench(t *testing.T, lab engine.Lab, set map[string]float64) *bench {
	t.Helper()
	p, err := control.NewParams(lab.Controls())
	if err != nil {
		t.Fatalf("%s: NewParams: %v", lab.Name(), err)
	}
	for k, v := range set {
		if _, err := p.Set(k, v); err != nil {
			t.Fatalf("%s: set %s: %v", lab.Name(), k, err)
		}
	}
	env := engine.Env{Size: benchSize, Params: p.Clone(), Rand: rand.New(rand.NewSource(7))}
	return &bench{sim: lab.New(env), params: p}
}

func (b *bench) set(t *testing.T, name string, v float64) {
	t.Helper()
	if _, err := b.params.Set(name, v); err != nil {
		t.Fatalf("set %s: %v", name, err)
	}
}

func (b *bench) run(n int) {
	for i := 0; i < n; i++ {
		b.sim.Update(step, b.params)
	}
}

func (b *bench) render() []draw.Command {
	l := draw.NewList(benchSize)
	b.sim.Render(l)
	return l.Commands()
}

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	names := r.List()
	if len(names) != 19 {
		t.Fatalf("expected 19 labs, got %d", len(names))
	}
	for i, lab := range r.Labs() {
		if lab.Name() != names[i] {
			t.Errorf("lab %d registered as %q but named %q", i, names[i], lab.Name())
		}
		if lab.Title() == "" {
			t.Errorf("%s has no title", lab.Name())
		}
	}

	if _, err := r.Get("alchemy"); !errors.Is(err, ErrUnknownLab) {
		t.Errorf("expected ErrUnknownLab, got %v", err)
	}
	lab, err := r.Get("gates")
	if err != nil || lab.Name() != "gates" {
		t.Errorf("Get(gates) = %v, %v", lab, err)
	}
}

func TestRendersArePure(t *testing.T) {
	for _, lab := range NewRegistry().Labs() {
		t.Run(lab.Name(), func(t *testing.T) {
			a := newBench(t, lab, nil)
			b := newBench(t, lab, nil)
			a.run(20)
			b.run(20)

			first := a.render()
			if len(first) == 0 || first[0].Op != draw.OpClear {
				t.Fatalf("render must start with a clear, got %v", first)
			}
			if again := a.render(); !reflect.DeepEqual(first, again) {
				t.Error("rendering the same state twice differs")
			}
			if other := b.render(); !reflect.DeepEqual(first, other) {
				t.Error("same seed and inputs rendered differently")
			}
			if len(a.sim.Readouts()) == 0 {
				t.Error("no readouts")
			}
		})
	}
}

func TestResizeKeepsDrawing(t *testing.T) {
	for _, lab := range NewRegistry().Labs() {
		b := newBench(t, lab, nil)
		b.sim.Resize(draw.Size{W: 200, H: 900})
		b.run(1)
		for _, c := range b.render() {
			lo, hi := c.Bounds()
			if math.IsNaN(lo.X) || math.IsNaN(lo.Y) || math.IsNaN(hi.X) || math.IsNaN(hi.Y) {
				t.Fatalf("%s drew a NaN %s", lab.Name(), c.Op)
			}
		}
	}
}

func TestRefraction(t *testing.T) {
	tests := []struct {
		name    string
		from    float64
		to      float64
		angle   float64
		want    float64
		wantTIR bool
	}{
		{"air to water", 0, 1, 40, 28.90, false},
		{"air to glass", 0, 2, 40, 25.37, false},
		{"glass to air", 2, 0, 45, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBench(t, Optics{}, map[string]float64{"from": tt.from, "to": tt.to, "angle": tt.angle})
			b.run(1)
			s := b.sim.(*opticsSim)
			if s.TotalInternalReflection() != tt.wantTIR {
				t.Fatalf("tir = %v, want %v", s.TotalInternalReflection(), tt.wantTIR)
			}
			if !tt.wantTIR && !near(s.refracted, tt.want, 0.01) {
				t.Errorf("refracted = %.3f, want %.2f", s.refracted, tt.want)
			}
		})
	}
}

func TestRefractionLightSurvivesMediumChange(t *testing.T) {
	b := newBench(t, Optics{}, nil)
	b.run(1)
	b.set(t, "to", 2)
	b.run(1)
	if !b.sim.(*opticsSim).light {
		t.Error("changing the medium turned the light off")
	}
}

func TestCircuit(t *testing.T) {
	b := newBench(t, Circuit{}, map[string]float64{"connected": 1, "voltage": 10, "resistance": 5})
	b.run(1)
	s := b.sim.(*circuitSim)
	if s.Current() != 2 {
		t.Errorf("current = %v, want 2", s.Current())
	}

	flow := s.flow
	b.set(t, "connected", 0)
	b.run(30)
	if s.Current() != 0 {
		t.Errorf("open circuit current = %v", s.Current())
	}
	if s.flow != flow {
		t.Error("flow markers moved while the switch was open")
	}
}

func TestGates(t *testing.T) {
	tests := []struct {
		gate int
		a, b float64
		want bool
	}{
		{0, 1, 0, false}, // AND
		{2, 1, 0, true},  // NAND
		{4, 1, 1, false}, // XOR
		{5, 0, 1, true},  // NOT ignores B
	}
	for _, tt := range tests {
		name := physics.Gates[tt.gate]
		t.Run(name, func(t *testing.T) {
			b := newBench(t, Gates{}, map[string]float64{"gate": float64(tt.gate), "a": tt.a, "b": tt.b})
			b.run(1)
			if got := b.sim.(*gatesSim).Output(); got != tt.want {
				t.Errorf("%s(%v, %v) = %v, want %v", name, tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestGravity(t *testing.T) {
	b := newBench(t, Gravity{}, nil)
	b.run(1)
	s := b.sim.(*gravitySim)
	if !near(s.Force(), 0.016667, 1e-6) {
		t.Errorf("force = %v, want 0.016667", s.Force())
	}
	if r := s.strength(); r < 0 || r > 1 {
		t.Errorf("strength %v outside [0,1]", r)
	}

	b.set(t, "distance", 20)
	b.set(t, "m1", 10)
	b.set(t, "m2", 10)
	b.run(1)
	if s.strength() != 1 {
		t.Errorf("strongest setting gives %v", s.strength())
	}
}

func TestFaraday(t *testing.T) {
	axes := Faraday{}.Axes()
	if len(axes) != 1 || axes[0].Param != "drive" || axes[0].Return != 0.02 {
		t.Fatalf("unexpected axes %+v", axes)
	}

	b := newBench(t, Faraday{}, nil)
	s := b.sim.(*faradaySim)
	b.run(5)
	if s.Current() != 0 {
		t.Errorf("resting magnet induced %v", s.Current())
	}

	b.set(t, "drive", 1)
	b.run(20)
	if s.Current() <= 0 {
		t.Errorf("approaching magnet should induce positive current, got %v", s.Current())
	}
	if !s.moving() {
		t.Error("driven magnet is not moving")
	}

	b.set(t, "drive", 0)
	b.run(30)
	if math.Abs(s.Current()) > 1e-3 {
		t.Errorf("current did not decay at rest: %v", s.Current())
	}

	b.set(t, "drive", 1)
	b.run(600)
	if s.x != magnetMax || s.vel != 0 {
		t.Errorf("magnet left its rail: x=%v vel=%v", s.x, s.vel)
	}
	if math.Abs(s.Current()) > 1 {
		t.Errorf("current %v outside [-1,1]", s.Current())
	}
}

func TestFaraday_SetDriveReachesSim(t *testing.T) {
	sched := engine.NewManualScheduler(time.Unix(0, 0))
	c := engine.Start(draw.NewSurface(benchSize.W, benchSize.H), Faraday{}, sched, engine.NewWindow())
	defer c.Stop()

	drive := func() float64 {
		for _, r := range c.Readouts() {
			if r.Label == "drive" {
				return r.Value
			}
		}
		t.Fatal("no drive readout")
		return 0
	}

	sched.Advance(16 * time.Millisecond)
	if err := c.SetControl("drive", 0.5); err != nil {
		t.Fatal(err)
	}
	sched.Advance(16 * time.Millisecond)
	if got := drive(); got != 0.5 {
		t.Errorf("sim saw drive %v, want 0.5", got)
	}
	sched.Advance(16 * time.Millisecond)
	if got := drive(); !near(got, 0.48, 1e-9) {
		t.Errorf("drive after one decay frame = %v, want 0.48", got)
	}
}

func TestPolarization(t *testing.T) {
	b := newBench(t, Polarization{}, nil)
	b.run(1)
	i1, i2 := b.sim.(*polarSim).Intensities()
	c20, c40 := math.Cos(20*math.Pi/180), math.Cos(40*math.Pi/180)
	if !near(i1, c20*c20, 1e-9) || !near(i2, c20*c20*c40*c40, 1e-9) {
		t.Errorf("intensities = %v, %v", i1, i2)
	}
}

func TestCharles(t *testing.T) {
	b := newBench(t, Charles{}, nil)
	s := b.sim.(*charlesSim)
	cold := s.target

	b.set(t, "temperature", 0.6)
	b.run(1)
	if s.target <= cold {
		t.Errorf("heating did not raise the target volume: %v -> %v", cold, s.target)
	}
	b.run(300)
	if !near(s.Volume(), s.target, 0.5) {
		t.Errorf("volume %v did not settle at %v", s.Volume(), s.target)
	}
	for i, a := range s.atoms {
		if a.x < cylLeft || a.x > cylLeft+cylWidth || a.y < s.top() || a.y > cylBottom {
			t.Fatalf("atom %d escaped: %+v", i, a)
		}
	}

	b.set(t, "temperature", 1)
	b.set(t, "load", 0.1)
	b.run(300)
	if s.Volume() > maxVolume {
		t.Errorf("piston left the cylinder: %v", s.Volume())
	}
}

func TestRadiationShield(t *testing.T) {
	b := newBench(t, Radiation{}, map[string]float64{"beta": 1, "gamma": 1, "shield": 1})
	b.run(1)
	s := b.sim.(*radiationSim)
	want := map[physics.Particle]string{
		physics.Alpha: "paper",
		physics.Beta:  "aluminium",
		physics.Gamma: "",
	}
	for p, stop := range want {
		if got := s.Stopped(p); got != stop {
			t.Errorf("%s stopped by %q, want %q", p, got, stop)
		}
	}

	b.set(t, "shield", 0)
	b.run(1)
	if got := s.Stopped(physics.Alpha); got != "" {
		t.Errorf("alpha stopped by %q with no shield", got)
	}
}

func TestPendulum(t *testing.T) {
	b := newBench(t, Pendulum{}, nil)
	s := b.sim.(*pendulumSim)
	e0 := s.model.Energy(s.x)
	b.run(300)
	if e := s.model.Energy(s.x); math.Abs(e-e0)/e0 > 1e-4 {
		t.Errorf("energy drifted from %v to %v", e0, e)
	}
	if n := len(s.Series()[2].Values); n != 240 {
		t.Errorf("history holds %d samples, want 240", n)
	}

	b.set(t, "amplitude", 50)
	b.run(1)
	if n := len(s.Series()[0].Values); n != 1 {
		t.Errorf("restart kept %d samples", n)
	}

	b.set(t, "running", 0)
	angle := s.Angle()
	b.run(10)
	if s.Angle() != angle {
		t.Error("paused pendulum moved")
	}
}

func TestProjectile(t *testing.T) {
	b := newBench(t, Projectile{}, map[string]float64{"angle": 80, "speed": 60})
	b.run(1)
	s := b.sim.(*projectileSim)
	if s.Speed() != physics.MaxSpeed(80) {
		t.Errorf("speed %v not capped to %v", s.Speed(), physics.MaxSpeed(80))
	}
	if s.flight.Range() > physics.MaxRange+1e-9 || s.flight.Apex() > physics.MaxHeight+1e-9 {
		t.Errorf("capped flight leaves the bench: range %v apex %v", s.flight.Range(), s.flight.Apex())
	}

	b.set(t, "launch", 1)
	b.run(1)
	if s.finished || s.t <= 0 {
		t.Fatalf("flight did not start: t=%v", s.t)
	}
	b.run(600)
	if !s.finished || s.t != s.flight.Duration() {
		t.Errorf("flight did not land: t=%v", s.t)
	}

	b.set(t, "launch", 0)
	b.run(1)
	if s.t != 0 || s.finished {
		t.Error("turning launch off did not reset")
	}
}

func TestWave(t *testing.T) {
	b := newBench(t, Wave{}, nil)
	b.run(1)
	s := b.sim.(*waveSim)
	if s.Kind() != physics.Destructive {
		t.Errorf("defaults classify as %s", s.Kind())
	}
	b.set(t, "phase", 0)
	b.run(1)
	if s.Kind() != physics.Constructive {
		t.Errorf("in phase classifies as %s", s.Kind())
	}
}

func TestWires(t *testing.T) {
	axes := Wires{}.Axes()
	if len(axes) != 1 || axes[0].Return != 0 {
		t.Fatalf("intensity axis should latch, got %+v", axes)
	}

	b := newBench(t, Wires{}, nil)
	b.run(1)
	s := b.sim.(*wiresSim)
	if s.Force() <= 0 {
		t.Errorf("same direction should attract, force %v", s.Force())
	}
	if l, r := s.bends(); l <= 0 || r >= 0 {
		t.Errorf("attracting wires bow apart: %v %v", l, r)
	}

	b.set(t, "direction", 1)
	b.run(1)
	if s.Force() >= 0 {
		t.Errorf("opposite currents should repel, force %v", s.Force())
	}
}
