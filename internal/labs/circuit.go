package labs

import (
	"fmt"
	"math"

	"github.com/san-kum/physlab/internal/control"
	"github.com/san-kum/physlab/internal/draw"
	"github.com/san-kum/physlab/internal/engine"
	"github.com/san-kum/physlab/internal/physics"
)

const (
	circuitW = 700.0
	circuitH = 420.0
	maxAmps  = 24.0
)

type Circuit struct{}

func (Circuit) Name() string  { return "circuit" }
func (Circuit) Title() string { return "Ohm's Law Circuit" }

func (Circuit) Controls() []control.Spec {
	return []control.Spec{
		{Name: "connected", Label: "Switch", Kind: control.Toggle},
		{Name: "resistance", Label: "Resistance", Unit: "ohm", Kind: control.Number, Min: 1, Max: 50, Step: 1, Default: 10},
		{Name: "voltage", Label: "Battery", Unit: "V", Kind: control.Number, Min: 1, Max: 24, Step: 1, Default: 10},
	}
}

func (Circuit) New(env engine.Env) engine.Sim {
	s := &circuitSim{
		ammeter:   newNeedle(6, 0.6),
		voltmeter: newNeedle(6, 0.6),
	}
	s.Resize(env.Size)
	s.read(env.Params)
	return s
}

type circuitSim struct {
	v view

	closed  bool
	r, volt float64
	current float64
	flow    float64

	ammeter   needle
	voltmeter needle
}

func (s *circuitSim) Resize(sz draw.Size) { s.v = fit(sz, circuitW, circuitH) }

func (s *circuitSim) read(p *control.Params) {
	s.closed = p.Bool("connected")
	s.r = p.Get("resistance")
	s.volt = p.Get("voltage")
	s.current = physics.Current(s.volt, s.r, s.closed)
}

// Current is the steady current through the loop in amperes.
func (s *circuitSim) Current() float64 { return s.current }

func (s *circuitSim) Update(dt float64, p *control.Params) {
	s.read(p)
	if s.closed {
		s.flow = math.Mod(s.flow+dt*(0.1+s.current/maxAmps), 1)
	}
	s.ammeter.step(dt, s.current/maxAmps)
	potential := 0.0
	if s.closed {
		potential = s.volt
	}
	s.voltmeter.step(dt, potential/24)
}

// loop is the circuit path, clockwise from the battery's positive terminal.
var loop = []draw.Point{{X: 120, Y: 100}, {X: 580, Y: 100}, {X: 580, Y: 320}, {X: 120, Y: 320}, {X: 120, Y: 100}}

func pointOnLoop(f float64) draw.Point {
	var total float64
	for i := 1; i < len(loop); i++ {
		total += math.Hypot(loop[i].X-loop[i-1].X, loop[i].Y-loop[i-1].Y)
	}
	d := f * total
	for i := 1; i < len(loop); i++ {
		a, b := loop[i-1], loop[i]
		seg := math.Hypot(b.X-a.X, b.Y-a.Y)
		if d <= seg {
			k := d / seg
			return draw.Point{X: a.X + (b.X-a.X)*k, Y: a.Y + (b.Y-a.Y)*k}
		}
		d -= seg
	}
	return loop[0]
}

func (s *circuitSim) Render(dc draw.Context) {
	dc.Clear(palette.bg)
	p := pen{dc: dc, v: s.v}

	wire := palette.dim
	if s.closed {
		wire = palette.copper
	}
	p.stroke(wire, 4)
	p.polyline(loop...)

	// battery on the left leg
	p.fill(palette.bg)
	p.fillRect(100, 180, 40, 60)
	p.stroke(palette.text, 4)
	p.line(95, 195, 145, 195)
	p.stroke(palette.text, 2)
	p.line(105, 225, 135, 225)
	p.fill(palette.text)
	p.text(150, 215, 13, fmt.Sprintf("%.0f V", s.volt))

	// resistor zigzag on the top leg
	p.fill(palette.bg)
	p.fillRect(300, 90, 100, 20)
	zig := []draw.Point{{X: 300, Y: 100}}
	for k := 0; k < 8; k++ {
		y := 90.0
		if k%2 == 1 {
			y = 110
		}
		zig = append(zig, draw.Point{X: 306 + float64(k)*12.5, Y: y})
	}
	zig = append(zig, draw.Point{X: 400, Y: 100})
	p.stroke(palette.warm, 3)
	p.polyline(zig...)
	p.fill(palette.text)
	p.text(320, 80, 13, fmt.Sprintf("R = %.0f ohm", s.r))

	// switch on the bottom leg
	p.fill(palette.bg)
	p.fillRect(320, 300, 60, 40)
	p.fill(palette.text)
	p.fillCircle(320, 320, 4)
	p.fillCircle(380, 320, 4)
	p.stroke(palette.text, 3)
	if s.closed {
		p.line(320, 320, 380, 320)
	} else {
		p.line(320, 320, 372, 290)
	}

	if s.closed {
		const markers = 12
		for k := 0; k < markers; k++ {
			q := pointOnLoop(math.Mod(s.flow+float64(k)/markers, 1))
			p.fill(palette.beam)
			p.fillCircle(q.X, q.Y, 3.5)
		}
	}

	p.dial(250, 220, 50, s.ammeter.pos*2-1, palette.panel, palette.good, fmt.Sprintf("%.2f A", s.current))
	p.dial(450, 220, 50, s.voltmeter.pos*2-1, palette.panel, palette.cool, fmt.Sprintf("%.0f V", s.volt*onOff(s.closed)))
}

func (s *circuitSim) Readouts() []engine.Readout {
	state := "open"
	if s.closed {
		state = "closed"
	}
	return []engine.Readout{
		{Label: "switch", Text: state},
		{Label: "current", Value: s.current, Unit: "A"},
		{Label: "power", Value: s.current * s.current * s.r, Unit: "W"},
	}
}
