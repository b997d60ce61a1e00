package labs

import (
	"fmt"
	"image/color"
	"math"

	"github.com/san-kum/physlab/internal/control"
	"github.com/san-kum/physlab/internal/draw"
	"github.com/san-kum/physlab/internal/engine"
	"github.com/san-kum/physlab/internal/physics"
)

const (
	gatesW = 600.0
	gatesH = 360.0
)

type Gates struct{}

func (Gates) Name() string  { return "gates" }
func (Gates) Title() string { return "Digital Logic Gates" }

func (Gates) Controls() []control.Spec {
	return []control.Spec{
		{Name: "gate", Label: "Gate", Kind: control.Enum, Options: physics.Gates},
		{Name: "a", Label: "Input A", Kind: control.Toggle},
		{Name: "b", Label: "Input B", Kind: control.Toggle},
	}
}

func (Gates) New(env engine.Env) engine.Sim {
	s := &gatesSim{}
	s.Resize(env.Size)
	s.Update(0, env.Params)
	return s
}

type gatesSim struct {
	v     view
	t     float64
	gate  string
	a, b  bool
	out   bool
	table [][3]bool
}

func (s *gatesSim) Resize(sz draw.Size) { s.v = fit(sz, gatesW, gatesH) }

func (s *gatesSim) Update(dt float64, p *control.Params) {
	s.t += dt
	gate := p.Option("gate")
	if gate != s.gate {
		s.table, _ = physics.TruthTable(gate)
	}
	s.gate = gate
	s.a, s.b = p.Bool("a"), p.Bool("b")
	s.out, _ = physics.Gate(s.gate, s.a, s.b)
}

// Output is the gate's current output.
func (s *gatesSim) Output() bool { return s.out }

func (s *gatesSim) unary() bool { return s.gate == "NOT" }

func (s *gatesSim) Render(dc draw.Context) {
	dc.Clear(palette.bg)
	p := pen{dc: dc, v: s.v}

	const bodyX, bodyY, bodyW, bodyH = 200.0, 110.0, 130.0, 110.0
	midY := bodyY + bodyH/2

	inputs := []struct {
		name string
		on   bool
		y    float64
	}{{"A", s.a, bodyY + 30}, {"B", s.b, bodyY + bodyH - 30}}
	if s.unary() {
		inputs = inputs[:1]
		inputs[0].y = midY
	}

	for _, in := range inputs {
		s.drawWire(p, 60, in.y, bodyX, in.y, in.on)
		p.fill(levelColor(in.on))
		p.fillCircle(50, in.y, 12)
		p.fill(palette.bg)
		p.text(45, in.y+5, 13, fmt.Sprintf("%d", bit(in.on)))
		p.fill(palette.text)
		p.text(20, in.y+5, 14, in.name)
	}

	p.fill(palette.panel)
	p.fillRect(bodyX, bodyY, bodyW, bodyH)
	p.stroke(palette.accent, 2)
	p.rect(bodyX, bodyY, bodyW, bodyH)
	if s.gate == "NAND" || s.gate == "NOR" || s.gate == "NOT" {
		p.circle(bodyX+bodyW+8, midY, 8)
	}
	p.fill(palette.text)
	p.text(bodyX+bodyW/2-float64(len(s.gate))*6, midY+7, 20, s.gate)

	s.drawWire(p, bodyX+bodyW+16, midY, 440, midY, s.out)

	if s.out {
		p.fill(draw.Alpha(palette.good, 0.25))
		p.fillCircle(460, midY, 30)
	}
	p.fill(levelColor(s.out))
	p.fillCircle(460, midY, 18)
	p.fill(palette.text)
	p.text(440, midY+45, 13, fmt.Sprintf("OUT = %d", bit(s.out)))

	s.drawTable(p, 60, 270)
}

func (s *gatesSim) drawWire(p pen, x1, y1, x2, y2 float64, on bool) {
	p.stroke(levelColor(on), 3)
	p.line(x1, y1, x2, y2)
	if !on {
		return
	}
	// pulses run along a live wire
	n := 4
	for k := 0; k < n; k++ {
		f := math.Mod(s.t*0.7+float64(k)/float64(n), 1)
		p.fill(palette.text)
		p.fillCircle(x1+(x2-x1)*f, y1+(y2-y1)*f, 3)
	}
}

func (s *gatesSim) drawTable(p pen, x, y float64) {
	p.fill(palette.dim)
	header := "A B | OUT"
	if s.unary() {
		header = "A | OUT"
	}
	p.text(x, y, 12, header)
	for i, row := range s.table {
		line := fmt.Sprintf("%d %d |  %d", bit(row[0]), bit(row[1]), bit(row[2]))
		if s.unary() {
			line = fmt.Sprintf("%d |  %d", bit(row[0]), bit(row[2]))
		}
		current := row[0] == s.a && (s.unary() || row[1] == s.b)
		if current {
			p.fill(palette.accent)
		} else {
			p.fill(palette.dim)
		}
		p.text(x+float64(i%2)*110, y+18+float64(i/2)*16, 12, line)
	}
}

func levelColor(on bool) color.RGBA {
	if on {
		return palette.good
	}
	return palette.dim
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *gatesSim) Readouts() []engine.Readout {
	out := []engine.Readout{
		{Label: "gate", Text: s.gate},
		{Label: "A", Value: onOff(s.a), Text: fmt.Sprint(bit(s.a))},
	}
	if !s.unary() {
		out = append(out, engine.Readout{Label: "B", Value: onOff(s.b), Text: fmt.Sprint(bit(s.b))})
	}
	return append(out, engine.Readout{Label: "output", Value: onOff(s.out), Text: fmt.Sprint(bit(s.out))})
}
