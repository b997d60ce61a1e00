package labs

import (
	"fmt"

	"github.com/san-kum/physlab/internal/control"
	"github.com/san-kum/physlab/internal/draw"
	"github.com/san-kum/physlab/internal/engine"
	"github.com/san-kum/physlab/internal/physics"
)

const (
	carnotW = 650.0
	carnotH = 520.0

	// plot margins and diagram bounds
	pvLeft   = 70.0
	pvRight  = 30.0
	pvTop    = 40.0
	pvBottom = 70.0
	vMin     = 0.8
	vMax     = 3.4
	pMin     = 0.8
	pMax     = 4.5

	// fraction of a stroke covered per second at speed 1
	strokeRate = 0.6
)

type Carnot struct{}

func (Carnot) Name() string  { return "carnot" }
func (Carnot) Title() string { return "Carnot Cycle P-V Diagram" }

func (Carnot) Controls() []control.Spec {
	return []control.Spec{
		{Name: "running", Label: "Engine running", Kind: control.Toggle, Default: 1},
		{Name: "speed", Label: "Speed", Unit: "x", Kind: control.Number, Min: 0.25, Max: 3, Step: 0.25, Default: 1, Precision: 2},
	}
}

func (Carnot) New(env engine.Env) engine.Sim {
	s := &carnotSim{}
	s.Resize(env.Size)
	return s
}

type carnotSim struct {
	v       view
	leg     int
	t       float64
	cycles  int
	running bool
}

func (s *carnotSim) Resize(sz draw.Size) { s.v = fit(sz, carnotW, carnotH) }

func (s *carnotSim) Update(dt float64, p *control.Params) {
	s.running = p.Bool("running")
	if !s.running {
		return
	}
	s.t += dt * strokeRate * p.Get("speed")
	for s.t >= 1 {
		s.t--
		s.leg = (s.leg + 1) % len(physics.CarnotCycle)
		if s.leg == 0 {
			s.cycles++
		}
	}
}

// State is the working gas's volume and pressure.
func (s *carnotSim) State() (v, p float64) { return physics.CarnotCycle[s.leg].At(s.t) }

func pvX(v float64) float64 { return pvLeft + (v-vMin)/(vMax-vMin)*(carnotW-pvLeft-pvRight) }
func pvY(p float64) float64 { return carnotH - pvBottom - (p-pMin)/(pMax-pMin)*(carnotH-pvTop-pvBottom) }

func (s *carnotSim) Render(dc draw.Context) {
	dc.Clear(palette.bg)
	p := pen{dc: dc, v: s.v}

	base := carnotH - pvBottom
	p.stroke(palette.dim, 2)
	p.line(pvLeft, base, carnotW-pvRight, base)
	p.line(pvLeft, pvTop, pvLeft, base)
	p.fill(palette.text)
	for v := 1.0; v <= 3; v += 0.5 {
		x := pvX(v)
		p.line(x, base, x, base+6)
		p.text(x-10, base+22, 14, fmt.Sprintf("%.1f", v))
	}
	for pr := 1.0; pr <= 4; pr++ {
		y := pvY(pr)
		p.line(pvLeft-6, y, pvLeft, y)
		p.text(pvLeft-35, y+5, 14, fmt.Sprintf("%.1f", pr))
	}
	p.text(carnotW/2-40, carnotH-20, 16, "volume (V)")
	p.text(10, pvTop-10, 16, "pressure (P)")
	p.text(carnotW/2-120, 25, 18, "Carnot cycle P-V diagram")

	p.stroke(palette.bad, 3)
	for _, leg := range physics.CarnotCycle {
		pts := make([]draw.Point, 0, 33)
		for i := 0; i <= 32; i++ {
			v, pr := leg.At(float64(i) / 32)
			pts = append(pts, draw.Point{X: pvX(v), Y: pvY(pr)})
		}
		p.polyline(pts...)
	}

	for i, leg := range physics.CarnotCycle {
		x, y := pvX(leg.From[0]), pvY(leg.From[1])
		p.fill(palette.gold)
		p.fillCircle(x, y, 6)
		p.stroke(palette.bad, 2)
		p.circle(x, y, 6)
		p.fill(palette.text)
		p.text(x+8, y-8, 14, fmt.Sprintf("%c (P%d,V%d)", 'A'+i, i+1, i+1))
	}

	v, pr := s.State()
	p.fill(palette.warm)
	p.fillCircle(pvX(v), pvY(pr), 6)

	p.fill(palette.text)
	p.text(pvLeft+10, pvTop+14, 14, physics.CarnotCycle[s.leg].Name)
	if !s.running {
		p.fill(palette.dim)
		p.text(pvLeft+10, pvTop+32, 14, "paused")
	}
}

func (s *carnotSim) Readouts() []engine.Readout {
	v, p := s.State()
	return []engine.Readout{
		{Label: "volume", Value: v},
		{Label: "pressure", Value: p},
		{Label: "stroke", Text: physics.CarnotCycle[s.leg].Name},
		{Label: "cycles", Value: float64(s.cycles)},
	}
}
