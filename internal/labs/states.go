package labs

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/physlab/internal/control"
	"github.com/san-kum/physlab/internal/draw"
	"github.com/san-kum/physlab/internal/engine"
	"github.com/san-kum/physlab/internal/physics"
)

const (
	statesW = 900.0
	statesH = 380.0

	// particle box and heating curve panels, each boxW x boxH
	boxW        = 420.0
	boxH        = 300.0
	boxX        = 20.0
	curveX      = 460.0
	panelY      = 50.0
	molecules   = 40
	moleculeR   = 3.0
	solidJiggle = 0.4
)

type States struct{}

func (States) Name() string  { return "states" }
func (States) Title() string { return "States of Matter and the Heating Curve" }

func (States) Controls() []control.Spec {
	return []control.Spec{
		{Name: "heat", Label: "Temperature", Unit: "C", Kind: control.Number, Min: physics.CurveMin, Max: physics.CurveMax, Step: 1, Default: 20},
	}
}

func (States) New(env engine.Env) engine.Sim {
	s := &statesSim{rng: env.Rand, curve: physics.HeatingCurve()}
	s.Resize(env.Size)
	s.temp = env.Params.Get("heat")
	for i := range s.mols {
		m := &s.mols[i]
		m.x, m.y = s.rng.Float64()*boxW, s.rng.Float64()*boxH
		m.x0, m.y0 = m.x, m.y
		m.angle = s.rng.Float64() * 2 * math.Pi
	}
	return s
}

type molecule struct {
	x, y, x0, y0 float64
	angle        float64
}

type statesSim struct {
	v     view
	rng   *rand.Rand
	curve []physics.CurvePoint

	temp float64
	mols [molecules]molecule
}

func (s *statesSim) Resize(sz draw.Size) { s.v = fit(sz, statesW, statesH) }

func (s *statesSim) Update(dt float64, p *control.Params) {
	s.temp = p.Get("heat")
	phase := physics.PhaseAt(s.temp)
	step := physics.ParticleSpeed(s.temp) * dt * 60

	for i := range s.mols {
		m := &s.mols[i]
		switch phase {
		case physics.Solid:
			m.x = m.x0 + (s.rng.Float64()-0.5)*solidJiggle
			m.y = m.y0 + (s.rng.Float64()-0.5)*solidJiggle
		case physics.Liquid:
			m.angle += (s.rng.Float64() - 0.5) * 0.05
			m.x = physics.Clamp(m.x+math.Cos(m.angle)*step, moleculeR, boxW-moleculeR)
			m.y = physics.Clamp(m.y+math.Sin(m.angle)*step, moleculeR, boxH-moleculeR)
			m.x0, m.y0 = m.x, m.y
		default:
			m.x += math.Cos(m.angle) * step
			m.y += math.Sin(m.angle) * step
			if m.x < moleculeR || m.x > boxW-moleculeR {
				m.angle = math.Pi - m.angle
				m.x = physics.Clamp(m.x, moleculeR, boxW-moleculeR)
			}
			if m.y < moleculeR || m.y > boxH-moleculeR {
				m.angle = -m.angle
				m.y = physics.Clamp(m.y, moleculeR, boxH-moleculeR)
			}
			m.x0, m.y0 = m.x, m.y
		}
	}
}

// Phase is the state of matter at the current temperature.
func (s *statesSim) Phase() physics.Phase { return physics.PhaseAt(s.temp) }

func (s *statesSim) Render(dc draw.Context) {
	dc.Clear(palette.bg)
	p := pen{dc: dc, v: s.v}

	p.fill(palette.text)
	p.text(boxX, panelY-14, 14, "particle motion")
	p.text(curveX, panelY-14, 14, "heating curve")

	p.stroke(palette.accent, 1)
	p.rect(boxX, panelY, boxW, boxH)
	p.fill(palette.accent)
	for _, m := range s.mols {
		p.fillCircle(boxX+m.x, panelY+m.y, moleculeR)
	}

	s.renderCurve(p)
}

// curveXY maps a curve sample into the right-hand panel.
func curveXY(i int, temp float64) (x, y float64) {
	x = curveX + 50 + float64(i)*3
	y = panelY + boxH - 40 - (temp-physics.CurveMin)/(physics.CurveMax-physics.CurveMin)*(boxH-80)
	return x, y
}

func (s *statesSim) renderCurve(p pen) {
	p.stroke(palette.gold, 1)
	p.rect(curveX, panelY, boxW, boxH)

	axisX, axisY := curveX+50, panelY+boxH-40
	p.stroke(palette.dim, 1)
	p.line(axisX, panelY+20, axisX, axisY)
	p.line(axisX, axisY, curveX+boxW-20, axisY)
	p.fill(palette.text)
	for _, t := range []float64{-20, 0, 50, 100, 140} {
		_, y := curveXY(0, t)
		p.line(axisX-3, y, axisX+3, y)
		p.text(curveX+12, y+4, 12, fmt.Sprintf("%.0f", t))
	}
	p.text(curveX+boxW-150, panelY+boxH-10, 12, "heat supplied ->")

	idx := physics.CurveIndex(s.temp, len(s.curve))
	pts := make([]draw.Point, 0, idx+1)
	for i := 0; i <= idx; i++ {
		x, y := curveXY(i, s.curve[i].Temp)
		pts = append(pts, draw.Point{X: x, Y: y})
	}
	p.stroke(palette.gold, 2)
	p.polyline(pts...)

	x, y := curveXY(idx, s.curve[idx].Temp)
	p.fill(palette.bad)
	p.fillCircle(x, y, 4)
	p.fill(palette.text)
	p.text(x-25, y-10, 14, s.Phase().String())
	p.text(20, 24, 16, fmt.Sprintf("%.0f C", s.temp))
}

func (s *statesSim) Readouts() []engine.Readout {
	return []engine.Readout{
		{Label: "temperature", Value: s.temp, Unit: "C"},
		{Label: "phase", Text: s.Phase().String()},
		{Label: "speed", Value: physics.ParticleSpeed(s.temp)},
	}
}
