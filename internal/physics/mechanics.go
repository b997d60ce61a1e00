package physics

import "math"

const G = 9.8

// Projectile bench limits, metres.
const (
	MaxRange  = 160.0
	MaxHeight = 80.0
)

// MaxSpeed is the fastest launch at angle degrees that keeps the shot inside
// the bench: range at most MaxRange and apex at most MaxHeight.
func MaxSpeed(angle float64) float64 {
	a := rad(angle)
	byRange := math.Sqrt(MaxRange * G / math.Max(math.Sin(2*a), 0.01))
	s := math.Sin(a)
	byHeight := math.Sqrt(2 * G * MaxHeight / math.Max(s*s, 0.01))
	return math.Min(byRange, byHeight)
}

// Flight describes an ideal drag-free projectile.
type Flight struct {
	Speed float64
	Angle float64
}

func (f Flight) velocity() (vx, vy float64) {
	a := rad(f.Angle)
	return f.Speed * math.Cos(a), f.Speed * math.Sin(a)
}

// At returns the position t seconds after launch.
func (f Flight) At(t float64) (x, y float64) {
	vx, vy := f.velocity()
	return vx * t, vy*t - 0.5*G*t*t
}

// Velocity at time t.
func (f Flight) Velocity(t float64) (vx, vy float64) {
	vx, vy = f.velocity()
	return vx, vy - G*t
}

func (f Flight) Duration() float64 {
	_, vy := f.velocity()
	return 2 * vy / G
}

func (f Flight) Range() float64 {
	x, _ := f.At(f.Duration())
	return x
}

func (f Flight) Apex() float64 {
	_, vy := f.velocity()
	return vy * vy / (2 * G)
}
