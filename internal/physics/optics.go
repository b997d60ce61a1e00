package physics

import "math"

// Refractive indices of the media the optics bench offers.
var Media = []struct {
	Name  string
	Index float64
}{
	{"air", 1.0},
	{"water", 1.33},
	{"glass", 1.5},
}

// Index returns the refractive index of the named medium, or 1.
func Index(medium string) float64 {
	for _, m := range Media {
		if m.Name == medium {
			return m.Index
		}
	}
	return 1
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }
func deg(r float64) float64   { return r * 180 / math.Pi }

// Refract applies Snell's law for a ray going from n1 into n2 at incidence
// angle i. When sin(i)*n1/n2 exceeds 1 there is no refracted ray and tir is
// true.
func Refract(n1, n2, i float64) (r float64, tir bool) {
	s := math.Sin(rad(i)) * n1 / n2
	if s > 1 || s < -1 {
		return 0, true
	}
	return deg(math.Asin(s)), false
}

// CriticalAngle is the incidence angle beyond which light inside n1 is
// totally reflected at an n2 boundary. ok is false when n1 <= n2.
func CriticalAngle(n1, n2 float64) (float64, bool) {
	if n1 <= n2 {
		return 0, false
	}
	return deg(math.Asin(n2 / n1)), true
}

// Malus returns the intensity passed by a polarizer at theta degrees to the
// light's polarization.
func Malus(i0, theta float64) float64 {
	c := math.Cos(rad(theta))
	return i0 * c * c
}

// Polarizers gives the intensity after an ideal polarizer and then an
// analyser, both in degrees, for unpolarized input of unit intensity.
// The first stage follows the lab's display convention cos^2(p).
func Polarizers(p, a float64) (afterPolarizer, afterAnalyser float64) {
	afterPolarizer = Malus(1, p)
	afterAnalyser = Malus(afterPolarizer, a-p)
	return
}

// ThinLens solves 1/v - 1/u = 1/f with the sign convention that objects sit
// at negative u. It returns the image distance and magnification; ok is
// false when the object is at the focal point.
func ThinLens(f, u float64) (v, m float64, ok bool) {
	d := 1/f + 1/u
	if math.Abs(d) < 1e-12 {
		return math.Inf(1), 0, false
	}
	v = 1 / d
	return v, v / u, true
}

// Spectrum is the visible band a prism separates, violet first, with each
// colour's spread relative to green.
var Spectrum = []struct {
	Name   string
	Hex    string
	Offset float64
}{
	{"V", "#7f00ff", -40},
	{"I", "#4b0082", -25},
	{"B", "#0000ff", -12},
	{"G", "#00ff00", 0},
	{"Y", "#ffff00", 12},
	{"O", "#ff7f00", 25},
	{"R", "#ff0000", 40},
}
