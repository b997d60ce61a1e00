package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Bin is one line of a one-sided amplitude spectrum.
type Bin struct {
	Freq      float64
	Amplitude float64
}

// Spectrum returns the amplitude spectrum of evenly spaced samples taken
// dt seconds apart. The mean is removed first so a constant offset does
// not swamp bin zero.
func Spectrum(values []float64, dt float64) []Bin {
	n := len(values)
	if n < 4 || dt <= 0 {
		return nil
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	centred := make([]float64, n)
	for i, v := range values {
		// Hann window
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		centred[i] = (v - mean) * w
	}

	coeffs := fft.FFTReal(centred)
	bins := make([]Bin, n/2)
	for k := range bins {
		bins[k] = Bin{
			Freq:      float64(k) / (float64(n) * dt),
			Amplitude: 2 * cmplx.Abs(coeffs[k]) / float64(n),
		}
	}
	return bins
}

// Dominant returns the frequency of the strongest non-zero bin, refined by
// fitting a parabola through it and its neighbours. ok is false for flat or
// too short input.
func Dominant(values []float64, dt float64) (freq float64, ok bool) {
	bins := Spectrum(values, dt)
	if len(bins) < 3 {
		return 0, false
	}
	peak := 1
	for k := 2; k < len(bins); k++ {
		if bins[k].Amplitude > bins[peak].Amplitude {
			peak = k
		}
	}
	if bins[peak].Amplitude < 1e-12 {
		return 0, false
	}

	step := bins[1].Freq
	freq = bins[peak].Freq
	if peak+1 < len(bins) {
		a, b, c := bins[peak-1].Amplitude, bins[peak].Amplitude, bins[peak+1].Amplitude
		if d := a - 2*b + c; d != 0 {
			shift := 0.5 * (a - c) / d
			if math.Abs(shift) <= 0.5 {
				freq += shift * step
			}
		}
	}
	return freq, true
}
