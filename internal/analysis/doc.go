// Package analysis inspects recorded readout traces.
//
//   - [Spectrum] and [Dominant]: frequency content of a readout
//   - [Crossings] and [Period]: upward crossings of a level, interpolated
//     between samples
//   - [NewPortrait] and [Portrait.ASCII]: one readout plotted against another
//
// A pendulum's measured period can be checked against its own readout:
//
//	f, ok := analysis.Dominant(angle, 1.0/60)
//	if ok {
//	    fmt.Printf("%.3f s\n", 1/f)
//	}
package analysis
