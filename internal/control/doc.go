// Package control provides the control surface of a lab: the named
// parameters a user can adjust, their domains, and the bindings that push
// user actions into a running simulation.
//
//   - [Spec]: a named parameter with a numeric, enum, or toggle domain
//   - [Params]: the value store a simulation reads every frame
//   - [Surface]: binds slider/toggle/enum actions to a [Binding]
//   - [Axis]: key-driven value that rises, falls, and decays back to rest
//
// # Usage
//
//	specs := []control.Spec{
//		{Name: "angle", Kind: control.Number, Min: 5, Max: 75, Step: 1, Default: 40},
//	}
//	surface := control.NewSurface(specs, ctrl)
//	surface.Nudge("angle", +1) // clamps, calls SetControl, updates the display
//
// Out-of-domain values are clamped, never rejected.
package control
