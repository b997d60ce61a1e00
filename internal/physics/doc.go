// Package physics holds the closed-form relations behind each lab.
//
// Everything here is a pure function of its arguments, so the labs stay
// thin and the numbers can be checked in isolation:
//
//	r, tir := physics.Refract(1.0, 1.5, 40) // 25.37 deg, false
//	i := physics.Current(10, 5, true)       // 2 A
//
// Angles are in degrees at the API boundary unless a name says otherwise.
// [Pendulum] is the one model with state; it is stepped by an integrator
// from package integrators.
package physics
