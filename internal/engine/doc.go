// Package engine runs a lab's animation loop.
//
// A [Controller] owns one lab's simulation state. Every frame it clamps the
// elapsed time, ticks the lab's key axes, hands the sim a snapshot of the
// control parameters, updates and renders, then schedules the next frame on a
// [Scheduler]. Parameter writes through [Controller.SetControl] never wait on
// a running frame and are visible on the next one.
//
// Basic usage:
//
//	sched := engine.NewManualScheduler(time.Now())
//	win := engine.NewWindow()
//	surf := draw.NewSurface(640, 360)
//
//	c := engine.Start(surf, lab, sched, win)
//	defer c.Stop()
//
//	c.SetControl("angle", 40)
//	sched.Advance(time.Second / 60)
//
// Frames run sequentially. Stop cancels the pending frame and removes every
// listener the controller added to its host; it is safe to call more than once.
package engine
