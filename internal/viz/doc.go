// Package viz runs labs in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [App]: lab picker built on a bubbles list
//   - [Model]: one running lab, its controls, readouts and a chart
//   - [Canvas]: Braille canvas that replays a recorded frame in colour
//
// # Key Bindings
//
//	Tab/J K - Select control
//	H L     - Adjust the selected control
//	Space   - Pause/Resume
//	R       - Restart the lab with the current settings
//	C       - Chart the next readout
//	T       - Cycle color themes
//	G       - Toggle GIF recording
//	?       - Show help
//	Esc     - Back to the picker
//
// Labs with key axes (faraday, wires) also take A and D. Terminals do not
// report key releases, so a key counts as released once it stops repeating.
package viz
