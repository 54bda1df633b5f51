// Package viz renders a running particle system in the terminal.
//
// [Model] is a Bubble Tea program that steps a [particle.System] once per
// frame and draws it on a braille [Canvas], two by four dots per cell,
// with each cell tinted by the hue of the last particle drawn into it.
// [Picker] wraps it with a preset menu and a small settings screen.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Rebuild the system from its seed
//	+/-   - Double or halve the particle count
//	P     - Toggle parallel stepping
//	T     - Cycle color themes
//	G     - Toggle GIF recording (saved to particles.gif)
//	?     - Show help overlay
//	Q     - Quit
package viz
