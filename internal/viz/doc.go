// Package viz renders trajectories in the terminal.
//
//   - [Canvas]: Braille-based pixel canvas, 2x4 dots per cell
//   - [Viewport]: maps phase-space coordinates onto a canvas
//   - [WatchModel]: Bubble Tea program replaying several trajectories side by side
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	R     - Restart from step 0
//	[ ]   - Step backward/forward (pauses)
//	+ -   - Change playback speed
//	F     - Toggle the flow field
//	Q     - Quit
package viz
