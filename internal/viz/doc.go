// Package viz renders temperature fields in the terminal.
//
// The package consumes fields produced by the heat driver and never steps
// the simulation itself:
//
//   - [Jet]: the jet colour scale used by every renderer
//   - [Heatmap]: a lipgloss half-block rendering of one field
//   - [Player]: a Bubble Tea model that plays a run back as an animation
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	Q     - Quit
package viz
