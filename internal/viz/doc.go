// Package viz hosts the simulation in a terminal.
//
//   - [Surface]: render target that rasterises engine drawing onto a
//     [Canvas] of Braille cells, fading old frames by intensity
//   - [Model]: Bubble Tea program driving an engine at a fixed tick rate
//   - [Launcher]: preset menu in front of a [Model]
//
// # Input
//
//	Left click  - attracting well
//	Right click - repelling well
//	Space       - pause/resume
//	t           - toggle trails
//	c           - clear wells
//	r           - reset particles
//	+/-         - particle count
//	T           - cycle themes
//	g           - toggle GIF recording
//	?           - help overlay
//
// Mouse reporting must be enabled on the program (tea.WithMouseCellMotion).
package viz
