// Package viz is the terminal host.
//
// [Canvas] implements render.Surface on a braille dot grid with per-cell
// colour, and [Model] is a Bubble Tea program that drives a sim.Scheduler
// from tea.Tick callbacks. One terminal cell covers CellWidth x CellHeight
// viewport units, so a resize of the terminal is a resize of the field.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Restart with a new population
//	T     - Cycle panel themes
//	?     - Show help overlay
//	Q     - Quit
package viz
