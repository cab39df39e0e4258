// Package viz renders visualizer frames for the terminal.
//
// The package provides:
//
//   - [Bars] and [Badges]: the two array views, colored by highlight role
//   - [Canvas]: a Braille canvas used for the line view of larger arrays
//   - [LiveRenderer]: a sim.Observer that redraws in place for headless runs
//   - Themes with role colors, selected by name
package viz
