// Package viz provides terminal-based visualization for spectra.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Explorer]: singular value spectrum view with an adjustable cutoff
//
// # Key Bindings
//
//	Up/K  - Scale the cutoff up 5%
//	Down/J - Scale the cutoff down 5%
//	O     - Snap back to the optimal cutoff
//	N     - Toggle known-noise mode
//	Q     - Quit
package viz
