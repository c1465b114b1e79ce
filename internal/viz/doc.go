// Package viz renders computed tensors in the terminal.
//
// The package implements a component browser using the Bubble Tea framework:
//
//   - [Browser]: stage list, per-stage component list and a detail pane
//   - Theme selection with 4 built-in color schemes
//   - lipgloss styles shared with the CLI for headings and size bars
//
// # Key Bindings
//
//	j/k   - Move the cursor
//	enter - Open a stage or component
//	esc   - Go back
//	l     - Toggle LaTeX output
//	t     - Cycle color themes
//	q     - Quit
package viz
