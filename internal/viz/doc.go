// Package viz renders simulation results for the terminal.
//
// A [Renderer] produces the pieces the CLI and the TUI print:
//
//   - the outcome banner (success or failure)
//   - summary metrics with dot thousands separators
//   - a year-by-year table
//   - a two-series ASCII chart of both populations
//
// Colors come from a [Theme]; lipgloss drops them when output is not a terminal.
package viz
