// Package ui implements the interactive pieces of the CLI.
//
// Artist disambiguation has two front ends, both satisfying [tasks.Chooser]:
//   - [ListChooser] runs a bubbletea program with a filterable list of candidates. Each entry
//     shows the artist name with its disambiguation, country or similar artists underneath.
//   - [PromptChooser] prints a numbered list and reads a line. It works without a terminal,
//     which keeps it usable from scripts and tests.
//
// Both return [shared.ErrChoiceCancelled] when the user backs out. Console colours come from the
// lipgloss [Palette] in [Styles].
package ui
