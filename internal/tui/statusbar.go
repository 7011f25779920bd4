package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/jobs-tui/internal/executor"
	"github.com/altinukshini/jobs-tui/internal/ui"
)

// RenderStatusBar draws the bottom line: query phase and status message on
// the left, key hints for the current mode on the right.
func RenderStatusBar(phase executor.Phase, status, hints string, width int) string {
	name := phase.String()
	indicator := ui.PhaseIcon(name) + " " + ui.PhaseStyle(name).Render(name)
	left := "  " + indicator + lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("  "+status)

	help := lipgloss.NewStyle().Foreground(ui.ColorMuted).
		Render(hints + " ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(help)
	if gap < 0 {
		gap = 0
	}
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(lipgloss.Color("#111827")).
		Width(width).
		Render(left + padding + help)
}
