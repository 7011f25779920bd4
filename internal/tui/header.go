package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/jobs-tui/internal/model"
	"github.com/altinukshini/jobs-tui/internal/ui"
)

func RenderHeader(host string, settings model.ConnectionSettings, width int) string {
	left := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color("#F9FAFB")).
		Render(fmt.Sprintf(" jobs-tui | %s", host))

	var source string
	switch {
	case settings.IsReady():
		source = lipgloss.NewStyle().Foreground(ui.ColorSuccess).
			Render(fmt.Sprintf("source: %s ", settings.TableID))
	case settings.SourceURL != "":
		source = lipgloss.NewStyle().Foreground(ui.ColorWarning).
			Render("source: incomplete ")
	default:
		source = lipgloss.NewStyle().Foreground(ui.ColorFailure).
			Render("source: not configured ")
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(source)
	if gap < 0 {
		gap = 0
	}
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(lipgloss.Color("#1F2937")).
		Width(width).
		Render(left + padding + source)
}
