package ui

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorFailure   = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorInfo      = lipgloss.Color("#3B82F6")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorBorder    = lipgloss.Color("#374151")
	ColorHighlight = lipgloss.Color("#1F2937")

	StylePane = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StylePaneFocused = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F9FAFB")).
			Background(ColorPrimary).
			Padding(0, 1)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleFailure = lipgloss.NewStyle().Foreground(ColorFailure)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)

	StyleErrorBanner = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#F9FAFB")).
				Background(ColorFailure).
				Padding(0, 1)

	StyleSalary = lipgloss.NewStyle().Foreground(ColorSuccess)
)

// PhaseStyle picks the colour for the query state indicator.
func PhaseStyle(phase string) lipgloss.Style {
	switch phase {
	case "settled":
		return StyleSuccess
	case "failed":
		return StyleFailure
	case "loading":
		return StyleInfo
	default:
		return StyleMuted
	}
}

func PhaseIcon(phase string) string {
	switch phase {
	case "settled":
		return StyleSuccess.Render("V")
	case "failed":
		return StyleFailure.Render("X")
	case "loading":
		return StyleInfo.Render("*")
	default:
		return StyleMuted.Render("o")
	}
}
