package confirm

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/jobs-tui/internal/ui"
)

// Action identifies what a confirmation dialog is guarding.
type Action string

const (
	// ActionDiscardSettings discards an unsaved connection settings edit.
	ActionDiscardSettings Action = "discard-settings"
)

type ResultMsg struct {
	Confirmed bool
	Action    Action
}

type Model struct {
	Title    string
	Message  string
	Action   Action
	active   bool
	selected bool // true = confirm selected
}

func New(title, message string, action Action) Model {
	return Model{
		Title:   title,
		Message: message,
		Action:  action,
		active:  true,
	}
}

func (m Model) IsActive() bool { return m.active }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "y", "Y":
			return m.finish(true)
		case "n", "N", "esc":
			return m.finish(false)
		case "enter":
			return m.finish(m.selected)
		case "tab", "left", "right", "h", "l":
			m.selected = !m.selected
		}
	}
	return m, nil
}

func (m Model) finish(confirmed bool) (Model, tea.Cmd) {
	m.active = false
	action := m.Action
	return m, func() tea.Msg {
		return ResultMsg{Confirmed: confirmed, Action: action}
	}
}

func (m Model) View() string {
	if !m.active {
		return ""
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorWarning).
		Padding(1, 2).
		Width(50)

	title := lipgloss.NewStyle().Bold(true).
		Foreground(ui.ColorWarning).
		Render(m.Title)

	yesStyle := lipgloss.NewStyle().Padding(0, 1)
	noStyle := lipgloss.NewStyle().Padding(0, 1)

	if m.selected {
		yesStyle = yesStyle.Bold(true).Background(ui.ColorSuccess).Foreground(lipgloss.Color("#F9FAFB"))
		noStyle = noStyle.Foreground(ui.ColorMuted)
	} else {
		yesStyle = yesStyle.Foreground(ui.ColorMuted)
		noStyle = noStyle.Bold(true).Background(ui.ColorFailure).Foreground(lipgloss.Color("#F9FAFB"))
	}

	content := fmt.Sprintf("%s\n\n%s\n\n%s  %s\n\ny/n to confirm, esc to cancel",
		title, m.Message,
		yesStyle.Render("Yes"), noStyle.Render("No"))

	return style.Render(content)
}
