package settingsform

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/jobs-tui/internal/model"
	"github.com/altinukshini/jobs-tui/internal/ui"
)

// SubmitMsg asks the app to save the edit.
type SubmitMsg struct {
	Edit model.PendingConnectionEdit
}

// CancelMsg asks the app to close the form. Dirty is set when closing would
// discard unsaved changes.
type CancelMsg struct {
	Dirty bool
}

const (
	fieldURL = iota
	fieldTable
	fieldToken
	fieldCount
)

var labels = [fieldCount]string{"Source URL:", "Table ID:", "API token:"}

// Model edits a PendingConnectionEdit. It stays open until the app closes
// it, so a failed save can be corrected and retried.
type Model struct {
	committed model.ConnectionSettings
	inputs    [fieldCount]textinput.Model
	focused   int
	active    bool
	saving    bool
	err       string
	width     int
	height    int
}

// New opens the form seeded from the committed settings. The token field
// always starts empty; leaving it empty keeps the stored token.
func New(committed model.ConnectionSettings) Model {
	edit := model.EditFrom(committed)

	m := Model{committed: committed, active: true}
	for i := range m.inputs {
		in := textinput.New()
		in.CharLimit = 512
		in.Width = 44
		m.inputs[i] = in
	}
	m.inputs[fieldURL].Placeholder = "https://api.example.com"
	m.inputs[fieldURL].SetValue(edit.SourceURL)
	m.inputs[fieldTable].Placeholder = "table or sheet id"
	m.inputs[fieldTable].SetValue(edit.TableID)
	m.inputs[fieldToken].EchoMode = textinput.EchoPassword
	m.inputs[fieldToken].EchoCharacter = '*'
	if committed.TokenPresent {
		m.inputs[fieldToken].Placeholder = "stored; leave empty to keep"
	} else {
		m.inputs[fieldToken].Placeholder = "none stored"
	}
	m.inputs[fieldURL].Focus()
	return m
}

func (m Model) IsActive() bool { return m.active }

func (m Model) IsSaving() bool { return m.saving }

// Edit returns the current pending edit with surrounding whitespace removed.
func (m Model) Edit() model.PendingConnectionEdit {
	return model.PendingConnectionEdit{
		SourceURL: strings.TrimSpace(m.inputs[fieldURL].Value()),
		TableID:   strings.TrimSpace(m.inputs[fieldTable].Value()),
		Token:     strings.TrimSpace(m.inputs[fieldToken].Value()),
	}
}

func (m Model) Dirty() bool {
	return m.Edit().Dirty(m.committed)
}

// SetError records a failed save and re-enables editing.
func (m *Model) SetError(err error) {
	m.saving = false
	if err == nil {
		m.err = ""
		return
	}
	m.err = err.Error()
}

func (m *Model) Close() {
	m.active = false
	m.saving = false
}

func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "esc":
		if m.saving {
			return m, nil
		}
		dirty := m.Dirty()
		return m, func() tea.Msg { return CancelMsg{Dirty: dirty} }
	case "tab", "down":
		return m, m.focus((m.focused + 1) % fieldCount)
	case "shift+tab", "up":
		return m, m.focus((m.focused + fieldCount - 1) % fieldCount)
	case "enter":
		if m.focused < fieldToken {
			return m, m.focus(m.focused + 1)
		}
		return m.submit()
	case "ctrl+s":
		return m.submit()
	}

	if m.saving {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(keyMsg)
	return m, cmd
}

// submit validates locally and emits SubmitMsg. Validation failures are
// shown inline without a round trip.
func (m Model) submit() (Model, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	edit := m.Edit()
	if err := edit.Validate(); err != nil {
		m.err = err.Error()
		return m, nil
	}
	m.err = ""
	m.saving = true
	return m, func() tea.Msg { return SubmitMsg{Edit: edit} }
}

func (m *Model) focus(i int) tea.Cmd {
	m.inputs[m.focused].Blur()
	m.focused = i
	return m.inputs[m.focused].Focus()
}

func (m Model) View() string {
	if !m.active {
		return ""
	}

	labelStyle := lipgloss.NewStyle().Width(13).Foreground(ui.ColorMuted)
	focusedLabelStyle := lipgloss.NewStyle().Width(13).Bold(true).Foreground(ui.ColorPrimary)

	rows := make([]string, 0, fieldCount)
	for i := range m.inputs {
		ls := labelStyle
		cursor := "  "
		if i == m.focused {
			ls = focusedLabelStyle
			cursor = lipgloss.NewStyle().Foreground(ui.ColorPrimary).Render("> ")
		}
		rows = append(rows, fmt.Sprintf("%s%s %s", cursor, ls.Render(labels[i]), m.inputs[i].View()))
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		MarginBottom(1).
		Render("Connection Settings")

	parts := []string{title, strings.Join(rows, "\n")}
	switch {
	case m.saving:
		parts = append(parts, lipgloss.NewStyle().MarginTop(1).Foreground(ui.ColorInfo).Render("Saving..."))
	case m.err != "":
		parts = append(parts, lipgloss.NewStyle().MarginTop(1).Foreground(ui.ColorFailure).Render(m.err))
	}
	parts = append(parts, lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		MarginTop(1).
		Render("tab: next field  enter/ctrl+s: save  esc: cancel"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorPrimary).
		Padding(1, 2).
		Width(70).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
