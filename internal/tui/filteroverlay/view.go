package filteroverlay

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/jobs-tui/internal/model"
	"github.com/altinukshini/jobs-tui/internal/ui"
)

// ---------------------------------------------------------------------------
// Result message
// ---------------------------------------------------------------------------

// ResultMsg is emitted when the user applies or cancels the overlay.
type ResultMsg struct {
	Applied  bool
	Criteria model.FilterCriteria
	Sort     model.SortDirective
}

// ---------------------------------------------------------------------------
// Fields
// ---------------------------------------------------------------------------

type field int

const (
	fieldJobTitle field = iota
	fieldCompany
	fieldLocation
	fieldSourceRegion
	fieldDateFrom
	fieldDateTo
	fieldSortBy
	fieldSortOrder
	fieldCount
)

// textFields maps the editable fields, in order, to filter fields.
var textFields = []model.FilterField{
	model.FieldJobTitle,
	model.FieldCompany,
	model.FieldLocation,
	model.FieldSourceRegion,
	model.FieldDateFrom,
	model.FieldDateTo,
}

var labels = map[field]string{
	fieldJobTitle:     "Title:",
	fieldCompany:      "Company:",
	fieldLocation:     "Location:",
	fieldSourceRegion: "Region:",
	fieldDateFrom:     "From:",
	fieldDateTo:       "To:",
	fieldSortBy:       "Sort by:",
	fieldSortOrder:    "Order:",
}

var placeholders = map[model.FilterField]string{
	model.FieldJobTitle:     "e.g. engineer",
	model.FieldCompany:      "e.g. Google",
	model.FieldLocation:     "e.g. São Paulo",
	model.FieldSourceRegion: "e.g. Brasil",
	model.FieldDateFrom:     "YYYY-MM-DD",
	model.FieldDateTo:       "YYYY-MM-DD",
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// Model is the Bubble Tea model for the search filter overlay.
type Model struct {
	active  bool
	focused field
	inputs  []textinput.Model
	sortIdx int
	ordIdx  int
	err     string
	width   int
	height  int
}

// New creates an overlay pre-populated with the current criteria and sort.
// The overlay starts in the active state.
func New(current model.FilterCriteria, sort model.SortDirective) Model {
	inputs := make([]textinput.Model, len(textFields))
	for i, f := range textFields {
		in := textinput.New()
		in.Placeholder = placeholders[f]
		in.CharLimit = 128
		in.Width = 30
		if f.IsDate() {
			in.CharLimit = len(model.DateLayout)
			in.Width = 12
		}
		in.SetValue(current.Text(f))
		inputs[i] = in
	}

	m := Model{active: true, inputs: inputs}
	for i, s := range model.SortFields {
		if s == sort.Field {
			m.sortIdx = i
		}
	}
	for i, o := range model.SortOrders {
		if o == sort.Order {
			m.ordIdx = i
		}
	}
	return m
}

// IsActive reports whether the overlay is currently visible.
func (m Model) IsActive() bool { return m.active }

// SetSize stores terminal dimensions so the overlay can centre itself.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

func (m Model) Init() tea.Cmd { return nil }

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

// Update handles key events while the overlay is active.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	// When a text input is focused, let it handle most keys first.
	if in := m.focusedInput(); in != nil && in.Focused() {
		switch keyMsg.String() {
		case "esc":
			m.active = false
			return m, emitResult(ResultMsg{})
		case "enter":
			m.blurInputs()
			return m, nil
		case "up":
			m.blurInputs()
			m.moveFocus(-1)
			return m, nil
		case "down":
			m.blurInputs()
			m.moveFocus(1)
			return m, nil
		case "tab":
			m.blurInputs()
			m.moveFocus(1)
			return m, m.focusCurrentInput()
		case "shift+tab":
			m.blurInputs()
			m.moveFocus(-1)
			return m, m.focusCurrentInput()
		default:
			var cmd tea.Cmd
			*in, cmd = in.Update(keyMsg)
			return m, cmd
		}
	}

	switch keyMsg.String() {
	case "j", "down", "tab":
		m.moveFocus(1)
		return m, nil
	case "k", "up", "shift+tab":
		m.moveFocus(-1)
		return m, nil

	// Cycle forward / enter text input.
	case "enter", "right", "l":
		switch m.focused {
		case fieldSortBy:
			m.sortIdx = (m.sortIdx + 1) % len(model.SortFields)
		case fieldSortOrder:
			m.ordIdx = (m.ordIdx + 1) % len(model.SortOrders)
		default:
			return m, m.focusCurrentInput()
		}
		return m, nil

	// Cycle backward.
	case "left", "h":
		switch m.focused {
		case fieldSortBy:
			m.sortIdx = (m.sortIdx + len(model.SortFields) - 1) % len(model.SortFields)
		case fieldSortOrder:
			m.ordIdx = (m.ordIdx + len(model.SortOrders) - 1) % len(model.SortOrders)
		}
		return m, nil

	// Apply.
	case "a":
		criteria, err := m.buildCriteria()
		if err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.active = false
		return m, emitResult(ResultMsg{Applied: true, Criteria: criteria, Sort: m.buildSort()})

	// Clear the filter fields; sort is kept.
	case "c":
		for i := range m.inputs {
			m.inputs[i].SetValue("")
		}
		m.err = ""
		return m, nil

	// Cancel.
	case "esc":
		m.active = false
		return m, emitResult(ResultMsg{})
	}

	return m, nil
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

// View renders the overlay.
func (m Model) View() string {
	if !m.active {
		return ""
	}

	labelStyle := lipgloss.NewStyle().Width(12).Foreground(ui.ColorMuted)
	focusedLabelStyle := lipgloss.NewStyle().Width(12).Bold(true).Foreground(ui.ColorPrimary)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F9FAFB"))

	rows := make([]string, 0, int(fieldCount))
	for f := field(0); f < fieldCount; f++ {
		ls := labelStyle
		cursor := "  "
		if f == m.focused {
			ls = focusedLabelStyle
			cursor = lipgloss.NewStyle().Foreground(ui.ColorPrimary).Render("> ")
		}

		var value string
		switch f {
		case fieldSortBy:
			value = valueStyle.Render(string(model.SortFields[m.sortIdx]))
		case fieldSortOrder:
			value = valueStyle.Render(string(model.SortOrders[m.ordIdx]))
		default:
			value = m.inputs[f].View()
		}
		rows = append(rows, fmt.Sprintf("%s%s %s", cursor, ls.Render(labels[f]), value))
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		MarginBottom(1).
		Render("Search Filters")

	parts := []string{title, strings.Join(rows, "\n")}
	if m.err != "" {
		parts = append(parts, lipgloss.NewStyle().MarginTop(1).Foreground(ui.ColorFailure).Render(m.err))
	}
	parts = append(parts, lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		MarginTop(1).
		Render("enter: edit/cycle  a: apply  c: clear  esc: cancel"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorPrimary).
		Padding(1, 2).
		Width(60).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))

	// Centre the box in the terminal.
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (m *Model) moveFocus(delta int) {
	next := (int(m.focused) + delta + int(fieldCount)) % int(fieldCount)
	m.focused = field(next)
}

func (m *Model) focusedInput() *textinput.Model {
	if int(m.focused) < len(m.inputs) {
		return &m.inputs[m.focused]
	}
	return nil
}

func (m *Model) blurInputs() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m *Model) focusCurrentInput() tea.Cmd {
	if in := m.focusedInput(); in != nil {
		in.Focus()
		return textinput.Blink
	}
	return nil
}

// buildCriteria reads every field into a fresh criteria value. Text is
// trimmed; dates must be YYYY-MM-DD or empty.
func (m Model) buildCriteria() (model.FilterCriteria, error) {
	var c model.FilterCriteria
	for i, f := range textFields {
		v := strings.TrimSpace(m.inputs[i].Value())
		switch f {
		case model.FieldJobTitle:
			c.JobTitle = v
		case model.FieldCompany:
			c.Company = v
		case model.FieldLocation:
			c.Location = v
		case model.FieldSourceRegion:
			c.SourceRegion = v
		case model.FieldDateFrom, model.FieldDateTo:
			t, err := model.ParseDate(v)
			if err != nil {
				return c, &model.ValidationError{Field: string(f), Reason: "expected YYYY-MM-DD"}
			}
			if f == model.FieldDateFrom {
				c.DateFrom = t
			} else {
				c.DateTo = t
			}
		}
	}
	return c, nil
}

func (m Model) buildSort() model.SortDirective {
	return model.SortDirective{Field: model.SortFields[m.sortIdx], Order: model.SortOrders[m.ordIdx]}
}

func emitResult(r ResultMsg) tea.Cmd {
	return func() tea.Msg {
		return r
	}
}
