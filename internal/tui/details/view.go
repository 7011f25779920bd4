package details

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/jobs-tui/internal/model"
	"github.com/altinukshini/jobs-tui/internal/ui"
)

// Model shows every field of a single job posting in a scrollable viewport.
type Model struct {
	job      *model.Job
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

func New() Model {
	return Model{}
}

// SetJob replaces the displayed job and scrolls back to the top.
func (m *Model) SetJob(job model.Job) {
	m.job = &job
	if m.ready {
		m.viewport.SetContent(m.renderJob())
		m.viewport.GotoTop()
	}
}

func (m Model) Job() *model.Job {
	return m.job
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-1)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 1
		}
		m.viewport.SetContent(m.renderJob())
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) renderJob() string {
	if m.job == nil {
		return "  No job selected"
	}
	j := m.job

	label := lipgloss.NewStyle().Width(14).Foreground(ui.ColorMuted)
	link := j.JobLink
	if link == "" {
		link = ui.StyleMuted.Render("none")
	}

	rows := []struct {
		name  string
		value string
	}{
		{"Company", j.Company},
		{"Location", j.Location},
		{"Region", j.SourceRegion},
		{"Salary", ui.StyleSalary.Render(j.Salary())},
		{"Collected", j.CollectedAt.Local().Format("2006-01-02 15:04")},
		{"Link", link},
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %s %s\n", label.Render(r.name+":"), r.value))
	}
	if j.JobLink != "" {
		b.WriteString("\n  " + ui.StyleMuted.Render("o: open in browser  esc: back"))
	} else {
		b.WriteString("\n  " + ui.StyleMuted.Render("esc: back"))
	}
	return b.String()
}

func (m Model) View() string {
	if m.job == nil {
		return "\n  Select a job"
	}
	header := " " + m.job.JobTitle
	body := m.renderJob()
	if m.ready {
		body = m.viewport.View()
	}
	return lipgloss.NewStyle().Bold(true).Render(header) + "\n" + body
}
