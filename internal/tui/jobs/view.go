package jobs

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/jobs-tui/internal/executor"
	"github.com/altinukshini/jobs-tui/internal/model"
	"github.com/altinukshini/jobs-tui/internal/ui"
)

// --- Custom delegate (avoids DefaultDelegate ANSI corruption during filtering) ---

type jobDelegate struct{}

func (d jobDelegate) Height() int { return 2 }

func (d jobDelegate) Spacing() int { return 0 }

func (d jobDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d jobDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ji, ok := item.(jobItem)
	if !ok {
		return
	}
	j := ji.job

	company := ui.StyleInfo.Render(j.Company)
	date := ui.StyleMuted.Render(j.CollectedDate())
	line1 := fmt.Sprintf(" %s  %s  %s", j.JobTitle, company, date)

	where := j.Location
	if j.SourceRegion != "" {
		where += " (" + j.SourceRegion + ")"
	}
	line2 := fmt.Sprintf("    %s  %s", ui.StyleMuted.Render(where), ui.StyleSalary.Render(j.Salary()))

	if index == m.Index() {
		hl := lipgloss.NewStyle().Background(ui.ColorHighlight).Width(m.Width())
		line1 = hl.Render(line1)
		line2 = hl.Render(line2)
	}

	fmt.Fprintf(w, "%s\n%s", line1, line2)
}

// --- Item ---

type jobItem struct {
	job model.Job
}

func (j jobItem) FilterValue() string {
	return j.job.JobTitle + " " + j.job.Company + " " + j.job.Location + " " + j.job.SourceRegion
}

// --- Model ---

type Model struct {
	list       list.Model
	snap       executor.Snapshot
	configured bool
	width      int
	height     int
}

func New() Model {
	l := list.New(nil, jobDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowFilter(true)
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("job", "jobs")
	l.KeyMap.Filter = key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter"))
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "next page"))
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "prev page"))
	l.DisableQuitKeybindings()

	return Model{list: l}
}

// SetConfigured tells the view whether connection settings are ready, which
// decides what an Idle state looks like.
func (m *Model) SetConfigured(ready bool) {
	m.configured = ready
}

func (m Model) SelectedJob() *model.Job {
	if item, ok := m.list.SelectedItem().(jobItem); ok {
		return &item.job
	}
	return nil
}

func (m Model) Count() int {
	return len(m.list.Items())
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.SnapshotMsg:
		m.snap = msg.Snapshot
		if m.snap.Phase != executor.PhaseSettled {
			return m, nil
		}
		// A settled result replaces the list wholesale.
		m.list.ResetFilter()
		items := make([]list.Item, len(m.snap.Jobs))
		for i, j := range m.snap.Jobs {
			items[i] = jobItem{job: j}
		}
		cmd := m.list.SetItems(items)
		m.list.Select(0)
		return m, cmd

	case tea.KeyMsg:
		// The list can disable its filter binding after SetSize with zero
		// items; re-enable it whenever there is something to filter.
		if msg.String() == "f" && !m.IsFiltering() && len(m.list.Items()) > 0 {
			m.list.KeyMap.Filter.SetEnabled(true)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	switch m.snap.Phase {
	case executor.PhaseIdle:
		if !m.configured {
			return "\n  Not connected to a job source. Press s to enter connection settings."
		}
		return "\n  Waiting for the first search..."
	case executor.PhaseLoading:
		return "\n  Loading jobs..."
	case executor.PhaseFailed:
		return "\n  " + ui.StyleErrorBanner.Render(fmt.Sprintf("Error loading jobs: %v", m.snap.Err)) +
			"\n\n  " + ui.StyleMuted.Render("Press r to retry or s to check the connection settings.")
	}
	if len(m.list.Items()) == 0 {
		return "\n  No jobs match the current filters."
	}
	return m.list.View()
}

func (m Model) IsFiltering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) HasActiveFilter() bool {
	return m.list.FilterState() != list.Unfiltered
}
