package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ternarybob/arbor"

	"github.com/altinukshini/jobs-tui/internal/executor"
	"github.com/altinukshini/jobs-tui/internal/filter"
	"github.com/altinukshini/jobs-tui/internal/model"
	"github.com/altinukshini/jobs-tui/internal/settings"
	"github.com/altinukshini/jobs-tui/internal/tui/confirm"
	"github.com/altinukshini/jobs-tui/internal/tui/details"
	"github.com/altinukshini/jobs-tui/internal/tui/filteroverlay"
	"github.com/altinukshini/jobs-tui/internal/tui/jobs"
	"github.com/altinukshini/jobs-tui/internal/tui/settingsform"
	"github.com/altinukshini/jobs-tui/internal/ui"
)

// Opener opens a URL outside the terminal. go-gh's browser.Browser
// satisfies it.
type Opener interface {
	Browse(url string) error
}

type App struct {
	host    string
	filters *filter.State
	store   *settings.Store
	exec    *executor.Executor
	feed    *Feed
	opener  Opener
	logger  arbor.ILogger

	// Views
	jobsView      jobs.Model
	detailsView   details.Model
	filterOverlay filteroverlay.Model
	settingsForm  settingsform.Model
	confirmDialog confirm.Model

	// State
	settings    model.ConnectionSettings
	phase       executor.Phase
	width       int
	height      int
	status      string
	showDetails bool
	showHelp    bool
}

// NewApp builds the root model and subscribes it to executor snapshots.
// The caller owns exec and feed and closes both after the program exits.
func NewApp(host string, filters *filter.State, store *settings.Store, exec *executor.Executor, feed *Feed, opener Opener, logger arbor.ILogger) App {
	exec.Subscribe(feed.Push)
	feed.Push(exec.Snapshot())

	return App{
		host:        host,
		filters:     filters,
		store:       store,
		exec:        exec,
		feed:        feed,
		opener:      opener,
		logger:      logger,
		jobsView:    jobs.New(),
		detailsView: details.New(),
		settings:    store.Settings(),
		status:      "Loading settings...",
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.loadSettings(), a.feed.Wait())
}

// --- Commands ---

func (a App) loadSettings() tea.Cmd {
	store := a.store
	return func() tea.Msg {
		s, err := store.Load(context.Background())
		return ui.SettingsLoadedMsg{Settings: s, Err: err}
	}
}

func (a App) saveSettings(edit model.PendingConnectionEdit) tea.Cmd {
	store := a.store
	return func() tea.Msg {
		s, err := store.Save(context.Background(), edit)
		return ui.SettingsSavedMsg{Settings: s, Err: err}
	}
}

func (a App) openLink(url string) tea.Cmd {
	opener := a.opener
	return func() tea.Msg {
		return ui.BrowseResultMsg{URL: url, Err: opener.Browse(url)}
	}
}

// --- Update ---

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Data messages are handled regardless of which overlay is showing.
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.propagateSize()
		return &a, nil

	case ui.SnapshotMsg:
		a.phase = msg.Snapshot.Phase
		a.jobsView, _ = a.jobsView.Update(msg)
		a.status = snapshotStatus(msg.Snapshot)
		return &a, a.feed.Wait()

	case ui.SettingsLoadedMsg:
		a.applySettings(msg.Settings)
		switch {
		case msg.Err != nil:
			a.status = fmt.Sprintf("Could not load settings: %v", msg.Err)
		case !msg.Settings.IsReady():
			a.status = "Not connected. Press s to configure a job source."
		default:
			a.status = "Settings loaded"
		}
		return &a, nil

	case ui.SettingsSavedMsg:
		if msg.Err != nil {
			a.settingsForm.SetError(msg.Err)
			a.status = "Saving settings failed"
			return &a, nil
		}
		a.settingsForm.Close()
		a.applySettings(msg.Settings)
		a.status = "Settings saved"
		return &a, nil

	case ui.BrowseResultMsg:
		if msg.Err != nil {
			a.logger.Warn().Err(msg.Err).Str("url", msg.URL).Msg("Failed to open browser")
			a.status = fmt.Sprintf("Could not open link: %v", msg.Err)
		} else {
			a.status = "Opened " + msg.URL
		}
		return &a, nil
	}

	// Handle confirm dialog result (arrives AFTER dialog deactivates itself)
	if result, ok := msg.(confirm.ResultMsg); ok {
		if result.Confirmed && result.Action == confirm.ActionDiscardSettings {
			a.settingsForm.Close()
			a.status = "Settings changes discarded"
		}
		return &a, nil
	}

	// Handle confirmation dialog input (key events while dialog is showing)
	if a.confirmDialog.IsActive() {
		var cmd tea.Cmd
		a.confirmDialog, cmd = a.confirmDialog.Update(msg)
		return &a, cmd
	}

	// Settings form results
	switch msg := msg.(type) {
	case settingsform.SubmitMsg:
		a.status = "Saving settings..."
		return &a, a.saveSettings(msg.Edit)
	case settingsform.CancelMsg:
		if msg.Dirty {
			a.confirmDialog = confirm.New("Discard changes?",
				"The connection settings have unsaved edits.", confirm.ActionDiscardSettings)
			return &a, nil
		}
		a.settingsForm.Close()
		return &a, nil
	}

	if a.settingsForm.IsActive() {
		var cmd tea.Cmd
		a.settingsForm, cmd = a.settingsForm.Update(msg)
		return &a, cmd
	}

	// Handle filter overlay result
	if result, ok := msg.(filteroverlay.ResultMsg); ok {
		if result.Applied {
			if _, err := a.filters.Replace(result.Criteria, result.Sort); err != nil {
				a.status = err.Error()
			} else {
				a.status = "Filters applied"
			}
		}
		return &a, nil
	}

	// Handle filter overlay input (key events while overlay is showing)
	if a.filterOverlay.IsActive() {
		var cmd tea.Cmd
		a.filterOverlay, cmd = a.filterOverlay.Update(msg)
		return &a, cmd
	}

	// Handle list filter mode: keys go directly to the filtering list,
	// skip app-level handlers (quit, refresh, etc.)
	if _, isKey := msg.(tea.KeyMsg); isKey && a.jobsView.IsFiltering() {
		var cmd tea.Cmd
		a.jobsView, cmd = a.jobsView.Update(msg)
		return &a, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		// Help overlay dismisses on any key
		if a.showHelp {
			a.showHelp = false
			return &a, nil
		}

		switch {
		case key.Matches(msg, ui.Keys.Quit):
			return &a, tea.Quit

		case key.Matches(msg, ui.Keys.Help):
			a.showHelp = true
			return &a, nil

		case key.Matches(msg, ui.Keys.Refresh):
			if !a.exec.Refresh() {
				a.status = "Not connected. Press s to configure a job source."
			}
			return &a, nil

		case key.Matches(msg, ui.Keys.Settings):
			a.settingsForm = settingsform.New(a.store.Settings())
			a.settingsForm.SetSize(a.width, a.height-3)
			return &a, a.settingsForm.Init()

		case key.Matches(msg, ui.Keys.ServerFilter):
			a.filterOverlay = filteroverlay.New(a.filters.Criteria(), a.filters.Sort())
			a.filterOverlay.SetSize(a.width, a.height-3)
			return &a, nil

		case key.Matches(msg, ui.Keys.ClearFilters):
			if a.filters.Criteria().IsEmpty() {
				a.status = "No filters to clear"
			} else {
				a.filters.Clear()
				a.status = "Filters cleared"
			}
			return &a, nil

		case key.Matches(msg, ui.Keys.SortOrder):
			sort := a.filters.Sort()
			order := model.SortAsc
			if sort.Order == model.SortAsc {
				order = model.SortDesc
			}
			if _, err := a.filters.SetSort(sort.Field, order); err != nil {
				a.status = err.Error()
			}
			return &a, nil

		case key.Matches(msg, ui.Keys.Open):
			job := a.currentJob()
			if job == nil || job.JobLink == "" {
				a.status = "This job has no link"
				return &a, nil
			}
			return &a, a.openLink(job.JobLink)
		}

		if a.showDetails {
			if key.Matches(msg, ui.Keys.Back) || msg.String() == "backspace" {
				a.showDetails = false
				return &a, nil
			}
			var cmd tea.Cmd
			a.detailsView, cmd = a.detailsView.Update(msg)
			return &a, cmd
		}

		if key.Matches(msg, ui.Keys.Enter) {
			if job := a.jobsView.SelectedJob(); job != nil {
				a.detailsView.SetJob(*job)
				a.showDetails = true
			}
			return &a, nil
		}
	}

	var cmd tea.Cmd
	a.jobsView, cmd = a.jobsView.Update(msg)
	cmds = append(cmds, cmd)
	return &a, tea.Batch(cmds...)
}

func (a *App) applySettings(s model.ConnectionSettings) {
	a.settings = s
	a.jobsView.SetConfigured(s.IsReady())
}

// currentJob is the job shown in the details pane, or the list selection.
func (a App) currentJob() *model.Job {
	if a.showDetails {
		return a.detailsView.Job()
	}
	return a.jobsView.SelectedJob()
}

func snapshotStatus(s executor.Snapshot) string {
	switch s.Phase {
	case executor.PhaseLoading:
		return "Searching jobs..."
	case executor.PhaseSettled:
		if len(s.Jobs) == 1 {
			return "1 job"
		}
		return fmt.Sprintf("%d jobs", len(s.Jobs))
	case executor.PhaseFailed:
		return "Search failed"
	}
	return "Waiting for settings"
}

func (a *App) propagateSize() {
	// header(1) + filter line(1) + status(1) = 3 lines of chrome
	// pane border top(1) + bottom(1) = 2 lines
	contentH := a.height - 5
	if contentH < 1 {
		contentH = 1
	}

	a.jobsView, _ = a.jobsView.Update(
		tea.WindowSizeMsg{Width: a.width - 4, Height: contentH})
	a.detailsView, _ = a.detailsView.Update(
		tea.WindowSizeMsg{Width: a.width - 4, Height: contentH})
	a.filterOverlay.SetSize(a.width, a.height-3)
	a.settingsForm.SetSize(a.width, a.height-3)
}

// --- View ---

func (a App) View() string {
	header := RenderHeader(a.host, a.settings, a.width)
	filters := a.renderFilterLine()

	contentH := a.height - 5
	if contentH < 1 {
		contentH = 1
	}
	style := ui.StylePaneFocused.Width(a.width - 2).Height(contentH)

	var content string
	if a.showDetails {
		content = style.Render(a.detailsView.View())
	} else {
		content = style.Render(a.jobsView.View())
	}

	if a.showHelp {
		content = a.renderHelp()
	} else if a.confirmDialog.IsActive() {
		content = a.confirmDialog.View()
	} else if a.settingsForm.IsActive() {
		content = a.settingsForm.View()
	} else if a.filterOverlay.IsActive() {
		content = a.filterOverlay.View()
	}

	statusBar := RenderStatusBar(a.phase, a.status, a.contextHints(), a.width)

	// Hard clamp: ensure content never overflows the terminal.
	maxContentLines := a.height - 3
	if maxContentLines > 0 {
		lines := strings.Split(content, "\n")
		if len(lines) > maxContentLines {
			lines = lines[:maxContentLines]
			content = strings.Join(lines, "\n")
		}
	}

	return header + "\n" + filters + "\n" + content + "\n" + statusBar
}

func (a App) renderFilterLine() string {
	q := filter.Build(a.filters.Criteria(), a.filters.Sort())
	label := lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(ui.ColorPrimary).Render("Jobs")
	return label + ui.StyleMuted.Render(q.Summary())
}

func (a App) contextHints() string {
	switch {
	case a.confirmDialog.IsActive():
		return "y/n:confirm  esc:cancel"
	case a.settingsForm.IsActive():
		return "tab:next field  enter:save  esc:cancel"
	case a.filterOverlay.IsActive():
		return "enter:edit/cycle  a:apply  c:clear  esc:cancel"
	case a.jobsView.IsFiltering():
		return "enter:confirm  esc:cancel"
	case a.showDetails:
		return "o:open link  j/k:scroll  esc:back  ?:help"
	case a.jobsView.HasActiveFilter():
		return "esc:clear find  enter:details  S:filters  r:refresh  ?:help"
	}
	return "S:filters  x:clear  O:order  f:find  r:refresh  s:settings  ?:help"
}

func (a App) renderHelp() string {
	bold := lipgloss.NewStyle().Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Width(14)
	desc := lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB"))

	row := func(k, d string) string {
		return "  " + keyStyle.Render(k) + desc.Render(d) + "\n"
	}

	var b strings.Builder
	b.WriteString("\n" + bold.Render("  Navigation") + "\n\n")
	b.WriteString(row("j / k", "Move down / up"))
	b.WriteString(row("enter", "Job details"))
	b.WriteString(row("esc / bksp", "Back to list"))
	b.WriteString(row("o", "Open job link in browser"))
	b.WriteString(row("q", "Quit"))

	b.WriteString("\n" + bold.Render("  Search") + "\n\n")
	b.WriteString(row("S", "Edit search filters and sort"))
	b.WriteString(row("x", "Clear all filters"))
	b.WriteString(row("O", "Flip sort order"))
	b.WriteString(row("f", "Find in loaded list"))
	b.WriteString(row("r", "Search again"))

	b.WriteString("\n" + bold.Render("  Connection") + "\n\n")
	b.WriteString(row("s", "Edit job source settings"))

	b.WriteString("\n" + desc.Render("  Press any key to close"))
	return b.String()
}
