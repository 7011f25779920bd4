package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/altinukshini/jobs-tui/internal/executor"
	"github.com/altinukshini/jobs-tui/internal/filter"
	"github.com/altinukshini/jobs-tui/internal/model"
	"github.com/altinukshini/jobs-tui/internal/settings"
	"github.com/altinukshini/jobs-tui/internal/tui/confirm"
	"github.com/altinukshini/jobs-tui/internal/tui/filteroverlay"
	"github.com/altinukshini/jobs-tui/internal/ui"
)

type stubBackend struct {
	settings model.ConnectionSettings
	saveErr  error
}

func (b *stubBackend) GetSettings(context.Context) (model.ConnectionSettings, error) {
	return b.settings, nil
}

func (b *stubBackend) SaveSettings(_ context.Context, edit model.PendingConnectionEdit) (model.ConnectionSettings, error) {
	if b.saveErr != nil {
		return model.ConnectionSettings{}, b.saveErr
	}
	b.settings = model.ConnectionSettings{SourceURL: edit.SourceURL, TableID: edit.TableID, TokenPresent: true}
	return b.settings, nil
}

type stubSearcher struct{}

func (stubSearcher) SearchJobs(context.Context, filter.Query) ([]model.Job, error) {
	return []model.Job{}, nil
}

type stubOpener struct {
	opened []string
	err    error
}

func (o *stubOpener) Browse(url string) error {
	o.opened = append(o.opened, url)
	return o.err
}

type fixture struct {
	app     App
	filters *filter.State
	opener  *stubOpener
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := arbor.NewLogger()
	filters := filter.NewState()
	store := settings.NewStore(&stubBackend{}, logger)
	exec := executor.New(filters, store, stubSearcher{}, logger)
	feed := NewFeed()
	t.Cleanup(func() {
		exec.Close()
		feed.Close()
	})

	opener := &stubOpener{}
	f := &fixture{
		app:     NewApp("localhost:8000", filters, store, exec, feed, opener, logger),
		filters: filters,
		opener:  opener,
	}
	f.send(tea.WindowSizeMsg{Width: 120, Height: 30})
	return f
}

func (f *fixture) send(msg tea.Msg) tea.Cmd {
	m, cmd := f.app.Update(msg)
	f.app = *m.(*App)
	return cmd
}

func (f *fixture) press(k string) tea.Cmd {
	switch k {
	case "enter":
		return f.send(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		return f.send(tea.KeyMsg{Type: tea.KeyEsc})
	}
	return f.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
}

func sampleJobs() []model.Job {
	return []model.Job{
		{JobTitle: "Backend Engineer", Company: "Acme", Location: "Remote", CollectedAt: time.Now(), JobLink: "https://example.com/1"},
		{JobTitle: "Data Analyst", Company: "Globex", Location: "Lisboa", CollectedAt: time.Now()},
	}
}

func TestAppFilterKeyReachesJobsView(t *testing.T) {
	f := newFixture(t)
	f.send(ui.SnapshotMsg{Snapshot: executor.Snapshot{Phase: executor.PhaseSettled, Jobs: sampleJobs(), Token: 1}})

	require.Contains(t, f.app.jobsView.View(), "Backend Engineer")

	f.press("f")
	assert.True(t, f.app.jobsView.IsFiltering(), "expected jobs view to be filtering after pressing f")

	// q is typed into the filter rather than quitting.
	f.press("q")
	assert.True(t, f.app.jobsView.IsFiltering())
	assert.Contains(t, f.app.View(), "Filter")
}

func TestSnapshotUpdatesStatusAndRearmsFeed(t *testing.T) {
	f := newFixture(t)

	cmd := f.send(ui.SnapshotMsg{Snapshot: executor.Snapshot{Phase: executor.PhaseSettled, Jobs: sampleJobs(), Token: 1}})
	assert.NotNil(t, cmd, "snapshot must re-issue the feed wait")
	assert.Equal(t, "2 jobs", f.app.status)
	assert.Equal(t, executor.PhaseSettled, f.app.phase)

	f.send(ui.SnapshotMsg{Snapshot: executor.Snapshot{Phase: executor.PhaseFailed, Err: errors.New("boom"), Token: 2}})
	assert.Equal(t, "Search failed", f.app.status)
	assert.Contains(t, f.app.View(), "boom")
}

func TestOverlayApplyReplacesFilterState(t *testing.T) {
	f := newFixture(t)

	f.press("S")
	require.True(t, f.app.filterOverlay.IsActive())

	sd := model.SortDirective{Field: model.SortCompany, Order: model.SortAsc}
	f.send(filteroverlay.ResultMsg{Applied: true, Criteria: model.FilterCriteria{JobTitle: "engineer"}, Sort: sd})

	assert.Equal(t, "engineer", f.filters.Criteria().JobTitle)
	assert.Equal(t, sd, f.filters.Sort())
	assert.Contains(t, f.app.renderFilterLine(), "jobTitle:engineer")
}

func TestOverlayCancelLeavesFilterState(t *testing.T) {
	f := newFixture(t)
	f.filters.Apply(model.FilterCriteria{Company: "Acme"})

	f.press("S")
	f.send(filteroverlay.ResultMsg{})

	assert.Equal(t, model.FilterCriteria{Company: "Acme"}, f.filters.Criteria())
}

func TestClearAndFlipSort(t *testing.T) {
	f := newFixture(t)
	f.filters.Apply(model.FilterCriteria{Company: "Acme", Location: "Remote"})

	f.press("x")
	assert.True(t, f.filters.Criteria().IsEmpty())
	assert.Equal(t, "Filters cleared", f.app.status)

	f.press("O")
	assert.Equal(t, model.SortAsc, f.filters.Sort().Order)
	f.press("O")
	assert.Equal(t, model.SortDesc, f.filters.Sort().Order)
}

func TestRefreshWhileUnconfigured(t *testing.T) {
	f := newFixture(t)
	f.send(ui.SettingsLoadedMsg{Settings: model.ConnectionSettings{}})
	assert.Contains(t, f.app.status, "Not connected")

	f.press("r")
	assert.Contains(t, f.app.status, "Not connected")
}

func TestSettingsSaveFailureKeepsFormOpen(t *testing.T) {
	f := newFixture(t)

	f.press("s")
	require.True(t, f.app.settingsForm.IsActive())

	f.send(ui.SettingsSavedMsg{Err: &model.ConnectionError{Op: "save settings", Status: 500, Err: errors.New("HTTP 500")}})
	assert.True(t, f.app.settingsForm.IsActive())
	assert.Contains(t, f.app.View(), "HTTP 500")

	ready := model.ConnectionSettings{SourceURL: "https://x", TableID: "t", TokenPresent: true}
	f.send(ui.SettingsSavedMsg{Settings: ready})
	assert.False(t, f.app.settingsForm.IsActive())
	assert.Equal(t, ready, f.app.settings)
}

func TestDirtySettingsCancelAsksForConfirmation(t *testing.T) {
	f := newFixture(t)

	f.press("s")
	f.press("h")
	cmd := f.press("esc")
	require.NotNil(t, cmd)
	f.send(cmd())
	require.True(t, f.app.confirmDialog.IsActive())

	// Declining keeps the edit.
	cmd = f.press("n")
	f.send(cmd())
	assert.True(t, f.app.settingsForm.IsActive())

	cmd = f.press("esc")
	f.send(cmd())
	cmd = f.press("y")
	res := cmd()
	assert.Equal(t, confirm.ActionDiscardSettings, res.(confirm.ResultMsg).Action)
	f.send(res)
	assert.False(t, f.app.settingsForm.IsActive())
}

func TestDetailsAndOpenLink(t *testing.T) {
	f := newFixture(t)
	f.send(ui.SnapshotMsg{Snapshot: executor.Snapshot{Phase: executor.PhaseSettled, Jobs: sampleJobs(), Token: 1}})

	f.press("enter")
	require.True(t, f.app.showDetails)
	assert.Contains(t, f.app.View(), "https://example.com/1")

	cmd := f.press("o")
	require.NotNil(t, cmd)
	f.send(cmd())
	assert.Equal(t, []string{"https://example.com/1"}, f.opener.opened)
	assert.True(t, strings.HasPrefix(f.app.status, "Opened"))

	f.press("esc")
	assert.False(t, f.app.showDetails)
}

func TestOpenLinkFailureSetsStatus(t *testing.T) {
	f := newFixture(t)
	f.opener.err = errors.New("no browser")
	f.send(ui.SnapshotMsg{Snapshot: executor.Snapshot{Phase: executor.PhaseSettled, Jobs: sampleJobs(), Token: 1}})

	f.press("enter")
	cmd := f.press("o")
	require.NotNil(t, cmd)
	f.send(cmd())

	assert.Equal(t, "Could not open link: no browser", f.app.status)
}
