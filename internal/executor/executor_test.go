package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/altinukshini/jobs-tui/internal/filter"
	"github.com/altinukshini/jobs-tui/internal/model"
	"github.com/altinukshini/jobs-tui/internal/settings"
)

type result struct {
	jobs []model.Job
	err  error
}

type call struct {
	query filter.Query
	reply chan result
}

func (c *call) succeed(jobs ...model.Job) { c.reply <- result{jobs: jobs} }

func (c *call) fail(err error) { c.reply <- result{err: err} }

// fakeSearcher hands every request to the test and blocks until the test
// replies. Request cancellation is ignored so tests decide completion
// order; stop releases everything at the end of a test.
type fakeSearcher struct {
	calls chan *call
	stop  chan struct{}
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{calls: make(chan *call, 32), stop: make(chan struct{})}
}

func (f *fakeSearcher) SearchJobs(_ context.Context, q filter.Query) ([]model.Job, error) {
	c := &call{query: q, reply: make(chan result, 1)}
	f.calls <- c
	select {
	case r := <-c.reply:
		return r.jobs, r.err
	case <-f.stop:
		return nil, context.Canceled
	}
}

func (f *fakeSearcher) next(t *testing.T) *call {
	t.Helper()
	select {
	case c := <-f.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a search request")
		return nil
	}
}

type fakeBackend struct {
	settings model.ConnectionSettings
}

func (f *fakeBackend) GetSettings(context.Context) (model.ConnectionSettings, error) {
	return f.settings, nil
}

func (f *fakeBackend) SaveSettings(_ context.Context, edit model.PendingConnectionEdit) (model.ConnectionSettings, error) {
	f.settings.SourceURL = edit.SourceURL
	f.settings.TableID = edit.TableID
	if edit.Token != "" {
		f.settings.TokenPresent = true
	}
	return f.settings, nil
}

var readySettings = model.ConnectionSettings{SourceURL: "https://x", TableID: "9", TokenPresent: true}

type harness struct {
	filters  *filter.State
	store    *settings.Store
	searcher *fakeSearcher
	exec     *Executor
	snaps    chan Snapshot
}

func newHarness(t *testing.T, initial model.ConnectionSettings) *harness {
	t.Helper()
	h := &harness{
		filters:  filter.NewState(),
		store:    settings.NewStore(&fakeBackend{settings: initial}, arbor.NewLogger()),
		searcher: newFakeSearcher(),
		snaps:    make(chan Snapshot, 64),
	}
	_, err := h.store.Load(context.Background())
	require.NoError(t, err)

	h.exec = New(h.filters, h.store, h.searcher, arbor.NewLogger())
	h.exec.Subscribe(func(s Snapshot) { h.snaps <- s })
	t.Cleanup(func() {
		close(h.searcher.stop)
		h.exec.Close()
	})
	return h
}

// waitFor returns the first published snapshot matching phase and token.
func (h *harness) waitFor(t *testing.T, phase Phase, token uint64) Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-h.snaps:
			if s.Phase == phase && s.Token == token {
				return s
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s token %d (current %s token %d)",
				phase, token, h.exec.Snapshot().Phase, h.exec.Snapshot().Token)
			return Snapshot{}
		}
	}
}

func TestReadyAtStartupIssuesFirstQuery(t *testing.T) {
	h := newHarness(t, readySettings)

	c := h.searcher.next(t)
	assert.Equal(t, "sortBy=collectedAt&sortOrder=desc", c.query.Encode())
	assert.True(t, h.exec.Snapshot().Loading())

	c.succeed(model.Job{JobTitle: "Engineer"})
	s := h.waitFor(t, PhaseSettled, 1)
	require.Len(t, s.Jobs, 1)
	assert.False(t, s.Loading())
}

func TestNoQueryWhileNotReady(t *testing.T) {
	h := newHarness(t, model.ConnectionSettings{SourceURL: "https://x", TableID: "9"})

	_, _ = h.filters.SetField(model.FieldJobTitle, "engineer")
	_, _ = h.filters.SetField(model.FieldCompany, "Acme")
	_, _ = h.filters.SetSort(model.SortCompany, model.SortAsc)
	h.filters.Clear()
	assert.False(t, h.exec.Refresh())

	snap := h.exec.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.Zero(t, snap.Token)
	assert.Empty(t, h.searcher.calls)
}

func TestSaveUnblocksFirstQuery(t *testing.T) {
	h := newHarness(t, model.ConnectionSettings{})
	_, _ = h.filters.SetField(model.FieldJobTitle, "engineer")
	require.Zero(t, h.exec.Snapshot().Token)

	_, err := h.store.Save(context.Background(), model.PendingConnectionEdit{SourceURL: "https://x", TableID: "9", Token: "secret"})
	require.NoError(t, err)

	c := h.searcher.next(t)
	assert.Equal(t, "jobTitle=engineer&sortBy=collectedAt&sortOrder=desc", c.query.Encode())
	assert.Equal(t, uint64(1), h.exec.Snapshot().Token)
	c.succeed()
	h.waitFor(t, PhaseSettled, 1)
}

func TestStaleResponseDiscarded(t *testing.T) {
	h := newHarness(t, readySettings)
	initial := h.searcher.next(t)
	initial.succeed()
	h.waitFor(t, PhaseSettled, 1)

	_, _ = h.filters.SetField(model.FieldJobTitle, "go")
	r1 := h.searcher.next(t)
	_, _ = h.filters.SetField(model.FieldJobTitle, "golang")
	r2 := h.searcher.next(t)

	assert.Equal(t, "go", r1.query.Values().Get("jobTitle"))
	assert.Equal(t, "golang", r2.query.Values().Get("jobTitle"))

	// R2 lands first.
	r2.succeed(model.Job{JobTitle: "Golang Dev"})
	settled := h.waitFor(t, PhaseSettled, 3)
	require.Len(t, settled.Jobs, 1)
	assert.Equal(t, "Golang Dev", settled.Jobs[0].JobTitle)

	// Then R1 arrives late and must change nothing.
	r1.succeed(model.Job{JobTitle: "Go Dev"}, model.Job{JobTitle: "Other"})
	h.exec.wg.Wait()

	snap := h.exec.Snapshot()
	assert.Equal(t, PhaseSettled, snap.Phase)
	assert.Equal(t, uint64(3), snap.Token)
	require.Len(t, snap.Jobs, 1)
	assert.Equal(t, "Golang Dev", snap.Jobs[0].JobTitle)
	assert.Empty(t, h.snaps)
}

func TestStaleCompletionDoesNotClearLoading(t *testing.T) {
	h := newHarness(t, readySettings)
	r1 := h.searcher.next(t)

	_, _ = h.filters.SetField(model.FieldCompany, "Acme")
	r2 := h.searcher.next(t)

	h.waitFor(t, PhaseLoading, 2)

	// A stale failure delivered while request 2 is outstanding.
	h.exec.complete(1, r1.query, nil, errors.New("boom"), 0)

	snap := h.exec.Snapshot()
	assert.True(t, snap.Loading())
	assert.Equal(t, uint64(2), snap.Token)
	assert.Empty(t, h.snaps)

	r1.fail(errors.New("boom"))
	r2.succeed()
	h.waitFor(t, PhaseSettled, 2)
	h.exec.wg.Wait()
	assert.Equal(t, PhaseSettled, h.exec.Snapshot().Phase)
}

func TestFailureTransitionsToFailed(t *testing.T) {
	h := newHarness(t, readySettings)
	c := h.searcher.next(t)

	wantErr := &model.ConnectionError{Op: "search jobs", Status: 502, Err: errors.New("HTTP 502")}
	c.fail(wantErr)

	s := h.waitFor(t, PhaseFailed, 1)
	assert.Nil(t, s.Jobs)
	assert.True(t, model.IsConnection(s.Err))

	// No automatic retry.
	assert.Empty(t, h.searcher.calls)

	require.True(t, h.exec.Refresh())
	retry := h.searcher.next(t)
	retry.succeed()
	h.waitFor(t, PhaseSettled, 2)
}

func TestEmptyResultSettlesWithEmptyList(t *testing.T) {
	h := newHarness(t, readySettings)
	h.searcher.next(t).succeed()

	s := h.waitFor(t, PhaseSettled, 1)
	assert.NotNil(t, s.Jobs)
	assert.Empty(t, s.Jobs)
	assert.NoError(t, s.Err)
}

func TestUnchangedDescriptorDoesNotRequery(t *testing.T) {
	h := newHarness(t, readySettings)
	h.searcher.next(t).succeed()
	h.waitFor(t, PhaseSettled, 1)

	// Same criteria applied again, and a round trip back to the same value.
	h.filters.Apply(model.FilterCriteria{})
	_, _ = h.filters.SetField(model.FieldDateFrom, "2024-03-05")
	h.searcher.next(t).succeed()
	h.waitFor(t, PhaseSettled, 2)

	_, _ = h.filters.SetDate(model.FieldDateFrom, time.Date(2024, 3, 5, 15, 0, 0, 0, time.Local))

	assert.Equal(t, uint64(2), h.exec.Snapshot().Token)
	assert.Empty(t, h.searcher.calls)
}

func TestClearTriggersSingleQuery(t *testing.T) {
	h := newHarness(t, readySettings)
	h.searcher.next(t).succeed()
	h.waitFor(t, PhaseSettled, 1)

	h.filters.Apply(model.FilterCriteria{
		Company: "Acme", SourceRegion: "Brasil", Location: "Remote", JobTitle: "dev",
		DateFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local),
		DateTo:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local),
	})
	h.searcher.next(t).succeed()
	h.waitFor(t, PhaseSettled, 2)

	h.filters.Clear()
	c := h.searcher.next(t)
	assert.Equal(t, "sortBy=collectedAt&sortOrder=desc", c.query.Encode())
	assert.Equal(t, uint64(3), h.exec.Snapshot().Token)
	assert.Empty(t, h.searcher.calls)
	c.succeed()
}

func TestSettingsSaveRequeriesWithSameFilters(t *testing.T) {
	h := newHarness(t, readySettings)
	h.searcher.next(t).succeed()
	h.waitFor(t, PhaseSettled, 1)

	_, err := h.store.Save(context.Background(), model.PendingConnectionEdit{SourceURL: "https://x", TableID: "9", Token: "rotated"})
	require.NoError(t, err)

	c := h.searcher.next(t)
	assert.Equal(t, "sortBy=collectedAt&sortOrder=desc", c.query.Encode())
	c.succeed()
	h.waitFor(t, PhaseSettled, 2)
}

func TestCloseStopsTriggering(t *testing.T) {
	h := newHarness(t, readySettings)
	c := h.searcher.next(t)
	c.succeed()
	h.exec.Close()

	_, _ = h.filters.SetField(model.FieldJobTitle, "after close")
	assert.Empty(t, h.searcher.calls)
	assert.False(t, h.exec.Refresh())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "loading", PhaseLoading.String())
	assert.Equal(t, "settled", PhaseSettled.String())
	assert.Equal(t, "failed", PhaseFailed.String())
	assert.Equal(t, "phase(9)", Phase(9).String())
}
