// Package executor issues job searches whenever filters, sort or connection
// settings change, and keeps only the result of the most recently triggered
// request.
package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/altinukshini/jobs-tui/internal/filter"
	"github.com/altinukshini/jobs-tui/internal/model"
	"github.com/altinukshini/jobs-tui/internal/observe"
	"github.com/altinukshini/jobs-tui/internal/settings"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSettled
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSettled:
		return "settled"
	case PhaseFailed:
		return "failed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Snapshot is the state exposed to the presentation layer. Jobs is set only
// when Settled and Err only when Failed.
type Snapshot struct {
	Phase Phase
	Jobs  []model.Job
	Err   error
	Token uint64
	Query filter.Query
}

// Loading is true exactly while the latest request is outstanding.
func (s Snapshot) Loading() bool { return s.Phase == PhaseLoading }

type Searcher interface {
	SearchJobs(ctx context.Context, q filter.Query) ([]model.Job, error)
}

type FilterSource interface {
	Snapshot() filter.Change
	Subscribe(fn func(filter.Change)) func()
}

type SettingsSource interface {
	Snapshot() settings.Change
	Subscribe(fn func(settings.Change)) func()
}

// Executor is the query state machine: Idle -> Loading -> Settled | Failed,
// re-entering Loading on every trigger. A trigger is a change of the
// settings revision or of the encoded query while settings are ready.
//
// All transitions happen under mu. Each request carries a token; a
// completion whose token is not the latest issued is dropped without any
// state change, so the visible state always belongs to the most recently
// triggered request whatever order responses arrive in.
type Executor struct {
	searcher Searcher
	logger   arbor.ILogger

	baseCtx    context.Context
	baseCancel context.CancelFunc
	unsubs     []func()
	wg         sync.WaitGroup

	mu         sync.Mutex
	filters    filter.Change
	settings   settings.Change
	lastKey    string
	latest     uint64
	cancelLast context.CancelFunc
	snap       Snapshot
	closed     bool
	changes    observe.Subject[Snapshot]
}

// New wires an executor to its sources. If settings are already ready the
// first query is issued before New returns.
func New(filters FilterSource, store SettingsSource, searcher Searcher, logger arbor.ILogger) *Executor {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Executor{
		searcher:   searcher,
		logger:     logger,
		baseCtx:    ctx,
		baseCancel: cancel,
	}
	e.filters.Sort = model.DefaultSort()

	e.unsubs = append(e.unsubs,
		filters.Subscribe(e.onFilters),
		store.Subscribe(e.onSettings),
	)
	// Seed after subscribing; the version checks make a notification that
	// raced ahead of the seed win.
	e.onFilters(filters.Snapshot())
	e.onSettings(store.Snapshot())
	return e
}

func (e *Executor) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap
}

// Subscribe registers fn for state transitions. Subscribers run on the
// executor's timeline, in transition order; they must not block or call
// back into the executor.
func (e *Executor) Subscribe(fn func(Snapshot)) func() {
	return e.changes.Subscribe(fn)
}

// Refresh re-issues the current query even if nothing changed. It does
// nothing while settings are not ready. Returns whether a request was issued.
func (e *Executor) Refresh() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.evaluateLocked(true)
}

// Close detaches from both sources, cancels the in-flight request and waits
// for request goroutines to return.
func (e *Executor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	unsubs := e.unsubs
	e.unsubs = nil
	e.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
	e.baseCancel()
	e.wg.Wait()
}

func (e *Executor) onFilters(c filter.Change) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if c.Version < e.filters.Version {
		return
	}
	e.filters = c
	e.evaluateLocked(false)
}

func (e *Executor) onSettings(c settings.Change) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if c.Revision < e.settings.Revision {
		return
	}
	e.settings = c
	e.evaluateLocked(false)
}

func (e *Executor) evaluateLocked(force bool) bool {
	if e.closed || !e.settings.Settings.IsReady() {
		return false
	}
	q := filter.Build(e.filters.Criteria, e.filters.Sort)
	key := fmt.Sprintf("%d|%s", e.settings.Revision, q.Encode())
	if !force && key == e.lastKey {
		return false
	}
	e.lastKey = key
	e.issueLocked(q)
	return true
}

func (e *Executor) issueLocked(q filter.Query) {
	e.latest++
	token := e.latest

	// The previous request can no longer win; cancelling it only saves work.
	if e.cancelLast != nil {
		e.cancelLast()
	}
	ctx, cancel := context.WithCancel(e.baseCtx)
	e.cancelLast = cancel

	e.logger.Debug().Int64("token", int64(token)).Str("query", q.Encode()).Msg("Issuing job search")
	e.setLocked(Snapshot{Phase: PhaseLoading, Token: token, Query: q})

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer cancel()
		start := time.Now()
		jobs, err := e.searcher.SearchJobs(ctx, q)
		e.complete(token, q, jobs, err, time.Since(start))
	}()
}

func (e *Executor) complete(token uint64, q filter.Query, jobs []model.Job, err error, elapsed time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if token != e.latest || e.closed {
		e.logger.Debug().Int64("token", int64(token)).Int64("latest", int64(e.latest)).
			Bool("failed", err != nil).Msg("Dropping stale job search response")
		return
	}
	e.cancelLast = nil

	if err != nil {
		e.logger.Warn().Err(err).Int64("token", int64(token)).Str("query", q.Encode()).Msg("Job search failed")
		e.setLocked(Snapshot{Phase: PhaseFailed, Err: err, Token: token, Query: q})
		return
	}
	if jobs == nil {
		jobs = []model.Job{}
	}
	e.logger.Info().Int64("token", int64(token)).Int("count", len(jobs)).
		Dur("elapsed", elapsed).Msg("Job search settled")
	e.setLocked(Snapshot{Phase: PhaseSettled, Jobs: jobs, Token: token, Query: q})
}

func (e *Executor) setLocked(s Snapshot) {
	e.snap = s
	e.changes.Publish(s)
}
