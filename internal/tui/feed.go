package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/altinukshini/jobs-tui/internal/executor"
	"github.com/altinukshini/jobs-tui/internal/ui"
)

// Feed hands executor snapshots to the Bubble Tea loop. It holds at most
// one pending snapshot; a newer push replaces an unread one, so Push never
// blocks the executor.
type Feed struct {
	mu   sync.Mutex
	ch   chan executor.Snapshot
	done chan struct{}
	once sync.Once
}

func NewFeed() *Feed {
	return &Feed{
		ch:   make(chan executor.Snapshot, 1),
		done: make(chan struct{}),
	}
}

// Push stores s as the pending snapshot, dropping any unread older one.
func (f *Feed) Push(s executor.Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	select {
	case <-f.ch:
	default:
	}
	f.ch <- s
}

// Wait returns a command that delivers the next snapshot as a
// ui.SnapshotMsg. It must be re-issued after every delivery.
func (f *Feed) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-f.ch:
			return ui.SnapshotMsg{Snapshot: s}
		case <-f.done:
			return nil
		}
	}
}

// Close releases any pending Wait.
func (f *Feed) Close() {
	f.once.Do(func() { close(f.done) })
}
