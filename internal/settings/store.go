package settings

import (
	"context"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/altinukshini/jobs-tui/internal/model"
	"github.com/altinukshini/jobs-tui/internal/observe"
)

// Backend is the part of the API client the store needs.
type Backend interface {
	GetSettings(ctx context.Context) (model.ConnectionSettings, error)
	SaveSettings(ctx context.Context, edit model.PendingConnectionEdit) (model.ConnectionSettings, error)
}

// Change is published on every replacement of the committed settings.
type Change struct {
	Settings model.ConnectionSettings
	Revision uint64
}

// Store holds the committed connection settings. They start unconfigured,
// are replaced by a successful Load or Save, and are never partially
// mutated. Every replacement is published, even if the new value equals
// the old one: a save may have rotated the stored token.
type Store struct {
	backend Backend
	logger  arbor.ILogger

	mu       sync.Mutex
	settings model.ConnectionSettings
	revision uint64
	changes  observe.Subject[Change]
}

func NewStore(backend Backend, logger arbor.ILogger) *Store {
	return &Store{backend: backend, logger: logger}
}

// Load fetches settings from the back end. On failure the store stays
// unconfigured and the error is returned for the caller to log or show;
// it is not fatal. A load that resolves after a Save has committed is
// discarded so it cannot overwrite newer settings.
func (s *Store) Load(ctx context.Context) (model.ConnectionSettings, error) {
	rev := s.Snapshot().Revision
	loaded, err := s.backend.GetSettings(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load settings, staying unconfigured")
		return s.Settings(), err
	}
	current, ok := s.commitIf(rev, loaded)
	if !ok {
		s.logger.Debug().Int64("loaded_at", int64(rev)).Int64("revision", int64(current.Revision)).
			Msg("Discarding settings load superseded by a save")
		return current.Settings, nil
	}
	s.logger.Info().Str("source_url", loaded.SourceURL).Str("table_id", loaded.TableID).
		Bool("token_present", loaded.TokenPresent).Msg("Settings loaded")
	return loaded, nil
}

// Save validates and posts an edit. On failure committed settings are left
// as they were and the error is returned unchanged.
func (s *Store) Save(ctx context.Context, edit model.PendingConnectionEdit) (model.ConnectionSettings, error) {
	if err := edit.Validate(); err != nil {
		s.logger.Debug().Err(err).Msg("Rejected settings edit")
		return s.Settings(), err
	}
	saved, err := s.backend.SaveSettings(ctx, edit)
	if err != nil {
		s.logger.Error().Err(err).Str("source_url", edit.SourceURL).Msg("Failed to save settings")
		return s.Settings(), err
	}
	s.logger.Info().Str("source_url", saved.SourceURL).Str("table_id", saved.TableID).
		Bool("token_present", saved.TokenPresent).Bool("token_changed", edit.Token != "").Msg("Settings saved")
	s.commit(saved)
	return saved, nil
}

func (s *Store) Settings() model.ConnectionSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *Store) Snapshot() Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Change{Settings: s.settings, Revision: s.revision}
}

func (s *Store) IsReady() bool {
	return s.Settings().IsReady()
}

// Edit returns a fresh pending edit seeded from the committed settings.
func (s *Store) Edit() model.PendingConnectionEdit {
	return model.EditFrom(s.Settings())
}

// Subscribe registers fn for settings replacements. Subscribers are called
// with the store lock held and must not call back into the store.
func (s *Store) Subscribe(fn func(Change)) func() {
	return s.changes.Subscribe(fn)
}

func (s *Store) commit(next model.ConnectionSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitLocked(next)
}

// commitIf commits next only while the revision is still rev. It returns
// the state after the call and whether the commit happened.
func (s *Store) commitIf(rev uint64, next model.ConnectionSettings) (Change, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revision != rev {
		return Change{Settings: s.settings, Revision: s.revision}, false
	}
	s.commitLocked(next)
	return Change{Settings: s.settings, Revision: s.revision}, true
}

func (s *Store) commitLocked(next model.ConnectionSettings) {
	s.settings = next
	s.revision++
	s.changes.Publish(Change{Settings: next, Revision: s.revision})
}
