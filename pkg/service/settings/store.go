package settings

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
	"github.com/pressbridge/pressbridge/pkg/domain/model"
)

// Store holds the site configuration as an immutable snapshot. Readers get
// the current snapshot without locking; all writes funnel through one
// writer lock, persist first, and swap the snapshot only after the save
// succeeded. A failed save leaves the visible snapshot untouched.
type Store struct {
	repo    interfaces.SettingsRepository
	writeMu sync.Mutex
	current atomic.Pointer[model.Settings]
}

// New loads the stored snapshot and returns a ready store
func New(ctx context.Context, repo interfaces.SettingsRepository) (*Store, error) {
	snapshot, err := repo.Load(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load settings")
	}

	s := &Store{repo: repo}
	s.current.Store(&snapshot)

	return s, nil
}

// Current returns the live snapshot
func (s *Store) Current() model.Settings {
	return *s.current.Load()
}

// Update replaces one key and returns the new snapshot
func (s *Store) Update(ctx context.Context, key, value string) (model.Settings, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next, err := s.Current().WithValue(key, value)
	if err != nil {
		return model.Settings{}, err
	}

	if err := s.repo.Save(ctx, next); err != nil {
		return model.Settings{}, goerr.Wrap(err, "failed to save settings", goerr.V("key", key))
	}

	s.current.Store(&next)
	return next, nil
}

// Replace installs a whole snapshot, used by the setup flow
func (s *Store) Replace(ctx context.Context, next model.Settings) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.repo.Save(ctx, next); err != nil {
		return goerr.Wrap(err, "failed to save settings")
	}

	s.current.Store(&next)
	return nil
}
