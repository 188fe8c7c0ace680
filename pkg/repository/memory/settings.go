package memory

import (
	"context"
	"sync"

	"github.com/pressbridge/pressbridge/pkg/domain/model"
)

type settingsRepository struct {
	mu       sync.RWMutex
	settings model.Settings
}

func newSettingsRepository() *settingsRepository {
	return &settingsRepository{}
}

func (r *settingsRepository) Load(ctx context.Context) (model.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.settings, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings model.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.settings = settings
	return nil
}
