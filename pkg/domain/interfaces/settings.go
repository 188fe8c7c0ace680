package interfaces

import (
	"context"

	"github.com/pressbridge/pressbridge/pkg/domain/model"
)

// SettingsRepository persists the site configuration snapshot
type SettingsRepository interface {
	Load(ctx context.Context) (model.Settings, error)
	Save(ctx context.Context, settings model.Settings) error
}
