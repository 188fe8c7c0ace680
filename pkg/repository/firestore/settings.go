package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type settingsRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newSettingsRepository(client *firestore.Client) *settingsRepository {
	return &settingsRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *settingsRepository) settingsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_settings"
	}
	return "settings"
}

func (r *settingsRepository) settingsDoc() string {
	return "site"
}

// Load returns the stored snapshot. A missing document yields the zero
// snapshot so first boot starts from defaults.
func (r *settingsRepository) Load(ctx context.Context) (model.Settings, error) {
	docSnap, err := r.client.Collection(r.settingsCollection()).Doc(r.settingsDoc()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.Settings{}, nil
		}
		return model.Settings{}, goerr.Wrap(err, "failed to get settings")
	}

	var settings model.Settings
	if err := docSnap.DataTo(&settings); err != nil {
		return model.Settings{}, goerr.Wrap(err, "failed to decode settings")
	}

	return settings, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings model.Settings) error {
	_, err := r.client.Collection(r.settingsCollection()).Doc(r.settingsDoc()).Set(ctx, settings)
	if err != nil {
		return goerr.Wrap(err, "failed to save settings")
	}

	return nil
}
