package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
	"github.com/pressbridge/pressbridge/pkg/pipeline"
	"golang.org/x/sync/errgroup"
)

// DirectoryEntry is one row of the user directory: the local user overlaid
// with their live platform state.
type DirectoryEntry struct {
	User      *model.User
	Live      bool
	AvatarURL string
}

// BrowseUsers lists local users enriched with live platform state. A live
// lookup overlays the platform's current name, handle, and verified email
// onto the row; a lookup failure marks the entry not-live instead of
// failing the whole browse. The enrichment fans out with a bounded
// concurrency.
func (uc *UseCases) BrowseUsers(ctx context.Context, f *pipeline.Frame) ([]*DirectoryEntry, error) {
	if !f.Authenticated() {
		return nil, types.AsUnauthorized("no session")
	}

	users, err := uc.repo.User().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list users")
	}

	serverURL := uc.settings.Current().ServerURL
	entries := make([]*DirectoryEntry, len(users))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(4)

	for i, user := range users {
		eg.Go(func() error {
			entry := &DirectoryEntry{User: user}
			entries[i] = entry

			if user.Handle == "" {
				return nil
			}

			ref, err := uc.chat.ResolveUserByHandle(egCtx, f.Credential, user.Handle)
			if err != nil || !ref.Exists {
				return nil
			}

			entry.Live = true

			// The overlay never touches the stored row.
			live := *user
			if ref.Handle != "" {
				live.Handle = ref.Handle
			}
			if ref.Name != "" {
				live.Name = ref.Name
			}
			if email := ref.VerifiedEmail(); email != "" {
				live.Email = email
			}
			entry.User = &live

			if serverURL != "" {
				entry.AvatarURL = avatarURL(serverURL, live.Handle)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, goerr.Wrap(err, "failed to enrich user directory")
	}

	return entries, nil
}

func avatarURL(serverURL, handle string) string {
	return strings.TrimRight(serverURL, "/") + "/avatar/" + handle
}
