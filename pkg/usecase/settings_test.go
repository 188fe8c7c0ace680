package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/model/chat"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
	"github.com/pressbridge/pressbridge/pkg/pipeline"
	"github.com/pressbridge/pressbridge/pkg/usecase"
)

func TestBrowseSettingsStripsCoreForExternal(t *testing.T) {
	env := newTestEnv(t)
	env.setSetting(t, model.SettingTitle, "My Site")
	env.setSetting(t, model.SettingWebhookToken, "hook-secret")

	f := pipeline.NewFrame()
	f.AttachUser(env.putUser(t, model.NewUser("rc-1", "alice", "Alice", "alice@example.com", types.RoleAdmin)))

	settings, err := env.uc.BrowseSettings(context.Background(), f)
	gt.NoError(t, err)
	for _, s := range settings {
		gt.B(t, s.Core).False()
	}

	f.Context.Internal = true
	settings, err = env.uc.BrowseSettings(context.Background(), f)
	gt.NoError(t, err)

	found := false
	for _, s := range settings {
		if s.Key == model.SettingWebhookToken {
			found = true
			gt.Value(t, s.Value).Equal("hook-secret")
		}
	}
	gt.B(t, found).True()
}

func TestReadSettingCoreIsInternalOnly(t *testing.T) {
	env := newTestEnv(t)
	env.setSetting(t, model.SettingAnnounceToken, "announce-secret")

	f := pipeline.NewFrame()
	f.AttachUser(env.putUser(t, model.NewUser("rc-1", "alice", "Alice", "alice@example.com", types.RoleAdmin)))

	_, err := env.uc.ReadSetting(context.Background(), f, model.SettingAnnounceToken)
	gt.Error(t, err)

	var ge *goerr.Error
	gt.B(t, errors.As(err, &ge)).True()
	gt.B(t, ge.HasTag(types.ErrTagNoPermission)).True()

	f.Context.Internal = true
	setting, err := env.uc.ReadSetting(context.Background(), f, model.SettingAnnounceToken)
	gt.NoError(t, err)
	gt.Value(t, setting.Value).Equal("announce-secret")
}

func TestEditSettingRequiresAdminRole(t *testing.T) {
	env := newTestEnv(t)

	f := pipeline.NewFrame()
	f.AttachUser(env.putUser(t, model.NewUser("rc-1", "alice", "Alice", "alice@example.com", types.RoleAuthor)))

	_, err := env.uc.EditSetting(context.Background(), f, model.SettingTitle, "My Site")
	gt.Error(t, err)

	var ge *goerr.Error
	gt.B(t, errors.As(err, &ge)).True()
	gt.B(t, ge.HasTag(types.ErrTagNoPermission)).True()
}

func TestEditSettingRoomResolvesPlatformID(t *testing.T) {
	env := newTestEnv(t)
	env.resolver.addRoom(&chat.RoomRef{
		Exists: true, ID: "room-1", Name: "newsroom", Type: types.RoomTypeChannel,
	})

	f := pipeline.NewFrame()
	f.AttachUser(env.putUser(t, model.NewUser("rc-1", "alice", "Alice", "alice@example.com", types.RoleAdmin)))

	setting, err := env.uc.EditSetting(context.Background(), f, model.SettingRoom, "newsroom")
	gt.NoError(t, err)
	gt.Value(t, setting.Value).Equal("newsroom")
	gt.Value(t, env.store.Current().RoomID).Equal(types.ChatRoomID("room-1"))
}

func TestEditSettingUnknownRoomRejected(t *testing.T) {
	env := newTestEnv(t)

	f := pipeline.NewFrame()
	f.AttachUser(env.putUser(t, model.NewUser("rc-1", "alice", "Alice", "alice@example.com", types.RoleAdmin)))

	_, err := env.uc.EditSetting(context.Background(), f, model.SettingRoom, "nowhere")
	gt.Error(t, err)

	var ge *goerr.Error
	gt.B(t, errors.As(err, &ge)).True()
	gt.B(t, ge.HasTag(types.ErrTagNotFound)).True()
}

func TestBrowseUsersMarksLivePlatformUsers(t *testing.T) {
	env := newTestEnv(t)
	env.setSetting(t, model.SettingServerURL, "https://chat.example.com")

	env.putUser(t, model.NewUser("rc-1", "alice", "Alice", "alice@example.com", types.RoleAdmin))
	env.putUser(t, model.NewUser("rc-2", "departed", "Departed", "departed@example.com", types.RoleAuthor))
	env.resolver.usersByHandle["alice"] = &chat.UserRef{Exists: true, ID: "rc-1", Handle: "alice"}

	f := pipeline.NewFrame()
	f.AttachUser(env.putUser(t, model.NewUser("rc-3", "viewer", "Viewer", "viewer@example.com", types.RoleEditor)))

	entries, err := env.uc.BrowseUsers(context.Background(), f)
	gt.NoError(t, err)

	live := map[string]bool{}
	for _, entry := range entries {
		live[entry.User.Handle] = entry.Live
	}
	gt.B(t, live["alice"]).True()
	gt.B(t, live["departed"]).False()
}

func TestBrowseUsersOverlaysLiveIdentity(t *testing.T) {
	env := newTestEnv(t)
	env.setSetting(t, model.SettingServerURL, "https://chat.example.com")

	stale := env.putUser(t, model.NewUser("rc-1", "alice", "Old Name", "old@example.com", types.RoleAuthor))
	env.resolver.usersByHandle["alice"] = &chat.UserRef{
		Exists: true, ID: "rc-1", Handle: "alice", Name: "New Name",
		Emails: []chat.Email{
			{Address: "unverified@example.com", Verified: false},
			{Address: "verified@example.com", Verified: true},
		},
	}

	f := pipeline.NewFrame()
	f.AttachUser(env.putUser(t, model.NewUser("rc-3", "viewer", "Viewer", "viewer@example.com", types.RoleEditor)))

	entries, err := env.uc.BrowseUsers(context.Background(), f)
	gt.NoError(t, err)

	var row *usecase.DirectoryEntry
	for _, entry := range entries {
		if entry.User.ID == stale.ID {
			row = entry
		}
	}
	gt.Value(t, row.Live).Equal(true)
	gt.Value(t, row.User.Name).Equal("New Name")
	gt.Value(t, row.User.Email).Equal("verified@example.com")
	gt.Value(t, row.AvatarURL).Equal("https://chat.example.com/avatar/alice")

	// The stored row stays as it was.
	kept, err := env.repo.User().GetByID(context.Background(), stale.ID)
	gt.NoError(t, err)
	gt.Value(t, kept.Name).Equal("Old Name")
	gt.Value(t, kept.Email).Equal("old@example.com")
}
