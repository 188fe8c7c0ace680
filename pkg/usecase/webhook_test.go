package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
	"github.com/pressbridge/pressbridge/pkg/usecase"
)

func TestVerifyWebhookToken(t *testing.T) {
	env := newTestEnv(t)

	// unconfigured secret never verifies
	gt.B(t, env.uc.VerifyWebhookToken("anything")).False()

	env.setSetting(t, model.SettingWebhookToken, "hook-secret")
	gt.B(t, env.uc.VerifyWebhookToken("hook-secret")).True()
	gt.B(t, env.uc.VerifyWebhookToken("hook-secre")).False()
	gt.B(t, env.uc.VerifyWebhookToken("")).False()
}

func TestWebhookRoomNameChanged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room := model.NewRoom("room-1", "general", types.RoomTypeChannel)
	gt.NoError(t, env.repo.Room().Upsert(ctx, room))

	gt.NoError(t, env.uc.HandleWebhookEvent(ctx, &usecase.WebhookEvent{
		Kind:   types.EventRoomNameChanged,
		RoomID: "room-1",
		Value:  "announcements",
	}))

	updated, err := env.repo.Room().Get(ctx, "room-1")
	gt.NoError(t, err)
	gt.Value(t, updated.Name).Equal("announcements")
}

func TestWebhookUserFieldProjections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.putUser(t, model.NewUser("rc-1", "alice", "Alice", "a@example.com", types.RoleAuthor))

	events := []*usecase.WebhookEvent{
		{Kind: types.EventUserNameChanged, UserID: "rc-1", Value: "spectre"},
		{Kind: types.EventUserRealNameChanged, UserID: "rc-1", Value: "Spectre Writer"},
		{Kind: types.EventUserEmailChanged, UserID: "rc-1", Value: "s@example.com"},
		{Kind: types.EventUserAvatarChanged, UserID: "rc-1", Value: "https://chat.example.com/avatar/spectre"},
	}
	for _, ev := range events {
		gt.NoError(t, env.uc.HandleWebhookEvent(ctx, ev))
	}

	user, err := env.repo.User().GetByChatID(ctx, "rc-1")
	gt.NoError(t, err)
	gt.Value(t, user.Handle).Equal("spectre")
	gt.Value(t, user.Name).Equal("Spectre Writer")
	gt.Value(t, user.Email).Equal("s@example.com")
	gt.Value(t, user.AvatarURL).Equal("https://chat.example.com/avatar/spectre")
}

func TestWebhookMissingTargetIsIgnored(t *testing.T) {
	env := newTestEnv(t)

	gt.NoError(t, env.uc.HandleWebhookEvent(context.Background(), &usecase.WebhookEvent{
		Kind:   types.EventUserNameChanged,
		UserID: "rc-unknown",
		Value:  "nobody",
	}))
}

func TestWebhookUnknownKindIsIgnored(t *testing.T) {
	env := newTestEnv(t)

	gt.NoError(t, env.uc.HandleWebhookEvent(context.Background(), &usecase.WebhookEvent{
		Kind: types.EventKind("message-pinned"),
	}))
}

func TestWebhookSiteTitleChanged(t *testing.T) {
	env := newTestEnv(t)

	gt.NoError(t, env.uc.HandleWebhookEvent(context.Background(), &usecase.WebhookEvent{
		Kind:  types.EventSiteTitleChanged,
		Value: "New Blog Name",
	}))

	gt.Value(t, env.store.Current().Title).Equal("New Blog Name")
}

func TestWebhookUserDeletedCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	victim := env.putUser(t, model.NewUser("rc-1", "alice", "Alice", "a@example.com", types.RoleAuthor))
	partner := env.putUser(t, model.NewUser("rc-2", "ally", "Ally", "a@example.com", types.RoleAuthor))

	token := model.NewAPIToken("tok-1", victim.ID, types.TokenProviderAccess, time.Now().Add(time.Hour))
	gt.NoError(t, env.repo.Token().Put(ctx, token))

	solo := model.NewPost("Solo", "solo", "", victim.ID)
	gt.NoError(t, env.repo.Post().Put(ctx, solo))

	shared := model.NewPost("Shared", "shared", "", victim.ID)
	shared.AddAuthor(partner.ID)
	gt.NoError(t, env.repo.Post().Put(ctx, shared))

	gt.NoError(t, env.uc.HandleWebhookEvent(ctx, &usecase.WebhookEvent{
		Kind:   types.EventUserDeleted,
		UserID: "rc-1",
	}))

	_, err := env.repo.User().GetByID(ctx, victim.ID)
	gt.B(t, errors.Is(err, interfaces.ErrNotFound)).True()

	_, err = env.repo.Token().Get(ctx, types.TokenProviderAccess, "tok-1")
	gt.B(t, errors.Is(err, interfaces.ErrNotFound)).True()

	_, err = env.repo.Post().GetByID(ctx, solo.ID)
	gt.B(t, errors.Is(err, interfaces.ErrNotFound)).True()

	kept, err := env.repo.Post().GetByID(ctx, shared.ID)
	gt.NoError(t, err)
	gt.B(t, kept.HasAuthor(victim.ID)).False()
	gt.B(t, kept.HasAuthor(partner.ID)).True()
}
