package usecase

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
	"github.com/pressbridge/pressbridge/pkg/utils/logging"
)

// WebhookEvent is one platform-originated change notification
type WebhookEvent struct {
	Kind   types.EventKind
	RoomID types.ChatRoomID
	UserID types.ChatUserID
	Value  string
}

// VerifyWebhookToken compares the path-embedded token against the
// configured shared secret in constant time. An unconfigured secret never
// verifies.
func (uc *UseCases) VerifyWebhookToken(token string) bool {
	expected := uc.settings.Current().WebhookToken
	if expected == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(expected)) == 1
}

// projection applies one event kind's field patch. Missing targets are a
// no-op: the platform may notify about entities this instance never cached.
type projection func(ctx context.Context, uc *UseCases, ev *WebhookEvent) error

var projections = map[types.EventKind]projection{
	types.EventRoomNameChanged: func(ctx context.Context, uc *UseCases, ev *WebhookEvent) error {
		return uc.patchRoom(ctx, ev.RoomID, func(room *model.Room) {
			room.Name = ev.Value
		})
	},
	types.EventRoomTypeChanged: func(ctx context.Context, uc *UseCases, ev *WebhookEvent) error {
		roomType := types.RoomType(ev.Value)
		if !roomType.IsValid() {
			return types.AsValidation("invalid room type", goerr.V("type", ev.Value))
		}
		return uc.patchRoom(ctx, ev.RoomID, func(room *model.Room) {
			room.Type = roomType
		})
	},
	types.EventUserNameChanged: func(ctx context.Context, uc *UseCases, ev *WebhookEvent) error {
		return uc.patchUser(ctx, ev.UserID, func(user *model.User) {
			user.Handle = ev.Value
		})
	},
	types.EventUserEmailChanged: func(ctx context.Context, uc *UseCases, ev *WebhookEvent) error {
		return uc.patchUser(ctx, ev.UserID, func(user *model.User) {
			user.Email = ev.Value
		})
	},
	types.EventUserAvatarChanged: func(ctx context.Context, uc *UseCases, ev *WebhookEvent) error {
		return uc.patchUser(ctx, ev.UserID, func(user *model.User) {
			user.AvatarURL = ev.Value
		})
	},
	types.EventUserRealNameChanged: func(ctx context.Context, uc *UseCases, ev *WebhookEvent) error {
		return uc.patchUser(ctx, ev.UserID, func(user *model.User) {
			user.Name = ev.Value
		})
	},
	types.EventUserDeleted: func(ctx context.Context, uc *UseCases, ev *WebhookEvent) error {
		user, err := uc.repo.User().GetByChatID(ctx, ev.UserID)
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return nil
			}
			return goerr.Wrap(err, "failed to look up deleted user", goerr.V("chat_user_id", ev.UserID))
		}
		return uc.repo.DeleteUserCascade(ctx, user.ID)
	},
	types.EventSiteTitleChanged: func(ctx context.Context, uc *UseCases, ev *WebhookEvent) error {
		_, err := uc.settings.Update(ctx, model.SettingTitle, ev.Value)
		return err
	},
}

// HandleWebhookEvent applies the projection registered for the event kind.
// Unrecognized kinds are ignored, not rejected: the platform sends more
// event kinds than this instance consumes.
func (uc *UseCases) HandleWebhookEvent(ctx context.Context, ev *WebhookEvent) error {
	project, ok := projections[ev.Kind]
	if !ok {
		logging.From(ctx).Debug("ignoring webhook event", "kind", ev.Kind)
		return nil
	}

	if err := project(ctx, uc, ev); err != nil {
		return goerr.Wrap(err, "failed to apply webhook event", goerr.V("kind", ev.Kind))
	}

	return nil
}

// patchRoom is a last-write-wins field update on the room cache
func (uc *UseCases) patchRoom(ctx context.Context, id types.ChatRoomID, patch func(*model.Room)) error {
	room, err := uc.repo.Room().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil
		}
		return goerr.Wrap(err, "failed to get cached room", goerr.V("room_id", id))
	}

	patch(room)
	if err := uc.repo.Room().Upsert(ctx, room); err != nil {
		return goerr.Wrap(err, "failed to update cached room", goerr.V("room_id", id))
	}
	return nil
}

// patchUser is a last-write-wins field update on the denormalized user row
func (uc *UseCases) patchUser(ctx context.Context, chatID types.ChatUserID, patch func(*model.User)) error {
	user, err := uc.repo.User().GetByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil
		}
		return goerr.Wrap(err, "failed to get user", goerr.V("chat_user_id", chatID))
	}

	patch(user)
	user.UpdatedAt = uc.now()
	if err := uc.repo.User().Put(ctx, user); err != nil {
		return goerr.Wrap(err, "failed to update user", goerr.V("chat_user_id", chatID))
	}
	return nil
}
