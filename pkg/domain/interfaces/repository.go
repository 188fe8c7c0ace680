package interfaces

import (
	"context"
	"errors"

	"github.com/pressbridge/pressbridge/pkg/domain/types"
)

// ErrNotFound is returned (possibly wrapped) by repository implementations
// when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Repository defines the interface for data persistence
type Repository interface {
	User() UserRepository
	Invite() InviteRepository
	Room() RoomRepository
	Post() PostRepository
	Token() TokenRepository
	Settings() SettingsRepository

	// DeleteUserCascade destroys the user's API tokens, the posts they
	// authored alone, and the user record itself inside one atomic
	// transaction. A crash mid-cascade must not leave an orphaned principal
	// with live tokens.
	DeleteUserCascade(ctx context.Context, id types.UserID) error

	Close() error
}
