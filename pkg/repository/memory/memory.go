package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
)

// Memory is an in-memory repository for development and tests
type Memory struct {
	users    *userRepository
	invites  *inviteRepository
	rooms    *roomRepository
	posts    *postRepository
	tokens   *tokenRepository
	settings *settingsRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		users:    newUserRepository(),
		invites:  newInviteRepository(),
		rooms:    newRoomRepository(),
		posts:    newPostRepository(),
		tokens:   newTokenRepository(),
		settings: newSettingsRepository(),
	}
}

func (m *Memory) User() interfaces.UserRepository {
	return m.users
}

func (m *Memory) Invite() interfaces.InviteRepository {
	return m.invites
}

func (m *Memory) Room() interfaces.RoomRepository {
	return m.rooms
}

func (m *Memory) Post() interfaces.PostRepository {
	return m.posts
}

func (m *Memory) Token() interfaces.TokenRepository {
	return m.tokens
}

func (m *Memory) Settings() interfaces.SettingsRepository {
	return m.settings
}

// DeleteUserCascade removes the user's tokens, drops them from authored
// posts (deleting posts they authored alone), and removes the user record.
// Locks are taken in a fixed order so concurrent cascades cannot deadlock.
func (m *Memory) DeleteUserCascade(ctx context.Context, id types.UserID) error {
	m.users.mu.Lock()
	defer m.users.mu.Unlock()
	m.posts.mu.Lock()
	defer m.posts.mu.Unlock()
	m.tokens.mu.Lock()
	defer m.tokens.mu.Unlock()

	user, ok := m.users.users[id]
	if !ok {
		return goerr.Wrap(interfaces.ErrNotFound, "user not found", goerr.V("id", id))
	}

	m.tokens.deleteByUserLocked(id)
	m.posts.removeAuthorLocked(id)
	delete(m.users.users, user.ID)

	return nil
}

func (m *Memory) Close() error {
	return nil
}
