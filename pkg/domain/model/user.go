package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
)

// User is a locally persisted principal. Identity fields (name, email,
// avatar) are denormalized projections of the chat platform user referenced
// by ChatID; the platform is the source of truth and re-delivers the latest
// state through webhooks on divergence.
type User struct {
	ID        types.UserID
	ChatID    types.ChatUserID
	Handle    string
	Name      string
	Email     string
	AvatarURL string
	Role      types.UserRole
	Status    types.UserStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser creates an active user bound to a chat platform identity
func NewUser(chatID types.ChatUserID, handle, name, email string, role types.UserRole) *User {
	now := time.Now()
	return &User{
		ID:        types.NewUserID(),
		ChatID:    chatID,
		Handle:    handle,
		Name:      name,
		Email:     email,
		Role:      role,
		Status:    types.UserStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsActive reports whether the user may hold a session
func (u *User) IsActive() bool {
	return u.Status == types.UserStatusActive
}

// Validate checks if the user is valid
func (u *User) Validate() error {
	if err := u.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid user ID")
	}
	if u.ChatID == "" {
		return goerr.New("chat user ID is required")
	}
	if !u.Role.IsValid() {
		return goerr.New("invalid user role", goerr.V("role", u.Role))
	}
	if !u.Status.IsValid() {
		return goerr.New("invalid user status", goerr.V("status", u.Status))
	}
	return nil
}
