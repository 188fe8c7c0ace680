package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
)

// Invite is a pending invitation to become a local user. The token is a
// signed artifact handed to the invitee; re-inviting the same address
// destroys the previous invite before creating a new one.
type Invite struct {
	ID        types.InviteID
	Email     string
	Role      types.UserRole
	Token     string `masq:"secret"`
	Status    types.InviteStatus
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewInvite creates a pending invite for the given address
func NewInvite(email string, role types.UserRole, token string, expiresAt time.Time) *Invite {
	return &Invite{
		ID:        types.NewInviteID(),
		Email:     email,
		Role:      role,
		Token:     token,
		Status:    types.InviteStatusPending,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
}

// Expired reports whether the invite can no longer be accepted
func (i *Invite) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// Validate checks if the invite is valid
func (i *Invite) Validate() error {
	if i.ID == "" {
		return goerr.New("invite ID is required")
	}
	if i.Email == "" {
		return goerr.New("invite email is required")
	}
	if !i.Role.IsValid() {
		return goerr.New("invalid invite role", goerr.V("role", i.Role))
	}
	if i.Token == "" {
		return goerr.New("invite token is required")
	}
	if !i.Status.IsValid() {
		return goerr.New("invalid invite status", goerr.V("status", i.Status))
	}
	return nil
}
