package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
)

// APIToken is a bearer token issued to a local user by one of the token
// providers. Tokens are destroyed by explicit revocation and by the
// user-deletion cascade.
type APIToken struct {
	Token     string `masq:"secret"`
	UserID    types.UserID
	Provider  types.TokenProvider
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewAPIToken creates a token for the given user under the given provider
func NewAPIToken(token string, userID types.UserID, provider types.TokenProvider, expiresAt time.Time) *APIToken {
	return &APIToken{
		Token:     token,
		UserID:    userID,
		Provider:  provider,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
}

// Validate checks if the token is valid
func (t *APIToken) Validate() error {
	if t.Token == "" {
		return goerr.New("token value is required")
	}
	if err := t.UserID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token user")
	}
	return nil
}
