package interfaces

import (
	"context"

	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
)

// TokenRepository persists API tokens. DeleteByToken returns ErrNotFound when
// the given provider does not hold the token; revocation relies on that
// signal to fall through to the next provider.
type TokenRepository interface {
	Put(ctx context.Context, token *model.APIToken) error
	Get(ctx context.Context, provider types.TokenProvider, token string) (*model.APIToken, error)
	DeleteByToken(ctx context.Context, provider types.TokenProvider, token string) error
	DeleteByUser(ctx context.Context, userID types.UserID) error
}
