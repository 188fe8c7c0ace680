package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
)

type tokenKey struct {
	provider types.TokenProvider
	token    string
}

type tokenRepository struct {
	mu     sync.RWMutex
	tokens map[tokenKey]*model.APIToken
}

func newTokenRepository() *tokenRepository {
	return &tokenRepository{
		tokens: make(map[tokenKey]*model.APIToken),
	}
}

func (r *tokenRepository) Put(ctx context.Context, token *model.APIToken) error {
	if err := token.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tokenCopy := *token
	r.tokens[tokenKey{provider: token.Provider, token: token.Token}] = &tokenCopy
	return nil
}

func (r *tokenRepository) Get(ctx context.Context, provider types.TokenProvider, token string) (*model.APIToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.tokens[tokenKey{provider: provider, token: token}]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "token not found", goerr.V("provider", provider))
	}

	tokenCopy := *stored
	return &tokenCopy, nil
}

func (r *tokenRepository) DeleteByToken(ctx context.Context, provider types.TokenProvider, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := tokenKey{provider: provider, token: token}
	if _, ok := r.tokens[key]; !ok {
		return goerr.Wrap(interfaces.ErrNotFound, "token not found", goerr.V("provider", provider))
	}

	delete(r.tokens, key)
	return nil
}

func (r *tokenRepository) DeleteByUser(ctx context.Context, userID types.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.deleteByUserLocked(userID)
	return nil
}

// deleteByUserLocked removes all tokens of a user. Caller must hold the
// write lock.
func (r *tokenRepository) deleteByUserLocked(userID types.UserID) {
	for key, token := range r.tokens {
		if token.UserID == userID {
			delete(r.tokens, key)
		}
	}
}
