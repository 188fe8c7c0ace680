package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
	"github.com/pressbridge/pressbridge/pkg/utils/logging"
)

// revocationOrder is the provider search order. Deliberately sequential: the
// second provider is tried only after the first reports not-found, and
// success on any provider short-circuits the rest.
var revocationOrder = []types.TokenProvider{
	types.TokenProviderRefresh,
	types.TokenProviderAccess,
}

// RevokeToken destroys a bearer token wherever it is held. Exhausting every
// provider without a hit is a revocation failure, not a silent success.
func (uc *UseCases) RevokeToken(ctx context.Context, token string) error {
	if token == "" {
		return types.AsValidation("token is required")
	}

	for _, provider := range revocationOrder {
		err := uc.repo.Token().DeleteByToken(ctx, provider, token)
		if err == nil {
			logging.From(ctx).Info("token revoked", "provider", provider)
			return nil
		}
		if errors.Is(err, interfaces.ErrNotFound) {
			continue
		}
		return goerr.Wrap(err, "failed to revoke token", goerr.V("provider", provider))
	}

	return goerr.New("token invalid or already expired",
		goerr.T(types.ErrTagTokenRevocation))
}
