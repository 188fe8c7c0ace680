package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
)

func TestRevokeTokenSecondProvider(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.putUser(t, model.NewUser("rc-1", "alice", "Alice", "alice@example.com", types.RoleAuthor))
	token := model.NewAPIToken("tok-access", user.ID, types.TokenProviderAccess, time.Now().Add(time.Hour))
	gt.NoError(t, env.repo.Token().Put(ctx, token))

	// held only by the access provider, so refresh reports not-found first
	gt.NoError(t, env.uc.RevokeToken(ctx, "tok-access"))

	_, err := env.repo.Token().Get(ctx, types.TokenProviderAccess, "tok-access")
	gt.B(t, errors.Is(err, interfaces.ErrNotFound)).True()
}

func TestRevokeTokenFirstProviderShortCircuits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.putUser(t, model.NewUser("rc-1", "alice", "Alice", "alice@example.com", types.RoleAuthor))
	refresh := model.NewAPIToken("tok-shared", user.ID, types.TokenProviderRefresh, time.Now().Add(time.Hour))
	access := model.NewAPIToken("tok-shared", user.ID, types.TokenProviderAccess, time.Now().Add(time.Hour))
	gt.NoError(t, env.repo.Token().Put(ctx, refresh))
	gt.NoError(t, env.repo.Token().Put(ctx, access))

	gt.NoError(t, env.uc.RevokeToken(ctx, "tok-shared"))

	// refresh is gone, access survives the short-circuit
	_, err := env.repo.Token().Get(ctx, types.TokenProviderRefresh, "tok-shared")
	gt.B(t, errors.Is(err, interfaces.ErrNotFound)).True()
	_, err = env.repo.Token().Get(ctx, types.TokenProviderAccess, "tok-shared")
	gt.NoError(t, err)
}

func TestRevokeTokenExhaustsProviders(t *testing.T) {
	env := newTestEnv(t)

	err := env.uc.RevokeToken(context.Background(), "nope")
	gt.Error(t, err)

	var ge *goerr.Error
	gt.B(t, errors.As(err, &ge)).True()
	gt.B(t, ge.HasTag(types.ErrTagTokenRevocation)).True()
}
