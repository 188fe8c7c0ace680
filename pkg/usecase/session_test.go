package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/model/chat"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
	"github.com/pressbridge/pressbridge/pkg/pipeline"
)

func TestCreateSessionWithoutCredential(t *testing.T) {
	env := newTestEnv(t)
	f := pipeline.NewFrame()

	gt.NoError(t, env.uc.CreateSession(context.Background(), f))
	gt.B(t, f.Authenticated()).False()
}

func TestCreateSessionUnknownLocalUser(t *testing.T) {
	env := newTestEnv(t)
	env.resolver.addIdentity("rc-1", "tok", &chat.Identity{
		Success: true, ID: "rc-1", Handle: "alice",
	})

	f := pipeline.NewFrame()
	f.Credential = chat.NewCredential("rc-1", "tok")

	gt.NoError(t, env.uc.CreateSession(context.Background(), f))
	gt.B(t, f.Authenticated()).False()
}

func TestCreateSessionInactiveUser(t *testing.T) {
	env := newTestEnv(t)
	user := model.NewUser("rc-1", "alice", "Alice", "alice@example.com", types.RoleAuthor)
	user.Status = types.UserStatusInactive
	env.putUser(t, user)
	env.resolver.addIdentity("rc-1", "tok", &chat.Identity{
		Success: true, ID: "rc-1", Handle: "alice",
	})

	f := pipeline.NewFrame()
	f.Credential = chat.NewCredential("rc-1", "tok")

	gt.NoError(t, env.uc.CreateSession(context.Background(), f))
	gt.B(t, f.Authenticated()).False()
}

func TestCreateSessionDeadCredential(t *testing.T) {
	env := newTestEnv(t)
	env.putUser(t, model.NewUser("rc-1", "alice", "Alice", "alice@example.com", types.RoleAuthor))

	f := pipeline.NewFrame()
	f.Credential = chat.NewCredential("rc-1", "stale-token")

	gt.NoError(t, env.uc.CreateSession(context.Background(), f))
	gt.B(t, f.Authenticated()).False()
}

func TestCreateSessionTransportFailureStaysAnonymous(t *testing.T) {
	env := newTestEnv(t)
	env.putUser(t, model.NewUser("rc-1", "alice", "Alice", "alice@example.com", types.RoleAuthor))
	env.resolver.identityErr = errors.New("connection refused")

	f := pipeline.NewFrame()
	f.Credential = chat.NewCredential("rc-1", "tok")

	gt.NoError(t, env.uc.CreateSession(context.Background(), f))
	gt.B(t, f.Authenticated()).False()
}

func TestCreateSessionSuccess(t *testing.T) {
	env := newTestEnv(t)
	user := env.putUser(t, model.NewUser("rc-1", "alice", "Alice", "alice@example.com", types.RoleAuthor))
	env.resolver.addIdentity("rc-1", "tok", &chat.Identity{
		Success: true, ID: "rc-1", Handle: "alice",
	})

	f := pipeline.NewFrame()
	f.Credential = chat.NewCredential("rc-1", "tok")

	gt.NoError(t, env.uc.CreateSession(context.Background(), f))
	gt.B(t, f.Authenticated()).True()
	gt.Value(t, f.User.ID).Equal(user.ID)
	gt.Value(t, f.Context.User).Equal(user.ID)
}

func TestAddSessionRequiresCredential(t *testing.T) {
	env := newTestEnv(t)
	f := pipeline.NewFrame()

	_, err := env.uc.AddSession(context.Background(), f)
	gt.Error(t, err)

	var ge *goerr.Error
	gt.B(t, errors.As(err, &ge)).True()
	gt.B(t, ge.HasTag(types.ErrTagUnauthorized)).True()
}

func TestAddSessionTransportFailureFailsClosed(t *testing.T) {
	env := newTestEnv(t)
	env.putUser(t, model.NewUser("rc-1", "alice", "Alice", "alice@example.com", types.RoleAuthor))
	env.resolver.identityErr = errors.New("connection refused")

	f := pipeline.NewFrame()
	f.Credential = chat.NewCredential("rc-1", "tok")

	_, err := env.uc.AddSession(context.Background(), f)
	gt.Error(t, err)

	var ge *goerr.Error
	gt.B(t, errors.As(err, &ge)).True()
	gt.B(t, ge.HasTag(types.ErrTagUnauthorized)).True()
}

func TestDeleteSession(t *testing.T) {
	env := newTestEnv(t)
	user := env.putUser(t, model.NewUser("rc-1", "alice", "Alice", "alice@example.com", types.RoleAuthor))

	f := pipeline.NewFrame()
	f.AttachUser(user)

	gt.NoError(t, env.uc.DeleteSession(context.Background(), f))
	gt.B(t, f.Authenticated()).False()

	gt.Error(t, env.uc.DeleteSession(context.Background(), f))
}
