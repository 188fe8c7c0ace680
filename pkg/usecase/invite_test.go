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
	"github.com/pressbridge/pressbridge/pkg/service/mail"
	"github.com/pressbridge/pressbridge/pkg/usecase"
)

func adminFrame(t *testing.T, env *testEnv) *pipeline.Frame {
	t.Helper()
	admin := env.putUser(t, model.NewUser("rc-admin", "boss", "Boss", "boss@example.com", types.RoleAdmin))
	f := pipeline.NewFrame()
	f.AttachUser(admin)
	return f
}

func withMail() usecase.Option {
	return usecase.WithMail(mail.NewGenerator(), mail.NewLogSender())
}

func TestAddInviteCreatesAndSends(t *testing.T) {
	env := newTestEnv(t, withMail())
	ctx := context.Background()
	f := adminFrame(t, env)

	invite, err := env.uc.AddInvite(ctx, f, &usecase.AddInviteRequest{
		Email: "new@example.com",
		Role:  types.RoleAuthor,
	})
	gt.NoError(t, err)
	gt.Value(t, invite.Status).Equal(types.InviteStatusSent)
	gt.B(t, invite.Token != "").True()

	stored, err := env.repo.Invite().GetByEmail(ctx, "new@example.com")
	gt.NoError(t, err)
	gt.Value(t, stored.ID).Equal(invite.ID)
}

func TestAddInviteDestroysExisting(t *testing.T) {
	env := newTestEnv(t, withMail())
	ctx := context.Background()
	f := adminFrame(t, env)

	first, err := env.uc.AddInvite(ctx, f, &usecase.AddInviteRequest{
		Email: "new@example.com",
		Role:  types.RoleAuthor,
	})
	gt.NoError(t, err)

	second, err := env.uc.AddInvite(ctx, f, &usecase.AddInviteRequest{
		Email: "new@example.com",
		Role:  types.RoleEditor,
	})
	gt.NoError(t, err)
	gt.B(t, first.ID != second.ID).True()

	invites, err := env.repo.Invite().List(ctx)
	gt.NoError(t, err)
	gt.Array(t, invites).Length(1)
	gt.Value(t, invites[0].Role).Equal(types.RoleEditor)
}

func TestAddInviteEditorLimitedToAuthors(t *testing.T) {
	env := newTestEnv(t, withMail())
	ctx := context.Background()

	editor := env.putUser(t, model.NewUser("rc-ed", "ed", "Ed", "ed@example.com", types.RoleEditor))
	f := pipeline.NewFrame()
	f.AttachUser(editor)

	_, err := env.uc.AddInvite(ctx, f, &usecase.AddInviteRequest{
		Email: "new@example.com",
		Role:  types.RoleEditor,
	})
	gt.Error(t, err)

	var ge *goerr.Error
	gt.B(t, errors.As(err, &ge)).True()
	gt.B(t, ge.HasTag(types.ErrTagNoPermission)).True()

	_, err = env.uc.AddInvite(ctx, f, &usecase.AddInviteRequest{
		Email: "new@example.com",
		Role:  types.RoleAuthor,
	})
	gt.NoError(t, err)
}

func TestAddInviteUnknownPlatformHandle(t *testing.T) {
	env := newTestEnv(t, withMail())
	f := adminFrame(t, env)

	_, err := env.uc.AddInvite(context.Background(), f, &usecase.AddInviteRequest{
		Email:  "new@example.com",
		Role:   types.RoleAuthor,
		Handle: "nobody",
	})
	gt.Error(t, err)

	var ge *goerr.Error
	gt.B(t, errors.As(err, &ge)).True()
	gt.B(t, ge.HasTag(types.ErrTagNotFound)).True()
}

func TestAcceptInvite(t *testing.T) {
	env := newTestEnv(t, withMail())
	ctx := context.Background()
	f := adminFrame(t, env)

	invite, err := env.uc.AddInvite(ctx, f, &usecase.AddInviteRequest{
		Email: "new@example.com",
		Role:  types.RoleAuthor,
	})
	gt.NoError(t, err)

	env.resolver.addIdentity("rc-new", "tok", &chat.Identity{
		Success: true,
		ID:      "rc-new",
		Name:    "New Writer",
		Handle:  "writer",
		Emails:  []chat.Email{{Address: "new@example.com", Verified: true}},
	})

	acceptFrame := pipeline.NewFrame()
	acceptFrame.Credential = chat.NewCredential("rc-new", "tok")

	user, err := env.uc.AcceptInvite(ctx, acceptFrame, invite.Token)
	gt.NoError(t, err)
	gt.Value(t, user.Role).Equal(types.RoleAuthor)
	gt.Value(t, user.Email).Equal("new@example.com")
	gt.B(t, acceptFrame.Authenticated()).True()

	// consumed
	invites, err := env.repo.Invite().List(ctx)
	gt.NoError(t, err)
	gt.Array(t, invites).Length(0)
}

func TestAcceptInviteBadToken(t *testing.T) {
	env := newTestEnv(t, withMail())
	f := pipeline.NewFrame()
	f.Credential = chat.NewCredential("rc-new", "tok")

	_, err := env.uc.AcceptInvite(context.Background(), f, "not-a-jwt")
	gt.Error(t, err)
}
