package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/pressbridge/pressbridge/pkg/domain/model/chat"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
	"github.com/pressbridge/pressbridge/pkg/pipeline"
	"github.com/pressbridge/pressbridge/pkg/usecase"
)

func TestSetupRequiresPlatformAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.resolver.addIdentity("rc-1", "tok", &chat.Identity{
		Success: true, ID: "rc-1", Handle: "plain", Roles: []string{"user"},
	})

	f := pipeline.NewFrame()
	f.Credential = chat.NewCredential("rc-1", "tok")

	_, err := env.uc.Setup(context.Background(), f, &usecase.SetupRequest{
		ServerURL: "https://chat.example.com",
		Title:     "My Blog",
	})
	gt.Error(t, err)

	var ge *goerr.Error
	gt.B(t, errors.As(err, &ge)).True()
	gt.B(t, ge.HasTag(types.ErrTagNoPermission)).True()
}

func TestSetupCreatesOwnerAndSettings(t *testing.T) {
	env := newTestEnv(t)
	env.resolver.addIdentity("rc-1", "tok", &chat.Identity{
		Success: true,
		ID:      "rc-1",
		Name:    "Site Owner",
		Handle:  "owner",
		Emails:  []chat.Email{{Address: "owner@example.com", Verified: true}},
		Roles:   []string{"admin"},
	})

	f := pipeline.NewFrame()
	f.Credential = chat.NewCredential("rc-1", "tok")

	owner, err := env.uc.Setup(context.Background(), f, &usecase.SetupRequest{
		ServerURL:     "https://chat.example.com",
		Title:         "My Blog",
		AnnounceToken: "announce-secret",
		WebhookToken:  "hook-secret",
	})
	gt.NoError(t, err)
	gt.Value(t, owner.Role).Equal(types.RoleOwner)
	gt.Value(t, owner.Email).Equal("owner@example.com")
	gt.Value(t, owner.AvatarURL).Equal("https://chat.example.com/avatar/owner")

	snapshot := env.store.Current()
	gt.Value(t, snapshot.Title).Equal("My Blog")
	gt.Value(t, snapshot.WebhookToken).Equal("hook-secret")

	done, err := env.uc.IsSetup(context.Background())
	gt.NoError(t, err)
	gt.B(t, done).True()
}

func TestSetupTwiceRejected(t *testing.T) {
	env := newTestEnv(t)
	env.resolver.addIdentity("rc-1", "tok", &chat.Identity{
		Success: true, ID: "rc-1", Handle: "owner", Roles: []string{"admin"},
	})

	f := pipeline.NewFrame()
	f.Credential = chat.NewCredential("rc-1", "tok")

	req := &usecase.SetupRequest{ServerURL: "https://chat.example.com", Title: "My Blog"}
	_, err := env.uc.Setup(context.Background(), f, req)
	gt.NoError(t, err)

	_, err = env.uc.Setup(context.Background(), f, req)
	gt.Error(t, err)

	var ge *goerr.Error
	gt.B(t, errors.As(err, &ge)).True()
	gt.B(t, ge.HasTag(types.ErrTagValidation)).True()
}

func TestUpdateSetupRewritesCoreSettings(t *testing.T) {
	env := newTestEnv(t)
	env.resolver.addIdentity("rc-1", "tok", &chat.Identity{
		Success: true, ID: "rc-1", Handle: "owner", Roles: []string{"admin"},
	})

	f := pipeline.NewFrame()
	f.Credential = chat.NewCredential("rc-1", "tok")

	owner, err := env.uc.Setup(context.Background(), f, &usecase.SetupRequest{
		ServerURL:    "https://chat.example.com",
		Title:        "My Blog",
		WebhookToken: "hook-secret",
	})
	gt.NoError(t, err)

	// A fresh owner session gains core-settings access only through the
	// update-setup grant.
	f2 := pipeline.NewFrame()
	f2.AttachUser(owner)
	gt.B(t, f2.Context.Internal).False()

	_, err = env.uc.UpdateSetup(context.Background(), f2, &usecase.SetupRequest{
		ServerURL:    "https://chat.example.com",
		Title:        "My Blog",
		WebhookToken: "rotated-secret",
	})
	gt.NoError(t, err)
	gt.Value(t, env.store.Current().WebhookToken).Equal("rotated-secret")
}
