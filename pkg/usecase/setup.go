package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
	"github.com/pressbridge/pressbridge/pkg/pipeline"
)

// SetupRequest carries the bootstrap inputs
type SetupRequest struct {
	Name          string
	ServerURL     string
	Title         string
	Description   string
	AnnounceToken string
	WebhookToken  string
}

// IsSetup reports whether the instance has an owner
func (uc *UseCases) IsSetup(ctx context.Context) (bool, error) {
	_, err := uc.repo.User().GetOwner(ctx)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to look up instance owner")
	}
	return true, nil
}

// assertSetupCompleted builds a guard that pins an operation to one side of
// the setup boundary.
func (uc *UseCases) assertSetupCompleted(expected bool) pipeline.Task {
	return pipeline.Guard("assert-setup-completed", func(ctx context.Context, f *pipeline.Frame) error {
		done, err := uc.IsSetup(ctx)
		if err != nil {
			return err
		}
		if done != expected {
			if expected {
				return types.AsValidation("setup must be completed first")
			}
			return types.AsValidation("setup is already completed")
		}
		return nil
	})
}

// checkAdmin confirms the caller's platform identity and requires the
// platform admin role.
func (uc *UseCases) checkAdmin(ctx context.Context, f *pipeline.Frame) error {
	if f.Credential == nil {
		return types.AsUnauthorized("credential pair is required")
	}

	identity, err := uc.chat.ResolveIdentity(ctx, f.Credential)
	if err != nil {
		return goerr.Wrap(err, "identity confirmation failed", goerr.T(types.ErrTagUnauthorized))
	}
	if !identity.Success {
		return types.AsUnauthorized("credential pair rejected by the chat platform")
	}
	if !identity.IsAdmin() {
		return types.AsNoPermission("platform admin role is required")
	}

	f.Member = identity
	return nil
}

// grantInternal marks the frame as acting with instance authority. It may
// only be inserted after an authorization guard has passed; core settings
// become writable through it.
func grantInternal() pipeline.Task {
	return pipeline.NewTask("grant-internal", func(ctx context.Context, value any, f *pipeline.Frame) (any, error) {
		f.Context.Internal = true
		return value, nil
	})
}

// Setup bootstraps the instance: the platform admin presenting the
// credential becomes the owner and the initial settings are installed.
func (uc *UseCases) Setup(ctx context.Context, f *pipeline.Frame, req *SetupRequest) (*model.User, error) {
	tasks := []pipeline.Task{
		uc.assertSetupCompleted(false),
		pipeline.Guard("check-admin", uc.checkAdmin),
		pipeline.NewTask("create-owner", func(ctx context.Context, _ any, f *pipeline.Frame) (any, error) {
			return uc.createOwner(ctx, f, req)
		}),
		grantInternal(),
		pipeline.NewTask("install-settings", func(ctx context.Context, value any, f *pipeline.Frame) (any, error) {
			if err := uc.installSettings(ctx, f, req); err != nil {
				return nil, err
			}
			return value, nil
		}),
	}

	result, err := pipeline.Run(ctx, tasks, nil, f)
	if err != nil {
		return nil, err
	}

	return result.(*model.User), nil
}

func (uc *UseCases) createOwner(ctx context.Context, f *pipeline.Frame, req *SetupRequest) (*model.User, error) {
	identity := f.Member

	name := req.Name
	if name == "" {
		name = identity.Name
	}

	owner := model.NewUser(identity.ID, identity.Handle, name, identity.VerifiedEmail(), types.RoleOwner)
	owner.AvatarURL = identity.AvatarURL(req.ServerURL)

	if err := uc.repo.User().Put(ctx, owner); err != nil {
		return nil, goerr.Wrap(err, "failed to create owner")
	}

	f.AttachUser(owner)
	return owner, nil
}

// installSettings writes the bootstrap values through the settings API so
// the core-key authorization applies; the frame must carry the internal
// grant by the time this runs.
func (uc *UseCases) installSettings(ctx context.Context, f *pipeline.Frame, req *SetupRequest) error {
	if req.ServerURL == "" {
		return types.AsValidation("chat platform server URL is required")
	}

	pairs := []struct{ key, value string }{
		{model.SettingServerURL, req.ServerURL},
		{model.SettingTitle, req.Title},
		{model.SettingDescription, req.Description},
		{model.SettingAnnounceToken, req.AnnounceToken},
		{model.SettingWebhookToken, req.WebhookToken},
	}
	for _, pair := range pairs {
		if _, err := uc.EditSetting(ctx, f, pair.key, pair.value); err != nil {
			return err
		}
	}

	return nil
}

// UpdateSetup lets the owner revise the bootstrap values after setup
func (uc *UseCases) UpdateSetup(ctx context.Context, f *pipeline.Frame, req *SetupRequest) (*model.User, error) {
	tasks := []pipeline.Task{
		uc.assertSetupCompleted(true),
		pipeline.Guard("check-owner", func(ctx context.Context, f *pipeline.Frame) error {
			if !f.Authenticated() {
				return types.AsUnauthorized("no session")
			}
			if f.User.Role != types.RoleOwner {
				return types.AsNoPermission("only the instance owner may update setup")
			}
			return nil
		}),
		pipeline.NewTask("update-owner", func(ctx context.Context, _ any, f *pipeline.Frame) (any, error) {
			owner := f.User
			if req.Name != "" {
				owner.Name = req.Name
			}
			if err := uc.repo.User().Put(ctx, owner); err != nil {
				return nil, goerr.Wrap(err, "failed to update owner")
			}
			return owner, nil
		}),
		grantInternal(),
		pipeline.NewTask("install-settings", func(ctx context.Context, value any, f *pipeline.Frame) (any, error) {
			if err := uc.installSettings(ctx, f, req); err != nil {
				return nil, err
			}
			return value, nil
		}),
	}

	result, err := pipeline.Run(ctx, tasks, nil, f)
	if err != nil {
		return nil, err
	}

	return result.(*model.User), nil
}
