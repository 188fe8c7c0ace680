package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
	"github.com/pressbridge/pressbridge/pkg/pipeline"
	"github.com/pressbridge/pressbridge/pkg/utils/logging"
)

// CreateSession attaches the local user to the frame when the presented
// credential pair maps to an active local user whose platform identity
// confirms live. Every other outcome, including a transport failure, leaves
// the frame anonymous without raising: an unauthenticated request is not an
// error at this layer.
func (uc *UseCases) CreateSession(ctx context.Context, f *pipeline.Frame) error {
	if f.Credential == nil {
		return nil
	}

	user, err := uc.repo.User().GetByChatID(ctx, f.Credential.UserID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil
		}
		return goerr.Wrap(err, "failed to look up session user")
	}
	if !user.IsActive() {
		return nil
	}

	identity, err := uc.chat.ResolveIdentity(ctx, f.Credential)
	if err != nil {
		logging.From(ctx).Warn("identity confirmation failed, continuing anonymous",
			"chat_user_id", f.Credential.UserID, "error", err)
		return nil
	}
	if !identity.Success {
		return nil
	}

	f.Member = identity
	f.AttachUser(user)
	return nil
}

// AddSession is the explicit session-create operation. Unlike the passive
// attach, a missing or dead credential here is an authentication failure.
func (uc *UseCases) AddSession(ctx context.Context, f *pipeline.Frame) (*model.User, error) {
	if f.Credential == nil {
		return nil, types.AsUnauthorized("credential pair is required")
	}

	identity, err := uc.chat.ResolveIdentity(ctx, f.Credential)
	if err != nil {
		return nil, goerr.Wrap(err, "identity confirmation failed",
			goerr.T(types.ErrTagUnauthorized))
	}
	if !identity.Success {
		return nil, types.AsUnauthorized("credential pair rejected by the chat platform")
	}

	user, err := uc.repo.User().GetByChatID(ctx, f.Credential.UserID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, types.AsUnauthorized("no local user for this identity",
				goerr.V("chat_user_id", f.Credential.UserID))
		}
		return nil, goerr.Wrap(err, "failed to look up session user")
	}
	if !user.IsActive() {
		return nil, types.AsUnauthorized("user is inactive", goerr.V("user_id", user.ID))
	}

	f.Member = identity
	f.AttachUser(user)
	return user, nil
}

// ReadSession returns the session user or an authentication failure
func (uc *UseCases) ReadSession(ctx context.Context, f *pipeline.Frame) (*model.User, error) {
	if !f.Authenticated() {
		return nil, types.AsUnauthorized("no session")
	}
	return f.User, nil
}

// DeleteSession detaches the session user from the frame
func (uc *UseCases) DeleteSession(ctx context.Context, f *pipeline.Frame) error {
	if !f.Authenticated() {
		return types.AsUnauthorized("no session")
	}

	f.AttachUser(nil)
	f.Member = nil
	f.Context.User = ""
	return nil
}
