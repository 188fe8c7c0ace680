package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/model/chat"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
	"github.com/pressbridge/pressbridge/pkg/pipeline"
	"github.com/pressbridge/pressbridge/pkg/utils/logging"
)

// GetRoom resolves a room through the transport and refreshes the local
// cache row on success. The cache lets other subsystems resolve a room's
// name and type without a network call; it never answers this lookup itself.
func (uc *UseCases) GetRoom(ctx context.Context, f *pipeline.Frame, query chat.RoomQuery) (*chat.RoomRef, error) {
	ref, err := uc.chat.ResolveRoom(ctx, f.Credential, query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve room", goerr.T(types.ErrTagInternal))
	}
	if !ref.Exists {
		return ref, nil
	}

	room := model.NewRoom(ref.ID, ref.Name, ref.Type)
	if err := uc.repo.Room().Upsert(ctx, room); err != nil {
		return nil, goerr.Wrap(err, "failed to cache room", goerr.V("room_id", ref.ID))
	}

	return ref, nil
}

// GetOrCreateSelfRoom resolves the caller's direct-message room. A cached
// row is preferred; the transport is hit only on a cache miss, and the
// result is cached for the next call.
func (uc *UseCases) GetOrCreateSelfRoom(ctx context.Context, f *pipeline.Frame, handle string) (*chat.RoomRef, error) {
	if handle == "" {
		return nil, types.AsValidation("handle is required")
	}

	cached, err := uc.repo.Room().GetByName(ctx, handle)
	if err == nil && cached.Type == types.RoomTypeDirect {
		return &chat.RoomRef{
			Exists: true,
			ID:     cached.ID,
			Name:   cached.Name,
			Type:   cached.Type,
		}, nil
	}
	if err != nil && !errors.Is(err, interfaces.ErrNotFound) {
		return nil, goerr.Wrap(err, "failed to read room cache", goerr.V("handle", handle))
	}

	ref, err := uc.chat.ResolveSelfRoom(ctx, f.Credential, handle)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve self room", goerr.T(types.ErrTagInternal))
	}
	if !ref.Exists {
		return ref, nil
	}

	room := model.NewRoom(ref.ID, ref.Name, ref.Type)
	if err := uc.repo.Room().Upsert(ctx, room); err != nil {
		return nil, goerr.Wrap(err, "failed to cache self room", goerr.V("room_id", ref.ID))
	}

	return ref, nil
}

// CreateDiscussion opens a discussion room under the parent. When the
// discussion feature flag is off this is a neutral no-op, not an error.
func (uc *UseCases) CreateDiscussion(ctx context.Context, f *pipeline.Frame, parent types.ChatRoomID, title string) (*chat.RoomRef, error) {
	if !uc.settings.Current().EnableDiscussions {
		logging.From(ctx).Debug("discussion creation skipped, feature disabled")
		return nil, nil
	}
	if parent == "" {
		return nil, types.AsValidation("parent room is required")
	}
	if title == "" {
		return nil, types.AsValidation("discussion title is required")
	}

	ref, err := uc.chat.CreateDiscussion(ctx, f.Credential, parent, title)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create discussion", goerr.T(types.ErrTagInternal))
	}

	room := model.NewRoom(ref.ID, ref.Name, ref.Type)
	if err := uc.repo.Room().Upsert(ctx, room); err != nil {
		return nil, goerr.Wrap(err, "failed to cache discussion room", goerr.V("room_id", ref.ID))
	}

	return ref, nil
}

// ValidateSubscription checks the live (user, room) pairing. Subscriptions
// change frequently, so the answer is always fetched fresh.
func (uc *UseCases) ValidateSubscription(ctx context.Context, userID types.ChatUserID, roomID types.ChatRoomID) (bool, error) {
	exists, err := uc.chat.ResolveSubscription(ctx, userID, roomID)
	if err != nil {
		return false, goerr.Wrap(err, "failed to validate subscription",
			goerr.V("user_id", userID), goerr.V("room_id", roomID))
	}
	return exists, nil
}

// CollaborateRequest carries an edit-collaboration attempt
type CollaborateRequest struct {
	CallerChatID   types.ChatUserID
	ExpectedChatID types.ChatUserID
	PostID         types.PostID
}

// CollaborateResult is the uniform answer shape. A refusal never reveals
// which precondition failed.
type CollaborateResult struct {
	Collaborate bool
	Post        *model.Post
}

var collaborateRefused = &CollaborateResult{Collaborate: false}

// Collaborate authorizes an edit-collaboration attempt. It fails closed
// unless every precondition holds: the post exists and is collaborative,
// the caller identity matches the expected one, the collaboration flag is
// on, the caller maps to a local user, and that user holds a live
// subscription to the post's room. On success the caller is recorded as an
// additional author.
func (uc *UseCases) Collaborate(ctx context.Context, f *pipeline.Frame, req *CollaborateRequest) (*CollaborateResult, error) {
	logger := logging.From(ctx)

	post, err := uc.repo.Post().GetByID(ctx, req.PostID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return collaborateRefused, nil
		}
		return nil, goerr.Wrap(err, "failed to get post", goerr.V("post_id", req.PostID))
	}
	if !post.Collaborative || post.RoomID == "" {
		return collaborateRefused, nil
	}

	if req.CallerChatID == "" || req.CallerChatID != req.ExpectedChatID {
		logger.Debug("collaboration refused, identity mismatch", "post_id", req.PostID)
		return collaborateRefused, nil
	}

	if !uc.settings.Current().EnableCollaboration {
		return collaborateRefused, nil
	}

	user, err := uc.repo.User().GetByChatID(ctx, req.CallerChatID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return collaborateRefused, nil
		}
		return nil, goerr.Wrap(err, "failed to look up collaborator")
	}
	if !user.IsActive() {
		return collaborateRefused, nil
	}

	subscribed, err := uc.ValidateSubscription(ctx, req.CallerChatID, post.RoomID)
	if err != nil {
		return nil, err
	}
	if !subscribed {
		return collaborateRefused, nil
	}

	if !post.HasAuthor(user.ID) {
		post.AddAuthor(user.ID)
		if err := uc.repo.Post().Put(ctx, post); err != nil {
			return nil, goerr.Wrap(err, "failed to record collaborator", goerr.V("post_id", post.ID))
		}
	}

	return &CollaborateResult{Collaborate: true, Post: post}, nil
}
