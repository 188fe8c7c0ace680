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
)

// PostRequest carries the mutable inputs of post add/edit. Announce and
// Collaborative are tri-state: nil means the request did not carry the
// flag, so an edit leaves the stored value alone.
type PostRequest struct {
	Title         string
	Slug          string
	HTML          string
	Page          bool
	Status        types.PostStatus
	Tags          []string
	RoomName      string
	Announce      *bool
	Collaborative *bool
}

// BrowsePosts lists posts. Unauthenticated callers see published posts only.
func (uc *UseCases) BrowsePosts(ctx context.Context, f *pipeline.Frame, opts interfaces.ListPostsOptions) ([]*model.Post, error) {
	posts, err := uc.repo.Post().List(ctx, opts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list posts")
	}

	if f.Authenticated() {
		return posts, nil
	}

	visible := make([]*model.Post, 0, len(posts))
	for _, post := range posts {
		if post.Status == types.PostStatusPublished {
			visible = append(visible, post)
		}
	}
	return visible, nil
}

// ReadPost returns one post by ID or slug
func (uc *UseCases) ReadPost(ctx context.Context, f *pipeline.Frame, id types.PostID, slug string) (*model.Post, error) {
	var post *model.Post
	var err error

	switch {
	case id != "":
		post, err = uc.repo.Post().GetByID(ctx, id)
	case slug != "":
		post, err = uc.repo.Post().GetBySlug(ctx, slug)
	default:
		return nil, types.AsValidation("post ID or slug is required")
	}

	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, types.AsNotFound("post not found", goerr.V("id", id), goerr.V("slug", slug))
		}
		return nil, goerr.Wrap(err, "failed to get post")
	}

	if post.Status != types.PostStatusPublished && !f.Authenticated() {
		return nil, types.AsNotFound("post not found", goerr.V("id", id), goerr.V("slug", slug))
	}

	return post, nil
}

// canEditPost allows authors to touch only their own posts; editors and
// above may touch any.
func canEditPost(user *model.User, post *model.Post) error {
	switch user.Role {
	case types.RoleOwner, types.RoleAdmin, types.RoleEditor:
		return nil
	case types.RoleAuthor:
		if post.HasAuthor(user.ID) {
			return nil
		}
		return types.AsNoPermission("authors may only edit their own posts")
	default:
		return types.AsNoPermission("not allowed to edit posts")
	}
}

// resolveAnnounceRoom binds the post to the named room, resolving it through
// the transport and storing the platform room ID.
func (uc *UseCases) resolveAnnounceRoom(ctx context.Context, f *pipeline.Frame, post *model.Post, roomName string) error {
	if roomName == "" {
		return nil
	}

	ref, err := uc.GetRoom(ctx, f, chat.RoomQuery{Name: roomName})
	if err != nil {
		return err
	}
	if !ref.Exists {
		return types.AsNotFound("room not found on the chat platform", goerr.V("room", roomName))
	}

	post.RoomID = ref.ID
	return nil
}

// AddPost creates a post. Publishing with the announce flag set pings the
// chat platform after the post is stored.
func (uc *UseCases) AddPost(ctx context.Context, f *pipeline.Frame, req *PostRequest) (*model.Post, error) {
	tasks := []pipeline.Task{
		pipeline.Guard("check-session", func(ctx context.Context, f *pipeline.Frame) error {
			if !f.Authenticated() {
				return types.AsUnauthorized("no session")
			}
			return nil
		}),
		pipeline.Guard("validate-input", func(ctx context.Context, f *pipeline.Frame) error {
			if req.Title == "" {
				return types.AsValidation("post title is required")
			}
			if req.Slug == "" {
				return types.AsValidation("post slug is required")
			}
			if req.Status != "" && !req.Status.IsValid() {
				return types.AsValidation("invalid post status", goerr.V("status", req.Status))
			}
			return nil
		}),
		pipeline.NewTask("create-post", func(ctx context.Context, _ any, f *pipeline.Frame) (any, error) {
			post := model.NewPost(req.Title, req.Slug, req.HTML, f.User.ID)
			post.Page = req.Page || f.Context.IsPage
			if req.Announce != nil {
				post.Announce = *req.Announce
			}
			if req.Collaborative != nil {
				post.Collaborative = *req.Collaborative
			}
			for _, tag := range req.Tags {
				post.AddTag(tag)
			}
			if req.Status != "" {
				post.Status = req.Status
			}
			if post.Status == types.PostStatusPublished {
				post.PublishedAt = uc.now()
			}
			if err := uc.resolveAnnounceRoom(ctx, f, post, req.RoomName); err != nil {
				return nil, err
			}
			if err := uc.repo.Post().Put(ctx, post); err != nil {
				return nil, goerr.Wrap(err, "failed to store post")
			}
			return post, nil
		}),
		pipeline.NewTask("announce", func(ctx context.Context, value any, f *pipeline.Frame) (any, error) {
			post := value.(*model.Post)
			if uc.announce != nil && post.Status == types.PostStatusPublished {
				uc.announce.Ping(ctx, post, f.User)
			}
			return post, nil
		}),
	}

	result, err := pipeline.Run(ctx, tasks, nil, f)
	if err != nil {
		return nil, err
	}

	return result.(*model.Post), nil
}

// EditPost updates a post. A transition into the published state triggers
// the announce ping; staying published does not re-announce.
func (uc *UseCases) EditPost(ctx context.Context, f *pipeline.Frame, id types.PostID, req *PostRequest) (*model.Post, error) {
	if !f.Authenticated() {
		return nil, types.AsUnauthorized("no session")
	}

	post, err := uc.repo.Post().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, types.AsNotFound("post not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get post", goerr.V("id", id))
	}

	if err := canEditPost(f.User, post); err != nil {
		return nil, err
	}

	wasPublished := post.Status == types.PostStatusPublished

	if req.Title != "" {
		post.Title = req.Title
	}
	if req.Slug != "" {
		post.Slug = req.Slug
	}
	if req.HTML != "" {
		post.HTML = req.HTML
	}
	if req.Announce != nil {
		post.Announce = *req.Announce
	}
	if req.Collaborative != nil {
		post.Collaborative = *req.Collaborative
	}
	for _, tag := range req.Tags {
		post.AddTag(tag)
	}
	if req.Status != "" {
		if !req.Status.IsValid() {
			return nil, types.AsValidation("invalid post status", goerr.V("status", req.Status))
		}
		post.Status = req.Status
	}
	if err := uc.resolveAnnounceRoom(ctx, f, post, req.RoomName); err != nil {
		return nil, err
	}

	published := post.Status == types.PostStatusPublished
	if published && !wasPublished {
		post.PublishedAt = uc.now()
	}
	post.UpdatedAt = uc.now()

	if err := uc.repo.Post().Put(ctx, post); err != nil {
		return nil, goerr.Wrap(err, "failed to update post", goerr.V("id", id))
	}

	if uc.announce != nil && published && !wasPublished {
		uc.announce.Ping(ctx, post, f.User)
	}

	return post, nil
}

// DeletePost removes a post
func (uc *UseCases) DeletePost(ctx context.Context, f *pipeline.Frame, id types.PostID) error {
	if !f.Authenticated() {
		return types.AsUnauthorized("no session")
	}

	post, err := uc.repo.Post().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return types.AsNotFound("post not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get post", goerr.V("id", id))
	}

	if err := canEditPost(f.User, post); err != nil {
		return err
	}

	if err := uc.repo.Post().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete post", goerr.V("id", id))
	}

	return nil
}
