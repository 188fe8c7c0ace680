package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
)

type postRepository struct {
	mu    sync.RWMutex
	posts map[types.PostID]*model.Post
}

func newPostRepository() *postRepository {
	return &postRepository{
		posts: make(map[types.PostID]*model.Post),
	}
}

func copyPost(p *model.Post) *model.Post {
	postCopy := *p
	postCopy.AuthorIDs = slices.Clone(p.AuthorIDs)
	postCopy.Tags = slices.Clone(p.Tags)
	return &postCopy
}

func (r *postRepository) GetByID(ctx context.Context, id types.PostID) (*model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "post not found", goerr.V("id", id))
	}

	return copyPost(post), nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, post := range r.posts {
		if post.Slug == slug {
			return copyPost(post), nil
		}
	}

	return nil, goerr.Wrap(interfaces.ErrNotFound, "post not found", goerr.V("slug", slug))
}

func (r *postRepository) List(ctx context.Context, opts interfaces.ListPostsOptions) ([]*model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]*model.Post, 0, len(r.posts))
	for _, post := range r.posts {
		posts = append(posts, copyPost(post))
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	if opts.Limit <= 0 {
		return posts, nil
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * opts.Limit
	if start >= len(posts) {
		return nil, nil
	}
	end := min(start+opts.Limit, len(posts))
	return posts[start:end], nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID types.UserID) ([]*model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var posts []*model.Post
	for _, post := range r.posts {
		if post.HasAuthor(authorID) {
			posts = append(posts, copyPost(post))
		}
	}

	return posts, nil
}

func (r *postRepository) Put(ctx context.Context, post *model.Post) error {
	if err := post.Validate(); err != nil {
		return goerr.Wrap(err, "invalid post")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.posts[post.ID] = copyPost(post)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id types.PostID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return goerr.Wrap(interfaces.ErrNotFound, "post not found", goerr.V("id", id))
	}

	delete(r.posts, id)
	return nil
}

// removeAuthorLocked drops the author from every post, deleting posts the
// author wrote alone. Caller must hold the write lock.
func (r *postRepository) removeAuthorLocked(authorID types.UserID) {
	for id, post := range r.posts {
		if !post.HasAuthor(authorID) {
			continue
		}
		if len(post.AuthorIDs) == 1 {
			delete(r.posts, id)
			continue
		}
		post.AuthorIDs = slices.DeleteFunc(slices.Clone(post.AuthorIDs), func(a types.UserID) bool {
			return a == authorID
		})
	}
}
