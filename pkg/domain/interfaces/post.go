package interfaces

import (
	"context"

	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
)

// ListPostsOptions controls post pagination
type ListPostsOptions struct {
	Page  int
	Limit int
}

// PostRepository persists content items
type PostRepository interface {
	GetByID(ctx context.Context, id types.PostID) (*model.Post, error)
	GetBySlug(ctx context.Context, slug string) (*model.Post, error)
	List(ctx context.Context, opts ListPostsOptions) ([]*model.Post, error)
	ListByAuthor(ctx context.Context, authorID types.UserID) ([]*model.Post, error)
	Put(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id types.PostID) error
}
