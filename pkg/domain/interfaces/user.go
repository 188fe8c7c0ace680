package interfaces

import (
	"context"

	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
)

// UserRepository persists local users
type UserRepository interface {
	GetByID(ctx context.Context, id types.UserID) (*model.User, error)
	GetByChatID(ctx context.Context, chatID types.ChatUserID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetOwner(ctx context.Context) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Put(ctx context.Context, user *model.User) error
}
