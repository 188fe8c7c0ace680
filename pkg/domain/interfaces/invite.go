package interfaces

import (
	"context"

	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
)

// InviteRepository persists invitations
type InviteRepository interface {
	GetByID(ctx context.Context, id types.InviteID) (*model.Invite, error)
	GetByEmail(ctx context.Context, email string) (*model.Invite, error)
	List(ctx context.Context) ([]*model.Invite, error)
	Put(ctx context.Context, invite *model.Invite) error
	Delete(ctx context.Context, id types.InviteID) error
}
