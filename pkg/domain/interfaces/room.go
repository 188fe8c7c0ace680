package interfaces

import (
	"context"

	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
)

// RoomRepository caches chat platform rooms locally, keyed by the platform
// room ID. Upsert inserts a missing row or refreshes the mutable fields of an
// existing one.
type RoomRepository interface {
	Get(ctx context.Context, id types.ChatRoomID) (*model.Room, error)
	GetByName(ctx context.Context, name string) (*model.Room, error)
	List(ctx context.Context) ([]*model.Room, error)
	Upsert(ctx context.Context, room *model.Room) error
	Delete(ctx context.Context, id types.ChatRoomID) error
}
