package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
)

// Room is the local cache row for a chat platform room, keyed by the
// platform's room ID. It exists so other subsystems can resolve a room's
// human-facing name and type without a network call; it is refreshed on every
// successful room resolution and by webhook projections. Subscriptions are
// deliberately never cached here.
type Room struct {
	ID        types.ChatRoomID
	Name      string
	Type      types.RoomType
	UpdatedAt time.Time
}

// NewRoom creates a room cache row
func NewRoom(id types.ChatRoomID, name string, roomType types.RoomType) *Room {
	return &Room{
		ID:        id,
		Name:      name,
		Type:      roomType,
		UpdatedAt: time.Now(),
	}
}

// Validate checks if the room is valid
func (r *Room) Validate() error {
	if r.ID == "" {
		return goerr.New("room ID is required")
	}
	if r.Name == "" {
		return goerr.New("room name is required")
	}
	if !r.Type.IsValid() {
		return goerr.New("invalid room type", goerr.V("type", r.Type))
	}
	return nil
}
