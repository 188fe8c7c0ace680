package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
)

type roomRepository struct {
	mu    sync.RWMutex
	rooms map[types.ChatRoomID]*model.Room
}

func newRoomRepository() *roomRepository {
	return &roomRepository{
		rooms: make(map[types.ChatRoomID]*model.Room),
	}
}

func (r *roomRepository) Get(ctx context.Context, id types.ChatRoomID) (*model.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "room not found", goerr.V("id", id))
	}

	roomCopy := *room
	return &roomCopy, nil
}

func (r *roomRepository) GetByName(ctx context.Context, name string) (*model.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, room := range r.rooms {
		if room.Name == name {
			roomCopy := *room
			return &roomCopy, nil
		}
	}

	return nil, goerr.Wrap(interfaces.ErrNotFound, "room not found", goerr.V("name", name))
}

func (r *roomRepository) List(ctx context.Context) ([]*model.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]*model.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		roomCopy := *room
		rooms = append(rooms, &roomCopy)
	}

	return rooms, nil
}

func (r *roomRepository) Upsert(ctx context.Context, room *model.Room) error {
	if err := room.Validate(); err != nil {
		return goerr.Wrap(err, "invalid room")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	roomCopy := *room
	r.rooms[room.ID] = &roomCopy
	return nil
}

func (r *roomRepository) Delete(ctx context.Context, id types.ChatRoomID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[id]; !ok {
		return goerr.Wrap(interfaces.ErrNotFound, "room not found", goerr.V("id", id))
	}

	delete(r.rooms, id)
	return nil
}
