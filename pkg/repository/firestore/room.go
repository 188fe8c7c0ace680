package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type roomRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newRoomRepository(client *firestore.Client) *roomRepository {
	return &roomRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *roomRepository) roomsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_rooms"
	}
	return "rooms"
}

func (r *roomRepository) Get(ctx context.Context, id types.ChatRoomID) (*model.Room, error) {
	docSnap, err := r.client.Collection(r.roomsCollection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "room not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get room", goerr.V("id", id))
	}

	var room model.Room
	if err := docSnap.DataTo(&room); err != nil {
		return nil, goerr.Wrap(err, "failed to decode room", goerr.V("id", id))
	}

	return &room, nil
}

func (r *roomRepository) GetByName(ctx context.Context, name string) (*model.Room, error) {
	iter := r.client.Collection(r.roomsCollection()).
		Where("Name", "==", name).Limit(1).Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "room not found", goerr.V("name", name))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query rooms", goerr.V("name", name))
	}

	var room model.Room
	if err := docSnap.DataTo(&room); err != nil {
		return nil, goerr.Wrap(err, "failed to decode room", goerr.V("doc_id", docSnap.Ref.ID))
	}

	return &room, nil
}

func (r *roomRepository) List(ctx context.Context) ([]*model.Room, error) {
	iter := r.client.Collection(r.roomsCollection()).Documents(ctx)
	defer iter.Stop()

	var rooms []*model.Room
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate rooms")
		}

		var room model.Room
		if err := docSnap.DataTo(&room); err != nil {
			return nil, goerr.Wrap(err, "failed to decode room", goerr.V("doc_id", docSnap.Ref.ID))
		}

		rooms = append(rooms, &room)
	}

	return rooms, nil
}

func (r *roomRepository) Upsert(ctx context.Context, room *model.Room) error {
	if err := room.Validate(); err != nil {
		return goerr.Wrap(err, "invalid room")
	}

	stored := *room
	stored.UpdatedAt = time.Now().UTC()

	_, err := r.client.Collection(r.roomsCollection()).Doc(room.ID.String()).Set(ctx, &stored)
	if err != nil {
		return goerr.Wrap(err, "failed to upsert room", goerr.V("id", room.ID))
	}

	return nil
}

func (r *roomRepository) Delete(ctx context.Context, id types.ChatRoomID) error {
	docRef := r.client.Collection(r.roomsCollection()).Doc(id.String())

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrNotFound, "room not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to check room existence", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete room", goerr.V("id", id))
	}

	return nil
}
