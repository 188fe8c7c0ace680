package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type userRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newUserRepository(client *firestore.Client) *userRepository {
	return &userRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *userRepository) usersCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_users"
	}
	return "users"
}

func (r *userRepository) GetByID(ctx context.Context, id types.UserID) (*model.User, error) {
	docSnap, err := r.client.Collection(r.usersCollection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "user not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("id", id))
	}

	var user model.User
	if err := docSnap.DataTo(&user); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user", goerr.V("id", id))
	}

	return &user, nil
}

func (r *userRepository) getByField(ctx context.Context, field, value string) (*model.User, error) {
	iter := r.client.Collection(r.usersCollection()).
		Where(field, "==", value).Limit(1).Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "user not found", goerr.V(field, value))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query users", goerr.V(field, value))
	}

	var user model.User
	if err := docSnap.DataTo(&user); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user", goerr.V("doc_id", docSnap.Ref.ID))
	}

	return &user, nil
}

func (r *userRepository) GetByChatID(ctx context.Context, chatID types.ChatUserID) (*model.User, error) {
	return r.getByField(ctx, "ChatID", chatID.String())
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getByField(ctx, "Email", email)
}

func (r *userRepository) GetOwner(ctx context.Context) (*model.User, error) {
	return r.getByField(ctx, "Role", types.RoleOwner.String())
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	iter := r.client.Collection(r.usersCollection()).Documents(ctx)
	defer iter.Stop()

	var users []*model.User
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate users")
		}

		var user model.User
		if err := docSnap.DataTo(&user); err != nil {
			return nil, goerr.Wrap(err, "failed to decode user", goerr.V("doc_id", docSnap.Ref.ID))
		}

		users = append(users, &user)
	}

	return users, nil
}

func (r *userRepository) Put(ctx context.Context, user *model.User) error {
	if err := user.Validate(); err != nil {
		return goerr.Wrap(err, "invalid user")
	}

	_, err := r.client.Collection(r.usersCollection()).Doc(user.ID.String()).Set(ctx, user)
	if err != nil {
		return goerr.Wrap(err, "failed to put user", goerr.V("id", user.ID))
	}

	return nil
}
