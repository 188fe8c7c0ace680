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

type Firestore struct {
	client   *firestore.Client
	user     *userRepository
	invite   *inviteRepository
	room     *roomRepository
	post     *postRepository
	token    *tokenRepository
	settings *settingsRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.user.collectionPrefix = prefix
		f.invite.collectionPrefix = prefix
		f.room.collectionPrefix = prefix
		f.post.collectionPrefix = prefix
		f.token.collectionPrefix = prefix
		f.settings.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID string, opts ...Option) (*Firestore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	f := &Firestore{
		client:   client,
		user:     newUserRepository(client),
		invite:   newInviteRepository(client),
		room:     newRoomRepository(client),
		post:     newPostRepository(client),
		token:    newTokenRepository(client),
		settings: newSettingsRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) User() interfaces.UserRepository {
	return f.user
}

func (f *Firestore) Invite() interfaces.InviteRepository {
	return f.invite
}

func (f *Firestore) Room() interfaces.RoomRepository {
	return f.room
}

func (f *Firestore) Post() interfaces.PostRepository {
	return f.post
}

func (f *Firestore) Token() interfaces.TokenRepository {
	return f.token
}

func (f *Firestore) Settings() interfaces.SettingsRepository {
	return f.settings
}

// DeleteUserCascade destroys the user's tokens, removes them from their
// posts (deleting posts they authored alone), and deletes the user record,
// all in a single transaction.
func (f *Firestore) DeleteUserCascade(ctx context.Context, id types.UserID) error {
	userRef := f.client.Collection(f.user.usersCollection()).Doc(id.String())

	tokenIter := f.client.Collection(f.token.tokensCollection()).
		Where("UserID", "==", id.String()).Documents(ctx)
	defer tokenIter.Stop()

	var tokenRefs []*firestore.DocumentRef
	for {
		docSnap, err := tokenIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate tokens", goerr.V("user_id", id))
		}
		tokenRefs = append(tokenRefs, docSnap.Ref)
	}

	postIter := f.client.Collection(f.post.postsCollection()).
		Where("AuthorIDs", "array-contains", id.String()).Documents(ctx)
	defer postIter.Stop()

	type authoredPost struct {
		ref  *firestore.DocumentRef
		post model.Post
	}
	var posts []authoredPost
	for {
		docSnap, err := postIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate posts", goerr.V("user_id", id))
		}
		var p model.Post
		if err := docSnap.DataTo(&p); err != nil {
			return goerr.Wrap(err, "failed to decode post", goerr.V("doc_id", docSnap.Ref.ID))
		}
		posts = append(posts, authoredPost{ref: docSnap.Ref, post: p})
	}

	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(userRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(interfaces.ErrNotFound, "user not found", goerr.V("user_id", id))
			}
			return goerr.Wrap(err, "failed to get user", goerr.V("user_id", id))
		}

		for _, ref := range tokenRefs {
			if err := tx.Delete(ref); err != nil {
				return goerr.Wrap(err, "failed to delete token")
			}
		}

		for _, ap := range posts {
			if len(ap.post.AuthorIDs) <= 1 {
				if err := tx.Delete(ap.ref); err != nil {
					return goerr.Wrap(err, "failed to delete post", goerr.V("post_id", ap.post.ID))
				}
				continue
			}

			remaining := make([]types.UserID, 0, len(ap.post.AuthorIDs)-1)
			for _, authorID := range ap.post.AuthorIDs {
				if authorID != id {
					remaining = append(remaining, authorID)
				}
			}
			if err := tx.Update(ap.ref, []firestore.Update{
				{Path: "AuthorIDs", Value: remaining},
			}); err != nil {
				return goerr.Wrap(err, "failed to update post authors", goerr.V("post_id", ap.post.ID))
			}
		}

		return tx.Delete(userRef)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to delete user cascade", goerr.V("user_id", id))
	}

	return nil
}

func (f *Firestore) Close() error {
	if err := f.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close firestore client")
	}
	return nil
}
