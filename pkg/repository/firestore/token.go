package firestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type tokenRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newTokenRepository(client *firestore.Client) *tokenRepository {
	return &tokenRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *tokenRepository) tokensCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_tokens"
	}
	return "tokens"
}

// tokenDocID derives a stable document ID from the provider and the token
// value. The raw token never appears in a document path.
func tokenDocID(provider types.TokenProvider, token string) string {
	sum := sha256.Sum256([]byte(provider.String() + ":" + token))
	return hex.EncodeToString(sum[:])
}

func (r *tokenRepository) Put(ctx context.Context, token *model.APIToken) error {
	if err := token.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token")
	}

	docID := tokenDocID(token.Provider, token.Token)
	_, err := r.client.Collection(r.tokensCollection()).Doc(docID).Set(ctx, token)
	if err != nil {
		return goerr.Wrap(err, "failed to put token", goerr.V("user_id", token.UserID))
	}

	return nil
}

func (r *tokenRepository) Get(ctx context.Context, provider types.TokenProvider, token string) (*model.APIToken, error) {
	docID := tokenDocID(provider, token)
	docSnap, err := r.client.Collection(r.tokensCollection()).Doc(docID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "token not found", goerr.V("provider", provider))
		}
		return nil, goerr.Wrap(err, "failed to get token", goerr.V("provider", provider))
	}

	var apiToken model.APIToken
	if err := docSnap.DataTo(&apiToken); err != nil {
		return nil, goerr.Wrap(err, "failed to decode token", goerr.V("provider", provider))
	}

	return &apiToken, nil
}

func (r *tokenRepository) DeleteByToken(ctx context.Context, provider types.TokenProvider, token string) error {
	docID := tokenDocID(provider, token)
	docRef := r.client.Collection(r.tokensCollection()).Doc(docID)

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrNotFound, "token not found", goerr.V("provider", provider))
		}
		return goerr.Wrap(err, "failed to check token existence", goerr.V("provider", provider))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete token", goerr.V("provider", provider))
	}

	return nil
}

func (r *tokenRepository) DeleteByUser(ctx context.Context, userID types.UserID) error {
	iter := r.client.Collection(r.tokensCollection()).
		Where("UserID", "==", userID.String()).Documents(ctx)
	defer iter.Stop()

	batch := r.client.BulkWriter(ctx)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate tokens", goerr.V("user_id", userID))
		}

		if _, err := batch.Delete(docSnap.Ref); err != nil {
			return goerr.Wrap(err, "failed to schedule token delete", goerr.V("user_id", userID))
		}
	}
	batch.End()

	return nil
}
