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

type inviteRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newInviteRepository(client *firestore.Client) *inviteRepository {
	return &inviteRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *inviteRepository) invitesCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_invites"
	}
	return "invites"
}

func (r *inviteRepository) GetByID(ctx context.Context, id types.InviteID) (*model.Invite, error) {
	docSnap, err := r.client.Collection(r.invitesCollection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "invite not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get invite", goerr.V("id", id))
	}

	var invite model.Invite
	if err := docSnap.DataTo(&invite); err != nil {
		return nil, goerr.Wrap(err, "failed to decode invite", goerr.V("id", id))
	}

	return &invite, nil
}

func (r *inviteRepository) GetByEmail(ctx context.Context, email string) (*model.Invite, error) {
	iter := r.client.Collection(r.invitesCollection()).
		Where("Email", "==", email).Limit(1).Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "invite not found", goerr.V("email", email))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query invites", goerr.V("email", email))
	}

	var invite model.Invite
	if err := docSnap.DataTo(&invite); err != nil {
		return nil, goerr.Wrap(err, "failed to decode invite", goerr.V("doc_id", docSnap.Ref.ID))
	}

	return &invite, nil
}

func (r *inviteRepository) List(ctx context.Context) ([]*model.Invite, error) {
	iter := r.client.Collection(r.invitesCollection()).Documents(ctx)
	defer iter.Stop()

	var invites []*model.Invite
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate invites")
		}

		var invite model.Invite
		if err := docSnap.DataTo(&invite); err != nil {
			return nil, goerr.Wrap(err, "failed to decode invite", goerr.V("doc_id", docSnap.Ref.ID))
		}

		invites = append(invites, &invite)
	}

	return invites, nil
}

func (r *inviteRepository) Put(ctx context.Context, invite *model.Invite) error {
	if err := invite.Validate(); err != nil {
		return goerr.Wrap(err, "invalid invite")
	}

	_, err := r.client.Collection(r.invitesCollection()).Doc(invite.ID.String()).Set(ctx, invite)
	if err != nil {
		return goerr.Wrap(err, "failed to put invite", goerr.V("id", invite.ID))
	}

	return nil
}

func (r *inviteRepository) Delete(ctx context.Context, id types.InviteID) error {
	docRef := r.client.Collection(r.invitesCollection()).Doc(id.String())

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrNotFound, "invite not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to check invite existence", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete invite", goerr.V("id", id))
	}

	return nil
}
