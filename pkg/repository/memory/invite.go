package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
)

type inviteRepository struct {
	mu      sync.RWMutex
	invites map[types.InviteID]*model.Invite
}

func newInviteRepository() *inviteRepository {
	return &inviteRepository{
		invites: make(map[types.InviteID]*model.Invite),
	}
}

func (r *inviteRepository) GetByID(ctx context.Context, id types.InviteID) (*model.Invite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	invite, ok := r.invites[id]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "invite not found", goerr.V("id", id))
	}

	inviteCopy := *invite
	return &inviteCopy, nil
}

func (r *inviteRepository) GetByEmail(ctx context.Context, email string) (*model.Invite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, invite := range r.invites {
		if invite.Email == email {
			inviteCopy := *invite
			return &inviteCopy, nil
		}
	}

	return nil, goerr.Wrap(interfaces.ErrNotFound, "invite not found", goerr.V("email", email))
}

func (r *inviteRepository) List(ctx context.Context) ([]*model.Invite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	invites := make([]*model.Invite, 0, len(r.invites))
	for _, invite := range r.invites {
		inviteCopy := *invite
		invites = append(invites, &inviteCopy)
	}

	return invites, nil
}

func (r *inviteRepository) Put(ctx context.Context, invite *model.Invite) error {
	if err := invite.Validate(); err != nil {
		return goerr.Wrap(err, "invalid invite")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	inviteCopy := *invite
	r.invites[invite.ID] = &inviteCopy
	return nil
}

func (r *inviteRepository) Delete(ctx context.Context, id types.InviteID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.invites[id]; !ok {
		return goerr.Wrap(interfaces.ErrNotFound, "invite not found", goerr.V("id", id))
	}

	delete(r.invites, id)
	return nil
}
