package interfaces

import (
	"context"

	"github.com/pressbridge/pressbridge/pkg/domain/model/chat"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
)

// ChatResolver resolves identities, rooms, and subscriptions owned by the
// external chat platform. Two interchangeable implementations exist: one
// issues REST calls with the caller's credential pair, the other reads the
// platform's backing store directly. Callers depend only on this interface;
// the transport is selected by configuration.
type ChatResolver interface {
	// ResolveIdentity confirms liveness of the credential pair ("who am I").
	// A clean negative answer is Success=false, not an error.
	ResolveIdentity(ctx context.Context, cred *chat.Credential) (*chat.Identity, error)

	// ResolveUserByHandle looks up a platform user by handle
	ResolveUserByHandle(ctx context.Context, cred *chat.Credential, handle string) (*chat.UserRef, error)

	// ResolveRoom looks up a room by platform ID or by name
	ResolveRoom(ctx context.Context, cred *chat.Credential, query chat.RoomQuery) (*chat.RoomRef, error)

	// ResolveSelfRoom resolves (creating if needed) the direct-message room
	// owned by the handle
	ResolveSelfRoom(ctx context.Context, cred *chat.Credential, handle string) (*chat.RoomRef, error)

	// CreateDiscussion creates a discussion room under the parent room
	CreateDiscussion(ctx context.Context, cred *chat.Credential, parent types.ChatRoomID, title string) (*chat.RoomRef, error)

	// ResolveSubscription reports whether the (user, room) subscription
	// exists right now. Results must never be cached.
	ResolveSubscription(ctx context.Context, userID types.ChatUserID, roomID types.ChatRoomID) (bool, error)
}
