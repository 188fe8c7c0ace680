package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
	"github.com/pressbridge/pressbridge/pkg/domain/model/chat"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Client resolves chat platform state by reading the platform's backing
// store directly. Deployments that share the platform's datastore project
// use this transport to skip the REST round-trip and its rate limits.
type Client struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.ChatResolver = &Client{}

type Option func(*Client)

// WithCollectionPrefix namespaces the platform's collections
func WithCollectionPrefix(prefix string) Option {
	return func(c *Client) {
		c.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID string, opts ...Option) (*Client, error) {
	fsClient, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create chat store client", goerr.V("projectID", projectID))
	}

	c := &Client{client: fsClient}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// NewWithClient wraps an existing firestore client, mainly for tests and for
// deployments that share one client across services.
func NewWithClient(fsClient *firestore.Client, opts ...Option) *Client {
	c := &Client{client: fsClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) collection(name string) string {
	if c.collectionPrefix != "" {
		return c.collectionPrefix + "_" + name
	}
	return name
}

func (c *Client) usersCollection() string         { return c.collection("chat_users") }
func (c *Client) roomsCollection() string         { return c.collection("chat_rooms") }
func (c *Client) subscriptionsCollection() string { return c.collection("chat_subscriptions") }

// platformUser mirrors the platform's own user document. Login tokens are
// stored hashed; a presented token is verified by digest comparison.
type platformUser struct {
	Username    string
	Name        string
	Emails      []platformEmail
	Roles       []string
	TokenHashes []string
}

type platformEmail struct {
	Address  string
	Verified bool
}

type platformRoom struct {
	Name      string
	Type      string
	Usernames []string
	ParentID  string
}

type platformSubscription struct {
	UserID    string
	RoomID    string
	CreatedAt time.Time
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ResolveIdentity reads the platform user record and verifies the presented
// token against the stored digests. A dead or unknown credential yields
// Success=false, not an error.
func (c *Client) ResolveIdentity(ctx context.Context, cred *chat.Credential) (*chat.Identity, error) {
	if cred == nil {
		return &chat.Identity{Success: false}, nil
	}

	docSnap, err := c.client.Collection(c.usersCollection()).Doc(cred.UserID.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return &chat.Identity{Success: false}, nil
		}
		return nil, goerr.Wrap(err, "failed to read platform user", goerr.V("user_id", cred.UserID))
	}

	var user platformUser
	if err := docSnap.DataTo(&user); err != nil {
		return nil, goerr.Wrap(err, "failed to decode platform user", goerr.V("user_id", cred.UserID))
	}

	digest := hashToken(cred.Token)
	live := false
	for _, h := range user.TokenHashes {
		if h == digest {
			live = true
			break
		}
	}
	if !live {
		return &chat.Identity{Success: false}, nil
	}

	identity := &chat.Identity{
		Success: true,
		ID:      cred.UserID,
		Name:    user.Name,
		Handle:  user.Username,
		Roles:   user.Roles,
	}
	for _, e := range user.Emails {
		identity.Emails = append(identity.Emails, chat.Email{Address: e.Address, Verified: e.Verified})
	}

	return identity, nil
}

func (c *Client) ResolveUserByHandle(ctx context.Context, _ *chat.Credential, handle string) (*chat.UserRef, error) {
	iter := c.client.Collection(c.usersCollection()).
		Where("Username", "==", handle).Limit(1).Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return &chat.UserRef{Exists: false}, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query platform users", goerr.V("handle", handle))
	}

	var user platformUser
	if err := docSnap.DataTo(&user); err != nil {
		return nil, goerr.Wrap(err, "failed to decode platform user", goerr.V("handle", handle))
	}

	ref := &chat.UserRef{
		Exists: true,
		ID:     types.ChatUserID(docSnap.Ref.ID),
		Handle: user.Username,
		Name:   user.Name,
	}
	for _, e := range user.Emails {
		ref.Emails = append(ref.Emails, chat.Email{Address: e.Address, Verified: e.Verified})
	}

	return ref, nil
}

func (c *Client) ResolveRoom(ctx context.Context, _ *chat.Credential, query chat.RoomQuery) (*chat.RoomRef, error) {
	if query.IsZero() {
		return nil, goerr.New("room query must carry an ID or a name")
	}

	if query.ID != "" {
		docSnap, err := c.client.Collection(c.roomsCollection()).Doc(query.ID.String()).Get(ctx)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return &chat.RoomRef{Exists: false}, nil
			}
			return nil, goerr.Wrap(err, "failed to read platform room", goerr.V("room_id", query.ID))
		}
		return c.decodeRoom(docSnap)
	}

	iter := c.client.Collection(c.roomsCollection()).
		Where("Name", "==", query.Name).Limit(1).Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return &chat.RoomRef{Exists: false}, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query platform rooms", goerr.V("name", query.Name))
	}

	return c.decodeRoom(docSnap)
}

func (c *Client) decodeRoom(docSnap *firestore.DocumentSnapshot) (*chat.RoomRef, error) {
	var room platformRoom
	if err := docSnap.DataTo(&room); err != nil {
		return nil, goerr.Wrap(err, "failed to decode platform room", goerr.V("doc_id", docSnap.Ref.ID))
	}

	return &chat.RoomRef{
		Exists: true,
		ID:     types.ChatRoomID(docSnap.Ref.ID),
		Name:   room.Name,
		Type:   types.RoomType(room.Type),
	}, nil
}

// ResolveSelfRoom finds the direct-message room owned by the handle,
// creating it together with its subscription when missing.
func (c *Client) ResolveSelfRoom(ctx context.Context, cred *chat.Credential, handle string) (*chat.RoomRef, error) {
	iter := c.client.Collection(c.roomsCollection()).
		Where("Type", "==", types.RoomTypeDirect.String()).
		Where("Usernames", "array-contains", handle).
		Limit(1).Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == nil {
		return c.decodeRoom(docSnap)
	}
	if err != iterator.Done {
		return nil, goerr.Wrap(err, "failed to query self room", goerr.V("handle", handle))
	}

	roomID := uuid.NewString()
	room := platformRoom{
		Name:      handle,
		Type:      types.RoomTypeDirect.String(),
		Usernames: []string{handle},
	}
	if _, err := c.client.Collection(c.roomsCollection()).Doc(roomID).Set(ctx, room); err != nil {
		return nil, goerr.Wrap(err, "failed to create self room", goerr.V("handle", handle))
	}

	if cred != nil {
		if err := c.putSubscription(ctx, cred.UserID.String(), roomID); err != nil {
			return nil, err
		}
	}

	return &chat.RoomRef{
		Exists: true,
		ID:     types.ChatRoomID(roomID),
		Name:   handle,
		Type:   types.RoomTypeDirect,
	}, nil
}

func (c *Client) CreateDiscussion(ctx context.Context, cred *chat.Credential, parent types.ChatRoomID, title string) (*chat.RoomRef, error) {
	if _, err := c.client.Collection(c.roomsCollection()).Doc(parent.String()).Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.New("parent room not found", goerr.V("parent", parent))
		}
		return nil, goerr.Wrap(err, "failed to read parent room", goerr.V("parent", parent))
	}

	roomID := uuid.NewString()
	room := platformRoom{
		Name:     title,
		Type:     types.RoomTypeDiscussion.String(),
		ParentID: parent.String(),
	}
	if _, err := c.client.Collection(c.roomsCollection()).Doc(roomID).Set(ctx, room); err != nil {
		return nil, goerr.Wrap(err, "failed to create discussion", goerr.V("parent", parent))
	}

	if cred != nil {
		if err := c.putSubscription(ctx, cred.UserID.String(), roomID); err != nil {
			return nil, err
		}
	}

	return &chat.RoomRef{
		Exists: true,
		ID:     types.ChatRoomID(roomID),
		Name:   title,
		Type:   types.RoomTypeDiscussion,
	}, nil
}

func (c *Client) putSubscription(ctx context.Context, userID, roomID string) error {
	sub := platformSubscription{
		UserID:    userID,
		RoomID:    roomID,
		CreatedAt: time.Now().UTC(),
	}
	docID := roomID + ":" + userID
	if _, err := c.client.Collection(c.subscriptionsCollection()).Doc(docID).Set(ctx, sub); err != nil {
		return goerr.Wrap(err, "failed to create subscription",
			goerr.V("user_id", userID), goerr.V("room_id", roomID))
	}
	return nil
}

// ResolveSubscription reads the live (user, room) pairing. The answer is
// never cached.
func (c *Client) ResolveSubscription(ctx context.Context, userID types.ChatUserID, roomID types.ChatRoomID) (bool, error) {
	docID := roomID.String() + ":" + userID.String()
	_, err := c.client.Collection(c.subscriptionsCollection()).Doc(docID).Get(ctx)
	if err == nil {
		return true, nil
	}
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	return false, goerr.Wrap(err, "failed to read subscription",
		goerr.V("user_id", userID), goerr.V("room_id", roomID))
}

func (c *Client) Close() error {
	if err := c.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close chat store client")
	}
	return nil
}
