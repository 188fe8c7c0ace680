package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/model/chat"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
	"github.com/pressbridge/pressbridge/pkg/repository/memory"
	"github.com/pressbridge/pressbridge/pkg/service/settings"
	"github.com/pressbridge/pressbridge/pkg/usecase"
)

// stubResolver is an in-memory chat platform for tests
type stubResolver struct {
	identities    map[string]*chat.Identity // keyed by userID:token
	usersByHandle map[string]*chat.UserRef
	roomsByID     map[types.ChatRoomID]*chat.RoomRef
	roomsByName   map[string]*chat.RoomRef
	subscriptions map[string]bool // userID:roomID

	identityErr     error
	subscriptionErr error

	identityCalls int
	roomCalls     int
}

func newStubResolver() *stubResolver {
	return &stubResolver{
		identities:    map[string]*chat.Identity{},
		usersByHandle: map[string]*chat.UserRef{},
		roomsByID:     map[types.ChatRoomID]*chat.RoomRef{},
		roomsByName:   map[string]*chat.RoomRef{},
		subscriptions: map[string]bool{},
	}
}

func (s *stubResolver) addIdentity(userID, token string, identity *chat.Identity) {
	s.identities[userID+":"+token] = identity
}

func (s *stubResolver) addRoom(ref *chat.RoomRef) {
	s.roomsByID[ref.ID] = ref
	s.roomsByName[ref.Name] = ref
}

func (s *stubResolver) subscribe(userID types.ChatUserID, roomID types.ChatRoomID) {
	s.subscriptions[userID.String()+":"+roomID.String()] = true
}

func (s *stubResolver) ResolveIdentity(ctx context.Context, cred *chat.Credential) (*chat.Identity, error) {
	s.identityCalls++
	if s.identityErr != nil {
		return nil, s.identityErr
	}
	if cred == nil {
		return &chat.Identity{Success: false}, nil
	}
	if identity, ok := s.identities[cred.UserID.String()+":"+cred.Token]; ok {
		return identity, nil
	}
	return &chat.Identity{Success: false}, nil
}

func (s *stubResolver) ResolveUserByHandle(ctx context.Context, _ *chat.Credential, handle string) (*chat.UserRef, error) {
	if ref, ok := s.usersByHandle[handle]; ok {
		return ref, nil
	}
	return &chat.UserRef{Exists: false}, nil
}

func (s *stubResolver) ResolveRoom(ctx context.Context, _ *chat.Credential, query chat.RoomQuery) (*chat.RoomRef, error) {
	s.roomCalls++
	if query.ID != "" {
		if ref, ok := s.roomsByID[query.ID]; ok {
			return ref, nil
		}
	}
	if query.Name != "" {
		if ref, ok := s.roomsByName[query.Name]; ok {
			return ref, nil
		}
	}
	return &chat.RoomRef{Exists: false}, nil
}

func (s *stubResolver) ResolveSelfRoom(ctx context.Context, _ *chat.Credential, handle string) (*chat.RoomRef, error) {
	if ref, ok := s.roomsByName[handle]; ok {
		return ref, nil
	}
	ref := &chat.RoomRef{
		Exists: true,
		ID:     types.ChatRoomID("self-" + handle),
		Name:   handle,
		Type:   types.RoomTypeDirect,
	}
	s.addRoom(ref)
	return ref, nil
}

func (s *stubResolver) CreateDiscussion(ctx context.Context, _ *chat.Credential, parent types.ChatRoomID, title string) (*chat.RoomRef, error) {
	ref := &chat.RoomRef{
		Exists: true,
		ID:     types.ChatRoomID("disc-" + title),
		Name:   title,
		Type:   types.RoomTypeDiscussion,
	}
	s.addRoom(ref)
	return ref, nil
}

func (s *stubResolver) ResolveSubscription(ctx context.Context, userID types.ChatUserID, roomID types.ChatRoomID) (bool, error) {
	if s.subscriptionErr != nil {
		return false, s.subscriptionErr
	}
	return s.subscriptions[userID.String()+":"+roomID.String()], nil
}

type testEnv struct {
	uc       *usecase.UseCases
	repo     *memory.Memory
	resolver *stubResolver
	store    *settings.Store
}

func newTestEnv(t *testing.T, opts ...usecase.Option) *testEnv {
	t.Helper()

	repo := memory.New()
	resolver := newStubResolver()

	store, err := settings.New(context.Background(), repo.Settings())
	gt.NoError(t, err)

	base := []usecase.Option{
		usecase.WithInviteKey([]byte("test-invite-key")),
		usecase.WithSiteURL("https://blog.example.com"),
		usecase.WithClock(func() time.Time {
			return time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
		}),
	}

	uc := usecase.New(repo, resolver, store, append(base, opts...)...)

	return &testEnv{uc: uc, repo: repo, resolver: resolver, store: store}
}

func (e *testEnv) putUser(t *testing.T, user *model.User) *model.User {
	t.Helper()
	gt.NoError(t, e.repo.User().Put(context.Background(), user))
	return user
}

func (e *testEnv) setSetting(t *testing.T, key, value string) {
	t.Helper()
	_, err := e.store.Update(context.Background(), key, value)
	gt.NoError(t, err)
}
