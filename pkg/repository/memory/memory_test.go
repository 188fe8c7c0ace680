package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
	"github.com/pressbridge/pressbridge/pkg/domain/model"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
	"github.com/pressbridge/pressbridge/pkg/repository/memory"
)

func TestUserLookups(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	owner := model.NewUser("rc-1", "alice", "Alice", "alice@example.com", types.RoleOwner)
	author := model.NewUser("rc-2", "writer", "Writer", "writer@example.com", types.RoleAuthor)
	gt.NoError(t, repo.User().Put(ctx, owner))
	gt.NoError(t, repo.User().Put(ctx, author))

	got, err := repo.User().GetByChatID(ctx, "rc-2")
	gt.NoError(t, err)
	gt.Value(t, got.ID).Equal(author.ID)

	got, err = repo.User().GetByEmail(ctx, "alice@example.com")
	gt.NoError(t, err)
	gt.Value(t, got.ID).Equal(owner.ID)

	got, err = repo.User().GetOwner(ctx)
	gt.NoError(t, err)
	gt.Value(t, got.ID).Equal(owner.ID)

	users, err := repo.User().List(ctx)
	gt.NoError(t, err)
	gt.Array(t, users).Length(2)

	_, err = repo.User().GetByChatID(ctx, "rc-unknown")
	gt.Error(t, err)
	gt.B(t, errors.Is(err, interfaces.ErrNotFound)).True()
}

func TestTokenDeleteByToken(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	user := model.NewUser("rc-1", "alice", "Alice", "alice@example.com", types.RoleAuthor)
	gt.NoError(t, repo.User().Put(ctx, user))
	gt.NoError(t, repo.Token().Put(ctx,
		model.NewAPIToken("tok-1", user.ID, types.TokenProviderAccess, time.Now().Add(time.Hour))))

	err := repo.Token().DeleteByToken(ctx, types.TokenProviderRefresh, "tok-1")
	gt.Error(t, err)
	gt.B(t, errors.Is(err, interfaces.ErrNotFound)).True()

	gt.NoError(t, repo.Token().DeleteByToken(ctx, types.TokenProviderAccess, "tok-1"))

	_, err = repo.Token().Get(ctx, types.TokenProviderAccess, "tok-1")
	gt.Error(t, err)
	gt.B(t, errors.Is(err, interfaces.ErrNotFound)).True()
}

func TestPostSlugAndAuthorLookups(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	alice := model.NewUser("rc-1", "alice", "Alice", "alice@example.com", types.RoleAuthor)
	bob := model.NewUser("rc-2", "bob", "Bob", "bob@example.com", types.RoleAuthor)
	gt.NoError(t, repo.User().Put(ctx, alice))
	gt.NoError(t, repo.User().Put(ctx, bob))

	post := model.NewPost("Hello", "hello", "<p>hi</p>", alice.ID)
	gt.NoError(t, repo.Post().Put(ctx, post))

	got, err := repo.Post().GetBySlug(ctx, "hello")
	gt.NoError(t, err)
	gt.Value(t, got.ID).Equal(post.ID)

	posts, err := repo.Post().ListByAuthor(ctx, alice.ID)
	gt.NoError(t, err)
	gt.Array(t, posts).Length(1)

	posts, err = repo.Post().ListByAuthor(ctx, bob.ID)
	gt.NoError(t, err)
	gt.Array(t, posts).Length(0)
}

func TestRoomUpsertRefreshes(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	gt.NoError(t, repo.Room().Upsert(ctx, model.NewRoom("room-1", "newsroom", types.RoomTypeChannel)))
	gt.NoError(t, repo.Room().Upsert(ctx, model.NewRoom("room-1", "renamed", types.RoomTypeChannel)))

	rooms, err := repo.Room().List(ctx)
	gt.NoError(t, err)
	gt.Array(t, rooms).Length(1)

	room, err := repo.Room().GetByName(ctx, "renamed")
	gt.NoError(t, err)
	gt.Value(t, room.ID).Equal(types.ChatRoomID("room-1"))
}

func TestSettingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	initial, err := repo.Settings().Load(ctx)
	gt.NoError(t, err)
	gt.Value(t, initial.Title).Equal("")

	initial.Title = "My Site"
	initial.WebhookToken = "hook-secret"
	gt.NoError(t, repo.Settings().Save(ctx, initial))

	loaded, err := repo.Settings().Load(ctx)
	gt.NoError(t, err)
	gt.Value(t, loaded.Title).Equal("My Site")
	gt.Value(t, loaded.WebhookToken).Equal("hook-secret")
}

func TestDeleteUserCascade(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	alice := model.NewUser("rc-1", "alice", "Alice", "alice@example.com", types.RoleAuthor)
	bob := model.NewUser("rc-2", "bob", "Bob", "bob@example.com", types.RoleAuthor)
	gt.NoError(t, repo.User().Put(ctx, alice))
	gt.NoError(t, repo.User().Put(ctx, bob))

	solo := model.NewPost("Solo", "solo", "", alice.ID)
	shared := model.NewPost("Shared", "shared", "", alice.ID)
	shared.AddAuthor(bob.ID)
	gt.NoError(t, repo.Post().Put(ctx, solo))
	gt.NoError(t, repo.Post().Put(ctx, shared))

	gt.NoError(t, repo.Token().Put(ctx,
		model.NewAPIToken("tok-1", alice.ID, types.TokenProviderAccess, time.Now().Add(time.Hour))))

	gt.NoError(t, repo.DeleteUserCascade(ctx, alice.ID))

	_, err := repo.User().GetByID(ctx, alice.ID)
	gt.B(t, errors.Is(err, interfaces.ErrNotFound)).True()

	_, err = repo.Token().Get(ctx, types.TokenProviderAccess, "tok-1")
	gt.B(t, errors.Is(err, interfaces.ErrNotFound)).True()

	_, err = repo.Post().GetByID(ctx, solo.ID)
	gt.B(t, errors.Is(err, interfaces.ErrNotFound)).True()

	kept, err := repo.Post().GetByID(ctx, shared.ID)
	gt.NoError(t, err)
	gt.Array(t, kept.AuthorIDs).Length(1)
	gt.Value(t, kept.AuthorIDs[0]).Equal(bob.ID)
}
