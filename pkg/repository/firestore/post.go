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

type postRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newPostRepository(client *firestore.Client) *postRepository {
	return &postRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *postRepository) postsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_posts"
	}
	return "posts"
}

func (r *postRepository) GetByID(ctx context.Context, id types.PostID) (*model.Post, error) {
	docSnap, err := r.client.Collection(r.postsCollection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "post not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get post", goerr.V("id", id))
	}

	var post model.Post
	if err := docSnap.DataTo(&post); err != nil {
		return nil, goerr.Wrap(err, "failed to decode post", goerr.V("id", id))
	}

	return &post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	iter := r.client.Collection(r.postsCollection()).
		Where("Slug", "==", slug).Limit(1).Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "post not found", goerr.V("slug", slug))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query posts", goerr.V("slug", slug))
	}

	var post model.Post
	if err := docSnap.DataTo(&post); err != nil {
		return nil, goerr.Wrap(err, "failed to decode post", goerr.V("doc_id", docSnap.Ref.ID))
	}

	return &post, nil
}

func (r *postRepository) List(ctx context.Context, opts interfaces.ListPostsOptions) ([]*model.Post, error) {
	query := r.client.Collection(r.postsCollection()).
		OrderBy("CreatedAt", firestore.Desc)

	if opts.Limit > 0 {
		if opts.Page > 1 {
			query = query.Offset((opts.Page - 1) * opts.Limit)
		}
		query = query.Limit(opts.Limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var posts []*model.Post
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate posts")
		}

		var post model.Post
		if err := docSnap.DataTo(&post); err != nil {
			return nil, goerr.Wrap(err, "failed to decode post", goerr.V("doc_id", docSnap.Ref.ID))
		}

		posts = append(posts, &post)
	}

	return posts, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID types.UserID) ([]*model.Post, error) {
	iter := r.client.Collection(r.postsCollection()).
		Where("AuthorIDs", "array-contains", authorID.String()).Documents(ctx)
	defer iter.Stop()

	var posts []*model.Post
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate posts", goerr.V("author_id", authorID))
		}

		var post model.Post
		if err := docSnap.DataTo(&post); err != nil {
			return nil, goerr.Wrap(err, "failed to decode post", goerr.V("doc_id", docSnap.Ref.ID))
		}

		posts = append(posts, &post)
	}

	return posts, nil
}

func (r *postRepository) Put(ctx context.Context, post *model.Post) error {
	if err := post.Validate(); err != nil {
		return goerr.Wrap(err, "invalid post")
	}

	_, err := r.client.Collection(r.postsCollection()).Doc(post.ID.String()).Set(ctx, post)
	if err != nil {
		return goerr.Wrap(err, "failed to put post", goerr.V("id", post.ID))
	}

	return nil
}

func (r *postRepository) Delete(ctx context.Context, id types.PostID) error {
	docRef := r.client.Collection(r.postsCollection()).Doc(id.String())

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrNotFound, "post not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to check post existence", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete post", goerr.V("id", id))
	}

	return nil
}
