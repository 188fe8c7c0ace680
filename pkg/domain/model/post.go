package model

import (
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
)

// Post is a content item. A post may be bound to a chat room for
// announcements and discussions; a collaborative post additionally allows
// subscribers of that room to be added as co-authors through the
// collaboration flow.
type Post struct {
	ID            types.PostID
	Title         string
	Slug          string
	HTML          string
	Page          bool
	Status        types.PostStatus
	AuthorIDs     []types.UserID
	Tags          []string
	RoomID        types.ChatRoomID
	Announce      bool
	Collaborative bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	PublishedAt   time.Time
}

// NewPost creates a draft post owned by the given author
func NewPost(title, slug, html string, authorID types.UserID) *Post {
	now := time.Now()
	return &Post{
		ID:        types.NewPostID(),
		Title:     title,
		Slug:      slug,
		HTML:      html,
		Status:    types.PostStatusDraft,
		AuthorIDs: []types.UserID{authorID},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasAuthor reports whether the user is already listed as an author
func (p *Post) HasAuthor(id types.UserID) bool {
	return slices.Contains(p.AuthorIDs, id)
}

// AddAuthor appends a co-author, ignoring duplicates
func (p *Post) AddAuthor(id types.UserID) {
	if !p.HasAuthor(id) {
		p.AuthorIDs = append(p.AuthorIDs, id)
	}
}

// AddTag appends a tag, ignoring duplicates
func (p *Post) AddTag(tag string) {
	if !slices.Contains(p.Tags, tag) {
		p.Tags = append(p.Tags, tag)
	}
}

// Validate checks if the post is valid
func (p *Post) Validate() error {
	if p.ID == "" {
		return goerr.New("post ID is required")
	}
	if p.Title == "" {
		return goerr.New("post title is required")
	}
	if p.Slug == "" {
		return goerr.New("post slug is required")
	}
	if !p.Status.IsValid() {
		return goerr.New("invalid post status", goerr.V("status", p.Status))
	}
	if len(p.AuthorIDs) == 0 {
		return goerr.New("post requires at least one author")
	}
	return nil
}
