package types

import "fmt"

// PostStatus represents the publication state of a post
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusScheduled PostStatus = "scheduled"
)

// IsValid checks if the post status is valid
func (s PostStatus) IsValid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusScheduled:
		return true
	default:
		return false
	}
}

// String returns the string representation of the post status
func (s PostStatus) String() string {
	return string(s)
}

// ParsePostStatus parses a string into a PostStatus
func ParsePostStatus(s string) (PostStatus, error) {
	status := PostStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid post status: %s", s)
	}
	return status, nil
}
