package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// UserID identifies a locally persisted principal
type UserID string

// NewUserID generates a new random user ID
func NewUserID() UserID {
	return UserID(uuid.New().String())
}

func (x UserID) String() string { return string(x) }

func (x UserID) Validate() error {
	if x == "" {
		return goerr.New("user ID is empty")
	}
	return nil
}

// ChatUserID identifies a principal as known by the external chat platform
type ChatUserID string

func (x ChatUserID) String() string { return string(x) }

// ChatRoomID identifies a room as known by the external chat platform
type ChatRoomID string

func (x ChatRoomID) String() string { return string(x) }

// PostID identifies a content item
type PostID string

func NewPostID() PostID {
	return PostID(uuid.New().String())
}

func (x PostID) String() string { return string(x) }

// InviteID identifies an invitation
type InviteID string

func NewInviteID() InviteID {
	return InviteID(uuid.New().String())
}

func (x InviteID) String() string { return string(x) }
