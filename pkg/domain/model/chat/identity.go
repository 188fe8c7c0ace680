package chat

import (
	"slices"
	"strings"

	"github.com/pressbridge/pressbridge/pkg/domain/types"
)

// AdminRole is the chat platform role required to bootstrap the instance
const AdminRole = "admin"

// Credential is the chat platform credential pair presented by a caller.
// The pair is atomic: either both values are present or the caller is not
// authenticated via the platform at all.
type Credential struct {
	UserID types.ChatUserID
	Token  string `masq:"secret"`
}

// NewCredential builds a credential pair; it returns nil unless both halves
// are present.
func NewCredential(userID, token string) *Credential {
	if userID == "" || token == "" {
		return nil
	}
	return &Credential{UserID: types.ChatUserID(userID), Token: token}
}

// Email is one address of a chat platform identity
type Email struct {
	Address  string
	Verified bool
}

// Identity is a principal as known by the chat platform. It is never
// persisted verbatim; selected fields are projected onto the local user.
type Identity struct {
	Success bool
	ID      types.ChatUserID
	Name    string
	Handle  string
	Emails  []Email
	Roles   []string
}

// IsAdmin reports whether the identity holds the platform admin role
func (i *Identity) IsAdmin() bool {
	return slices.Contains(i.Roles, AdminRole)
}

// VerifiedEmail returns the first verified address, falling back to the
// first address of any kind.
func (i *Identity) VerifiedEmail() string {
	return verifiedEmail(i.Emails)
}

func verifiedEmail(emails []Email) string {
	if len(emails) == 0 {
		return ""
	}
	for _, e := range emails {
		if e.Verified {
			return e.Address
		}
	}
	return emails[0].Address
}

// AvatarURL derives the identity's avatar location under the platform URL
func (i *Identity) AvatarURL(serverURL string) string {
	if i.Handle == "" || serverURL == "" {
		return ""
	}
	return strings.TrimRight(serverURL, "/") + "/avatar/" + i.Handle
}

// UserRef is the result of a user lookup by handle
type UserRef struct {
	Exists bool
	ID     types.ChatUserID
	Handle string
	Name   string
	Emails []Email
}

// VerifiedEmail returns the first verified address, falling back to the
// first address of any kind.
func (u *UserRef) VerifiedEmail() string {
	return verifiedEmail(u.Emails)
}

// RoomRef is the result of a room resolution
type RoomRef struct {
	Exists bool
	ID     types.ChatRoomID
	Name   string
	Type   types.RoomType
}

// RoomQuery selects a room by platform ID or by name; exactly one side
// should be set.
type RoomQuery struct {
	ID   types.ChatRoomID
	Name string
}

// IsZero reports whether the query selects nothing
func (q RoomQuery) IsZero() bool {
	return q.ID == "" && q.Name == ""
}
