package types

// EventKind is the kind of a chat platform webhook event
type EventKind string

const (
	EventRoomNameChanged     EventKind = "room-name-changed"
	EventRoomTypeChanged     EventKind = "room-type-changed"
	EventUserNameChanged     EventKind = "user-name-changed"
	EventUserEmailChanged    EventKind = "user-email-changed"
	EventUserAvatarChanged   EventKind = "user-avatar-changed"
	EventUserRealNameChanged EventKind = "user-realname-changed"
	EventUserDeleted         EventKind = "user-deleted"
	EventSiteTitleChanged    EventKind = "site-title-changed"
)

// IsValid checks if the event kind is recognized
func (k EventKind) IsValid() bool {
	switch k {
	case EventRoomNameChanged,
		EventRoomTypeChanged,
		EventUserNameChanged,
		EventUserEmailChanged,
		EventUserAvatarChanged,
		EventUserRealNameChanged,
		EventUserDeleted,
		EventSiteTitleChanged:
		return true
	default:
		return false
	}
}

// String returns the string representation of the event kind
func (k EventKind) String() string {
	return string(k)
}
