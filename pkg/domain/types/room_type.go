package types

// RoomType represents the kind of a chat platform room.
// The values follow the platform's wire encoding.
type RoomType string

const (
	RoomTypeChannel    RoomType = "c"
	RoomTypeDirect     RoomType = "d"
	RoomTypePrivate    RoomType = "p"
	RoomTypeDiscussion RoomType = "discussion"
)

// IsValid checks if the room type is valid
func (t RoomType) IsValid() bool {
	switch t {
	case RoomTypeChannel, RoomTypeDirect, RoomTypePrivate, RoomTypeDiscussion:
		return true
	default:
		return false
	}
}

// String returns the string representation of the room type
func (t RoomType) String() string {
	return string(t)
}
