package types

import "fmt"

// InviteStatus represents the delivery state of an invitation
type InviteStatus string

const (
	InviteStatusPending InviteStatus = "pending"
	InviteStatusSent    InviteStatus = "sent"
)

// IsValid checks if the invite status is valid
func (s InviteStatus) IsValid() bool {
	switch s {
	case InviteStatusPending, InviteStatusSent:
		return true
	default:
		return false
	}
}

// String returns the string representation of the invite status
func (s InviteStatus) String() string {
	return string(s)
}

// ParseInviteStatus parses a string into an InviteStatus
func ParseInviteStatus(s string) (InviteStatus, error) {
	status := InviteStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid invite status: %s", s)
	}
	return status, nil
}
