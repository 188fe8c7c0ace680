package types

import "fmt"

// UserStatus represents the lifecycle status of a local user
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// AllUserStatuses returns all valid user statuses
func AllUserStatuses() []UserStatus {
	return []UserStatus{
		UserStatusActive,
		UserStatusInactive,
	}
}

// IsValid checks if the user status is valid
func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusActive, UserStatusInactive:
		return true
	default:
		return false
	}
}

// String returns the string representation of the user status
func (s UserStatus) String() string {
	return string(s)
}

// ParseUserStatus parses a string into a UserStatus
func ParseUserStatus(s string) (UserStatus, error) {
	status := UserStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid user status: %s", s)
	}
	return status, nil
}

// UserRole represents the privilege level of a local user
type UserRole string

const (
	RoleOwner  UserRole = "owner"
	RoleAdmin  UserRole = "admin"
	RoleEditor UserRole = "editor"
	RoleAuthor UserRole = "author"
)

// IsValid checks if the role is valid
func (r UserRole) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleEditor, RoleAuthor:
		return true
	default:
		return false
	}
}

// String returns the string representation of the role
func (r UserRole) String() string {
	return string(r)
}

// ParseUserRole parses a string into a UserRole
func ParseUserRole(s string) (UserRole, error) {
	role := UserRole(s)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid user role: %s", s)
	}
	return role, nil
}
