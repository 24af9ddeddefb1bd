package domain

import "time"

// Role enumerates operator roles. Roles are assigned when accounts are
// synced from the identity provider and are treated as read-only here.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleSupport Role = "SUPPORT"
	RoleTrainee Role = "TRAINEE"
	RoleStaff   Role = "STAFF"
)

// ParseRole validates a role string against the closed set.
func ParseRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleAdmin, RoleSupport, RoleTrainee, RoleStaff:
		return Role(value), true
	}
	return "", false
}

// CanApprove reports whether the role may act on other users' timesheets.
func (r Role) CanApprove() bool {
	return r == RoleAdmin || r == RoleSupport
}

// User is the domain model for employees submitting timesheets.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	Phone        *string
	PasswordHash string
	Role         Role
	SMSOptIn     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
