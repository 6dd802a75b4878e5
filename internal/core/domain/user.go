package domain

import "time"

const (
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// User models a person known to the identity provider.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Member is a user's membership in the team.
type Member struct {
	ID        string
	UserID    string
	IsManager bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Role returns the role name of the membership.
func (m *Member) Role() string {
	return RoleName(m.IsManager)
}

// MemberDetail is a membership joined with the user's display fields.
type MemberDetail struct {
	Member
	Name  string
	Email string
}

// RoleName maps the manager flag to its role name.
func RoleName(isManager bool) string {
	if isManager {
		return RoleManager
	}
	return RoleEmployee
}

// ParseRole validates a role name and reports whether it grants manager capability.
func ParseRole(role string) (bool, error) {
	switch role {
	case RoleManager:
		return true, nil
	case RoleEmployee:
		return false, nil
	}
	return false, Validation("role must be one of: manager, employee")
}

// Principal is the authenticated caller of an operation, with its capabilities.
type Principal struct {
	UserID    string
	Name      string
	Email     string
	IsMember  bool
	IsManager bool
}

// RequireManager fails with an authorization error unless p holds manager capability.
func (p Principal) RequireManager() error {
	if !p.IsManager {
		return ErrManagerRequired
	}
	return nil
}

// Authenticated reports whether p identifies a caller.
func (p Principal) Authenticated() bool {
	return p.UserID != ""
}
