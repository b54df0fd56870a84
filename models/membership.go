package models

import "time"

// ClubRole is the per-club role of a member. Each club must keep at least
// one owner at all times.
type ClubRole string

const (
	RoleOwner  ClubRole = "owner"
	RoleEditor ClubRole = "editor"
	RoleViewer ClubRole = "viewer"
)

// IsOwner reports whether the role grants owner-only actions
// (settings, member management, ownership transfer).
func (r ClubRole) IsOwner() bool {
	return r == RoleOwner
}

// CanEdit reports whether the role may mutate record lists and records.
func (r ClubRole) CanEdit() bool {
	return r == RoleOwner || r == RoleEditor
}

// Valid reports whether the role is one of the known values.
func (r ClubRole) Valid() bool {
	switch r {
	case RoleOwner, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// Membership links a user to a club with a role.
type Membership struct {
	ID        string    `json:"id" db:"id"`
	ClubID    string    `json:"club_id" db:"club_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Role      ClubRole  `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	User *User `json:"user,omitempty" db:"-"`
	Club *Club `json:"club,omitempty" db:"-"`
}
