// Package session holds the client-side authentication session: the user
// identity, the token pair, and the state machine that guards every
// transition between the anonymous and authenticated worlds.
package session

import "time"

// Role is the workspace role assigned to a user account.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleDeveloper     Role = "developer"
	RoleClient        Role = "client"
)

// User is the account identity as returned by the server. The client never
// mutates it; profile updates go through dedicated endpoints outside the
// session core.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Role      Role       `json:"role"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// FullName returns "First Last" for display purposes.
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	return u.FirstName + " " + u.LastName
}

// Credentials carry a login attempt. Transient, never persisted.
type Credentials struct {
	Email    string
	Password string
}

// Snapshot is the durable subset of the session, stored as one JSON record
// under a fixed key. A snapshot only exists for an authenticated session;
// logout removes it instead of writing an empty one.
type Snapshot struct {
	User            *User  `json:"user"`
	AccessToken     string `json:"accessToken"`
	RefreshToken    string `json:"refreshToken"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

// Valid reports whether the snapshot describes a well-formed authenticated
// session. A record holding only a refresh token, or whose isAuthenticated
// flag disagrees with its fields, is corrupt and must be discarded.
func (s *Snapshot) Valid() bool {
	if s == nil {
		return false
	}
	if s.User == nil || s.AccessToken == "" {
		return false
	}
	return s.IsAuthenticated
}

// Clone returns a deep copy so callers can hold a snapshot without sharing
// the user struct with the session manager.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	if s.User != nil {
		u := *s.User
		c.User = &u
	}
	return &c
}
