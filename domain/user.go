// Package domain contains the core concepts of the chat engine.
// Value types only; no runtime, storage, or UI logic lives here.
package domain

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the authenticated identity callers hand to the engine. The role
// is assigned at creation and never changes here. Verified, muted and
// banned states are tracked by the moderation sets, keyed by User.ID,
// never baked into this record.
type User struct {
	ID       string
	Username string
	Nickname string
	Avatar   string
	Role     Role
	Bio      string
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
