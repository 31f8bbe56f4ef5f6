package identity

import "time"

// Role separates administrators from regular users.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Identity is the verified principal attached to a request. Its ID is the
// ownership key recorded on conversations.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// User is the registered account behind an Identity.
type User struct {
	ID           uint      `json:"-"`
	PublicID     string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

// AsIdentity returns the principal view of the user.
func (u *User) AsIdentity() Identity {
	return Identity{ID: u.PublicID, Username: u.Username}
}
