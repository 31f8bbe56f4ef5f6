package identity

import "context"

// Repository persists user accounts.
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByPublicID(ctx context.Context, publicID string) (*User, error)
}
