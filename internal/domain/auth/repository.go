package auth

import (
	"context"
)

// Repository defines the interface for user persistence.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Update persists login bookkeeping (attempts, locks, last login).
	Update(ctx context.Context, user *User) error
}
