// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/harmwatch/server/internal/model"
)

// UserRepository provides CRUD access to user accounts.
type UserRepository interface {
	// Create inserts a new user; returns errs.ErrAlreadyExists if the
	// email is already taken (exact, case-sensitive match).
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByEmail loads a user by email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// Count returns the total number of users.
	Count(ctx context.Context) (int, error)
}
