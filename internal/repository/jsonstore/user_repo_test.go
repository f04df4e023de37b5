package jsonstore

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/harmwatch/server/internal/errs"
	"github.com/harmwatch/server/internal/model"
)

func testUser(email string) *model.User {
	return &model.User{
		ID:           uuid.Must(uuid.NewV4()),
		Username:     "u",
		Email:        email,
		PasswordHash: "$2a$04$hash",
		Role:         model.RoleViewer,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
}

func TestUserRepo_CreateAndGet(t *testing.T) {
	r := NewUserRepo(newStore(t))
	ctx := context.Background()

	u := testUser("a@x.com")
	require.NoError(t, r.Create(ctx, u))

	byEmail, err := r.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)
	require.Equal(t, u.PasswordHash, byEmail.PasswordHash)

	byID, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", byID.Email)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	r := NewUserRepo(newStore(t))
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, testUser("a@x.com")))
	err := r.Create(ctx, testUser("a@x.com"))
	require.ErrorIs(t, err, errs.ErrAlreadyExists)

	// Exact match only: a different casing is a different account.
	require.NoError(t, r.Create(ctx, testUser("A@x.com")))
}

func TestUserRepo_NotFound(t *testing.T) {
	r := NewUserRepo(newStore(t))
	ctx := context.Background()

	_, err := r.GetByEmail(ctx, "missing@x.com")
	require.ErrorIs(t, err, errs.ErrNotFound)

	_, err = r.GetByID(ctx, uuid.Must(uuid.NewV4()))
	require.ErrorIs(t, err, errs.ErrNotFound)
}
