package jsonstore

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/harmwatch/server/internal/errs"
	"github.com/harmwatch/server/internal/model"
)

// UserRepo implements UserRepository over the JSON file store.
type UserRepo struct{ store *Store }

// NewUserRepo constructs a user repository.
func NewUserRepo(store *Store) *UserRepo { return &UserRepo{store: store} }

// Create inserts a new user. The duplicate-email check runs under the users
// lock, so two concurrent registrations cannot both slip past it.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	unlock := r.store.Lock(Users)
	defer unlock()

	var users []model.User
	if err := r.store.Load(Users, &users); err != nil {
		return err
	}
	for i := range users {
		if users[i].Email == u.Email {
			return errs.ErrAlreadyExists
		}
	}
	users = append(users, *u)
	return r.store.Save(Users, users)
}

// GetByID loads a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	unlock := r.store.Lock(Users)
	defer unlock()

	var users []model.User
	if err := r.store.Load(Users, &users); err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			u := users[i]
			return &u, nil
		}
	}
	return nil, errs.ErrNotFound
}

// GetByEmail loads a user by exact email match.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	unlock := r.store.Lock(Users)
	defer unlock()

	var users []model.User
	if err := r.store.Load(Users, &users); err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			u := users[i]
			return &u, nil
		}
	}
	return nil, errs.ErrNotFound
}

// Count returns the total number of users.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	unlock := r.store.Lock(Users)
	defer unlock()

	var users []model.User
	if err := r.store.Load(Users, &users); err != nil {
		return 0, err
	}
	return len(users), nil
}
