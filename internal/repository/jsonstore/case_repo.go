package jsonstore

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/harmwatch/server/internal/errs"
	"github.com/harmwatch/server/internal/model"
)

// CaseRepo implements CaseRepository over the JSON file store.
type CaseRepo struct{ store *Store }

// NewCaseRepo constructs a case repository.
func NewCaseRepo(store *Store) *CaseRepo { return &CaseRepo{store: store} }

// List returns every stored case in insertion order.
func (r *CaseRepo) List(ctx context.Context) ([]model.Case, error) {
	unlock := r.store.Lock(Cases)
	defer unlock()

	var cases []model.Case
	if err := r.store.Load(Cases, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// GetByID loads a case by ID.
func (r *CaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Case, error) {
	unlock := r.store.Lock(Cases)
	defer unlock()

	var cases []model.Case
	if err := r.store.Load(Cases, &cases); err != nil {
		return nil, err
	}
	for i := range cases {
		if cases[i].ID == id {
			c := cases[i]
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

// Create appends a new case and persists the collection.
func (r *CaseRepo) Create(ctx context.Context, c *model.Case) error {
	unlock := r.store.Lock(Cases)
	defer unlock()

	var cases []model.Case
	if err := r.store.Load(Cases, &cases); err != nil {
		return err
	}
	cases = append(cases, *c)
	return r.store.Save(Cases, cases)
}

// Update applies mutate to the located case under the collection lock and
// persists. If mutate fails the collection is left untouched.
func (r *CaseRepo) Update(ctx context.Context, id uuid.UUID, mutate func(*model.Case) error) (*model.Case, error) {
	unlock := r.store.Lock(Cases)
	defer unlock()

	var cases []model.Case
	if err := r.store.Load(Cases, &cases); err != nil {
		return nil, err
	}
	for i := range cases {
		if cases[i].ID != id {
			continue
		}
		if err := mutate(&cases[i]); err != nil {
			return nil, err
		}
		if err := r.store.Save(Cases, cases); err != nil {
			return nil, err
		}
		c := cases[i]
		return &c, nil
	}
	return nil, errs.ErrNotFound
}
