package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/harmwatch/server/internal/model"
)

// CaseRepository provides access to reported cases.
type CaseRepository interface {
	// List returns every stored case in insertion order.
	List(ctx context.Context) ([]model.Case, error)

	// GetByID loads a case by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Case, error)

	// Create appends a new case.
	Create(ctx context.Context, c *model.Case) error

	// Update locates the case by ID and applies mutate to it while holding
	// the collection lock, then persists. If the ID is unknown it returns
	// errs.ErrNotFound; if mutate returns an error, nothing is persisted
	// and the error propagates unchanged.
	Update(ctx context.Context, id uuid.UUID, mutate func(*model.Case) error) (*model.Case, error)
}
