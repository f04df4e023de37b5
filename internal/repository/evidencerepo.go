package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/harmwatch/server/internal/model"
)

// EvidenceRepository provides access to evidence records attached to cases.
type EvidenceRepository interface {
	// ListByCase returns all evidence referencing the given case, in
	// stored order.
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]model.Evidence, error)

	// Create appends a new evidence record.
	Create(ctx context.Context, e *model.Evidence) error

	// Count returns the total number of evidence records.
	Count(ctx context.Context) (int, error)
}
