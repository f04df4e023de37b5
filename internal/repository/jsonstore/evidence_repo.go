package jsonstore

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/harmwatch/server/internal/model"
)

// EvidenceRepo implements EvidenceRepository over the JSON file store.
type EvidenceRepo struct{ store *Store }

// NewEvidenceRepo constructs an evidence repository.
func NewEvidenceRepo(store *Store) *EvidenceRepo { return &EvidenceRepo{store: store} }

// ListByCase returns all evidence referencing the given case, in stored order.
func (r *EvidenceRepo) ListByCase(ctx context.Context, caseID uuid.UUID) ([]model.Evidence, error) {
	unlock := r.store.Lock(Evidence)
	defer unlock()

	var all []model.Evidence
	if err := r.store.Load(Evidence, &all); err != nil {
		return nil, err
	}
	out := make([]model.Evidence, 0)
	for i := range all {
		if all[i].CaseID == caseID {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// Create appends a new evidence record.
func (r *EvidenceRepo) Create(ctx context.Context, e *model.Evidence) error {
	unlock := r.store.Lock(Evidence)
	defer unlock()

	var all []model.Evidence
	if err := r.store.Load(Evidence, &all); err != nil {
		return err
	}
	all = append(all, *e)
	return r.store.Save(Evidence, all)
}

// Count returns the total number of evidence records.
func (r *EvidenceRepo) Count(ctx context.Context) (int, error) {
	unlock := r.store.Lock(Evidence)
	defer unlock()

	var all []model.Evidence
	if err := r.store.Load(Evidence, &all); err != nil {
		return 0, err
	}
	return len(all), nil
}
