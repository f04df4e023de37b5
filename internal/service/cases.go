package service

import (
	"context"
	"sort"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/harmwatch/server/internal/errs"
	"github.com/harmwatch/server/internal/model"
	"github.com/harmwatch/server/internal/repository"
)

// Listing defaults and bounds.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
	recentCasesLimit = 5
)

// CaseService defines business operations over reported cases.
type CaseService interface {
	// List returns one page of cases, filtered and sorted newest-first.
	List(ctx context.Context, f model.CaseFilter, p model.Page) (model.CasePage, error)
	// Get returns a case joined with its evidence records.
	Get(ctx context.Context, id uuid.UUID) (*model.CaseWithEvidence, error)
	// Create validates and stores a new case submission.
	Create(ctx context.Context, createdBy uuid.UUID, in model.NewCase) (*model.Case, error)
	// Update applies a whitelisted partial update, gated by authorization.
	Update(ctx context.Context, actor *model.User, id uuid.UUID, patch model.CasePatch) (*model.Case, error)
	// Statistics aggregates counts and distributions over the whole dataset.
	Statistics(ctx context.Context) (*model.Statistics, error)
}

type CaseServiceImpl struct {
	cases    repository.CaseRepository
	evidence repository.EvidenceRepository
	users    repository.UserRepository

	now func() time.Time
}

// NewCaseService constructs CaseService over the three repositories.
func NewCaseService(cases repository.CaseRepository, evidence repository.EvidenceRepository, users repository.UserRepository) *CaseServiceImpl {
	return &CaseServiceImpl{cases: cases, evidence: evidence, users: users, now: time.Now}
}

// canEdit is the capability check for case mutation: the creator or an admin.
func canEdit(u *model.User, c *model.Case) bool {
	return u.ID == c.CreatedBy || u.Role == model.RoleAdmin
}

// sortNewestFirst orders cases by createdAt descending; equal timestamps keep
// their original insertion order.
func sortNewestFirst(cases []model.Case) {
	sort.SliceStable(cases, func(i, j int) bool {
		return cases[i].CreatedAt.After(cases[j].CreatedAt)
	})
}

// List filters, sorts, and paginates the case collection. Page and limit fall
// back to 1 and DefaultPageLimit; limit is clamped to MaxPageLimit.
func (s *CaseServiceImpl) List(ctx context.Context, f model.CaseFilter, p model.Page) (model.CasePage, error) {
	all, err := s.cases.List(ctx)
	if err != nil {
		return model.CasePage{}, err
	}

	filtered := make([]model.Case, 0, len(all))
	for _, c := range all {
		if f.Category != "" && c.Category != f.Category {
			continue
		}
		if f.Status != "" && string(c.Status) != f.Status {
			continue
		}
		filtered = append(filtered, c)
	}
	sortNewestFirst(filtered)

	page, limit := p.Page, p.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	total := len(filtered)
	// Compare before multiplying: (page-1)*limit overflows int for absurd
	// page values. Any page starting past the end is simply empty.
	start, end := total, total
	if page-1 <= (total-1)/limit {
		start = (page - 1) * limit
		if end = start + limit; end > total {
			end = total
		}
	}

	return model.CasePage{
		Items: filtered[start:end],
		PageInfo: model.PageInfo{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: (total + limit - 1) / limit,
		},
	}, nil
}

// Get fetches a case and attaches its evidence in repository order.
func (s *CaseServiceImpl) Get(ctx context.Context, id uuid.UUID) (*model.CaseWithEvidence, error) {
	c, err := s.cases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ev, err := s.evidence.ListByCase(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.CaseWithEvidence{Case: *c, Evidence: ev}, nil
}

// Create materializes the candidate record first (ID and timestamps included),
// then validates; a rejected submission discards the generated ID.
func (s *CaseServiceImpl) Create(ctx context.Context, createdBy uuid.UUID, in model.NewCase) (*model.Case, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	c := model.Case{
		ID:                  id,
		Title:               in.Title,
		Description:         in.Description,
		DetailedDescription: in.DetailedDescription,
		Category:            in.Category,
		Severity:            in.Severity,
		AISystem:            in.AISystem,
		Company:             in.Company,
		Country:             in.Country,
		Status:              model.StatusPending,
		CreatedBy:           createdBy,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if c.Severity == "" {
		c.Severity = model.SeverityMedium
	}

	if c.Title == "" || c.Description == "" || c.Category == "" {
		return nil, errs.Validation("Title, description, and category are required")
	}
	if !c.Severity.Valid() {
		return nil, errs.Validation("Invalid severity value")
	}

	if err := s.cases.Create(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Update applies the whitelisted fields of patch. Authorization and the patch
// itself run inside the repository mutate callback, so a forbidden attempt
// leaves the stored case untouched.
func (s *CaseServiceImpl) Update(ctx context.Context, actor *model.User, id uuid.UUID, patch model.CasePatch) (*model.Case, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, errs.Validation("Invalid status value")
	}
	if patch.Severity != nil && !patch.Severity.Valid() {
		return nil, errs.Validation("Invalid severity value")
	}

	return s.cases.Update(ctx, id, func(c *model.Case) error {
		if !canEdit(actor, c) {
			return errs.ErrForbidden
		}
		if patch.Status != nil {
			c.Status = *patch.Status
		}
		if patch.Severity != nil {
			c.Severity = *patch.Severity
		}
		if patch.Description != nil {
			c.Description = *patch.Description
		}
		if patch.DetailedDescription != nil {
			c.DetailedDescription = *patch.DetailedDescription
		}
		c.UpdatedAt = s.now().UTC()
		return nil
	})
}

// Statistics computes all aggregates in a single pass over cases, plus full
// counts of the evidence and user collections.
func (s *CaseServiceImpl) Statistics(ctx context.Context) (*model.Statistics, error) {
	all, err := s.cases.List(ctx)
	if err != nil {
		return nil, err
	}
	evidenceCount, err := s.evidence.Count(ctx)
	if err != nil {
		return nil, err
	}
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}

	st := &model.Statistics{
		TotalCases:           len(all),
		TotalEvidence:        evidenceCount,
		TotalUsers:           userCount,
		CategoryDistribution: make(map[string]int),
		StatusDistribution:   make(map[string]int),
		SeverityDistribution: make(map[string]int),
	}
	for _, c := range all {
		st.CategoryDistribution[c.Category]++
		st.StatusDistribution[string(c.Status)]++
		st.SeverityDistribution[string(c.Severity)]++
		switch c.Status {
		case model.StatusVerified:
			st.VerifiedCases++
		case model.StatusPending:
			st.PendingCases++
		}
	}

	recent := make([]model.Case, len(all))
	copy(recent, all)
	sortNewestFirst(recent)
	if len(recent) > recentCasesLimit {
		recent = recent[:recentCasesLimit]
	}
	st.RecentCases = recent

	return st, nil
}
