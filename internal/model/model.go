// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Severity grades the impact of a reported incident.
type Severity string

// Allowed severity values.
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid reports whether s is one of the allowed severity values.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Status tracks the moderation state of a case.
type Status string

// Allowed status values.
const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is one of the allowed status values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusRejected:
		return true
	}
	return false
}

// Role determines what a user account is allowed to do.
type Role string

// Known roles.
const (
	RoleViewer Role = "viewer"
	RoleAdmin  Role = "admin"
)

// Case is a single reported incident, persisted in the cases collection.
type Case struct {
	ID                  uuid.UUID `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	DetailedDescription string    `json:"detailedDescription"`
	Category            string    `json:"category"`
	Severity            Severity  `json:"severity"`
	AISystem            string    `json:"aiSystem"`
	Company             string    `json:"company"`
	Country             string    `json:"country"`
	Status              Status    `json:"status"`
	Views               int       `json:"views"`
	Upvotes             int       `json:"upvotes"`
	EvidenceCount       int       `json:"evidenceCount"`
	CreatedBy           uuid.UUID `json:"createdBy"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// Evidence is a supporting artifact attached to a case. The caseId reference
// is validated at the application layer; there is no store-level constraint.
type Evidence struct {
	ID       uuid.UUID         `json:"id"`
	CaseID   uuid.UUID         `json:"caseId"`
	Content  string            `json:"content"`
	Link     string            `json:"link"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// User represents an account stored in the users collection. The password
// hash is persisted but must never reach a client; see Public.
type User struct {
	ID                uuid.UUID `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"passwordHash,omitempty"`
	Role              Role      `json:"role"`
	ContributionScore int       `json:"contributionScore"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Public returns a copy of the user safe for response payloads: the password
// hash is stripped and omitted from JSON.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// CaseFilter holds optional equality filters for case listing.
type CaseFilter struct {
	Category string
	Status   string
}

// Page is a pagination request. Zero or negative values fall back to defaults.
type Page struct {
	Page  int
	Limit int
}

// PageInfo describes the pagination of a returned listing.
type PageInfo struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// CasePage is one page of a filtered, sorted case listing.
type CasePage struct {
	Items []Case
	PageInfo
}

// CaseWithEvidence is a case joined with its attached evidence records.
type CaseWithEvidence struct {
	Case
	Evidence []Evidence `json:"evidence"`
}

// NewCase carries the caller-supplied fields of a case submission.
type NewCase struct {
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	DetailedDescription string   `json:"detailedDescription"`
	Category            string   `json:"category"`
	Severity            Severity `json:"severity"`
	AISystem            string   `json:"aiSystem"`
	Company             string   `json:"company"`
	Country             string   `json:"country"`
}

// CasePatch is a partial update. Nil fields are absent from the request and
// left untouched; anything outside this whitelist is ignored by design.
type CasePatch struct {
	Status              *Status   `json:"status"`
	Severity            *Severity `json:"severity"`
	Description         *string   `json:"description"`
	DetailedDescription *string   `json:"detailedDescription"`
}

// Statistics aggregates the whole dataset in a single pass over cases.
type Statistics struct {
	TotalCases           int            `json:"totalCases"`
	TotalEvidence        int            `json:"totalEvidence"`
	TotalUsers           int            `json:"totalUsers"`
	VerifiedCases        int            `json:"verifiedCases"`
	PendingCases         int            `json:"pendingCases"`
	CategoryDistribution map[string]int `json:"categoryDistribution"`
	StatusDistribution   map[string]int `json:"statusDistribution"`
	SeverityDistribution map[string]int `json:"severityDistribution"`
	RecentCases          []Case         `json:"recentCases"`
}
