package models

import (
	"time"
)

// DuplicatePairStatus tracks the review state of a scored pair
type DuplicatePairStatus string

const (
	DuplicatePairStatusPending   DuplicatePairStatus = "pending"   // Awaiting review
	DuplicatePairStatusConfirmed DuplicatePairStatus = "confirmed" // Reviewer agreed the pair is a duplicate
	DuplicatePairStatusDismissed DuplicatePairStatus = "dismissed" // Reviewer rejected the pair
	DuplicatePairStatusMerged    DuplicatePairStatus = "merged"    // Duplicate was merged into the master record
)

// DuplicatePair is a persisted candidate pair with its similarity score.
// consumer_id always holds the lexically smaller ID so a pair is stored once
// regardless of discovery direction.
type DuplicatePair struct {
	ID              string              `json:"id" db:"id"`
	TenantID        string              `json:"tenant_id" db:"tenant_id"`
	ConsumerID      string              `json:"consumer_id" db:"consumer_id"`
	CandidateID     string              `json:"candidate_id" db:"candidate_id"`
	SimilarityScore int                 `json:"similarity_score" db:"similarity_score"`
	SearchScore     float64             `json:"search_score" db:"search_score"`
	ConfidenceLevel string              `json:"confidence_level" db:"confidence_level"`
	Status          DuplicatePairStatus `json:"status" db:"status"`
	CreatedAt       time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" db:"updated_at"`
	ResolvedAt      *time.Time          `json:"resolved_at,omitempty" db:"resolved_at"`
	ResolvedBy      *string             `json:"resolved_by,omitempty" db:"resolved_by"`
}

// Confidence is the serialized confidence object consumers switch on.
// The level strings and the three-way class enumeration are stable; downstream
// UI logic keys off them.
type Confidence struct {
	Level       string `json:"level"`
	Class       string `json:"class"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// CandidateResult pairs a candidate record with its scores and tier. Created
// fresh per query and never mutated after construction.
type CandidateResult struct {
	Record          Record     `json:"record"`
	SimilarityScore int        `json:"similarity_score"`
	SearchScore     float64    `json:"search_score"`
	Confidence      Confidence `json:"confidence"`
}

// DuplicateSearchRequest is a manual search: at least one field must be provided.
// ID is optional; when present the matching record is excluded from results.
type DuplicateSearchRequest struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// DuplicateSearchResponse is the ranked, filtered result set for one query
type DuplicateSearchResponse struct {
	Query         Record            `json:"query"`
	Results       []CandidateResult `json:"results"`
	SurvivorCount int               `json:"survivor_count"` // Matches above threshold before truncation
	Suppressed    bool              `json:"suppressed"`     // True when the query was recognized as the same person
}

// DuplicateConfirmation is returned from create/update when high-confidence
// duplicates exist and the caller has not confirmed.
type DuplicateConfirmation struct {
	RequiresConfirmation bool              `json:"requires_confirmation"`
	Duplicates           []CandidateResult `json:"duplicates"`
}

// UpdatePairStatusRequest moves a pair through the review workflow
type UpdatePairStatusRequest struct {
	Status     DuplicatePairStatus `json:"status" validate:"required,oneof=pending confirmed dismissed merged"`
	ResolvedBy string              `json:"resolved_by"`
}

// MergeRequest merges selected fields from the duplicate into the master and
// retires the duplicate record. Fields lists which profile fields to take from
// the duplicate; an empty list keeps every master field as-is.
type MergeRequest struct {
	MasterID    string   `json:"master_id" validate:"required"`
	DuplicateID string   `json:"duplicate_id" validate:"required"`
	Fields      []string `json:"fields" validate:"dive,oneof=first_name last_name email phone address"`
}

// MergeResponse reports the surviving record after a merge
type MergeResponse struct {
	Master       Consumer `json:"master"`
	MergedFields []string `json:"merged_fields"`
}

// DuplicateGroup clusters one master record with everything scored against it
type DuplicateGroup struct {
	Master        Record   `json:"master"`
	Duplicates    []Record `json:"duplicates"`
	GroupSize     int      `json:"group_size"`
	MaxSimilarity int      `json:"max_similarity"`
}

// DuplicateGroupListResponse is the response for listing duplicate groups
type DuplicateGroupListResponse struct {
	Groups     []DuplicateGroup `json:"groups"`
	TotalCount int              `json:"total_count"`
}
