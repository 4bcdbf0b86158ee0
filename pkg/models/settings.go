package models

import (
	"fmt"
	"time"
)

// EngineSettings are the tenant-tunable knobs for duplicate detection. The
// scoring formula itself is fixed; only the filter thresholds, the tier
// cutoffs, and the result limit move.
type EngineSettings struct {
	TenantID string `json:"tenant_id,omitempty" db:"tenant_id"`

	// SimilarityThreshold discards candidates scoring below it (0..160).
	SimilarityThreshold int `json:"similarity_threshold" db:"similarity_threshold"`
	// SearchScoreThreshold discards candidates whose retrieval relevance falls
	// below it. Opaque magnitude, never combined with the point score.
	SearchScoreThreshold float64 `json:"search_score_threshold" db:"search_score_threshold"`
	// HighConfidenceThreshold and MediumConfidenceThreshold are percentage
	// cutoffs over the 160-point maximum. Strictly greater-than comparisons.
	HighConfidenceThreshold   float64 `json:"high_confidence_threshold" db:"high_confidence_threshold"`
	MediumConfidenceThreshold float64 `json:"medium_confidence_threshold" db:"medium_confidence_threshold"`
	// MaxResults truncates the ranked result list (1..50).
	MaxResults int `json:"max_results" db:"max_results"`

	UpdatedAt time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// DefaultEngineSettings returns the documented defaults.
func DefaultEngineSettings() EngineSettings {
	return EngineSettings{
		SimilarityThreshold:       0,
		SearchScoreThreshold:      0.0,
		HighConfidenceThreshold:   70,
		MediumConfidenceThreshold: 40,
		MaxResults:                10,
	}
}

// Validate checks every knob before any scoring begins. Out-of-range values
// are an error; nothing is silently clamped.
func (s EngineSettings) Validate() error {
	if s.SimilarityThreshold < 0 || s.SimilarityThreshold > 160 {
		return fmt.Errorf("similarity_threshold must be between 0 and 160, got %d", s.SimilarityThreshold)
	}
	if s.SearchScoreThreshold < 0 {
		return fmt.Errorf("search_score_threshold must be non-negative, got %v", s.SearchScoreThreshold)
	}
	if s.HighConfidenceThreshold <= 0 || s.HighConfidenceThreshold > 100 {
		return fmt.Errorf("high_confidence_threshold must be in (0, 100], got %v", s.HighConfidenceThreshold)
	}
	if s.MediumConfidenceThreshold <= 0 || s.MediumConfidenceThreshold > 100 {
		return fmt.Errorf("medium_confidence_threshold must be in (0, 100], got %v", s.MediumConfidenceThreshold)
	}
	if s.HighConfidenceThreshold <= s.MediumConfidenceThreshold {
		return fmt.Errorf("high_confidence_threshold (%v) must be greater than medium_confidence_threshold (%v)",
			s.HighConfidenceThreshold, s.MediumConfidenceThreshold)
	}
	if s.MaxResults < 1 || s.MaxResults > 50 {
		return fmt.Errorf("max_results must be between 1 and 50, got %d", s.MaxResults)
	}
	return nil
}

// UpdateEngineSettingsRequest carries partial settings updates
type UpdateEngineSettingsRequest struct {
	SimilarityThreshold       *int     `json:"similarity_threshold,omitempty"`
	SearchScoreThreshold      *float64 `json:"search_score_threshold,omitempty"`
	HighConfidenceThreshold   *float64 `json:"high_confidence_threshold,omitempty"`
	MediumConfidenceThreshold *float64 `json:"medium_confidence_threshold,omitempty"`
	MaxResults                *int     `json:"max_results,omitempty"`
}

// Apply overlays the provided fields onto s and returns the result.
func (r UpdateEngineSettingsRequest) Apply(s EngineSettings) EngineSettings {
	if r.SimilarityThreshold != nil {
		s.SimilarityThreshold = *r.SimilarityThreshold
	}
	if r.SearchScoreThreshold != nil {
		s.SearchScoreThreshold = *r.SearchScoreThreshold
	}
	if r.HighConfidenceThreshold != nil {
		s.HighConfidenceThreshold = *r.HighConfidenceThreshold
	}
	if r.MediumConfidenceThreshold != nil {
		s.MediumConfidenceThreshold = *r.MediumConfidenceThreshold
	}
	if r.MaxResults != nil {
		s.MaxResults = *r.MaxResults
	}
	return s
}
