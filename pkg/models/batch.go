package models

import (
	"time"
)

// BatchSummary is the headline numbers of one full deduplication sweep
type BatchSummary struct {
	TotalRecords        int       `json:"total_records"`
	ProcessedRecords    int       `json:"processed_records"`
	SkippedGrouped      int       `json:"skipped_grouped"`
	PairsScored         int       `json:"pairs_scored"`
	HighConfidencePairs int       `json:"high_confidence_pairs"`
	PossiblePairs       int       `json:"possible_pairs"`
	WorthReviewingPairs int       `json:"worth_reviewing_pairs"`
	DuplicateGroups     int       `json:"duplicate_groups"`
	StartedAt           time.Time `json:"started_at"`
	CompletedAt         time.Time `json:"completed_at"`
}

// BatchReport is the full output of a sweep: the summary, every duplicate
// group found, and the cleanup list of pairs scoring at or above the cleanup
// threshold.
type BatchReport struct {
	TenantID    string           `json:"tenant_id"`
	Summary     BatchSummary     `json:"summary"`
	Groups      []DuplicateGroup `json:"groups"`
	CleanupList []DuplicatePair  `json:"cleanup_list"`
}
