package matching

import (
	"fmt"
	"sort"

	"github.com/Ramsey-B/aster/pkg/models"
)

// Config contains the ranker's filter thresholds and result limit.
type Config struct {
	SimilarityThreshold  int     // Discard candidates scoring below this (0..160)
	SearchScoreThreshold float64 // Discard candidates whose retrieval relevance is below this
	ResultLimit          int     // Truncate the ranked list to this many entries (1..50)
	Thresholds           Thresholds
}

// DefaultConfig returns the documented defaults: no filtering, ten results.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold:  0,
		SearchScoreThreshold: 0.0,
		ResultLimit:          10,
		Thresholds:           DefaultThresholds(),
	}
}

// Validate rejects out-of-range configuration before any scoring begins.
// Values are never silently clamped.
func (c Config) Validate() error {
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > MaxScore {
		return fmt.Errorf("similarity threshold must be between 0 and %d, got %d", MaxScore, c.SimilarityThreshold)
	}
	if c.SearchScoreThreshold < 0 {
		return fmt.Errorf("search score threshold must be non-negative, got %v", c.SearchScoreThreshold)
	}
	if c.ResultLimit < 1 || c.ResultLimit > 50 {
		return fmt.Errorf("result limit must be between 1 and 50, got %d", c.ResultLimit)
	}
	if c.Thresholds.High <= c.Thresholds.Medium {
		return fmt.Errorf("high confidence threshold (%v) must be greater than medium (%v)",
			c.Thresholds.High, c.Thresholds.Medium)
	}
	return nil
}

// ConfigFromSettings builds a ranker config from persisted engine settings.
func ConfigFromSettings(s models.EngineSettings) Config {
	return Config{
		SimilarityThreshold:  s.SimilarityThreshold,
		SearchScoreThreshold: s.SearchScoreThreshold,
		ResultLimit:          s.MaxResults,
		Thresholds:           Thresholds{High: s.HighConfidenceThreshold, Medium: s.MediumConfidenceThreshold},
	}
}

// Candidate is one retrieval hit: a record plus the search engine's opaque
// relevance score. The relevance score is a filter and pass-through attribute
// only; it never feeds the point formula.
type Candidate struct {
	Record      models.Record
	SearchScore float64
}

// RankCandidates scores every candidate against the query record, drops those
// below either threshold, orders the survivors by similarity score descending,
// and truncates to the result limit. The sort is stable: candidates with equal
// scores keep their input order, which reflects the retrieval engine's own
// ranking. The returned count is the number of survivors before truncation,
// for pagination and reporting.
func RankCandidates(query models.Record, candidates []Candidate, cfg Config) ([]models.CandidateResult, int, error) {
	if err := cfg.Validate(); err != nil {
		return nil, 0, err
	}

	results := make([]models.CandidateResult, 0, len(candidates))
	for _, cand := range candidates {
		score := Score(query, cand.Record)
		if score < cfg.SimilarityThreshold || cand.SearchScore < cfg.SearchScoreThreshold {
			continue
		}
		tier := ClassifyWith(score, cfg.Thresholds)
		results = append(results, models.CandidateResult{
			Record:          cand.Record,
			SimilarityScore: score,
			SearchScore:     cand.SearchScore,
			Confidence:      tier.Confidence(),
		})
	}

	survivorCount := len(results)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].SimilarityScore > results[j].SimilarityScore
	})

	if len(results) > cfg.ResultLimit {
		results = results[:cfg.ResultLimit]
	}

	return results, survivorCount, nil
}
