package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/aster/pkg/fingerprint"
	"github.com/Ramsey-B/aster/pkg/generator"
	"github.com/Ramsey-B/aster/pkg/matching"
	"github.com/Ramsey-B/aster/pkg/models"
)

// TestScoringPipeline exercises the full in-memory path: candidates go
// through scoring, tier classification, threshold filtering, and ranking.
func TestScoringPipeline(t *testing.T) {
	query := models.Record{
		FirstName: "Jon",
		LastName:  "Smith",
		Email:     "jon.smith@example.com",
		Phone:     "(555) 123-4567",
	}

	candidates := []matching.Candidate{
		{
			// Identical after normalization.
			Record: models.Record{
				ID:        "exact",
				FirstName: "JON",
				LastName:  "SMITH",
				Email:     "JON.SMITH@EXAMPLE.COM",
				Phone:     "555-123-4567",
			},
			SearchScore: 9.5,
		},
		{
			// Partial first name, username-only email.
			Record: models.Record{
				ID:        "close",
				FirstName: "Jonathan",
				LastName:  "Smith",
				Email:     "jon.smith@gmail.com",
				Phone:     "555-999-0000",
			},
			SearchScore: 6.1,
		},
		{
			// Unrelated.
			Record: models.Record{
				ID:        "far",
				FirstName: "Alice",
				LastName:  "Wong",
				Email:     "alice@example.com",
				Phone:     "111-222-3333",
			},
			SearchScore: 1.2,
		},
	}

	t.Run("FullRun", func(t *testing.T) {
		results, survivors, err := matching.RankCandidates(query, candidates, matching.DefaultConfig())
		require.NoError(t, err)

		require.Len(t, results, 3)
		assert.Equal(t, 3, survivors)

		assert.Equal(t, "exact", results[0].Record.ID)
		assert.Equal(t, matching.MaxScore, results[0].SimilarityScore)
		assert.Equal(t, "high", results[0].Confidence.Class)
		assert.Equal(t, "High Confidence", results[0].Confidence.Level)

		assert.Equal(t, "close", results[1].Record.ID)
		// 20 (partial first) + 40 (last) + 30 (email username) = 90
		assert.Equal(t, 90, results[1].SimilarityScore)
		assert.Equal(t, "medium", results[1].Confidence.Class)

		assert.Equal(t, "far", results[2].Record.ID)
		assert.Equal(t, "low", results[2].Confidence.Class)
	})

	t.Run("ThresholdDropsWeakCandidates", func(t *testing.T) {
		cfg := matching.DefaultConfig()
		cfg.SimilarityThreshold = 50

		results, survivors, err := matching.RankCandidates(query, candidates, cfg)
		require.NoError(t, err)

		assert.Equal(t, 2, survivors)
		require.Len(t, results, 2)
		for _, r := range results {
			assert.GreaterOrEqual(t, r.SimilarityScore, 50)
		}
	})

	t.Run("LimitTruncatesAfterCounting", func(t *testing.T) {
		cfg := matching.DefaultConfig()
		cfg.ResultLimit = 1

		results, survivors, err := matching.RankCandidates(query, candidates, cfg)
		require.NoError(t, err)

		assert.Equal(t, 3, survivors)
		require.Len(t, results, 1)
		assert.Equal(t, "exact", results[0].Record.ID)
	})
}

// TestGeneratedDataThroughPipeline runs generator output through scoring. The
// generator's typos break exact matching on purpose, so assertions are about
// behavior of the pipeline, not about rediscovering every planted duplicate.
func TestGeneratedDataThroughPipeline(t *testing.T) {
	g := generator.New(2024)
	result := g.Generate("test-tenant", generator.Options{Count: 40, DuplicateRatio: 0.25})

	t.Run("OriginalsScorePerfectlyAgainstThemselves", func(t *testing.T) {
		for _, o := range result.Originals[:5] {
			assert.Equal(t, matching.MaxScore, matching.Score(o.Record(), o.Record()))
		}
	})

	t.Run("FingerprintsDifferBetweenSourceAndTypoCopy", func(t *testing.T) {
		byID := make(map[string]models.Consumer)
		for _, o := range result.Originals {
			byID[o.ID] = o
		}

		for _, d := range result.Duplicates {
			require.NotNil(t, d.DuplicateOf)
			source, ok := byID[*d.DuplicateOf]
			require.True(t, ok)

			assert.NotEqual(t,
				fingerprint.Generate(source.Record()),
				fingerprint.Generate(d.Record()),
				"a typo'd copy must not share its source's fingerprint")
		}
	})

	t.Run("ScoreIsSymmetricOverGeneratedPairs", func(t *testing.T) {
		byID := make(map[string]models.Consumer)
		for _, o := range result.Originals {
			byID[o.ID] = o
		}

		for _, d := range result.Duplicates {
			source := byID[*d.DuplicateOf]
			assert.Equal(t,
				matching.Score(source.Record(), d.Record()),
				matching.Score(d.Record(), source.Record()))
		}
	})

	t.Run("UntouchedFieldsStillMatch", func(t *testing.T) {
		base := g.Original("test-tenant")
		dup := g.Duplicate(base)

		// Address is never typo'd, and it never contributes points either.
		assert.Equal(t, base.Address, dup.Address)
		score := matching.Score(base.Record(), dup.Record())
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, matching.MaxScore)
	})
}

// TestTierBoundaries walks the documented percentage boundaries end to end.
func TestTierBoundaries(t *testing.T) {
	cases := []struct {
		score int
		class string
	}{
		{113, "high"},     // 70.6% > 70
		{112, "medium"},   // exactly 70%, strict comparison
		{65, "medium"},    // 40.6% > 40
		{64, "low"},       // exactly 40%
		{0, "low"},
		{160, "high"},
	}

	for _, tc := range cases {
		tier := matching.Classify(tc.score)
		assert.Equal(t, tc.class, tier.Confidence().Class, "score %d", tc.score)
	}
}
