package matching

import (
	"testing"

	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().Validate())
	})

	t.Run("similarity threshold out of range", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.SimilarityThreshold = -1
		assert.Error(t, cfg.Validate())

		cfg.SimilarityThreshold = 161
		assert.Error(t, cfg.Validate())

		cfg.SimilarityThreshold = 160
		assert.NoError(t, cfg.Validate())
	})

	t.Run("negative search score threshold", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.SearchScoreThreshold = -0.1
		assert.Error(t, cfg.Validate())
	})

	t.Run("result limit out of range", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ResultLimit = 0
		assert.Error(t, cfg.Validate())

		cfg.ResultLimit = 51
		assert.Error(t, cfg.Validate())

		cfg.ResultLimit = 50
		assert.NoError(t, cfg.Validate())
	})

	t.Run("high cutoff must exceed medium", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Thresholds = Thresholds{High: 40, Medium: 40}
		assert.Error(t, cfg.Validate())
	})
}

func TestRankCandidates(t *testing.T) {
	query := models.Record{
		FirstName: "John",
		LastName:  "Smith",
		Email:     "john@gmail.com",
		Phone:     "5551234",
	}

	// Scores against the query: 160, 120, 60, 20. The near candidate's "Jon"
	// contains no window of "john", so its first name contributes nothing.
	exact := Candidate{Record: query, SearchScore: 9.0}
	near := Candidate{
		Record:      models.Record{FirstName: "Jon", LastName: "Smith", Email: "john@gmail.com", Phone: "5551234"},
		SearchScore: 7.5,
	}
	weak := Candidate{
		Record:      models.Record{FirstName: "Jo", LastName: "Smith", Email: "mary@aol.com", Phone: "999"},
		SearchScore: 3.0,
	}
	faint := Candidate{
		Record:      models.Record{FirstName: "Johnny", Phone: "888"},
		SearchScore: 1.0,
	}

	t.Run("orders by similarity score descending", func(t *testing.T) {
		results, survivors, err := RankCandidates(query, []Candidate{faint, weak, exact, near}, DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, 4, survivors)
		require.Len(t, results, 4)
		assert.Equal(t, 160, results[0].SimilarityScore)
		assert.Equal(t, 120, results[1].SimilarityScore)
		assert.Equal(t, 60, results[2].SimilarityScore)
		assert.Equal(t, 20, results[3].SimilarityScore)
	})

	t.Run("similarity threshold filters low scorers", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.SimilarityThreshold = 50
		results, survivors, err := RankCandidates(query, []Candidate{exact, weak, faint, near}, cfg)
		require.NoError(t, err)
		assert.Equal(t, 3, survivors)
		require.Len(t, results, 3)
		assert.Equal(t, 160, results[0].SimilarityScore)
		assert.Equal(t, 120, results[1].SimilarityScore)
		assert.Equal(t, 60, results[2].SimilarityScore)
	})

	t.Run("search score threshold filters independently", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.SearchScoreThreshold = 5.0
		results, survivors, err := RankCandidates(query, []Candidate{exact, near, weak, faint}, cfg)
		require.NoError(t, err)
		assert.Equal(t, 2, survivors)
		require.Len(t, results, 2)
	})

	t.Run("ties preserve input order", func(t *testing.T) {
		a := Candidate{Record: models.Record{ID: "a", FirstName: "John"}, SearchScore: 2.0}
		b := Candidate{Record: models.Record{ID: "b", FirstName: "John"}, SearchScore: 1.0}
		c := Candidate{Record: models.Record{ID: "c", FirstName: "John"}, SearchScore: 3.0}

		results, _, err := RankCandidates(query, []Candidate{a, b, c}, DefaultConfig())
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "a", results[0].Record.ID)
		assert.Equal(t, "b", results[1].Record.ID)
		assert.Equal(t, "c", results[2].Record.ID)
	})

	t.Run("truncates but reports survivors before truncation", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ResultLimit = 2
		results, survivors, err := RankCandidates(query, []Candidate{exact, near, weak, faint}, cfg)
		require.NoError(t, err)
		assert.Equal(t, 4, survivors)
		require.Len(t, results, 2)
		assert.Equal(t, 160, results[0].SimilarityScore)
		assert.Equal(t, 120, results[1].SimilarityScore)
	})

	t.Run("empty candidate list is valid", func(t *testing.T) {
		results, survivors, err := RankCandidates(query, nil, DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, 0, survivors)
		assert.Empty(t, results)
	})

	t.Run("invalid config fails before scoring", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ResultLimit = -1
		_, _, err := RankCandidates(query, []Candidate{exact}, cfg)
		assert.Error(t, err)
	})

	t.Run("results carry confidence objects", func(t *testing.T) {
		results, _, err := RankCandidates(query, []Candidate{near}, DefaultConfig())
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "High Confidence", results[0].Confidence.Level)
		assert.Equal(t, 7.5, results[0].SearchScore)
	})
}
