// Package search defines the retrieval-stage contract. The scoring engine
// consumes a ranked list of candidates plus an opaque relevance score; what
// produces that list is an implementation detail behind this interface.
package search

import (
	"context"

	"github.com/Ramsey-B/aster/pkg/matching"
	"github.com/Ramsey-B/aster/pkg/models"
)

// Searcher returns fuzzy-matched candidates for the query record's present
// fields, ranked by the engine's own relevance metric (higher is more
// relevant). The relevance score is opaque: the caller filters on it and
// passes it through, never mixes it into the point formula.
type Searcher interface {
	Search(ctx context.Context, tenantID string, query models.Record, limit int) ([]matching.Candidate, error)
}
