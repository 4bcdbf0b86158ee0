// Package search implements the retrieval stage on Postgres trigram
// similarity (pg_trgm). Field relevance is boosted per field: email
// strongest, names next, phone, then address.
package search

import (
	"context"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/aster/pkg/database"
	"github.com/Ramsey-B/aster/pkg/tracing"

	"github.com/Ramsey-B/aster/pkg/matching"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/normalizers"
	pkgsearch "github.com/Ramsey-B/aster/pkg/search"
)

// Relevance boosts per field. Email identifies a person far more strongly
// than a name fragment; address is a weak signal kept for recall only.
const (
	emailBoost     = 5.0
	firstNameBoost = 3.0
	lastNameBoost  = 3.0
	phoneBoost     = 2.0
	addressBoost   = 1.0
)

// Repository retrieves fuzzy candidates from the consumers table
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

var _ pkgsearch.Searcher = (*Repository)(nil)

// NewRepository creates a new search repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

type candidateRow struct {
	models.Consumer
	SearchScore float64 `db:"search_score"`
}

type fieldTerm struct {
	column string
	value  string
	boost  float64
}

// terms builds one trigram term per present query field. The stored columns
// are matched case-insensitively; phone compares digit strings.
func terms(query models.Record) []fieldTerm {
	var out []fieldTerm
	if query.Email != "" {
		out = append(out, fieldTerm{"LOWER(email)", normalizers.NormalizeEmail(query.Email), emailBoost})
	}
	if query.FirstName != "" {
		out = append(out, fieldTerm{"LOWER(first_name)", normalizers.Lowercase(query.FirstName), firstNameBoost})
	}
	if query.LastName != "" {
		out = append(out, fieldTerm{"LOWER(last_name)", normalizers.Lowercase(query.LastName), lastNameBoost})
	}
	if query.Phone != "" {
		if digits := normalizers.DigitsOnly(query.Phone); digits != "" {
			out = append(out, fieldTerm{"regexp_replace(phone, '[^0-9]', '', 'g')", digits, phoneBoost})
		}
	}
	if query.Address != "" {
		out = append(out, fieldTerm{"LOWER(address)", normalizers.NormalizeAddress(query.Address), addressBoost})
	}
	return out
}

// Search returns up to limit*2 candidates ranked by weighted trigram
// similarity. The overfetch leaves headroom for the scoring stage to filter
// before its own truncation.
func (r *Repository) Search(ctx context.Context, tenantID string, query models.Record, limit int) ([]matching.Candidate, error) {
	ctx, span := tracing.StartSpan(ctx, "search.Repository.Search")
	defer span.End()

	fields := terms(query)
	if len(fields) == 0 {
		return nil, nil
	}

	var (
		scoreParts []string
		matchParts []string
		args       []any
	)
	for _, f := range fields {
		scoreParts = append(scoreParts, "similarity("+f.column+", ?) * ?")
		args = append(args, f.value, f.boost)
	}
	for _, f := range fields {
		matchParts = append(matchParts, f.column+" % ?")
		args = append(args, f.value)
	}
	args = append(args, tenantID)

	q := `
	  SELECT id, tenant_id, first_name, last_name, email, phone, address,
	         is_duplicate, duplicate_of, fingerprint, created_at, updated_at,
	         (` + strings.Join(scoreParts, " + ") + `) AS search_score
	  FROM consumers
	  WHERE (` + strings.Join(matchParts, " OR ") + `)
	    AND tenant_id = ?
	    AND deleted_at IS NULL
	  ORDER BY search_score DESC
	  LIMIT ?`
	args = append(args, limit*2)

	q = r.db.Unsafe().Rebind(q)

	var rows []candidateRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to search candidates")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to search candidates")
	}

	candidates := make([]matching.Candidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, matching.Candidate{
			Record:      row.Consumer.Record(),
			SearchScore: row.SearchScore,
		})
	}
	return candidates, nil
}
