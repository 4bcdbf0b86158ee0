package duplicatepair

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/aster/pkg/database"
	"github.com/Ramsey-B/aster/pkg/tracing"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/aster/pkg/models"
)

var pairColumns = []string{
	"id", "tenant_id", "consumer_id", "candidate_id", "similarity_score",
	"search_score", "confidence_level", "status", "created_at", "updated_at",
	"resolved_at", "resolved_by",
}

// Repository handles duplicate pair persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new duplicate pair repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// orderPair returns the two consumer IDs in canonical order so a pair is
// stored once regardless of which side was the query.
func orderPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// CreateBatch upserts scored pairs. Re-discovered pairs keep their best score
// and their existing review status.
func (r *Repository) CreateBatch(ctx context.Context, pairs []*models.DuplicatePair) error {
	ctx, span := tracing.StartSpan(ctx, "duplicatepair.Repository.CreateBatch")
	defer span.End()

	if len(pairs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, p := range pairs {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		p.ConsumerID, p.CandidateID = orderPair(p.ConsumerID, p.CandidateID)
		p.CreatedAt = now
		p.UpdatedAt = now
		if p.Status == "" {
			p.Status = models.DuplicatePairStatusPending
		}
	}

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	const batchSize = 500
	for i := 0; i < len(pairs); i += batchSize {
		end := i + batchSize
		if end > len(pairs) {
			end = len(pairs)
		}

		sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
		sb.InsertInto("duplicate_pairs")
		sb.Cols("id", "tenant_id", "consumer_id", "candidate_id", "similarity_score", "search_score", "confidence_level", "status", "created_at", "updated_at")
		for _, p := range pairs[i:end] {
			sb.Values(p.ID, p.TenantID, p.ConsumerID, p.CandidateID, p.SimilarityScore, p.SearchScore, p.ConfidenceLevel, p.Status, p.CreatedAt, p.UpdatedAt)
		}

		query, args := sb.Build()
		query += ` ON CONFLICT (tenant_id, consumer_id, candidate_id) DO UPDATE SET
			similarity_score = GREATEST(duplicate_pairs.similarity_score, EXCLUDED.similarity_score),
			search_score = GREATEST(duplicate_pairs.search_score, EXCLUDED.search_score),
			confidence_level = EXCLUDED.confidence_level,
			updated_at = EXCLUDED.updated_at`

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).Error("Failed to create duplicate pairs batch")
			return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create duplicate pairs")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit duplicate pairs")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"count": len(pairs)}).Debug("Created duplicate pairs batch")
	return nil
}

// Get retrieves a duplicate pair by ID
func (r *Repository) Get(ctx context.Context, tenantID, id string) (*models.DuplicatePair, error) {
	ctx, span := tracing.StartSpan(ctx, "duplicatepair.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(pairColumns...)
	sb.From("duplicate_pairs")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	var pair models.DuplicatePair
	if err := r.db.GetContext(ctx, &pair, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("duplicate pair %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get duplicate pair")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get duplicate pair")
	}

	return &pair, nil
}

// GetByConsumers retrieves the pair for two consumer IDs, in either order
func (r *Repository) GetByConsumers(ctx context.Context, tenantID, consumerID, candidateID string) (*models.DuplicatePair, error) {
	ctx, span := tracing.StartSpan(ctx, "duplicatepair.Repository.GetByConsumers")
	defer span.End()

	first, second := orderPair(consumerID, candidateID)

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(pairColumns...)
	sb.From("duplicate_pairs")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.Equal("consumer_id", first),
		sb.Equal("candidate_id", second),
	)

	query, args := sb.Build()
	var pair models.DuplicatePair
	if err := r.db.GetContext(ctx, &pair, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, "duplicate pair not found")
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get duplicate pair")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get duplicate pair")
	}

	return &pair, nil
}

// ListByConsumer returns every pair involving the given consumer
func (r *Repository) ListByConsumer(ctx context.Context, tenantID, consumerID string) ([]models.DuplicatePair, error) {
	ctx, span := tracing.StartSpan(ctx, "duplicatepair.Repository.ListByConsumer")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(pairColumns...)
	sb.From("duplicate_pairs")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.Or(
			sb.Equal("consumer_id", consumerID),
			sb.Equal("candidate_id", consumerID),
		),
	)
	sb.OrderBy("similarity_score DESC")

	query, args := sb.Build()
	pairs := []models.DuplicatePair{}
	if err := r.db.SelectContext(ctx, &pairs, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list duplicate pairs")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list duplicate pairs")
	}

	return pairs, nil
}

// ListByStatus returns pairs in the given review state, best scores first
func (r *Repository) ListByStatus(ctx context.Context, tenantID string, status models.DuplicatePairStatus, limit int) ([]models.DuplicatePair, error) {
	ctx, span := tracing.StartSpan(ctx, "duplicatepair.Repository.ListByStatus")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(pairColumns...)
	sb.From("duplicate_pairs")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.Equal("status", status),
	)
	sb.OrderBy("similarity_score DESC")
	if limit > 0 {
		sb.Limit(limit)
	}

	query, args := sb.Build()
	pairs := []models.DuplicatePair{}
	if err := r.db.SelectContext(ctx, &pairs, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list duplicate pairs by status")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list duplicate pairs")
	}

	return pairs, nil
}

// ListAboveScore returns pairs at or above the given similarity score.
// Feeds the batch cleanup list.
func (r *Repository) ListAboveScore(ctx context.Context, tenantID string, minScore int) ([]models.DuplicatePair, error) {
	ctx, span := tracing.StartSpan(ctx, "duplicatepair.Repository.ListAboveScore")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(pairColumns...)
	sb.From("duplicate_pairs")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.GreaterEqualThan("similarity_score", minScore),
		sb.NotEqual("status", models.DuplicatePairStatusDismissed),
	)
	sb.OrderBy("similarity_score DESC")

	query, args := sb.Build()
	pairs := []models.DuplicatePair{}
	if err := r.db.SelectContext(ctx, &pairs, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list duplicate pairs above score")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list duplicate pairs")
	}

	return pairs, nil
}

// UpdateStatus moves a pair through the review workflow
func (r *Repository) UpdateStatus(ctx context.Context, tenantID, id string, status models.DuplicatePairStatus, resolvedBy string) error {
	ctx, span := tracing.StartSpan(ctx, "duplicatepair.Repository.UpdateStatus")
	defer span.End()

	now := time.Now().UTC()
	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	ub.Update("duplicate_pairs")
	assignments := []string{
		ub.Assign("status", status),
		ub.Assign("updated_at", now),
	}
	if status != models.DuplicatePairStatusPending {
		assignments = append(assignments, ub.Assign("resolved_at", now))
		if resolvedBy != "" {
			assignments = append(assignments, ub.Assign("resolved_by", resolvedBy))
		}
	}
	ub.Set(assignments...)
	ub.Where(
		ub.Equal("id", id),
		ub.Equal("tenant_id", tenantID),
	)

	query, args := ub.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"pair_id": id, "status": status}).Error("Failed to update duplicate pair status")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update duplicate pair status")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("duplicate pair %s not found", id))
	}

	return nil
}
