package settings

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/aster/pkg/database"
	"github.com/Ramsey-B/aster/pkg/tracing"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/aster/pkg/models"
)

// Repository handles per-tenant engine settings persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new settings repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Get returns the tenant's engine settings, falling back to the defaults when
// the tenant has never tuned anything.
func (r *Repository) Get(ctx context.Context, tenantID string) (models.EngineSettings, error) {
	ctx, span := tracing.StartSpan(ctx, "settings.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("tenant_id", "similarity_threshold", "search_score_threshold",
		"high_confidence_threshold", "medium_confidence_threshold", "max_results", "updated_at")
	sb.From("engine_settings")
	sb.Where(sb.Equal("tenant_id", tenantID))

	query, args := sb.Build()
	var s models.EngineSettings
	if err := r.db.GetContext(ctx, &s, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			defaults := models.DefaultEngineSettings()
			defaults.TenantID = tenantID
			return defaults, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get engine settings")
		return models.EngineSettings{}, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get engine settings")
	}

	return s, nil
}

// Upsert validates and stores the tenant's settings
func (r *Repository) Upsert(ctx context.Context, s models.EngineSettings) (models.EngineSettings, error) {
	ctx, span := tracing.StartSpan(ctx, "settings.Repository.Upsert")
	defer span.End()

	if err := s.Validate(); err != nil {
		return models.EngineSettings{}, httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.UpdatedAt = time.Now().UTC()

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("engine_settings")
	sb.Cols("tenant_id", "similarity_threshold", "search_score_threshold",
		"high_confidence_threshold", "medium_confidence_threshold", "max_results", "updated_at")
	sb.Values(s.TenantID, s.SimilarityThreshold, s.SearchScoreThreshold,
		s.HighConfidenceThreshold, s.MediumConfidenceThreshold, s.MaxResults, s.UpdatedAt)

	query, args := sb.Build()
	query += ` ON CONFLICT (tenant_id) DO UPDATE SET
		similarity_threshold = EXCLUDED.similarity_threshold,
		search_score_threshold = EXCLUDED.search_score_threshold,
		high_confidence_threshold = EXCLUDED.high_confidence_threshold,
		medium_confidence_threshold = EXCLUDED.medium_confidence_threshold,
		max_results = EXCLUDED.max_results,
		updated_at = EXCLUDED.updated_at`

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to upsert engine settings")
		return models.EngineSettings{}, httperror.NewHTTPError(http.StatusInternalServerError, "failed to save engine settings")
	}

	return s, nil
}
