package batchreport

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/aster/pkg/database"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

// Row is a persisted batch run. The full report is stored as JSONB so the
// group payload survives without its own tables.
type Row struct {
	ID        string                              `db:"id"`
	TenantID  string                              `db:"tenant_id"`
	Summary   database.JSONB[models.BatchSummary] `db:"summary"`
	Report    database.JSONB[models.BatchReport]  `db:"report"`
	CreatedAt time.Time                           `db:"created_at"`
}

// Repository persists batch deduplication reports
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new batch report repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create stores a completed report and returns its ID
func (r *Repository) Create(ctx context.Context, report *models.BatchReport) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "batchreport.Repository.Create")
	defer span.End()

	id := uuid.New().String()

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("batch_reports")
	sb.Cols("id", "tenant_id", "summary", "report", "created_at")
	sb.Values(id, report.TenantID,
		database.JSONB[models.BatchSummary]{Data: report.Summary},
		database.JSONB[models.BatchReport]{Data: *report},
		time.Now().UTC())

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to store batch report")
		return "", httperror.NewHTTPError(http.StatusInternalServerError, "failed to store batch report")
	}

	return id, nil
}

// Get retrieves a stored report by ID
func (r *Repository) Get(ctx context.Context, tenantID, id string) (*models.BatchReport, error) {
	ctx, span := tracing.StartSpan(ctx, "batchreport.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "tenant_id", "summary", "report", "created_at")
	sb.From("batch_reports")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	var row Row
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("batch report %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get batch report")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get batch report")
	}

	report := row.Report.GetValue()
	return &report, nil
}

// ListEntry is a report history row without the group payload
type ListEntry struct {
	ID        string              `json:"id"`
	TenantID  string              `json:"tenant_id"`
	Summary   models.BatchSummary `json:"summary"`
	CreatedAt time.Time           `json:"created_at"`
}

// List returns the most recent report summaries, newest first
func (r *Repository) List(ctx context.Context, tenantID string, limit int) ([]ListEntry, error) {
	ctx, span := tracing.StartSpan(ctx, "batchreport.Repository.List")
	defer span.End()

	if limit < 1 {
		limit = 20
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "tenant_id", "summary", "created_at")
	sb.From("batch_reports")
	sb.Where(sb.Equal("tenant_id", tenantID))
	sb.OrderBy("created_at").Desc()
	sb.Limit(limit)

	query, args := sb.Build()
	var rows []struct {
		ID        string                              `db:"id"`
		TenantID  string                              `db:"tenant_id"`
		Summary   database.JSONB[models.BatchSummary] `db:"summary"`
		CreatedAt time.Time                           `db:"created_at"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list batch reports")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list batch reports")
	}

	entries := make([]ListEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, ListEntry{
			ID:        row.ID,
			TenantID:  row.TenantID,
			Summary:   row.Summary.GetValue(),
			CreatedAt: row.CreatedAt,
		})
	}

	return entries, nil
}
