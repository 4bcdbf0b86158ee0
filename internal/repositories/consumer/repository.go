package consumer

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

	"github.com/Ramsey-B/aster/pkg/fingerprint"
	"github.com/Ramsey-B/aster/pkg/models"
)

var consumerColumns = []string{
	"id", "tenant_id", "first_name", "last_name", "email", "phone", "address",
	"is_duplicate", "duplicate_of", "fingerprint", "created_at", "updated_at",
}

// Repository handles consumer profile persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new consumer repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new consumer profile
func (r *Repository) Create(ctx context.Context, c *models.Consumer) (*models.Consumer, error) {
	ctx, span := tracing.StartSpan(ctx, "consumer.Repository.Create")
	defer span.End()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	c.Fingerprint = fingerprint.Generate(c.Record())

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("consumers")
	sb.Cols(consumerColumns...)
	sb.Values(c.ID, c.TenantID, c.FirstName, c.LastName, c.Email, c.Phone, c.Address,
		c.IsDuplicate, c.DuplicateOf, c.Fingerprint, c.CreatedAt, c.UpdatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"consumer_id": c.ID}).Error("Failed to create consumer")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create consumer")
	}

	return c, nil
}

// Upsert inserts a consumer or refreshes its fields when the source sends the
// record again. Used by the ingestion consumer, which may replay messages.
func (r *Repository) Upsert(ctx context.Context, c *models.Consumer) (*models.Consumer, error) {
	ctx, span := tracing.StartSpan(ctx, "consumer.Repository.Upsert")
	defer span.End()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Fingerprint = fingerprint.Generate(c.Record())

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("consumers")
	sb.Cols(consumerColumns...)
	sb.Values(c.ID, c.TenantID, c.FirstName, c.LastName, c.Email, c.Phone, c.Address,
		c.IsDuplicate, c.DuplicateOf, c.Fingerprint, c.CreatedAt, c.UpdatedAt)

	query, args := sb.Build()
	query += ` ON CONFLICT (id) DO UPDATE SET
		first_name = EXCLUDED.first_name,
		last_name = EXCLUDED.last_name,
		email = EXCLUDED.email,
		phone = EXCLUDED.phone,
		address = EXCLUDED.address,
		fingerprint = EXCLUDED.fingerprint,
		updated_at = EXCLUDED.updated_at`

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"consumer_id": c.ID}).Error("Failed to upsert consumer")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert consumer")
	}

	return c, nil
}

// Get retrieves a consumer by ID
func (r *Repository) Get(ctx context.Context, tenantID, id string) (*models.Consumer, error) {
	ctx, span := tracing.StartSpan(ctx, "consumer.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(consumerColumns...)
	sb.From("consumers")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	var c models.Consumer
	if err := r.db.GetContext(ctx, &c, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("consumer %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get consumer")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get consumer")
	}

	return &c, nil
}

// Update overwrites a consumer's profile fields and recomputes its fingerprint
func (r *Repository) Update(ctx context.Context, c *models.Consumer) (*models.Consumer, error) {
	ctx, span := tracing.StartSpan(ctx, "consumer.Repository.Update")
	defer span.End()

	c.UpdatedAt = time.Now().UTC()
	c.Fingerprint = fingerprint.Generate(c.Record())

	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	ub.Update("consumers")
	ub.Set(
		ub.Assign("first_name", c.FirstName),
		ub.Assign("last_name", c.LastName),
		ub.Assign("email", c.Email),
		ub.Assign("phone", c.Phone),
		ub.Assign("address", c.Address),
		ub.Assign("is_duplicate", c.IsDuplicate),
		ub.Assign("duplicate_of", c.DuplicateOf),
		ub.Assign("fingerprint", c.Fingerprint),
		ub.Assign("updated_at", c.UpdatedAt),
	)
	ub.Where(
		ub.Equal("id", c.ID),
		ub.Equal("tenant_id", c.TenantID),
	)

	query, args := ub.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"consumer_id": c.ID}).Error("Failed to update consumer")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update consumer")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("consumer %s not found", c.ID))
	}

	return c, nil
}

// MarkDuplicate flags a consumer as a duplicate of the given master record
func (r *Repository) MarkDuplicate(ctx context.Context, tenantID, id, masterID string) error {
	ctx, span := tracing.StartSpan(ctx, "consumer.Repository.MarkDuplicate")
	defer span.End()

	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	ub.Update("consumers")
	ub.Set(
		ub.Assign("is_duplicate", true),
		ub.Assign("duplicate_of", masterID),
		ub.Assign("updated_at", time.Now().UTC()),
	)
	ub.Where(
		ub.Equal("id", id),
		ub.Equal("tenant_id", tenantID),
	)

	query, args := ub.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"consumer_id": id, "master_id": masterID}).Error("Failed to mark consumer as duplicate")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to mark consumer as duplicate")
	}

	return nil
}

// Delete soft-deletes a consumer
func (r *Repository) Delete(ctx context.Context, tenantID, id string) error {
	ctx, span := tracing.StartSpan(ctx, "consumer.Repository.Delete")
	defer span.End()

	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	ub.Update("consumers")
	ub.Set(ub.Assign("deleted_at", time.Now().UTC()))
	ub.Where(
		ub.Equal("id", id),
		ub.Equal("tenant_id", tenantID),
		ub.IsNull("deleted_at"),
	)

	query, args := ub.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"consumer_id": id}).Error("Failed to delete consumer")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete consumer")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("consumer %s not found", id))
	}

	return nil
}

// List returns a page of consumers ordered by creation time
func (r *Repository) List(ctx context.Context, tenantID string, page, pageSize int) ([]models.Consumer, int, error) {
	ctx, span := tracing.StartSpan(ctx, "consumer.Repository.List")
	defer span.End()

	countSB := sqlbuilder.PostgreSQL.NewSelectBuilder()
	countSB.Select("COUNT(*)")
	countSB.From("consumers")
	countSB.Where(
		countSB.Equal("tenant_id", tenantID),
		countSB.IsNull("deleted_at"),
	)

	query, args := countSB.Build()
	var totalCount int
	if err := r.db.GetContext(ctx, &totalCount, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count consumers")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list consumers")
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(consumerColumns...)
	sb.From("consumers")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)
	sb.OrderBy("created_at DESC")
	sb.Limit(pageSize)
	sb.Offset((page - 1) * pageSize)

	query, args = sb.Build()
	consumers := []models.Consumer{}
	if err := r.db.SelectContext(ctx, &consumers, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list consumers")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list consumers")
	}

	return consumers, totalCount, nil
}

// ListAll streams every live consumer for the batch sweep, in stable ID order
func (r *Repository) ListAll(ctx context.Context, tenantID string, afterID string, limit int) ([]models.Consumer, error) {
	ctx, span := tracing.StartSpan(ctx, "consumer.Repository.ListAll")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(consumerColumns...)
	sb.From("consumers")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)
	if afterID != "" {
		sb.Where(sb.GreaterThan("id", afterID))
	}
	sb.OrderBy("id ASC")
	sb.Limit(limit)

	query, args := sb.Build()
	consumers := []models.Consumer{}
	if err := r.db.SelectContext(ctx, &consumers, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to page consumers")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to page consumers")
	}

	return consumers, nil
}

// Stats summarizes the collection for the browse view
func (r *Repository) Stats(ctx context.Context, tenantID string) (*models.ConsumerStats, error) {
	ctx, span := tracing.StartSpan(ctx, "consumer.Repository.Stats")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(
		"COUNT(*) AS total_records",
		"COUNT(*) FILTER (WHERE NOT is_duplicate) AS original_records",
		"COUNT(*) FILTER (WHERE is_duplicate) AS duplicate_records",
	)
	sb.From("consumers")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	var stats models.ConsumerStats
	if err := r.db.GetContext(ctx, &stats, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to compute consumer stats")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to compute consumer stats")
	}

	return &stats, nil
}
