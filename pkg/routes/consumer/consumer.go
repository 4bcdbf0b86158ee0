package consumer

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/aster/internal/repositories/consumer"
	"github.com/Ramsey-B/aster/pkg/appctx"
	"github.com/Ramsey-B/aster/pkg/dedup"
	"github.com/Ramsey-B/aster/pkg/generator"
	"github.com/Ramsey-B/aster/pkg/models"
)

var validate = validator.New()

// Register registers consumer routes
func Register(g *echo.Group) {
	g.GET("", ListConsumers)
	g.GET("/stats", GetStats)
	g.GET("/:id", GetConsumer)
	g.POST("", CreateConsumer)
	g.PUT("/:id", UpdateConsumer)
	g.DELETE("/:id", DeleteConsumer)
	g.POST("/seed", SeedConsumers)
}

// ListConsumers browses consumers with pagination
func ListConsumers(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appctx.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	ctx, repo, err := ectoinject.GetContext[*consumer.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	items, total, err := repo.List(ctx, tenantID, page, pageSize)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.ConsumerListResponse{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	})
}

// GetStats returns collection counts for the browse view
func GetStats(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appctx.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	ctx, repo, err := ectoinject.GetContext[*consumer.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	stats, err := repo.Stats(ctx, tenantID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}

// GetConsumer gets a consumer by ID
func GetConsumer(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appctx.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	ctx, repo, err := ectoinject.GetContext[*consumer.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	record, err := repo.Get(ctx, tenantID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, record)
}

// CreateConsumer creates a consumer profile. Unless the request is confirmed,
// the profile is first scored against existing records and a confirmation
// payload is returned when high-confidence duplicates exist.
func CreateConsumer(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appctx.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	var req models.CreateConsumerRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record := models.Record{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
	}

	if !req.Confirmed {
		ctx2, service, err := ectoinject.GetContext[*dedup.Service](ctx)
		if err != nil {
			return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
		}
		ctx = ctx2

		duplicates, err := service.CheckBeforeCreate(ctx, tenantID, record)
		if err != nil {
			return err
		}
		if len(duplicates) > 0 {
			return c.JSON(http.StatusConflict, models.DuplicateConfirmation{
				RequiresConfirmation: true,
				Duplicates:           duplicates,
			})
		}
	}

	ctx, repo, err := ectoinject.GetContext[*consumer.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	created, err := repo.Create(ctx, &models.Consumer{
		TenantID:  tenantID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if err != nil {
		return err
	}

	ctx, logger, _ := ectoinject.GetContext[ectologger.Logger](ctx)
	if logger != nil {
		logger.WithContext(ctx).WithFields(map[string]any{"consumer_id": created.ID}).Info("Created consumer")
	}

	return c.JSON(http.StatusCreated, created)
}

// UpdateConsumer updates a consumer's profile fields. Like create, an
// unconfirmed update is checked against other records first.
func UpdateConsumer(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appctx.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	id := c.Param("id")

	var req models.UpdateConsumerRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, repo, err := ectoinject.GetContext[*consumer.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	existing, err := repo.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if req.FirstName != nil {
		existing.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		existing.LastName = *req.LastName
	}
	if req.Email != nil {
		existing.Email = *req.Email
	}
	if req.Phone != nil {
		existing.Phone = *req.Phone
	}
	if req.Address != nil {
		existing.Address = *req.Address
	}

	if !req.Confirmed {
		ctx2, service, err := ectoinject.GetContext[*dedup.Service](ctx)
		if err != nil {
			return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
		}
		ctx = ctx2

		// Include the ID so the record's own row is excluded from the check.
		duplicates, err := service.CheckBeforeCreate(ctx, tenantID, existing.Record())
		if err != nil {
			return err
		}
		if len(duplicates) > 0 {
			return c.JSON(http.StatusConflict, models.DuplicateConfirmation{
				RequiresConfirmation: true,
				Duplicates:           duplicates,
			})
		}
	}

	updated, err := repo.Update(ctx, existing)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteConsumer soft-deletes a consumer
func DeleteConsumer(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appctx.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	ctx, repo, err := ectoinject.GetContext[*consumer.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if err := repo.Delete(ctx, tenantID, c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// SeedRequest controls a synthetic data run
type SeedRequest struct {
	Count          int     `json:"count" validate:"required,min=1,max=10000"`
	DuplicateRatio float64 `json:"duplicate_ratio" validate:"min=0,max=1"`
	Seed           int64   `json:"seed"`
}

// SeedResponse reports how many records were inserted
type SeedResponse struct {
	Inserted   int `json:"inserted"`
	Originals  int `json:"originals"`
	Duplicates int `json:"duplicates"`
}

// SeedConsumers inserts synthetic records, a portion of which are typo'd
// duplicates of others in the same run. Intended for demos and load tests.
func SeedConsumers(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appctx.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	var req SeedRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*consumer.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	result := generator.New(req.Seed).Generate(tenantID, generator.Options{
		Count:          req.Count,
		DuplicateRatio: req.DuplicateRatio,
	})

	inserted := 0
	for _, record := range result.All() {
		record := record
		if _, err := repo.Create(ctx, &record); err != nil {
			return err
		}
		inserted++
	}

	ctx, logger, _ := ectoinject.GetContext[ectologger.Logger](ctx)
	if logger != nil {
		logger.WithContext(ctx).WithFields(map[string]any{
			"inserted":   inserted,
			"originals":  len(result.Originals),
			"duplicates": len(result.Duplicates),
		}).Info("Seeded synthetic consumers")
	}

	return c.JSON(http.StatusCreated, SeedResponse{
		Inserted:   inserted,
		Originals:  len(result.Originals),
		Duplicates: len(result.Duplicates),
	})
}
