package duplicate

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/aster/internal/repositories/consumer"
	"github.com/Ramsey-B/aster/internal/repositories/duplicatepair"
	"github.com/Ramsey-B/aster/pkg/appctx"
	"github.com/Ramsey-B/aster/pkg/dedup"
	"github.com/Ramsey-B/aster/pkg/graph"
	"github.com/Ramsey-B/aster/pkg/models"
)

var validate = validator.New()

// Register registers duplicate detection routes
func Register(g *echo.Group) {
	g.POST("/search", SearchDuplicates)
	g.GET("/consumers/:id", GetConsumerDuplicates)
	g.GET("/consumers/:id/cluster", GetConsumerCluster)
	g.GET("/pairs", ListPairs)
	g.POST("/pairs/:id/status", UpdatePairStatus)
	g.POST("/merge", MergeConsumers)
	g.GET("/groups", ListGroups)
}

// SearchDuplicates runs a manual duplicate search against the stored records
func SearchDuplicates(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appctx.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	var req models.DuplicateSearchRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	query := models.Record{
		ID:        req.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
	}
	if query.PresentFieldCount() == 0 {
		return httperror.NewHTTPError(http.StatusBadRequest, "at least one search field is required")
	}

	ctx, service, err := ectoinject.GetContext[*dedup.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	result, err := service.FindDuplicates(ctx, tenantID, query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// GetConsumerDuplicates scores a stored consumer against the rest of the collection
func GetConsumerDuplicates(c echo.Context) error {
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

	ctx, service, err := ectoinject.GetContext[*dedup.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	result, err := service.FindDuplicates(ctx, tenantID, record.Record())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// GetConsumerCluster walks the graph projection transitively from one consumer
func GetConsumerCluster(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appctx.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	minScore, _ := strconv.Atoi(c.QueryParam("min_score"))

	ctx, projector, err := ectoinject.GetContext[*graph.Projector](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusServiceUnavailable, "graph projection not available")
	}

	cluster, err := projector.ClusterFor(ctx, tenantID, c.Param("id"), minScore)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to load cluster")
	}
	if cluster == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "consumer not found in graph")
	}

	return c.JSON(http.StatusOK, cluster)
}

// ListPairs lists persisted pairs, filtered by review status
func ListPairs(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appctx.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	status := models.DuplicatePairStatus(c.QueryParam("status"))
	if status == "" {
		status = models.DuplicatePairStatusPending
	}
	switch status {
	case models.DuplicatePairStatusPending, models.DuplicatePairStatusConfirmed,
		models.DuplicatePairStatusDismissed, models.DuplicatePairStatusMerged:
	default:
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 500 {
		limit = 100
	}

	ctx, repo, err := ectoinject.GetContext[*duplicatepair.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	pairs, err := repo.ListByStatus(ctx, tenantID, status, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pairs)
}

// UpdatePairStatus moves a pair through the review workflow
func UpdatePairStatus(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appctx.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	id := c.Param("id")

	var req models.UpdatePairStatusRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*duplicatepair.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if err := repo.UpdateStatus(ctx, tenantID, id, req.Status, req.ResolvedBy); err != nil {
		return err
	}

	pair, err := repo.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pair)
}

// MergeConsumers merges a duplicate record into its master
func MergeConsumers(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appctx.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	var req models.MergeRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, service, err := ectoinject.GetContext[*dedup.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	result, err := service.Merge(ctx, tenantID, req)
	if err != nil {
		return err
	}

	ctx, logger, _ := ectoinject.GetContext[ectologger.Logger](ctx)
	if logger != nil {
		logger.WithContext(ctx).WithFields(map[string]any{
			"master_id":    req.MasterID,
			"duplicate_id": req.DuplicateID,
		}).Info("Merged duplicate consumer")
	}

	return c.JSON(http.StatusOK, result)
}

// ListGroups clusters persisted pairs into duplicate groups
func ListGroups(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appctx.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	minScore, _ := strconv.Atoi(c.QueryParam("min_score"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	ctx, service, err := ectoinject.GetContext[*dedup.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	groups, err := service.ListGroups(ctx, tenantID, minScore, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, groups)
}
