package batch

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/aster/internal/repositories/batchreport"
	"github.com/Ramsey-B/aster/pkg/appctx"
	"github.com/Ramsey-B/aster/pkg/processor"
)

// Register registers batch deduplication routes
func Register(g *echo.Group) {
	g.POST("/run", RunBatch)
	g.GET("/reports", ListReports)
	g.GET("/reports/:id", GetReport)
}

// RunBatch sweeps the tenant's full collection and returns the report. The
// sweep runs synchronously; callers should expect it to take a while on large
// collections.
func RunBatch(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appctx.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	ctx, bp, err := ectoinject.GetContext[*processor.BatchProcessor](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	report, err := bp.Run(ctx, tenantID)
	if err != nil {
		return err
	}

	ctx, logger, _ := ectoinject.GetContext[ectologger.Logger](ctx)
	if logger != nil {
		logger.WithContext(ctx).WithFields(map[string]any{
			"processed": report.Summary.ProcessedRecords,
			"groups":    report.Summary.DuplicateGroups,
		}).Info("Completed batch deduplication run")
	}

	return c.JSON(http.StatusOK, report)
}

// ListReports returns recent sweep summaries, newest first
func ListReports(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appctx.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	ctx, repo, err := ectoinject.GetContext[*batchreport.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	entries, err := repo.List(ctx, tenantID, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, entries)
}

// GetReport returns one stored sweep report with its full group payload
func GetReport(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appctx.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	ctx, repo, err := ectoinject.GetContext[*batchreport.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	report, err := repo.Get(ctx, tenantID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, report)
}
