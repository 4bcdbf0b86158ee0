package tenant

import (
	"net/http"

	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/aster/pkg/database"
)

// Register registers tenant routes
func Register(g *echo.Group) {
	g.DELETE("/tenant/:tenant_id", deleteTenantData)
}

// deleteTenantData deletes all data for a specific tenant
// This is intended for testing purposes to clean up test data
func deleteTenantData(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID := c.Param("tenant_id")
	if tenantID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "tenant_id is required",
		})
	}

	ctx, db, err := ectoinject.GetContext[database.DB](ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to get database",
		})
	}

	ctx, logger, _ := ectoinject.GetContext[ectologger.Logger](ctx)
	if logger != nil {
		logger.WithContext(ctx).WithFields(map[string]any{"tenant_id": tenantID}).Info("Deleting all data for tenant")
	}

	counts := make(map[string]int64)

	// 1. Delete scored pairs first; they reference consumers
	result, err := db.ExecContext(ctx, "DELETE FROM duplicate_pairs WHERE tenant_id = $1", tenantID)
	if err == nil {
		counts["duplicate_pairs"], _ = result.RowsAffected()
	}

	// 2. Delete batch reports
	result, err = db.ExecContext(ctx, "DELETE FROM batch_reports WHERE tenant_id = $1", tenantID)
	if err == nil {
		counts["batch_reports"], _ = result.RowsAffected()
	}

	// 3. Delete consumers
	result, err = db.ExecContext(ctx, "DELETE FROM consumers WHERE tenant_id = $1", tenantID)
	if err == nil {
		counts["consumers"], _ = result.RowsAffected()
	}

	// 4. Delete engine settings
	result, err = db.ExecContext(ctx, "DELETE FROM engine_settings WHERE tenant_id = $1", tenantID)
	if err == nil {
		counts["engine_settings"], _ = result.RowsAffected()
	}

	if logger != nil {
		fields := map[string]any{"tenant_id": tenantID}
		for k, v := range counts {
			fields[k] = v
		}
		logger.WithContext(ctx).WithFields(fields).Info("Tenant data deleted")
	}

	response := map[string]interface{}{
		"message":   "tenant data deleted",
		"tenant_id": tenantID,
	}
	for k, v := range counts {
		response[k] = v
	}

	return c.JSON(http.StatusOK, response)
}
