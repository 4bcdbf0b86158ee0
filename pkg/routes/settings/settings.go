package settings

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/aster/internal/repositories/settings"
	"github.com/Ramsey-B/aster/pkg/appctx"
	"github.com/Ramsey-B/aster/pkg/models"
)

// Register registers engine settings routes
func Register(g *echo.Group) {
	g.GET("", GetSettings)
	g.PUT("", UpdateSettings)
}

// GetSettings returns the tenant's engine settings, or the defaults when the
// tenant has never saved any.
func GetSettings(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appctx.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	ctx, repo, err := ectoinject.GetContext[*settings.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	current, err := repo.Get(ctx, tenantID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, current)
}

// UpdateSettings applies a partial settings update. Values are validated as a
// whole; an update that would leave the settings inconsistent is rejected.
func UpdateSettings(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appctx.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	var req models.UpdateEngineSettingsRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, repo, err := ectoinject.GetContext[*settings.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	current, err := repo.Get(ctx, tenantID)
	if err != nil {
		return err
	}

	saved, err := repo.Upsert(ctx, req.Apply(current))
	if err != nil {
		return err
	}

	ctx, logger, _ := ectoinject.GetContext[ectologger.Logger](ctx)
	if logger != nil {
		logger.WithContext(ctx).WithFields(map[string]any{
			"similarity_threshold":   saved.SimilarityThreshold,
			"search_score_threshold": saved.SearchScoreThreshold,
			"max_results":            saved.MaxResults,
		}).Info("Updated engine settings")
	}

	return c.JSON(http.StatusOK, saved)
}
