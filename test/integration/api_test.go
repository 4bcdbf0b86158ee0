package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/aster/pkg/middleware"
	"github.com/Ramsey-B/aster/pkg/models"
)

// TestAPIHelpers contains helper functions for API testing
type TestAPIHelpers struct {
	t        *testing.T
	e        *echo.Echo
	tenantID string
}

func NewTestAPIHelpers(t *testing.T) *TestAPIHelpers {
	e := echo.New()
	logger := getTestLogger()
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(middleware.Tracing("aster-test"))
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Context())

	return &TestAPIHelpers{
		t:        t,
		e:        e,
		tenantID: "test-tenant",
	}
}

func (h *TestAPIHelpers) MakeRequest(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(h.t, err)
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderTenantID, h.tenantID)

	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	return rec
}

func TestSearchRequest_Validation(t *testing.T) {
	t.Run("AtLeastOneFieldRequired", func(t *testing.T) {
		req := models.DuplicateSearchRequest{}
		query := models.Record{
			ID:        req.ID,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Phone:     req.Phone,
			Address:   req.Address,
		}
		assert.Equal(t, 0, query.PresentFieldCount())
	})

	t.Run("IDAloneDoesNotCount", func(t *testing.T) {
		query := models.Record{ID: "abc-123"}
		assert.Equal(t, 0, query.PresentFieldCount())
	})

	t.Run("RoundTrip", func(t *testing.T) {
		req := models.DuplicateSearchRequest{
			FirstName: "Jon",
			LastName:  "Smith",
			Email:     "jon.smith@example.com",
		}

		data, err := json.Marshal(req)
		require.NoError(t, err)

		var parsed models.DuplicateSearchRequest
		require.NoError(t, json.Unmarshal(data, &parsed))
		assert.Equal(t, "Jon", parsed.FirstName)
		assert.Equal(t, "jon.smith@example.com", parsed.Email)
	})
}

func TestMergeRequest_Validation(t *testing.T) {
	t.Run("FieldNamesAreConstrained", func(t *testing.T) {
		allowed := map[string]bool{
			"first_name": true, "last_name": true,
			"email": true, "phone": true, "address": true,
		}
		req := models.MergeRequest{
			MasterID:    "a",
			DuplicateID: "b",
			Fields:      []string{"email", "phone"},
		}
		for _, f := range req.Fields {
			assert.True(t, allowed[f])
		}
	})
}

func TestConfirmationPayload_Shape(t *testing.T) {
	confirmation := models.DuplicateConfirmation{
		RequiresConfirmation: true,
		Duplicates: []models.CandidateResult{
			{
				Record:          models.Record{ID: "existing-1", FirstName: "john"},
				SimilarityScore: 120,
				Confidence: models.Confidence{
					Level: "High Confidence",
					Class: "high",
				},
			},
		},
	}

	data, err := json.Marshal(confirmation)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, true, parsed["requires_confirmation"])
	assert.Len(t, parsed["duplicates"], 1)
}

func TestTenantHeader_Propagation(t *testing.T) {
	h := NewTestAPIHelpers(t)

	var seenTenant string
	h.e.GET("/ping", func(c echo.Context) error {
		seenTenant = c.Request().Header.Get(middleware.HeaderTenantID)
		return c.NoContent(http.StatusOK)
	})

	rec := h.MakeRequest(http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test-tenant", seenTenant)
}
