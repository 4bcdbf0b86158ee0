package integration

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ramsey-B/aster/internal/repositories/batchreport"
	consumerrepo "github.com/Ramsey-B/aster/internal/repositories/consumer"
	"github.com/Ramsey-B/aster/internal/repositories/duplicatepair"
	searchrepo "github.com/Ramsey-B/aster/internal/repositories/search"
	settingsrepo "github.com/Ramsey-B/aster/internal/repositories/settings"
	"github.com/Ramsey-B/aster/pkg/appctx"
	"github.com/Ramsey-B/aster/pkg/database"
	"github.com/Ramsey-B/aster/pkg/models"
)

func getTestLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func getTestDB(t *testing.T) database.DB {
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}
	dbUser := os.Getenv("DB_USER_NAME")
	if dbUser == "" {
		dbUser = "user"
	}
	dbPass := os.Getenv("DB_PASSWORD")
	if dbPass == "" {
		dbPass = "password"
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "aster"
	}

	dsn := "host=" + dbHost + " user=" + dbUser + " password=" + dbPass + " dbname=" + dbName + " sslmode=disable"
	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err, "Failed to connect to test database")

	logger := getTestLogger()

	driver, err := migratepg.WithInstance(db.DB, &migratepg.Config{})
	require.NoError(t, err)
	ms := database.NewMigrationService(logger, &database.MigrationConfig{
		MigrationFolderPath: "../../db/pg",
		AutoRollback:        true,
	})
	require.NoError(t, ms.Migrate(dbName, driver))

	return database.NewDatabaseInstance(db, logger)
}

func getTestContext(tenantID string) context.Context {
	return appctx.SetTenantID(context.Background(), tenantID)
}

// assertNotFound asserts that err is an HTTP 404 error
func assertNotFound(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, httperror.IsHTTPError(err), "expected HTTP error, got: %v", err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err), "expected 404, got: %d", httperror.GetStatusCode(err))
}

func TestConsumerRepository_CRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	defer db.Close()

	logger := getTestLogger()
	repo := consumerrepo.NewRepository(db, logger)
	tenantID := "test-tenant-" + uuid.New().String()[:8]
	ctx := getTestContext(tenantID)

	created, err := repo.Create(ctx, &models.Consumer{
		TenantID:  tenantID,
		FirstName: "Jon",
		LastName:  "Smith",
		Email:     "jon.smith@example.com",
		Phone:     "(555) 123-4567",
		Address:   "123 Main Street",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.Fingerprint)

	t.Run("Get", func(t *testing.T) {
		got, err := repo.Get(ctx, tenantID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Jon", got.FirstName)
		assert.Equal(t, created.Fingerprint, got.Fingerprint)
	})

	t.Run("GetWrongTenant", func(t *testing.T) {
		_, err := repo.Get(ctx, "other-tenant", created.ID)
		assertNotFound(t, err)
	})

	t.Run("UpdateRecomputesFingerprint", func(t *testing.T) {
		got, err := repo.Get(ctx, tenantID, created.ID)
		require.NoError(t, err)

		got.Email = "jonathan.smith@example.com"
		updated, err := repo.Update(ctx, got)
		require.NoError(t, err)
		assert.NotEqual(t, created.Fingerprint, updated.Fingerprint)
	})

	t.Run("ListAndStats", func(t *testing.T) {
		items, total, err := repo.List(ctx, tenantID, 1, 10)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, total, 1)
		assert.NotEmpty(t, items)

		stats, err := repo.Stats(ctx, tenantID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, stats.TotalRecords, 1)
	})

	t.Run("SoftDelete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, tenantID, created.ID))
		_, err := repo.Get(ctx, tenantID, created.ID)
		assertNotFound(t, err)
	})
}

func TestDuplicatePairRepository_Batch(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	defer db.Close()

	logger := getTestLogger()
	repo := duplicatepair.NewRepository(db, logger)
	tenantID := "test-tenant-" + uuid.New().String()[:8]
	ctx := getTestContext(tenantID)

	idA := "aaa-" + uuid.New().String()
	idB := "bbb-" + uuid.New().String()

	pair := &models.DuplicatePair{
		TenantID:        tenantID,
		ConsumerID:      idB, // intentionally reversed
		CandidateID:     idA,
		SimilarityScore: 120,
		SearchScore:     4.2,
		ConfidenceLevel: "high",
	}
	require.NoError(t, repo.CreateBatch(ctx, []*models.DuplicatePair{pair}))

	t.Run("CanonicalOrder", func(t *testing.T) {
		assert.Less(t, pair.ConsumerID, pair.CandidateID)
	})

	t.Run("RediscoveryKeepsBestScore", func(t *testing.T) {
		weaker := &models.DuplicatePair{
			TenantID:        tenantID,
			ConsumerID:      idA,
			CandidateID:     idB,
			SimilarityScore: 90,
			SearchScore:     2.0,
			ConfidenceLevel: "medium",
		}
		require.NoError(t, repo.CreateBatch(ctx, []*models.DuplicatePair{weaker}))

		got, err := repo.GetByConsumers(ctx, tenantID, idA, idB)
		require.NoError(t, err)
		assert.Equal(t, 120, got.SimilarityScore)
	})

	t.Run("StatusWorkflow", func(t *testing.T) {
		got, err := repo.GetByConsumers(ctx, tenantID, idA, idB)
		require.NoError(t, err)
		assert.Equal(t, models.DuplicatePairStatusPending, got.Status)

		require.NoError(t, repo.UpdateStatus(ctx, tenantID, got.ID, models.DuplicatePairStatusConfirmed, "reviewer@example.com"))

		resolved, err := repo.Get(ctx, tenantID, got.ID)
		require.NoError(t, err)
		assert.Equal(t, models.DuplicatePairStatusConfirmed, resolved.Status)
		require.NotNil(t, resolved.ResolvedAt)
		require.NotNil(t, resolved.ResolvedBy)
		assert.Equal(t, "reviewer@example.com", *resolved.ResolvedBy)
	})

	t.Run("ListAboveScore", func(t *testing.T) {
		pairs, err := repo.ListAboveScore(ctx, tenantID, 100)
		require.NoError(t, err)
		require.Len(t, pairs, 1)
		assert.GreaterOrEqual(t, pairs[0].SimilarityScore, 100)
	})
}

func TestSettingsRepository_Defaults(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	defer db.Close()

	repo := settingsrepo.NewRepository(db, getTestLogger())
	tenantID := "test-tenant-" + uuid.New().String()[:8]
	ctx := getTestContext(tenantID)

	t.Run("UnknownTenantGetsDefaults", func(t *testing.T) {
		got, err := repo.Get(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, models.DefaultEngineSettings().MaxResults, got.MaxResults)
		assert.Equal(t, tenantID, got.TenantID)
	})

	t.Run("UpsertRoundTrip", func(t *testing.T) {
		custom := models.DefaultEngineSettings()
		custom.TenantID = tenantID
		custom.SimilarityThreshold = 60
		custom.MaxResults = 25

		saved, err := repo.Upsert(ctx, custom)
		require.NoError(t, err)
		assert.Equal(t, 60, saved.SimilarityThreshold)

		got, err := repo.Get(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, 25, got.MaxResults)
	})

	t.Run("InvalidSettingsRejected", func(t *testing.T) {
		bad := models.DefaultEngineSettings()
		bad.TenantID = tenantID
		bad.HighConfidenceThreshold = 30 // below medium

		_, err := repo.Upsert(ctx, bad)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
	})
}

func TestBatchReportRepository_History(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	defer db.Close()

	repo := batchreport.NewRepository(db, getTestLogger())
	tenantID := "test-tenant-" + uuid.New().String()[:8]
	ctx := getTestContext(tenantID)

	report := &models.BatchReport{
		TenantID: tenantID,
		Summary: models.BatchSummary{
			TotalRecords:    100,
			PairsScored:     42,
			DuplicateGroups: 7,
		},
		Groups: []models.DuplicateGroup{
			{
				Master:        models.Record{ID: "m1", FirstName: "jon"},
				Duplicates:    []models.Record{{ID: "d1", FirstName: "jhon"}},
				GroupSize:     2,
				MaxSimilarity: 110,
			},
		},
	}

	id, err := repo.Create(ctx, report)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	t.Run("GetReturnsFullPayload", func(t *testing.T) {
		got, err := repo.Get(ctx, tenantID, id)
		require.NoError(t, err)
		assert.Equal(t, 42, got.Summary.PairsScored)
		require.Len(t, got.Groups, 1)
		assert.Equal(t, "m1", got.Groups[0].Master.ID)
	})

	t.Run("ListReturnsSummariesOnly", func(t *testing.T) {
		entries, err := repo.List(ctx, tenantID, 10)
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		assert.Equal(t, 7, entries[0].Summary.DuplicateGroups)
	})

	t.Run("GetUnknownID", func(t *testing.T) {
		_, err := repo.Get(ctx, tenantID, uuid.New().String())
		assertNotFound(t, err)
	})
}

func TestSearchRepository_Trigram(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	defer db.Close()

	logger := getTestLogger()
	consumers := consumerrepo.NewRepository(db, logger)
	searcher := searchrepo.NewRepository(db, logger)
	tenantID := "test-tenant-" + uuid.New().String()[:8]
	ctx := getTestContext(tenantID)

	seed := []models.Consumer{
		{TenantID: tenantID, FirstName: "Jon", LastName: "Smith", Email: "jon.smith@example.com", Phone: "(555) 123-4567"},
		{TenantID: tenantID, FirstName: "Jhon", LastName: "Smith", Email: "jon.smith@gmail.com", Phone: "555-123-4567"},
		{TenantID: tenantID, FirstName: "Alice", LastName: "Wong", Email: "alice.wong@example.com", Phone: "111-222-3333"},
	}
	for i := range seed {
		_, err := consumers.Create(ctx, &seed[i])
		require.NoError(t, err)
	}

	t.Run("TypoVariantIsRetrieved", func(t *testing.T) {
		query := models.Record{FirstName: "Jon", LastName: "Smith", Email: "jon.smith@example.com"}

		candidates, err := searcher.Search(ctx, tenantID, query, 10)
		require.NoError(t, err)
		require.NotEmpty(t, candidates)

		ids := make(map[string]float64)
		for _, c := range candidates {
			ids[c.Record.ID] = c.SearchScore
		}
		assert.Contains(t, ids, seed[0].ID)
		assert.Contains(t, ids, seed[1].ID, "trigram retrieval should surface the typo variant")
	})

	t.Run("RelevanceOrdersExactAboveVariant", func(t *testing.T) {
		query := models.Record{Email: "jon.smith@example.com"}

		candidates, err := searcher.Search(ctx, tenantID, query, 10)
		require.NoError(t, err)
		require.NotEmpty(t, candidates)
		assert.Equal(t, seed[0].ID, candidates[0].Record.ID)
	})

	t.Run("OtherTenantSeesNothing", func(t *testing.T) {
		query := models.Record{FirstName: "Jon"}

		candidates, err := searcher.Search(ctx, "unrelated-tenant", query, 10)
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("EmptyQueryReturnsNoCandidates", func(t *testing.T) {
		candidates, err := searcher.Search(ctx, tenantID, models.Record{}, 10)
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})
}
