package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
	"github.com/PepeluiMoreno/sipi-etl/internal/repository/postgres"
)

// Los tests de repositorio corren contra una base real con las
// migraciones aplicadas; se saltan si TEST_DATABASE_DSN no está
// definida.
func setupTestDB(t *testing.T) *postgres.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set, skipping database tests")
	}

	db, err := sqlx.Connect("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return postgres.NewDBForTest(db, zap.NewNop())
}

func createTestRegion(t *testing.T, db *postgres.DB, ctx context.Context) int64 {
	t.Helper()

	var regionID int64
	err := db.QueryRowContext(ctx, `
		INSERT INTO geo_regions (name, shape_type, center_lat, center_lon, radius_m, is_active)
		VALUES ('test-region', 'circle', 40.4168, -3.7038, 500, TRUE)
		RETURNING id`).Scan(&regionID)
	require.NoError(t, err)

	t.Cleanup(func() {
		// El borrado cascada elimina también las alertas del test
		_, _ = db.ExecContext(ctx, `DELETE FROM geo_regions WHERE id = $1`, regionID)
	})

	return regionID
}

func TestAlertRepository_BulkInsert_RepeatedBatchInsertsNothing(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	regionID := createTestRegion(t, db, ctx)
	repo := postgres.NewAlertRepository(db)

	alerts := []*domain.RegionAlert{
		{
			RegionID:   regionID,
			Portal:     "idealista",
			ListingID:  "rep-1",
			Title:      "Antiguo convento en venta",
			Score:      70,
			Status:     domain.StatusDetected,
			Lat:        40.4168,
			Lon:        -3.7038,
			DetectedAt: time.Now().UTC(),
		},
		{
			RegionID:   regionID,
			Portal:     "fotocasa",
			ListingID:  "rep-2",
			Title:      "Capilla desacralizada",
			Score:      85,
			Status:     domain.StatusDetected,
			Lat:        40.4170,
			Lon:        -3.7040,
			DetectedAt: time.Now().UTC(),
		},
	}

	inserted, err := repo.BulkInsert(ctx, alerts)
	require.NoError(t, err)
	require.Equal(t, 2, inserted)

	// Reenvío del mismo lote: la clave (region_id, portal, inmueble_id)
	// descarta todo sin error
	inserted, err = repo.BulkInsert(ctx, alerts)
	require.NoError(t, err)
	require.Equal(t, 0, inserted)

	stored, err := repo.GetByRegion(ctx, regionID, false, 10)
	require.NoError(t, err)
	require.Len(t, stored, 2)
}

func TestAlertRepository_MarkNotified(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	regionID := createTestRegion(t, db, ctx)
	repo := postgres.NewAlertRepository(db)

	_, err := repo.BulkInsert(ctx, []*domain.RegionAlert{
		{
			RegionID:   regionID,
			Portal:     "idealista",
			ListingID:  "not-1",
			Title:      "Ermita restaurada",
			Score:      60,
			Status:     domain.StatusDetected,
			Lat:        40.4168,
			Lon:        -3.7038,
			DetectedAt: time.Now().UTC(),
		},
	})
	require.NoError(t, err)

	pending, err := repo.GetByRegion(ctx, regionID, true, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, repo.MarkNotified(ctx, []int64{pending[0].ID}))

	pending, err = repo.GetByRegion(ctx, regionID, true, 10)
	require.NoError(t, err)
	require.Empty(t, pending)
}
