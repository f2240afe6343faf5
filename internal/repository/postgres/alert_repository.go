package postgres

import (
	"context"

	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
	"github.com/PepeluiMoreno/sipi-etl/internal/domain/repository"
	"github.com/PepeluiMoreno/sipi-etl/internal/pkg/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type alertRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewAlertRepository(db *DB) repository.AlertRepository {
	return &alertRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

const alertColumns = `
	id, region_id, portal, inmueble_id, titulo, precio, score, status,
	lat, lon, distance_to_center_m, osm_church_id, osm_church_name,
	osm_distance_m, detected_at, notified, notified_at`

// BulkInsert inserta las alertas ignorando las ya existentes por
// (region_id, portal, inmueble_id) y devuelve cuántas entraron
func (r *alertRepository) BulkInsert(ctx context.Context, alerts []*domain.RegionAlert) (int, error) {
	if len(alerts) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO region_alerts (
			region_id, portal, inmueble_id, titulo, precio, score, status,
			lat, lon, distance_to_center_m, osm_church_id, osm_church_name,
			osm_distance_m, detected_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (region_id, portal, inmueble_id) DO NOTHING
	`

	inserted := 0
	for _, alert := range alerts {
		res, err := r.db.ExecContext(ctx, query,
			alert.RegionID,
			alert.Portal,
			alert.ListingID,
			alert.Title,
			alert.Price,
			alert.Score,
			alert.Status,
			alert.Lat,
			alert.Lon,
			alert.DistanceToCenter,
			alert.OSMMatchID,
			alert.OSMMatchName,
			alert.OSMMatchDistance,
			alert.DetectedAt,
		)
		if err != nil {
			r.logger.Error("Failed to insert alert",
				zap.Int64("region_id", alert.RegionID),
				zap.String("inmueble_id", alert.ListingID),
				zap.Error(err))
			return inserted, errors.ErrDatabaseError
		}

		if affected, _ := res.RowsAffected(); affected > 0 {
			inserted++
		}
	}

	return inserted, nil
}

func (r *alertRepository) GetByRegion(
	ctx context.Context,
	regionID int64,
	unnotifiedOnly bool,
	limit int,
) ([]*domain.RegionAlert, error) {
	query := `SELECT` + alertColumns + `
		FROM region_alerts
		WHERE region_id = $1
	`
	if unnotifiedOnly {
		query += ` AND notified = FALSE`
	}
	query += ` ORDER BY detected_at DESC LIMIT $2`

	var alerts []*domain.RegionAlert
	if err := r.db.SelectContext(ctx, &alerts, query, regionID, limit); err != nil {
		r.logger.Error("Failed to get alerts by region",
			zap.Int64("region_id", regionID),
			zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return alerts, nil
}

func (r *alertRepository) ListUnnotified(ctx context.Context, limit int) ([]*domain.RegionAlert, error) {
	query := `SELECT` + alertColumns + `
		FROM region_alerts
		WHERE notified = FALSE
		ORDER BY detected_at
		LIMIT $1
	`

	var alerts []*domain.RegionAlert
	if err := r.db.SelectContext(ctx, &alerts, query, limit); err != nil {
		r.logger.Error("Failed to list unnotified alerts", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return alerts, nil
}

func (r *alertRepository) MarkNotified(ctx context.Context, alertIDs []int64) error {
	if len(alertIDs) == 0 {
		return nil
	}

	query := `
		UPDATE region_alerts
		SET notified = TRUE, notified_at = NOW()
		WHERE id = ANY($1)
	`

	if _, err := r.db.ExecContext(ctx, query, pq.Array(alertIDs)); err != nil {
		r.logger.Error("Failed to mark alerts notified",
			zap.Int("count", len(alertIDs)),
			zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}
