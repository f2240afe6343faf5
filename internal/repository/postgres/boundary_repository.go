package postgres

import (
	"context"
	"database/sql"

	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
	"github.com/PepeluiMoreno/sipi-etl/internal/domain/repository"
	"github.com/PepeluiMoreno/sipi-etl/internal/pkg/errors"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type boundaryRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewBoundaryRepository resuelve límites administrativos contra la
// tabla admin_boundaries (geometrías OSM importadas, PostGIS)
func NewBoundaryRepository(db *DB) repository.BoundaryRepository {
	return &boundaryRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *boundaryRepository) GetBoundingBox(ctx context.Context, osmRelationID int64) (*domain.BoundingBox, error) {
	query := `
		SELECT
			ST_YMin(ST_Extent(geometry)) AS min_lat,
			ST_XMin(ST_Extent(geometry)) AS min_lon,
			ST_YMax(ST_Extent(geometry)) AS max_lat,
			ST_XMax(ST_Extent(geometry)) AS max_lon
		FROM admin_boundaries
		WHERE osm_relation_id = $1
	`

	var minLat, minLon, maxLat, maxLon sql.NullFloat64
	err := r.db.QueryRowContext(ctx, query, osmRelationID).Scan(&minLat, &minLon, &maxLat, &maxLon)
	if err != nil {
		r.logger.Error("Failed to get boundary extent",
			zap.Int64("osm_relation_id", osmRelationID),
			zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	// ST_Extent sobre cero filas devuelve NULL
	if !minLat.Valid {
		return nil, errors.ErrRegionNotFound
	}

	return &domain.BoundingBox{
		MinLat: minLat.Float64,
		MinLon: minLon.Float64,
		MaxLat: maxLat.Float64,
		MaxLon: maxLon.Float64,
	}, nil
}

func (r *boundaryRepository) ContainsPoint(ctx context.Context, osmRelationID int64, lat, lon float64) (bool, error) {
	query := `
		SELECT ST_Contains(geometry, ST_SetSRID(ST_MakePoint($1, $2), 4326))
		FROM admin_boundaries
		WHERE osm_relation_id = $3
	`

	var contains bool
	err := r.db.QueryRowContext(ctx, query, lon, lat, osmRelationID).Scan(&contains)
	if err == sql.ErrNoRows {
		return false, errors.ErrRegionNotFound
	}
	if err != nil {
		r.logger.Error("Failed to test boundary containment",
			zap.Int64("osm_relation_id", osmRelationID),
			zap.Error(err))
		return false, errors.ErrDatabaseError
	}

	return contains, nil
}
