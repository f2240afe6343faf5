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

type listingRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewListingRepository(db *DB) repository.ListingRepository {
	return &listingRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// FindActiveInBBox trae inmuebles activos dentro del bbox junto con su
// detección previa si existe. Deja pasar los no puntuados (d.score IS
// NULL) y los que superan minScore.
func (r *listingRepository) FindActiveInBBox(
	ctx context.Context,
	bbox domain.BoundingBox,
	minScore float64,
) ([]*domain.Listing, error) {
	query := `
		SELECT
			i.portal, i.id_portal, i.titulo, i.descripcion, i.precio,
			i.superficie, i.tipo, i.caracteristicas, i.lat, i.lon, i.geo_type,
			d.score, d.status, d.evidences, d.osm_match_id, d.osm_match_type
		FROM inmuebles i
		LEFT JOIN detecciones d
			ON d.portal = i.portal AND d.id_portal = i.id_portal
		WHERE i.activo = TRUE
			AND i.lat IS NOT NULL AND i.lon IS NOT NULL
			AND i.lat BETWEEN $1 AND $2
			AND i.lon BETWEEN $3 AND $4
			AND (d.score IS NULL OR d.score >= $5)
		ORDER BY i.portal, i.id_portal
	`

	rows, err := r.db.QueryContext(ctx, query,
		bbox.MinLat, bbox.MaxLat, bbox.MinLon, bbox.MaxLon, minScore)
	if err != nil {
		r.logger.Error("Failed to query listings in bbox", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	var listings []*domain.Listing
	for rows.Next() {
		var l domain.Listing
		var features, evidences pq.StringArray

		err := rows.Scan(
			&l.Portal, &l.PortalID, &l.Title, &l.Description, &l.Price,
			&l.SurfaceM2, &l.PropertyType, &features, &l.Lat, &l.Lon, &l.GeoType,
			&l.Score, &l.Status, &evidences, &l.OSMMatchID, &l.OSMMatchType,
		)
		if err != nil {
			r.logger.Error("Failed to scan listing", zap.Error(err))
			continue
		}

		l.Features = features
		l.Evidence = evidences
		listings = append(listings, &l)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Listing rows iteration failed", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return listings, nil
}
