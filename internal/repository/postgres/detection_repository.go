package postgres

import (
	"context"
	"fmt"

	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
	"github.com/PepeluiMoreno/sipi-etl/internal/domain/repository"
	"github.com/PepeluiMoreno/sipi-etl/internal/pkg/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type detectionRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewDetectionRepository(db *DB) repository.DetectionRepository {
	return &detectionRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// Upsert guarda el resultado de scoring del inmueble. Clave
// inmueble_id ("portal:id_portal"), last-write-wins.
func (r *detectionRepository) Upsert(
	ctx context.Context,
	listing *domain.Listing,
	result domain.ScoreResult,
	status string,
) error {
	inmuebleID := fmt.Sprintf("%s:%s", listing.Portal, listing.PortalID)

	query := `
		INSERT INTO detecciones (
			inmueble_id, portal, id_portal, score, status, evidences,
			osm_match_id, osm_match_type, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (inmueble_id) DO UPDATE SET
			score = EXCLUDED.score,
			status = EXCLUDED.status,
			evidences = EXCLUDED.evidences,
			osm_match_id = EXCLUDED.osm_match_id,
			osm_match_type = EXCLUDED.osm_match_type,
			updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query,
		inmuebleID,
		listing.Portal,
		listing.PortalID,
		result.Score,
		status,
		pq.Array(result.Evidence),
		listing.OSMMatchID,
		listing.OSMMatchType,
	)
	if err != nil {
		r.logger.Error("Failed to upsert detection",
			zap.String("inmueble_id", inmuebleID),
			zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}
