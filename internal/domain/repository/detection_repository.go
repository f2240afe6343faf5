package repository

import (
	"context"

	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
)

// DetectionRepository persiste el resultado de scoring por inmueble.
// Upsert con clave inmueble_id, last-write-wins.
type DetectionRepository interface {
	Upsert(ctx context.Context, listing *domain.Listing, result domain.ScoreResult, status string) error
}
