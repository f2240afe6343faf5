package repository

import (
	"context"

	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
)

// BoundaryRepository resuelve límites administrativos OSM para las
// regiones de tipo admin (colaborador externo con PostGIS)
type BoundaryRepository interface {
	GetBoundingBox(ctx context.Context, osmRelationID int64) (*domain.BoundingBox, error)
	ContainsPoint(ctx context.Context, osmRelationID int64, lat, lon float64) (bool, error)
}
