package repository

import (
	"context"

	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
)

// RegionRepository gestiona la persistencia de regiones de monitoreo
type RegionRepository interface {
	Create(ctx context.Context, region *domain.GeoRegion) (*domain.GeoRegion, error)
	GetByID(ctx context.Context, id int64) (*domain.GeoRegion, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.GeoRegion, error)
	UpdateLastChecked(ctx context.Context, id int64) error
	Deactivate(ctx context.Context, id int64) error

	// Delete elimina la región; las alertas dependientes caen en cascada
	Delete(ctx context.Context, id int64) error
}
