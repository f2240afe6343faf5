package repository

import (
	"context"

	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
)

// GeocodeRepository geocodifica direcciones para el region builder
type GeocodeRepository interface {
	Geocode(ctx context.Context, query string, limit int) ([]domain.GeocodeResult, error)
	Reverse(ctx context.Context, lat, lon float64) (*domain.GeocodeResult, error)
}
