package repository

import (
	"context"

	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
)

// ListingRepository es el lado de lectura del colaborador de ingesta
// (schema unificado de portales)
type ListingRepository interface {
	// FindActiveInBBox devuelve inmuebles activos con coordenadas dentro
	// del bounding box cuyo score previo supera minScore o que aún no
	// fueron puntuados. Es un pre-filtro de índice, no el test de
	// contención definitivo.
	FindActiveInBBox(ctx context.Context, bbox domain.BoundingBox, minScore float64) ([]*domain.Listing, error)
}
