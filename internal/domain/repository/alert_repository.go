package repository

import (
	"context"

	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
)

// AlertRepository persiste alertas de región
type AlertRepository interface {
	// BulkInsert inserta alertas ignorando duplicados por
	// (region_id, portal, inmueble_id); devuelve cuántas entraron
	BulkInsert(ctx context.Context, alerts []*domain.RegionAlert) (int, error)

	GetByRegion(ctx context.Context, regionID int64, unnotifiedOnly bool, limit int) ([]*domain.RegionAlert, error)
	ListUnnotified(ctx context.Context, limit int) ([]*domain.RegionAlert, error)
	MarkNotified(ctx context.Context, alertIDs []int64) error
}
