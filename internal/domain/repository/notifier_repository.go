package repository

import (
	"context"

	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
)

// NotifierRepository despacha alertas al canal externo de notificación
// (fire-and-forget; la entrega es responsabilidad del colaborador)
type NotifierRepository interface {
	PublishAlert(ctx context.Context, alert *domain.RegionAlert) error
}
