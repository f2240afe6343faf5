package worker

import (
	"context"
)

// Worker es el contrato común de los procesos de fondo
type Worker interface {
	// Start arranca el worker; bloquea hasta ctx.Done() o Stop()
	Start(ctx context.Context) error

	// Stop detiene el worker
	Stop() error

	// Name devuelve el nombre del worker
	Name() string
}
