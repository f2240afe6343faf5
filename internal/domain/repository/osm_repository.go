package repository

import (
	"context"

	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
)

// OSMRepository consulta lugares de culto cercanos a un punto.
// Contrato best-effort: ante fallo de red o parseo devuelve lista
// vacía, nunca un error. La proximidad es una señal de bonus, no un
// requisito bloqueante.
type OSMRepository interface {
	// FindNearby devuelve candidatos dentro del radio, ordenados por
	// distancia ascendente
	FindNearby(ctx context.Context, lat, lon, radiusM float64) []domain.OSMPlace
}
