package usecase

import (
	"fmt"
	"strings"

	"github.com/PepeluiMoreno/sipi-etl/internal/config"
	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
)

// Umbrales de distancia para los niveles de confianza
const (
	veryCloseMaxM = 50.0
	nearbyMaxM    = 150.0

	// A partir de esta confianza el match cuenta como exacto para el
	// ajuste de score
	exactConfidenceMin = 90.0
)

// MatchResolver decide el nivel de confianza entre un inmueble y los
// lugares de culto OSM cercanos. Determinista: mismos candidatos
// ordenados, mismo resultado.
type MatchResolver struct {
	cfg config.ScoringConfig
}

func NewMatchResolver(cfg config.ScoringConfig) *MatchResolver {
	return &MatchResolver{cfg: cfg}
}

// Resolve espera los candidatos ya ordenados por distancia (el más
// cercano primero) y devuelve nil si ninguno califica.
func (m *MatchResolver) Resolve(listing *domain.Listing, candidates []domain.OSMPlace) *domain.OSMMatch {
	if len(candidates) == 0 {
		return nil
	}

	title := strings.ToLower(strings.TrimSpace(listing.Title))

	// 1. Contención de nombre en cualquier dirección → exacto.
	// Un título vacío estaría contenido en cualquier nombre, así que
	// solo aplica con título presente.
	if title != "" {
		for _, c := range candidates {
			if c.Name == "" {
				continue
			}
			name := strings.ToLower(c.Name)
			if strings.Contains(title, name) || strings.Contains(name, title) {
				return &domain.OSMMatch{Place: c, Confidence: domain.ConfidenceExact}
			}
		}
	}

	closest := candidates[0]
	if closest.DistanceM < veryCloseMaxM {
		return &domain.OSMMatch{Place: closest, Confidence: domain.ConfidenceVeryClose}
	}
	if closest.DistanceM < nearbyMaxM {
		return &domain.OSMMatch{Place: closest, Confidence: domain.ConfidenceNearby}
	}

	return nil
}

// Apply pliega el match en el resultado de scoring: bonus según
// confianza y evidencia con el nombre OSM (y distancia si no es exacto)
func (m *MatchResolver) Apply(match *domain.OSMMatch, result *domain.ScoreResult) {
	if match == nil {
		return
	}

	name := match.Place.Name
	if name == "" {
		name = fmt.Sprintf("%s/%d", match.Place.OSMType, match.Place.OSMID)
	}

	if match.Confidence >= exactConfidenceMin {
		result.Score += m.cfg.MatchExactBonus
		result.Evidence = append(result.Evidence, fmt.Sprintf("Match OSM exacto: %s (+%.0f)", name, m.cfg.MatchExactBonus))
	} else {
		result.Score += m.cfg.MatchNearbyBonus
		result.Evidence = append(result.Evidence, fmt.Sprintf(
			"Match OSM cercano: %s a %.0fm (+%.0f)", name, match.Place.DistanceM, m.cfg.MatchNearbyBonus,
		))
	}

	result.Score = clampScore(result.Score)
}
