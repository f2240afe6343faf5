package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/PepeluiMoreno/sipi-etl/internal/config"
	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
	"github.com/PepeluiMoreno/sipi-etl/internal/domain/repository"
	"go.uber.org/zap"
)

// El bonus de proximidad decae linealmente hasta anularse a 300 m
const proximityDecayM = 300.0

// Scorer calcula la probabilidad (0-100) de que un inmueble sea un
// edificio religioso encubierto o reconvertido.
//
// Esquema de pesos: keyword explícita corta el scoring con 100;
// si no, suma fija por match de nivel medio/bajo y resta por señal
// negativa, más bonus de superficie, características y proximidad OSM.
type Scorer struct {
	osmRepo repository.OSMRepository
	cfg     config.ScoringConfig
	logger  *zap.Logger
}

func NewScorer(
	osmRepo repository.OSMRepository,
	cfg config.ScoringConfig,
	logger *zap.Logger,
) *Scorer {
	return &Scorer{
		osmRepo: osmRepo,
		cfg:     cfg,
		logger:  logger,
	}
}

// Score evalúa un inmueble. Sin modos de fallo: entradas numéricas
// ausentes o malformadas contribuyen cero.
func (s *Scorer) Score(ctx context.Context, listing *domain.Listing) domain.ScoreResult {
	features := strings.ToLower(strings.Join(listing.Features, " "))
	headline := strings.ToLower(listing.Title) + " " + features
	fullText := headline + " " + strings.ToLower(listing.Description)

	// Keyword explícita en título/características → 100, sin evaluar
	// ningún otro factor
	for _, kw := range KeywordsExplicit {
		if strings.Contains(headline, kw) {
			return domain.ScoreResult{
				Score:    100,
				Evidence: []string{fmt.Sprintf("Keyword explícita '%s' (100)", kw)},
			}
		}
	}

	var score float64
	var evidence []string

	for _, kw := range KeywordsMedium {
		if strings.Contains(fullText, kw) {
			score += s.cfg.KeywordMediumWeight
			evidence = append(evidence, fmt.Sprintf("Keyword media '%s' (+%.0f)", kw, s.cfg.KeywordMediumWeight))
		}
	}
	for _, kw := range KeywordsLow {
		if strings.Contains(fullText, kw) {
			score += s.cfg.KeywordLowWeight
			evidence = append(evidence, fmt.Sprintf("Keyword baja '%s' (+%.0f)", kw, s.cfg.KeywordLowWeight))
		}
	}
	for _, kw := range KeywordsNegative {
		if strings.Contains(fullText, kw) {
			score -= s.cfg.KeywordNegWeight
			evidence = append(evidence, fmt.Sprintf("Keyword negativa '%s' (-%.0f)", kw, s.cfg.KeywordNegWeight))
		}
	}

	if listing.SurfaceM2 != nil && *listing.SurfaceM2 >= s.cfg.SurfaceMinM2 {
		score += s.cfg.SurfaceScore
		evidence = append(evidence, fmt.Sprintf("Superficie ≥ %.0fm² (+%.0f)", s.cfg.SurfaceMinM2, s.cfg.SurfaceScore))
	}
	if containsAny(features, "techos altos", "doble altura") {
		score += s.cfg.HighCeilingsBonus
		evidence = append(evidence, "Techos altos/doble altura")
	}
	if containsAny(features, "varias plantas", "múltiples niveles") {
		score += s.cfg.MultipleFloorsBonus
		evidence = append(evidence, "Varias plantas/múltiples niveles")
	}

	if listing.HasCoordinates() && s.osmRepo != nil {
		places := s.osmRepo.FindNearby(ctx, *listing.Lat, *listing.Lon, s.cfg.ProximityRadiusM)
		if len(places) > 0 {
			closest := places[0]
			bonus := s.cfg.ProximityMaxScore * (1 - math.Min(closest.DistanceM/proximityDecayM, 1))
			score += bonus
			evidence = append(evidence, fmt.Sprintf(
				"%d lugar(es) de culto OSM en %.0fm, el más cercano a %.0fm (+%.1f)",
				len(places), s.cfg.ProximityRadiusM, closest.DistanceM, bonus,
			))
		}
	}

	return domain.ScoreResult{
		Score:    clampScore(score),
		Evidence: evidence,
	}
}

func containsAny(text string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func clampScore(score float64) float64 {
	return math.Max(0, math.Min(score, 100))
}
