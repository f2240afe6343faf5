package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
	"github.com/PepeluiMoreno/sipi-etl/internal/usecase"
)

func TestMatchResolver_Resolve(t *testing.T) {
	matcher := usecase.NewMatchResolver(testScoringConfig())

	t.Run("no candidates returns nil", func(t *testing.T) {
		match := matcher.Resolve(&domain.Listing{Title: "Iglesia de San Pedro"}, nil)
		assert.Nil(t, match)
	})

	t.Run("name containment is an exact match", func(t *testing.T) {
		listing := &domain.Listing{Title: "Se vende: Iglesia de San Pedro, oportunidad única"}
		candidates := []domain.OSMPlace{
			{OSMID: 7, OSMType: "way", Name: "Iglesia de San Pedro", DistanceM: 120},
		}

		match := matcher.Resolve(listing, candidates)
		require.NotNil(t, match)
		assert.Equal(t, domain.ConfidenceExact, match.Confidence)
		assert.Equal(t, int64(7), match.Place.OSMID)
	})

	t.Run("empty title never matches by name", func(t *testing.T) {
		listing := &domain.Listing{Title: "   "}
		candidates := []domain.OSMPlace{
			{OSMID: 9, OSMType: "way", Name: "Iglesia de San Pedro", DistanceM: 120},
		}

		// Sin título el candidato solo puede calificar por distancia
		match := matcher.Resolve(listing, candidates)
		require.NotNil(t, match)
		assert.Equal(t, domain.ConfidenceNearby, match.Confidence)
	})

	t.Run("closest under 50m is very close", func(t *testing.T) {
		listing := &domain.Listing{Title: "Edificio señorial"}
		candidates := []domain.OSMPlace{
			{OSMID: 1, OSMType: "node", Name: "Capilla del Carmen", DistanceM: 30},
			{OSMID: 2, OSMType: "way", Name: "Iglesia Mayor", DistanceM: 90},
		}

		match := matcher.Resolve(listing, candidates)
		require.NotNil(t, match)
		assert.Equal(t, domain.ConfidenceVeryClose, match.Confidence)
		assert.Equal(t, int64(1), match.Place.OSMID)
	})

	t.Run("closest under 150m is nearby", func(t *testing.T) {
		listing := &domain.Listing{Title: "Edificio señorial"}
		candidates := []domain.OSMPlace{
			{OSMID: 3, OSMType: "node", Name: "Ermita", DistanceM: 120},
		}

		match := matcher.Resolve(listing, candidates)
		require.NotNil(t, match)
		assert.Equal(t, domain.ConfidenceNearby, match.Confidence)
	})

	t.Run("everything too far returns nil", func(t *testing.T) {
		listing := &domain.Listing{Title: "Edificio señorial"}
		candidates := []domain.OSMPlace{
			{OSMID: 4, OSMType: "node", Name: "Basílica", DistanceM: 180},
		}

		assert.Nil(t, matcher.Resolve(listing, candidates))
	})

	t.Run("deterministic over the same candidates", func(t *testing.T) {
		listing := &domain.Listing{Title: "Edificio señorial"}
		candidates := []domain.OSMPlace{
			{OSMID: 1, OSMType: "node", Name: "Capilla del Carmen", DistanceM: 30},
			{OSMID: 2, OSMType: "way", Name: "Iglesia Mayor", DistanceM: 90},
		}

		first := matcher.Resolve(listing, candidates)
		second := matcher.Resolve(listing, candidates)
		assert.Equal(t, first, second)
	})
}

func TestMatchResolver_Apply(t *testing.T) {
	matcher := usecase.NewMatchResolver(testScoringConfig())

	t.Run("exact match adds the exact bonus", func(t *testing.T) {
		result := domain.ScoreResult{Score: 40}
		match := &domain.OSMMatch{
			Place:      domain.OSMPlace{OSMID: 7, Name: "Iglesia de San Pedro", DistanceM: 10},
			Confidence: domain.ConfidenceExact,
		}

		matcher.Apply(match, &result)

		assert.Equal(t, 70.0, result.Score)
		require.Len(t, result.Evidence, 1)
		assert.Contains(t, result.Evidence[0], "Iglesia de San Pedro")
	})

	t.Run("nearby match adds the nearby bonus", func(t *testing.T) {
		result := domain.ScoreResult{Score: 40}
		match := &domain.OSMMatch{
			Place:      domain.OSMPlace{OSMID: 3, Name: "Ermita", DistanceM: 120},
			Confidence: domain.ConfidenceNearby,
		}

		matcher.Apply(match, &result)

		assert.Equal(t, 55.0, result.Score)
	})

	t.Run("score stays clamped", func(t *testing.T) {
		result := domain.ScoreResult{Score: 95}
		match := &domain.OSMMatch{
			Place:      domain.OSMPlace{OSMID: 7, Name: "Catedral"},
			Confidence: domain.ConfidenceExact,
		}

		matcher.Apply(match, &result)

		assert.Equal(t, 100.0, result.Score)
	})

	t.Run("nil match is a no-op", func(t *testing.T) {
		result := domain.ScoreResult{Score: 40}
		matcher.Apply(nil, &result)
		assert.Equal(t, 40.0, result.Score)
	})
}
