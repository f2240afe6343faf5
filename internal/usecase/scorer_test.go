package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/PepeluiMoreno/sipi-etl/internal/config"
	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
	"github.com/PepeluiMoreno/sipi-etl/internal/usecase"
)

// MockOSMRepository is a mock of OSMRepository
type MockOSMRepository struct {
	mock.Mock
}

func (m *MockOSMRepository) FindNearby(ctx context.Context, lat, lon, radiusM float64) []domain.OSMPlace {
	args := m.Called(ctx, lat, lon, radiusM)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.OSMPlace)
}

func testScoringConfig() config.ScoringConfig {
	return config.ScoringConfig{
		DetectionThreshold:  50,
		KeywordMediumWeight: 10,
		KeywordLowWeight:    5,
		KeywordNegWeight:    10,
		SurfaceMinM2:        300,
		SurfaceScore:        10,
		HighCeilingsBonus:   3,
		MultipleFloorsBonus: 3,
		ProximityRadiusM:    200,
		ProximityMaxScore:   20,
		MatchExactBonus:     30,
		MatchNearbyBonus:    15,
	}
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }

func TestScorer_ExplicitKeywordShortCircuits(t *testing.T) {
	osmRepo := &MockOSMRepository{}
	scorer := usecase.NewScorer(osmRepo, testScoringConfig(), zap.NewNop())

	listing := &domain.Listing{
		Portal:      "idealista",
		PortalID:    "123",
		Title:       "Antiguo convento reformado en el centro",
		Description: "Piso moderno a estrenar", // las negativas no se evalúan
		SurfaceM2:   ptrFloat64(450),
		Lat:         ptrFloat64(40.4168),
		Lon:         ptrFloat64(-3.7038),
	}

	result := scorer.Score(context.Background(), listing)

	assert.Equal(t, 100.0, result.Score)
	assert.Len(t, result.Evidence, 1)
	assert.Contains(t, result.Evidence[0], "convento")

	// Con keyword explícita no se consulta OSM
	osmRepo.AssertNotCalled(t, "FindNearby")
}

func TestScorer_NegativeOnlyListingScoresZero(t *testing.T) {
	osmRepo := &MockOSMRepository{}
	osmRepo.On("FindNearby", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.OSMPlace{})
	scorer := usecase.NewScorer(osmRepo, testScoringConfig(), zap.NewNop())

	listing := &domain.Listing{
		Portal:      "fotocasa",
		PortalID:    "456",
		Title:       "Piso moderno a estrenar",
		Description: "Obra nueva con acabados de lujo",
		SurfaceM2:   ptrFloat64(60),
		Lat:         ptrFloat64(40.4),
		Lon:         ptrFloat64(-3.7),
	}

	result := scorer.Score(context.Background(), listing)

	// El clamp inferior evita scores negativos
	assert.Equal(t, 0.0, result.Score)
}

func TestScorer_AccumulatesTieredSignals(t *testing.T) {
	osmRepo := &MockOSMRepository{}
	osmRepo.On("FindNearby", mock.Anything, 40.4168, -3.7038, 200.0).
		Return([]domain.OSMPlace{
			{OSMID: 1, OSMType: "way", Name: "Iglesia de San Andrés", Lat: 40.4170, Lon: -3.7038, DistanceM: 30},
		})
	scorer := usecase.NewScorer(osmRepo, testScoringConfig(), zap.NewNop())

	listing := &domain.Listing{
		Portal:      "idealista",
		PortalID:    "789",
		Title:       "Edificio singular de uso religioso",
		Description: "Conserva el altar y el campanario originales",
		SurfaceM2:   ptrFloat64(450),
		Features:    []string{"techos altos", "varias plantas"},
		Lat:         ptrFloat64(40.4168),
		Lon:         ptrFloat64(-3.7038),
	}

	result := scorer.Score(context.Background(), listing)

	// religioso(+10) + altar(+5) + campanario(+5) + superficie(+10)
	// + techos(+3) + plantas(+3) + proximidad 20*(1-30/300)=18
	assert.InDelta(t, 54.0, result.Score, 0.01)
	assert.GreaterOrEqual(t, len(result.Evidence), 6)
}

func TestScorer_ScoreIsBounded(t *testing.T) {
	osmRepo := &MockOSMRepository{}
	osmRepo.On("FindNearby", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.OSMPlace{
			{OSMID: 1, OSMType: "node", DistanceM: 0},
		})
	scorer := usecase.NewScorer(osmRepo, testScoringConfig(), zap.NewNop())

	listing := &domain.Listing{
		Title: "uso religioso eclesiástico sacro culto episcopal diocesano parroquial conventual monástico clerical",
		Description: "altar campanario torre sacristía presbiterio nave crucero retablo " +
			"baptisterio coro cripta ábside",
		SurfaceM2: ptrFloat64(1000),
		Features:  []string{"techos altos", "varias plantas"},
		Lat:       ptrFloat64(40.0),
		Lon:       ptrFloat64(-3.0),
	}

	result := scorer.Score(context.Background(), listing)

	assert.LessOrEqual(t, result.Score, 100.0)
	assert.GreaterOrEqual(t, result.Score, 0.0)
}

func TestScorer_NoCoordinatesSkipsProximity(t *testing.T) {
	osmRepo := &MockOSMRepository{}
	scorer := usecase.NewScorer(osmRepo, testScoringConfig(), zap.NewNop())

	listing := &domain.Listing{
		Title:       "Local con retablo",
		Description: "",
	}

	result := scorer.Score(context.Background(), listing)

	assert.Equal(t, 5.0, result.Score)
	osmRepo.AssertNotCalled(t, "FindNearby")
}
