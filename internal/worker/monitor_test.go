package worker_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/PepeluiMoreno/sipi-etl/internal/config"
	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
	"github.com/PepeluiMoreno/sipi-etl/internal/usecase"
	"github.com/PepeluiMoreno/sipi-etl/internal/worker"
)

// Stubs mínimos para armar un RegionScanUseCase cuyo scan siempre
// termina bien y sin alertas

type stubRegionRepo struct {
	region *domain.GeoRegion
}

func (s *stubRegionRepo) Create(ctx context.Context, region *domain.GeoRegion) (*domain.GeoRegion, error) {
	return region, nil
}

func (s *stubRegionRepo) GetByID(ctx context.Context, id int64) (*domain.GeoRegion, error) {
	return s.region, nil
}

func (s *stubRegionRepo) List(ctx context.Context, activeOnly bool) ([]*domain.GeoRegion, error) {
	return []*domain.GeoRegion{s.region}, nil
}

func (s *stubRegionRepo) UpdateLastChecked(ctx context.Context, id int64) error { return nil }
func (s *stubRegionRepo) Deactivate(ctx context.Context, id int64) error        { return nil }
func (s *stubRegionRepo) Delete(ctx context.Context, id int64) error            { return nil }

type stubListingRepo struct {
	calls atomic.Int64
}

func (s *stubListingRepo) FindActiveInBBox(ctx context.Context, bbox domain.BoundingBox, minScore float64) ([]*domain.Listing, error) {
	s.calls.Add(1)
	return nil, nil
}

type stubDetectionRepo struct{}

func (s *stubDetectionRepo) Upsert(ctx context.Context, listing *domain.Listing, result domain.ScoreResult, status string) error {
	return nil
}

type stubAlertRepo struct{}

func (s *stubAlertRepo) BulkInsert(ctx context.Context, alerts []*domain.RegionAlert) (int, error) {
	return 0, nil
}

func (s *stubAlertRepo) GetByRegion(ctx context.Context, regionID int64, unnotifiedOnly bool, limit int) ([]*domain.RegionAlert, error) {
	return nil, nil
}

func (s *stubAlertRepo) ListUnnotified(ctx context.Context, limit int) ([]*domain.RegionAlert, error) {
	return nil, nil
}

func (s *stubAlertRepo) MarkNotified(ctx context.Context, alertIDs []int64) error { return nil }

type stubBoundaryRepo struct{}

func (s *stubBoundaryRepo) GetBoundingBox(ctx context.Context, osmRelationID int64) (*domain.BoundingBox, error) {
	return &domain.BoundingBox{}, nil
}

func (s *stubBoundaryRepo) ContainsPoint(ctx context.Context, osmRelationID int64, lat, lon float64) (bool, error) {
	return false, nil
}

type stubOSMRepo struct{}

func (s *stubOSMRepo) FindNearby(ctx context.Context, lat, lon, radiusM float64) []domain.OSMPlace {
	return nil
}

func newTestMonitor(t *testing.T) (*worker.Monitor, *stubListingRepo) {
	t.Helper()

	circle, err := domain.NewCircle(40.4168, -3.7038, 500)
	require.NoError(t, err)
	region := &domain.GeoRegion{ID: 1, Name: "Centro", Shape: circle, IsActive: true}

	scoringCfg := config.ScoringConfig{
		DetectionThreshold: 50,
		ProximityRadiusM:   200,
		ProximityMaxScore:  20,
	}
	logger := zap.NewNop()
	listings := &stubListingRepo{}

	scanUC := usecase.NewRegionScanUseCase(
		&stubRegionRepo{region: region},
		listings,
		&stubDetectionRepo{},
		&stubAlertRepo{},
		&stubBoundaryRepo{},
		&stubOSMRepo{},
		usecase.NewScorer(&stubOSMRepo{}, scoringCfg, logger),
		usecase.NewMatchResolver(scoringCfg),
		scoringCfg,
		150,
		logger,
	)

	monitorCfg := config.MonitorConfig{
		DefaultInterval: time.Hour,
		ErrorBackoff:    time.Minute,
	}
	return worker.NewMonitor(scanUC, monitorCfg, logger), listings
}

func TestMonitor_StartIsIdempotent(t *testing.T) {
	monitor, listings := newTestMonitor(t)
	defer monitor.StopAll()

	monitor.Start(1, time.Hour)
	monitor.Start(1, time.Hour)

	assert.Equal(t, []int64{1}, monitor.Running())

	// El primer scan corre al arrancar el bucle
	assert.Eventually(t, func() bool {
		return listings.calls.Load() >= 1
	}, time.Second, 10*time.Millisecond)
	assert.LessOrEqual(t, listings.calls.Load(), int64(1))
}

func TestMonitor_StopWaitsForLoop(t *testing.T) {
	monitor, _ := newTestMonitor(t)

	monitor.Start(1, time.Hour)

	assert.True(t, monitor.Stop(1))
	assert.Empty(t, monitor.Running())

	// Parar una región no monitoreada no hace nada
	assert.False(t, monitor.Stop(1))
}

func TestMonitor_StopAll(t *testing.T) {
	monitor, _ := newTestMonitor(t)

	monitor.Start(1, time.Hour)
	monitor.Start(2, time.Hour)
	require.Len(t, monitor.Running(), 2)

	monitor.StopAll()

	assert.Empty(t, monitor.Running())
}
