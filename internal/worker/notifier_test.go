package worker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/PepeluiMoreno/sipi-etl/internal/config"
	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
	"github.com/PepeluiMoreno/sipi-etl/internal/worker"
)

type recordingAlertRepo struct {
	stubAlertRepo
	pending  []*domain.RegionAlert
	notified []int64
}

func (r *recordingAlertRepo) ListUnnotified(ctx context.Context, limit int) ([]*domain.RegionAlert, error) {
	if len(r.pending) > limit {
		return r.pending[:limit], nil
	}
	return r.pending, nil
}

func (r *recordingAlertRepo) MarkNotified(ctx context.Context, alertIDs []int64) error {
	r.notified = append(r.notified, alertIDs...)
	return nil
}

type recordingNotifier struct {
	published []int64
	failOn    int64
}

func (n *recordingNotifier) PublishAlert(ctx context.Context, alert *domain.RegionAlert) error {
	if alert.ID == n.failOn {
		return errors.New("stream unavailable")
	}
	n.published = append(n.published, alert.ID)
	return nil
}

func notifierConfig() config.NotifierConfig {
	return config.NotifierConfig{
		Enabled:    true,
		CronSpec:   "@every 15m",
		Stream:     "stream:region:alerts",
		BatchLimit: 100,
	}
}

func TestAlertNotifier_FlushPublishesAndMarks(t *testing.T) {
	repo := &recordingAlertRepo{
		pending: []*domain.RegionAlert{{ID: 1}, {ID: 2}},
	}
	notifier := &recordingNotifier{}

	w := worker.NewAlertNotifierWorker(repo, notifier, notifierConfig(), zap.NewNop())

	require.NoError(t, w.Flush(context.Background()))
	assert.Equal(t, []int64{1, 2}, notifier.published)
	assert.Equal(t, []int64{1, 2}, repo.notified)
}

func TestAlertNotifier_FailedPublishIsRetriedLater(t *testing.T) {
	repo := &recordingAlertRepo{
		pending: []*domain.RegionAlert{{ID: 1}, {ID: 2}, {ID: 3}},
	}
	notifier := &recordingNotifier{failOn: 2}

	w := worker.NewAlertNotifierWorker(repo, notifier, notifierConfig(), zap.NewNop())

	require.NoError(t, w.Flush(context.Background()))
	// Solo se marcan las publicadas; la fallida queda pendiente
	assert.Equal(t, []int64{1, 3}, repo.notified)
}

func TestAlertNotifier_NothingPendingIsANoop(t *testing.T) {
	repo := &recordingAlertRepo{}
	notifier := &recordingNotifier{}

	w := worker.NewAlertNotifierWorker(repo, notifier, notifierConfig(), zap.NewNop())

	require.NoError(t, w.Flush(context.Background()))
	assert.Empty(t, notifier.published)
	assert.Empty(t, repo.notified)
}
