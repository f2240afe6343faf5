package worker

import (
	"context"

	"github.com/PepeluiMoreno/sipi-etl/internal/config"
	"github.com/PepeluiMoreno/sipi-etl/internal/domain/repository"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// AlertNotifierWorker publica periódicamente las alertas pendientes en
// el stream de notificación y las marca como notificadas
type AlertNotifierWorker struct {
	*BaseWorker
	alertRepo  repository.AlertRepository
	notifier   repository.NotifierRepository
	cronSpec   string
	batchLimit int
	logger     *zap.Logger
}

func NewAlertNotifierWorker(
	alertRepo repository.AlertRepository,
	notifier repository.NotifierRepository,
	cfg config.NotifierConfig,
	logger *zap.Logger,
) *AlertNotifierWorker {
	return &AlertNotifierWorker{
		BaseWorker: NewBaseWorker("alert-notifier", logger),
		alertRepo:  alertRepo,
		notifier:   notifier,
		cronSpec:   cfg.CronSpec,
		batchLimit: cfg.BatchLimit,
		logger:     logger,
	}
}

func (w *AlertNotifierWorker) Start(ctx context.Context) error {
	scheduler := cron.New()

	_, err := scheduler.AddFunc(w.cronSpec, func() {
		if err := w.Flush(ctx); err != nil {
			w.logger.Error("Alert flush failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	scheduler.Start()
	w.logger.Info("Alert notifier scheduled", zap.String("cron", w.cronSpec))

	select {
	case <-ctx.Done():
	case <-w.StopChan():
	}

	// Deja terminar el flush en curso antes de salir
	<-scheduler.Stop().Done()
	return nil
}

// Flush publica un lote de alertas no notificadas. Solo marca como
// notificadas las que se publicaron bien; el resto reintenta en el
// siguiente tick.
func (w *AlertNotifierWorker) Flush(ctx context.Context) error {
	alerts, err := w.alertRepo.ListUnnotified(ctx, w.batchLimit)
	if err != nil {
		return err
	}
	if len(alerts) == 0 {
		return nil
	}

	published := make([]int64, 0, len(alerts))
	for _, alert := range alerts {
		if err := w.notifier.PublishAlert(ctx, alert); err != nil {
			w.logger.Warn("Failed to publish alert, will retry",
				zap.Int64("alert_id", alert.ID),
				zap.Error(err))
			continue
		}
		published = append(published, alert.ID)
	}

	if len(published) == 0 {
		return nil
	}

	if err := w.alertRepo.MarkNotified(ctx, published); err != nil {
		return err
	}

	w.logger.Info("Alerts flushed",
		zap.Int("published", len(published)),
		zap.Int("pending", len(alerts)-len(published)))
	return nil
}
