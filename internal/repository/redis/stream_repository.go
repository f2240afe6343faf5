package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
	"github.com/PepeluiMoreno/sipi-etl/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type streamRepository struct {
	client *redis.Client
	stream string
	logger *zap.Logger
}

// NewStreamRepository publica alertas en un Redis Stream para los
// consumidores externos (bots de notificación, dashboards)
func NewStreamRepository(client *redis.Client, stream string, logger *zap.Logger) repository.NotifierRepository {
	return &streamRepository{
		client: client,
		stream: stream,
		logger: logger,
	}
}

// PublishAlert serializa la alerta y la publica con un event_id propio
// para que los consumidores puedan deduplicar
func (r *streamRepository) PublishAlert(ctx context.Context, alert *domain.RegionAlert) error {
	jsonData, err := json.Marshal(alert)
	if err != nil {
		r.logger.Error("Failed to marshal alert",
			zap.Int64("alert_id", alert.ID),
			zap.Error(err))
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	result, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]interface{}{
			"event_id": uuid.New().String(),
			"data":     string(jsonData),
		},
	}).Result()

	if err != nil {
		r.logger.Error("Failed to publish alert to stream",
			zap.String("stream", r.stream),
			zap.Int64("alert_id", alert.ID),
			zap.Error(err))
		return fmt.Errorf("failed to publish to stream: %w", err)
	}

	r.logger.Debug("Alert published to stream",
		zap.String("stream", r.stream),
		zap.String("message_id", result),
		zap.Int64("alert_id", alert.ID))
	return nil
}
