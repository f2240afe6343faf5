package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
	"github.com/PepeluiMoreno/sipi-etl/internal/domain/repository"
	"go.uber.org/zap"
)

// cachedOSMRepository decora un OSMRepository con cache Redis. Overpass
// aplica rate limiting agresivo; el scan consulta los mismos puntos en
// cada pasada, así que la tasa de acierto es alta.
type cachedOSMRepository struct {
	inner  repository.OSMRepository
	cache  repository.CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedOSMRepository(
	inner repository.OSMRepository,
	cacheRepo repository.CacheRepository,
	ttl time.Duration,
	logger *zap.Logger,
) repository.OSMRepository {
	return &cachedOSMRepository{
		inner:  inner,
		cache:  cacheRepo,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *cachedOSMRepository) FindNearby(ctx context.Context, lat, lon, radiusM float64) []domain.OSMPlace {
	// 5 decimales ≈ 1 m de resolución, suficiente para agrupar consultas
	// del mismo inmueble
	key := fmt.Sprintf("osm:nearby:%.5f:%.5f:%.0f", lat, lon, radiusM)

	if data, err := r.cache.Get(ctx, key); err == nil && data != nil {
		var places []domain.OSMPlace
		if jerr := json.Unmarshal(data, &places); jerr == nil {
			return places
		}
		r.logger.Warn("Malformed cached OSM entry, refetching", zap.String("key", key))
	}

	places := r.inner.FindNearby(ctx, lat, lon, radiusM)
	if places == nil {
		// Un fallo del upstream no se cachea; el siguiente scan reintenta
		return nil
	}

	if data, err := json.Marshal(places); err == nil {
		if serr := r.cache.Set(ctx, key, data, r.ttl); serr != nil {
			r.logger.Warn("Failed to cache OSM places", zap.String("key", key), zap.Error(serr))
		}
	}

	return places
}
