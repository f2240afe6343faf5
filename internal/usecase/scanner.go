package usecase

import (
	"context"
	"time"

	"github.com/PepeluiMoreno/sipi-etl/internal/config"
	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
	"github.com/PepeluiMoreno/sipi-etl/internal/domain/repository"
	"github.com/PepeluiMoreno/sipi-etl/internal/pkg/errors"
	"github.com/PepeluiMoreno/sipi-etl/internal/pkg/utils"
	"go.uber.org/zap"
)

// RegionScanUseCase escanea una región buscando inmuebles religiosos.
//
// Un scan: cargar región → bounding box → candidatos en bbox →
// contención exacta → puntuar los no puntuados → match OSM →
// persistir alertas (idempotente) → actualizar last_checked.
//
// Seguro para invocación concurrente sobre region ids distintos; no
// mantiene estado mutable compartido.
type RegionScanUseCase struct {
	regionRepo    repository.RegionRepository
	listingRepo   repository.ListingRepository
	detectionRepo repository.DetectionRepository
	alertRepo     repository.AlertRepository
	boundaryRepo  repository.BoundaryRepository
	osmRepo       repository.OSMRepository
	scorer        *Scorer
	matcher       *MatchResolver
	cfg           config.ScoringConfig
	alertRadiusM  float64
	logger        *zap.Logger
}

func NewRegionScanUseCase(
	regionRepo repository.RegionRepository,
	listingRepo repository.ListingRepository,
	detectionRepo repository.DetectionRepository,
	alertRepo repository.AlertRepository,
	boundaryRepo repository.BoundaryRepository,
	osmRepo repository.OSMRepository,
	scorer *Scorer,
	matcher *MatchResolver,
	cfg config.ScoringConfig,
	alertRadiusM float64,
	logger *zap.Logger,
) *RegionScanUseCase {
	return &RegionScanUseCase{
		regionRepo:    regionRepo,
		listingRepo:   listingRepo,
		detectionRepo: detectionRepo,
		alertRepo:     alertRepo,
		boundaryRepo:  boundaryRepo,
		osmRepo:       osmRepo,
		scorer:        scorer,
		matcher:       matcher,
		cfg:           cfg,
		alertRadiusM:  alertRadiusM,
		logger:        logger,
	}
}

// Scan escanea la región y devuelve las alertas generadas (las que
// superaron el umbral de detección, ya persistidas sin duplicados)
func (uc *RegionScanUseCase) Scan(ctx context.Context, regionID int64) ([]*domain.RegionAlert, error) {
	region, err := uc.regionRepo.GetByID(ctx, regionID)
	if err != nil {
		return nil, err
	}
	if region == nil {
		return nil, errors.ErrRegionNotFound
	}

	bbox, err := uc.regionBoundingBox(ctx, region)
	if err != nil {
		return nil, err
	}

	candidates, err := uc.listingRepo.FindActiveInBBox(ctx, *bbox, uc.cfg.DetectionThreshold)
	if err != nil {
		uc.logger.Error("Failed to query candidate listings",
			zap.Int64("region_id", regionID),
			zap.Error(err))
		return nil, errors.ErrScanFailed
	}

	center := region.Center()
	var alerts []*domain.RegionAlert

	for _, listing := range candidates {
		if !listing.HasCoordinates() {
			continue
		}

		// El bbox es solo pre-filtro: re-testear contención exacta
		inside, err := uc.regionContains(ctx, region, *listing.Lat, *listing.Lon)
		if err != nil {
			return nil, err
		}
		if !inside {
			continue
		}

		result, status, err := uc.resolveScore(ctx, listing)
		if err != nil {
			return nil, err
		}

		if result.Score < uc.cfg.DetectionThreshold {
			continue
		}

		alert := &domain.RegionAlert{
			RegionID:   regionID,
			Portal:     listing.Portal,
			ListingID:  listing.PortalID,
			Title:      listing.Title,
			Price:      listing.Price,
			Score:      result.Score,
			Status:     status,
			Lat:        *listing.Lat,
			Lon:        *listing.Lon,
			DetectedAt: time.Now().UTC(),
		}

		if center != nil {
			distance := utils.HaversineDistance(center.Lat, center.Lon, *listing.Lat, *listing.Lon)
			alert.DistanceToCenter = &distance
		}

		// La alerta siempre lleva el lugar de culto más cercano ahora,
		// independiente del bonus de proximidad ya plegado en el score
		uc.attachClosestPlace(ctx, alert, listing)

		alerts = append(alerts, alert)
	}

	if len(alerts) > 0 {
		inserted, err := uc.alertRepo.BulkInsert(ctx, alerts)
		if err != nil {
			uc.logger.Error("Failed to persist alerts",
				zap.Int64("region_id", regionID),
				zap.Error(err))
			return nil, errors.ErrScanFailed
		}
		uc.logger.Info("Region scan produced alerts",
			zap.Int64("region_id", regionID),
			zap.Int("alerts", len(alerts)),
			zap.Int("inserted", inserted))
	}

	if err := uc.regionRepo.UpdateLastChecked(ctx, regionID); err != nil {
		uc.logger.Error("Failed to update region last_checked",
			zap.Int64("region_id", regionID),
			zap.Error(err))
		return nil, errors.ErrScanFailed
	}

	return alerts, nil
}

// resolveScore reusa el score persistido o puntúa el inmueble y guarda
// la detección (upsert por inmueble_id)
func (uc *RegionScanUseCase) resolveScore(ctx context.Context, listing *domain.Listing) (domain.ScoreResult, string, error) {
	if listing.Score != nil {
		status := domain.StatusNotDetected
		if listing.Status != nil {
			status = *listing.Status
		}
		return domain.ScoreResult{Score: *listing.Score, Evidence: listing.Evidence}, status, nil
	}

	result := uc.scorer.Score(ctx, listing)

	if listing.HasCoordinates() {
		matchCandidates := uc.osmRepo.FindNearby(ctx, *listing.Lat, *listing.Lon, uc.cfg.ProximityRadiusM)
		if match := uc.matcher.Resolve(listing, matchCandidates); match != nil {
			uc.matcher.Apply(match, &result)
			listing.OSMMatchID = &match.Place.OSMID
			matchType := match.Place.OSMType
			listing.OSMMatchType = &matchType
		}
	}

	status := domain.StatusForScore(result.Score, uc.cfg.DetectionThreshold)

	if err := uc.detectionRepo.Upsert(ctx, listing, result, status); err != nil {
		uc.logger.Error("Failed to upsert detection",
			zap.String("portal", listing.Portal),
			zap.String("listing_id", listing.PortalID),
			zap.Error(err))
		return domain.ScoreResult{}, "", errors.ErrScanFailed
	}

	return result, status, nil
}

func (uc *RegionScanUseCase) attachClosestPlace(ctx context.Context, alert *domain.RegionAlert, listing *domain.Listing) {
	places := uc.osmRepo.FindNearby(ctx, *listing.Lat, *listing.Lon, uc.alertRadiusM)
	if len(places) == 0 {
		return
	}

	closest := places[0]
	alert.OSMMatchID = &closest.OSMID
	if closest.Name != "" {
		name := closest.Name
		alert.OSMMatchName = &name
	}
	distance := closest.DistanceM
	alert.OSMMatchDistance = &distance
}

// regionBoundingBox resuelve el bbox, delegando las regiones
// administrativas en el repositorio de límites
func (uc *RegionScanUseCase) regionBoundingBox(ctx context.Context, region *domain.GeoRegion) (*domain.BoundingBox, error) {
	bbox, err := region.Shape.BoundingBox()
	if err == nil {
		return bbox, nil
	}
	if err != domain.ErrExternalBoundary {
		return nil, errors.ErrInvalidGeometry
	}

	admin, ok := region.Shape.(*domain.Administrative)
	if !ok || uc.boundaryRepo == nil {
		return nil, errors.ErrInvalidGeometry
	}

	bbox, berr := uc.boundaryRepo.GetBoundingBox(ctx, admin.OSMRelationID)
	if berr != nil {
		return nil, errors.ErrInvalidGeometry
	}
	return bbox, nil
}

func (uc *RegionScanUseCase) regionContains(ctx context.Context, region *domain.GeoRegion, lat, lon float64) (bool, error) {
	inside, err := region.Shape.Contains(lat, lon)
	if err == nil {
		return inside, nil
	}
	if err != domain.ErrExternalBoundary {
		return false, errors.ErrInvalidGeometry
	}

	admin, ok := region.Shape.(*domain.Administrative)
	if !ok || uc.boundaryRepo == nil {
		return false, errors.ErrInvalidGeometry
	}

	inside, berr := uc.boundaryRepo.ContainsPoint(ctx, admin.OSMRelationID, lat, lon)
	if berr != nil {
		uc.logger.Error("Boundary containment lookup failed",
			zap.Int64("osm_relation_id", admin.OSMRelationID),
			zap.Error(berr))
		return false, errors.ErrScanFailed
	}
	return inside, nil
}
