package usecase

import (
	"context"
	"strings"

	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
	"github.com/PepeluiMoreno/sipi-etl/internal/domain/repository"
	"github.com/PepeluiMoreno/sipi-etl/internal/pkg/errors"
	"github.com/PepeluiMoreno/sipi-etl/internal/pkg/utils"
	"github.com/PepeluiMoreno/sipi-etl/internal/usecase/dto"
	"go.uber.org/zap"
)

// Radio por defecto al crear regiones alrededor de un punto
const defaultRegionRadiusM = 500.0

// RegionUseCase construye y gestiona regiones de monitoreo
type RegionUseCase struct {
	regionRepo  repository.RegionRepository
	alertRepo   repository.AlertRepository
	geocodeRepo repository.GeocodeRepository
	logger      *zap.Logger
}

func NewRegionUseCase(
	regionRepo repository.RegionRepository,
	alertRepo repository.AlertRepository,
	geocodeRepo repository.GeocodeRepository,
	logger *zap.Logger,
) *RegionUseCase {
	return &RegionUseCase{
		regionRepo:  regionRepo,
		alertRepo:   alertRepo,
		geocodeRepo: geocodeRepo,
		logger:      logger,
	}
}

// Create despacha por tipo de región y persiste la región construida
func (uc *RegionUseCase) Create(ctx context.Context, req *dto.CreateRegionRequest) (*domain.GeoRegion, error) {
	var (
		region *domain.GeoRegion
		err    error
	)

	switch req.Type {
	case "address":
		region, err = uc.buildFromAddress(ctx, req)
	case "coordinates":
		region, err = uc.buildFromCoordinates(ctx, req)
	case "church":
		region, err = uc.buildFromChurch(ctx, req)
	case "polygon":
		region, err = uc.buildFromPolygon(req)
	case "bbox":
		region, err = uc.buildFromBBox(req)
	case "admin":
		region, err = uc.buildFromAdmin(req)
	default:
		return nil, errors.ErrInvalidRequest
	}
	if err != nil {
		return nil, err
	}

	region.Name = req.Name
	region.Description = req.Description
	region.IsActive = true

	// El repositorio rellena ID y created_at sobre la misma región
	if _, err := uc.regionRepo.Create(ctx, region); err != nil {
		uc.logger.Error("Failed to create region",
			zap.String("name", req.Name),
			zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	uc.logger.Info("Region created",
		zap.Int64("region_id", region.ID),
		zap.String("name", region.Name),
		zap.String("shape", string(region.Shape.Kind())))

	return region, nil
}

func (uc *RegionUseCase) buildFromAddress(ctx context.Context, req *dto.CreateRegionRequest) (*domain.GeoRegion, error) {
	if strings.TrimSpace(req.Address) == "" {
		return nil, errors.ErrInvalidRequest
	}

	radius, err := resolveRadius(req.RadiusM)
	if err != nil {
		return nil, err
	}

	results, err := uc.geocodeRepo.Geocode(ctx, req.Address, 1)
	if err != nil || len(results) == 0 {
		uc.logger.Warn("Geocoding returned no results",
			zap.String("address", req.Address),
			zap.Error(err))
		return nil, errors.ErrGeocodingFailed
	}

	circle, err := domain.NewCircle(results[0].Lat, results[0].Lon, radius)
	if err != nil {
		return nil, err
	}

	return &domain.GeoRegion{Shape: circle, Address: results[0].DisplayName}, nil
}

func (uc *RegionUseCase) buildFromCoordinates(ctx context.Context, req *dto.CreateRegionRequest) (*domain.GeoRegion, error) {
	if req.Lat == nil || req.Lon == nil {
		return nil, errors.ErrInvalidRequest
	}
	if !utils.ValidateCoordinates(*req.Lat, *req.Lon) {
		return nil, errors.ErrInvalidCoordinates
	}

	radius, err := resolveRadius(req.RadiusM)
	if err != nil {
		return nil, err
	}

	circle, err := domain.NewCircle(*req.Lat, *req.Lon, radius)
	if err != nil {
		return nil, err
	}

	region := &domain.GeoRegion{Shape: circle}

	// Geocodificación inversa best-effort para la dirección legible
	if result, rerr := uc.geocodeRepo.Reverse(ctx, *req.Lat, *req.Lon); rerr == nil && result != nil {
		region.Address = result.DisplayName
	}

	return region, nil
}

// buildFromChurch geocodifica el nombre de una iglesia y prefiere los
// resultados marcados como lugar de culto
func (uc *RegionUseCase) buildFromChurch(ctx context.Context, req *dto.CreateRegionRequest) (*domain.GeoRegion, error) {
	if strings.TrimSpace(req.Address) == "" {
		return nil, errors.ErrInvalidRequest
	}

	radius, err := resolveRadius(req.RadiusM)
	if err != nil {
		return nil, err
	}

	results, err := uc.geocodeRepo.Geocode(ctx, req.Address, 5)
	if err != nil || len(results) == 0 {
		uc.logger.Warn("Geocoding returned no results",
			zap.String("query", req.Address),
			zap.Error(err))
		return nil, errors.ErrGeocodingFailed
	}

	chosen := results[0]
	for _, r := range results {
		if r.IsPlaceOfWorship() {
			chosen = r
			break
		}
	}

	circle, err := domain.NewCircle(chosen.Lat, chosen.Lon, radius)
	if err != nil {
		return nil, err
	}

	return &domain.GeoRegion{Shape: circle, Address: chosen.DisplayName}, nil
}

func (uc *RegionUseCase) buildFromPolygon(req *dto.CreateRegionRequest) (*domain.GeoRegion, error) {
	vertices := toPoints(req.Coordinates)
	for _, v := range vertices {
		if !utils.ValidateCoordinates(v.Lat, v.Lon) {
			return nil, errors.ErrInvalidCoordinates
		}
	}

	polygon, err := domain.NewPolygon(vertices)
	if err != nil {
		return nil, err
	}

	return &domain.GeoRegion{Shape: polygon}, nil
}

func (uc *RegionUseCase) buildFromBBox(req *dto.CreateRegionRequest) (*domain.GeoRegion, error) {
	rect, err := domain.NewRectFromCorners(toPoints(req.Coordinates))
	if err != nil {
		return nil, err
	}

	return &domain.GeoRegion{Shape: rect}, nil
}

func (uc *RegionUseCase) buildFromAdmin(req *dto.CreateRegionRequest) (*domain.GeoRegion, error) {
	admin, err := domain.NewAdministrative(req.OSMRelationID, req.AdminLevel)
	if err != nil {
		return nil, err
	}

	return &domain.GeoRegion{Shape: admin}, nil
}

func (uc *RegionUseCase) Get(ctx context.Context, id int64) (*domain.GeoRegion, error) {
	region, err := uc.regionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.ErrDatabaseError
	}
	if region == nil {
		return nil, errors.ErrRegionNotFound
	}
	return region, nil
}

func (uc *RegionUseCase) List(ctx context.Context, activeOnly bool) ([]*domain.GeoRegion, error) {
	regions, err := uc.regionRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, errors.ErrDatabaseError
	}
	return regions, nil
}

// Deactivate detiene el seguimiento de la región sin borrar su historial
func (uc *RegionUseCase) Deactivate(ctx context.Context, id int64) error {
	if _, err := uc.Get(ctx, id); err != nil {
		return err
	}
	if err := uc.regionRepo.Deactivate(ctx, id); err != nil {
		return errors.ErrDatabaseError
	}
	return nil
}

// Delete elimina la región y sus alertas en cascada
func (uc *RegionUseCase) Delete(ctx context.Context, id int64) error {
	if _, err := uc.Get(ctx, id); err != nil {
		return err
	}
	if err := uc.regionRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError
	}
	return nil
}

func (uc *RegionUseCase) GetAlerts(ctx context.Context, regionID int64, unnotifiedOnly bool, limit int) ([]*domain.RegionAlert, error) {
	if _, err := uc.Get(ctx, regionID); err != nil {
		return nil, err
	}

	alerts, err := uc.alertRepo.GetByRegion(ctx, regionID, unnotifiedOnly, limit)
	if err != nil {
		return nil, errors.ErrDatabaseError
	}
	return alerts, nil
}

func (uc *RegionUseCase) MarkAlertsNotified(ctx context.Context, alertIDs []int64) error {
	if len(alertIDs) == 0 {
		return errors.ErrInvalidRequest
	}
	if err := uc.alertRepo.MarkNotified(ctx, alertIDs); err != nil {
		return errors.ErrDatabaseError
	}
	return nil
}

func resolveRadius(radiusM float64) (float64, error) {
	if radiusM == 0 {
		return defaultRegionRadiusM, nil
	}
	if !utils.ValidateRadius(radiusM) {
		return 0, errors.ErrInvalidRadius
	}
	return radiusM, nil
}

func toPoints(coords []dto.CoordinateDTO) []domain.Point {
	points := make([]domain.Point, 0, len(coords))
	for _, c := range coords {
		points = append(points, domain.Point{Lat: c.Lat, Lon: c.Lon})
	}
	return points
}
