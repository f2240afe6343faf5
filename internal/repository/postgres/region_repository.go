package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
	"github.com/PepeluiMoreno/sipi-etl/internal/domain/repository"
	"github.com/PepeluiMoreno/sipi-etl/internal/pkg/errors"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type regionRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewRegionRepository(db *DB) repository.RegionRepository {
	return &regionRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// regionRow es la fila plana de geo_regions; la forma se rehidrata
// según shape_type
type regionRow struct {
	ID            int64           `db:"id"`
	Name          string          `db:"name"`
	ShapeType     string          `db:"shape_type"`
	CenterLat     sql.NullFloat64 `db:"center_lat"`
	CenterLon     sql.NullFloat64 `db:"center_lon"`
	RadiusM       sql.NullFloat64 `db:"radius_m"`
	Coordinates   []byte          `db:"coordinates"`
	OSMRelationID sql.NullInt64   `db:"osm_relation_id"`
	AdminLevel    sql.NullInt32   `db:"admin_level"`
	Address       sql.NullString  `db:"address"`
	Description   sql.NullString  `db:"description"`
	IsActive      bool            `db:"is_active"`
	CreatedAt     sql.NullTime    `db:"created_at"`
	LastChecked   sql.NullTime    `db:"last_checked"`
}

const regionColumns = `
	id, name, shape_type, center_lat, center_lon, radius_m, coordinates,
	osm_relation_id, admin_level, address, description, is_active,
	created_at, last_checked`

func (r *regionRepository) Create(ctx context.Context, region *domain.GeoRegion) (*domain.GeoRegion, error) {
	row, err := flattenRegion(region)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO geo_regions (
			name, shape_type, center_lat, center_lon, radius_m, coordinates,
			osm_relation_id, admin_level, address, description, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`

	err = r.db.QueryRowContext(ctx, query,
		region.Name,
		row.ShapeType,
		row.CenterLat,
		row.CenterLon,
		row.RadiusM,
		row.Coordinates,
		row.OSMRelationID,
		row.AdminLevel,
		nullString(region.Address),
		nullString(region.Description),
		region.IsActive,
	).Scan(&region.ID, &region.CreatedAt)

	if err != nil {
		r.logger.Error("Failed to insert region",
			zap.String("name", region.Name),
			zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return region, nil
}

// GetByID devuelve (nil, nil) si la región no existe
func (r *regionRepository) GetByID(ctx context.Context, id int64) (*domain.GeoRegion, error) {
	query := `SELECT` + regionColumns + `
		FROM geo_regions
		WHERE id = $1
	`

	var row regionRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get region", zap.Int64("id", id), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return rehydrateRegion(&row)
}

func (r *regionRepository) List(ctx context.Context, activeOnly bool) ([]*domain.GeoRegion, error) {
	query := `SELECT` + regionColumns + `
		FROM geo_regions
	`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY id`

	var rows []regionRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		r.logger.Error("Failed to list regions", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	regions := make([]*domain.GeoRegion, 0, len(rows))
	for i := range rows {
		region, err := rehydrateRegion(&rows[i])
		if err != nil {
			r.logger.Warn("Skipping region with malformed shape",
				zap.Int64("id", rows[i].ID),
				zap.Error(err))
			continue
		}
		regions = append(regions, region)
	}

	return regions, nil
}

func (r *regionRepository) UpdateLastChecked(ctx context.Context, id int64) error {
	query := `UPDATE geo_regions SET last_checked = NOW() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		r.logger.Error("Failed to update last_checked", zap.Int64("id", id), zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

func (r *regionRepository) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE geo_regions SET is_active = FALSE WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		r.logger.Error("Failed to deactivate region", zap.Int64("id", id), zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

func (r *regionRepository) Delete(ctx context.Context, id int64) error {
	// region_alerts cae en cascada por FK
	query := `DELETE FROM geo_regions WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		r.logger.Error("Failed to delete region", zap.Int64("id", id), zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

// flattenRegion proyecta la forma a las columnas planas de geo_regions
func flattenRegion(region *domain.GeoRegion) (*regionRow, error) {
	row := &regionRow{ShapeType: string(region.Shape.Kind())}

	switch shape := region.Shape.(type) {
	case *domain.Circle:
		row.CenterLat = sql.NullFloat64{Float64: shape.Center.Lat, Valid: true}
		row.CenterLon = sql.NullFloat64{Float64: shape.Center.Lon, Valid: true}
		row.RadiusM = sql.NullFloat64{Float64: shape.RadiusM, Valid: true}
	case *domain.Polygon:
		coords, err := json.Marshal(shape.Vertices)
		if err != nil {
			return nil, errors.ErrInvalidGeometry
		}
		row.Coordinates = coords
	case *domain.Rect:
		coords, err := json.Marshal([]domain.Point{shape.SW, shape.NE})
		if err != nil {
			return nil, errors.ErrInvalidGeometry
		}
		row.Coordinates = coords
	case *domain.Administrative:
		row.OSMRelationID = sql.NullInt64{Int64: shape.OSMRelationID, Valid: true}
		row.AdminLevel = sql.NullInt32{Int32: int32(shape.AdminLevel), Valid: true}
	default:
		return nil, errors.ErrInvalidGeometry
	}

	return row, nil
}

// rehydrateRegion reconstruye la forma de dominio desde la fila plana
func rehydrateRegion(row *regionRow) (*domain.GeoRegion, error) {
	var (
		shape domain.RegionShape
		err   error
	)

	switch domain.ShapeKind(row.ShapeType) {
	case domain.ShapeCircle:
		shape, err = domain.NewCircle(row.CenterLat.Float64, row.CenterLon.Float64, row.RadiusM.Float64)
	case domain.ShapePolygon:
		var vertices []domain.Point
		if jerr := json.Unmarshal(row.Coordinates, &vertices); jerr != nil {
			return nil, errors.ErrInvalidGeometry
		}
		shape, err = domain.NewPolygon(vertices)
	case domain.ShapeBoundingBox:
		var corners []domain.Point
		if jerr := json.Unmarshal(row.Coordinates, &corners); jerr != nil {
			return nil, errors.ErrInvalidGeometry
		}
		shape, err = domain.NewRectFromCorners(corners)
	case domain.ShapeAdministrative:
		shape, err = domain.NewAdministrative(row.OSMRelationID.Int64, int(row.AdminLevel.Int32))
	default:
		return nil, errors.ErrInvalidGeometry
	}
	if err != nil {
		return nil, err
	}

	region := &domain.GeoRegion{
		ID:          row.ID,
		Name:        row.Name,
		Shape:       shape,
		Address:     row.Address.String,
		Description: row.Description.String,
		IsActive:    row.IsActive,
		CreatedAt:   row.CreatedAt.Time,
	}
	if row.LastChecked.Valid {
		checked := row.LastChecked.Time
		region.LastChecked = &checked
	}

	return region, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
