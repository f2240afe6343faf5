package dto

import (
	"time"

	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
)

// CreateRegionRequest es la petición de alta de región. El campo Type
// decide qué bloque de campos aplica.
type CreateRegionRequest struct {
	Type string `json:"type" validate:"required,oneof=address coordinates church polygon bbox admin"`
	Name string `json:"name" validate:"required,min=2,max=200"`

	// address | church
	Address string `json:"address,omitempty"`

	// coordinates
	Lat *float64 `json:"lat,omitempty" validate:"omitempty,min=-90,max=90"`
	Lon *float64 `json:"lon,omitempty" validate:"omitempty,min=-180,max=180"`

	// address | coordinates | church
	RadiusM float64 `json:"radius_m,omitempty"`

	// polygon (anillo de vértices) | bbox (exactamente SW y NE)
	Coordinates []CoordinateDTO `json:"coordinates,omitempty" validate:"omitempty,dive"`

	// admin
	OSMRelationID int64 `json:"osm_relation_id,omitempty"`
	AdminLevel    int   `json:"admin_level,omitempty"`

	Description string `json:"description,omitempty" validate:"omitempty,max=500"`

	// AutoStart lanza un scan inicial y arranca el monitoreo periódico
	AutoStart     bool `json:"auto_start,omitempty"`
	IntervalHours int  `json:"interval_hours,omitempty" validate:"omitempty,min=1,max=720"`
}

type CoordinateDTO struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

// RegionResponse aplana la forma de la región para la API
type RegionResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ShapeType   string `json:"shape_type"`
	Address     string `json:"address,omitempty"`
	Description string `json:"description,omitempty"`

	CenterLat *float64        `json:"center_lat,omitempty"`
	CenterLon *float64        `json:"center_lon,omitempty"`
	RadiusM   *float64        `json:"radius_m,omitempty"`
	Vertices  []CoordinateDTO `json:"vertices,omitempty"`

	OSMRelationID *int64 `json:"osm_relation_id,omitempty"`
	AdminLevel    *int   `json:"admin_level,omitempty"`

	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastChecked *time.Time `json:"last_checked,omitempty"`
}

// NewRegionResponse proyecta una región de dominio a su respuesta API
func NewRegionResponse(region *domain.GeoRegion) *RegionResponse {
	resp := &RegionResponse{
		ID:          region.ID,
		Name:        region.Name,
		ShapeType:   string(region.Shape.Kind()),
		Address:     region.Address,
		Description: region.Description,
		IsActive:    region.IsActive,
		CreatedAt:   region.CreatedAt,
		LastChecked: region.LastChecked,
	}

	switch shape := region.Shape.(type) {
	case *domain.Circle:
		lat, lon, radius := shape.Center.Lat, shape.Center.Lon, shape.RadiusM
		resp.CenterLat = &lat
		resp.CenterLon = &lon
		resp.RadiusM = &radius
	case *domain.Polygon:
		for _, v := range shape.Vertices {
			resp.Vertices = append(resp.Vertices, CoordinateDTO{Lat: v.Lat, Lon: v.Lon})
		}
	case *domain.Rect:
		resp.Vertices = []CoordinateDTO{
			{Lat: shape.SW.Lat, Lon: shape.SW.Lon},
			{Lat: shape.NE.Lat, Lon: shape.NE.Lon},
		}
	case *domain.Administrative:
		relID, level := shape.OSMRelationID, shape.AdminLevel
		resp.OSMRelationID = &relID
		resp.AdminLevel = &level
	}

	return resp
}

// ScanResponse resume el resultado de un scan manual
type ScanResponse struct {
	RegionID int64                 `json:"region_id"`
	Alerts   []*domain.RegionAlert `json:"alerts"`
	Count    int                   `json:"count"`
}

// StartMonitorRequest arranca el monitoreo periódico de una región
type StartMonitorRequest struct {
	IntervalHours int `json:"interval_hours,omitempty" validate:"omitempty,min=1,max=720"`
}

// MarkNotifiedRequest marca alertas como notificadas
type MarkNotifiedRequest struct {
	AlertIDs []int64 `json:"alert_ids" validate:"required,min=1,dive,min=1"`
}
