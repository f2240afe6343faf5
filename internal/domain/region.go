package domain

import (
	stderrors "errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/PepeluiMoreno/sipi-etl/internal/pkg/errors"
	"github.com/PepeluiMoreno/sipi-etl/internal/pkg/utils"
)

type ShapeKind string

const (
	ShapeCircle         ShapeKind = "circle"
	ShapePolygon        ShapeKind = "polygon"
	ShapeBoundingBox    ShapeKind = "bbox"
	ShapeAdministrative ShapeKind = "admin"
)

// ErrExternalBoundary indica que la forma administrativa necesita el
// repositorio de límites para resolver contención y bounding box.
var ErrExternalBoundary = stderrors.New("administrative shape requires external boundary lookup")

// Aproximación de metros por grado para el pre-filtro de bounding box
const metersPerDegree = 111000.0

// RegionShape es la unión etiquetada de las formas de región soportadas.
// Cada variante lleva exactamente los campos que necesita.
type RegionShape interface {
	Kind() ShapeKind

	// WKT serializa la forma a Well-Known Text. Un círculo degenera a su
	// punto central; los llamadores deben aplicar buffer aparte si
	// necesitan una geometría areal.
	WKT() (string, error)

	// Contains verifica si un punto cae dentro de la forma
	Contains(lat, lon float64) (bool, error)

	// BoundingBox devuelve el rectángulo mínimo que contiene la forma
	BoundingBox() (*BoundingBox, error)
}

// Circle es una región circular: centro + radio en metros
type Circle struct {
	Center  Point
	RadiusM float64
}

func NewCircle(lat, lon, radiusM float64) (*Circle, error) {
	if !utils.ValidateCoordinates(lat, lon) || radiusM <= 0 {
		return nil, errors.ErrInvalidGeometry
	}
	return &Circle{Center: Point{Lat: lat, Lon: lon}, RadiusM: radiusM}, nil
}

func (c *Circle) Kind() ShapeKind { return ShapeCircle }

func (c *Circle) WKT() (string, error) {
	var sb strings.Builder
	sb.WriteString("POINT(")
	writeCoord(&sb, c.Center)
	sb.WriteString(")")
	return sb.String(), nil
}

func (c *Circle) Contains(lat, lon float64) (bool, error) {
	distance := utils.HaversineDistance(c.Center.Lat, c.Center.Lon, lat, lon)
	return distance <= c.RadiusM, nil
}

func (c *Circle) BoundingBox() (*BoundingBox, error) {
	// Aproximación barata para pre-filtrado: 1 grado ≈ 111 km
	latOffset := c.RadiusM / metersPerDegree
	lonOffset := c.RadiusM / (metersPerDegree * math.Abs(math.Cos(c.Center.Lat*math.Pi/180)))

	return &BoundingBox{
		MinLat: c.Center.Lat - latOffset,
		MinLon: c.Center.Lon - lonOffset,
		MaxLat: c.Center.Lat + latOffset,
		MaxLon: c.Center.Lon + lonOffset,
	}, nil
}

// Polygon es una región delimitada por un anillo de vértices (lat, lon)
type Polygon struct {
	Vertices []Point
}

func NewPolygon(vertices []Point) (*Polygon, error) {
	if len(vertices) < 3 {
		return nil, errors.ErrInvalidGeometry
	}
	return &Polygon{Vertices: vertices}, nil
}

func (p *Polygon) Kind() ShapeKind { return ShapePolygon }

func (p *Polygon) WKT() (string, error) {
	ring := p.closedRing()

	var sb strings.Builder
	sb.WriteString("POLYGON((")
	for i, v := range ring {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeCoord(&sb, v)
	}
	sb.WriteString("))")
	return sb.String(), nil
}

func (p *Polygon) Contains(lat, lon float64) (bool, error) {
	return pointInRing(lat, lon, p.Vertices), nil
}

func (p *Polygon) BoundingBox() (*BoundingBox, error) {
	bbox := &BoundingBox{
		MinLat: p.Vertices[0].Lat,
		MinLon: p.Vertices[0].Lon,
		MaxLat: p.Vertices[0].Lat,
		MaxLon: p.Vertices[0].Lon,
	}
	for _, v := range p.Vertices[1:] {
		bbox.MinLat = math.Min(bbox.MinLat, v.Lat)
		bbox.MinLon = math.Min(bbox.MinLon, v.Lon)
		bbox.MaxLat = math.Max(bbox.MaxLat, v.Lat)
		bbox.MaxLon = math.Max(bbox.MaxLon, v.Lon)
	}
	return bbox, nil
}

// closedRing cierra el anillo si el primer y último vértice no coinciden
func (p *Polygon) closedRing() []Point {
	ring := p.Vertices
	if ring[0] != ring[len(ring)-1] {
		ring = append(append([]Point{}, ring...), ring[0])
	}
	return ring
}

// Rect es una región rectangular definida por las esquinas SW y NE
type Rect struct {
	SW Point
	NE Point
}

func NewRect(sw, ne Point) (*Rect, error) {
	if !utils.ValidateCoordinates(sw.Lat, sw.Lon) || !utils.ValidateCoordinates(ne.Lat, ne.Lon) {
		return nil, errors.ErrInvalidGeometry
	}
	return &Rect{SW: sw, NE: ne}, nil
}

// NewRectFromCorners construye el rectángulo desde la lista de esquinas
// almacenada; exige exactamente 2 puntos (SW, NE)
func NewRectFromCorners(corners []Point) (*Rect, error) {
	if len(corners) != 2 {
		return nil, errors.ErrInvalidGeometry
	}
	return NewRect(corners[0], corners[1])
}

func (r *Rect) Kind() ShapeKind { return ShapeBoundingBox }

func (r *Rect) WKT() (string, error) {
	// Anillo cerrado de 5 puntos: SW, SE, NE, NW, SW
	ring := []Point{
		r.SW,
		{Lat: r.SW.Lat, Lon: r.NE.Lon},
		r.NE,
		{Lat: r.NE.Lat, Lon: r.SW.Lon},
		r.SW,
	}

	var sb strings.Builder
	sb.WriteString("POLYGON((")
	for i, v := range ring {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeCoord(&sb, v)
	}
	sb.WriteString("))")
	return sb.String(), nil
}

func (r *Rect) Contains(lat, lon float64) (bool, error) {
	return lat >= r.SW.Lat && lat <= r.NE.Lat &&
		lon >= r.SW.Lon && lon <= r.NE.Lon, nil
}

func (r *Rect) BoundingBox() (*BoundingBox, error) {
	return &BoundingBox{
		MinLat: r.SW.Lat,
		MinLon: r.SW.Lon,
		MaxLat: r.NE.Lat,
		MaxLon: r.NE.Lon,
	}, nil
}

// Administrative referencia un límite administrativo OSM (barrio, distrito...).
// Contención y bounding box se resuelven contra el BoundaryRepository.
type Administrative struct {
	OSMRelationID int64
	AdminLevel    int
}

func NewAdministrative(relationID int64, adminLevel int) (*Administrative, error) {
	if relationID <= 0 {
		return nil, errors.ErrInvalidGeometry
	}
	return &Administrative{OSMRelationID: relationID, AdminLevel: adminLevel}, nil
}

func (a *Administrative) Kind() ShapeKind { return ShapeAdministrative }

func (a *Administrative) WKT() (string, error) {
	return "", ErrExternalBoundary
}

func (a *Administrative) Contains(lat, lon float64) (bool, error) {
	return false, ErrExternalBoundary
}

func (a *Administrative) BoundingBox() (*BoundingBox, error) {
	return nil, ErrExternalBoundary
}

// GeoRegion es una región geográfica de interés para monitoreo
type GeoRegion struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Shape       RegionShape `json:"-"`
	Address     string      `json:"address,omitempty"`
	Description string      `json:"description,omitempty"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
	LastChecked *time.Time  `json:"last_checked,omitempty"`
}

// Center devuelve el centro de la región si lo tiene (solo círculos)
func (r *GeoRegion) Center() *Point {
	if c, ok := r.Shape.(*Circle); ok {
		center := c.Center
		return &center
	}
	return nil
}

// pointInRing aplica ray casting sobre el anillo de vértices
func pointInRing(lat, lon float64, ring []Point) bool {
	inside := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		yi, xi := ring[i].Lat, ring[i].Lon
		yj, xj := ring[j].Lat, ring[j].Lon

		if (yi > lat) != (yj > lat) &&
			lon < (xj-xi)*(lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

// writeCoord emite "lon lat" como espera WKT
func writeCoord(sb *strings.Builder, p Point) {
	sb.WriteString(strconv.FormatFloat(p.Lon, 'f', -1, 64))
	sb.WriteString(" ")
	sb.WriteString(strconv.FormatFloat(p.Lat, 'f', -1, 64))
}
