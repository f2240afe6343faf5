package domain

// Listing es un inmueble normalizado que entra al pipeline de scoring.
// Lo suministra el colaborador de ingesta (schema unificado de portales);
// el subsistema de detección solo lo lee.
type Listing struct {
	Portal       string   `json:"portal" db:"portal"`
	PortalID     string   `json:"portal_id" db:"id_portal"`
	Title        string   `json:"title" db:"titulo"`
	Description  string   `json:"description" db:"descripcion"`
	Price        *float64 `json:"price,omitempty" db:"precio"`
	SurfaceM2    *float64 `json:"surface_m2,omitempty" db:"superficie"`
	PropertyType string   `json:"property_type,omitempty" db:"tipo"`
	Features     []string `json:"features,omitempty" db:"caracteristicas"`
	Lat          *float64 `json:"lat,omitempty" db:"lat"`
	Lon          *float64 `json:"lon,omitempty" db:"lon"`
	GeoType      string   `json:"geo_type,omitempty" db:"geo_type"`

	// Resultado de detección previo (join con el detection store);
	// nil si el inmueble aún no fue puntuado
	Score        *float64 `json:"score,omitempty" db:"score"`
	Status       *string  `json:"status,omitempty" db:"status"`
	Evidence     []string `json:"evidence,omitempty" db:"evidences"`
	OSMMatchID   *int64   `json:"osm_match_id,omitempty" db:"osm_match_id"`
	OSMMatchType *string  `json:"osm_match_type,omitempty" db:"osm_match_type"`
}

// HasCoordinates indica si el inmueble tiene geolocalización
func (l *Listing) HasCoordinates() bool {
	return l.Lat != nil && l.Lon != nil
}
