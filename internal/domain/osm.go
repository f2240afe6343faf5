package domain

// OSMPlace es un lugar de culto devuelto por el cliente de proximidad.
// Efímero: se consulta por llamada y no se persiste.
type OSMPlace struct {
	OSMID     int64   `json:"osm_id"`
	OSMType   string  `json:"osm_type"` // node | way | relation
	Name      string  `json:"name,omitempty"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	DistanceM float64 `json:"distance_m"`
}

// Niveles de confianza del matching inmueble ↔ OSM
const (
	ConfidenceExact     = 95.0 // nombre contenido en el título (o viceversa)
	ConfidenceVeryClose = 80.0 // candidato más cercano a < 50 m
	ConfidenceNearby    = 60.0 // candidato más cercano a < 150 m
)

// OSMMatch empareja un inmueble con un lugar de culto OSM.
// No se persiste como entidad propia; se pliega en RegionAlert.
type OSMMatch struct {
	Place      OSMPlace `json:"place"`
	Confidence float64  `json:"confidence"`
}
