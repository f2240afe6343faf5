package domain

import "time"

// RegionAlert es una detección generada por el scan de una región.
// Única por (region_id, portal, listing_id): re-scans no duplican.
type RegionAlert struct {
	ID        int64  `json:"id" db:"id"`
	RegionID  int64  `json:"region_id" db:"region_id"`
	Portal    string `json:"portal" db:"portal"`
	ListingID string `json:"listing_id" db:"inmueble_id"`

	Title  string   `json:"title" db:"titulo"`
	Price  *float64 `json:"price,omitempty" db:"precio"`
	Score  float64  `json:"score" db:"score"`
	Status string   `json:"status" db:"status"`

	Lat              float64  `json:"lat" db:"lat"`
	Lon              float64  `json:"lon" db:"lon"`
	DistanceToCenter *float64 `json:"distance_to_center_m,omitempty" db:"distance_to_center_m"`

	OSMMatchID       *int64   `json:"osm_match_id,omitempty" db:"osm_church_id"`
	OSMMatchName     *string  `json:"osm_match_name,omitempty" db:"osm_church_name"`
	OSMMatchDistance *float64 `json:"osm_match_distance_m,omitempty" db:"osm_distance_m"`

	DetectedAt time.Time  `json:"detected_at" db:"detected_at"`
	Notified   bool       `json:"notified" db:"notified"`
	NotifiedAt *time.Time `json:"notified_at,omitempty" db:"notified_at"`
}
