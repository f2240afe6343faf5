package domain

// GeocodeResult es la salida del geocodificador usado por el region builder
type GeocodeResult struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
	PlaceType   string  `json:"place_type,omitempty"`
}

// IsPlaceOfWorship indica si el resultado corresponde a un lugar de culto
func (g *GeocodeResult) IsPlaceOfWorship() bool {
	switch g.PlaceType {
	case "place_of_worship", "church", "cathedral", "chapel", "monastery":
		return true
	}
	return false
}
