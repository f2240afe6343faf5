package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/PepeluiMoreno/sipi-etl/internal/config"
	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
	"github.com/PepeluiMoreno/sipi-etl/internal/domain/repository"
	"github.com/PepeluiMoreno/sipi-etl/internal/pkg/utils"
	"go.uber.org/zap"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *zap.Logger
}

// NewOverpassClient crea el cliente de Overpass API para consultar
// lugares de culto de OpenStreetMap
func NewOverpassClient(cfg *config.OSMConfig, logger *zap.Logger) repository.OSMRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL:   cfg.OverpassURL,
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *overpassCenter   `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

type overpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// FindNearby consulta lugares de culto cristianos alrededor del punto,
// ordenados por distancia ascendente. Best-effort: cualquier fallo de
// red o parseo devuelve lista vacía.
func (c *client) FindNearby(ctx context.Context, lat, lon, radiusM float64) []domain.OSMPlace {
	query := buildQuery(lat, lon, radiusM)

	form := url.Values{}
	form.Set("data", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		c.logger.Warn("Failed to create Overpass request", zap.Error(err))
		return nil
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Overpass request failed",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("Overpass API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil
	}

	var parsed overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.logger.Warn("Failed to decode Overpass response", zap.Error(err))
		return nil
	}

	places := make([]domain.OSMPlace, 0, len(parsed.Elements))
	for _, el := range parsed.Elements {
		elLat, elLon := el.Lat, el.Lon
		// Ways y relations llevan el centroide en "center"
		if el.Center != nil {
			elLat, elLon = el.Center.Lat, el.Center.Lon
		}
		if elLat == 0 && elLon == 0 {
			continue
		}

		places = append(places, domain.OSMPlace{
			OSMID:     el.ID,
			OSMType:   el.Type,
			Name:      el.Tags["name"],
			Lat:       elLat,
			Lon:       elLon,
			DistanceM: utils.HaversineDistance(lat, lon, elLat, elLon),
		})
	}

	sort.Slice(places, func(i, j int) bool {
		return places[i].DistanceM < places[j].DistanceM
	})

	return places
}

// buildQuery genera la consulta Overpass QL para nodos, ways y
// relations etiquetados como lugar de culto cristiano
func buildQuery(lat, lon, radiusM float64) string {
	around := fmt.Sprintf("(around:%.0f,%.6f,%.6f)", radiusM, lat, lon)
	return fmt.Sprintf(`[out:json][timeout:25];
(
  node["amenity"="place_of_worship"]["religion"="christian"]%s;
  way["amenity"="place_of_worship"]["religion"="christian"]%s;
  relation["amenity"="place_of_worship"]["religion"="christian"]%s;
);
out center;`, around, around, around)
}
