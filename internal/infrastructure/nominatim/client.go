package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/PepeluiMoreno/sipi-etl/internal/config"
	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
	"github.com/PepeluiMoreno/sipi-etl/internal/domain/repository"
	"go.uber.org/zap"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *zap.Logger
}

// NewNominatimClient crea el cliente de geocodificación Nominatim
func NewNominatimClient(cfg *config.NominatimConfig, logger *zap.Logger) repository.GeocodeRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Class       string `json:"class"`
	Type        string `json:"type"`
}

// Geocode resuelve una dirección o nombre de lugar a coordenadas
func (c *client) Geocode(ctx context.Context, query string, limit int) ([]domain.GeocodeResult, error) {
	if limit <= 0 {
		limit = 1
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(limit))

	var raw []nominatimResult
	if err := c.get(ctx, "/search", params, &raw); err != nil {
		return nil, err
	}

	results := make([]domain.GeocodeResult, 0, len(raw))
	for _, r := range raw {
		result, err := r.toDomain()
		if err != nil {
			continue
		}
		results = append(results, *result)
	}

	return results, nil
}

// Reverse resuelve coordenadas a la dirección más cercana
func (c *client) Reverse(ctx context.Context, lat, lon float64) (*domain.GeocodeResult, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))
	params.Set("format", "json")

	var raw nominatimResult
	if err := c.get(ctx, "/reverse", params, &raw); err != nil {
		return nil, err
	}

	return raw.toDomain()
}

func (c *client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Nominatim request failed", zap.Error(err))
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("Nominatim API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return fmt.Errorf("nominatim API error: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func (r *nominatimResult) toDomain() (*domain.GeocodeResult, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", r.Lat, err)
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", r.Lon, err)
	}

	placeType := r.Type
	if r.Class == "amenity" && r.Type == "place_of_worship" {
		placeType = "place_of_worship"
	}

	return &domain.GeocodeResult{
		Lat:         lat,
		Lon:         lon,
		DisplayName: r.DisplayName,
		PlaceType:   placeType,
	}, nil
}
