package overpass_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/PepeluiMoreno/sipi-etl/internal/config"
	"github.com/PepeluiMoreno/sipi-etl/internal/infrastructure/overpass"
)

func newTestClient(url string) *config.OSMConfig {
	return &config.OSMConfig{
		OverpassURL:    url,
		RequestTimeout: 2 * time.Second,
		UserAgent:      "sipi-etl-test/1.0",
	}
}

func TestOverpassClient_FindNearby(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		require.NoError(t, r.ParseForm())
		query := r.Form.Get("data")
		assert.Contains(t, query, `"amenity"="place_of_worship"`)
		assert.Contains(t, query, `"religion"="christian"`)
		assert.Contains(t, query, "out center;")

		w.Header().Set("Content-Type", "application/json")
		// El way está más cerca que el node; el orden de respuesta es inverso
		w.Write([]byte(`{
			"elements": [
				{"type": "node", "id": 100, "lat": 40.4180, "lon": -3.7038,
					"tags": {"name": "Iglesia Lejana"}},
				{"type": "way", "id": 200,
					"center": {"lat": 40.4169, "lon": -3.7038},
					"tags": {"name": "Iglesia Cercana"}}
			]
		}`))
	}))
	defer server.Close()

	client := overpass.NewOverpassClient(newTestClient(server.URL), zap.NewNop())

	places := client.FindNearby(context.Background(), 40.4168, -3.7038, 150)

	require.Len(t, places, 2)
	assert.Equal(t, int64(200), places[0].OSMID)
	assert.Equal(t, "Iglesia Cercana", places[0].Name)
	assert.Equal(t, "way", places[0].OSMType)
	assert.Less(t, places[0].DistanceM, places[1].DistanceM)
}

func TestOverpassClient_ServerErrorReturnsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := overpass.NewOverpassClient(newTestClient(server.URL), zap.NewNop())

	places := client.FindNearby(context.Background(), 40.4168, -3.7038, 150)

	assert.Empty(t, places)
}

func TestOverpassClient_MalformedResponseReturnsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := overpass.NewOverpassClient(newTestClient(server.URL), zap.NewNop())

	places := client.FindNearby(context.Background(), 40.4168, -3.7038, 150)

	assert.Empty(t, places)
}

func TestOverpassClient_UnreachableReturnsEmpty(t *testing.T) {
	client := overpass.NewOverpassClient(newTestClient("http://127.0.0.1:1"), zap.NewNop())

	places := client.FindNearby(context.Background(), 40.4168, -3.7038, 150)

	assert.Empty(t, places)
}

func TestOverpassClient_ElementsWithoutCoordsAreSkipped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"elements": [
				{"type": "relation", "id": 300, "tags": {"name": "Sin centro"}},
				{"type": "node", "id": 400, "lat": 40.4169, "lon": -3.7038}
			]
		}`))
	}))
	defer server.Close()

	client := overpass.NewOverpassClient(newTestClient(server.URL), zap.NewNop())

	places := client.FindNearby(context.Background(), 40.4168, -3.7038, 150)

	require.Len(t, places, 1)
	assert.Equal(t, int64(400), places[0].OSMID)
	assert.Empty(t, places[0].Name)
}
