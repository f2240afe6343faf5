package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PepeluiMoreno/sipi-etl/internal/domain"
	"github.com/PepeluiMoreno/sipi-etl/internal/pkg/errors"
)

func TestCircle_Contains(t *testing.T) {
	circle, err := domain.NewCircle(40.4168, -3.7038, 500)
	require.NoError(t, err)

	t.Run("center is inside", func(t *testing.T) {
		inside, err := circle.Contains(40.4168, -3.7038)
		require.NoError(t, err)
		assert.True(t, inside)
	})

	t.Run("point within radius is inside", func(t *testing.T) {
		// ~220m al norte del centro
		inside, err := circle.Contains(40.4188, -3.7038)
		require.NoError(t, err)
		assert.True(t, inside)
	})

	t.Run("point beyond radius is outside", func(t *testing.T) {
		// ~1.1km al norte del centro
		inside, err := circle.Contains(40.4268, -3.7038)
		require.NoError(t, err)
		assert.False(t, inside)
	})
}

func TestCircle_BoundingBox(t *testing.T) {
	circle, err := domain.NewCircle(40.4168, -3.7038, 500)
	require.NoError(t, err)

	bbox, err := circle.BoundingBox()
	require.NoError(t, err)

	assert.Less(t, bbox.MinLat, circle.Center.Lat)
	assert.Greater(t, bbox.MaxLat, circle.Center.Lat)
	assert.Less(t, bbox.MinLon, circle.Center.Lon)
	assert.Greater(t, bbox.MaxLon, circle.Center.Lon)

	// El bbox contiene cualquier punto dentro del círculo
	inside, err := circle.Contains(40.4188, -3.7038)
	require.NoError(t, err)
	require.True(t, inside)
	assert.True(t, 40.4188 >= bbox.MinLat && 40.4188 <= bbox.MaxLat)
}

func TestNewCircle_Invalid(t *testing.T) {
	t.Run("bad latitude", func(t *testing.T) {
		_, err := domain.NewCircle(95, 0, 500)
		assert.Equal(t, errors.ErrInvalidGeometry, err)
	})

	t.Run("zero radius", func(t *testing.T) {
		_, err := domain.NewCircle(40, -3, 0)
		assert.Equal(t, errors.ErrInvalidGeometry, err)
	})
}

func TestCircle_WKT(t *testing.T) {
	circle, err := domain.NewCircle(40.5, -3.25, 500)
	require.NoError(t, err)

	wkt, err := circle.WKT()
	require.NoError(t, err)
	assert.Equal(t, "POINT(-3.25 40.5)", wkt)
}

func TestPolygon_Contains(t *testing.T) {
	// Cuadrado alrededor del centro de Madrid
	polygon, err := domain.NewPolygon([]domain.Point{
		{Lat: 40.40, Lon: -3.72},
		{Lat: 40.40, Lon: -3.68},
		{Lat: 40.43, Lon: -3.68},
		{Lat: 40.43, Lon: -3.72},
	})
	require.NoError(t, err)

	t.Run("interior point", func(t *testing.T) {
		inside, err := polygon.Contains(40.415, -3.70)
		require.NoError(t, err)
		assert.True(t, inside)
	})

	t.Run("exterior point", func(t *testing.T) {
		inside, err := polygon.Contains(40.45, -3.70)
		require.NoError(t, err)
		assert.False(t, inside)
	})
}

func TestPolygon_WKT_ClosesRing(t *testing.T) {
	polygon, err := domain.NewPolygon([]domain.Point{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 1},
		{Lat: 1, Lon: 1},
	})
	require.NoError(t, err)

	wkt, err := polygon.WKT()
	require.NoError(t, err)
	assert.Equal(t, "POLYGON((0 0, 1 0, 1 1, 0 0))", wkt)
}

func TestNewPolygon_TooFewVertices(t *testing.T) {
	_, err := domain.NewPolygon([]domain.Point{
		{Lat: 0, Lon: 0},
		{Lat: 1, Lon: 1},
	})
	assert.Equal(t, errors.ErrInvalidGeometry, err)
}

func TestRect(t *testing.T) {
	rect, err := domain.NewRectFromCorners([]domain.Point{
		{Lat: 40.40, Lon: -3.72},
		{Lat: 40.43, Lon: -3.68},
	})
	require.NoError(t, err)

	t.Run("contains interior point", func(t *testing.T) {
		inside, err := rect.Contains(40.41, -3.70)
		require.NoError(t, err)
		assert.True(t, inside)
	})

	t.Run("excludes exterior point", func(t *testing.T) {
		inside, err := rect.Contains(40.50, -3.70)
		require.NoError(t, err)
		assert.False(t, inside)
	})

	t.Run("wkt is a closed five point ring", func(t *testing.T) {
		wkt, err := rect.WKT()
		require.NoError(t, err)
		assert.Equal(t, "POLYGON((-3.72 40.4, -3.68 40.4, -3.68 40.43, -3.72 40.43, -3.72 40.4))", wkt)
	})

	t.Run("bounding box equals the rect", func(t *testing.T) {
		bbox, err := rect.BoundingBox()
		require.NoError(t, err)
		assert.Equal(t, 40.40, bbox.MinLat)
		assert.Equal(t, -3.68, bbox.MaxLon)
	})
}

func TestNewRectFromCorners_RequiresTwoPoints(t *testing.T) {
	_, err := domain.NewRectFromCorners([]domain.Point{{Lat: 1, Lon: 1}})
	assert.Equal(t, errors.ErrInvalidGeometry, err)
}

func TestAdministrative_DelegatesToBoundary(t *testing.T) {
	admin, err := domain.NewAdministrative(5326784, 8)
	require.NoError(t, err)

	_, cerr := admin.Contains(40.4, -3.7)
	assert.ErrorIs(t, cerr, domain.ErrExternalBoundary)

	_, berr := admin.BoundingBox()
	assert.ErrorIs(t, berr, domain.ErrExternalBoundary)
}

func TestStatusForScore(t *testing.T) {
	assert.Equal(t, domain.StatusConfirmed, domain.StatusForScore(100, 50))
	assert.Equal(t, domain.StatusDetected, domain.StatusForScore(55, 50))
	assert.Equal(t, domain.StatusDetected, domain.StatusForScore(50, 50))
	assert.Equal(t, domain.StatusMonitoring, domain.StatusForScore(20, 50))
	assert.Equal(t, domain.StatusNotDetected, domain.StatusForScore(0, 50))
}
