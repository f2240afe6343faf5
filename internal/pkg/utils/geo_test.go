package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PepeluiMoreno/sipi-etl/internal/pkg/utils"
)

func TestHaversineDistance(t *testing.T) {
	t.Run("zero distance for the same point", func(t *testing.T) {
		assert.Equal(t, 0.0, utils.HaversineDistance(40.4168, -3.7038, 40.4168, -3.7038))
	})

	t.Run("madrid to barcelona", func(t *testing.T) {
		// ~505 km en línea recta
		d := utils.HaversineDistance(40.4168, -3.7038, 41.3851, 2.1734)
		assert.InDelta(t, 505000, d, 5000)
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		d := utils.HaversineDistance(40, -3, 41, -3)
		assert.InDelta(t, 111195, d, 200)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := utils.HaversineDistance(40.0, -3.0, 41.0, 2.0)
		b := utils.HaversineDistance(41.0, 2.0, 40.0, -3.0)
		assert.Equal(t, a, b)
	})
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, utils.ValidateCoordinates(40.4168, -3.7038))
	assert.True(t, utils.ValidateCoordinates(-90, 180))
	assert.False(t, utils.ValidateCoordinates(90.1, 0))
	assert.False(t, utils.ValidateCoordinates(0, -180.1))
}

func TestValidateRadius(t *testing.T) {
	assert.True(t, utils.ValidateRadius(10))
	assert.True(t, utils.ValidateRadius(100000))
	assert.False(t, utils.ValidateRadius(9.9))
	assert.False(t, utils.ValidateRadius(100001))
}
