//go:build unit

package comfort_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/comfort"
)

func TestHeatIndexF(t *testing.T) {
	assert.Greater(t, comfort.HeatIndexF(80, 60), 80.0)
	assert.Equal(t, 75.0, comfort.HeatIndexF(75, 60))
	assert.Equal(t, 85.0, comfort.HeatIndexF(85, 30))

	// NWS table: 90 F at 70 % RH reads 106 F.
	assert.InDelta(t, 106, comfort.HeatIndexF(90, 70), 1)
}

func TestWindChillF(t *testing.T) {
	assert.Less(t, comfort.WindChillF(30, 10), 30.0)
	assert.Equal(t, 55.0, comfort.WindChillF(55, 10))
	assert.Equal(t, 30.0, comfort.WindChillF(30, 2))

	// NWS table: 0 F with 15 mph wind reads -19 F.
	assert.InDelta(t, -19, comfort.WindChillF(0, 15), 1)
}

func TestLimits(t *testing.T) {
	_, err := comfort.NewLimits(30, 20)
	assert.Error(t, err)

	l, err := comfort.NewLimits(18, 26)
	require.NoError(t, err)

	assert.True(t, l.IsSafe(18))
	assert.True(t, l.IsSafe(22))
	assert.True(t, l.IsSafe(26))
	assert.False(t, l.IsSafe(13))
	assert.False(t, l.IsSafe(31))

	adj := l.Adjusted(2)
	assert.Equal(t, comfort.Limits{MinC: 16, MaxC: 24}, adj)
	assert.LessOrEqual(t, adj.MinC, adj.MaxC)
}

func observation(t *testing.T, tempC, rh, windKph float64) models.CanonicalObservation {
	t.Helper()
	dir, err := models.NewWindDirection(270)
	require.NoError(t, err)
	obs, err := models.NewCanonicalObservation(models.ObservationFields{
		StationID:     "KAGC",
		ObservedAt:    time.Date(2025, 6, 1, 16, 51, 0, 0, time.UTC),
		TemperatureC:  tempC,
		HumidityPct:   rh,
		WindSpeedKph:  windKph,
		WindDirection: dir,
	})
	require.NoError(t, err)
	return obs
}

func TestAssess(t *testing.T) {
	limits, err := comfort.NewLimits(10, 32)
	require.NoError(t, err)

	t.Run("mild", func(t *testing.T) {
		c := comfort.Assess(observation(t, 21.11, 45, 8.05), limits)
		assert.Equal(t, 21.11, c.ApparentC)
		assert.Equal(t, limits, c.Limits)
		assert.True(t, c.WithinLimits)
	})

	t.Run("hot and humid", func(t *testing.T) {
		c := comfort.Assess(observation(t, 32.2, 70, 5), limits)
		assert.Greater(t, c.ApparentC, 32.2)
		assert.Equal(t, c.HeatIndexC, c.ApparentC)
		assert.Less(t, c.Limits.MaxC, limits.MaxC)
		assert.False(t, c.WithinLimits)
	})

	t.Run("cold and windy", func(t *testing.T) {
		c := comfort.Assess(observation(t, -5, 50, 30), limits)
		assert.Less(t, c.ApparentC, -5.0)
		assert.Equal(t, c.WindChillC, c.ApparentC)
		assert.Greater(t, c.Limits.MinC, limits.MinC)
		assert.False(t, c.WithinLimits)
	})
}
