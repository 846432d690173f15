//go:build unit

package observation_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/breaker"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/observation"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) Latest(ctx context.Context, stationID string) (models.RawObservation, error) {
	args := m.Called(ctx, stationID)
	raw, _ := args.Get(0).(models.RawObservation)
	return raw, args.Error(1)
}

var now = time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

func rawAt(ts any) models.RawObservation {
	return models.RawObservation{
		models.FieldStationID:  "KAGC",
		models.FieldObservedAt: ts,
		models.FieldHumidity:   45.0,
	}
}

func TestFetcher_Fetch(t *testing.T) {
	ctx := context.Background()
	clock := observation.WithClock(func() time.Time { return now })

	t.Run("Fresh", func(t *testing.T) {
		c := &mockClient{}
		c.On("Latest", mock.Anything, "KAGC").Return(rawAt("2025-06-01T16:51:00+00:00"), nil)

		raw, err := observation.NewFetcher(c, 3*time.Hour, zerolog.Nop(), clock).Fetch(ctx, "KAGC")

		require.NoError(t, err)
		assert.Equal(t, 45.0, raw[models.FieldHumidity])
	})

	t.Run("Stale", func(t *testing.T) {
		c := &mockClient{}
		c.On("Latest", mock.Anything, "KAGC").Return(rawAt("2025-06-01T14:59:59Z"), nil)

		_, err := observation.NewFetcher(c, 3*time.Hour, zerolog.Nop(), clock).Fetch(ctx, "KAGC")

		assert.ErrorIs(t, err, models.ErrStaleData)
	})

	t.Run("StaleTimeValue", func(t *testing.T) {
		c := &mockClient{}
		c.On("Latest", mock.Anything, "KAGC").Return(rawAt(now.Add(-4*time.Hour)), nil)

		_, err := observation.NewFetcher(c, 3*time.Hour, zerolog.Nop(), clock).Fetch(ctx, "KAGC")

		assert.ErrorIs(t, err, models.ErrStaleData)
	})

	t.Run("FutureTimestamp", func(t *testing.T) {
		c := &mockClient{}
		c.On("Latest", mock.Anything, "KAGC").Return(rawAt(now.Add(2*time.Hour)), nil)

		_, err := observation.NewFetcher(c, 3*time.Hour, zerolog.Nop(), clock).Fetch(ctx, "KAGC")

		assert.ErrorIs(t, err, &models.Error{Kind: models.KindMalformedData, Field: models.FieldObservedAt})
	})

	t.Run("SmallClockSkewAccepted", func(t *testing.T) {
		c := &mockClient{}
		c.On("Latest", mock.Anything, "KAGC").Return(rawAt(now.Add(2*time.Minute)), nil)

		_, err := observation.NewFetcher(c, 3*time.Hour, zerolog.Nop(), clock).Fetch(ctx, "KAGC")

		assert.NoError(t, err)
	})

	t.Run("UnparsableTimestampPassesThrough", func(t *testing.T) {
		c := &mockClient{}
		c.On("Latest", mock.Anything, "KAGC").Return(rawAt("yesterday"), nil)

		raw, err := observation.NewFetcher(c, 3*time.Hour, zerolog.Nop(), clock).Fetch(ctx, "KAGC")

		require.NoError(t, err)
		assert.Equal(t, "yesterday", raw[models.FieldObservedAt])
	})

	t.Run("UpstreamError", func(t *testing.T) {
		c := &mockClient{}
		c.On("Latest", mock.Anything, "KAGC").
			Return(nil, models.NewError(models.KindUpstreamUnavailable, "timeout", nil))

		_, err := observation.NewFetcher(c, 3*time.Hour, zerolog.Nop(), clock).Fetch(ctx, "KAGC")

		assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
	})
}

func TestBreakerClient_StaleDoesNotTrip(t *testing.T) {
	c := &mockClient{}
	c.On("Latest", mock.Anything, "KAGC").Return(rawAt("2025-06-01T16:51:00Z"), nil)

	cb := breaker.New("nws-observations", breaker.Config{TimeInterval: time.Minute, TimeTimeOut: time.Minute, RepeatNumber: 1}, zerolog.Nop())
	f := observation.NewFetcher(observation.NewBreakerClient(cb, c), time.Minute, zerolog.Nop(),
		observation.WithClock(func() time.Time { return now }))

	for i := 0; i < 3; i++ {
		_, err := f.Fetch(context.Background(), "KAGC")
		assert.ErrorIs(t, err, models.ErrStaleData)
	}
	c.AssertNumberOfCalls(t, "Latest", 3)
}
