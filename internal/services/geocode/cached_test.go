//go:build unit

package geocode_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/cache"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/geocode"
)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Set(ctx context.Context, key string, value models.Coordinates) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *mockCache) Get(ctx context.Context, key string) (models.Coordinates, error) {
	args := m.Called(ctx, key)
	coords, _ := args.Get(0).(models.Coordinates)
	return coords, args.Error(1)
}

func TestCachedClient_Lookup(t *testing.T) {
	ctx := context.Background()

	t.Run("Hit", func(t *testing.T) {
		inner := &mockLookup{}
		c := &mockCache{}
		c.On("Get", mock.Anything, "geocode:15221").Return(pittsburgh, nil)

		coords, err := geocode.NewCachedClient(inner, c, zerolog.Nop()).Lookup(ctx, "15221")

		require.NoError(t, err)
		assert.Equal(t, pittsburgh, coords)
		inner.AssertNumberOfCalls(t, "Lookup", 0)
	})

	t.Run("MissStoresResult", func(t *testing.T) {
		inner := &mockLookup{}
		c := &mockCache{}
		c.On("Get", mock.Anything, "geocode:15221").Return(nil, cache.ErrMiss)
		inner.On("Lookup", mock.Anything, "15221").Return(pittsburgh, nil)
		c.On("Set", mock.Anything, "geocode:15221", pittsburgh).Return(nil)

		coords, err := geocode.NewCachedClient(inner, c, zerolog.Nop()).Lookup(ctx, "15221")

		require.NoError(t, err)
		assert.Equal(t, pittsburgh, coords)
		c.AssertExpectations(t)
	})

	t.Run("FailureNotCached", func(t *testing.T) {
		inner := &mockLookup{}
		c := &mockCache{}
		c.On("Get", mock.Anything, "geocode:00000").Return(nil, errors.New("redis down"))
		inner.On("Lookup", mock.Anything, "00000").
			Return(nil, models.NewError(models.KindNotFound, "no location", nil))

		_, err := geocode.NewCachedClient(inner, c, zerolog.Nop()).Lookup(ctx, "00000")

		assert.ErrorIs(t, err, models.ErrNotFound)
		c.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	})
}
