//go:build unit

package geocode_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/geocode"
)

type mockLookup struct {
	mock.Mock
}

func (m *mockLookup) Lookup(ctx context.Context, zipCode string) (models.Coordinates, error) {
	args := m.Called(ctx, zipCode)
	coords, ok := args.Get(0).(models.Coordinates)
	if !ok {
		return models.Coordinates{}, args.Error(1)
	}
	return coords, args.Error(1)
}

var pittsburgh = models.Coordinates{Latitude: 40.4341, Longitude: -79.8655}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		primary := &mockLookup{}
		primary.On("Lookup", mock.Anything, "15221").Return(pittsburgh, nil)

		r := geocode.NewResolver(zerolog.Nop(), primary)
		coords, err := r.Resolve(ctx, " 15221 ")

		require.NoError(t, err)
		assert.Equal(t, pittsburgh, coords)
		primary.AssertExpectations(t)
	})

	t.Run("InvalidZip", func(t *testing.T) {
		for _, zip := range []string{"", "1522", "152210", "15a21", "15221-1234"} {
			primary := &mockLookup{}
			r := geocode.NewResolver(zerolog.Nop(), primary)

			_, err := r.Resolve(ctx, zip)

			assert.ErrorIs(t, err, models.ErrInvalidInput, zip)
			assert.ErrorIs(t, err, &models.Error{Kind: models.KindInvalidInput, Field: "zip_code"}, zip)
			primary.AssertNumberOfCalls(t, "Lookup", 0)
		}
	})

	t.Run("NotFoundDoesNotFallBack", func(t *testing.T) {
		primary := &mockLookup{}
		secondary := &mockLookup{}
		primary.On("Lookup", mock.Anything, "00000").
			Return(nil, models.NewError(models.KindNotFound, "no location", nil))

		r := geocode.NewResolver(zerolog.Nop(), primary, secondary)
		_, err := r.Resolve(ctx, "00000")

		assert.ErrorIs(t, err, models.ErrNotFound)
		secondary.AssertNumberOfCalls(t, "Lookup", 0)
	})

	t.Run("FallsBackOnOutage", func(t *testing.T) {
		primary := &mockLookup{}
		secondary := &mockLookup{}
		primary.On("Lookup", mock.Anything, "15221").
			Return(nil, models.NewError(models.KindUpstreamUnavailable, "timeout", nil))
		secondary.On("Lookup", mock.Anything, "15221").Return(pittsburgh, nil)

		r := geocode.NewResolver(zerolog.Nop(), primary, secondary)
		coords, err := r.Resolve(ctx, "15221")

		require.NoError(t, err)
		assert.Equal(t, pittsburgh, coords)
	})

	t.Run("AllUnavailable", func(t *testing.T) {
		primary := &mockLookup{}
		primary.On("Lookup", mock.Anything, "15221").
			Return(nil, models.NewError(models.KindUpstreamUnavailable, "timeout", nil))

		r := geocode.NewResolver(zerolog.Nop(), primary)
		_, err := r.Resolve(ctx, "15221")

		assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
	})

	t.Run("OutOfBoundsCoordinates", func(t *testing.T) {
		primary := &mockLookup{}
		primary.On("Lookup", mock.Anything, "15221").
			Return(models.Coordinates{Latitude: 91, Longitude: 0}, nil)

		r := geocode.NewResolver(zerolog.Nop(), primary)
		_, err := r.Resolve(ctx, "15221")

		assert.ErrorIs(t, err, models.ErrMalformedData)
	})
}
