//go:build unit

package producers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/producers"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) Write(ctx context.Context, obs models.CanonicalObservation) (models.WriteResult, error) {
	args := m.Called(ctx, obs)
	res, _ := args.Get(0).(models.WriteResult)
	return res, args.Error(1)
}

type mockRecorded struct {
	mock.Mock
}

func (m *mockRecorded) ObservationRecorded(ctx context.Context, obs models.CanonicalObservation) error {
	return m.Called(ctx, obs).Error(0)
}

func TestPublishingWriter_Write(t *testing.T) {
	ctx := context.Background()
	obs := observation(t, models.CalmWind())

	t.Run("Success", func(t *testing.T) {
		w := &mockWriter{}
		p := &mockRecorded{}
		w.On("Write", mock.Anything, obs).Return(models.WriteResult{Accepted: true}, nil)
		p.On("ObservationRecorded", mock.Anything, obs).Return(nil)

		res, err := producers.NewPublishingWriter(w, p).Write(ctx, obs)

		require.NoError(t, err)
		assert.True(t, res.Accepted)
		p.AssertExpectations(t)
	})

	t.Run("StoreFailureNotPublished", func(t *testing.T) {
		w := &mockWriter{}
		p := &mockRecorded{}
		w.On("Write", mock.Anything, obs).
			Return(models.WriteResult{}, models.NewError(models.KindPersistence, "disk full", nil))

		_, err := producers.NewPublishingWriter(w, p).Write(ctx, obs)

		assert.ErrorIs(t, err, models.ErrPersistence)
		p.AssertNumberOfCalls(t, "ObservationRecorded", 0)
	})

	t.Run("PublishFailure", func(t *testing.T) {
		w := &mockWriter{}
		p := &mockRecorded{}
		w.On("Write", mock.Anything, obs).Return(models.WriteResult{Accepted: true}, nil)
		p.On("ObservationRecorded", mock.Anything, obs).Return(errors.New("channel closed"))

		res, err := producers.NewPublishingWriter(w, p).Write(ctx, obs)

		assert.ErrorIs(t, err, models.ErrPersistence)
		assert.False(t, res.Accepted)
	})
}
