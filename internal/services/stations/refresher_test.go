//go:build unit

package stations_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/stations"
)

type mockRefreshable struct {
	mock.Mock
}

func (m *mockRefreshable) Refresh(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestRefresher_StartLoadsImmediately(t *testing.T) {
	dir := &mockRefreshable{}
	dir.On("Refresh", mock.Anything).Return(nil)

	r := stations.NewRefresher(dir, "0 0 */6 * * *", zerolog.Nop())
	assert.NoError(t, r.Start(context.Background()))
	r.Stop()

	dir.AssertNumberOfCalls(t, "Refresh", 1)
}

func TestRefresher_StartReportsInitialFailure(t *testing.T) {
	dir := &mockRefreshable{}
	dir.On("Refresh", mock.Anything).Return(errors.New("nws down"))

	r := stations.NewRefresher(dir, "0 0 */6 * * *", zerolog.Nop())
	assert.Error(t, r.Start(context.Background()))
	r.Stop()
}

func TestRefresher_InvalidSpec(t *testing.T) {
	dir := &mockRefreshable{}

	r := stations.NewRefresher(dir, "every tuesday", zerolog.Nop())
	assert.Error(t, r.Start(context.Background()))

	dir.AssertNumberOfCalls(t, "Refresh", 0)
}
