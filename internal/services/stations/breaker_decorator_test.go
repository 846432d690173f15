//go:build unit

package stations_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/breaker"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/stations"
)

func TestBreakerSource_SharedCircuit(t *testing.T) {
	src := &mockSource{}
	src.On("ListNear", mock.Anything, zip15221).
		Return(nil, models.NewError(models.KindUpstreamUnavailable, "timeout", nil))

	cb := breaker.New("nws-stations", breaker.Config{TimeInterval: time.Minute, TimeTimeOut: time.Minute, RepeatNumber: 1}, zerolog.Nop())
	b := stations.NewBreakerSource(cb, src)

	_, err := b.ListNear(context.Background(), zip15221)
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)

	_, err = b.ListByStates(context.Background(), []string{"PA"})
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
	src.AssertNotCalled(t, "ListByStates", mock.Anything, mock.Anything)
}
