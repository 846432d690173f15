//go:build unit

package geocode_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/breaker"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/geocode"
)

func TestBreakerClient_OpensAfterOutages(t *testing.T) {
	inner := &mockLookup{}
	inner.On("Lookup", mock.Anything, "15221").
		Return(nil, models.NewError(models.KindUpstreamUnavailable, "timeout", nil))

	cb := breaker.New("nominatim", breaker.Config{
		TimeInterval: time.Minute,
		TimeTimeOut:  time.Minute,
		RepeatNumber: 2,
	}, zerolog.Nop())
	b := geocode.NewBreakerClient(cb, inner)

	for i := 0; i < 3; i++ {
		_, err := b.Lookup(context.Background(), "15221")
		assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
	}
	inner.AssertNumberOfCalls(t, "Lookup", 2)
}

func TestBreakerClient_NotFoundKeepsCircuitClosed(t *testing.T) {
	inner := &mockLookup{}
	inner.On("Lookup", mock.Anything, "00000").
		Return(nil, models.NewError(models.KindNotFound, "no location", nil))

	cb := breaker.New("nominatim", breaker.Config{TimeInterval: time.Minute, TimeTimeOut: time.Minute, RepeatNumber: 1}, zerolog.Nop())
	b := geocode.NewBreakerClient(cb, inner)

	for i := 0; i < 3; i++ {
		_, err := b.Lookup(context.Background(), "00000")
		assert.ErrorIs(t, err, models.ErrNotFound)
	}
	inner.AssertNumberOfCalls(t, "Lookup", 3)
}
