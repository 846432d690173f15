package breaker_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/breaker"
)

var breakerCfg = breaker.Config{
	TimeInterval: 30 * time.Second,
	TimeTimeOut:  15 * time.Second,
	RepeatNumber: 5,
}

const breakerName = "TestAPI"

func TestExecute_Success(t *testing.T) {
	cb := breaker.New(breakerName, breakerCfg, zerolog.Nop())

	got, err := breaker.Execute(cb, func() (string, error) { return "KAGC", nil })
	assert.NoError(t, err)
	assert.Equal(t, "KAGC", got)
}

func TestExecute_TripsAfterFiveUpstreamFailures(t *testing.T) {
	cb := breaker.New(breakerName, breakerCfg, zerolog.Nop())
	upstreamErr := models.NewError(models.KindUpstreamUnavailable, "timeout", nil)
	calls := 0

	for i := 1; i <= 5; i++ {
		_, err := breaker.Execute(cb, func() (int, error) {
			calls++
			return 0, upstreamErr
		})
		assert.ErrorIs(t, err, upstreamErr, "call #%d should return the upstream error", i)
	}

	_, err := breaker.Execute(cb, func() (int, error) {
		calls++
		return 1, nil
	})
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
	assert.True(t, strings.Contains(err.Error(), "circuit breaker is open"),
		"6th call should return open-circuit error")
	assert.Equal(t, 5, calls)
}

func TestExecute_DomainErrorsDoNotTrip(t *testing.T) {
	cb := breaker.New(breakerName, breakerCfg, zerolog.Nop())
	notFound := models.NewError(models.KindNotFound, "no match", nil)

	for i := 0; i < 10; i++ {
		_, err := breaker.Execute(cb, func() (int, error) { return 0, notFound })
		assert.ErrorIs(t, err, models.ErrNotFound)
	}

	got, err := breaker.Execute(cb, func() (int, error) { return 7, nil })
	assert.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestExecute_PlainErrorsPassThrough(t *testing.T) {
	cb := breaker.New(breakerName, breakerCfg, zerolog.Nop())
	plain := errors.New("boom")

	_, err := breaker.Execute(cb, func() (int, error) { return 0, plain })
	assert.Equal(t, plain, err)
}
