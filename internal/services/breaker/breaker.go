package breaker

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
)

type Config struct {
	TimeInterval time.Duration
	TimeTimeOut  time.Duration
	RepeatNumber uint32
}

// New builds a breaker that trips after RepeatNumber consecutive upstream
// failures. Domain failures such as NotFound or Validation count as successes.
func New(name string, cfg Config, logger zerolog.Logger) *gobreaker.CircuitBreaker {
	logger = logger.With().Str("component", "Breaker").Str("breaker", name).Logger()

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.TimeInterval,
		Timeout:     cfg.TimeTimeOut,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.RepeatNumber
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, models.ErrUpstreamUnavailable)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})
}

// Execute runs fn through cb. Rejections by an open or half-open breaker are
// reported as UpstreamUnavailable; errors from fn pass through untouched.
func Execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T

	result, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, models.NewError(models.KindUpstreamUnavailable, cb.Name()+" unavailable", err)
		}
		return zero, err
	}

	res, ok := result.(T)
	if !ok {
		return zero, models.NewError(models.KindUpstreamUnavailable, cb.Name()+" returned an unexpected result", nil)
	}
	return res, nil
}
