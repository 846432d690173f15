package observation

import (
	"context"

	"github.com/sony/gobreaker"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/breaker"
)

type BreakerClient struct {
	cb      *gobreaker.CircuitBreaker
	wrapped client
}

func NewBreakerClient(cb *gobreaker.CircuitBreaker, wrapped client) *BreakerClient {
	return &BreakerClient{cb: cb, wrapped: wrapped}
}

func (b *BreakerClient) Latest(ctx context.Context, stationID string) (models.RawObservation, error) {
	return breaker.Execute(b.cb, func() (models.RawObservation, error) {
		return b.wrapped.Latest(ctx, stationID)
	})
}
