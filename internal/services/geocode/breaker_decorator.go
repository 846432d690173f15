package geocode

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

func (b *BreakerClient) Lookup(ctx context.Context, zipCode string) (models.Coordinates, error) {
	return breaker.Execute(b.cb, func() (models.Coordinates, error) {
		return b.wrapped.Lookup(ctx, zipCode)
	})
}
