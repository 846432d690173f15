package stations

import (
	"context"

	"github.com/sony/gobreaker"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/breaker"
)

type source interface {
	stateLister
	pointLister
}

type BreakerSource struct {
	cb      *gobreaker.CircuitBreaker
	wrapped source
}

func NewBreakerSource(cb *gobreaker.CircuitBreaker, wrapped source) *BreakerSource {
	return &BreakerSource{cb: cb, wrapped: wrapped}
}

func (b *BreakerSource) ListByStates(ctx context.Context, states []string) ([]models.StationCandidate, error) {
	return breaker.Execute(b.cb, func() ([]models.StationCandidate, error) {
		return b.wrapped.ListByStates(ctx, states)
	})
}

func (b *BreakerSource) ListNear(ctx context.Context, point models.Coordinates) ([]models.StationCandidate, error) {
	return breaker.Execute(b.cb, func() ([]models.StationCandidate, error) {
		return b.wrapped.ListNear(ctx, point)
	})
}
