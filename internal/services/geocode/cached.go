package geocode

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/cache"
)

type cacheClient interface {
	Set(ctx context.Context, key string, value models.Coordinates) error
	Get(ctx context.Context, key string) (models.Coordinates, error)
}

// CachedClient remembers successful lookups. Failures are never cached.
type CachedClient struct {
	inner  client
	cache  cacheClient
	logger zerolog.Logger
}

func NewCachedClient(inner client, cache cacheClient, logger zerolog.Logger) *CachedClient {
	logger = logger.With().Str("component", "CachedGeocoder").Logger()
	return &CachedClient{inner: inner, cache: cache, logger: logger}
}

func (c *CachedClient) Lookup(ctx context.Context, zipCode string) (models.Coordinates, error) {
	key := "geocode:" + zipCode

	coords, err := c.cache.Get(ctx, key)
	if err == nil {
		c.logger.Debug().Ctx(ctx).Str("zip_code", zipCode).Msg("cache hit")
		return coords, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		c.logger.Warn().Ctx(ctx).Err(err).Str("zip_code", zipCode).Msg("cache unavailable")
	}

	coords, err = c.inner.Lookup(ctx, zipCode)
	if err != nil {
		return models.Coordinates{}, err
	}

	if err := c.cache.Set(ctx, key, coords); err != nil {
		c.logger.Warn().Ctx(ctx).Err(err).Str("zip_code", zipCode).Msg("cache write failed")
	}
	return coords, nil
}
