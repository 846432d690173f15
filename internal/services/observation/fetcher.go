package observation

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
)

// Readings stamped further ahead of the local clock than this are rejected.
const maxClockSkew = 5 * time.Minute

type client interface {
	Latest(ctx context.Context, stationID string) (models.RawObservation, error)
}

// Fetcher returns the latest raw observation of a station and rejects
// readings older than maxAge. Nothing is cached.
type Fetcher struct {
	client client
	maxAge time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

type Option func(*Fetcher)

// WithClock replaces time.Now for staleness checks.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

func NewFetcher(client client, maxAge time.Duration, logger zerolog.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		client: client,
		maxAge: maxAge,
		now:    time.Now,
		logger: logger.With().Str("component", "ObservationFetcher").Logger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fetcher) Fetch(ctx context.Context, stationID string) (models.RawObservation, error) {
	raw, err := f.client.Latest(ctx, stationID)
	if err != nil {
		return nil, err
	}

	// An unreadable timestamp is left for the normalizer to reject.
	observedAt, ok := observedAt(raw)
	if !ok {
		return raw, nil
	}
	age := f.now().Sub(observedAt)
	if age < -maxClockSkew {
		f.logger.Warn().Ctx(ctx).
			Str("station_id", stationID).
			Time("observed_at", observedAt).
			Msg("observation timestamp in the future")
		return nil, models.NewFieldError(models.KindMalformedData, models.FieldObservedAt,
			observedAt.Format(time.RFC3339), fmt.Sprintf("is %s ahead of the local clock", (-age).Truncate(time.Second)))
	}
	if age > f.maxAge {
		f.logger.Warn().Ctx(ctx).
			Str("station_id", stationID).
			Time("observed_at", observedAt).
			Dur("age", age).
			Msg("stale observation")
		return nil, models.NewError(models.KindStaleData,
			fmt.Sprintf("observation for %s from %s is %s old, limit is %s",
				stationID, observedAt.Format(time.RFC3339), age.Truncate(time.Minute), f.maxAge), nil)
	}
	return raw, nil
}

func observedAt(raw models.RawObservation) (time.Time, bool) {
	switch v := raw[models.FieldObservedAt].(type) {
	case time.Time:
		return v, !v.IsZero()
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		return t, err == nil
	default:
		return time.Time{}, false
	}
}
