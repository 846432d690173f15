package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
)

//go:embed sql/observation-exists.sql
var observationExistsSQL string

//go:embed sql/upsert-observation.sql
var upsertObservationSQL string

//go:embed sql/get-latest-observation.sql
var getLatestObservationSQL string

// Fixed width so that lexical order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ObservationRepository stores canonical observations keyed by
// (station_id, observed_at). Writing the same key twice overwrites the row.
type ObservationRepository struct {
	db  *sql.DB
	log zerolog.Logger
	now func() time.Time
}

func NewObservationRepository(db *sql.DB, logger zerolog.Logger) *ObservationRepository {
	logger = logger.With().Str("component", "ObservationRepository").Logger()
	return &ObservationRepository{db: db, log: logger, now: time.Now}
}

func (r *ObservationRepository) Write(ctx context.Context, obs models.CanonicalObservation) (models.WriteResult, error) {
	start := time.Now()
	observedAt := obs.ObservedAt().UTC().Format(timeLayout)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.WriteResult{}, r.fail(ctx, "begin transaction", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			r.log.Error().Ctx(ctx).Err(err).Msg("rollback failed")
		}
	}()

	var existing int
	if err := tx.QueryRowContext(ctx, observationExistsSQL, obs.StationID(), observedAt).Scan(&existing); err != nil {
		return models.WriteResult{}, r.fail(ctx, "check existing observation", err)
	}

	var direction sql.NullFloat64
	if deg, ok := obs.WindDirection().Degrees(); ok {
		direction = sql.NullFloat64{Float64: deg, Valid: true}
	}

	_, err = tx.ExecContext(ctx, upsertObservationSQL,
		obs.StationID(),
		observedAt,
		obs.TemperatureC(),
		obs.HumidityPct(),
		obs.WindSpeedKph(),
		direction,
		obs.WindDirection().IsCalm(),
		r.now().UTC().Format(timeLayout),
	)
	if err != nil {
		return models.WriteResult{}, r.fail(ctx, "upsert observation", err)
	}
	if err := tx.Commit(); err != nil {
		return models.WriteResult{}, r.fail(ctx, "commit observation", err)
	}

	result := models.WriteResult{Accepted: true}
	if existing > 0 {
		result.Reason = models.WriteReasonOverwritten
	}

	r.log.Info().Ctx(ctx).
		Str("station_id", obs.StationID()).
		Str("observed_at", observedAt).
		Bool("overwritten", existing > 0).
		Dur("duration", time.Since(start)).
		Msg("observation stored")
	return result, nil
}

// Latest returns the most recent stored observation of a station.
func (r *ObservationRepository) Latest(ctx context.Context, stationID string) (models.CanonicalObservation, error) {
	var (
		f          models.ObservationFields
		observedAt string
		direction  sql.NullFloat64
		calm       bool
	)
	err := r.db.QueryRowContext(ctx, getLatestObservationSQL, stationID).Scan(
		&f.StationID, &observedAt, &f.TemperatureC, &f.HumidityPct, &f.WindSpeedKph, &direction, &calm,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CanonicalObservation{}, models.NewError(models.KindNotFound,
			"no observations stored for station "+stationID, nil)
	}
	if err != nil {
		return models.CanonicalObservation{}, r.fail(ctx, "query latest observation", err)
	}

	f.ObservedAt, err = time.Parse(time.RFC3339Nano, observedAt)
	if err != nil {
		return models.CanonicalObservation{}, r.fail(ctx, "parse stored timestamp", err)
	}

	switch {
	case calm:
		f.WindDirection = models.CalmWind()
	case direction.Valid:
		f.WindDirection, err = models.NewWindDirection(direction.Float64)
		if err != nil {
			return models.CanonicalObservation{}, r.fail(ctx, "stored wind direction", err)
		}
	default:
		return models.CanonicalObservation{}, r.fail(ctx, "stored wind direction", errors.New("neither bearing nor calm"))
	}

	obs, err := models.NewCanonicalObservation(f)
	if err != nil {
		return models.CanonicalObservation{}, r.fail(ctx, "stored observation", err)
	}
	return obs, nil
}

func (r *ObservationRepository) fail(ctx context.Context, op string, err error) error {
	r.log.Error().Ctx(ctx).Err(err).Str("op", op).Msg("observation store failed")
	return models.NewError(models.KindPersistence, op, err)
}
