package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/repository/sqlite"
)

const dialect = "sqlite"

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(context.Background(), dialect, filepath.Join(t.TempDir(), "observations.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, sqlite.Migrate(db, dialect))
	return db
}

func newObservation(t *testing.T, observedAt time.Time, tempC float64, dir models.WindDirection) models.CanonicalObservation {
	t.Helper()
	obs, err := models.NewCanonicalObservation(models.ObservationFields{
		StationID:     "KAGC",
		ObservedAt:    observedAt,
		TemperatureC:  tempC,
		HumidityPct:   45,
		WindSpeedKph:  8.05,
		WindDirection: dir,
	})
	require.NoError(t, err)
	return obs
}

func south(t *testing.T) models.WindDirection {
	t.Helper()
	d, err := models.NewWindDirection(180)
	require.NoError(t, err)
	return d
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM observations`).Scan(&n))
	return n
}

func TestObservationRepository_WriteIsIdempotent(t *testing.T) {
	db := newDB(t)
	repo := sqlite.NewObservationRepository(db, zerolog.Nop())
	ctx := context.Background()
	obs := newObservation(t, time.Date(2025, 6, 1, 16, 51, 0, 0, time.UTC), 21.11, south(t))

	first, err := repo.Write(ctx, obs)
	require.NoError(t, err)
	second, err := repo.Write(ctx, obs)
	require.NoError(t, err)

	assert.True(t, first.Accepted)
	assert.Empty(t, first.Reason)
	assert.True(t, second.Accepted)
	assert.Equal(t, models.WriteReasonOverwritten, second.Reason)
	assert.Equal(t, 1, countRows(t, db))
}

func TestObservationRepository_SameInstantDifferentZone(t *testing.T) {
	db := newDB(t)
	repo := sqlite.NewObservationRepository(db, zerolog.Nop())
	ctx := context.Background()

	utc := time.Date(2025, 6, 1, 16, 51, 0, 0, time.UTC)
	edt := utc.In(time.FixedZone("EDT", -4*3600))

	_, err := repo.Write(ctx, newObservation(t, utc, 21.0, south(t)))
	require.NoError(t, err)
	res, err := repo.Write(ctx, newObservation(t, edt, 22.0, south(t)))
	require.NoError(t, err)

	assert.Equal(t, models.WriteReasonOverwritten, res.Reason)
	assert.Equal(t, 1, countRows(t, db))

	latest, err := repo.Latest(ctx, "KAGC")
	require.NoError(t, err)
	assert.Equal(t, 22.0, latest.TemperatureC())
}

func TestObservationRepository_Latest(t *testing.T) {
	db := newDB(t)
	repo := sqlite.NewObservationRepository(db, zerolog.Nop())
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 16, 0, 0, 0, time.UTC)

	_, err := repo.Write(ctx, newObservation(t, base.Add(500*time.Millisecond), 20, south(t)))
	require.NoError(t, err)
	_, err = repo.Write(ctx, newObservation(t, base.Add(time.Hour), 23, models.CalmWind()))
	require.NoError(t, err)
	_, err = repo.Write(ctx, newObservation(t, base, 19, south(t)))
	require.NoError(t, err)

	latest, err := repo.Latest(ctx, "KAGC")
	require.NoError(t, err)

	assert.Equal(t, base.Add(time.Hour), latest.ObservedAt())
	assert.Equal(t, 23.0, latest.TemperatureC())
	assert.True(t, latest.WindDirection().IsCalm())
}

func TestObservationRepository_LatestNotFound(t *testing.T) {
	repo := sqlite.NewObservationRepository(newDB(t), zerolog.Nop())

	_, err := repo.Latest(context.Background(), "KXYZ")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestObservationRepository_NorthIsStoredAsBearing(t *testing.T) {
	repo := sqlite.NewObservationRepository(newDB(t), zerolog.Nop())
	ctx := context.Background()
	north, err := models.NewWindDirection(0)
	require.NoError(t, err)

	_, err = repo.Write(ctx, newObservation(t, time.Date(2025, 6, 1, 16, 51, 0, 0, time.UTC), 21, north))
	require.NoError(t, err)

	latest, err := repo.Latest(ctx, "KAGC")
	require.NoError(t, err)
	deg, ok := latest.WindDirection().Degrees()
	assert.True(t, ok)
	assert.Zero(t, deg)
}

func TestObservationRepository_ConcurrentWritesSameKey(t *testing.T) {
	db := newDB(t)
	repo := sqlite.NewObservationRepository(db, zerolog.Nop())
	obs := newObservation(t, time.Date(2025, 6, 1, 16, 51, 0, 0, time.UTC), 21.11, south(t))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := repo.Write(context.Background(), obs)
			assert.NoError(t, err)
			assert.True(t, res.Accepted)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, countRows(t, db))
}

func TestObservationRepository_ClosedDB(t *testing.T) {
	db := newDB(t)
	repo := sqlite.NewObservationRepository(db, zerolog.Nop())
	require.NoError(t, db.Close())

	_, err := repo.Write(context.Background(),
		newObservation(t, time.Date(2025, 6, 1, 16, 51, 0, 0, time.UTC), 21.11, south(t)))
	assert.ErrorIs(t, err, models.ErrPersistence)
}

func TestOpen_EmptyName(t *testing.T) {
	_, err := sqlite.Open(context.Background(), dialect, "")
	assert.Error(t, err)
}
