package stations

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
)

type stateLister interface {
	ListByStates(ctx context.Context, states []string) ([]models.StationCandidate, error)
}

type pointLister interface {
	ListNear(ctx context.Context, point models.Coordinates) ([]models.StationCandidate, error)
}

type directoryObserver interface {
	ObserveDirectory(size int, err error)
}

// Snapshot is an immutable view of the station directory.
type Snapshot struct {
	Stations    []models.StationCandidate
	RefreshedAt time.Time
}

// Directory serves candidates from the last complete snapshot. Refresh builds
// a new snapshot off to the side and publishes it with a single pointer swap,
// so readers see either the old list or the new one.
type Directory struct {
	source   stateLister
	states   []string
	observer directoryObserver
	logger   zerolog.Logger
	current  atomic.Pointer[Snapshot]
}

func NewDirectory(source stateLister, states []string, observer directoryObserver, logger zerolog.Logger) *Directory {
	logger = logger.With().Str("component", "StationDirectory").Logger()
	return &Directory{source: source, states: states, observer: observer, logger: logger}
}

// Candidates ignores point: the snapshot already covers the configured states.
func (d *Directory) Candidates(_ context.Context, _ models.Coordinates) ([]models.StationCandidate, error) {
	snap := d.current.Load()
	if snap == nil {
		return nil, models.NewError(models.KindNoStationsAvailable, "station directory has not been loaded", nil)
	}
	return snap.Stations, nil
}

func (d *Directory) Snapshot() *Snapshot {
	return d.current.Load()
}

// Refresh replaces the snapshot. On failure the previous snapshot stays in place.
func (d *Directory) Refresh(ctx context.Context) error {
	stations, err := d.source.ListByStates(ctx, d.states)
	if err != nil {
		d.observe(0, err)
		d.logger.Error().Ctx(ctx).Err(err).Strs("states", d.states).Msg("directory refresh failed")
		return err
	}

	d.current.Store(&Snapshot{Stations: stations, RefreshedAt: time.Now().UTC()})
	d.observe(len(stations), nil)
	d.logger.Info().Ctx(ctx).Int("stations", len(stations)).Strs("states", d.states).Msg("directory refreshed")
	return nil
}

func (d *Directory) observe(size int, err error) {
	if d.observer != nil {
		d.observer.ObserveDirectory(size, err)
	}
}

// PointDirectory asks NWS for the stations around each requested point.
type PointDirectory struct {
	source pointLister
}

func NewPointDirectory(source pointLister) *PointDirectory {
	return &PointDirectory{source: source}
}

func (p *PointDirectory) Candidates(ctx context.Context, point models.Coordinates) ([]models.StationCandidate, error) {
	return p.source.ListNear(ctx, point)
}
