package stations

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const refreshTimeout = 2 * time.Minute

type refreshable interface {
	Refresh(ctx context.Context) error
}

// Refresher reloads the station directory on a cron schedule.
type Refresher struct {
	directory refreshable
	logger    zerolog.Logger
	cron      *cron.Cron
	cancel    context.CancelFunc
	spec      string
}

func NewRefresher(directory refreshable, spec string, logger zerolog.Logger) *Refresher {
	logger = logger.With().Str("component", "DirectoryRefresher").Logger()
	return &Refresher{
		directory: directory,
		logger:    logger,
		cron:      cron.New(cron.WithSeconds()),
		spec:      spec,
	}
}

// Start loads the directory once, then schedules periodic reloads. A failed
// initial load is returned so callers can decide whether to serve without one.
func (r *Refresher) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	if _, err := r.cron.AddFunc(r.spec, func() { r.RunOnce(ctx) }); err != nil {
		cancel()
		r.logger.Error().Err(err).Str("spec", r.spec).Msg("failed to schedule directory refresh")
		return err
	}

	loadCtx, loadCancel := context.WithTimeout(ctx, refreshTimeout)
	defer loadCancel()
	err := r.directory.Refresh(loadCtx)

	r.cron.Start()
	r.logger.Info().Str("spec", r.spec).Msg("directory refresher started")
	return err
}

func (r *Refresher) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
	r.logger.Info().Msg("directory refresher stopped")
}

func (r *Refresher) RunOnce(ctx context.Context) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	if err := r.directory.Refresh(ctx); err != nil {
		return
	}
	r.logger.Debug().Dur("duration", time.Since(start)).Msg("scheduled refresh completed")
}
