package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
)

type geoResolver interface {
	Resolve(ctx context.Context, zipCode string) (models.Coordinates, error)
}

type stationDirectory interface {
	Candidates(ctx context.Context, point models.Coordinates) ([]models.StationCandidate, error)
}

type stationLocator interface {
	Nearest(point models.Coordinates, candidates []models.StationCandidate) (models.StationMatch, error)
}

type observationFetcher interface {
	Fetch(ctx context.Context, stationID string) (models.RawObservation, error)
}

type observationNormalizer interface {
	Normalize(raw models.RawObservation) (models.CanonicalObservation, error)
}

type observationWriter interface {
	Write(ctx context.Context, obs models.CanonicalObservation) (models.WriteResult, error)
}

type stageObserver interface {
	ObserveStage(stage models.Stage, d time.Duration, err error)
	ObserveRun(success bool)
}

// Dependencies are the collaborators a run is sequenced over.
type Dependencies struct {
	Geocoder   geoResolver
	Directory  stationDirectory
	Locator    stationLocator
	Fetcher    observationFetcher
	Normalizer observationNormalizer
	Writer     observationWriter
}

// Outcome is everything a successful run produced.
type Outcome struct {
	RunID       string
	Coordinates models.Coordinates
	Station     models.StationMatch
	Observation models.CanonicalObservation
	Write       models.WriteResult
	States      []State
}

// Orchestrator runs geocode -> station select -> fetch -> normalize -> persist.
// Runs share no mutable state and may execute concurrently.
type Orchestrator struct {
	deps     Dependencies
	tracer   trace.Tracer
	observer stageObserver
	logger   zerolog.Logger
}

type Option func(*Orchestrator)

func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) { o.tracer = t }
}

func WithObserver(obs stageObserver) Option {
	return func(o *Orchestrator) { o.observer = obs }
}

func New(deps Dependencies, logger zerolog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		deps:   deps,
		tracer: otel.Tracer("github.com/Nazarious-ucu/hvac-weather-recorder/internal/pipeline"),
		logger: logger.With().Str("component", "Pipeline").Logger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one pipeline run and reports it as a PipelineResult.
func (o *Orchestrator) Run(ctx context.Context, zipCode string) models.PipelineResult {
	out, err := o.Execute(ctx, zipCode)
	if err != nil {
		return models.PipelineResult{Error: ToResult(err)}
	}
	observedAt := out.Observation.ObservedAt()
	return models.PipelineResult{
		Success:    true,
		StationID:  out.Station.StationID,
		ObservedAt: &observedAt,
	}
}

// Execute runs every stage in order. A failure stops the run and is returned
// as a *StageError wrapping a classified *models.Error.
func (o *Orchestrator) Execute(ctx context.Context, zipCode string) (Outcome, error) {
	run := &run{
		Orchestrator: o,
		out:          Outcome{RunID: uuid.NewString(), States: []State{StateStart}},
	}
	run.log = o.logger.With().Str("run_id", run.out.RunID).Str("zip_code", zipCode).Logger()

	ctx, span := o.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("run.id", run.out.RunID),
		attribute.String("zip_code", zipCode),
	))
	defer span.End()

	err := run.execute(ctx, zipCode)
	if o.observer != nil {
		o.observer.ObserveRun(err == nil)
	}
	if err != nil {
		run.out.States = append(run.out.States, StateFailed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		res := ToResult(err)
		run.log.Warn().Ctx(ctx).
			Str("stage", string(res.Stage)).
			Str("kind", string(res.Kind)).
			Bool("retryable", res.Kind.Retryable()).
			Msg(res.Message)
		return run.out, err
	}

	run.out.States = append(run.out.States, StateDone)
	run.log.Info().Ctx(ctx).
		Str("station_id", run.out.Station.StationID).
		Float64("distance_km", run.out.Station.DistanceKm).
		Time("observed_at", run.out.Observation.ObservedAt()).
		Str("write_reason", run.out.Write.Reason).
		Msg("observation recorded")
	return run.out, nil
}

type run struct {
	*Orchestrator
	out Outcome
	log zerolog.Logger
}

func (r *run) execute(ctx context.Context, zipCode string) error {
	if err := r.stage(ctx, models.StageGeocode, StateGeocoded, func(ctx context.Context) error {
		coords, err := r.deps.Geocoder.Resolve(ctx, zipCode)
		r.out.Coordinates = coords
		return err
	}); err != nil {
		return err
	}

	if err := r.stage(ctx, models.StageStationSelect, StateStationSelected, func(ctx context.Context) error {
		candidates, err := r.deps.Directory.Candidates(ctx, r.out.Coordinates)
		if err != nil {
			return err
		}
		match, err := r.deps.Locator.Nearest(r.out.Coordinates, candidates)
		r.out.Station = match
		return err
	}); err != nil {
		return err
	}

	var raw models.RawObservation
	if err := r.stage(ctx, models.StageFetch, StateObservationFetched, func(ctx context.Context) error {
		var err error
		raw, err = r.deps.Fetcher.Fetch(ctx, r.out.Station.StationID)
		return err
	}); err != nil {
		return err
	}

	if err := r.stage(ctx, models.StageNormalize, StateNormalized, func(context.Context) error {
		obs, err := r.deps.Normalizer.Normalize(raw)
		r.out.Observation = obs
		return err
	}); err != nil {
		return err
	}

	return r.stage(ctx, models.StagePersist, StatePersisted, func(ctx context.Context) error {
		res, err := r.deps.Writer.Write(ctx, r.out.Observation)
		r.out.Write = res
		return err
	})
}

func (r *run) stage(ctx context.Context, stage models.Stage, next State, fn func(context.Context) error) error {
	ctx, span := r.tracer.Start(ctx, "pipeline."+string(stage))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	if r.observer != nil {
		r.observer.ObserveStage(stage, time.Since(start), err)
	}
	if err != nil {
		se := classify(stage, err)
		span.RecordError(se.Err)
		span.SetStatus(codes.Error, se.Err.Error())
		return se
	}

	r.out.States = append(r.out.States, next)
	r.log.Debug().Ctx(ctx).Str("state", string(next)).Dur("duration", time.Since(start)).Msg("stage completed")
	return nil
}
