package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	swaggerfiles "github.com/swaggo/files"
	swagger "github.com/swaggo/gin-swagger"
	"github.com/wagslane/go-rabbitmq"
	"go.uber.org/zap"

	_ "github.com/Nazarious-ucu/hvac-weather-recorder/docs"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/config"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/consumer"
	httpHandlers "github.com/Nazarious-ucu/hvac-weather-recorder/internal/handlers/http"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/pipeline"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/producers"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/repository/sqlite"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/breaker"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/cache"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/comfort"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/geocode"
	loggerT "github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/logger"
	metricsSvc "github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/metrics"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/normalizer"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/observation"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/stations"
	fLogger "github.com/Nazarious-ucu/hvac-weather-recorder/pkg/logger"
	"github.com/Nazarious-ucu/hvac-weather-recorder/pkg/telemetry"
)

const (
	shutdownTimeout = 10 * time.Second
	version         = "1.0.0"
)

// ServiceContainer holds the wired recorder. Optional parts (Redis, RabbitMQ,
// the state directory) are nil when disabled.
type ServiceContainer struct {
	Pipeline   *pipeline.Orchestrator
	Repository *sqlite.ObservationRepository
	Directory  *stations.Directory
	Refresher  *stations.Refresher
	Producer   *producers.Producer
	Limits     comfort.Limits

	Db         *sql.DB
	Redis      *redis.Client
	Telemetry  *telemetry.Telemetry
	fileLogger *zap.Logger

	rabbitConn *rabbitmq.Conn
	publisher  *rabbitmq.Publisher
}

// App ties together config, logger and metrics for startup and shutdown.
type App struct {
	cfg config.Config
	l   zerolog.Logger
	m   *metricsSvc.Metrics
}

func New(cfg config.Config, logger zerolog.Logger, met *metricsSvc.Metrics) *App {
	return &App{cfg: cfg, l: logger, m: met}
}

// Start wires the recorder, serves HTTP (and the request queue when RabbitMQ
// is enabled) and blocks until ctx is cancelled.
func (a *App) Start(ctx context.Context) error {
	c, err := a.Build(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Shutdown(c); err != nil {
			a.l.Error().Err(err).Msg("failed to shutdown application")
		}
	}()

	if c.Refresher != nil {
		if err := c.Refresher.Start(ctx); err != nil {
			a.l.Warn().Err(err).Msg("initial station directory load failed, serving until the next refresh")
		}
	}

	if c.rabbitConn != nil {
		requests, err := a.setupRequestConsumer(c.rabbitConn)
		if err != nil {
			return err
		}
		defer requests.Close()

		handler := consumer.NewConsumer(ctx, c.Pipeline, c.Producer, a.m, a.requestTimeout(), a.l)
		go func() {
			if err := requests.Run(handler.ReceiveRequest); err != nil {
				a.l.Error().Err(err).Msg("request consumer stopped")
			}
		}()
	}

	srv := &http.Server{
		Addr:        a.cfg.ServerAddress(),
		Handler:     a.Router(c),
		ReadTimeout: time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.l.Info().Str("address", srv.Addr).Msg("http server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		a.l.Info().Msg("shutdown signal received, stopping recorder")
	case err := <-errCh:
		if err != nil {
			a.l.Error().Err(err).Msg("http server failed")
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.l.Error().Err(err).Msg("http shutdown error")
		return err
	}
	a.l.Info().Msg("http server stopped")
	return nil
}

// Build wires every pipeline collaborator without starting any server.
func (a *App) Build(ctx context.Context) (*ServiceContainer, error) {
	a.l.Info().Str("directory_source", a.cfg.Directory.Source).Msg("initializing recorder")
	c := &ServiceContainer{}

	limits, err := comfort.NewLimits(a.cfg.Safety.MinTemperatureC, a.cfg.Safety.MaxTemperatureC)
	if err != nil {
		return nil, err
	}
	c.Limits = limits

	tel, err := telemetry.New(ctx, telemetry.Config{
		Enabled:     a.cfg.Telemetry.Enabled,
		Endpoint:    a.cfg.Telemetry.Endpoint,
		ServiceName: a.cfg.ServiceName,
		Version:     version,
	})
	if err != nil {
		return nil, err
	}
	c.Telemetry = tel

	db, err := sqlite.Open(ctx, a.cfg.DB.Dialect, a.cfg.DB.Source)
	if err != nil {
		_ = a.Shutdown(c)
		return nil, err
	}
	c.Db = db
	if err := sqlite.Migrate(db, a.cfg.DB.Dialect); err != nil {
		_ = a.Shutdown(c)
		return nil, err
	}
	c.Repository = sqlite.NewObservationRepository(db, a.l)

	fileLogger, err := fLogger.NewFileLogger(a.cfg.HTTPLogPath)
	if err != nil {
		a.l.Error().Err(err).Msg("failed to create upstream file logger")
		fileLogger = zap.NewNop()
	}
	c.fileLogger = fileLogger

	httpClient := &http.Client{
		Transport: loggerT.NewRoundTripper(fileLogger, a.cfg.Upstream.UserAgent),
		Timeout:   time.Duration(a.cfg.Upstream.Timeout) * time.Second,
	}
	breakerCfg := breaker.Config{
		TimeInterval: time.Duration(a.cfg.Breaker.TimeInterval) * time.Second,
		TimeTimeOut:  time.Duration(a.cfg.Breaker.TimeTimeOut) * time.Second,
		RepeatNumber: a.cfg.Breaker.RepeatNumber,
	}

	deps := pipeline.Dependencies{
		Geocoder: a.geocoder(c, httpClient, breakerCfg),
		Locator:  stations.NewLocator(a.cfg.Pipeline.TieEpsilonKm, a.cfg.Pipeline.MaxStationKm),
		Fetcher: observation.NewFetcher(
			observation.NewBreakerClient(
				breaker.New("NWSObservations", breakerCfg, a.l),
				observation.NewNWSClient(a.cfg.Upstream.NWSURL, httpClient, a.l),
			),
			a.cfg.Pipeline.MaxObservationAge,
			a.l,
		),
		Writer: c.Repository,
	}

	source := stations.NewBreakerSource(
		breaker.New("NWSStations", breakerCfg, a.l),
		stations.NewNWSSource(a.cfg.Upstream.NWSURL, httpClient, a.l),
	)
	if a.cfg.Directory.Source == config.DirectorySourceState {
		c.Directory = stations.NewDirectory(source, a.cfg.Directory.States, a.m, a.l)
		c.Refresher = stations.NewRefresher(c.Directory, a.cfg.Directory.RefreshSpec, a.l)
		deps.Directory = c.Directory
	} else {
		deps.Directory = stations.NewPointDirectory(source)
	}

	norm, err := normalizer.New(normalizer.Units{
		Temperature:   a.cfg.Pipeline.TemperatureUnit,
		Humidity:      normalizer.UnitPercent,
		WindSpeed:     a.cfg.Pipeline.WindSpeedUnit,
		WindDirection: normalizer.UnitDegrees,
	})
	if err != nil {
		_ = a.Shutdown(c)
		return nil, err
	}
	deps.Normalizer = norm

	if a.cfg.RabbitMQ.Enabled {
		if err := a.setupRabbit(c); err != nil {
			_ = a.Shutdown(c)
			return nil, err
		}
		deps.Writer = producers.NewPublishingWriter(c.Repository, c.Producer)
	}

	c.Pipeline = pipeline.New(deps, a.l,
		pipeline.WithTracer(tel.Tracer()),
		pipeline.WithObserver(a.m),
	)
	return c, nil
}

func (a *App) geocoder(c *ServiceContainer, httpClient *http.Client, breakerCfg breaker.Config) *geocode.Resolver {
	var lookup interface {
		Lookup(ctx context.Context, zipCode string) (models.Coordinates, error)
	} = geocode.NewBreakerClient(
		breaker.New("Nominatim", breakerCfg, a.l),
		geocode.NewNominatimClient(a.cfg.Upstream.GeocoderURL, httpClient, a.l),
	)

	if a.cfg.Redis.Enabled {
		c.Redis = redis.NewClient(&redis.Options{Addr: a.cfg.Redis.Address(), DB: a.cfg.Redis.DbType})
		coordinates := cache.NewMetricsDecorator[models.Coordinates](
			cache.NewRedisClient[models.Coordinates](c.Redis, a.l, time.Duration(a.cfg.Redis.LiveTime)*time.Hour),
			metricsSvc.NewPromCollector("geocode", a.m.Registerer()),
		)
		lookup = geocode.NewCachedClient(lookup, coordinates, a.l)
	}

	return geocode.NewResolver(a.l, lookup)
}

// Router mounts the API, metrics and swagger routes over c.
func (a *App) Router(c *ServiceContainer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpHandlers.RequestID(a.l))
	router.Use(a.m.HTTPMiddleware())

	httpHandlers.NewHandler(c.Pipeline, c.Repository, c.Limits, a.requestTimeout(), a.l).Register(router)
	router.GET("/metrics", gin.WrapH(a.m.Handler()))
	router.GET("/swagger/*any", swagger.WrapHandler(swaggerfiles.Handler))
	return router
}

func (a *App) requestTimeout() time.Duration {
	return time.Duration(a.cfg.Server.RequestTimeout) * time.Second
}

// Shutdown releases everything Build acquired. It tolerates a partially
// built container.
func (a *App) Shutdown(c *ServiceContainer) error {
	a.l.Info().Msg("stopping recorder…")
	var errs []error

	if c.Refresher != nil {
		c.Refresher.Stop()
	}
	if c.publisher != nil {
		c.publisher.Close()
	}
	if c.rabbitConn != nil {
		if err := c.rabbitConn.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := c.Telemetry.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Db != nil {
		if err := c.Db.Close(); err != nil {
			errs = append(errs, err)
		} else {
			a.l.Info().Msg("database closed")
		}
	}
	if c.fileLogger != nil {
		if err := c.fileLogger.Sync(); err != nil {
			a.l.Debug().Err(err).Msg("failed to sync file logger")
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	a.l.Info().Msg("shutdown complete")
	return nil
}
