package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
)

const divisor = 100

// Metrics holds Prometheus metric vectors for the recorder.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP server metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Pipeline metrics
	PipelineRunsTotal     *prometheus.CounterVec
	PipelineFailuresTotal *prometheus.CounterVec
	StageDuration         *prometheus.HistogramVec

	// Station directory
	DirectoryStations      prometheus.Gauge
	DirectoryRefreshTotal  *prometheus.CounterVec
	DirectoryRefreshedUnix prometheus.Gauge

	// Queue boundary
	ConsumerMessagesTotal *prometheus.CounterVec
	PublishTotal          *prometheus.CounterVec
}

// NewMetrics constructs and registers all recorder metrics on a private registry.
func NewMetrics(serviceName string) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests received",
			},
			[]string{"method", "endpoint", "status_class"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: serviceName,
				Name:      "http_request_duration_seconds",
				Help:      "Histogram of HTTP request latencies",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		PipelineRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "pipeline_runs_total",
				Help:      "Pipeline runs by outcome",
			},
			[]string{"outcome"},
		),
		PipelineFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "pipeline_failures_total",
				Help:      "Pipeline failures by stage and error kind",
			},
			[]string{"stage", "kind"},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: serviceName,
				Name:      "pipeline_stage_duration_seconds",
				Help:      "Latency of each pipeline stage",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),

		DirectoryStations: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: serviceName,
				Name:      "station_directory_size",
				Help:      "Stations in the current directory snapshot",
			},
		),
		DirectoryRefreshTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "station_directory_refresh_total",
				Help:      "Station directory refreshes by result",
			},
			[]string{"result"},
		),
		DirectoryRefreshedUnix: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: serviceName,
				Name:      "station_directory_refreshed_timestamp_seconds",
				Help:      "Unix time of the last successful directory refresh",
			},
		),

		ConsumerMessagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "consumer_messages_total",
				Help:      "Queued observation requests by result",
			},
			[]string{"result"},
		),
		PublishTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "rabbit_publish_total",
				Help:      "RabbitMQ publishes by routing key and result",
			},
			[]string{"routing_key", "result"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.PipelineRunsTotal,
		m.PipelineFailuresTotal,
		m.StageDuration,
		m.DirectoryStations,
		m.DirectoryRefreshTotal,
		m.DirectoryRefreshedUnix,
		m.ConsumerMessagesTotal,
		m.PublishTotal,
		collectors.NewGoCollector(
			collectors.WithGoCollectorRuntimeMetrics(
				collectors.GoRuntimeMetricsRule{Matcher: regexp.MustCompile("/sched/latencies:seconds")},
			),
		),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registerer exposes the private registry for collectors owned by other packages.
func (m *Metrics) Registerer() prometheus.Registerer {
	return m.registry
}

// Handler serves the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// HTTPMiddleware returns a Gin middleware to instrument HTTP endpoints.
func (m *Metrics) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		d := time.Since(start)

		m.HTTPRequestsTotal.With(prometheus.Labels{
			"method":       c.Request.Method,
			"endpoint":     c.FullPath(),
			"status_class": getStatusClass(c.Writer.Status()),
		}).Inc()
		m.HTTPRequestDuration.With(prometheus.Labels{
			"method":   c.Request.Method,
			"endpoint": c.FullPath(),
		}).Observe(d.Seconds())
	}
}

// ObserveStage records one stage execution.
func (m *Metrics) ObserveStage(stage models.Stage, d time.Duration, err error) {
	m.StageDuration.WithLabelValues(string(stage)).Observe(d.Seconds())
	if err == nil {
		return
	}
	kind := "unclassified"
	var me *models.Error
	if errors.As(err, &me) {
		kind = string(me.Kind)
	}
	m.PipelineFailuresTotal.WithLabelValues(string(stage), kind).Inc()
}

// ObserveRun records the final outcome of a pipeline run.
func (m *Metrics) ObserveRun(success bool) {
	outcome := "failed"
	if success {
		outcome = "success"
	}
	m.PipelineRunsTotal.WithLabelValues(outcome).Inc()
}

// ObserveDirectory records a station directory refresh attempt.
func (m *Metrics) ObserveDirectory(size int, err error) {
	if err != nil {
		m.DirectoryRefreshTotal.WithLabelValues("error").Inc()
		return
	}
	m.DirectoryRefreshTotal.WithLabelValues("success").Inc()
	m.DirectoryStations.Set(float64(size))
	m.DirectoryRefreshedUnix.SetToCurrentTime()
}

// ObserveMessage records the handling result of a queued request.
func (m *Metrics) ObserveMessage(result string) {
	m.ConsumerMessagesTotal.WithLabelValues(result).Inc()
}

// ObservePublish records a RabbitMQ publish attempt.
func (m *Metrics) ObservePublish(routingKey string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.PublishTotal.WithLabelValues(routingKey, result).Inc()
}

func getStatusClass(code int) string {
	return fmt.Sprintf("%dxx", code/divisor)
}
