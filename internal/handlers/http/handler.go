package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/comfort"
)

type pipelineRunner interface {
	Run(ctx context.Context, zipCode string) models.PipelineResult
}

type latestReader interface {
	Latest(ctx context.Context, stationID string) (models.CanonicalObservation, error)
}

// LatestResponse is a stored observation with its comfort assessment.
type LatestResponse struct {
	Observation models.CanonicalObservation `json:"observation"`
	Conditions  comfort.Conditions          `json:"conditions"`
}

type Handler struct {
	pipeline pipelineRunner
	store    latestReader
	limits   comfort.Limits
	timeout  time.Duration
	logger   zerolog.Logger
}

func NewHandler(
	pipeline pipelineRunner,
	store latestReader,
	limits comfort.Limits,
	timeout time.Duration,
	logger zerolog.Logger,
) *Handler {
	logger = logger.With().Str("component", "HTTPHandler").Logger()
	return &Handler{pipeline: pipeline, store: store, limits: limits, timeout: timeout, logger: logger}
}

// Register mounts the API routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	api.POST("/observations", h.RecordObservation)
	api.GET("/weather", h.GetWeather)
	api.GET("/stations/:id/observations/latest", h.LatestObservation)
}

// RecordObservation
// @Summary Record the current observation for a zip code
// @Description Geocodes the zip code, picks the nearest NWS station, fetches, normalizes and stores its latest observation
// @Tags observations
// @Accept json
// @Produce json
// @Param request body models.RecordRequest true "Zip code"
// @Success 201 {object} models.PipelineResult
// @Failure 400 {object} models.PipelineResult
// @Failure 404 {object} models.PipelineResult
// @Failure 502 {object} models.PipelineResult
// @Router /observations [post]
func (h *Handler) RecordObservation(c *gin.Context) {
	var req models.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug().Err(err).Msg("failed to bind request")
		c.JSON(http.StatusBadRequest, models.PipelineResult{Error: &models.ResultError{
			Kind:    models.KindInvalidInput,
			Message: "request body must be {\"zip_code\": \"<5 digits>\"}",
			Stage:   models.StageRequest,
		}})
		return
	}
	h.run(c, req.ZipCode)
}

// GetWeather
// @Summary Record the current observation for a zip code
// @Description Not a read: runs the full pipeline and stores the observation, exactly like POST /observations. Repeating it is safe because writes are idempotent per station and timestamp.
// @Tags observations
// @Produce json
// @Param zip query string true "Five digit US zip code"
// @Success 201 {object} models.PipelineResult
// @Failure 400 {object} models.PipelineResult
// @Failure 404 {object} models.PipelineResult
// @Router /weather [get]
func (h *Handler) GetWeather(c *gin.Context) {
	h.run(c, c.Query("zip"))
}

func (h *Handler) run(c *gin.Context, zipCode string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	result := h.pipeline.Run(ctx, zipCode)
	switch {
	case result.Success:
		c.JSON(http.StatusCreated, result)
	case result.Error != nil:
		c.JSON(StatusFor(result.Error.Kind), result)
	default:
		c.JSON(http.StatusInternalServerError, result)
	}
}

// LatestObservation
// @Summary Latest stored observation of a station
// @Description Returns the most recent stored observation with heat index, wind chill and adjusted HVAC limits
// @Tags observations
// @Produce json
// @Param id path string true "NWS station identifier"
// @Success 200 {object} LatestResponse
// @Failure 404
// @Failure 507
// @Router /stations/{id}/observations/latest [get]
func (h *Handler) LatestObservation(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	obs, err := h.store.Latest(ctx, c.Param("id"))
	if err != nil {
		var me *models.Error
		if !errors.As(err, &me) {
			me = models.NewError(models.KindPersistence, "", err)
		}
		c.JSON(StatusFor(me.Kind), gin.H{"error": me.Message(), "kind": me.Kind})
		return
	}

	c.JSON(http.StatusOK, LatestResponse{
		Observation: obs,
		Conditions:  comfort.Assess(obs, h.limits),
	})
}

// Health
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200
// @Router /healthz [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// StatusFor maps an error kind to the HTTP status returned to callers.
func StatusFor(kind models.Kind) int {
	switch kind {
	case models.KindInvalidInput:
		return http.StatusBadRequest
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindValidation:
		return http.StatusUnprocessableEntity
	case models.KindMalformedData:
		return http.StatusFailedDependency
	case models.KindUpstreamUnavailable:
		return http.StatusBadGateway
	case models.KindStaleData:
		return http.StatusServiceUnavailable
	case models.KindPersistence:
		return http.StatusInsufficientStorage
	default:
		return http.StatusInternalServerError
	}
}
