package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/wagslane/go-rabbitmq"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
	"github.com/Nazarious-ucu/hvac-weather-recorder/pkg/messaging"
)

const publishTimeout = 5 * time.Second

type pipelineRunner interface {
	Run(ctx context.Context, zipCode string) models.PipelineResult
}

type failurePublisher interface {
	ObservationFailed(ctx context.Context, zipCode string, failure models.ResultError) error
}

type messageObserver interface {
	ObserveMessage(result string)
}

// Consumer runs the pipeline for queued observation requests.
type Consumer struct {
	ctx      context.Context
	pipeline pipelineRunner
	failures failurePublisher
	observer messageObserver
	timeout  time.Duration
	logger   zerolog.Logger
}

func NewConsumer(
	ctx context.Context,
	pipeline pipelineRunner,
	failures failurePublisher,
	observer messageObserver,
	timeout time.Duration,
	logger zerolog.Logger,
) *Consumer {
	logger = logger.With().Str("component", "Consumer").Logger()
	return &Consumer{
		ctx:      ctx,
		pipeline: pipeline,
		failures: failures,
		observer: observer,
		timeout:  timeout,
		logger:   logger,
	}
}

// ReceiveRequest handles ObservationRequestEvent messages. The outcome of a
// processed request is always acknowledged; failures are reported on the
// observation.failed routing key.
func (c *Consumer) ReceiveRequest(d rabbitmq.Delivery) rabbitmq.Action {
	c.logger.Debug().
		Str("payload", string(d.Body)).
		Msg("received observation request")

	var evt messaging.ObservationRequestEvent
	if err := json.Unmarshal(d.Body, &evt); err != nil {
		c.logger.Error().
			Err(err).
			Str("event", messaging.RequestRoutingKey).
			Msg("unmarshal error")
		c.observe("invalid")
		return rabbitmq.NackDiscard
	}

	ctx, cancel := context.WithTimeout(c.ctx, c.timeout)
	defer cancel()

	result := c.pipeline.Run(ctx, evt.ZipCode)
	if result.Success {
		c.logger.Info().
			Str("zip_code", evt.ZipCode).
			Str("station_id", result.StationID).
			Msg("observation recorded")
		c.observe("success")
		return rabbitmq.Ack
	}

	failure := models.ResultError{Kind: models.KindUpstreamUnavailable, Stage: models.StageRequest}
	if result.Error != nil {
		failure = *result.Error
	}
	// The run context may already be past its deadline.
	pubCtx, pubCancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer pubCancel()
	if err := c.failures.ObservationFailed(pubCtx, evt.ZipCode, failure); err != nil {
		c.logger.Error().
			Err(err).
			Str("zip_code", evt.ZipCode).
			Msg("failed to publish failure event")
		c.observe("error")
		return rabbitmq.NackDiscard
	}

	c.logger.Warn().
		Str("zip_code", evt.ZipCode).
		Str("kind", string(failure.Kind)).
		Str("stage", string(failure.Stage)).
		Msg("observation request failed")
	c.observe("failed")
	return rabbitmq.Ack
}

func (c *Consumer) observe(result string) {
	if c.observer != nil {
		c.observer.ObserveMessage(result)
	}
}
