package producers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wagslane/go-rabbitmq"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/comfort"
	"github.com/Nazarious-ucu/hvac-weather-recorder/pkg/messaging"
)

type publisher interface {
	PublishWithContext(
		ctx context.Context,
		data []byte,
		routingKeys []string,
		optionFuncs ...func(*rabbitmq.PublishOptions),
	) error
}

type publishObserver interface {
	ObservePublish(routingKey string, err error)
}

// Producer publishes pipeline outcomes to the recorder exchange.
type Producer struct {
	prod     publisher
	log      zerolog.Logger
	limits   comfort.Limits
	observer publishObserver
}

func NewProducer(prod publisher, limits comfort.Limits, observer publishObserver, logger zerolog.Logger) *Producer {
	logger = logger.With().Str("component", "Producer").Logger()
	return &Producer{prod: prod, log: logger, limits: limits, observer: observer}
}

func (p *Producer) Publish(ctx context.Context, routingKey string, body []byte) error {
	err := p.prod.PublishWithContext(
		ctx,
		body,
		[]string{routingKey},
		rabbitmq.WithPublishOptionsContentType("application/json"),
		rabbitmq.WithPublishOptionsMandatory,
		rabbitmq.WithPublishOptionsPersistentDelivery,
		rabbitmq.WithPublishOptionsExchange(messaging.ExchangeName),
	)
	if p.observer != nil {
		p.observer.ObservePublish(routingKey, err)
	}
	if err != nil {
		p.log.Error().Ctx(ctx).Err(err).Str("routing_key", routingKey).Msg("failed to publish message")
		return err
	}
	p.log.Debug().Ctx(ctx).Str("routing_key", routingKey).Msg("message published")
	return nil
}

func (p *Producer) ObservationRecorded(ctx context.Context, obs models.CanonicalObservation) error {
	cond := comfort.Assess(obs, p.limits)
	event := messaging.ObservationRecordedEvent{
		StationID:           obs.StationID(),
		ObservedAt:          obs.ObservedAt(),
		TemperatureCelsius:  obs.TemperatureC(),
		RelativeHumidityPct: obs.HumidityPct(),
		WindSpeedKph:        obs.WindSpeedKph(),
		WindCalm:            obs.WindDirection().IsCalm(),
		Conditions: messaging.Conditions{
			HeatIndexC:   cond.HeatIndexC,
			WindChillC:   cond.WindChillC,
			ApparentC:    cond.ApparentC,
			SafeMinC:     cond.Limits.MinC,
			SafeMaxC:     cond.Limits.MaxC,
			WithinLimits: cond.WithinLimits,
		},
	}
	if deg, ok := obs.WindDirection().Degrees(); ok {
		event.WindDirectionDeg = &deg
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal recorded event: %w", err)
	}
	return p.Publish(ctx, messaging.RecordedRoutingKey, body)
}

func (p *Producer) ObservationFailed(ctx context.Context, zipCode string, failure models.ResultError) error {
	body, err := json.Marshal(messaging.ObservationFailedEvent{
		ZipCode: zipCode,
		Kind:    string(failure.Kind),
		Stage:   string(failure.Stage),
		Message: failure.Message,
	})
	if err != nil {
		return fmt.Errorf("marshal failed event: %w", err)
	}
	return p.Publish(ctx, messaging.FailedRoutingKey, body)
}
