package app

import (
	"github.com/wagslane/go-rabbitmq"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/producers"
	"github.com/Nazarious-ucu/hvac-weather-recorder/pkg/messaging"
)

func (a *App) setupRabbit(c *ServiceContainer) error {
	conn, err := a.setupConn()
	if err != nil {
		return err
	}
	c.rabbitConn = conn

	publisher, err := a.setupPublisher(conn)
	if err != nil {
		return err
	}
	c.publisher = publisher
	c.Producer = producers.NewProducer(publisher, c.Limits, a.m, a.l)
	return nil
}

func (a *App) setupConn() (*rabbitmq.Conn, error) {
	conn, err := rabbitmq.NewConn(
		a.cfg.RabbitMQ.Address(),
		rabbitmq.WithConnectionOptionsLogging,
	)
	if err != nil {
		a.l.Error().Err(err).Msg("failed to connect to RabbitMQ")
		return nil, err
	}

	a.l.Info().Str("host", a.cfg.RabbitMQ.Host).Msg("connected to RabbitMQ")
	return conn, nil
}

// Publisher for observation.recorded and observation.failed events.
func (a *App) setupPublisher(conn *rabbitmq.Conn) (*rabbitmq.Publisher, error) {
	publisher, err := rabbitmq.NewPublisher(
		conn,
		rabbitmq.WithPublisherOptionsExchangeName(messaging.ExchangeName),
		rabbitmq.WithPublisherOptionsExchangeDeclare,
		rabbitmq.WithPublisherOptionsLogging,
		rabbitmq.WithPublisherOptionsExchangeDurable,
	)
	if err != nil {
		return nil, err
	}

	publisher.NotifyReturn(func(r rabbitmq.Return) {
		a.l.Warn().
			Str("routing_key", r.RoutingKey).
			Uint16("reply_code", r.ReplyCode).
			Msg("message returned from server")
	})

	return publisher, nil
}

// Consumer for queued observation requests.
func (a *App) setupRequestConsumer(conn *rabbitmq.Conn) (*rabbitmq.Consumer, error) {
	return rabbitmq.NewConsumer(
		conn,
		messaging.RequestQueueName,
		rabbitmq.WithConsumerOptionsExchangeName(messaging.ExchangeName),
		rabbitmq.WithConsumerOptionsExchangeDeclare,
		rabbitmq.WithConsumerOptionsExchangeDurable,
		rabbitmq.WithConsumerOptionsRoutingKey(messaging.RequestRoutingKey),
		rabbitmq.WithConsumerOptionsQueueDurable,
	)
}
