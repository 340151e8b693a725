package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const authQueue = "auth.events"

// Publisher sends auth events to RabbitMQ. Publishing is strictly
// best-effort: every error is logged and returned, and callers ignore the
// return value in request flows so that broker downtime never fails an
// authentication.
type Publisher struct {
	url string
	log zerolog.Logger
}

// NewPublisher returns a Publisher for the given AMQP URL. An empty URL
// yields a disabled publisher whose Publish is a no-op.
func NewPublisher(url string, log zerolog.Logger) *Publisher {
	return &Publisher{url: url, log: log}
}

// Publish marshals the event and sends it to the auth.events queue.
// The queue is declared durable and messages are marked persistent.
func (p *Publisher) Publish(ctx context.Context, event AuthEvent) error {
	if p == nil || p.url == "" {
		return nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Error().Err(err).Msg("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Error().Err(err).Msg("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare so publishing works regardless of consumer startup order.
	if _, err := ch.QueueDeclare(authQueue, true, false, false, false, nil); err != nil {
		p.log.Error().Err(err).Msg("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.log.Error().Err(err).Msg("rabbitmq: marshal event failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", authQueue, false, false, pub); err != nil {
		p.log.Error().Err(err).Str("kind", event.Kind).Msg("rabbitmq: publish failed")
		return err
	}
	return nil
}
