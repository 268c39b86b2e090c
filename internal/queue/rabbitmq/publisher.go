package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/21haoxingxiu/core/internal/config"
	"github.com/21haoxingxiu/core/internal/event"
	"github.com/21haoxingxiu/core/internal/queue"
)

type Publisher struct {
	url      string
	logger   *zap.Logger
	exchange string
	workerID int
}

func NewPublisher(cfg *config.Config, logger *zap.Logger) queue.Publisher {
	if cfg.RabbitMQURL == "" {
		return queue.NoopPublisher{}
	}
	return &Publisher{
		url:      cfg.RabbitMQURL,
		logger:   logger,
		exchange: cfg.RabbitExchange,
		workerID: cfg.WorkerID,
	}
}

func (p *Publisher) Publish(ctx context.Context, payload []byte, routingKey string) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.ExchangeDeclare(
		p.exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	if err := ch.PublishWithContext(ctx,
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			Headers:      outgoingHeaders(ctx, p.workerID),
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         payload,
		},
	); err != nil {
		p.logger.Error("rabbitmq publish failed", zap.String("routing_key", routingKey), zap.Error(err))
		return err
	}

	return nil
}

// Forwarder sends bus events to the leader's queue.
type Forwarder struct {
	pub    queue.Publisher
	prefix string
}

func NewForwarder(cfg *config.Config, pub queue.Publisher) *Forwarder {
	prefix := cfg.RabbitPublishPrefix
	if prefix == "" {
		prefix = "event"
	}
	return &Forwarder{pub: pub, prefix: prefix}
}

func (f *Forwarder) Forward(ctx context.Context, e event.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return f.pub.Publish(ctx, payload, f.prefix+"."+string(e.Kind))
}
