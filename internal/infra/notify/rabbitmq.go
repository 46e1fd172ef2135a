package notify

import (
	"context"
	"encoding/json"
	"sync"

	"restaurant-engine/internal/pkg/errs"
	"restaurant-engine/internal/usecase/shared"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQSink publishes events to a durable topic exchange. The routing key
// is the event type, e.g. "order.state_changed".
type RabbitMQSink struct {
	conn     *amqp.Connection
	exchange string

	mu sync.Mutex
	ch *amqp.Channel
}

func NewRabbitMQSink(url, exchange string) (*RabbitMQSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errs.Wrap(err, "connect to rabbitmq")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errs.Wrap(err, "open rabbitmq channel")
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, errs.Wrap(err, "declare exchange")
	}
	return &RabbitMQSink{conn: conn, exchange: exchange, ch: ch}, nil
}

func (s *RabbitMQSink) Name() string { return "rabbitmq" }

func (s *RabbitMQSink) Send(ctx context.Context, evt shared.Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return errs.Wrap(err, "marshal event")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch.IsClosed() {
		ch, err := s.conn.Channel()
		if err != nil {
			return errs.Wrap(err, "reopen rabbitmq channel")
		}
		s.ch = ch
	}
	err = s.ch.PublishWithContext(ctx, s.exchange, string(evt.Type), false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    evt.OccurredAt,
		Body:         body,
	})
	return errs.Wrap(err, "publish event")
}

func (s *RabbitMQSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch != nil && !s.ch.IsClosed() {
		_ = s.ch.Close()
	}
	return s.conn.Close()
}
