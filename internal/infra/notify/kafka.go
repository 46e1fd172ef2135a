package notify

import (
	"context"
	"encoding/json"

	"restaurant-engine/internal/pkg/errs"
	"restaurant-engine/internal/usecase/shared"

	"github.com/segmentio/kafka-go"
)

// KafkaSink writes events keyed by order id, so one order's events stay on
// one partition in publish order.
type KafkaSink struct {
	w *kafka.Writer
}

func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
	}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Send(ctx context.Context, evt shared.Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return errs.Wrap(err, "marshal event")
	}
	var key []byte
	switch {
	case evt.OrderID != nil:
		key = []byte(evt.OrderID.String())
	case evt.TableID != nil:
		key = []byte(evt.TableID.String())
	}
	err = s.w.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: body,
		Time:  evt.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.Type)},
		},
	})
	return errs.Wrap(err, "write event")
}

func (s *KafkaSink) Close() error {
	return s.w.Close()
}
