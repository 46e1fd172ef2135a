package notify

import (
	"log/slog"

	"restaurant-engine/internal/pkg/config"
	"restaurant-engine/internal/pkg/errs"
)

func NewSink(cfg config.NotifyConfig, logger *slog.Logger) (Sink, error) {
	switch cfg.Driver {
	case "", "log":
		return NewLogSink(logger), nil
	case "rabbitmq":
		return NewRabbitMQSink(cfg.RabbitMQURL, cfg.Exchange)
	case "kafka":
		return NewKafkaSink(cfg.KafkaBroker, cfg.KafkaTopic), nil
	default:
		return nil, errs.New("unknown notify driver: " + cfg.Driver)
	}
}
