package notify

import (
	"context"
	"log/slog"

	"restaurant-engine/internal/usecase/shared"
)

// LogSink writes events to the structured log. It is the default sink.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Send(ctx context.Context, evt shared.Event) error {
	attrs := []slog.Attr{
		slog.String("type", string(evt.Type)),
		slog.String("status", evt.Status),
		slog.Time("occurred_at", evt.OccurredAt),
	}
	if evt.OrderID != nil {
		attrs = append(attrs, slog.String("order_id", evt.OrderID.String()), slog.String("number", evt.Number))
	}
	if evt.TableID != nil {
		attrs = append(attrs, slog.String("table_id", evt.TableID.String()))
	}
	if evt.Previous != "" {
		attrs = append(attrs, slog.String("previous", evt.Previous))
	}
	for k, v := range evt.Attributes {
		attrs = append(attrs, slog.String(k, v))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "notification", attrs...)
	return nil
}

func (s *LogSink) Close() error { return nil }
