package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"restaurant-engine/internal/usecase/shared"
)

const (
	defaultBuffer = 256
	sendTimeout   = 3 * time.Second
)

// Sink delivers one event to an external system.
type Sink interface {
	Name() string
	Send(ctx context.Context, evt shared.Event) error
	Close() error
}

// Dispatcher decouples state changes from delivery. Publish enqueues and
// returns; a single worker drains the queue into the sink. When the queue is
// full the event is dropped and logged.
type Dispatcher struct {
	sink   Sink
	queue  chan shared.Event
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(sink Sink, buffer int, logger *slog.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Dispatcher{
		sink:   sink,
		queue:  make(chan shared.Event, buffer),
		logger: logger,
		done:   make(chan struct{}),
	}
}

func (d *Dispatcher) Publish(_ context.Context, evt shared.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}
	select {
	case d.queue <- evt:
	default:
		d.logger.Warn("notification queue full, dropping event",
			slog.String("type", string(evt.Type)),
			slog.String("sink", d.sink.Name()))
	}
}

func (d *Dispatcher) Start() {
	go func() {
		defer close(d.done)
		for evt := range d.queue {
			d.deliver(evt)
		}
	}()
}

func (d *Dispatcher) deliver(evt shared.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := d.sink.Send(ctx, evt); err != nil {
		d.logger.Error("failed to deliver notification",
			slog.String("type", string(evt.Type)),
			slog.String("sink", d.sink.Name()),
			slog.Any("error", err))
	}
}

// Stop flushes queued events and closes the sink.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	select {
	case <-d.done:
	case <-ctx.Done():
		d.logger.Warn("notification flush interrupted", slog.Int("pending", len(d.queue)))
	}
	return d.sink.Close()
}
