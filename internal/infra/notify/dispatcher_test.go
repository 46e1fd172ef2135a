//go:build unit

package notify

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"restaurant-engine/internal/pkg/config"
	"restaurant-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSink struct {
	mock.Mock
}

func (m *MockSink) Name() string { return "mock" }

func (m *MockSink) Send(ctx context.Context, evt shared.Event) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func (m *MockSink) Close() error {
	args := m.Called()
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func event(typ shared.EventType) shared.Event {
	id := uuid.New()
	return shared.Event{Type: typ, OrderID: &id, Number: "ORD-20250314-0001", Status: "PENDING", OccurredAt: time.Now()}
}

func TestDispatcher(t *testing.T) {
	t.Run("delivers queued events in order and flushes on stop", func(t *testing.T) {
		sink := new(MockSink)
		var (
			mu   sync.Mutex
			seen []shared.EventType
		)
		sink.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, args.Get(1).(shared.Event).Type)
		}).Return(nil)
		sink.On("Close").Return(nil).Once()

		d := NewDispatcher(sink, 8, discardLogger())
		d.Start()
		d.Publish(context.Background(), event(shared.EventOrderCreated))
		d.Publish(context.Background(), event(shared.EventOrderStateChanged))

		require.NoError(t, d.Stop(context.Background()))
		assert.Equal(t, []shared.EventType{shared.EventOrderCreated, shared.EventOrderStateChanged}, seen)
		sink.AssertExpectations(t)
	})

	t.Run("drops events when the queue is full", func(t *testing.T) {
		sink := new(MockSink)
		sink.On("Send", mock.Anything, mock.Anything).Return(nil).Once()
		sink.On("Close").Return(nil)

		var logs bytes.Buffer
		d := NewDispatcher(sink, 1, slog.New(slog.NewTextHandler(&logs, nil)))
		// not started: the second publish finds the queue full
		d.Publish(context.Background(), event(shared.EventOrderCreated))
		d.Publish(context.Background(), event(shared.EventOrderModified))
		assert.Contains(t, logs.String(), "dropping event")

		d.Start()
		require.NoError(t, d.Stop(context.Background()))
		sink.AssertNumberOfCalls(t, "Send", 1)
	})

	t.Run("sink failures are logged, not propagated", func(t *testing.T) {
		sink := new(MockSink)
		sink.On("Send", mock.Anything, mock.Anything).Return(errors.New("broker down"))
		sink.On("Close").Return(nil)

		var logs bytes.Buffer
		d := NewDispatcher(sink, 4, slog.New(slog.NewTextHandler(&logs, nil)))
		d.Start()
		d.Publish(context.Background(), event(shared.EventTableStateChanged))
		require.NoError(t, d.Stop(context.Background()))
		assert.Contains(t, logs.String(), "broker down")
	})

	t.Run("publish after stop is ignored", func(t *testing.T) {
		sink := new(MockSink)
		sink.On("Close").Return(nil).Once()

		d := NewDispatcher(sink, 4, discardLogger())
		d.Start()
		require.NoError(t, d.Stop(context.Background()))
		require.NoError(t, d.Stop(context.Background()))
		d.Publish(context.Background(), event(shared.EventOrderCreated))
		sink.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})
}

func TestLogSink(t *testing.T) {
	var logs bytes.Buffer
	s := NewLogSink(slog.New(slog.NewJSONHandler(&logs, nil)))

	tableID := uuid.New()
	evt := event(shared.EventOrderStateChanged)
	evt.TableID = &tableID
	evt.Previous = "PENDING"
	evt.Status = "IN_PREPARATION"
	evt.Attributes = map[string]string{"staff": "ana"}

	require.NoError(t, s.Send(context.Background(), evt))
	out := logs.String()
	for _, want := range []string{`"type":"order.state_changed"`, `"previous":"PENDING"`, `"table_id":"` + tableID.String(), `"staff":"ana"`} {
		assert.Contains(t, out, want)
	}
}

func TestNewSink(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.NotifyConfig
		wantName string
		wantErr  bool
	}{
		{name: "default is log", cfg: config.NotifyConfig{}, wantName: "log"},
		{name: "explicit log", cfg: config.NotifyConfig{Driver: "log"}, wantName: "log"},
		{name: "kafka builds lazily", cfg: config.NotifyConfig{Driver: "kafka", KafkaBroker: []string{"localhost:9092"}, KafkaTopic: "orders"}, wantName: "kafka"},
		{name: "unknown driver", cfg: config.NotifyConfig{Driver: "smtp"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink, err := NewSink(tt.cfg, discardLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, sink.Name())
			assert.NoError(t, sink.Close())
		})
	}
}
