//go:build unit

package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want []string
	}{
		{name: "empty", keys: nil, want: []string{}},
		{name: "sorted", keys: []string{"table:2", "stock:a", "order:1"}, want: []string{"order:1", "stock:a", "table:2"}},
		{name: "duplicates", keys: []string{"stock:a", "stock:a", "order:1"}, want: []string{"order:1", "stock:a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize(tt.keys))
		})
	}
}

func TestMemoryLocker(t *testing.T) {
	t.Run("serializes holders of the same key", func(t *testing.T) {
		l := NewMemoryLocker()
		var (
			wg      sync.WaitGroup
			inside  atomic.Int32
			maxSeen atomic.Int32
		)
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock, err := l.Lock(context.Background(), "stock:a")
				require.NoError(t, err)
				n := inside.Add(1)
				if n > maxSeen.Load() {
					maxSeen.Store(n)
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)
				unlock()
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), maxSeen.Load())
	})

	t.Run("duplicate keys in one call do not deadlock", func(t *testing.T) {
		l := NewMemoryLocker()
		unlock, err := l.Lock(context.Background(), "table:1", "table:1")
		require.NoError(t, err)
		unlock()
	})

	t.Run("context expiry releases partial acquisitions", func(t *testing.T) {
		l := NewMemoryLocker()
		unlockB, err := l.Lock(context.Background(), "b")
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err = l.Lock(ctx, "a", "b")
		require.ErrorIs(t, err, context.DeadlineExceeded)

		unlockA, err := l.Lock(context.Background(), "a")
		require.NoError(t, err, "a must have been released after the failed call")
		unlockA()
		unlockB()
	})

	t.Run("unlock is idempotent and cleans up", func(t *testing.T) {
		l := NewMemoryLocker()
		unlock, err := l.Lock(context.Background(), "order:1", "table:1")
		require.NoError(t, err)
		unlock()
		unlock()
		assert.Empty(t, l.(*MemoryLocker).locks)
	})
}
