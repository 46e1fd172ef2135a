package memory

import (
	"context"
	"sync"

	"restaurant-engine/internal/usecase/shared"
)

// Sequence hands out per-day order numbers for a single process.
type Sequence struct {
	mu   sync.Mutex
	days map[string]int64
}

func NewSequence() shared.SequenceGenerator {
	return &Sequence{days: make(map[string]int64)}
}

func (s *Sequence) Next(_ context.Context, day string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days[day]++
	return s.days[day], nil
}
