package table

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus     = errors.New("invalid table status")
	ErrInvalidTransition = errors.New("table state transition not allowed")
	ErrInvalidNumber     = errors.New("table number must be positive")
	ErrInvalidCapacity   = errors.New("table capacity must be positive")
	ErrNotSeatable       = errors.New("table cannot seat a party in its current state")
	ErrOverCapacity      = errors.New("party size exceeds table capacity")
)

type Table struct {
	id              uuid.UUID
	number          int
	capacity        int
	location        string
	status          Status
	lastStateChange time.Time
	occupiedSince   *time.Time
}

func NewTable(id uuid.UUID, number, capacity int, location string, now time.Time) (*Table, error) {
	if number <= 0 {
		return nil, ErrInvalidNumber
	}
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &Table{
		id:              id,
		number:          number,
		capacity:        capacity,
		location:        location,
		status:          StatusFree,
		lastStateChange: now,
	}, nil
}

func Reconstruct(id uuid.UUID, number, capacity int, location string, status Status, lastStateChange time.Time, occupiedSince *time.Time) (*Table, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	return &Table{
		id:              id,
		number:          number,
		capacity:        capacity,
		location:        location,
		status:          status,
		lastStateChange: lastStateChange,
		occupiedSince:   occupiedSince,
	}, nil
}

func (t *Table) ID() uuid.UUID              { return t.id }
func (t *Table) Number() int                { return t.number }
func (t *Table) Capacity() int              { return t.capacity }
func (t *Table) Location() string           { return t.location }
func (t *Table) Status() Status             { return t.status }
func (t *Table) LastStateChange() time.Time { return t.lastStateChange }
func (t *Table) OccupiedSince() *time.Time  { return t.occupiedSince }

// Clone returns an independent copy, used by in-memory stores.
func (t *Table) Clone() *Table {
	cp := *t
	if t.occupiedSince != nil {
		s := *t.occupiedSince
		cp.occupiedSince = &s
	}
	return &cp
}

// CanSeat reports whether the table could be occupied by a party right now.
func (t *Table) CanSeat(partySize int) error {
	if t.status != StatusFree && t.status != StatusReserved {
		return ErrNotSeatable
	}
	if partySize > t.capacity {
		return ErrOverCapacity
	}
	return nil
}

func (t *Table) TransitionTo(target Status, now time.Time) error {
	if !target.IsValid() {
		return ErrInvalidStatus
	}
	if !t.status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.status, target)
	}
	if target == StatusOccupied {
		since := now
		t.occupiedSince = &since
	} else {
		t.occupiedSince = nil
	}
	t.status = target
	t.lastStateChange = now
	return nil
}

// Occupy seats a party; Free and Reserved tables accept it.
func (t *Table) Occupy(partySize int, now time.Time) error {
	if err := t.CanSeat(partySize); err != nil {
		return err
	}
	return t.TransitionTo(StatusOccupied, now)
}

// CanClaim reports whether an order for the party can take the table. An
// Occupied table qualifies only when idle, meaning a party was seated there
// without an order yet.
func (t *Table) CanClaim(partySize int, idle bool) error {
	if t.status == StatusOccupied && idle {
		if partySize > t.capacity {
			return ErrOverCapacity
		}
		return nil
	}
	return t.CanSeat(partySize)
}

// Claim seats the party for an order. An idle Occupied table keeps its
// original seating time.
func (t *Table) Claim(partySize int, idle bool, now time.Time) error {
	if err := t.CanClaim(partySize, idle); err != nil {
		return err
	}
	if t.status == StatusOccupied {
		return nil
	}
	return t.TransitionTo(StatusOccupied, now)
}

// Release frees an occupied table and returns how long it was occupied.
func (t *Table) Release(now time.Time) (time.Duration, error) {
	occupied := t.OccupiedFor(now)
	if err := t.TransitionTo(StatusFree, now); err != nil {
		return 0, err
	}
	return occupied, nil
}

func (t *Table) OccupiedFor(now time.Time) time.Duration {
	if t.status != StatusOccupied || t.occupiedSince == nil {
		return 0
	}
	return now.Sub(*t.occupiedSince)
}
