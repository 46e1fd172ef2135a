package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"restaurant-engine/internal/domain/order"
	"restaurant-engine/internal/domain/stock"
	"restaurant-engine/internal/domain/table"
	"restaurant-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// occupancy is one finished seating, kept to estimate wait times.
type occupancy struct {
	tableID  uuid.UUID
	capacity int
	duration time.Duration
	endedAt  time.Time
}

// historyWindow bounds how many finished seatings feed the average.
const historyWindow = 50

type state struct {
	orders       map[uuid.UUID]*order.Order
	tables       map[uuid.UUID]*table.Table
	inventory    map[uuid.UUID]stock.InventoryRecord
	reservations map[uuid.UUID]*stock.Reservation
	history      []occupancy
}

func newState() *state {
	return &state{
		orders:       make(map[uuid.UUID]*order.Order),
		tables:       make(map[uuid.UUID]*table.Table),
		inventory:    make(map[uuid.UUID]stock.InventoryRecord),
		reservations: make(map[uuid.UUID]*stock.Reservation),
	}
}

// Store is a process-local implementation of every repository port. Writes
// go through UnitOfWork.Within, which serializes transactions and stages
// changes until fn returns nil.
type Store struct {
	mu   sync.RWMutex
	data *state
	txCh chan struct{}
}

func NewStore() *Store {
	return &Store{
		data: newState(),
		txCh: make(chan struct{}, 1),
	}
}

// Seed inserts tables and inventory rows that are not yet known.
func (s *Store) Seed(_ context.Context, tables []*table.Table, inventory []stock.InventoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range tables {
		if _, ok := s.data.tables[t.ID()]; !ok {
			s.data.tables[t.ID()] = t.Clone()
		}
	}
	for _, rec := range inventory {
		if _, ok := s.data.inventory[rec.ProductID]; !ok {
			s.data.inventory[rec.ProductID] = rec
		}
	}
	return nil
}

// snapshot views of committed state

func (s *Store) findOrder(id uuid.UUID) (*order.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.data.orders[id]
	if !ok {
		return nil, false
	}
	return o.Clone(), true
}

func (s *Store) allOrders() []*order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*order.Order, 0, len(s.data.orders))
	for _, o := range s.data.orders {
		out = append(out, o.Clone())
	}
	return out
}

func (s *Store) findTable(id uuid.UUID) (*table.Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.data.tables[id]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

func (s *Store) allTables() []*table.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*table.Table, 0, len(s.data.tables))
	for _, t := range s.data.tables {
		out = append(out, t.Clone())
	}
	return out
}

func (s *Store) findInventory(id uuid.UUID) (stock.InventoryRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.data.inventory[id]
	return rec, ok
}

func (s *Store) findReservation(id uuid.UUID) (*stock.Reservation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.data.reservations[id]
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}

func (s *Store) allReservations() []*stock.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*stock.Reservation, 0, len(s.data.reservations))
	for _, r := range s.data.reservations {
		out = append(out, r.Clone())
	}
	return out
}

func (s *Store) occupancyHistory() []occupancy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]occupancy, len(s.data.history))
	copy(out, s.data.history)
	return out
}

func (s *Store) apply(st *staged) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, o := range st.orders {
		s.data.orders[id] = o
	}
	for id, t := range st.tables {
		s.data.tables[id] = t
	}
	for id, rec := range st.inventory {
		s.data.inventory[id] = rec
	}
	for id, r := range st.reservations {
		s.data.reservations[id] = r
	}
	s.data.history = append(s.data.history, st.history...)
	if n := len(s.data.history); n > historyWindow*4 {
		s.data.history = append([]occupancy(nil), s.data.history[n-historyWindow:]...)
	}
}

func filterOrders(orders []*order.Order, f shared.OrderFilter) []*order.Order {
	out := make([]*order.Order, 0, len(orders))
	for _, o := range orders {
		if f.Status != nil && o.Status() != *f.Status {
			continue
		}
		if f.TableID != nil && (o.TableID() == nil || *o.TableID() != *f.TableID) {
			continue
		}
		if f.Active && !o.IsActive() {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].CreatedAt().Before(out[j].CreatedAt())
		}
		return out[i].Number() < out[j].Number()
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

func averageOccupancy(history []occupancy, minCapacity int) time.Duration {
	var total time.Duration
	n := 0
	for i := len(history) - 1; i >= 0 && n < historyWindow; i-- {
		if history[i].capacity < minCapacity {
			continue
		}
		total += history[i].duration
		n++
	}
	if n == 0 {
		return 0
	}
	return total / time.Duration(n)
}

func sortReservations(rs []*stock.Reservation) {
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].ExpiresAt().Equal(rs[j].ExpiresAt()) {
			return rs[i].ExpiresAt().Before(rs[j].ExpiresAt())
		}
		return rs[i].ID().String() < rs[j].ID().String()
	})
}
