package memory

import (
	"context"
	"time"

	"restaurant-engine/internal/domain/order"
	"restaurant-engine/internal/domain/stock"
	"restaurant-engine/internal/domain/table"
	"restaurant-engine/internal/infra"
	"restaurant-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type UnitOfWork struct {
	store *Store
}

func NewUnitOfWork(store *Store) shared.UnitOfWork {
	return &UnitOfWork{store: store}
}

// Within runs fn with exclusive write access. Changes made through tx become
// visible to readers only when fn returns nil.
func (u *UnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	select {
	case u.store.txCh <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-u.store.txCh }()

	st := newStaged()
	if err := fn(ctx, &memTx{store: u.store, st: st}); err != nil {
		return err
	}
	u.store.apply(st)
	return nil
}

// Reads sees committed state only.
func (u *UnitOfWork) Reads() shared.Tx {
	return &memTx{store: u.store}
}

// staged collects the writes of one transaction.
type staged struct {
	orders       map[uuid.UUID]*order.Order
	tables       map[uuid.UUID]*table.Table
	inventory    map[uuid.UUID]stock.InventoryRecord
	reservations map[uuid.UUID]*stock.Reservation
	history      []occupancy
}

func newStaged() *staged {
	return &staged{
		orders:       make(map[uuid.UUID]*order.Order),
		tables:       make(map[uuid.UUID]*table.Table),
		inventory:    make(map[uuid.UUID]stock.InventoryRecord),
		reservations: make(map[uuid.UUID]*stock.Reservation),
	}
}

type memTx struct {
	store *Store
	st    *staged // nil for read-only access
}

func (t *memTx) Orders() shared.OrderRepository             { return &orderRepo{tx: t} }
func (t *memTx) Tables() shared.TableRepository             { return &tableRepo{tx: t} }
func (t *memTx) Inventory() shared.InventoryRepository      { return &inventoryRepo{tx: t} }
func (t *memTx) Reservations() shared.ReservationRepository { return &reservationRepo{tx: t} }

var errReadOnly = infra.NewRepoErr(infra.KindDBFailure, "write attempted outside a transaction")

func (t *memTx) writable() error {
	if t.st == nil {
		return errReadOnly
	}
	return nil
}

func (t *memTx) order(id uuid.UUID) (*order.Order, bool) {
	if t.st != nil {
		if o, ok := t.st.orders[id]; ok {
			return o.Clone(), true
		}
	}
	return t.store.findOrder(id)
}

func (t *memTx) orders() []*order.Order {
	all := t.store.allOrders()
	if t.st == nil {
		return all
	}
	seen := make(map[uuid.UUID]bool, len(all))
	for i, o := range all {
		if s, ok := t.st.orders[o.ID()]; ok {
			all[i] = s.Clone()
		}
		seen[o.ID()] = true
	}
	for id, o := range t.st.orders {
		if !seen[id] {
			all = append(all, o.Clone())
		}
	}
	return all
}

func (t *memTx) table(id uuid.UUID) (*table.Table, bool) {
	if t.st != nil {
		if tb, ok := t.st.tables[id]; ok {
			return tb.Clone(), true
		}
	}
	return t.store.findTable(id)
}

func (t *memTx) tables() []*table.Table {
	all := t.store.allTables()
	if t.st == nil {
		return all
	}
	for i, tb := range all {
		if s, ok := t.st.tables[tb.ID()]; ok {
			all[i] = s.Clone()
		}
	}
	return all
}

func (t *memTx) inventory(id uuid.UUID) (stock.InventoryRecord, bool) {
	if t.st != nil {
		if rec, ok := t.st.inventory[id]; ok {
			return rec, true
		}
	}
	return t.store.findInventory(id)
}

func (t *memTx) reservation(id uuid.UUID) (*stock.Reservation, bool) {
	if t.st != nil {
		if r, ok := t.st.reservations[id]; ok {
			return r.Clone(), true
		}
	}
	return t.store.findReservation(id)
}

func (t *memTx) reservations() []*stock.Reservation {
	all := t.store.allReservations()
	if t.st == nil {
		return all
	}
	seen := make(map[uuid.UUID]bool, len(all))
	for i, r := range all {
		if s, ok := t.st.reservations[r.ID()]; ok {
			all[i] = s.Clone()
		}
		seen[r.ID()] = true
	}
	for id, r := range t.st.reservations {
		if !seen[id] {
			all = append(all, r.Clone())
		}
	}
	return all
}

func (t *memTx) history() []occupancy {
	h := t.store.occupancyHistory()
	if t.st != nil {
		h = append(h, t.st.history...)
	}
	return h
}

type orderRepo struct{ tx *memTx }

func (r *orderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := r.tx.order(id)
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "order not found")
	}
	return o, nil
}

func (r *orderRepo) Create(_ context.Context, o *order.Order) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	if _, ok := r.tx.order(o.ID()); ok {
		return infra.NewRepoErr(infra.KindDuplicateKey, "order already exists")
	}
	for _, existing := range r.tx.orders() {
		if existing.Number() == o.Number() {
			return infra.NewRepoErr(infra.KindDuplicateKey, "order number already used")
		}
	}
	r.tx.st.orders[o.ID()] = o.Clone()
	return nil
}

func (r *orderRepo) Update(_ context.Context, o *order.Order, expectedVersion int64) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	cur, ok := r.tx.order(o.ID())
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "order not found")
	}
	if cur.Version() != expectedVersion {
		return infra.NewRepoErr(infra.KindVersionConflict, "order was modified concurrently")
	}
	r.tx.st.orders[o.ID()] = o.Clone()
	return nil
}

func (r *orderRepo) ListActiveByTable(_ context.Context, tableID uuid.UUID) ([]*order.Order, error) {
	return filterOrders(r.tx.orders(), shared.OrderFilter{TableID: &tableID, Active: true}), nil
}

func (r *orderRepo) List(_ context.Context, filter shared.OrderFilter) ([]*order.Order, error) {
	return filterOrders(r.tx.orders(), filter), nil
}

type tableRepo struct{ tx *memTx }

func (r *tableRepo) FindByID(_ context.Context, id uuid.UUID) (*table.Table, error) {
	t, ok := r.tx.table(id)
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "table not found")
	}
	return t, nil
}

func (r *tableRepo) List(_ context.Context) ([]*table.Table, error) {
	return r.tx.tables(), nil
}

func (r *tableRepo) Save(_ context.Context, t *table.Table) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	if _, ok := r.tx.table(t.ID()); !ok {
		return infra.NewRepoErr(infra.KindNotFound, "table not found")
	}
	r.tx.st.tables[t.ID()] = t.Clone()
	return nil
}

func (r *tableRepo) RecordOccupancy(_ context.Context, tableID uuid.UUID, capacity int, occupied time.Duration, endedAt time.Time) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	r.tx.st.history = append(r.tx.st.history, occupancy{
		tableID:  tableID,
		capacity: capacity,
		duration: occupied,
		endedAt:  endedAt,
	})
	return nil
}

func (r *tableRepo) AverageOccupancy(_ context.Context, minCapacity int) (time.Duration, error) {
	return averageOccupancy(r.tx.history(), minCapacity), nil
}

type inventoryRepo struct{ tx *memTx }

func (r *inventoryRepo) Find(_ context.Context, productID uuid.UUID) (stock.InventoryRecord, error) {
	rec, ok := r.tx.inventory(productID)
	if !ok {
		return stock.InventoryRecord{}, infra.NewRepoErr(infra.KindNotFound, "inventory record not found")
	}
	return rec, nil
}

func (r *inventoryRepo) Adjust(_ context.Context, productID uuid.UUID, delta int) (stock.InventoryRecord, error) {
	if err := r.tx.writable(); err != nil {
		return stock.InventoryRecord{}, err
	}
	rec, ok := r.tx.inventory(productID)
	if !ok {
		return stock.InventoryRecord{}, infra.NewRepoErr(infra.KindNotFound, "inventory record not found")
	}
	if rec.OnHand+delta < 0 {
		return rec, infra.NewRepoErr(infra.KindInsufficientStock, "on-hand would go negative")
	}
	rec.OnHand += delta
	r.tx.st.inventory[productID] = rec
	return rec, nil
}

type reservationRepo struct{ tx *memTx }

func (r *reservationRepo) Create(_ context.Context, res *stock.Reservation) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	if _, ok := r.tx.reservation(res.ID()); ok {
		return infra.NewRepoErr(infra.KindDuplicateKey, "reservation already exists")
	}
	r.tx.st.reservations[res.ID()] = res.Clone()
	return nil
}

func (r *reservationRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.Reservation, error) {
	res, ok := r.tx.reservation(id)
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "reservation not found")
	}
	return res, nil
}

func (r *reservationRepo) Save(_ context.Context, res *stock.Reservation) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	if _, ok := r.tx.reservation(res.ID()); !ok {
		return infra.NewRepoErr(infra.KindNotFound, "reservation not found")
	}
	r.tx.st.reservations[res.ID()] = res.Clone()
	return nil
}

func (r *reservationRepo) HeldQuantity(_ context.Context, productID uuid.UUID, now time.Time, exclude uuid.UUID) (int, error) {
	total := 0
	for _, res := range r.tx.reservations() {
		if res.ID() == exclude || !res.IsLive(now) {
			continue
		}
		total += res.QuantityOf(productID)
	}
	return total, nil
}

func (r *reservationRepo) ListExpired(_ context.Context, now time.Time, limit int) ([]*stock.Reservation, error) {
	var out []*stock.Reservation
	for _, res := range r.tx.reservations() {
		if res.IsExpired(now) {
			out = append(out, res)
		}
	}
	sortReservations(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
