//go:build unit

package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"restaurant-engine/internal/domain/order"
	"restaurant-engine/internal/domain/pricing"
	"restaurant-engine/internal/domain/stock"
	"restaurant-engine/internal/domain/table"
	"restaurant-engine/internal/infra/catalog"
	"restaurant-engine/internal/infra/lock"
	"restaurant-engine/internal/infra/memory"
	"restaurant-engine/internal/pkg/clock"
	"restaurant-engine/internal/usecase/commands"
	"restaurant-engine/internal/usecase/shared"
	sharedmock "restaurant-engine/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	mofongoID  = uuid.MustParse("6f1c2a10-0000-4000-8000-000000000001")
	sancochoID = uuid.MustParse("6f1c2a10-0000-4000-8000-000000000002")
	tostonesID = uuid.MustParse("6f1c2a10-0000-4000-8000-000000000003")
	morirID    = uuid.MustParse("6f1c2a10-0000-4000-8000-000000000004")
	retiredID  = uuid.MustParse("6f1c2a10-0000-4000-8000-000000000009")
	almuerzoID = uuid.MustParse("7a2d3b20-0000-4000-8000-000000000001")

	table1ID = uuid.MustParse("8b3e4c30-0000-4000-8000-000000000001")
	table2ID = uuid.MustParse("8b3e4c30-0000-4000-8000-000000000002")
	table3ID = uuid.MustParse("8b3e4c30-0000-4000-8000-000000000003")
	table4ID = uuid.MustParse("8b3e4c30-0000-4000-8000-000000000004")

	staffID = uuid.MustParse("5e000000-0000-4000-8000-000000000001")

	openingTime = time.Date(2025, 3, 14, 19, 0, 0, 0, time.UTC)
)

const testCatalog = `
categories:
  - {name: drink, prep_minutes: 3}
  - {name: appetizer, prep_minutes: 10}
  - {name: entree, prep_minutes: 20}
products:
  - {id: 6f1c2a10-0000-4000-8000-000000000001, name: Mofongo, category: entree, price: "500.00"}
  - {id: 6f1c2a10-0000-4000-8000-000000000002, name: Sancocho, category: entree, price: "450.00"}
  - {id: 6f1c2a10-0000-4000-8000-000000000003, name: Tostones, category: appetizer, price: "180.00"}
  - {id: 6f1c2a10-0000-4000-8000-000000000004, name: Morir Sonando, category: drink, price: "120.00"}
  - {id: 6f1c2a10-0000-4000-8000-000000000009, name: Chivo Guisado, category: entree, price: "520.00", inactive: true}
combos:
  - id: 7a2d3b20-0000-4000-8000-000000000001
    name: Almuerzo Criollo
    price: "620.00"
    components:
      - {product_id: 6f1c2a10-0000-4000-8000-000000000002, quantity: 1}
      - {product_id: 6f1c2a10-0000-4000-8000-000000000003, quantity: 1}
      - {product_id: 6f1c2a10-0000-4000-8000-000000000004, quantity: 1}
tables:
  - {id: 8b3e4c30-0000-4000-8000-000000000001, number: 1, capacity: 2, location: window}
  - {id: 8b3e4c30-0000-4000-8000-000000000002, number: 2, capacity: 4, location: window}
  - {id: 8b3e4c30-0000-4000-8000-000000000003, number: 3, capacity: 4, location: terrace}
  - {id: 8b3e4c30-0000-4000-8000-000000000004, number: 4, capacity: 6, location: main}
inventory:
  - {product_id: 6f1c2a10-0000-4000-8000-000000000001, on_hand: 40, reorder_threshold: 5}
  - {product_id: 6f1c2a10-0000-4000-8000-000000000002, on_hand: 20, reorder_threshold: 5}
  - {product_id: 6f1c2a10-0000-4000-8000-000000000003, on_hand: 8, reorder_threshold: 2}
  - {product_id: 6f1c2a10-0000-4000-8000-000000000004, on_hand: 50, reorder_threshold: 10}
`

type fixture struct {
	clock    *clock.MockClock
	uow      shared.UnitOfWork
	ledger   commands.StockLedger
	tables   commands.TableCommands
	orders   commands.OrderCommands
	events   *eventLog
	settings commands.Settings
}

type eventLog struct {
	mu     sync.Mutex
	events []shared.Event
}

func (l *eventLog) record(_ context.Context, evt shared.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, evt)
}

func (l *eventLog) ofType(typ shared.EventType) []shared.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []shared.Event
	for _, e := range l.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

type fixtureOption func(*fixtureDeps)

type fixtureDeps struct {
	sequence   shared.SequenceGenerator
	wrapLedger func(commands.StockLedger) commands.StockLedger
}

func withSequence(seq shared.SequenceGenerator) fixtureOption {
	return func(d *fixtureDeps) { d.sequence = seq }
}

// withLedger lets a test decorate the stock ledger the order commands see.
func withLedger(wrap func(commands.StockLedger) commands.StockLedger) fixtureOption {
	return func(d *fixtureDeps) { d.wrapLedger = wrap }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	cat, err := catalog.Parse([]byte(testCatalog))
	require.NoError(t, err)

	clk := clock.NewMockClock(openingTime)
	store := memory.NewStore()
	floor, err := cat.Tables(clk.Now())
	require.NoError(t, err)
	require.NoError(t, store.Seed(context.Background(), floor, cat.Inventory()))

	deps := &fixtureDeps{sequence: memory.NewSequence()}
	for _, opt := range opts {
		opt(deps)
	}

	ctrl := gomock.NewController(t)
	events := &eventLog{}
	notifier := sharedmock.NewMockNotifier(ctrl)
	notifier.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(events.record).AnyTimes()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	settings := commands.DefaultSettings()
	uow := memory.NewUnitOfWork(store)
	locker := lock.NewMemoryLocker()

	ledger := commands.NewStockLedger(uow, locker, clk, settings, logger)
	tables := commands.NewTableCommands(uow, locker, notifier, clk, settings, logger)
	orderLedger := ledger
	if deps.wrapLedger != nil {
		orderLedger = deps.wrapLedger(ledger)
	}
	orders := commands.NewOrderCommands(uow, cat, orderLedger, tables, pricing.NewEngine(pricing.DefaultConfig()), deps.sequence, locker, notifier, clk, settings, logger)

	return &fixture{
		clock:    clk,
		uow:      uow,
		ledger:   ledger,
		tables:   tables,
		orders:   orders,
		events:   events,
		settings: settings,
	}
}

func item(productID uuid.UUID, qty int) commands.ItemInput {
	return commands.ItemInput{Target: order.ProductTarget{ProductID: productID}, Quantity: qty}
}

func combo(comboID uuid.UUID, qty int) commands.ItemInput {
	return commands.ItemInput{Target: order.ComboTarget{ComboID: comboID}, Quantity: qty}
}

func (f *fixture) onHand(t *testing.T, productID uuid.UUID) int {
	t.Helper()
	rec, err := f.uow.Reads().Inventory().Find(context.Background(), productID)
	require.NoError(t, err)
	return rec.OnHand
}

func (f *fixture) available(t *testing.T, productID uuid.UUID) int {
	t.Helper()
	av, err := f.ledger.CheckAvailability(context.Background(), productID, 1)
	require.NoError(t, err)
	return av.Available
}

func (f *fixture) table(t *testing.T, id uuid.UUID) *table.Table {
	t.Helper()
	tb, err := f.uow.Reads().Tables().FindByID(context.Background(), id)
	require.NoError(t, err)
	return tb
}

func (f *fixture) order(t *testing.T, id uuid.UUID) *order.Order {
	t.Helper()
	o, err := f.uow.Reads().Orders().FindByID(context.Background(), id)
	require.NoError(t, err)
	return o
}

func (f *fixture) reservation(t *testing.T, id uuid.UUID) *stock.Reservation {
	t.Helper()
	r, err := f.uow.Reads().Reservations().FindByID(context.Background(), id)
	require.NoError(t, err)
	return r
}

// seatedOrder creates a pending order on tableID.
func (f *fixture) seatedOrder(t *testing.T, tableID uuid.UUID, partySize int, items ...commands.ItemInput) *order.Order {
	t.Helper()
	res, err := f.orders.CreateOrder(context.Background(), commands.CreateOrderInput{
		Items:     items,
		TableID:   &tableID,
		PartySize: partySize,
		StaffID:   staffID,
	})
	require.NoError(t, err)
	return res.Order
}

// advance walks an order along the happy path from its current status until
// it reaches status.
func (f *fixture) advance(t *testing.T, id uuid.UUID, status order.Status) *order.Order {
	t.Helper()
	path := []order.Status{order.StatusPending, order.StatusInPreparation, order.StatusReady, order.StatusDelivered, order.StatusInvoiced}
	o := f.order(t, id)
	from := slices.Index(path, o.Status())
	require.GreaterOrEqual(t, from, 0, "order %s is off the happy path", o.Status())
	for _, next := range path[from+1:] {
		if o.Status() == status {
			break
		}
		var err error
		o, err = f.orders.ChangeState(context.Background(), id, next, nil)
		require.NoError(t, err)
	}
	return o
}

// gatedSequence parks the first Next call until resume is closed.
type gatedSequence struct {
	inner   shared.SequenceGenerator
	once    sync.Once
	reached chan struct{}
	resume  chan struct{}
}

func newGatedSequence() *gatedSequence {
	return &gatedSequence{
		inner:   memory.NewSequence(),
		reached: make(chan struct{}),
		resume:  make(chan struct{}),
	}
}

func (g *gatedSequence) Next(ctx context.Context, day string) (int64, error) {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.reached)
		select {
		case <-g.resume:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return g.inner.Next(ctx, day)
}

// failingRelease is a ledger whose Release always fails.
type failingRelease struct {
	commands.StockLedger
}

func (failingRelease) Release(context.Context, uuid.UUID) (*stock.Reservation, error) {
	return nil, errors.New("ledger unavailable")
}
