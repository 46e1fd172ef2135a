package order

import (
	"errors"
	"fmt"
	"time"

	"restaurant-engine/internal/domain/pricing"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus          = errors.New("invalid order status")
	ErrInvalidTransition      = errors.New("order state transition not allowed")
	ErrEmptyLines             = errors.New("order must contain at least one line")
	ErrMissingStaff           = errors.New("staff member is required")
	ErrInvalidNumber          = errors.New("invalid order number")
	ErrNotModifiable          = errors.New("order items can only change while pending")
	ErrModificationWindowOver = errors.New("modification window has elapsed")
	ErrTotalsMismatch         = errors.New("order totals do not reconcile")
	ErrInvalidPartySize       = errors.New("party size cannot be negative")
)

type Order struct {
	id                   uuid.UUID
	number               string
	tableID              *uuid.UUID
	customerID           *uuid.UUID
	staffID              uuid.UUID
	status               Status
	partySize            int
	lines                []Line
	totals               pricing.Totals
	notes                string
	estimatedPrepMinutes int
	reservationID        *uuid.UUID
	cancelReason         string
	sourceOrderIDs       []uuid.UUID
	version              int64
	createdAt            time.Time
	updatedAt            time.Time
}

type NewParams struct {
	ID                   uuid.UUID
	Number               string
	TableID              *uuid.UUID
	CustomerID           *uuid.UUID
	StaffID              uuid.UUID
	PartySize            int
	Lines                []Line
	Totals               pricing.Totals
	Notes                string
	EstimatedPrepMinutes int
	ReservationID        *uuid.UUID
}

// NewOrder creates a pending order. Totals must already be computed for the
// given lines.
func NewOrder(p NewParams, now time.Time) (*Order, error) {
	return build(p, StatusPending, nil, now)
}

// NewDerived creates an order produced by a split or consolidation. Derived
// orders start in Delivered, carry explicit totals and remember their sources.
func NewDerived(p NewParams, sources []uuid.UUID, now time.Time) (*Order, error) {
	srcs := make([]uuid.UUID, len(sources))
	copy(srcs, sources)
	return build(p, StatusDelivered, srcs, now)
}

func build(p NewParams, status Status, sources []uuid.UUID, now time.Time) (*Order, error) {
	if len(p.Lines) == 0 {
		return nil, ErrEmptyLines
	}
	if p.StaffID == uuid.Nil {
		return nil, ErrMissingStaff
	}
	if !ValidNumber(p.Number) {
		return nil, ErrInvalidNumber
	}
	if p.PartySize < 0 {
		return nil, ErrInvalidPartySize
	}
	if err := checkTotals(p.Lines, p.Totals); err != nil {
		return nil, err
	}
	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	lines := make([]Line, len(p.Lines))
	copy(lines, p.Lines)

	return &Order{
		id:                   id,
		number:               p.Number,
		tableID:              p.TableID,
		customerID:           p.CustomerID,
		staffID:              p.StaffID,
		status:               status,
		partySize:            p.PartySize,
		lines:                lines,
		totals:               p.Totals,
		notes:                p.Notes,
		estimatedPrepMinutes: p.EstimatedPrepMinutes,
		reservationID:        p.ReservationID,
		sourceOrderIDs:       sources,
		version:              1,
		createdAt:            now,
		updatedAt:            now,
	}, nil
}

func checkTotals(lines []Line, t pricing.Totals) error {
	sum := pricing.Zero
	for _, l := range lines {
		sum = sum.Add(l.Subtotal())
	}
	if !sum.Equal(t.Subtotal) || !t.Reconciles() {
		return ErrTotalsMismatch
	}
	return nil
}

type ReconstructParams struct {
	NewParams
	Status         Status
	CancelReason   string
	SourceOrderIDs []uuid.UUID
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Reconstruct rebuilds an order from storage without re-running creation rules.
func Reconstruct(p ReconstructParams) (*Order, error) {
	if !p.Status.IsValid() {
		return nil, ErrInvalidStatus
	}
	lines := make([]Line, len(p.Lines))
	copy(lines, p.Lines)
	return &Order{
		id:                   p.ID,
		number:               p.Number,
		tableID:              p.TableID,
		customerID:           p.CustomerID,
		staffID:              p.StaffID,
		status:               p.Status,
		partySize:            p.PartySize,
		lines:                lines,
		totals:               p.Totals,
		notes:                p.Notes,
		estimatedPrepMinutes: p.EstimatedPrepMinutes,
		reservationID:        p.ReservationID,
		cancelReason:         p.CancelReason,
		sourceOrderIDs:       p.SourceOrderIDs,
		version:              p.Version,
		createdAt:            p.CreatedAt,
		updatedAt:            p.UpdatedAt,
	}, nil
}

func (o *Order) ID() uuid.UUID               { return o.id }
func (o *Order) Number() string              { return o.number }
func (o *Order) TableID() *uuid.UUID         { return o.tableID }
func (o *Order) CustomerID() *uuid.UUID      { return o.customerID }
func (o *Order) StaffID() uuid.UUID          { return o.staffID }
func (o *Order) Status() Status              { return o.status }
func (o *Order) PartySize() int              { return o.partySize }
func (o *Order) Totals() pricing.Totals      { return o.totals }
func (o *Order) Notes() string               { return o.notes }
func (o *Order) EstimatedPrepMinutes() int   { return o.estimatedPrepMinutes }
func (o *Order) ReservationID() *uuid.UUID   { return o.reservationID }
func (o *Order) CancelReason() string        { return o.cancelReason }
func (o *Order) SourceOrderIDs() []uuid.UUID { return o.sourceOrderIDs }
func (o *Order) Version() int64              { return o.version }
func (o *Order) CreatedAt() time.Time        { return o.createdAt }
func (o *Order) UpdatedAt() time.Time        { return o.updatedAt }

func (o *Order) Clone() *Order {
	cp := *o
	cp.lines = make([]Line, len(o.lines))
	copy(cp.lines, o.lines)
	if o.sourceOrderIDs != nil {
		cp.sourceOrderIDs = make([]uuid.UUID, len(o.sourceOrderIDs))
		copy(cp.sourceOrderIDs, o.sourceOrderIDs)
	}
	return &cp
}

func (o *Order) Lines() []Line {
	out := make([]Line, len(o.lines))
	copy(out, o.lines)
	return out
}

func (o *Order) Line(id uuid.UUID) (Line, bool) {
	for _, l := range o.lines {
		if l.id == id {
			return l, true
		}
	}
	return Line{}, false
}

func (o *Order) TotalUnits() int {
	n := 0
	for _, l := range o.lines {
		n += l.quantity
	}
	return n
}

func (o *Order) IsActive() bool {
	return !o.status.IsTerminal()
}

func (o *Order) touch(now time.Time) {
	o.updatedAt = now
	o.version++
}

// TransitionTo applies the order transition table.
func (o *Order) TransitionTo(target Status, now time.Time) error {
	if !target.IsValid() {
		return ErrInvalidStatus
	}
	if !o.status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.status, target)
	}
	o.status = target
	o.touch(now)
	return nil
}

// Cancel moves the order to Cancelled and returns the refundable amount: the
// full total when the order never left Pending, zero otherwise.
func (o *Order) Cancel(reason string, now time.Time) (pricing.Money, error) {
	wasPending := o.status == StatusPending
	if err := o.TransitionTo(StatusCancelled, now); err != nil {
		return pricing.Zero, err
	}
	o.cancelReason = reason
	if wasPending {
		return o.totals.Total, nil
	}
	return pricing.Zero, nil
}

// CanModify reports whether the lines may still be replaced at now.
func (o *Order) CanModify(now time.Time, window time.Duration) error {
	if o.status != StatusPending {
		return ErrNotModifiable
	}
	if now.After(o.createdAt.Add(window)) {
		return ErrModificationWindowOver
	}
	return nil
}

// ReplaceLines swaps every line at once together with the totals and the hold
// that back them.
func (o *Order) ReplaceLines(lines []Line, totals pricing.Totals, prepMinutes int, reservationID *uuid.UUID, now time.Time, window time.Duration) error {
	if err := o.CanModify(now, window); err != nil {
		return err
	}
	if len(lines) == 0 {
		return ErrEmptyLines
	}
	if err := checkTotals(lines, totals); err != nil {
		return err
	}
	cp := make([]Line, len(lines))
	copy(cp, lines)
	o.lines = cp
	o.totals = totals
	o.estimatedPrepMinutes = prepMinutes
	o.reservationID = reservationID
	o.touch(now)
	return nil
}

// EstimatePrepMinutes is the slowest category present plus a per-unit
// complexity term for every unit beyond the first.
func EstimatePrepMinutes(categoryMinutes []int, totalUnits, minutesPerUnit int) int {
	slowest := 0
	for _, m := range categoryMinutes {
		if m > slowest {
			slowest = m
		}
	}
	if totalUnits <= 1 {
		return slowest
	}
	return slowest + minutesPerUnit*(totalUnits-1)
}
