package errs

import (
	"errors"
	"strings"
)

type Kind string

const (
	KindValidation             Kind = "VALIDATION"
	KindIllegalState           Kind = "ILLEGAL_STATE"
	KindStateTransition        Kind = "STATE_TRANSITION"
	KindStockExhausted         Kind = "STOCK_EXHAUSTED"
	KindReservationExpired     Kind = "RESERVATION_EXPIRED"
	KindConcurrentModification Kind = "CONCURRENT_MODIFICATION"
	KindNotFound               Kind = "NOT_FOUND"
	KindTimeout                Kind = "TIMEOUT"
)

// Violation names one offending input field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the structured business error returned by every engine operation.
// Expected rule violations are values of this type, never panics.
type Error struct {
	Kind       Kind
	Message    string
	Violations []Violation
	cause      error
}

func (e *Error) Error() string {
	if len(e.Violations) == 0 {
		return string(e.Kind) + ": " + e.Message
	}
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Field + ": " + v.Message
	}
	return string(e.Kind) + ": " + e.Message + " [" + strings.Join(parts, "; ") + "]"
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Validation(msg string, violations ...Violation) error {
	e := newError(KindValidation, msg)
	e.Violations = violations
	return e
}

func IllegalState(msg string) error {
	return newError(KindIllegalState, msg)
}

func StateTransition(from, to string) error {
	return newError(KindStateTransition, "transition "+from+" -> "+to+" is not allowed")
}

func StockExhausted(msg string, violations ...Violation) error {
	e := newError(KindStockExhausted, msg)
	e.Violations = violations
	return e
}

func ReservationExpired(msg string) error {
	return newError(KindReservationExpired, msg)
}

func ConcurrentModification(msg string) error {
	return newError(KindConcurrentModification, msg)
}

func NotFound(msg string) error {
	return newError(KindNotFound, msg)
}

func Timeout(cause error) error {
	e := newError(KindTimeout, "operation deadline exceeded")
	e.cause = cause
	return e
}

// WithCause attaches the low-level error that triggered a business error.
func WithCause(err error, cause error) error {
	var e *Error
	if errors.As(err, &e) {
		cp := *e
		cp.cause = cause
		return &cp
	}
	return err
}

// KindOf reports the business kind of err, or "" for infrastructure failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// AsError extracts the structured error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func ViolationsOf(err error) []Violation {
	var e *Error
	if errors.As(err, &e) {
		return e.Violations
	}
	return nil
}

// Collector accumulates validation violations without stopping at the first one.
type Collector struct {
	violations []Violation
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Add(field, msg string) {
	c.violations = append(c.violations, Violation{Field: field, Message: msg})
}

// Check adds the violation when cond is false.
func (c *Collector) Check(cond bool, field, msg string) {
	if !cond {
		c.Add(field, msg)
	}
}

func (c *Collector) Merge(err error) {
	if err == nil {
		return
	}
	if vs := ViolationsOf(err); len(vs) > 0 {
		c.violations = append(c.violations, vs...)
		return
	}
	c.Add("", err.Error())
}

func (c *Collector) HasViolations() bool {
	return len(c.violations) > 0
}

func (c *Collector) Err(msg string) error {
	if len(c.violations) == 0 {
		return nil
	}
	out := make([]Violation, len(c.violations))
	copy(out, c.violations)
	return Validation(msg, out...)
}
