package order

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusPending       Status = "PENDING"
	StatusInPreparation Status = "IN_PREPARATION"
	StatusReady         Status = "READY"
	StatusDelivered     Status = "DELIVERED"
	StatusInvoiced      Status = "INVOICED"
	StatusCancelled     Status = "CANCELLED"
)

var validNext = map[Status][]Status{
	StatusPending:       {StatusInPreparation, StatusCancelled},
	StatusInPreparation: {StatusReady, StatusCancelled},
	StatusReady:         {StatusDelivered},
	StatusDelivered:     {StatusInvoiced},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInPreparation, StatusReady, StatusDelivered, StatusInvoiced, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusInvoiced || s == StatusCancelled
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, n := range validNext[s] {
		if n == target {
			return true
		}
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}
