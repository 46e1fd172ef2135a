package table

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusFree        Status = "FREE"
	StatusOccupied    Status = "OCCUPIED"
	StatusReserved    Status = "RESERVED"
	StatusMaintenance Status = "MAINTENANCE"
)

var validNext = map[Status][]Status{
	StatusFree:        {StatusOccupied, StatusReserved, StatusMaintenance},
	StatusReserved:    {StatusOccupied, StatusFree, StatusMaintenance},
	StatusOccupied:    {StatusFree},
	StatusMaintenance: {StatusFree},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusFree, StatusOccupied, StatusReserved, StatusMaintenance:
		return true
	default:
		return false
	}
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
