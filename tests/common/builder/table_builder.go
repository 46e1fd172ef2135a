//go:build unit || e2e

package builder

import (
	"time"

	"restaurant-engine/internal/domain/table"

	"github.com/google/uuid"
)

type TableBuilder struct {
	ID            uuid.UUID
	Number        int
	Capacity      int
	Location      string
	Status        table.Status
	OccupiedSince *time.Time
	Now           time.Time
}

func NewTableBuilder() *TableBuilder {
	return &TableBuilder{
		ID:       uuid.New(),
		Number:   1,
		Capacity: 4,
		Location: "terrace",
		Status:   table.StatusFree,
		Now:      time.Date(2025, 3, 14, 19, 0, 0, 0, time.UTC),
	}
}

func (b *TableBuilder) With(mutate func(*TableBuilder)) *TableBuilder {
	mutate(b)
	return b
}

func (b *TableBuilder) BuildDomain() (*table.Table, error) {
	since := b.OccupiedSince
	if b.Status == table.StatusOccupied && since == nil {
		s := b.Now
		since = &s
	}
	if b.Status != table.StatusOccupied {
		since = nil
	}
	if b.Number <= 0 {
		return nil, table.ErrInvalidNumber
	}
	if b.Capacity <= 0 {
		return nil, table.ErrInvalidCapacity
	}
	return table.Reconstruct(b.ID, b.Number, b.Capacity, b.Location, b.Status, b.Now, since)
}

// MustBuild is for fixtures where the builder values are known valid.
func (b *TableBuilder) MustBuild() *table.Table {
	t, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return t
}
