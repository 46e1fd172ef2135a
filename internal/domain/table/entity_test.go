//go:build unit

package table_test

import (
	"testing"
	"time"

	"restaurant-engine/internal/domain/table"
	"restaurant-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	now := time.Now()

	tbl, err := table.NewTable(uuid.Nil, 3, 4, "patio", now)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, tbl.ID())
	assert.Equal(t, table.StatusFree, tbl.Status())
	assert.Nil(t, tbl.OccupiedSince())

	_, err = table.NewTable(uuid.Nil, 0, 4, "", now)
	assert.ErrorIs(t, err, table.ErrInvalidNumber)
	_, err = table.NewTable(uuid.Nil, 1, 0, "", now)
	assert.ErrorIs(t, err, table.ErrInvalidCapacity)
}

func TestTable_TransitionTo(t *testing.T) {
	allowed := map[table.Status][]table.Status{
		table.StatusFree:        {table.StatusOccupied, table.StatusReserved, table.StatusMaintenance},
		table.StatusReserved:    {table.StatusOccupied, table.StatusFree, table.StatusMaintenance},
		table.StatusOccupied:    {table.StatusFree},
		table.StatusMaintenance: {table.StatusFree},
	}
	all := []table.Status{table.StatusFree, table.StatusOccupied, table.StatusReserved, table.StatusMaintenance}

	for _, from := range all {
		for _, to := range all {
			t.Run(from.String()+"->"+to.String(), func(t *testing.T) {
				tbl := builder.NewTableBuilder().With(func(b *builder.TableBuilder) { b.Status = from }).MustBuild()
				err := tbl.TransitionTo(to, time.Now())

				ok := false
				for _, s := range allowed[from] {
					ok = ok || s == to
				}
				if ok {
					require.NoError(t, err)
					assert.Equal(t, to, tbl.Status())
					return
				}
				require.ErrorIs(t, err, table.ErrInvalidTransition)
				assert.Equal(t, from, tbl.Status())
			})
		}
	}
}

func TestTable_OccupyAndRelease(t *testing.T) {
	start := time.Date(2025, 3, 14, 19, 0, 0, 0, time.UTC)
	tbl := builder.NewTableBuilder().With(func(b *builder.TableBuilder) { b.Now = start }).MustBuild()

	require.ErrorIs(t, tbl.Occupy(5, start), table.ErrOverCapacity)
	require.NoError(t, tbl.Occupy(4, start))
	require.NotNil(t, tbl.OccupiedSince())
	assert.ErrorIs(t, tbl.Occupy(2, start), table.ErrNotSeatable)
	assert.ErrorIs(t, tbl.TransitionTo(table.StatusMaintenance, start), table.ErrInvalidTransition)

	occupied, err := tbl.Release(start.Add(95 * time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 95*time.Minute, occupied)
	assert.Equal(t, table.StatusFree, tbl.Status())
	assert.Nil(t, tbl.OccupiedSince())

	_, err = tbl.Release(start)
	assert.ErrorIs(t, err, table.ErrInvalidTransition)
}

func TestTable_Claim(t *testing.T) {
	start := time.Date(2025, 3, 14, 19, 0, 0, 0, time.UTC)
	later := start.Add(10 * time.Minute)

	tests := []struct {
		name      string
		status    table.Status
		partySize int
		idle      bool
		wantErr   error
		wantSince time.Time
	}{
		{name: "free table is occupied now", status: table.StatusFree, partySize: 2, wantSince: later},
		{name: "reserved table is occupied now", status: table.StatusReserved, partySize: 4, wantSince: later},
		{name: "idle occupied table keeps its seating time", status: table.StatusOccupied, partySize: 3, idle: true, wantSince: start},
		{name: "busy occupied table is refused", status: table.StatusOccupied, partySize: 2, wantErr: table.ErrNotSeatable},
		{name: "idle occupied table still checks capacity", status: table.StatusOccupied, partySize: 5, idle: true, wantErr: table.ErrOverCapacity},
		{name: "maintenance is refused even when idle", status: table.StatusMaintenance, partySize: 2, idle: true, wantErr: table.ErrNotSeatable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := builder.NewTableBuilder().With(func(b *builder.TableBuilder) {
				b.Status = tt.status
				b.Now = start
			}).MustBuild()

			err := tbl.Claim(tt.partySize, tt.idle, later)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.status, tbl.Status())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, table.StatusOccupied, tbl.Status())
			require.NotNil(t, tbl.OccupiedSince())
			assert.Equal(t, tt.wantSince, *tbl.OccupiedSince())
		})
	}
}

func TestTable_Score(t *testing.T) {
	cases := []struct {
		name     string
		capacity int
		party    int
		location string
		pref     string
		want     int
	}{
		{name: "exact fit", capacity: 2, party: 2, want: 150},
		{name: "one seat spare", capacity: 3, party: 2, want: 115},
		{name: "two seats spare", capacity: 4, party: 2, want: 80},
		{name: "location match", capacity: 4, party: 2, location: "Window", pref: "window", want: 100},
		{name: "location mismatch", capacity: 4, party: 2, location: "bar", pref: "window", want: 80},
		{name: "large gap", capacity: 12, party: 2, want: 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tbl := builder.NewTableBuilder().With(func(b *builder.TableBuilder) {
				b.Capacity = c.capacity
				b.Location = c.location
			}).MustBuild()
			assert.Equal(t, c.want, tbl.Score(c.party, c.pref))
		})
	}
}

func TestSelectBest(t *testing.T) {
	mk := func(number, capacity int, status table.Status, location string) *table.Table {
		return builder.NewTableBuilder().With(func(b *builder.TableBuilder) {
			b.ID = uuid.New()
			b.Number = number
			b.Capacity = capacity
			b.Status = status
			b.Location = location
		}).MustBuild()
	}

	t.Run("prefers exact fit over larger tables", func(t *testing.T) {
		tables := []*table.Table{
			mk(1, 6, table.StatusFree, ""),
			mk(2, 4, table.StatusFree, ""),
			mk(3, 4, table.StatusOccupied, ""),
			mk(4, 2, table.StatusReserved, ""),
		}
		best, ok := table.SelectBest(tables, 4, "")
		require.True(t, ok)
		assert.Equal(t, 2, best.Number())
	})

	t.Run("ties broken by lowest number", func(t *testing.T) {
		tables := []*table.Table{mk(9, 4, table.StatusFree, ""), mk(5, 4, table.StatusFree, ""), mk(7, 4, table.StatusFree, "")}
		best, ok := table.SelectBest(tables, 3, "")
		require.True(t, ok)
		assert.Equal(t, 5, best.Number())
	})

	t.Run("location bonus can outweigh one seat", func(t *testing.T) {
		tables := []*table.Table{mk(1, 4, table.StatusFree, "bar"), mk(2, 5, table.StatusFree, "window")}
		// 4 seats for 3: 100-10+25 = 115; 5 seats for 3 at the window: 100-20+20 = 100
		best, ok := table.SelectBest(tables, 3, "window")
		require.True(t, ok)
		assert.Equal(t, 1, best.Number())

		tables = []*table.Table{mk(1, 6, table.StatusFree, "bar"), mk(2, 6, table.StatusFree, "window")}
		best, ok = table.SelectBest(tables, 3, "window")
		require.True(t, ok)
		assert.Equal(t, 2, best.Number())
	})

	t.Run("no candidate", func(t *testing.T) {
		tables := []*table.Table{mk(1, 2, table.StatusFree, ""), mk(2, 8, table.StatusMaintenance, "")}
		_, ok := table.SelectBest(tables, 4, "")
		assert.False(t, ok)
	})
}

func TestEstimateWait(t *testing.T) {
	now := time.Date(2025, 3, 14, 21, 0, 0, 0, time.UTC)
	occupied := func(capacity int, since time.Duration) *table.Table {
		s := now.Add(-since)
		return builder.NewTableBuilder().With(func(b *builder.TableBuilder) {
			b.ID = uuid.New()
			b.Capacity = capacity
			b.Status = table.StatusOccupied
			b.OccupiedSince = &s
		}).MustBuild()
	}

	tables := []*table.Table{occupied(4, 30*time.Minute), occupied(4, 50*time.Minute), occupied(2, 80*time.Minute)}

	assert.Equal(t, 40*time.Minute, table.EstimateWait(tables, 4, 90*time.Minute, time.Hour, now))
	assert.Equal(t, 10*time.Minute, table.EstimateWait(tables, 4, 0, time.Hour, now))
	assert.Equal(t, time.Duration(0), table.EstimateWait(tables, 2, 60*time.Minute, time.Hour, now))
	assert.Equal(t, time.Hour, table.EstimateWait(nil, 4, 0, time.Hour, now))
}

func TestRotationAlerts(t *testing.T) {
	now := time.Date(2025, 3, 14, 23, 0, 0, 0, time.UTC)
	mk := func(number int, since time.Duration) *table.Table {
		s := now.Add(-since)
		return builder.NewTableBuilder().With(func(b *builder.TableBuilder) {
			b.ID = uuid.New()
			b.Number = number
			b.Status = table.StatusOccupied
			b.OccupiedSince = &s
		}).MustBuild()
	}
	free := builder.NewTableBuilder().With(func(b *builder.TableBuilder) { b.Number = 9 }).MustBuild()

	alerts := table.RotationAlerts([]*table.Table{mk(1, 100*time.Minute), mk(2, 200*time.Minute), mk(3, 151*time.Minute), free}, 150*time.Minute, now)
	require.Len(t, alerts, 2)
	assert.Equal(t, 2, alerts[0].Number)
	assert.Equal(t, 3, alerts[1].Number)
	assert.Equal(t, 200*time.Minute, alerts[0].OccupiedFor)
}
