//go:build unit

package pgconv

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
)

func TestUUIDConversions(t *testing.T) {
	id := uuid.New()

	assert.Nil(t, UUIDPtrFromPgtype(pgtype.UUID{}))
	assert.Equal(t, &id, UUIDPtrFromPgtype(UUIDPtrToPgtype(&id)))
	assert.False(t, UUIDPtrToPgtype(nil).Valid)

	ids := []uuid.UUID{uuid.New(), uuid.New()}
	assert.Equal(t, ids, UUIDsFromPgtype(UUIDsToPgtype(ids)))
	assert.Nil(t, UUIDsFromPgtype(nil))
	assert.Equal(t, []uuid.UUID{id}, UUIDsFromPgtype([]pgtype.UUID{{}, {Bytes: id, Valid: true}}))
}

func TestTimeConversions(t *testing.T) {
	ts := time.Date(2025, 3, 14, 19, 0, 0, 0, time.UTC)

	assert.Nil(t, TimePtrFromPgtype(pgtype.Timestamptz{}))
	assert.Equal(t, &ts, TimePtrFromPgtype(TimePtrToPgtype(&ts)))
	assert.False(t, TimePtrToPgtype(nil).Valid)
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		noRows bool
		unique bool
		fk     bool
	}{
		{name: "no rows", err: pgx.ErrNoRows, noRows: true},
		{name: "wrapped no rows", err: fmt.Errorf("find order: %w", pgx.ErrNoRows), noRows: true},
		{name: "unique", err: &pgconn.PgError{Code: "23505"}, unique: true},
		{name: "wrapped foreign key", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), fk: true},
		{name: "other pg error", err: &pgconn.PgError{Code: "40001"}},
		{name: "plain error", err: errors.New("boom")},
		{name: "nil", err: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.noRows, IsNoRows(tt.err))
			assert.Equal(t, tt.unique, IsUniqueViolation(tt.err))
			assert.Equal(t, tt.fk, IsForeignKeyViolation(tt.err))
		})
	}
}
