package database

import (
	"testing"

	"github.com/pashagolub/pgxmock/v4"
)

// Store tests run PostgresCommitStore against pgxmock through the DBTX
// interface: build a mock with NewMockPool, set query expectations, then
// call NewPostgresCommitStoreWithDB(mock). Unmet expectations fail the test
// on cleanup. Queries match as regular expressions.

// NewMockPool creates a pgxmock pool that verifies its expectations on cleanup
func NewMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(func() {
		mock.Close()
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled mock expectations: %v", err)
		}
	})
	return mock
}
