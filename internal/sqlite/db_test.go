package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"tasks",
		"activity_log",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}

	// Running again must be harmless.
	require.NoError(t, db.RunMigrations())
}

// TestTasksTable_CompletionCheck verifies the completed/completion_time pairing is enforced
func TestTasksTable_CompletionCheck(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO tasks (name, completed, completion_time) VALUES (?, 1, NULL)`, "bad")
	require.Error(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO tasks (name, completed, completion_time) VALUES (?, 0, CURRENT_TIMESTAMP)`, "bad")
	require.Error(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO tasks (name) VALUES (?)`, "   ")
	require.Error(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO tasks (name) VALUES (?)`, "ok")
	require.NoError(t, err)
}
