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

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", "user_activities").Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count, "table user_activities not found")

	// Re-running is harmless
	require.NoError(t, db.RunMigrations())
}

// TestActivitiesTable verifies the column set and the non-empty checks
func TestActivitiesTable(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	rows, err := db.QueryContext(ctx, "PRAGMA table_info(user_activities)")
	require.NoError(t, err)
	var columns []string
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue any
			pk        int
		)
		require.NoError(t, rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk))
		columns = append(columns, name)
	}
	require.NoError(t, rows.Err())
	rows.Close()
	require.Len(t, columns, 27)
	require.Contains(t, columns, "annotation_color")
	require.Contains(t, columns, "extra_data")

	_, err = db.ExecContext(ctx,
		`INSERT INTO user_activities (timestamp, activity_id, activity_type, event, entity_kind, item_type)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		"2026-01-01T00:00:00.000000000Z", "", "add_item", "add", "item", "item")
	require.Error(t, err, "empty activity id must be rejected")
}

// TestClose verifies Close can be called repeatedly
func TestClose(t *testing.T) {
	db, err := New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Close())
	require.NoError(t, db.Close())
}
