package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/retail-sales-api/infrastructure/database"
)

func TestMigrateSchema_AddsLateColumns(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	ctx := context.Background()
	conn := database.Wrap(db, database.SQLite)

	_, err = conn.ExecContext(ctx, `CREATE TABLE sales (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		transaction_id TEXT,
		customer_name TEXT
	)`)
	require.NoError(t, err)

	added, err := MigrateSchema(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, []string{"customer_id", "product_id", "employee_name"}, added)

	added, err = MigrateSchema(ctx, conn)
	require.NoError(t, err)
	assert.Empty(t, added)
}

func TestCreateSchema_IsIdempotent(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	ctx := context.Background()
	conn := database.Wrap(db, database.SQLite)

	require.NoError(t, CreateSchema(ctx, conn))
	require.NoError(t, CreateSchema(ctx, conn))

	var indexCount int
	err = conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name LIKE 'idx_%'").Scan(&indexCount)
	require.NoError(t, err)
	assert.Equal(t, len(indexes), indexCount)

	added, err := MigrateSchema(ctx, conn)
	require.NoError(t, err)
	assert.Empty(t, added)
}

func TestInsertBatch_SplitsLargeBatches(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	ctx := context.Background()
	conn := database.Wrap(db, database.SQLite)
	require.NoError(t, CreateSchema(ctx, conn))

	records := fixtures()
	for len(records) < rowsPerStatement*2+7 {
		records = append(records, fixtures()...)
	}
	require.NoError(t, InsertBatch(ctx, conn, records))

	var total int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM sales").Scan(&total))
	assert.Equal(t, len(records), total)
}
