package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), Options{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_AppliesOnce(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	require.NoError(t, Migrate(ctx, db, HistorySchema, zerolog.Nop()))
	require.NoError(t, Migrate(ctx, db, HistorySchema, zerolog.Nop()))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count))
	assert.Equal(t, 1, count)

	_, err := db.Exec("SELECT id FROM refresh_runs")
	assert.NoError(t, err)
}

func TestLoadMigrations_SortsAndSkipsInvalid(t *testing.T) {
	fsys := fstest.MapFS{
		"002_second.sql": {Data: []byte("CREATE TABLE b (id INTEGER)")},
		"001_first.sql":  {Data: []byte("CREATE TABLE a (id INTEGER)")},
		"notes.txt":      {Data: []byte("ignored")},
		"bad_name.sql":   {Data: []byte("CREATE TABLE c (id INTEGER)")},
	}

	migrations, err := NewMigrationManager(nil, fsys, zerolog.Nop()).LoadMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "001_first", migrations[0].Name)
	assert.Equal(t, 2, migrations[1].Version)
}

func TestEmbeddedSchemas(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	require.NoError(t, Migrate(ctx, db, LatestSchema, zerolog.Nop()))
	_, err := db.Exec("SELECT row_index FROM tasks")
	assert.NoError(t, err)
	_, err = db.Exec("SELECT risk_score FROM sites")
	assert.NoError(t, err)

	snap := openTemp(t)
	require.NoError(t, Migrate(ctx, snap, SnapshotSchema, zerolog.Nop()))
	_, err = snap.Exec("SELECT snapshot_ts FROM site_snapshots")
	assert.NoError(t, err)
}

func TestOpen_ReadOnlyMissingFile(t *testing.T) {
	_, err := Open(context.Background(), Options{Path: filepath.Join(t.TempDir(), "absent.db"), ReadOnly: true})
	assert.Error(t, err)
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	_, err := db.Exec("CREATE TABLE t (v INTEGER)")
	require.NoError(t, err)

	err = Transaction(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO t (v) VALUES (1)"); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM t").Scan(&count))
	assert.Zero(t, count)
}
