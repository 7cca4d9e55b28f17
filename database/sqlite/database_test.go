package sqlite_test

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/sagarc03/vdisk"
	"github.com/sagarc03/vdisk/database/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabase_MigrateValidate(t *testing.T) {
	ctx := context.Background()
	tables := vdisk.Tables{Downloads: "downloads_" + getRandomString(t)}

	db, err := sqlite.Connect(ctx, ":memory:", tables)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.NoError(t, db.Ping(ctx))

	err = db.Validate(ctx)
	assert.Error(t, err, "validate before migrate")
	assert.Contains(t, err.Error(), "does not exist")

	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Migrate(ctx), "migrate is idempotent")
	assert.NoError(t, db.Validate(ctx))

	require.NoError(t, db.DropTables(ctx))
	assert.Error(t, db.Validate(ctx))
}

func TestDatabase_Validate_WrongSchema(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "stats.db")
	tables := vdisk.Tables{Downloads: "downloads"}

	raw, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	_, err = raw.ExecContext(ctx, `CREATE TABLE "downloads" (id TEXT NOT NULL PRIMARY KEY, disk TEXT, path TEXT NOT NULL, download_count TEXT NOT NULL)`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	db, err := sqlite.Connect(ctx, dsn, tables)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	err = db.Validate(ctx)
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "missing columns")
	assert.Contains(t, msg, "last_downloaded_at")
	assert.Contains(t, msg, "download_count: expected integer, got text")
	assert.Contains(t, msg, fmt.Sprintf("disk: expected nullable=%v, got nullable=%v", false, true))
}

func TestDatabase_CountersSurviveReconnect(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "stats.db")
	tables := vdisk.Tables{Downloads: "downloads"}

	db, err := sqlite.Connect(ctx, dsn, tables)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx))
	_, err = db.GetCounter().Increment(ctx, "Vid", "a.txt")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = sqlite.Connect(ctx, dsn, tables)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	n, err := db.GetCounter().Increment(ctx, "Vid", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
