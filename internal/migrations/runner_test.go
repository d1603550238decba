package migrations_test

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/msomdec/bookshelf/internal/migrations"
)

var testMigrations = fstest.MapFS{
	"00001_create_things.sql": &fstest.MapFile{Data: []byte(`-- +goose Up
CREATE TABLE things (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL
);

-- +goose Down
DROP TABLE things;
`)},
	"00002_add_thing_note.sql": &fstest.MapFile{Data: []byte(`-- +goose Up
ALTER TABLE things ADD COLUMN note TEXT NOT NULL DEFAULT '';

-- +goose Down
ALTER TABLE things DROP COLUMN note;
`)},
}

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive across calls.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRun(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	require.NoError(t, migrations.Run(ctx, db, goose.DialectSQLite3, testMigrations))

	_, err := db.ExecContext(ctx, "INSERT INTO things (id, name, note) VALUES (?, ?, ?)", "t1", "Thing", "n")
	require.NoError(t, err, "migrated table should accept rows")

	version, err := migrations.Version(ctx, db, goose.DialectSQLite3, testMigrations)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func TestRunIdempotent(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	require.NoError(t, migrations.Run(ctx, db, goose.DialectSQLite3, testMigrations))
	require.NoError(t, migrations.Run(ctx, db, goose.DialectSQLite3, testMigrations), "second run should be a no-op")

	version, err := migrations.Version(ctx, db, goose.DialectSQLite3, testMigrations)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func TestRunBrokenMigration(t *testing.T) {
	db := openMemoryDB(t)

	broken := fstest.MapFS{
		"00001_broken.sql": &fstest.MapFile{Data: []byte("-- +goose Up\nCREATE TABLE (;\n")},
	}

	err := migrations.Run(context.Background(), db, goose.DialectSQLite3, broken)
	assert.Error(t, err)
}
