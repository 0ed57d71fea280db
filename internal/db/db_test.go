package db_test

import (
	"database/sql"
	"net/url"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"feedsync/backend/internal/db"

	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	database, err := db.Open(dbPath)
	require.NoError(t, err)
	require.NotNil(t, database)
	defer database.Close()

	for _, table := range []string{"feeds", "articles"} {
		var name string
		err = database.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err)
		require.Equal(t, table, name)
	}

	var fk int
	require.NoError(t, database.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	require.Equal(t, 1, fk)
}

func TestOpen_MigrateTwice(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))
	require.NoError(t, database.Close())

	database, err = db.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, database.Close())
}

// Pragmas applied via Exec only affect the current connection, so every
// pragma has to be part of the DSN.
func TestBuildDSN_AllPragmasInDSN(t *testing.T) {
	dsn := db.BuildDSN("mydb.sqlite")
	require.Contains(t, dsn, "file:mydb.sqlite")

	decodedDSN, err := url.QueryUnescape(dsn)
	require.NoError(t, err)

	expectedPragmas := []string{
		"journal_mode(WAL)",
		"foreign_keys(ON)",
		"busy_timeout(30000)",
		"synchronous(NORMAL)",
	}

	for _, pragma := range expectedPragmas {
		require.Contains(t, decodedDSN, pragma, "DSN must contain pragma: "+pragma)
	}
}

func TestUniqueFeedGUID(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer database.Close()

	_, err = database.Exec(`INSERT INTO feeds (id, url, title, created_at) VALUES (1, 'a', 'A', 'now'), (2, 'b', 'B', 'now')`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO articles (id, feed_id, feed_guid, title, published_at, fetched_at) VALUES (10, 1, 'g', 't', 'now', 'now')`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO articles (id, feed_id, feed_guid, title, published_at, fetched_at) VALUES (11, 2, 'g', 't', 'now', 'now')`)
	require.Error(t, err)
}

func TestMigrate_ClosedDB(t *testing.T) {
	database, err := sql.Open("sqlite", "file::memory:?cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Close())

	err = db.Migrate(database)
	require.Error(t, err)
}
