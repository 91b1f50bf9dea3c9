package db

import (
	"testing"

	"github.com/goran-ethernal/LogIndexor/internal/logger"
	"github.com/stretchr/testify/require"
)

const testMigration = `
-- +migrate Down
DROP TABLE IF EXISTS widgets;

-- +migrate Up
CREATE TABLE IF NOT EXISTS widgets (
	id   BIGINT PRIMARY KEY,
	name TEXT NOT NULL
);
`

func TestMigration_Parse(t *testing.T) {
	m, err := parseMigration(Migration{ID: "widgets-0001", SQL: testMigration})
	require.NoError(t, err)
	require.Equal(t, "widgets-0001", m.Id)
	require.Equal(t, []string{"DROP TABLE IF EXISTS widgets;"}, m.Down)
	require.Len(t, m.Up, 1)
	require.Contains(t, m.Up[0], "CREATE TABLE IF NOT EXISTS widgets")

	upOnly, err := parseMigration(Migration{ID: "up-only", SQL: "-- +migrate Up\nSELECT 1;"})
	require.NoError(t, err)
	require.Nil(t, upOnly.Down)

	_, err = parseMigration(Migration{ID: "broken", SQL: "CREATE TABLE x (id INT);"})
	require.ErrorContains(t, err, "missing")
}

func TestRunMigrations(t *testing.T) {
	db, _ := newTestSQLite(t, "WAL")
	log := logger.NewNopLogger()

	widgets := []Migration{{ID: "widgets-0001", SQL: testMigration}}
	require.NoError(t, RunMigrations(log, db.DB, MigrationDialect(db), widgets))

	_, err := db.Exec(`INSERT INTO widgets (id, name) VALUES (1, 'a')`)
	require.NoError(t, err)

	// rerun is a no-op and keeps data
	require.NoError(t, RunMigrations(log, db.DB, MigrationDialect(db), widgets))

	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM widgets`))
	require.Equal(t, 1, count)

	// a disjoint set sharing the table does not trip over the recorded widgets migration
	gadgets := []Migration{{ID: "gadgets-0001", SQL: "-- +migrate Up\nCREATE TABLE gadgets (id BIGINT PRIMARY KEY);"}}
	require.NoError(t, RunMigrations(log, db.DB, MigrationDialect(db), gadgets))

	var applied int
	require.NoError(t, db.Get(&applied, `SELECT COUNT(*) FROM `+MigrationsTable))
	require.Equal(t, 2, applied)
}
