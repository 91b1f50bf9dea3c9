package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/goran-ethernal/LogIndexor/internal/logger"
	"github.com/goran-ethernal/LogIndexor/pkg/storage"
	migrate "github.com/rubenv/sql-migrate"
)

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"

	// MigrationsTable records applied migrations of the store and of processors.
	MigrationsTable = "logindexor_migrations"
)

// Migration is a single schema change.
type Migration = storage.Migration

// parseMigration splits m into its down and up sections.
func parseMigration(m Migration) (*migrate.Migration, error) {
	down, up, found := strings.Cut(m.SQL, upMarker)
	if !found {
		return nil, fmt.Errorf("migration %s missing %q separator", m.ID, upMarker)
	}

	if _, after, ok := strings.Cut(down, downMarker); ok {
		down = after
	}

	parsed := &migrate.Migration{
		Id: m.ID,
		Up: []string{strings.TrimSpace(up)},
	}
	if down = strings.TrimSpace(down); down != "" {
		parsed.Down = []string{down}
	}

	return parsed, nil
}

// RunMigrations applies every pending migration in order. Migrations already recorded
// in the database are skipped, so it is safe to call on every start.
// Unknown recorded migrations are ignored since the store and processors share the table.
func RunMigrations(log *logger.Logger, db *sql.DB, dialect string, migrations []Migration) error {
	source := &migrate.MemoryMigrationSource{}
	ids := make([]string, 0, len(migrations))

	for _, m := range migrations {
		parsed, err := parseMigration(m)
		if err != nil {
			return err
		}
		source.Migrations = append(source.Migrations, parsed)
		ids = append(ids, m.ID)
	}

	set := migrate.MigrationSet{TableName: MigrationsTable, IgnoreUnknown: true}

	log.Debugf("running migrations (%s): %s", dialect, strings.Join(ids, ", "))

	applied, err := set.Exec(db, dialect, source, migrate.Up)
	if err != nil {
		return fmt.Errorf("failed to run migrations [%s]: %w", strings.Join(ids, ", "), err)
	}

	if applied > 0 {
		log.Infof("applied %d of %d migrations", applied, len(migrations))
	}

	return nil
}
