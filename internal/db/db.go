package db

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/goran-ethernal/LogIndexor/pkg/config"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// database/sql driver names and their sql-migrate dialects.
const (
	DriverSQLite3   = "sqlite3"
	DriverPgx       = "pgx"
	DialectSQLite3  = "sqlite3"
	DialectPostgres = "postgres"
)

// Open opens the database selected by the storage configuration.
func Open(cfg config.StorageConfig) (*sqlx.DB, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		if cfg.SQLite == nil {
			return nil, errors.New("sqlite configuration is missing")
		}
		return NewSQLiteDBFromConfig(*cfg.SQLite)
	case config.DriverPostgres:
		if cfg.Postgres == nil {
			return nil, errors.New("postgres configuration is missing")
		}
		return NewPostgresDBFromConfig(*cfg.Postgres)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

// NewSQLiteDBFromConfig opens a SQLite database with the given configuration.
// Transactions take the write lock on BEGIN (_txlock=immediate).
func NewSQLiteDBFromConfig(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	foreignKeys := "off"
	if cfg.EnableForeignKeys {
		foreignKeys = "on"
	}

	dsn := fmt.Sprintf(
		"file:%s?_txlock=immediate&_foreign_keys=%s&_journal_mode=%s&_busy_timeout=%d",
		cfg.Path,
		foreignKeys,
		cfg.JournalMode,
		cfg.BusyTimeout,
	)

	db, err := sqlx.Open(DriverSQLite3, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)

	pragmas := []string{
		fmt.Sprintf("PRAGMA synchronous = %s", cfg.Synchronous),
		fmt.Sprintf("PRAGMA cache_size = %d", cfg.CacheSize),
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	return db, nil
}

// NewPostgresDBFromConfig connects to PostgreSQL through the pgx stdlib driver.
func NewPostgresDBFromConfig(cfg config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect(DriverPgx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime.Duration)

	return db, nil
}

// MigrationDialect returns the sql-migrate dialect for the driver db was opened with.
func MigrationDialect(db *sqlx.DB) string {
	if db.DriverName() == DriverPgx {
		return DialectPostgres
	}
	return DialectSQLite3
}

// DBTotalSize returns the combined size of a SQLite database file and its -wal and -shm files.
// Files that do not exist count as zero.
func DBTotalSize(dbPath string) (int64, error) {
	var total int64
	for _, path := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		total += info.Size()
	}

	return total, nil
}
