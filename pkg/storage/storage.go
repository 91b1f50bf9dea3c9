// Package storage defines the checkpoint store contract and the processor boundary.
//
// A CheckpointStore persists, per filter fingerprint, the last block whose logs were applied.
// Logs are applied by a Processor inside the same transaction that advances the checkpoint,
// so a batch and its checkpoint become visible together or not at all.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/LogIndexor/pkg/filter"
	"github.com/jmoiron/sqlx"
	"github.com/russross/meddler"
)

var (
	// ErrCheckpointNotFound is returned when no checkpoint exists for a filter id.
	ErrCheckpointNotFound = errors.New("checkpoint not found")

	// ErrCheckpointRegression is returned when an update would move a checkpoint backwards.
	ErrCheckpointRegression = errors.New("checkpoint would move backwards")
)

// Tx is the transaction handle handed to processors. *sqlx.Tx satisfies it.
// Processors must not commit, roll back or retain it.
type Tx interface {
	sqlx.ExtContext
	meddler.DB
}

// Processor applies an ordered, duplicate-free batch of logs covering blocks (prevBlock, newBlock].
// The first batch of a new fingerprint also includes the start block itself: it covers
// [prevBlock, newBlock] with prevBlock equal to the filter's start block.
type Processor interface {
	Process(ctx context.Context, logs []types.Log, tx Tx, prevBlock, newBlock, chainID uint64) error
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(ctx context.Context, logs []types.Log, tx Tx, prevBlock, newBlock, chainID uint64) error

// Process calls f.
func (f ProcessorFunc) Process(
	ctx context.Context, logs []types.Log, tx Tx, prevBlock, newBlock, chainID uint64,
) error {
	return f(ctx, logs, tx, prevBlock, newBlock, chainID)
}

// Migration is a schema change shipped by a processor. SQL carries an optional
// "-- +migrate Down" section followed by the "-- +migrate Up" section.
type Migration struct {
	ID  string
	SQL string
}

// Migrator is implemented by processors that own tables.
// Their migrations run when the checkpoint schema is ensured.
type Migrator interface {
	Migrations() []Migration
}

// Checkpoint is the persisted progress of one filter.
type Checkpoint struct {
	FilterID          string `meddler:"filter_id" json:"filter_id"`
	LastObservedBlock uint64 `meddler:"last_observed_block" json:"last_observed_block"`
	Filter            string `meddler:"filter" json:"filter"`
}

// CheckpointStore persists checkpoints and applies batches atomically with them.
type CheckpointStore interface {
	// EnsureSchema creates the checkpoint table and processor tables if absent. It is idempotent.
	EnsureSchema(ctx context.Context) error

	// GetOrCreate returns the persisted last observed block and the fingerprint of f on chainID.
	// A missing record is created at the filter's start block.
	GetOrCreate(ctx context.Context, f filter.Filter, chainID uint64) (lastObserved uint64, filterID string, err error)

	// ApplyAndCheckpoint runs the processor over logs and moves the checkpoint from prevBlock
	// to newBlock in a single transaction.
	ApplyAndCheckpoint(
		ctx context.Context,
		filterID string,
		logs []types.Log,
		prevBlock, newBlock, chainID uint64,
		processor Processor,
	) error

	// Get returns the checkpoint of filterID or ErrCheckpointNotFound.
	Get(ctx context.Context, filterID string) (*Checkpoint, error)

	// List returns all checkpoints ordered by filter id.
	List(ctx context.Context) ([]*Checkpoint, error)
}

// Meddler returns the meddler dialect matching the driver behind tx.
func Meddler(tx interface{ DriverName() string }) *meddler.Database {
	switch tx.DriverName() {
	case "pgx", "postgres":
		return meddler.PostgreSQL
	default:
		return meddler.SQLite
	}
}

// InsertIgnore inserts src into table using its meddler tags. A row whose key already
// exists is left as is and reported with inserted == false. Processors use it for tables
// shared by several fingerprints, where an overlapping range re-delivers stored logs.
func InsertIgnore(ctx context.Context, tx Tx, table string, src any) (inserted bool, err error) {
	d := Meddler(tx)

	columns, err := d.ColumnsQuoted(src, true)
	if err != nil {
		return false, err
	}
	placeholders, err := d.PlaceholdersString(src, true)
	if err != nil {
		return false, err
	}
	values, err := d.Values(src, true)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING", table, columns, placeholders)

	res, err := tx.ExecContext(ctx, query, values...)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected == 1, nil
}
