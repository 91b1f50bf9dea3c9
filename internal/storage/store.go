package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/LogIndexor/internal/common"
	"github.com/goran-ethernal/LogIndexor/internal/db"
	"github.com/goran-ethernal/LogIndexor/internal/logger"
	"github.com/goran-ethernal/LogIndexor/internal/migrations"
	"github.com/goran-ethernal/LogIndexor/pkg/filter"
	"github.com/goran-ethernal/LogIndexor/pkg/storage"
	"github.com/jmoiron/sqlx"
)

const filtersTable = "filters"

var _ storage.CheckpointStore = (*Store)(nil)

// Store is the relational CheckpointStore. It works on SQLite and PostgreSQL.
type Store struct {
	db          *sqlx.DB
	maintenance db.Maintenance
	migrations  []storage.Migration
	log         *logger.Logger

	schemaReady atomic.Bool
}

// NewStore creates a store on database. Extra migrations, usually the processor's,
// are applied together with the checkpoint schema. A nil maintenance means none.
func NewStore(
	database *sqlx.DB,
	maintenance db.Maintenance,
	log *logger.Logger,
	extra ...storage.Migration,
) *Store {
	if maintenance == nil {
		maintenance = db.NoOpMaintenance{}
	}

	return &Store{
		db:          database,
		maintenance: maintenance,
		migrations:  extra,
		log:         log.WithComponent(common.ComponentCheckpointStore),
	}
}

// EnsureSchema creates the filters table and the extra tables if they do not exist.
func (s *Store) EnsureSchema(_ context.Context) error {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	all := append(migrations.Migrations(), s.migrations...)
	if err := db.RunMigrations(s.log, s.db.DB, db.MigrationDialect(s.db), all); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	s.schemaReady.Store(true)
	return nil
}

// GetOrCreate returns the persisted checkpoint of f on chainID, inserting one at the
// filter's start block on first sight. An existing record wins over the configured start block.
func (s *Store) GetOrCreate(ctx context.Context, f filter.Filter, chainID uint64) (uint64, string, error) {
	if !s.schemaReady.Load() {
		if err := s.EnsureSchema(ctx); err != nil {
			return 0, "", err
		}
	}

	filterID := filter.Fingerprint(f, chainID)

	cp, err := s.Get(ctx, filterID)
	if err == nil {
		s.log.Infof("resuming filter %s from block %d", filterID, cp.LastObservedBlock)
		return cp.LastObservedBlock, filterID, nil
	}
	if !errors.Is(err, storage.ErrCheckpointNotFound) {
		return 0, "", err
	}

	encoded, err := json.Marshal(f)
	if err != nil {
		return 0, "", fmt.Errorf("failed to encode filter: %w", err)
	}

	cp = &storage.Checkpoint{
		FilterID:          filterID,
		LastObservedBlock: f.ResolvedStartBlock(),
		Filter:            string(encoded),
	}

	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	if err := storage.Meddler(s.db).Insert(s.db, filtersTable, cp); err != nil {
		return 0, "", fmt.Errorf("failed to create checkpoint for filter %s: %w", filterID, err)
	}

	s.log.Infof("created checkpoint for filter %s at block %d", filterID, cp.LastObservedBlock)

	return cp.LastObservedBlock, filterID, nil
}

// ApplyAndCheckpoint runs processor over logs and advances the checkpoint of filterID
// to newBlock in one transaction. Any failure rolls back both.
// The processor is not called for an empty batch, the checkpoint still advances.
func (s *Store) ApplyAndCheckpoint(
	ctx context.Context,
	filterID string,
	logs []types.Log,
	prevBlock, newBlock, chainID uint64,
	processor storage.Processor,
) error {
	if processor == nil {
		return errors.New("processor is required")
	}
	if newBlock < prevBlock {
		return fmt.Errorf("%w: %d -> %d", storage.ErrCheckpointRegression, prevBlock, newBlock)
	}

	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			s.log.Errorf("failed to rollback transaction: %v", err)
		}
	}()

	if len(logs) > 0 {
		if err := processor.Process(ctx, logs, tx, prevBlock, newBlock, chainID); err != nil {
			return fmt.Errorf("processor failed for blocks %d-%d: %w", prevBlock, newBlock, err)
		}
	}

	if err := s.advance(ctx, tx, filterID, newBlock); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit checkpoint %d for filter %s: %w", newBlock, filterID, err)
	}

	s.log.Debugf("filter %s checkpoint %d -> %d (%d logs)", filterID, prevBlock, newBlock, len(logs))

	return nil
}

// advance moves the checkpoint forward. The row is only touched when it does not move backwards.
func (s *Store) advance(ctx context.Context, tx *sqlx.Tx, filterID string, newBlock uint64) error {
	res, err := tx.ExecContext(ctx,
		tx.Rebind(`UPDATE filters SET last_observed_block = ? WHERE filter_id = ? AND last_observed_block <= ?`),
		newBlock, filterID, newBlock,
	)
	if err != nil {
		return fmt.Errorf("failed to update checkpoint for filter %s: %w", filterID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 1 {
		return nil
	}

	var current uint64
	err = tx.GetContext(ctx, &current,
		tx.Rebind(`SELECT last_observed_block FROM filters WHERE filter_id = ?`), filterID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%w: %s", storage.ErrCheckpointNotFound, filterID)
	case err != nil:
		return fmt.Errorf("failed to read checkpoint for filter %s: %w", filterID, err)
	default:
		return fmt.Errorf("%w: filter %s is at %d, update to %d", storage.ErrCheckpointRegression,
			filterID, current, newBlock)
	}
}

// Get returns the checkpoint of filterID.
func (s *Store) Get(ctx context.Context, filterID string) (*storage.Checkpoint, error) {
	var cp storage.Checkpoint

	err := storage.Meddler(s.db).QueryRow(s.db, &cp,
		s.db.Rebind(`SELECT filter_id, last_observed_block, filter FROM filters WHERE filter_id = ?`), filterID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrCheckpointNotFound, filterID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint %s: %w", filterID, err)
	}

	return &cp, nil
}

// List returns every checkpoint ordered by filter id.
func (s *Store) List(ctx context.Context) ([]*storage.Checkpoint, error) {
	cps := make([]*storage.Checkpoint, 0)

	err := storage.Meddler(s.db).QueryAll(s.db, &cps,
		`SELECT filter_id, last_observed_block, filter FROM filters ORDER BY filter_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}

	return cps, nil
}
