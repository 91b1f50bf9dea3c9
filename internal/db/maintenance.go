package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goran-ethernal/LogIndexor/internal/common"
	"github.com/goran-ethernal/LogIndexor/internal/logger"
	"github.com/goran-ethernal/LogIndexor/pkg/config"
)

// Maintenance serializes database housekeeping with regular database work.
// Regular work holds a shared operation lock, maintenance takes it exclusively.
type Maintenance interface {
	// Start begins background maintenance if enabled.
	Start(ctx context.Context) error
	// Stop stops background maintenance and waits for the worker to exit.
	Stop() error
	// AcquireOperationLock takes the shared lock and returns its release function.
	AcquireOperationLock() func()
	// GetMetrics returns a snapshot of maintenance statistics.
	GetMetrics() MaintenanceMetrics
	// RunMaintenance performs one maintenance pass.
	RunMaintenance(ctx context.Context) error
}

// MaintenanceMetrics is a snapshot of maintenance statistics.
type MaintenanceMetrics struct {
	LastMaintenanceTime  time.Time
	MaintenanceCount     uint64
	LastMaintenanceError error
}

// NoOpMaintenance is used for databases that need no housekeeping.
type NoOpMaintenance struct{}

func (NoOpMaintenance) Start(context.Context) error          { return nil }
func (NoOpMaintenance) Stop() error                          { return nil }
func (NoOpMaintenance) RunMaintenance(context.Context) error { return nil }
func (NoOpMaintenance) AcquireOperationLock() func()         { return func() {} }
func (NoOpMaintenance) GetMetrics() MaintenanceMetrics       { return MaintenanceMetrics{} }

// NewMaintenance returns the maintenance coordinator for the configured storage.
// Only SQLite with a maintenance section gets a real coordinator.
func NewMaintenance(cfg config.StorageConfig, db *sql.DB, log *logger.Logger) Maintenance {
	if cfg.Driver != config.DriverSQLite || cfg.Maintenance == nil || cfg.SQLite == nil {
		return NoOpMaintenance{}
	}

	return newSQLiteMaintenance(cfg.SQLite.Path, db, *cfg.Maintenance, log)
}

// SQLiteMaintenance checkpoints the WAL and vacuums a SQLite database.
type SQLiteMaintenance struct {
	db     *sql.DB
	dbPath string
	cfg    config.MaintenanceConfig
	log    *logger.Logger

	opLock sync.RWMutex

	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	metrics MaintenanceMetrics
}

func newSQLiteMaintenance(dbPath string, db *sql.DB, cfg config.MaintenanceConfig, log *logger.Logger) *SQLiteMaintenance {
	return &SQLiteMaintenance{
		db:     db,
		dbPath: dbPath,
		cfg:    cfg,
		log:    log.WithComponent(common.ComponentMaintenance),
	}
}

// Start runs the optional startup pass and launches the periodic worker.
func (m *SQLiteMaintenance) Start(ctx context.Context) error {
	if !m.cfg.Enabled {
		m.log.Info("background maintenance is disabled")
		return nil
	}

	if m.cfg.CheckInterval.Duration <= 0 {
		return fmt.Errorf("invalid maintenance interval %v", m.cfg.CheckInterval.Duration)
	}

	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})

	if m.cfg.VacuumOnStartup {
		if err := m.RunMaintenance(ctx); err != nil {
			m.log.Warnf("startup maintenance failed: %v", err)
		}
	}

	go m.worker(ctx)

	m.log.Infof("background maintenance started, interval %v, checkpoint mode %s",
		m.cfg.CheckInterval.Duration, m.cfg.WALCheckpointMode)

	return nil
}

// Stop cancels the worker and waits for it. Stop before Start is a no-op.
func (m *SQLiteMaintenance) Stop() error {
	if m.cancel == nil {
		return nil
	}

	m.cancel()
	<-m.done
	m.log.Info("background maintenance stopped")

	return nil
}

func (m *SQLiteMaintenance) worker(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.cfg.CheckInterval.Duration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.RunMaintenance(ctx); err != nil {
				m.log.Warnf("periodic maintenance failed: %v", err)
			}
		}
	}
}

// RunMaintenance waits for in-flight operations, then checkpoints the WAL and vacuums.
// New operations block until it finishes.
func (m *SQLiteMaintenance) RunMaintenance(ctx context.Context) error {
	m.opLock.Lock()
	defer m.opLock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	sizeBefore, err := DBTotalSize(m.dbPath)
	if err != nil {
		m.log.Warnf("failed to read database size: %v", err)
	}

	runErr := m.walCheckpoint(ctx)
	if err := Vacuum(ctx, m.db); err != nil && runErr == nil {
		runErr = err
	}

	sizeAfter, err := DBTotalSize(m.dbPath)
	if err != nil {
		m.log.Warnf("failed to read database size: %v", err)
	}

	m.mu.Lock()
	m.metrics.LastMaintenanceTime = time.Now().UTC()
	m.metrics.MaintenanceCount++
	m.metrics.LastMaintenanceError = runErr
	m.mu.Unlock()

	maintenanceFinished(start, runErr)
	if runErr != nil {
		return runErr
	}

	maintenanceSizeLog(sizeBefore, sizeAfter)
	if sizeBefore > sizeAfter {
		m.log.Infof("maintenance finished in %v, reclaimed %d MB",
			time.Since(start), common.BytesToMB(uint64(sizeBefore-sizeAfter)))
	} else {
		m.log.Debugf("maintenance finished in %v", time.Since(start))
	}

	return nil
}

func (m *SQLiteMaintenance) walCheckpoint(ctx context.Context) error {
	var mode string
	if err := m.db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode); err != nil {
		return fmt.Errorf("failed to read journal mode: %w", err)
	}
	if !strings.EqualFold(mode, "wal") {
		return nil
	}

	var busy, logFrames, checkpointed int
	query := fmt.Sprintf("PRAGMA wal_checkpoint(%s)", m.cfg.WALCheckpointMode)
	if err := m.db.QueryRowContext(ctx, query).Scan(&busy, &logFrames, &checkpointed); err != nil {
		return fmt.Errorf("WAL checkpoint failed: %w", err)
	}

	walCheckpointInc(strings.ToLower(m.cfg.WALCheckpointMode))
	m.log.Debugf("WAL checkpoint %s: busy=%d log=%d checkpointed=%d",
		m.cfg.WALCheckpointMode, busy, logFrames, checkpointed)

	if busy > 0 {
		m.log.Warnf("WAL checkpoint left %d busy pages", busy)
	}

	return nil
}

// Vacuum rebuilds the database file, reclaiming free pages.
func Vacuum(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("VACUUM failed: %w", err)
	}
	return nil
}

// AcquireOperationLock takes the shared operation lock.
func (m *SQLiteMaintenance) AcquireOperationLock() func() {
	m.opLock.RLock()
	return m.opLock.RUnlock
}

// GetMetrics returns a snapshot of maintenance statistics.
func (m *SQLiteMaintenance) GetMetrics() MaintenanceMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.metrics
}
