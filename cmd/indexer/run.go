package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goran-ethernal/LogIndexor/internal/common"
	"github.com/goran-ethernal/LogIndexor/internal/db"
	"github.com/goran-ethernal/LogIndexor/internal/indexer"
	"github.com/goran-ethernal/LogIndexor/internal/metrics"
	"github.com/goran-ethernal/LogIndexor/internal/notify"
	checkpointstore "github.com/goran-ethernal/LogIndexor/internal/storage"
	"github.com/goran-ethernal/LogIndexor/pkg/api"
	"github.com/goran-ethernal/LogIndexor/pkg/filter"
	"github.com/goran-ethernal/LogIndexor/pkg/processor"
	"github.com/goran-ethernal/LogIndexor/pkg/storage"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func runIndexer(cmd *cobra.Command, _ []string) error {
	fmt.Printf(banner, version)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	f, err := filter.FromConfig(cfg.Filter)
	if err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}

	proc, err := processor.Create(cfg.Processor.Type, cfg.Processor.Options, log)
	if err != nil {
		return err
	}

	var processorMigrations []storage.Migration
	if m, ok := proc.(storage.Migrator); ok {
		processorMigrations = m.Migrations()
	}

	log.Infow("opening storage", "driver", cfg.Storage.Driver)
	database, err := db.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	maintenance := db.NewMaintenance(cfg.Storage, database.DB, log.WithComponent(common.ComponentMaintenance))
	if err := maintenance.Start(ctx); err != nil {
		return fmt.Errorf("failed to start database maintenance: %w", err)
	}
	defer func() {
		if err := maintenance.Stop(); err != nil {
			log.Warnw("failed to stop database maintenance", "error", err)
		}
	}()

	store := checkpointstore.NewStore(database, maintenance, log, processorMigrations...)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.Notify != nil && cfg.Notify.Enabled {
		redisNotifier, err := notify.NewRedisNotifier(ctx, *cfg.Notify, log.WithComponent(common.ComponentNotifier))
		if err != nil {
			return err
		}
		notifier = redisNotifier
	}
	defer notifier.Close()

	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics, log.WithComponent(common.ComponentMetrics))
		if err := metricsServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() {
			if err := metricsServer.Stop(context.Background()); err != nil {
				log.Warnw("failed to stop metrics server", "error", err)
			}
		}()
	}

	idx, err := indexer.NewBuilderFromConfig(cfg.Indexer).
		Filter(f).
		Storage(store).
		Processor(proc).
		Notifier(notifier).
		Logger(log).
		Build(ctx)
	if err != nil {
		return fmt.Errorf("failed to build indexer: %w", err)
	}
	defer idx.Close()

	log.Infow("indexer ready",
		"chain_id", idx.ChainID(),
		"filter_id", idx.FilterID(),
		"checkpoint", idx.LastObservedBlock(),
		"processor", cfg.Processor.Type,
	)

	g, gctx := errgroup.WithContext(ctx)

	if cfg.API != nil && cfg.API.Enabled {
		apiServer := api.NewServer(cfg.API, idx, store, log.WithComponent(common.ComponentAPI))
		g.Go(func() error { return apiServer.Start(gctx) })
	}

	g.Go(func() error {
		err := idx.Run(gctx)
		// the api server follows the indexer
		stop()
		return err
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("indexer failed: %w", err)
	}

	log.Info("LogIndexor stopped")
	return nil
}
