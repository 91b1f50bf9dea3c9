// Package indexer runs the fetch, apply and checkpoint cycle for one filter.
//
// Ticks are triggered by a poll timer and, when a websocket endpoint is configured,
// by pushed logs. Pushed logs only wake the loop: the logs a tick applies always come
// from an eth_getLogs query over a range bounded by the finalized block, so a tick never
// ingests blocks a shallow reorg could still replace.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/LogIndexor/internal/common"
	"github.com/goran-ethernal/LogIndexor/internal/logger"
	"github.com/goran-ethernal/LogIndexor/internal/metrics"
	"github.com/goran-ethernal/LogIndexor/internal/notify"
	"github.com/goran-ethernal/LogIndexor/internal/rpc"
	"github.com/goran-ethernal/LogIndexor/pkg/filter"
	pkgrpc "github.com/goran-ethernal/LogIndexor/pkg/rpc"
	"github.com/goran-ethernal/LogIndexor/pkg/storage"
	"golang.org/x/sync/errgroup"
)

const (
	wakeTimer        = "timer"
	wakeSubscription = "subscription"
)

// Status is a point-in-time view of an indexer.
type Status struct {
	State             string `json:"state"`
	ChainID           uint64 `json:"chain_id"`
	FilterID          string `json:"filter_id"`
	StartBlock        uint64 `json:"start_block"`
	LastObservedBlock uint64 `json:"last_observed_block"`
	Subscribed        bool   `json:"subscribed"`
}

// Indexer applies the logs matched by one filter to a processor, advancing the
// filter's checkpoint in the same transaction. Build it with a Builder.
type Indexer struct {
	filter       filter.Filter
	filterID     string
	chainID      uint64
	startBlock   uint64
	pollInterval time.Duration
	rangeLimit   uint64

	client     pkgrpc.EthClient
	subscriber pkgrpc.Subscriber
	sub        ethereum.Subscription
	subLogs    chan types.Log

	store     storage.CheckpointStore
	processor storage.Processor
	notifier  notify.Notifier
	log       *logger.Logger

	state        atomic.Int32
	lastObserved atomic.Uint64

	closeOnce sync.Once
	closers   []func()
}

// initialize resolves the chain id and loads the filter's checkpoint.
func (i *Indexer) initialize(ctx context.Context) error {
	chainID, err := i.client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain id: %w", err)
	}

	lastObserved, filterID, err := i.store.GetOrCreate(ctx, i.filter, chainID)
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %w", err)
	}

	i.chainID = chainID
	i.filterID = filterID
	i.lastObserved.Store(lastObserved)
	metrics.LastCheckpointBlockSet(filterID, lastObserved)

	if lastObserved == i.startBlock {
		i.log.Infow("starting fresh", "filter_id", filterID, "chain_id", chainID, "start_block", i.startBlock)
	} else {
		i.log.Infow("resuming from checkpoint",
			"filter_id", filterID,
			"chain_id", chainID,
			"last_observed_block", lastObserved,
		)
	}

	return nil
}

// FilterID returns the fingerprint of the indexed (chain, filter) pair.
func (i *Indexer) FilterID() string { return i.filterID }

// ChainID returns the chain id resolved at build time.
func (i *Indexer) ChainID() uint64 { return i.chainID }

// LastObservedBlock returns the last committed checkpoint.
func (i *Indexer) LastObservedBlock() uint64 { return i.lastObserved.Load() }

func (i *Indexer) State() State { return State(i.state.Load()) }

// Status reports the current state for the status API.
func (i *Indexer) Status() Status {
	return Status{
		State:             i.State().String(),
		ChainID:           i.chainID,
		FilterID:          i.filterID,
		StartBlock:        i.startBlock,
		LastObservedBlock: i.lastObserved.Load(),
		Subscribed:        i.sub != nil,
	}
}

// Run ticks until ctx is cancelled, the inputs are exhausted or a tick fails.
// Cancellation and exhaustion return nil. A tick failure is returned as is; the
// failed range was rolled back and is retried after a restart.
func (i *Indexer) Run(ctx context.Context) error {
	if !i.state.CompareAndSwap(int32(StateInitializing), int32(StateRunning)) {
		return ErrNotRunnable
	}
	defer i.state.Store(int32(StateStopped))

	if i.sub != nil {
		defer i.sub.Unsubscribe()
	}

	i.log.Infow("indexer running",
		"filter_id", i.filterID,
		"poll_interval", i.pollInterval,
		"block_range_limit", i.rangeLimit,
		"subscribed", i.sub != nil,
	)

	g, gctx := errgroup.WithContext(ctx)
	wake := make(chan struct{}, 1)

	var feeders sync.WaitGroup
	feeders.Add(1)
	g.Go(func() error {
		defer feeders.Done()
		i.feedTimer(gctx, wake)
		return nil
	})
	if i.sub != nil {
		feeders.Add(1)
		g.Go(func() error {
			defer feeders.Done()
			return i.feedSubscription(gctx, wake)
		})
	}

	g.Go(func() error {
		feeders.Wait()
		close(wake)
		return nil
	})
	g.Go(func() error { return i.consume(gctx, wake) })

	err := g.Wait()
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		err = nil
	}

	if err != nil {
		i.log.Errorw("indexer stopped", "error", err, "last_observed_block", i.lastObserved.Load())
		return err
	}

	i.log.Infow("indexer stopped", "last_observed_block", i.lastObserved.Load())
	return nil
}

func signal(wake chan<- struct{}) {
	select {
	case wake <- struct{}{}:
	default:
	}
}

// feedTimer wakes the consumer immediately and then every poll interval.
func (i *Indexer) feedTimer(ctx context.Context, wake chan<- struct{}) {
	metrics.WakeupInc(wakeTimer)
	signal(wake)

	ticker := time.NewTicker(i.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.WakeupInc(wakeTimer)
			signal(wake)
		}
	}
}

// feedSubscription turns pushed logs into wake signals. A closed subscription ends
// the feeder quietly, a subscription error is returned.
func (i *Indexer) feedSubscription(ctx context.Context, wake chan<- struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-i.sub.Err():
			if !ok || err == nil {
				i.log.Info("log subscription closed")
				return nil
			}
			return fmt.Errorf("%w: %w", ErrSubscriptionFailed, err)
		case l := <-i.subLogs:
			i.log.Debugw("wake from subscription", "block", l.BlockNumber)
			metrics.WakeupInc(wakeSubscription)
			signal(wake)
		}
	}
}

// consume runs one tick per wake signal. Only this goroutine ticks.
func (i *Indexer) consume(ctx context.Context, wake <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-wake:
			if !ok {
				return nil
			}
			if err := i.handleTick(ctx); err != nil {
				return err
			}
		}
	}
}

// nextRange computes the inclusive block range of the next tick from checkpoint c.
// A checkpoint still at the start block means nothing was applied yet, so the range
// starts at the start block itself and the tick waits until it can advance past it.
func nextRange(c, startBlock, finalized, limit uint64) (from, to uint64, ok bool) {
	to = finalized
	if limit > 0 && to > c && to-c > limit {
		to = c + limit
	}

	if c == startBlock {
		return startBlock, to, to > c
	}

	from = c + 1
	return from, to, from <= to
}

// handleTick fetches and applies the next range, if any.
func (i *Indexer) handleTick(ctx context.Context) error {
	start := time.Now()

	applied, err := i.tick(ctx)
	switch {
	case err != nil:
		metrics.TickInc(metrics.TickFailed)
		metrics.ErrorInc(common.ComponentIndexer, "error")
	case applied:
		metrics.TickInc(metrics.TickApplied)
		metrics.TickDurationLog(time.Since(start))
	default:
		metrics.TickInc(metrics.TickIdle)
	}

	return err
}

func (i *Indexer) tick(ctx context.Context) (bool, error) {
	header, err := i.client.GetFinalizedBlockHeader(ctx)
	if err != nil {
		if errors.Is(err, rpc.ErrHeaderNotFound) {
			return false, ErrNoFinalizedBlock
		}
		return false, fmt.Errorf("failed to get finalized block: %w", err)
	}
	if header == nil || header.Number == nil {
		return false, ErrNoFinalizedBlock
	}

	finalized := header.Number.Uint64()
	metrics.FinalizedBlockSet(finalized)

	checkpoint := i.lastObserved.Load()
	from, to, ok := nextRange(checkpoint, i.startBlock, finalized, i.rangeLimit)
	if !ok {
		i.log.Debugw("no new finalized blocks", "last_observed_block", checkpoint, "finalized", finalized)
		return false, nil
	}

	logs, err := i.client.GetLogs(ctx, i.filter.Query(from, to))
	if err != nil {
		return false, fmt.Errorf("failed to get logs for blocks %d-%d: %w", from, to, err)
	}
	logs = rpc.SortLogs(logs)

	if err := i.store.ApplyAndCheckpoint(ctx, i.filterID, logs, checkpoint, to, i.chainID, i.processor); err != nil {
		return false, fmt.Errorf("failed to apply blocks %d-%d: %w", from, to, err)
	}

	i.lastObserved.Store(to)

	metrics.LastCheckpointBlockSet(i.filterID, to)
	metrics.BlocksProcessedInc(i.filterID, to-from+1)
	metrics.LogsAppliedInc(i.filterID, len(logs))

	i.log.Infow("checkpoint advanced",
		"from_block", from,
		"to_block", to,
		"finalized", finalized,
		"logs", len(logs),
	)

	event := notify.Event{
		ChainID:   i.chainID,
		FilterID:  i.filterID,
		FromBlock: from,
		ToBlock:   to,
		Logs:      len(logs),
	}
	if err := i.notifier.Notify(ctx, event); err != nil {
		i.log.Warnw("failed to publish checkpoint event", "to_block", to, "error", err)
	}

	return true, nil
}

// Close releases the subscription and the clients the builder dialed.
// Injected clients are left open.
func (i *Indexer) Close() {
	i.closeOnce.Do(func() {
		if i.sub != nil {
			i.sub.Unsubscribe()
		}
		for _, c := range i.closers {
			c()
		}
	})
}
