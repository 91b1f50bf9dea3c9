package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/LogIndexor/internal/common"
	"github.com/goran-ethernal/LogIndexor/internal/logger"
	"github.com/goran-ethernal/LogIndexor/internal/notify"
	"github.com/goran-ethernal/LogIndexor/internal/rpc"
	"github.com/goran-ethernal/LogIndexor/pkg/config"
	"github.com/goran-ethernal/LogIndexor/pkg/filter"
	pkgrpc "github.com/goran-ethernal/LogIndexor/pkg/rpc"
	"github.com/goran-ethernal/LogIndexor/pkg/storage"
)

// subscriptionBuffer bounds how many pushed logs may queue before the feeder drains them.
// Pushed logs are only wake signals, so the exact size does not matter.
const subscriptionBuffer = 128

// Builder collects the dependencies of an Indexer. Every setter returns the builder
// so calls can be chained; Build validates and initializes.
type Builder struct {
	rpcURL       string
	wsURL        string
	client       pkgrpc.EthClient
	subscriber   pkgrpc.Subscriber
	filter       *filter.Filter
	pollInterval time.Duration
	rangeLimit   uint64
	retry        *config.RetryConfig
	store        storage.CheckpointStore
	processor    storage.Processor
	notifier     notify.Notifier
	log          *logger.Logger
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// NewBuilderFromConfig presets the endpoint, timing and retry settings from cfg.
func NewBuilderFromConfig(cfg config.IndexerConfig) *Builder {
	return NewBuilder().
		RPCURL(cfg.RPCURL).
		WSURL(cfg.WSURL).
		PollInterval(cfg.PollInterval.Duration).
		BlockRangeLimit(cfg.BlockRangeLimit).
		Retry(cfg.Retry)
}

func (b *Builder) RPCURL(url string) *Builder { b.rpcURL = url; return b }

// WSURL enables the log subscription. An empty URL leaves the indexer timer driven.
func (b *Builder) WSURL(url string) *Builder { b.wsURL = url; return b }

// Client injects a ready query client instead of dialing RPCURL.
func (b *Builder) Client(c pkgrpc.EthClient) *Builder { b.client = c; return b }

// Subscriber injects a ready subscriber instead of dialing WSURL.
func (b *Builder) Subscriber(s pkgrpc.Subscriber) *Builder { b.subscriber = s; return b }

func (b *Builder) Filter(f filter.Filter) *Builder { b.filter = &f; return b }

func (b *Builder) PollInterval(d time.Duration) *Builder { b.pollInterval = d; return b }

// BlockRangeLimit caps how many blocks one tick may advance the checkpoint. Zero means no cap.
func (b *Builder) BlockRangeLimit(limit uint64) *Builder { b.rangeLimit = limit; return b }

func (b *Builder) Retry(cfg *config.RetryConfig) *Builder { b.retry = cfg; return b }

func (b *Builder) Storage(s storage.CheckpointStore) *Builder { b.store = s; return b }

func (b *Builder) Processor(p storage.Processor) *Builder { b.processor = p; return b }

func (b *Builder) Notifier(n notify.Notifier) *Builder { b.notifier = n; return b }

func (b *Builder) Logger(log *logger.Logger) *Builder { b.log = log; return b }

func (b *Builder) validate() error {
	switch {
	case b.client == nil && b.rpcURL == "":
		return ErrMissingRPCURL
	case b.processor == nil:
		return ErrMissingProcessor
	case b.filter == nil:
		return ErrMissingFilter
	case b.pollInterval <= 0:
		return ErrMissingPollInterval
	case b.store == nil:
		return ErrMissingStorage
	}
	return nil
}

// Build validates the inputs, connects to the chain, resolves the chain id and loads
// (or creates) the checkpoint for the filter. With a websocket endpoint the log
// subscription is opened here and a failure to open it fails the build.
func (b *Builder) Build(ctx context.Context) (*Indexer, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	log := b.log
	if log == nil {
		log = logger.NewNopLogger()
	}

	notifier := b.notifier
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}

	idx := &Indexer{
		filter:       *b.filter,
		startBlock:   b.filter.ResolvedStartBlock(),
		pollInterval: b.pollInterval,
		rangeLimit:   b.rangeLimit,
		store:        b.store,
		processor:    b.processor,
		notifier:     notifier,
		client:       b.client,
		log:          log.WithComponent(common.ComponentIndexer),
	}

	if err := b.connect(ctx, idx, log); err != nil {
		idx.Close()
		return nil, err
	}

	if err := idx.initialize(ctx); err != nil {
		idx.Close()
		return nil, err
	}

	if idx.subscriber != nil {
		ch := make(chan types.Log, subscriptionBuffer)
		sub, err := idx.subscriber.SubscribeFilterLogs(ctx, idx.filter.SubscriptionQuery(), ch)
		if err != nil {
			idx.Close()
			return nil, fmt.Errorf("failed to subscribe to logs: %w", err)
		}
		idx.sub = sub
		idx.subLogs = ch
	}

	return idx, nil
}

// connect dials the endpoints that were given as URLs. Dialed clients are owned by the indexer.
func (b *Builder) connect(ctx context.Context, idx *Indexer, log *logger.Logger) error {
	rpcLog := log.WithComponent(common.ComponentRPC)

	if idx.client == nil {
		client, err := rpc.NewClient(ctx, b.rpcURL, b.retry, rpcLog)
		if err != nil {
			return err
		}
		idx.client = client
		idx.closers = append(idx.closers, client.Close)
	}

	idx.subscriber = b.subscriber
	if idx.subscriber == nil && b.wsURL != "" {
		client, err := rpc.NewClient(ctx, b.wsURL, b.retry, rpcLog)
		if err != nil {
			return err
		}
		idx.subscriber = client
		idx.closers = append(idx.closers, client.Close)
	}

	return nil
}
