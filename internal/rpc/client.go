package rpc

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/goran-ethernal/LogIndexor/internal/logger"
	"github.com/goran-ethernal/LogIndexor/pkg/config"
	pkgrpc "github.com/goran-ethernal/LogIndexor/pkg/rpc"
)

var (
	_ pkgrpc.EthClient  = (*Client)(nil)
	_ pkgrpc.Subscriber = (*Client)(nil)
)

// ErrHeaderNotFound is returned when the node has no header for the requested tag.
var ErrHeaderNotFound = errors.New("block header not found")

// logFilterer is the part of ethclient used for eth_getLogs.
type logFilterer interface {
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
}

// Client wraps the Ethereum RPC client with retries, metrics and eth_getLogs range splitting.
// It implements pkgrpc.EthClient and, on websocket endpoints, pkgrpc.Subscriber.
type Client struct {
	eth   *ethclient.Client
	rpc   *rpc.Client
	logs  logFilterer
	retry *config.RetryConfig
	log   *logger.Logger
}

// NewClient creates a new RPC client connected to the given http(s) or ws(s) endpoint.
// A nil retry config makes every call a single attempt.
func NewClient(ctx context.Context, endpoint string, retry *config.RetryConfig, log *logger.Logger) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", endpoint, err)
	}

	return newClient(rpcClient, retry, log), nil
}

func newClient(rpcClient *rpc.Client, retry *config.RetryConfig, log *logger.Logger) *Client {
	eth := ethclient.NewClient(rpcClient)

	return &Client{
		eth:   eth,
		rpc:   rpcClient,
		logs:  eth,
		retry: retry,
		log:   log,
	}
}

// Close closes the RPC client connection.
func (c *Client) Close() {
	c.eth.Close()
}

// ChainID returns the chain id reported by the node.
func (c *Client) ChainID(ctx context.Context) (uint64, error) {
	var id *big.Int
	err := c.call(ctx, "eth_chainId", func() error {
		var err error
		id, err = c.eth.ChainID(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}

	return id.Uint64(), nil
}

// GetLatestBlockHeader retrieves the latest block header.
func (c *Client) GetLatestBlockHeader(ctx context.Context) (*types.Header, error) {
	return c.header(ctx, nil)
}

// GetFinalizedBlockHeader retrieves the finalized block header.
func (c *Client) GetFinalizedBlockHeader(ctx context.Context) (*types.Header, error) {
	return c.header(ctx, big.NewInt(int64(rpc.FinalizedBlockNumber)))
}

func (c *Client) header(ctx context.Context, number *big.Int) (*types.Header, error) {
	var header *types.Header
	err := c.call(ctx, "eth_getBlockByNumber", func() error {
		var err error
		header, err = c.eth.HeaderByNumber(ctx, number)
		return err
	})
	if errors.Is(err, ethereum.NotFound) || (err == nil && header == nil) {
		return nil, ErrHeaderNotFound
	}

	return header, err
}

// GetLogs retrieves logs matching the given filter query.
// When the node refuses a range as too large the range is split, at the node's suggestion
// when it gives one, and the partial results are concatenated in block order.
func (c *Client) GetLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	var logs []types.Log
	err := c.call(ctx, "eth_getLogs", func() error {
		var err error
		logs, err = c.logs.FilterLogs(ctx, query)
		return err
	})
	if err == nil {
		return logs, nil
	}

	tooMany, errData := IsTooManyResultsError(err)
	if !tooMany || query.FromBlock == nil || query.ToBlock == nil {
		return nil, err
	}

	from, to := query.FromBlock.Uint64(), query.ToBlock.Uint64()
	if from >= to {
		return nil, err
	}

	mid := splitPoint(from, to, errData)
	c.log.Debugf("eth_getLogs [%d, %d] returned too many results, splitting at %d", from, to, mid)

	left, right := query, query
	left.ToBlock = new(big.Int).SetUint64(mid)
	right.FromBlock = new(big.Int).SetUint64(mid + 1)

	leftLogs, err := c.GetLogs(ctx, left)
	if err != nil {
		return nil, err
	}

	rightLogs, err := c.GetLogs(ctx, right)
	if err != nil {
		return nil, err
	}

	return append(leftLogs, rightLogs...), nil
}

// splitPoint returns the last block of the left half of [from, to].
func splitPoint(from, to uint64, errData string) uint64 {
	if sFrom, sTo, ok := ParseSuggestedBlockRange(errData); ok && sFrom == from && sTo >= from && sTo < to {
		return sTo
	}

	return from + (to-from)/2
}

// SubscribeFilterLogs subscribes to new logs. Only websocket endpoints support it.
func (c *Client) SubscribeFilterLogs(
	ctx context.Context,
	query ethereum.FilterQuery,
	ch chan<- types.Log,
) (ethereum.Subscription, error) {
	var sub ethereum.Subscription
	err := c.call(ctx, "eth_subscribe", func() error {
		var err error
		sub, err = c.eth.SubscribeFilterLogs(ctx, query, ch)
		return err
	})

	return sub, err
}

// call runs fn with retries and records RPC metrics for method.
func (c *Client) call(ctx context.Context, method string, fn func() error) error {
	return retryWithBackoff(ctx, c.retry, method, func() error {
		start := time.Now()
		RPCMethodInc(method)

		err := fn()
		RPCMethodDuration(method, time.Since(start))
		if err != nil {
			RPCMethodError(method, errorType(err))
		}

		return err
	})
}

func errorType(err error) string {
	if tooMany, _ := IsTooManyResultsError(err); tooMany {
		return "too_many_results"
	}
	if retryableError(err) {
		return "transient"
	}
	return "other"
}
