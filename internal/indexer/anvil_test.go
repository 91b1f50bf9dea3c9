package indexer

import (
	"context"
	"fmt"
	"math/big"
	"net"
	"os/exec"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/goran-ethernal/LogIndexor/internal/logger"
	"github.com/goran-ethernal/LogIndexor/pkg/filter"
	"github.com/stretchr/testify/require"
)

// startAnvil runs a local anvil node on a free port. Blocks are mined only on request.
func startAnvil(t *testing.T) (string, *ethclient.Client) {
	t.Helper()

	if _, err := exec.LookPath("anvil"); err != nil {
		t.Skip("anvil not found in PATH, skipping integration test")
	}

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	cmd := exec.Command("anvil", "--port", fmt.Sprintf("%d", port), "--silent")
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})

	url := fmt.Sprintf("http://127.0.0.1:%d", port)

	var client *ethclient.Client
	require.Eventually(t, func() bool {
		c, err := ethclient.Dial(url)
		if err != nil {
			return false
		}
		if _, err := c.ChainID(t.Context()); err != nil {
			c.Close()
			return false
		}
		client = c
		return true
	}, 10*time.Second, 100*time.Millisecond, "anvil did not start")
	t.Cleanup(client.Close)

	return url, client
}

func mine(t *testing.T, client *ethclient.Client, blocks int) {
	t.Helper()
	require.NoError(t, client.Client().Call(nil, "anvil_mine", fmt.Sprintf("0x%x", blocks)))
}

func finalizedNumber(t *testing.T, client *ethclient.Client) uint64 {
	t.Helper()

	h, err := client.HeaderByNumber(t.Context(), big.NewInt(int64(gethrpc.FinalizedBlockNumber)))
	require.NoError(t, err)
	return h.Number.Uint64()
}

func TestIndexer_Anvil(t *testing.T) {
	url, client := startAnvil(t)
	mine(t, client, 100)

	finalized := finalizedNumber(t, client)
	require.Positive(t, finalized)

	store := newTestStore(t)
	proc := &recorder{}

	idx, err := NewBuilder().
		RPCURL(url).
		Filter(filter.New().WithAddresses(tokenA).WithEvents("Transfer(address,address,uint256)")).
		PollInterval(100 * time.Millisecond).
		Storage(store).
		Processor(proc).
		Logger(logger.NewNopLogger()).
		Build(t.Context())
	require.NoError(t, err)
	defer idx.Close()

	chainID, err := client.ChainID(t.Context())
	require.NoError(t, err)
	require.Equal(t, chainID.Uint64(), idx.ChainID())
	require.Equal(t, filter.Fingerprint(idx.filter, chainID.Uint64()), idx.FilterID())

	done := make(chan error, 1)
	ctx, cancel := context.WithCancel(t.Context())
	go func() { done <- idx.Run(ctx) }()

	require.Eventually(t, func() bool {
		return idx.LastObservedBlock() == finalized
	}, 10*time.Second, 50*time.Millisecond)

	mine(t, client, 20)
	next := finalizedNumber(t, client)
	require.Greater(t, next, finalized)

	require.Eventually(t, func() bool {
		return idx.LastObservedBlock() == next
	}, 10*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	// nothing was emitted by the filtered address
	require.Empty(t, proc.recorded())

	cp, err := store.Get(t.Context(), idx.FilterID())
	require.NoError(t, err)
	require.Equal(t, next, cp.LastObservedBlock)
}
