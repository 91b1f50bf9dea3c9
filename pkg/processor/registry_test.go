package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/LogIndexor/internal/logger"
	"github.com/goran-ethernal/LogIndexor/pkg/storage"
	"github.com/stretchr/testify/require"
)

// resetRegistry clears the registry; tests using it must not run in parallel.
func resetRegistry(t *testing.T) {
	t.Helper()

	mu.Lock()
	saved := registry
	registry = make(map[string]Factory)
	mu.Unlock()

	t.Cleanup(func() {
		mu.Lock()
		registry = saved
		mu.Unlock()
	})
}

var noop = storage.ProcessorFunc(func(context.Context, []types.Log, storage.Tx, uint64, uint64, uint64) error {
	return nil
})

func TestRegister(t *testing.T) {
	resetRegistry(t)

	var gotOptions map[string]string
	Register("Counter", func(options map[string]string, _ *logger.Logger) (storage.Processor, error) {
		gotOptions = options
		return noop, nil
	})

	require.True(t, IsRegistered("counter"))
	require.True(t, IsRegistered("COUNTER"))
	require.False(t, IsRegistered("other"))

	p, err := Create("counter", map[string]string{"table": "counts"}, logger.NewNopLogger())
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Equal(t, map[string]string{"table": "counts"}, gotOptions)
}

func TestRegister_Panics(t *testing.T) {
	resetRegistry(t)

	factory := func(map[string]string, *logger.Logger) (storage.Processor, error) { return noop, nil }
	Register("dup", factory)

	require.Panics(t, func() { Register("DUP", factory) })
	require.Panics(t, func() { Register("nil", nil) })
}

func TestList(t *testing.T) {
	resetRegistry(t)
	require.Empty(t, List())

	factory := func(map[string]string, *logger.Logger) (storage.Processor, error) { return noop, nil }
	Register("zeta", factory)
	Register("alpha", factory)
	Register("Mid", factory)

	require.Equal(t, []string{"alpha", "mid", "zeta"}, List())
}

func TestCreate_Errors(t *testing.T) {
	resetRegistry(t)

	Register("broken", func(map[string]string, *logger.Logger) (storage.Processor, error) {
		return nil, errors.New("missing option")
	})

	_, err := Create("unknown", nil, logger.NewNopLogger())
	require.ErrorContains(t, err, "unknown processor type: unknown")
	require.ErrorContains(t, err, "broken")

	_, err = Create("broken", nil, logger.NewNopLogger())
	require.ErrorContains(t, err, "failed to create processor broken: missing option")
}
