package filter

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goran-ethernal/LogIndexor/pkg/config"
	"github.com/stretchr/testify/require"
)

func TestEventID(t *testing.T) {
	require.Equal(t,
		common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"),
		EventID("Transfer(address, address, uint256)"))
}

func TestFilter_BuildersCopy(t *testing.T) {
	base := New().WithAddresses(addrA)
	extended := base.WithAddresses(addrB).WithEvents(transferSig)

	require.Len(t, base.Addresses, 1)
	require.Empty(t, base.Topics[0])
	require.Len(t, extended.Addresses, 2)
	require.Len(t, extended.Topics[0], 1)
}

func TestFilter_WithTopicOutOfRange(t *testing.T) {
	require.Panics(t, func() { New().WithTopic(4, common.Hash{}) })
}

func TestFilter_Query(t *testing.T) {
	sender := common.BytesToHash(addrB.Bytes())
	f := New().WithAddresses(addrA).WithEvents(transferSig).WithTopic(2, sender)

	q := f.Query(100, 120)

	require.Equal(t, big.NewInt(100), q.FromBlock)
	require.Equal(t, big.NewInt(120), q.ToBlock)
	require.Equal(t, []common.Address{addrA}, q.Addresses)
	require.Equal(t, [][]common.Hash{{EventID(transferSig)}, nil, {sender}}, q.Topics)

	sub := f.SubscriptionQuery()
	require.Nil(t, sub.FromBlock)
	require.Nil(t, sub.ToBlock)
	require.Len(t, sub.Topics, 3)
}

func TestFilter_QueryWithoutTopics(t *testing.T) {
	q := New().WithAddresses(addrA).Query(1, 2)
	require.Nil(t, q.Topics)
}

func TestFilter_JSON(t *testing.T) {
	f := New().WithStartBlock(100).WithAddresses(addrA).WithEvents(transferSig)

	data, err := json.Marshal(f)
	require.NoError(t, err)
	require.Contains(t, string(data), `"start_block":100`)

	var decoded Filter
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, Fingerprint(f, 1), Fingerprint(decoded, 1))
	require.Equal(t, uint64(100), decoded.ResolvedStartBlock())

	require.Error(t, json.Unmarshal([]byte(`{"topics":[[],[],[],[],[]]}`), &decoded))
}

func TestFromConfig(t *testing.T) {
	start := uint64(100)
	cfg := config.FilterConfig{
		StartBlock: &start,
		Addresses:  []string{addrA.Hex()},
		Events:     []string{transferSig, approvalSig},
		Topics: [][]string{
			nil,
			{"0x00000000000000000000000000000000000000000000000000000000000000bb"},
		},
	}

	f, err := FromConfig(cfg)
	require.NoError(t, err)

	expected := New().
		WithStartBlock(100).
		WithAddresses(addrA).
		WithEvents(approvalSig, transferSig).
		WithTopic(1, common.BytesToHash(addrB.Bytes()))
	require.Equal(t, Fingerprint(expected, 1), Fingerprint(f, 1))

	cfg.Addresses = []string{"not-an-address"}
	_, err = FromConfig(cfg)
	require.Error(t, err)
}
