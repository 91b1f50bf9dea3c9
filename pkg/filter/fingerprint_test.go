package filter

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	transferSig = "Transfer(address,address,uint256)"
	approvalSig = "Approval(address,address,uint256)"

	addrA = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	addrB = common.HexToAddress("0x00000000000000000000000000000000000000bb")
)

func TestFingerprint_KnownValues(t *testing.T) {
	require.Equal(t,
		"0xdcba2e9739011636a2fcff5ae85b0fc577a822bbaed7c1d2a30c4cfe4b88e23d",
		Fingerprint(New(), 1))

	f := New().
		WithStartBlock(100).
		WithAddresses(addrA, addrB).
		WithEvents(transferSig, approvalSig)
	require.Equal(t,
		"0xab7593a9d9e5bb21b821b225b9b392dc05f849562d45341e06df782dc2e5575a",
		Fingerprint(f, 1))
}

func TestFingerprint_OrderIndependent(t *testing.T) {
	a := New().
		WithStartBlock(100).
		WithAddresses(addrA, addrB).
		WithEvents(transferSig, approvalSig)

	b := New().
		WithStartBlock(100).
		WithAddresses(addrB, addrA, addrB).
		WithEvents(approvalSig, transferSig, approvalSig)

	require.Equal(t, Fingerprint(a, 1), Fingerprint(b, 1))
}

func TestFingerprint_DefaultStartBlock(t *testing.T) {
	implicit := New().WithAddresses(addrA)
	explicit := New().WithStartBlock(DefaultStartBlock).WithAddresses(addrA)

	require.Equal(t, Fingerprint(implicit, 5), Fingerprint(explicit, 5))
}

func TestFingerprint_SemanticChanges(t *testing.T) {
	base := New().
		WithStartBlock(100).
		WithAddresses(addrA).
		WithEvents(transferSig)
	baseID := Fingerprint(base, 1)

	tests := []struct {
		name    string
		filter  Filter
		chainID uint64
	}{
		{name: "chain id", filter: base, chainID: 137},
		{name: "start block", filter: base.WithStartBlock(101), chainID: 1},
		{name: "extra address", filter: base.WithAddresses(addrB), chainID: 1},
		{name: "extra event", filter: base.WithEvents(approvalSig), chainID: 1},
		{name: "topic 1 constraint", filter: base.WithTopic(1, common.BytesToHash(addrA.Bytes())), chainID: 1},
		{
			name:    "same value at another position",
			filter:  New().WithStartBlock(100).WithAddresses(addrA).WithTopic(1, EventID(transferSig)),
			chainID: 1,
		},
		{
			name:    "address moved into topics",
			filter:  New().WithStartBlock(100).WithEvents(transferSig).WithTopic(1, common.BytesToHash(addrA.Bytes())),
			chainID: 1,
		},
	}

	seen := map[string]string{baseID: "base"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := Fingerprint(tt.filter, tt.chainID)
			require.NotEqual(t, baseID, id)

			prev, dup := seen[id]
			require.False(t, dup, "collides with %s", prev)
			seen[id] = tt.name
		})
	}
}

func TestFingerprint_DoesNotMutateFilter(t *testing.T) {
	f := New().WithAddresses(addrB, addrA)

	_ = Fingerprint(f, 1)

	require.Equal(t, []common.Address{addrB, addrA}, f.Addresses)
}

func TestFingerprint_Format(t *testing.T) {
	id := Fingerprint(New().WithAddresses(addrA), 1)

	require.Len(t, id, 66)
	require.Regexp(t, "^0x[0-9a-f]{64}$", id)
}
