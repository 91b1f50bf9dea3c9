package rpc

import (
	"cmp"
	"slices"

	"github.com/ethereum/go-ethereum/core/types"
)

// SortLogs orders logs by block number and log index, dropping duplicates and logs
// flagged as removed. Nodes differ in how they order split or retried responses.
func SortLogs(logs []types.Log) []types.Log {
	out := make([]types.Log, 0, len(logs))
	for _, l := range logs {
		if !l.Removed {
			out = append(out, l)
		}
	}

	slices.SortStableFunc(out, func(a, b types.Log) int {
		if c := cmp.Compare(a.BlockNumber, b.BlockNumber); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})

	return slices.CompactFunc(out, func(a, b types.Log) bool {
		return a.BlockNumber == b.BlockNumber && a.Index == b.Index
	})
}
