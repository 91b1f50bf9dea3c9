package rpc

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/goran-ethernal/LogIndexor/internal/common"
)

var (
	tooManyResultsRe = regexp.MustCompile(`(?i)query returned more than \d+ results`)
	suggestedRangeRe = regexp.MustCompile(`\[(0x[0-9a-fA-F]+),\s*(0x[0-9a-fA-F]+)\]`)
)

// IsTooManyResultsError reports whether err is the eth_getLogs "too many results" error.
// Nodes put the details either in the error data or in the message, both are checked.
// The second return value is the text the match was found in.
func IsTooManyResultsError(err error) (bool, string) {
	if err == nil {
		return false, ""
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) && dataErr.ErrorData() != nil {
		errData := fmt.Sprintf("%v", dataErr.ErrorData())
		if tooManyResultsRe.MatchString(errData) {
			return true, errData
		}
	}

	if msg := err.Error(); tooManyResultsRe.MatchString(msg) {
		return true, msg
	}

	return false, ""
}

// ParseSuggestedBlockRange extracts the block range a node suggests in a "too many results" error.
// Expected format: "Query returned more than 10000 results. Try with this block range [0x7dfd25, 0x7e0fcc]."
func ParseSuggestedBlockRange(errText string) (fromBlock, toBlock uint64, ok bool) {
	matches := suggestedRangeRe.FindStringSubmatch(errText)

	const expectedMatches = 3 // full match + 2 groups
	if len(matches) != expectedMatches {
		return 0, 0, false
	}

	from, err1 := common.ParseUint64OrHex(matches[1])
	to, err2 := common.ParseUint64OrHex(matches[2])
	if err1 != nil || err2 != nil || from > to {
		return 0, 0, false
	}

	return from, to, true
}
