package rpc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type testDataError struct {
	data any
	msg  string
}

func (e *testDataError) Error() string  { return e.msg }
func (e *testDataError) ErrorData() any { return e.data }

func TestIsTooManyResultsError(t *testing.T) {
	t.Parallel()

	const tooMany = "Query returned more than 10000 results. Try with this block range [0x64, 0x6e]."

	tests := []struct {
		name      string
		err       error
		wantMatch bool
		wantText  string
	}{
		{name: "nil error"},
		{name: "unrelated error", err: errors.New("execution reverted")},
		{
			name:      "data error",
			err:       &testDataError{data: tooMany, msg: "invalid params"},
			wantMatch: true,
			wantText:  tooMany,
		},
		{
			name:      "message only",
			err:       fmt.Errorf("eth_getLogs: %w", errors.New("query returned more than 5000 results")),
			wantMatch: true,
			wantText:  "eth_getLogs: query returned more than 5000 results",
		},
		{
			name: "similar wording",
			err:  &testDataError{data: "Query returned less than 20000 results.", msg: "fine"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotMatch, gotText := IsTooManyResultsError(tt.err)

			require.Equal(t, tt.wantMatch, gotMatch)
			require.Equal(t, tt.wantText, gotText)
		})
	}
}

func TestParseSuggestedBlockRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		errText  string
		wantFrom uint64
		wantTo   uint64
		wantOK   bool
	}{
		{name: "empty"},
		{name: "no range", errText: "Query returned more than 20000 results."},
		{
			name:     "range",
			errText:  "Query returned more than 20000 results. Try with this block range [0x7dfd25, 0x7e0fcc].",
			wantFrom: 8256805,
			wantTo:   8261580,
			wantOK:   true,
		},
		{name: "mixed case and spaces", errText: "[0x1aBc,   0x2DEF]", wantFrom: 6844, wantTo: 11759, wantOK: true},
		{name: "inverted range", errText: "[0x20, 0x10]"},
		{name: "no brackets", errText: "Try with this block range 0x1234, 0x5678."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			from, to, ok := ParseSuggestedBlockRange(tt.errText)

			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.wantFrom, from)
			require.Equal(t, tt.wantTo, to)
		})
	}
}

func TestSplitPoint(t *testing.T) {
	t.Parallel()

	require.Equal(t, uint64(150), splitPoint(100, 200, ""))
	require.Equal(t, uint64(110), splitPoint(100, 200, "Try with this block range [0x64, 0x6e]."))
	// suggestions that do not start at from or do not shrink the range are ignored
	require.Equal(t, uint64(150), splitPoint(100, 200, "[0x65, 0x6e]"))
	require.Equal(t, uint64(150), splitPoint(100, 200, "[0x64, 0xc8]"))
	require.Equal(t, uint64(100), splitPoint(100, 101, ""))
}
