package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseUint64OrHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    uint64
		wantErr bool
	}{
		{name: "decimal", input: "12345", want: 12345},
		{name: "hex", input: "0x1a2b", want: 0x1a2b},
		{name: "upper case hex prefix", input: "0XDEADBEEF", want: 0xDEADBEEF},
		{name: "surrounding spaces", input: "  42 ", want: 42},
		{name: "invalid decimal", input: "12abc", wantErr: true},
		{name: "invalid hex", input: "0xGHIJK", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "bare prefix", input: "0x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUint64OrHex(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestToLowerWithTrim(t *testing.T) {
	require.Equal(t, "checkpoint-store", ToLowerWithTrim("  Checkpoint-Store\n"))
}

func TestBytesToMB(t *testing.T) {
	require.Equal(t, uint64(3), BytesToMB(3*1024*1024+512))
}
