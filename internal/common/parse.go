package common

import (
	"strconv"
	"strings"
)

const bytesInMB = 1024 * 1024

// ParseUint64OrHex parses a decimal or 0x-prefixed hexadecimal block number.
func ParseUint64OrHex(val string) (uint64, error) {
	s := strings.TrimSpace(val)

	if rest, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		return strconv.ParseUint(rest, 16, 64)
	}

	return strconv.ParseUint(s, 10, 64)
}

// BytesToMB truncates a byte count to whole megabytes.
func BytesToMB(bytes uint64) uint64 {
	return bytes / bytesInMB
}

// ToLowerWithTrim normalizes config keys and enum values.
func ToLowerWithTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
