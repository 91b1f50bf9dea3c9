package common

import (
	"time"

	"github.com/invopop/jsonschema"
)

// Duration is a time.Duration that decodes from strings like "12s" or "1h30m"
// in YAML, JSON and TOML configuration files.
type Duration struct {
	time.Duration
}

// NewDuration wraps d.
func NewDuration(d time.Duration) Duration {
	return Duration{Duration: d}
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(data []byte) error {
	parsed, err := time.ParseDuration(string(data))
	if err != nil {
		return err
	}

	d.Duration = parsed
	return nil
}

// MarshalText renders the duration in the same form UnmarshalText accepts.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// JSONSchema describes Duration as a string in the generated config schema.
func (Duration) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:  "string",
		Title: "Duration",
		Description: "Duration expressed in units: " +
			"[ns, us, ms, s, m, h], e.g. 12s, 1m30s",
		Examples: []any{"1m", "300ms", "12s"},
	}
}
