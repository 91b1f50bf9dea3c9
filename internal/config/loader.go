package config

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	pkgconfig "github.com/goran-ethernal/LogIndexor/pkg/config"
	"gopkg.in/yaml.v3"
)

// envRef matches ${NAME} references. Bare $NAME and $$ are left alone so values such as
// passwords keep their dollar signs.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${NAME} with the value of the environment variable NAME.
func expandEnv(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(ref []byte) []byte {
		return []byte(os.Getenv(string(envRef.FindSubmatch(ref)[1])))
	})
}

type decodeFunc func(data []byte, cfg *pkgconfig.Config) error

// decoders maps a file extension to the decoder for that format.
var decoders = map[string]decodeFunc{
	".yaml": decodeYAML,
	".yml":  decodeYAML,
	".json": decodeJSON,
	".toml": decodeTOML,
}

func decodeYAML(data []byte, cfg *pkgconfig.Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return nil
}

func decodeJSON(data []byte, cfg *pkgconfig.Config) error {
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse JSON config: %w", err)
	}
	return nil
}

func decodeTOML(data []byte, cfg *pkgconfig.Config) error {
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return fmt.Errorf("failed to parse TOML config: %w", err)
	}
	return nil
}

// LoadFromFile reads a configuration file, picking the format from its extension
// (.yaml, .yml, .json or .toml). ${VAR} references are expanded from the
// environment before decoding. Defaults are applied and the result is validated.
func LoadFromFile(path string) (*pkgconfig.Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := decoders[ext]; !ok {
		return nil, fmt.Errorf("unsupported config file format: %s (supported: %s)",
			ext, strings.Join(slices.Sorted(maps.Keys(decoders)), ", "))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Load(data, ext)
}

// Load decodes data in the given format (a file extension such as ".yaml").
func Load(data []byte, format string) (*pkgconfig.Config, error) {
	decode, ok := decoders[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("unsupported config file format: %s", format)
	}

	var cfg pkgconfig.Config
	if err := decode(expandEnv(data), &cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
