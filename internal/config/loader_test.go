package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goran-ethernal/LogIndexor/pkg/config"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile_Examples(t *testing.T) {
	for _, file := range []string{
		"../../config.example.yaml",
		"../../config.example.json",
		"../../config.example.toml",
	} {
		t.Run(filepath.Ext(file), func(t *testing.T) {
			cfg, err := LoadFromFile(file)
			require.NoError(t, err)
			validateExampleConfig(t, cfg)
		})
	}
}

func validateExampleConfig(t *testing.T, cfg *config.Config) {
	t.Helper()

	require.Equal(t, "http://localhost:8545", cfg.Indexer.RPCURL)
	require.Equal(t, "ws://localhost:8546", cfg.Indexer.WSURL)
	require.Equal(t, 6*time.Second, cfg.Indexer.PollInterval.Duration)
	require.Equal(t, uint64(2000), cfg.Indexer.BlockRangeLimit)
	require.NotNil(t, cfg.Indexer.Retry)
	require.Equal(t, 3, cfg.Indexer.Retry.MaxAttempts)

	require.NotNil(t, cfg.Filter.StartBlock)
	require.Equal(t, uint64(100), *cfg.Filter.StartBlock)
	require.Len(t, cfg.Filter.Addresses, 1)
	require.Equal(t, []string{
		"Transfer(address,address,uint256)",
		"Approval(address,address,uint256)",
	}, cfg.Filter.Events)

	require.Equal(t, config.DriverSQLite, cfg.Storage.Driver)
	require.Equal(t, "./data/indexer.db", cfg.Storage.SQLite.Path)
	require.Equal(t, "WAL", cfg.Storage.SQLite.JournalMode)
	require.NotNil(t, cfg.Storage.Maintenance)
	require.Equal(t, "TRUNCATE", cfg.Storage.Maintenance.WALCheckpointMode)

	require.Equal(t, "erc20", cfg.Processor.Type)

	require.Equal(t, "info", cfg.Logging.DefaultLevel)
	require.Equal(t, "debug", cfg.Logging.GetComponentLevel("indexer"))
	require.True(t, cfg.Metrics.Enabled)
	require.Equal(t, ":8080", cfg.API.ListenAddress)
	require.False(t, cfg.Notify.Enabled)
}

func TestLoadFromFile_UnsupportedFormat(t *testing.T) {
	_, err := LoadFromFile("config.ini")
	require.ErrorContains(t, err, "unsupported config file format")
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "failed to read config file")
}

func TestLoadFromFile_ExpandsEnvironment(t *testing.T) {
	t.Setenv("LOGINDEXOR_TEST_RPC", "https://rpc.example.org")
	t.Setenv("LOGINDEXOR_TEST_DSN", "postgres://indexer:secret@db:5432/logs?sslmode=disable")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
indexer:
  rpc_url: ${LOGINDEXOR_TEST_RPC}
filter:
  addresses: ["0x00000000000000000000000000000000000000aa"]
storage:
  driver: postgres
  postgres:
    dsn: ${LOGINDEXOR_TEST_DSN}
`), 0o600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.Equal(t, "https://rpc.example.org", cfg.Indexer.RPCURL)
	require.Equal(t, "postgres://indexer:secret@db:5432/logs?sslmode=disable", cfg.Storage.Postgres.DSN)
	require.Equal(t, 10, cfg.Storage.Postgres.MaxOpenConnections)
	require.Equal(t, config.DefaultProcessorType, cfg.Processor.Type)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"indexer":{"rpc_url":""}}`), 0o600))

	_, err := LoadFromFile(path)
	require.ErrorContains(t, err, "invalid configuration")
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		format string
		data   string
	}{
		{format: ".yaml", data: "indexer:\n  rpc_url: http://node:8545\nfilter:\n  start_block: 7\nstorage:\n  sqlite:\n    path: idx.db\n"},
		{format: ".json", data: `{"indexer":{"rpc_url":"http://node:8545"},"filter":{"start_block":7},"storage":{"sqlite":{"path":"idx.db"}}}`},
		{format: ".TOML", data: "[indexer]\nrpc_url = \"http://node:8545\"\n[filter]\nstart_block = 7\n[storage.sqlite]\npath = \"idx.db\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			cfg, err := Load([]byte(tt.data), tt.format)
			require.NoError(t, err)
			require.Equal(t, "http://node:8545", cfg.Indexer.RPCURL)
			require.Equal(t, uint64(7), *cfg.Filter.StartBlock)
			require.Equal(t, config.DriverSQLite, cfg.Storage.Driver)
		})
	}

	_, err := Load([]byte("{}"), ".ini")
	require.ErrorContains(t, err, "unsupported config file format")

	_, err = Load([]byte("indexer: [unterminated"), ".yaml")
	require.ErrorContains(t, err, "failed to parse YAML config")
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("LOGINDEXOR_TEST_USER", "indexer")
	t.Setenv("HOME", "/home/indexer")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "braced reference", in: "user=${LOGINDEXOR_TEST_USER}", want: "user=indexer"},
		{name: "unset variable", in: "x=${LOGINDEXOR_TEST_UNSET}", want: "x="},
		{name: "bare reference kept", in: "dir=$HOME", want: "dir=$HOME"},
		{name: "double dollar kept", in: "password=pa$$word", want: "password=pa$$word"},
		{name: "invalid name kept", in: "${1abc} ${}", want: "${1abc} ${}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, string(expandEnv([]byte(tt.in))))
		})
	}
}

func TestLoad_KeepsDollarSignsInDSN(t *testing.T) {
	t.Setenv("LOGINDEXOR_TEST_DB_HOST", "db")

	cfg, err := Load([]byte(`
indexer:
  rpc_url: http://node:8545
storage:
  driver: postgres
  postgres:
    dsn: postgres://indexer:pa$$word@${LOGINDEXOR_TEST_DB_HOST}:5432/logs
`), ".yaml")
	require.NoError(t, err)
	require.Equal(t, "postgres://indexer:pa$$word@db:5432/logs", cfg.Storage.Postgres.DSN)
}
