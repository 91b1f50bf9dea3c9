package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	// Import built-in processors to register them
	_ "github.com/goran-ethernal/LogIndexor/examples/processors/erc20"
	_ "github.com/goran-ethernal/LogIndexor/examples/processors/rawlog"
	"github.com/goran-ethernal/LogIndexor/internal/config"
	"github.com/goran-ethernal/LogIndexor/internal/logger"
	pkgconfig "github.com/goran-ethernal/LogIndexor/pkg/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	version = "1.0.0"
	banner  = `
╔═══════════════════════════════════════════╗
║            LogIndexor v%s              ║
║   Checkpointed Event Log Indexer          ║
╚═══════════════════════════════════════════╝
`
)

var (
	configPath string
	envFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "indexer",
	Short: "LogIndexor - checkpointed blockchain event log indexer",
	Long: `LogIndexor follows the logs matched by a contract filter, hands every finalized
block range to a processor and advances a persisted checkpoint in the same
database transaction, so a restart resumes exactly where it stopped.`,
	Version:           version,
	PersistentPreRunE: loadEnv,
	RunE:              runIndexer,
	SilenceUsage:      true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the configuration")

	rootCmd.AddCommand(checkpointsCmd, fingerprintCmd, processorsCmd, schemaCmd)
}

// loadEnv loads the dotenv file. A missing default file is not an error.
func loadEnv(cmd *cobra.Command, _ []string) error {
	if envFile == "" {
		return nil
	}

	err := godotenv.Load(envFile)
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("env-file") {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}

	return nil
}

func loadConfig() (*pkgconfig.Config, error) {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// newLogger builds the process logger and makes it the default one.
func newLogger(cfg *pkgconfig.LoggingConfig) (*logger.Logger, error) {
	level, development := "info", false
	if cfg != nil {
		level, development = cfg.GetDefaultLevel(), cfg.IsDevelopment()
	}

	log, err := logger.NewLogger(level, development)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	logger.SetDefaultLogger(log)
	return log, nil
}
