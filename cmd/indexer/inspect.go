package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/goran-ethernal/LogIndexor/internal/common"
	"github.com/goran-ethernal/LogIndexor/internal/db"
	"github.com/goran-ethernal/LogIndexor/internal/logger"
	"github.com/goran-ethernal/LogIndexor/internal/rpc"
	checkpointstore "github.com/goran-ethernal/LogIndexor/internal/storage"
	pkgconfig "github.com/goran-ethernal/LogIndexor/pkg/config"
	"github.com/goran-ethernal/LogIndexor/pkg/filter"
	"github.com/goran-ethernal/LogIndexor/pkg/processor"
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
)

var chainID uint64

var checkpointsCmd = &cobra.Command{
	Use:   "checkpoints",
	Short: "List persisted checkpoints",
	Long:  `List every filter id stored in the configured database with its last observed block.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, err := db.Open(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		store := checkpointstore.NewStore(database, nil, logger.NewNopLogger())
		if err := store.EnsureSchema(cmd.Context()); err != nil {
			return err
		}

		cps, err := store.List(cmd.Context())
		if err != nil {
			return err
		}

		if len(cps) == 0 {
			fmt.Println("(no checkpoints)")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "FILTER ID\tLAST OBSERVED BLOCK\tFILTER")
		for _, cp := range cps {
			fmt.Fprintf(w, "%s\t%d\t%s\n", cp.FilterID, cp.LastObservedBlock, cp.Filter)
		}
		return w.Flush()
	},
}

var fingerprintCmd = &cobra.Command{
	Use:   "fingerprint",
	Short: "Print the filter id of the configured filter",
	Long: `Print the fingerprint the configured filter is checkpointed under.
The chain id is read from the RPC endpoint unless --chain-id is given.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		f, err := filter.FromConfig(cfg.Filter)
		if err != nil {
			return fmt.Errorf("invalid filter: %w", err)
		}

		id := chainID
		if !cmd.Flags().Changed("chain-id") {
			id, err = fetchChainID(cmd, cfg)
			if err != nil {
				return err
			}
		}

		fmt.Println(filter.Fingerprint(f, id))
		return nil
	},
}

func fetchChainID(cmd *cobra.Command, cfg *pkgconfig.Config) (uint64, error) {
	client, err := rpc.NewClient(cmd.Context(), cfg.Indexer.RPCURL, cfg.Indexer.Retry,
		logger.NewNopLogger().WithComponent(common.ComponentRPC))
	if err != nil {
		return 0, err
	}
	defer client.Close()

	id, err := client.ChainID(cmd.Context())
	if err != nil {
		return 0, fmt.Errorf("failed to get chain id: %w", err)
	}

	return id, nil
}

var processorsCmd = &cobra.Command{
	Use:   "processors",
	Short: "List available processor types",
	Long:  `List all registered processor types that can be used in the configuration file.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Available processor types:")
		types := processor.List()
		if len(types) == 0 {
			fmt.Println("  (no processors registered)")
			return
		}
		for _, t := range types {
			fmt.Printf("  - %s\n", t)
		}
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the configuration file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		r := &jsonschema.Reflector{
			FieldNameTag:   "yaml",
			ExpandedStruct: true,
		}

		out, err := json.MarshalIndent(r.Reflect(&pkgconfig.Config{}), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode schema: %w", err)
		}

		fmt.Println(string(out))
		return nil
	},
}

func init() {
	fingerprintCmd.Flags().Uint64Var(&chainID, "chain-id", 0, "chain id to fingerprint with instead of asking the RPC")
}
