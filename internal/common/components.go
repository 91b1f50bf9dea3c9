package common

const (
	ComponentIndexer         = "indexer"
	ComponentCheckpointStore = "checkpoint-store"
	ComponentRPC             = "rpc"
	ComponentMaintenance     = "maintenance"
	ComponentAPI             = "api"
	ComponentNotifier        = "notifier"
	ComponentProcessor       = "processor"
	ComponentMetrics         = "metrics"
)

var AllComponents = map[string]struct{}{
	ComponentIndexer:         {},
	ComponentCheckpointStore: {},
	ComponentRPC:             {},
	ComponentMaintenance:     {},
	ComponentAPI:             {},
	ComponentNotifier:        {},
	ComponentProcessor:       {},
	ComponentMetrics:         {},
}
