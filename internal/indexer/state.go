package indexer

import "errors"

// State is the lifecycle stage of an Indexer.
type State int32

const (
	StateInitializing State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

var (
	ErrMissingRPCURL       = errors.New("indexer: rpc url or client is required")
	ErrMissingProcessor    = errors.New("indexer: processor is required")
	ErrMissingFilter       = errors.New("indexer: filter is required")
	ErrMissingPollInterval = errors.New("indexer: poll interval must be positive")
	ErrMissingStorage      = errors.New("indexer: checkpoint storage is required")

	// ErrNoFinalizedBlock is returned by a tick when the node reports no finalized block.
	ErrNoFinalizedBlock = errors.New("node reported no finalized block")

	// ErrSubscriptionFailed wraps the error delivered by a broken log subscription.
	ErrSubscriptionFailed = errors.New("log subscription failed")

	// ErrNotRunnable is returned when Run is called on an indexer that already started.
	ErrNotRunnable = errors.New("indexer already started")
)
