package api

import (
	"encoding/json"
	"time"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status    string    `json:"status"`
	State     string    `json:"state"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusResponse describes the running indexer.
type StatusResponse struct {
	State             string `json:"state"`
	ChainID           uint64 `json:"chain_id"`
	FilterID          string `json:"filter_id"`
	StartBlock        uint64 `json:"start_block"`
	LastObservedBlock uint64 `json:"last_observed_block"`
	Subscribed        bool   `json:"subscribed"`
}

// CheckpointResponse is one persisted checkpoint. Filter is the stored filter definition.
type CheckpointResponse struct {
	FilterID          string          `json:"filter_id"`
	LastObservedBlock uint64          `json:"last_observed_block"`
	Filter            json.RawMessage `json:"filter" swaggertype:"object"`
}

// CheckpointListResponse lists all persisted checkpoints.
type CheckpointListResponse struct {
	Checkpoints []CheckpointResponse `json:"checkpoints"`
	Total       int                  `json:"total"`
}
