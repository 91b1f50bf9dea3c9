package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goran-ethernal/LogIndexor/internal/indexer"
	"github.com/goran-ethernal/LogIndexor/internal/logger"
	"github.com/goran-ethernal/LogIndexor/pkg/storage"
)

// StatusProvider reports the state of the indexer. *indexer.Indexer implements it.
type StatusProvider interface {
	Status() indexer.Status
}

// CheckpointReader reads persisted checkpoints. The checkpoint store implements it.
type CheckpointReader interface {
	Get(ctx context.Context, filterID string) (*storage.Checkpoint, error)
	List(ctx context.Context) ([]*storage.Checkpoint, error)
}

// Handler handles HTTP requests for the API.
type Handler struct {
	status      StatusProvider
	checkpoints CheckpointReader
	log         *logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(status StatusProvider, checkpoints CheckpointReader, log *logger.Logger) *Handler {
	return &Handler{
		status:      status,
		checkpoints: checkpoints,
		log:         log,
	}
}

// Health reports whether the indexer loop is alive.
// @Summary Health check
// @Description Returns 200 while the indexer is initializing or running and 503 once it stopped
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	state := h.status.Status().State

	resp := HealthResponse{
		Status:    "healthy",
		State:     state,
		Timestamp: time.Now().UTC(),
	}

	code := http.StatusOK
	if state == indexer.StateStopped.String() {
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	respondJSON(w, code, resp)
}

// GetStatus returns the indexer state and progress.
// @Summary Indexer status
// @Description Chain id, filter id, lifecycle state and last observed block of the indexer
// @Tags Status
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /api/v1/status [get]
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	s := h.status.Status()

	respondJSON(w, http.StatusOK, StatusResponse{
		State:             s.State,
		ChainID:           s.ChainID,
		FilterID:          s.FilterID,
		StartBlock:        s.StartBlock,
		LastObservedBlock: s.LastObservedBlock,
		Subscribed:        s.Subscribed,
	})
}

// ListCheckpoints returns every persisted checkpoint.
// @Summary List checkpoints
// @Description All filters known to the checkpoint store with their last observed block
// @Tags Checkpoints
// @Produce json
// @Success 200 {object} CheckpointListResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/checkpoints [get]
func (h *Handler) ListCheckpoints(w http.ResponseWriter, r *http.Request) {
	cps, err := h.checkpoints.List(r.Context())
	if err != nil {
		h.log.Errorw("failed to list checkpoints", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list checkpoints")
		return
	}

	resp := CheckpointListResponse{
		Checkpoints: make([]CheckpointResponse, 0, len(cps)),
		Total:       len(cps),
	}
	for _, cp := range cps {
		resp.Checkpoints = append(resp.Checkpoints, toCheckpointResponse(cp))
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetCheckpoint returns the checkpoint of one filter.
// @Summary Get checkpoint
// @Description Checkpoint of a single filter fingerprint
// @Tags Checkpoints
// @Produce json
// @Param id path string true "Filter id (0x-prefixed fingerprint)"
// @Success 200 {object} CheckpointResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/checkpoints/{id} [get]
func (h *Handler) GetCheckpoint(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "filter id is required")
		return
	}

	cp, err := h.checkpoints.Get(r.Context(), id)
	switch {
	case errors.Is(err, storage.ErrCheckpointNotFound):
		respondError(w, http.StatusNotFound, fmt.Sprintf("checkpoint '%s' not found", id))
		return
	case err != nil:
		h.log.Errorw("failed to get checkpoint", "filter_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to get checkpoint")
		return
	}

	respondJSON(w, http.StatusOK, toCheckpointResponse(cp))
}

func toCheckpointResponse(cp *storage.Checkpoint) CheckpointResponse {
	resp := CheckpointResponse{
		FilterID:          cp.FilterID,
		LastObservedBlock: cp.LastObservedBlock,
		Filter:            json.RawMessage(cp.Filter),
	}
	if !json.Valid(resp.Filter) {
		resp.Filter = nil
	}
	return resp
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers are already sent
		logger.GetDefaultLogger().Errorw("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
