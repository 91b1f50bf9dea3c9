package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goran-ethernal/LogIndexor/internal/indexer"
	"github.com/goran-ethernal/LogIndexor/internal/logger"
	"github.com/goran-ethernal/LogIndexor/pkg/api/mocks"
	"github.com/goran-ethernal/LogIndexor/pkg/storage"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testFilterID = "0xab7593a9c4e1d9b6f0a2e8c3d5b7f9a1c3e5d7b9f1a3c5e7d9b1f3a5c7e9575a"

func runningStatus() indexer.Status {
	return indexer.Status{
		State:             indexer.StateRunning.String(),
		ChainID:           1,
		FilterID:          testFilterID,
		StartBlock:        100,
		LastObservedBlock: 140,
		Subscribed:        true,
	}
}

func newTestHandler(t *testing.T) (*Handler, *mocks.StatusProvider, *mocks.CheckpointReader) {
	t.Helper()

	status := mocks.NewStatusProvider(t)
	checkpoints := mocks.NewCheckpointReader(t)

	return NewHandler(status, checkpoints, logger.NewNopLogger()), status, checkpoints
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestHandler_Health(t *testing.T) {
	tests := []struct {
		name       string
		state      indexer.State
		wantCode   int
		wantStatus string
	}{
		{name: "initializing", state: indexer.StateInitializing, wantCode: http.StatusOK, wantStatus: "healthy"},
		{name: "running", state: indexer.StateRunning, wantCode: http.StatusOK, wantStatus: "healthy"},
		{name: "stopped", state: indexer.StateStopped, wantCode: http.StatusServiceUnavailable, wantStatus: "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, status, _ := newTestHandler(t)
			status.EXPECT().Status().Return(indexer.Status{State: tt.state.String()}).Once()

			rec := httptest.NewRecorder()
			h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, tt.wantCode, rec.Code)

			resp := decode[HealthResponse](t, rec)
			require.Equal(t, tt.wantStatus, resp.Status)
			require.Equal(t, tt.state.String(), resp.State)
			require.False(t, resp.Timestamp.IsZero())
		})
	}
}

func TestHandler_GetStatus(t *testing.T) {
	h, status, _ := newTestHandler(t)
	status.EXPECT().Status().Return(runningStatus()).Once()

	rec := httptest.NewRecorder()
	h.GetStatus(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[StatusResponse](t, rec)
	require.Equal(t, StatusResponse{
		State:             "running",
		ChainID:           1,
		FilterID:          testFilterID,
		StartBlock:        100,
		LastObservedBlock: 140,
		Subscribed:        true,
	}, resp)
}

func TestHandler_ListCheckpoints(t *testing.T) {
	t.Run("lists", func(t *testing.T) {
		h, _, checkpoints := newTestHandler(t)
		checkpoints.EXPECT().List(mock.Anything).Return([]*storage.Checkpoint{
			{FilterID: "0x01", LastObservedBlock: 150, Filter: `{"chain_id":1,"start_block":100}`},
			{FilterID: "0x02", LastObservedBlock: 7, Filter: "not json"},
		}, nil).Once()

		rec := httptest.NewRecorder()
		h.ListCheckpoints(rec, httptest.NewRequest(http.MethodGet, "/api/v1/checkpoints", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"filter":null`)

		resp := decode[CheckpointListResponse](t, rec)
		require.Equal(t, 2, resp.Total)
		require.Len(t, resp.Checkpoints, 2)
		require.Equal(t, "0x01", resp.Checkpoints[0].FilterID)
		require.Equal(t, uint64(150), resp.Checkpoints[0].LastObservedBlock)
		require.JSONEq(t, `{"chain_id":1,"start_block":100}`, string(resp.Checkpoints[0].Filter))
	})

	t.Run("empty store", func(t *testing.T) {
		h, _, checkpoints := newTestHandler(t)
		checkpoints.EXPECT().List(mock.Anything).Return(nil, nil).Once()

		rec := httptest.NewRecorder()
		h.ListCheckpoints(rec, httptest.NewRequest(http.MethodGet, "/api/v1/checkpoints", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"checkpoints":[],"total":0}`, rec.Body.String())
	})

	t.Run("store error", func(t *testing.T) {
		h, _, checkpoints := newTestHandler(t)
		checkpoints.EXPECT().List(mock.Anything).Return(nil, errors.New("database is locked")).Once()

		rec := httptest.NewRecorder()
		h.ListCheckpoints(rec, httptest.NewRequest(http.MethodGet, "/api/v1/checkpoints", nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)

		resp := decode[ErrorResponse](t, rec)
		require.Equal(t, http.StatusInternalServerError, resp.Code)
		require.Equal(t, "failed to list checkpoints", resp.Message)
		require.NotContains(t, rec.Body.String(), "database is locked")
	})
}

func TestHandler_GetCheckpoint(t *testing.T) {
	request := func(id string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/checkpoints/"+id, nil)
		req.SetPathValue("id", id)
		return req
	}

	t.Run("found", func(t *testing.T) {
		h, _, checkpoints := newTestHandler(t)
		checkpoints.EXPECT().Get(mock.Anything, testFilterID).Return(&storage.Checkpoint{
			FilterID:          testFilterID,
			LastObservedBlock: 120,
			Filter:            `{"chain_id":1}`,
		}, nil).Once()

		rec := httptest.NewRecorder()
		h.GetCheckpoint(rec, request(testFilterID))

		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[CheckpointResponse](t, rec)
		require.Equal(t, testFilterID, resp.FilterID)
		require.Equal(t, uint64(120), resp.LastObservedBlock)
	})

	t.Run("not found", func(t *testing.T) {
		h, _, checkpoints := newTestHandler(t)
		checkpoints.EXPECT().Get(mock.Anything, "0xdead").Return(nil, storage.ErrCheckpointNotFound).Once()

		rec := httptest.NewRecorder()
		h.GetCheckpoint(rec, request("0xdead"))

		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "checkpoint '0xdead' not found", decode[ErrorResponse](t, rec).Message)
	})

	t.Run("store error", func(t *testing.T) {
		h, _, checkpoints := newTestHandler(t)
		checkpoints.EXPECT().Get(mock.Anything, "0xbeef").Return(nil, errors.New("boom")).Once()

		rec := httptest.NewRecorder()
		h.GetCheckpoint(rec, request("0xbeef"))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("missing id", func(t *testing.T) {
		h, _, _ := newTestHandler(t)

		rec := httptest.NewRecorder()
		h.GetCheckpoint(rec, httptest.NewRequest(http.MethodGet, "/api/v1/checkpoints/", nil))

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
