package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appfulfillment "github.com/fulfillsync/backend/internal/application/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/interfaces/http/dto"
)

func syncRouter(syncer *mockSyncer, tracker *mockTracker) *gin.Engine {
	h := NewSyncHandler(syncer, tracker)
	r := newTestRouter(testSellerID)
	r.POST("/v1/inventory/sync", h.SyncInventory)
	r.GET("/v1/inventory/sync", h.GetSyncStatus)
	r.GET("/v1/inventory/sync/runs", h.ListSyncRuns)
	return r
}

func TestSyncHandler_SyncInventory(t *testing.T) {
	runID := uuid.New()

	t.Run("reports per provider outcomes", func(t *testing.T) {
		syncer := new(mockSyncer)
		syncer.On("SyncInventory", mock.Anything, appfulfillment.SyncRequest{
			SellerID:  testSellerID,
			Providers: []fulfillment.ProviderName{"shipbob", "flexport"},
			Options:   fulfillment.SyncOptions{FullSync: true},
			Trigger:   fulfillment.SyncTriggerAPI,
		}).Return(&appfulfillment.SyncResult{
			RequestID: "req-1",
			SyncCount: 1,
			FailCount: 1,
			Syncs: []appfulfillment.ProviderSync{{
				Provider: "shipbob", RunID: runID, Status: fulfillment.SyncRunStatusCompleted,
				ItemsSynced: 12, Duration: 1500 * time.Millisecond,
			}},
			Failures: []appfulfillment.ProviderFailure{{
				Provider: "flexport", Code: "rate_limited", Message: "slow down", RetryAfter: 2500 * time.Millisecond,
			}},
		}, nil)

		w := doRequest(syncRouter(syncer, new(mockTracker)), http.MethodPost, "/v1/inventory/sync", map[string]any{
			"providers": []string{"shipbob", "flexport"},
			"options":   map[string]any{"fullSync": true},
		})

		require.Equal(t, http.StatusOK, w.Code)
		env := decode[SyncInventoryResponse](w)
		assert.True(t, env.Success)
		assert.Equal(t, 1, env.Data.SyncCount)
		assert.Equal(t, 1, env.Data.FailCount)
		require.Len(t, env.Data.Syncs, 1)
		assert.Equal(t, runID.String(), env.Data.Syncs[0].SyncID)
		assert.Equal(t, int64(1500), env.Data.Syncs[0].DurationMs)
		require.Len(t, env.Data.Failures, 1)
		assert.Equal(t, 3, env.Data.Failures[0].RetryAfterSeconds)
		syncer.AssertExpectations(t)
	})

	t.Run("empty body syncs every provider", func(t *testing.T) {
		syncer := new(mockSyncer)
		syncer.On("SyncInventory", mock.Anything, mock.MatchedBy(func(req appfulfillment.SyncRequest) bool {
			return len(req.Providers) == 0 && req.SellerID == testSellerID
		})).Return(&appfulfillment.SyncResult{}, nil)

		w := doRequest(syncRouter(syncer, new(mockTracker)), http.MethodPost, "/v1/inventory/sync", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		syncer.AssertExpectations(t)
	})

	t.Run("rejects malformed provider names", func(t *testing.T) {
		syncer := new(mockSyncer)
		w := doRequest(syncRouter(syncer, new(mockTracker)), http.MethodPost, "/v1/inventory/sync", map[string]any{
			"providers": []string{"Not A Provider"},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, decode[any](w).Error.Code)
		syncer.AssertNotCalled(t, "SyncInventory", mock.Anything, mock.Anything)
	})

	t.Run("unknown provider is a client error", func(t *testing.T) {
		syncer := new(mockSyncer)
		syncer.On("SyncInventory", mock.Anything, mock.Anything).Return(nil, fulfillment.ErrUnknownProvider)

		w := doRequest(syncRouter(syncer, new(mockTracker)), http.MethodPost, "/v1/inventory/sync", map[string]any{
			"providers": []string{"nobody"},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeUnknownProvider, decode[any](w).Error.Code)
	})
}

func TestSyncHandler_GetSyncStatus(t *testing.T) {
	runID := uuid.New()
	run := &fulfillment.SyncRun{ID: runID, SellerID: testSellerID, ProviderName: "shipbob", Status: fulfillment.SyncRunStatusRunning}

	t.Run("by sync id", func(t *testing.T) {
		tracker := new(mockTracker)
		tracker.On("Status", mock.Anything, testSellerID, runID).Return(run, nil)

		w := doRequest(syncRouter(new(mockSyncer), tracker), http.MethodGet, "/v1/inventory/sync?syncId="+runID.String(), nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "running", decode[SyncRunResponse](w).Data.Status)
	})

	t.Run("untracked id reports unknown", func(t *testing.T) {
		other := uuid.New()
		tracker := new(mockTracker)
		tracker.On("Status", mock.Anything, testSellerID, other).
			Return(&fulfillment.SyncRun{ID: other, Status: fulfillment.SyncRunStatusUnknown}, nil)

		w := doRequest(syncRouter(new(mockSyncer), tracker), http.MethodGet, "/v1/inventory/sync?syncId="+other.String(), nil)

		require.Equal(t, http.StatusOK, w.Code)
		data := decode[SyncRunResponse](w).Data
		assert.Equal(t, "unknown", data.Status)
		assert.Nil(t, data.CreatedAt)
	})

	t.Run("latest by provider", func(t *testing.T) {
		tracker := new(mockTracker)
		tracker.On("Latest", mock.Anything, testSellerID, fulfillment.ProviderName("shipbob")).Return(run, nil)

		w := doRequest(syncRouter(new(mockSyncer), tracker), http.MethodGet, "/v1/inventory/sync?provider=shipbob", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		tracker.AssertExpectations(t)
	})

	t.Run("requires a selector", func(t *testing.T) {
		w := doRequest(syncRouter(new(mockSyncer), new(mockTracker)), http.MethodGet, "/v1/inventory/sync", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects malformed sync id", func(t *testing.T) {
		w := doRequest(syncRouter(new(mockSyncer), new(mockTracker)), http.MethodGet, "/v1/inventory/sync?syncId=abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSyncHandler_ListSyncRuns(t *testing.T) {
	tracker := new(mockTracker)
	tracker.On("Recent", mock.Anything, fulfillment.SyncRunFilter{
		SellerID: testSellerID, ProviderName: "shipbob", Limit: 5,
	}).Return([]fulfillment.SyncRun{{ID: uuid.New()}, {ID: uuid.New()}}, nil)

	w := doRequest(syncRouter(new(mockSyncer), tracker), http.MethodGet, "/v1/inventory/sync/runs?provider=shipbob&limit=5", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]SyncRunResponse](w).Data, 2)
	tracker.AssertExpectations(t)
}
