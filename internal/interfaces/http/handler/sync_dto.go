package handler

import (
	"time"

	"github.com/google/uuid"

	appfulfillment "github.com/fulfillsync/backend/internal/application/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// SyncInventoryRequest is the body of POST /v1/inventory/sync
type SyncInventoryRequest struct {
	Providers []string         `json:"providers" binding:"omitempty,max=16,dive,provider_name"`
	Options   SyncOptionsInput `json:"options"`
}

// SyncOptionsInput tunes a sync run
type SyncOptionsInput struct {
	FullSync    bool `json:"fullSync"`
	ForceUpdate bool `json:"forceUpdate"`
	Sandbox     bool `json:"sandbox"`
}

func (o SyncOptionsInput) toDomain() fulfillment.SyncOptions {
	return fulfillment.SyncOptions{FullSync: o.FullSync, ForceUpdate: o.ForceUpdate, Sandbox: o.Sandbox}
}

// SyncStatusQuery selects a run by id or the latest run of a provider
type SyncStatusQuery struct {
	SyncID   string `form:"syncId" binding:"omitempty,uuid"`
	Provider string `form:"provider" binding:"omitempty,provider_name"`
}

// SyncRunsQuery filters GET /v1/inventory/sync/runs
type SyncRunsQuery struct {
	Provider string `form:"provider" binding:"omitempty,provider_name"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

// SyncInventoryResponse aggregates a multi-provider sync
type SyncInventoryResponse struct {
	RequestID string                    `json:"requestId,omitempty"`
	SyncCount int                       `json:"syncCount"`
	FailCount int                       `json:"failCount"`
	Syncs     []ProviderSyncResponse    `json:"syncs"`
	Failures  []ProviderFailureResponse `json:"failures"`
}

// ProviderSyncResponse is one provider that finished its run
type ProviderSyncResponse struct {
	Provider    string `json:"provider"`
	SyncID      string `json:"syncId"`
	Status      string `json:"status"`
	ItemsSynced int    `json:"itemsSynced"`
	ItemsFailed int    `json:"itemsFailed"`
	Summary     string `json:"summary,omitempty"`
	DurationMs  int64  `json:"durationMs"`
}

// ProviderFailureResponse is one provider whose sync failed
type ProviderFailureResponse struct {
	Provider          string  `json:"provider"`
	SyncID            *string `json:"syncId,omitempty"`
	Code              string  `json:"code"`
	Message           string  `json:"message"`
	RetryAfterSeconds int     `json:"retryAfterSeconds,omitempty"`
}

// SyncRunResponse is the API view of a SyncRun
type SyncRunResponse struct {
	SyncID       string     `json:"syncId"`
	ScheduleID   *string    `json:"scheduleId,omitempty"`
	Provider     string     `json:"provider,omitempty"`
	Status       string     `json:"status"`
	Trigger      string     `json:"trigger,omitempty"`
	RequestID    string     `json:"requestId,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	StartedAt    *time.Time `json:"startedAt,omitempty"`
	FinishedAt   *time.Time `json:"finishedAt,omitempty"`
	ItemsSynced  int        `json:"itemsSynced"`
	ItemsFailed  int        `json:"itemsFailed"`
	ErrorSummary string     `json:"errorSummary,omitempty"`
}

func toSyncInventoryResponse(r *appfulfillment.SyncResult) SyncInventoryResponse {
	resp := SyncInventoryResponse{
		RequestID: r.RequestID,
		SyncCount: r.SyncCount,
		FailCount: r.FailCount,
		Syncs:     make([]ProviderSyncResponse, 0, len(r.Syncs)),
		Failures:  make([]ProviderFailureResponse, 0, len(r.Failures)),
	}
	for _, s := range r.Syncs {
		resp.Syncs = append(resp.Syncs, ProviderSyncResponse{
			Provider:    s.Provider.String(),
			SyncID:      s.RunID.String(),
			Status:      string(s.Status),
			ItemsSynced: s.ItemsSynced,
			ItemsFailed: s.ItemsFailed,
			Summary:     s.Summary,
			DurationMs:  s.Duration.Milliseconds(),
		})
	}
	for _, f := range r.Failures {
		fr := ProviderFailureResponse{
			Provider: f.Provider.String(),
			SyncID:   uuidString(f.RunID),
			Code:     f.Code,
			Message:  f.Message,
		}
		if f.RetryAfter > 0 {
			fr.RetryAfterSeconds = int((f.RetryAfter + time.Second - 1) / time.Second)
		}
		resp.Failures = append(resp.Failures, fr)
	}
	return resp
}

func toSyncRunResponse(r *fulfillment.SyncRun) SyncRunResponse {
	resp := SyncRunResponse{
		SyncID:       r.ID.String(),
		ScheduleID:   uuidString(r.ScheduleID),
		Provider:     r.ProviderName.String(),
		Status:       string(r.Status),
		Trigger:      string(r.Trigger),
		RequestID:    r.RequestID,
		StartedAt:    r.StartedAt,
		FinishedAt:   r.FinishedAt,
		ItemsSynced:  r.ItemsSynced,
		ItemsFailed:  r.ItemsFailed,
		ErrorSummary: r.ErrorSummary,
	}
	if !r.CreatedAt.IsZero() {
		created := r.CreatedAt
		resp.CreatedAt = &created
	}
	return resp
}

func toSyncRunResponses(runs []fulfillment.SyncRun) []SyncRunResponse {
	out := make([]SyncRunResponse, 0, len(runs))
	for i := range runs {
		out = append(out, toSyncRunResponse(&runs[i]))
	}
	return out
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func providerNames(raw []string) []fulfillment.ProviderName {
	out := make([]fulfillment.ProviderName, 0, len(raw))
	for _, p := range raw {
		out = append(out, fulfillment.ProviderName(p))
	}
	return out
}
