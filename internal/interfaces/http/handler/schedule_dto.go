package handler

import (
	"time"

	"github.com/google/uuid"

	appfulfillment "github.com/fulfillsync/backend/internal/application/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// FrequencyInput is an interval ("15m", "1h", "1d") or a cron expression
type FrequencyInput struct {
	Kind  string `json:"kind" binding:"required,frequency_kind"`
	Value string `json:"value" binding:"required,max=128"`
}

func (f FrequencyInput) toDomain() fulfillment.Frequency {
	return fulfillment.Frequency{Kind: fulfillment.FrequencyKind(f.Kind), Value: f.Value}
}

// ScheduleSettingsInput holds sync options, filters and the retry budget
type ScheduleSettingsInput struct {
	FullSync     bool        `json:"fullSync"`
	ForceUpdate  bool        `json:"forceUpdate"`
	Sandbox      bool        `json:"sandbox"`
	MaxRetries   int         `json:"maxRetries" binding:"min=0,max=10"`
	WarehouseIDs []uuid.UUID `json:"warehouseIds" binding:"omitempty,max=100"`
	Categories   []string    `json:"categories" binding:"omitempty,max=100,dive,max=100"`
}

func (s ScheduleSettingsInput) options() fulfillment.SyncOptions {
	return fulfillment.SyncOptions{FullSync: s.FullSync, ForceUpdate: s.ForceUpdate, Sandbox: s.Sandbox}
}

func (s ScheduleSettingsInput) filters() fulfillment.ScheduleFilters {
	return fulfillment.ScheduleFilters{WarehouseIDs: s.WarehouseIDs, Categories: s.Categories}
}

// ScheduleNotificationsInput selects which outcomes notify the seller
type ScheduleNotificationsInput struct {
	OnFailure    bool `json:"onFailure"`
	OnCompletion bool `json:"onCompletion"`
}

func retryPolicy(s ScheduleSettingsInput, n ScheduleNotificationsInput) fulfillment.RetryPolicy {
	return fulfillment.RetryPolicy{
		MaxRetries:         s.MaxRetries,
		NotifyOnFailure:    n.OnFailure,
		NotifyOnCompletion: n.OnCompletion,
	}
}

// CreateScheduleRequest is the body of POST /v1/inventory/schedule
type CreateScheduleRequest struct {
	Name          string                     `json:"name" binding:"max=120"`
	Provider      string                     `json:"provider" binding:"required,provider_name"`
	Enabled       *bool                      `json:"enabled"`
	Frequency     FrequencyInput             `json:"frequency"`
	Timezone      string                     `json:"timezone" binding:"max=64"`
	Settings      ScheduleSettingsInput      `json:"settings"`
	Notifications ScheduleNotificationsInput `json:"notifications"`
}

func (r CreateScheduleRequest) toInput(sellerID uuid.UUID) appfulfillment.ScheduleInput {
	return appfulfillment.ScheduleInput{
		SellerID:    sellerID,
		Name:        r.Name,
		Provider:    fulfillment.ProviderName(r.Provider),
		Enabled:     r.Enabled,
		Frequency:   r.Frequency.toDomain(),
		Timezone:    r.Timezone,
		RetryPolicy: retryPolicy(r.Settings, r.Notifications),
		Filters:     r.Settings.filters(),
		Options:     r.Settings.options(),
	}
}

// UpdateScheduleRequest is the body of PUT /v1/inventory/schedule/:id.
// Omitted sections are left unchanged.
type UpdateScheduleRequest struct {
	Name          *string                     `json:"name" binding:"omitempty,max=120"`
	Enabled       *bool                       `json:"enabled"`
	Frequency     *FrequencyInput             `json:"frequency"`
	Timezone      *string                     `json:"timezone" binding:"omitempty,max=64"`
	Settings      *ScheduleSettingsInput      `json:"settings"`
	Notifications *ScheduleNotificationsInput `json:"notifications"`
}

// toUpdate applies the request over the current schedule so a partial
// settings or notifications section does not reset the other one
func (r UpdateScheduleRequest) toUpdate(current *fulfillment.SyncSchedule) appfulfillment.ScheduleUpdate {
	upd := appfulfillment.ScheduleUpdate{
		Name:     r.Name,
		Enabled:  r.Enabled,
		Timezone: r.Timezone,
	}
	if r.Frequency != nil {
		f := r.Frequency.toDomain()
		upd.Frequency = &f
	}
	if r.Settings != nil {
		opts := r.Settings.options()
		filters := r.Settings.filters()
		upd.Options = &opts
		upd.Filters = &filters
	}
	if r.Settings != nil || r.Notifications != nil {
		policy := current.RetryPolicy
		if r.Settings != nil {
			policy.MaxRetries = r.Settings.MaxRetries
		}
		if r.Notifications != nil {
			policy.NotifyOnFailure = r.Notifications.OnFailure
			policy.NotifyOnCompletion = r.Notifications.OnCompletion
		}
		upd.RetryPolicy = &policy
	}
	return upd
}

// ScheduleResponse is the API view of a SyncSchedule
type ScheduleResponse struct {
	ID            string                     `json:"id"`
	Name          string                     `json:"name"`
	Provider      string                     `json:"provider"`
	Enabled       bool                       `json:"enabled"`
	Frequency     fulfillment.Frequency      `json:"frequency"`
	Timezone      string                     `json:"timezone"`
	Settings      ScheduleSettingsInput      `json:"settings"`
	Notifications ScheduleNotificationsInput `json:"notifications"`
	State         string                     `json:"state"`
	LastRunAt     *time.Time                 `json:"lastRunAt,omitempty"`
	LastRunID     *string                    `json:"lastRunId,omitempty"`
	LastStatus    string                     `json:"lastStatus,omitempty"`
	RetryCount    int                        `json:"retryCount"`
	NextRetryAt   *time.Time                 `json:"nextRetryAt,omitempty"`
	CreatedAt     time.Time                  `json:"createdAt"`
	UpdatedAt     time.Time                  `json:"updatedAt"`
}

func toScheduleResponse(s *fulfillment.SyncSchedule) ScheduleResponse {
	return ScheduleResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		Provider:  s.ProviderName.String(),
		Enabled:   s.Enabled,
		Frequency: s.Frequency,
		Timezone:  s.Timezone,
		Settings: ScheduleSettingsInput{
			FullSync:     s.Options.FullSync,
			ForceUpdate:  s.Options.ForceUpdate,
			Sandbox:      s.Options.Sandbox,
			MaxRetries:   s.RetryPolicy.MaxRetries,
			WarehouseIDs: s.Filters.WarehouseIDs,
			Categories:   s.Filters.Categories,
		},
		Notifications: ScheduleNotificationsInput{
			OnFailure:    s.RetryPolicy.NotifyOnFailure,
			OnCompletion: s.RetryPolicy.NotifyOnCompletion,
		},
		State:       string(s.State),
		LastRunAt:   s.LastRunAt,
		LastRunID:   uuidString(s.LastRunID),
		LastStatus:  string(s.LastStatus),
		RetryCount:  s.RetryCount,
		NextRetryAt: s.NextRetryAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toScheduleResponses(schedules []fulfillment.SyncSchedule) []ScheduleResponse {
	out := make([]ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		out = append(out, toScheduleResponse(&schedules[i]))
	}
	return out
}
