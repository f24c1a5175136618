package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// SyncScheduleModel is the persistence model for SyncSchedule.
// Retry policy, filters and options are stored as JSON documents.
type SyncScheduleModel struct {
	SellerModel
	Name            string     `gorm:"type:varchar(100);not null"`
	ProviderName    string     `gorm:"type:varchar(32);not null;index"`
	Enabled         bool       `gorm:"not null;index"`
	FrequencyKind   string     `gorm:"type:varchar(16);not null"`
	FrequencyValue  string     `gorm:"type:varchar(100);not null"`
	Timezone        string     `gorm:"type:varchar(64);not null"`
	RetryPolicyJSON string     `gorm:"type:jsonb;column:retry_policy"`
	FiltersJSON     string     `gorm:"type:jsonb;column:filters"`
	OptionsJSON     string     `gorm:"type:jsonb;column:options"`
	State           string     `gorm:"type:varchar(16);not null"`
	LastRunAt       *time.Time `gorm:"index"`
	LastRunID       *uuid.UUID `gorm:"type:uuid"`
	LastStatus      string     `gorm:"type:varchar(16)"`
	RetryCount      int        `gorm:"not null"`
	NextRetryAt     *time.Time
}

// TableName returns the table name for GORM
func (SyncScheduleModel) TableName() string {
	return "sync_schedules"
}

// ToDomain converts the persistence model to a domain SyncSchedule
func (m *SyncScheduleModel) ToDomain() *fulfillment.SyncSchedule {
	s := &fulfillment.SyncSchedule{
		SellerEntity: m.ToSellerEntity(),
		Name:         m.Name,
		ProviderName: fulfillment.ProviderName(m.ProviderName),
		Enabled:      m.Enabled,
		Frequency: fulfillment.Frequency{
			Kind:  fulfillment.FrequencyKind(m.FrequencyKind),
			Value: m.FrequencyValue,
		},
		Timezone:    m.Timezone,
		State:       fulfillment.ScheduleState(m.State),
		LastRunAt:   m.LastRunAt,
		LastRunID:   m.LastRunID,
		LastStatus:  fulfillment.SyncRunStatus(m.LastStatus),
		RetryCount:  m.RetryCount,
		NextRetryAt: m.NextRetryAt,
	}
	// Malformed documents fall back to zero values rather than hiding the schedule
	if m.RetryPolicyJSON != "" {
		_ = json.Unmarshal([]byte(m.RetryPolicyJSON), &s.RetryPolicy)
	}
	if m.FiltersJSON != "" {
		_ = json.Unmarshal([]byte(m.FiltersJSON), &s.Filters)
	}
	if m.OptionsJSON != "" {
		_ = json.Unmarshal([]byte(m.OptionsJSON), &s.Options)
	}
	return s
}

// FromDomain populates the persistence model from a domain SyncSchedule
func (m *SyncScheduleModel) FromDomain(s *fulfillment.SyncSchedule) error {
	m.FromDomainSellerEntity(s.SellerEntity)
	m.Name = s.Name
	m.ProviderName = string(s.ProviderName)
	m.Enabled = s.Enabled
	m.FrequencyKind = string(s.Frequency.Kind)
	m.FrequencyValue = s.Frequency.Value
	m.Timezone = s.Timezone
	m.State = string(s.State)
	m.LastRunAt = s.LastRunAt
	m.LastRunID = s.LastRunID
	m.LastStatus = string(s.LastStatus)
	m.RetryCount = s.RetryCount
	m.NextRetryAt = s.NextRetryAt

	policy, err := json.Marshal(s.RetryPolicy)
	if err != nil {
		return err
	}
	filters, err := json.Marshal(s.Filters)
	if err != nil {
		return err
	}
	options, err := json.Marshal(s.Options)
	if err != nil {
		return err
	}
	m.RetryPolicyJSON = string(policy)
	m.FiltersJSON = string(filters)
	m.OptionsJSON = string(options)
	return nil
}

// SyncRunModel is the persistence model for SyncRun
type SyncRunModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	ScheduleID   *uuid.UUID `gorm:"type:uuid;index"`
	SellerID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_sync_runs_seller_provider,priority:1"`
	ProviderName string     `gorm:"type:varchar(32);not null;index:idx_sync_runs_seller_provider,priority:2"`
	Status       string     `gorm:"type:varchar(16);not null;index"`
	Trigger      string     `gorm:"type:varchar(16);not null"`
	RequestID    string     `gorm:"type:varchar(64)"`
	LockHolder   string     `gorm:"type:varchar(128)"`
	CreatedAt    time.Time  `gorm:"not null;index:idx_sync_runs_seller_provider,priority:3"`
	StartedAt    *time.Time
	FinishedAt   *time.Time
	ItemsSynced  int    `gorm:"not null"`
	ItemsFailed  int    `gorm:"not null"`
	ErrorSummary string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SyncRunModel) TableName() string {
	return "sync_runs"
}

// ToDomain converts the persistence model to a domain SyncRun
func (m *SyncRunModel) ToDomain() *fulfillment.SyncRun {
	return &fulfillment.SyncRun{
		ID:           m.ID,
		ScheduleID:   m.ScheduleID,
		SellerID:     m.SellerID,
		ProviderName: fulfillment.ProviderName(m.ProviderName),
		Status:       fulfillment.SyncRunStatus(m.Status),
		Trigger:      fulfillment.SyncTrigger(m.Trigger),
		RequestID:    m.RequestID,
		LockHolder:   m.LockHolder,
		CreatedAt:    m.CreatedAt,
		StartedAt:    m.StartedAt,
		FinishedAt:   m.FinishedAt,
		ItemsSynced:  m.ItemsSynced,
		ItemsFailed:  m.ItemsFailed,
		ErrorSummary: m.ErrorSummary,
	}
}

// SyncRunModelFromDomain creates a new persistence model from a domain SyncRun
func SyncRunModelFromDomain(r *fulfillment.SyncRun) *SyncRunModel {
	return &SyncRunModel{
		ID:           r.ID,
		ScheduleID:   r.ScheduleID,
		SellerID:     r.SellerID,
		ProviderName: string(r.ProviderName),
		Status:       string(r.Status),
		Trigger:      string(r.Trigger),
		RequestID:    r.RequestID,
		LockHolder:   r.LockHolder,
		CreatedAt:    r.CreatedAt,
		StartedAt:    r.StartedAt,
		FinishedAt:   r.FinishedAt,
		ItemsSynced:  r.ItemsSynced,
		ItemsFailed:  r.ItemsFailed,
		ErrorSummary: r.ErrorSummary,
	}
}

// ResourceLockModel is a lease lock row keyed by an opaque lock key
type ResourceLockModel struct {
	LockKey   string    `gorm:"type:varchar(200);primaryKey"`
	Holder    string    `gorm:"type:varchar(128);not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ResourceLockModel) TableName() string {
	return "resource_locks"
}

// ToDomain converts the persistence model to a domain Lease
func (m *ResourceLockModel) ToDomain() *fulfillment.Lease {
	return &fulfillment.Lease{
		Key:       m.LockKey,
		Holder:    m.Holder,
		ExpiresAt: m.ExpiresAt,
	}
}
