package fulfillment

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/fulfillsync/backend/internal/domain/shared"
)

// MinInterval is the shortest interval a schedule may run at
const MinInterval = time.Minute

// FrequencyKind selects how a schedule's cadence is expressed
type FrequencyKind string

const (
	FrequencyKindInterval FrequencyKind = "interval"
	FrequencyKindCron     FrequencyKind = "cron"
)

// IsValid returns true if the frequency kind is valid
func (k FrequencyKind) IsValid() bool {
	return k == FrequencyKindInterval || k == FrequencyKindCron
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Frequency is an interval ("15m", "1h", "1d") or a five-field cron expression
type Frequency struct {
	Kind  FrequencyKind `json:"kind"`
	Value string        `json:"value"`
}

// Validate checks the frequency can be evaluated
func (f Frequency) Validate() error {
	switch f.Kind {
	case FrequencyKindInterval:
		d, err := parseInterval(f.Value)
		if err != nil {
			return err
		}
		if d < MinInterval {
			return fmt.Errorf("%w: interval must be at least %s", ErrInvalidFrequency, MinInterval)
		}
		return nil
	case FrequencyKindCron:
		if _, err := cronParser.Parse(f.Value); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidFrequency, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidFrequency, f.Kind)
	}
}

// Interval returns the parsed interval for interval frequencies
func (f Frequency) Interval() (time.Duration, error) {
	if f.Kind != FrequencyKindInterval {
		return 0, fmt.Errorf("%w: not an interval", ErrInvalidFrequency)
	}
	return parseInterval(f.Value)
}

// Next returns the first occurrence strictly after `after`, evaluated in loc
func (f Frequency) Next(after time.Time, loc *time.Location) (time.Time, error) {
	switch f.Kind {
	case FrequencyKindInterval:
		d, err := parseInterval(f.Value)
		if err != nil {
			return time.Time{}, err
		}
		return after.Add(d), nil
	case FrequencyKindCron:
		sched, err := cronParser.Parse(f.Value)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidFrequency, err)
		}
		if loc == nil {
			loc = time.UTC
		}
		return sched.Next(after.In(loc)), nil
	default:
		return time.Time{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidFrequency, f.Kind)
	}
}

// parseInterval accepts Go durations plus a whole-day "Nd" form
func parseInterval(value string) (time.Duration, error) {
	v := strings.TrimSpace(value)
	if strings.HasSuffix(v, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(v, "d"))
		if err != nil || days <= 0 {
			return 0, fmt.Errorf("%w: bad interval %q", ErrInvalidFrequency, value)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: bad interval %q", ErrInvalidFrequency, value)
	}
	return d, nil
}

// RetryPolicy controls failure handling and notifications of a schedule
type RetryPolicy struct {
	MaxRetries         int  `json:"max_retries"`
	NotifyOnFailure    bool `json:"notify_on_failure"`
	NotifyOnCompletion bool `json:"notify_on_completion"`
}

// ScheduleFilters scope a sync to a subset of listings
type ScheduleFilters struct {
	WarehouseIDs []uuid.UUID `json:"warehouse_ids,omitempty"`
	Categories   []string    `json:"categories,omitempty"`
}

// SyncOptions tune how much work a sync run does
type SyncOptions struct {
	FullSync    bool `json:"full_sync"`
	ForceUpdate bool `json:"force_update"`
	Sandbox     bool `json:"sandbox"`
}

// ScheduleState is the persisted position of a schedule in its cycle.
// Due is derived on each tick and never stored.
type ScheduleState string

const (
	ScheduleStateIdle    ScheduleState = "idle"
	ScheduleStateRunning ScheduleState = "running"
)

// SyncSchedule is a recurring sync definition for one (seller, provider).
// Schedules are disabled, never deleted, so their run history stays attached.
type SyncSchedule struct {
	shared.SellerEntity
	Name         string
	ProviderName ProviderName
	Enabled      bool
	Frequency    Frequency
	Timezone     string
	RetryPolicy  RetryPolicy
	Filters      ScheduleFilters
	Options      SyncOptions
	State        ScheduleState
	LastRunAt    *time.Time
	LastRunID    *uuid.UUID
	LastStatus   SyncRunStatus
	RetryCount   int
	NextRetryAt  *time.Time
}

// NewSyncSchedule validates and creates a schedule
func NewSyncSchedule(
	sellerID uuid.UUID,
	name string,
	provider ProviderName,
	freq Frequency,
	timezone string,
	now time.Time,
) (*SyncSchedule, error) {
	if sellerID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("seller id is required")
	}
	if !provider.IsValid() {
		return nil, ErrUnknownProvider
	}
	s := &SyncSchedule{
		SellerEntity: shared.NewSellerEntity(sellerID, now),
		Name:         strings.TrimSpace(name),
		ProviderName: provider,
		Enabled:      true,
		State:        ScheduleStateIdle,
	}
	if err := s.Reconfigure(s.Name, freq, timezone, now); err != nil {
		return nil, err
	}
	return s, nil
}

// Reconfigure replaces the cadence of the schedule
func (s *SyncSchedule) Reconfigure(name string, freq Frequency, timezone string, now time.Time) error {
	if err := freq.Validate(); err != nil {
		return err
	}
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTimezone, timezone)
	}
	if name == "" {
		name = fmt.Sprintf("%s %s sync", s.ProviderName, freq.Value)
	}
	s.Name = name
	s.Frequency = freq
	s.Timezone = timezone
	s.Touch(now)
	return nil
}

// SetRetryPolicy replaces the retry policy
func (s *SyncSchedule) SetRetryPolicy(p RetryPolicy, now time.Time) error {
	if p.MaxRetries < 0 || p.MaxRetries > 20 {
		return shared.ErrInvalidInput.WithMessage("max_retries must be between 0 and 20")
	}
	s.RetryPolicy = p
	s.Touch(now)
	return nil
}

// Location returns the schedule timezone, falling back to UTC
func (s *SyncSchedule) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsDue evaluates the Idle -> Due transition at now
func (s *SyncSchedule) IsDue(now time.Time) (bool, error) {
	if !s.Enabled || s.State == ScheduleStateRunning {
		return false, nil
	}
	if s.NextRetryAt != nil {
		return !now.Before(*s.NextRetryAt), nil
	}
	ref := s.CreatedAt
	if s.LastRunAt != nil {
		ref = *s.LastRunAt
	}
	next, err := s.Frequency.Next(ref, s.Location())
	if err != nil {
		return false, err
	}
	return !now.Before(next), nil
}

// MarkRunning records the Due -> Running transition
func (s *SyncSchedule) MarkRunning(runID uuid.UUID, now time.Time) {
	s.State = ScheduleStateRunning
	s.LastRunAt = &now
	s.LastRunID = &runID
	s.LastStatus = SyncRunStatusRunning
	s.Touch(now)
}

// MarkCompleted records Running -> Completed -> Idle and resets retries
func (s *SyncSchedule) MarkCompleted(now time.Time) {
	s.State = ScheduleStateIdle
	s.LastStatus = SyncRunStatusCompleted
	s.RetryCount = 0
	s.NextRetryAt = nil
	s.Touch(now)
}

// MarkFailed records Running -> Failed -> Idle. When retries remain the
// schedule becomes due again after delay(attempt) instead of its cadence.
// It reports whether a retry was scheduled.
func (s *SyncSchedule) MarkFailed(now time.Time, delay func(attempt int) time.Duration) bool {
	s.State = ScheduleStateIdle
	s.LastStatus = SyncRunStatusFailed
	s.Touch(now)
	if s.RetryCount < s.RetryPolicy.MaxRetries {
		s.RetryCount++
		at := now.Add(delay(s.RetryCount))
		s.NextRetryAt = &at
		return true
	}
	s.RetryCount = 0
	s.NextRetryAt = nil
	return false
}

// MarkAbandoned records Running -> Failed -> Idle without a retry, whatever
// the retry budget. The schedule resumes its normal cadence.
func (s *SyncSchedule) MarkAbandoned(now time.Time) {
	s.State = ScheduleStateIdle
	s.LastStatus = SyncRunStatusFailed
	s.RetryCount = 0
	s.NextRetryAt = nil
	s.Touch(now)
}

// Disable stops the schedule from being picked by the ticker
func (s *SyncSchedule) Disable(now time.Time) {
	s.Enabled = false
	s.NextRetryAt = nil
	s.RetryCount = 0
	s.Touch(now)
}

// Enable re-activates a disabled schedule
func (s *SyncSchedule) Enable(now time.Time) {
	s.Enabled = true
	s.Touch(now)
}

// ScheduleRepository persists SyncSchedules
type ScheduleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SyncSchedule, error)
	FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]SyncSchedule, error)
	FindEnabled(ctx context.Context) ([]SyncSchedule, error)
	Save(ctx context.Context, schedule *SyncSchedule) error
	// SaveRunState writes only the run bookkeeping columns so that edits
	// made while a run is in flight survive it
	SaveRunState(ctx context.Context, schedule *SyncSchedule) error
}
