package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when submitting to a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler: not running")

	// ErrJobQueueFull is returned when every worker is busy and the queue is full
	ErrJobQueueFull = errors.New("scheduler: job queue is full")

	// ErrJobInFlight is returned when the same schedule is already queued or running
	ErrJobInFlight = errors.New("scheduler: schedule already in flight")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("scheduler: invalid configuration")
)
