package dto

import "time"

const (
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
	JobStatusSkipped   = "skipped"
)

// JobRun is the record of one maintenance job execution.
type JobRun struct {
	Type        string        `json:"type"`
	Trigger     string        `json:"trigger"`
	Status      string        `json:"status"`
	ExitCode    int32         `json:"exit_code"`
	Output      string        `json:"output,omitempty"`
	Error       string        `json:"error,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
	Duration    time.Duration `json:"duration_ns"`
}

const (
	JobTriggerCron   = "cron"
	JobTriggerManual = "manual"
)
