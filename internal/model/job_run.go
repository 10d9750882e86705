package model

import (
	"database/sql"
	"time"
)

// JobRun is one execution of a maintenance job, manual or scheduled.
type JobRun struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	JobType      string         `gorm:"type:varchar(50);not null;index" json:"job_type"`
	Trigger      string         `gorm:"type:varchar(16);not null" json:"trigger"`
	Status       string         `gorm:"type:varchar(16);not null" json:"status"`
	ExitCode     int32          `gorm:"not null" json:"exit_code"`
	Output       sql.NullString `gorm:"type:text" json:"-"`
	ErrorMessage sql.NullString `gorm:"type:text" json:"-"`
	StartedAt    time.Time      `gorm:"not null" json:"started_at"`
	CompletedAt  time.Time      `gorm:"not null" json:"completed_at"`
	DurationMs   int64          `gorm:"not null;default:0" json:"duration_ms"`
	CreatedAt    time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (JobRun) TableName() string {
	return "job_runs"
}

type GetJobRunParam struct {
	JobType string
	Limit   int
}
