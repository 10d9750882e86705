package strategy

import (
	"context"
	"encoding/json"
	"time"
)

const (
	JOB_EXIT_CODE_SUCCESS         = 200
	JOB_EXIT_CODE_FAILED          = 500
	JOB_EXIT_CODE_SKIPPED         = 204
	JOB_EXIT_CODE_PARTIAL_SUCCESS = 206
)

type JobType string

const (
	JobTypePriceRefresh  JobType = "price_refresh"
	JobTypePostRetention JobType = "post_retention"
)

// JobTypes lists every maintenance job in a stable order.
func JobTypes() []JobType {
	return []JobType{JobTypePriceRefresh, JobTypePostRetention}
}

// Job is one run request. Payload is optional and overrides configured
// defaults of the strategy.
type Job struct {
	Type    JobType         `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Timeout time.Duration   `json:"timeout"`
}

type JobResult struct {
	ExitCode int32  `json:"exit_code"`
	Output   string `json:"output"`
}

// JobExecutionStrategy defines the interface for different job execution strategies.
type JobExecutionStrategy interface {
	Execute(ctx context.Context, job *Job) (JobResult, error)
	GetType() JobType
}

// decodePayload fills dst from the job payload. An empty payload leaves dst untouched.
func decodePayload(job *Job, dst interface{}) error {
	if job == nil || len(job.Payload) == 0 || string(job.Payload) == "null" {
		return nil
	}
	return json.Unmarshal(job.Payload, dst)
}
