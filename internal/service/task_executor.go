package service

import (
	"context"
	"database/sql"
	"fmt"
	"geodrive-insight/config"
	"geodrive-insight/internal/dto"
	"geodrive-insight/internal/model"
	"geodrive-insight/internal/repository"
	"geodrive-insight/internal/strategy"
	"geodrive-insight/pkg/logger"
	"geodrive-insight/pkg/metrics"
	"geodrive-insight/pkg/utils"
	"time"
)

type TaskExecutor interface {
	Execute(ctx context.Context, job *strategy.Job, trigger string) (*dto.JobRun, error)
	Has(jobType strategy.JobType) bool
	History(ctx context.Context, jobType strategy.JobType, limit int) ([]dto.JobRun, error)
}

const defaultJobHistoryLimit = 20

type taskExecutor struct {
	cfg                *config.Config
	log                *logger.Logger
	metrics            *metrics.Metrics
	jobRunRepo         repository.JobRunRepository
	executorStrategies map[strategy.JobType]strategy.JobExecutionStrategy
}

func NewTaskExecutor(
	cfg *config.Config,
	log *logger.Logger,
	m *metrics.Metrics,
	jobRunRepo repository.JobRunRepository,
	executorStrategies map[strategy.JobType]strategy.JobExecutionStrategy,
) TaskExecutor {
	return &taskExecutor{
		cfg:                cfg,
		log:                log,
		metrics:            m,
		jobRunRepo:         jobRunRepo,
		executorStrategies: executorStrategies,
	}
}

func (t *taskExecutor) Has(jobType strategy.JobType) bool {
	_, ok := t.executorStrategies[jobType]
	return ok
}

// Execute runs job with its timeout and returns the run record. The error is
// non-nil only when the job type is unknown; job failures are reported in
// the record.
func (t *taskExecutor) Execute(ctx context.Context, job *strategy.Job, trigger string) (*dto.JobRun, error) {
	executor := t.executorStrategies[job.Type]
	if executor == nil {
		t.log.ErrorContext(ctx, "Job type not found", logger.StringField("job_type", string(job.Type)))
		return nil, fmt.Errorf("job type %q: %w", job.Type, ErrNotFound)
	}

	timeout := job.Timeout
	if timeout <= 0 {
		timeout = t.cfg.Scheduler.TimeoutDuration
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	t.log.InfoContext(ctx, "Processing job",
		logger.StringField("job_type", string(job.Type)),
		logger.StringField("trigger", trigger),
	)

	run := &dto.JobRun{
		Type:      string(job.Type),
		Trigger:   trigger,
		StartedAt: utils.TimeNowUTC(),
	}
	start := time.Now()
	result, err := executor.Execute(ctx, job)
	run.Duration = time.Since(start)
	run.CompletedAt = utils.TimeNowUTC()
	run.ExitCode = result.ExitCode
	run.Output = result.Output

	switch {
	case err != nil:
		t.log.ErrorContext(ctx, "Failed to execute job", logger.ErrorField(err), logger.StringField("job_type", string(job.Type)))
		run.Status = dto.JobStatusFailed
		run.Error = err.Error()
		if run.ExitCode == 0 {
			run.ExitCode = strategy.JOB_EXIT_CODE_FAILED
		}
	case result.ExitCode == strategy.JOB_EXIT_CODE_SKIPPED:
		run.Status = dto.JobStatusSkipped
	default:
		run.Status = dto.JobStatusCompleted
	}

	t.metrics.RecordJobRun(run.Type, run.Status)
	t.saveRun(ctx, run)
	t.log.InfoContext(ctx, "Job execution completed",
		logger.StringField("job_type", run.Type),
		logger.StringField("status", run.Status),
		logger.IntField("exit_code", int(run.ExitCode)),
		logger.DurationField("duration", run.Duration),
	)
	return run, nil
}

// saveRun stores the run record. A storage failure is logged and does not
// change the outcome of the job. It uses a fresh context so a job that hit
// its deadline is still recorded.
func (t *taskExecutor) saveRun(ctx context.Context, run *dto.JobRun) {
	if t.jobRunRepo == nil {
		return
	}
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	record := &model.JobRun{
		JobType:      run.Type,
		Trigger:      run.Trigger,
		Status:       run.Status,
		ExitCode:     run.ExitCode,
		Output:       sql.NullString{String: run.Output, Valid: run.Output != ""},
		ErrorMessage: sql.NullString{String: run.Error, Valid: run.Error != ""},
		StartedAt:    run.StartedAt,
		CompletedAt:  run.CompletedAt,
		DurationMs:   run.Duration.Milliseconds(),
	}
	if err := t.jobRunRepo.Create(saveCtx, record); err != nil {
		t.log.WarnContext(ctx, "Failed to save job run", logger.ErrorField(err), logger.StringField("job_type", run.Type))
	}
}

// History returns the latest stored runs, newest first. An empty jobType
// lists every job.
func (t *taskExecutor) History(ctx context.Context, jobType strategy.JobType, limit int) ([]dto.JobRun, error) {
	if jobType != "" && !t.Has(jobType) {
		return nil, fmt.Errorf("job type %q: %w", jobType, ErrNotFound)
	}
	if limit <= 0 || limit > 100 {
		limit = defaultJobHistoryLimit
	}
	if t.jobRunRepo == nil {
		return []dto.JobRun{}, nil
	}

	records, err := t.jobRunRepo.Get(ctx, model.GetJobRunParam{JobType: string(jobType), Limit: limit})
	if err != nil {
		t.log.ErrorContext(ctx, "Failed to get job runs", logger.ErrorField(err))
		return nil, err
	}

	runs := make([]dto.JobRun, 0, len(records))
	for _, r := range records {
		runs = append(runs, dto.JobRun{
			Type:        r.JobType,
			Trigger:     r.Trigger,
			Status:      r.Status,
			ExitCode:    r.ExitCode,
			Output:      r.Output.String,
			Error:       r.ErrorMessage.String,
			StartedAt:   r.StartedAt,
			CompletedAt: r.CompletedAt,
			Duration:    time.Duration(r.DurationMs) * time.Millisecond,
		})
	}
	return runs, nil
}
