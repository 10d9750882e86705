package service

import (
	"context"
	"encoding/json"
	"fmt"
	"geodrive-insight/config"
	"geodrive-insight/internal/dto"
	"geodrive-insight/internal/strategy"
	"geodrive-insight/pkg/logger"
	"geodrive-insight/pkg/utils"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

type SchedulerService interface {
	Start() error
	Stop(ctx context.Context) error
	RunJob(ctx context.Context, jobType strategy.JobType, payload json.RawMessage) (*dto.JobRun, error)
	Entries() map[strategy.JobType]string
}

type schedulerService struct {
	cfg          *config.Config
	log          *logger.Logger
	cronParser   cron.Parser
	cron         *cron.Cron
	taskExecutor TaskExecutor
	semaphore    chan struct{}

	mu      sync.Mutex
	running map[strategy.JobType]bool
	entries map[strategy.JobType]string
}

func NewSchedulerService(
	cfg *config.Config,
	log *logger.Logger,
	taskExecutor TaskExecutor,
) SchedulerService {
	maxConcurrency := cfg.Scheduler.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &schedulerService{
		cfg:          cfg,
		log:          log,
		cronParser:   parser,
		cron:         cron.New(cron.WithParser(parser), cron.WithLocation(time.UTC)),
		taskExecutor: taskExecutor,
		semaphore:    make(chan struct{}, maxConcurrency),
		running:      make(map[strategy.JobType]bool),
		entries:      make(map[strategy.JobType]string),
	}
}

// Start registers the configured cron jobs and starts the cron runner. An
// empty expression disables its job.
func (s *schedulerService) Start() error {
	specs := map[strategy.JobType]string{
		strategy.JobTypePriceRefresh:  s.cfg.Scheduler.PriceRefreshCron,
		strategy.JobTypePostRetention: s.cfg.Scheduler.RetentionCron,
	}

	for _, jobType := range strategy.JobTypes() {
		spec := specs[jobType]
		if spec == "" || !s.taskExecutor.Has(jobType) {
			continue
		}
		if _, err := s.cronParser.Parse(spec); err != nil {
			s.log.Error("Failed to parse cron expression", logger.ErrorField(err), logger.StringField("job_type", string(jobType)))
			return fmt.Errorf("failed to parse cron expression for %s: %w", jobType, err)
		}

		jobType := jobType
		if _, err := s.cron.AddFunc(spec, func() {
			s.runScheduled(jobType)
		}); err != nil {
			return fmt.Errorf("failed to schedule %s: %w", jobType, err)
		}
		s.entries[jobType] = spec
		s.log.Info("Scheduled job", logger.StringField("job_type", string(jobType)), logger.StringField("cron", spec))
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron runner and waits for running jobs until ctx is done.
func (s *schedulerService) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *schedulerService) Entries() map[strategy.JobType]string {
	out := make(map[strategy.JobType]string, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

func (s *schedulerService) runScheduled(jobType strategy.JobType) {
	run, err := s.execute(context.Background(), &strategy.Job{Type: jobType}, dto.JobTriggerCron)
	if err != nil {
		s.log.Error("Failed to execute scheduled job", logger.ErrorField(err), logger.StringField("job_type", string(jobType)))
		return
	}
	if run.Status == dto.JobStatusFailed {
		s.log.Warn("Scheduled job failed", logger.StringField("job_type", run.Type), logger.StringField("error", run.Error))
	}
}

// RunJob executes a job now and waits for its result.
func (s *schedulerService) RunJob(ctx context.Context, jobType strategy.JobType, payload json.RawMessage) (*dto.JobRun, error) {
	s.log.InfoContext(ctx, "Running job task", logger.StringField("job_type", string(jobType)))
	if !s.taskExecutor.Has(jobType) {
		return nil, fmt.Errorf("job type %q: %w", jobType, ErrNotFound)
	}
	if len(payload) > 0 && !json.Valid(payload) {
		return nil, fmt.Errorf("job payload is not valid json: %w", ErrInvalidInput)
	}
	return s.execute(ctx, &strategy.Job{Type: jobType, Payload: payload}, dto.JobTriggerManual)
}

// execute runs at most one instance per job type and at most MaxConcurrency
// jobs overall. A job already running is reported as skipped.
func (s *schedulerService) execute(ctx context.Context, job *strategy.Job, trigger string) (*dto.JobRun, error) {
	s.mu.Lock()
	if s.running[job.Type] {
		s.mu.Unlock()
		now := utils.TimeNowUTC()
		s.log.WarnContext(ctx, "Job already running, skipping", logger.StringField("job_type", string(job.Type)))
		return &dto.JobRun{
			Type:        string(job.Type),
			Trigger:     trigger,
			Status:      dto.JobStatusSkipped,
			ExitCode:    strategy.JOB_EXIT_CODE_SKIPPED,
			Output:      "job already running",
			StartedAt:   now,
			CompletedAt: now,
		}, nil
	}
	s.running[job.Type] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.running, job.Type)
		s.mu.Unlock()
	}()

	select {
	case s.semaphore <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-s.semaphore }()

	s.log.DebugContext(ctx, "Executing job",
		logger.StringField("job_type", string(job.Type)),
		logger.IntField("active_concurrency", len(s.semaphore)),
		logger.IntField("max_concurrency", cap(s.semaphore)),
	)
	return s.taskExecutor.Execute(ctx, job, trigger)
}
