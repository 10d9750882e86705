package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"geodrive-insight/config"
	"geodrive-insight/internal/repository"
	"geodrive-insight/pkg/cache"
	"geodrive-insight/pkg/common"
	"geodrive-insight/pkg/logger"
	"geodrive-insight/pkg/utils"
	"time"
)

type DataCleaner interface {
	JobExecutionStrategy
}

type DataCleanUpPayload struct {
	RetentionDays int `json:"retention_days"`
}

type DataCleanUpResult struct {
	Table  string `json:"table"`
	Before string `json:"before"`
	Total  int64  `json:"total"`
	Error  string `json:"error,omitempty"`
}

// DataCleanUpStrategy deletes social posts and job runs older than the
// retention period. Products and reviews are never pruned.
type DataCleanUpStrategy struct {
	cfg            *config.Config
	log            *logger.Logger
	cache          cache.Cache
	socialPostRepo repository.SocialPostRepository
	jobRunRepo     repository.JobRunRepository
}

func NewDataCleanUpStrategy(
	cfg *config.Config,
	log *logger.Logger,
	inmemoryCache cache.Cache,
	socialPostRepo repository.SocialPostRepository,
	jobRunRepo repository.JobRunRepository,
) DataCleaner {
	return &DataCleanUpStrategy{
		cfg:            cfg,
		log:            log,
		cache:          inmemoryCache,
		socialPostRepo: socialPostRepo,
		jobRunRepo:     jobRunRepo,
	}
}

func (s *DataCleanUpStrategy) Execute(ctx context.Context, job *Job) (JobResult, error) {
	s.log.InfoContext(ctx, "Starting data clean up")

	payload := DataCleanUpPayload{RetentionDays: s.cfg.Scheduler.RetentionDays}
	if err := decodePayload(job, &payload); err != nil {
		s.log.ErrorContext(ctx, "Failed to unmarshal job payload", logger.ErrorField(err))
		return JobResult{ExitCode: JOB_EXIT_CODE_FAILED, Output: fmt.Sprintf("failed to unmarshal job payload: %v", err)}, fmt.Errorf("failed to unmarshal job payload: %w", err)
	}
	if payload.RetentionDays <= 0 {
		return JobResult{ExitCode: JOB_EXIT_CODE_SKIPPED, Output: "retention disabled"}, nil
	}

	date := utils.DaysAgo(payload.RetentionDays)
	outputMsg := []DataCleanUpResult{}
	var failed []string

	totalPosts, err := s.socialPostRepo.DeleteOlderThan(ctx, date)
	outputMsg = append(outputMsg, s.result(ctx, "social_posts", date, totalPosts, err))
	if err != nil {
		failed = append(failed, "social_posts")
	}
	if totalPosts > 0 && s.cache != nil {
		s.cache.DeletePrefix(common.KEY_ANALYTICS_PREFIX)
	}

	if s.jobRunRepo != nil {
		totalRuns, err := s.jobRunRepo.DeleteOlderThan(ctx, date)
		outputMsg = append(outputMsg, s.result(ctx, "job_runs", date, totalRuns, err))
		if err != nil {
			failed = append(failed, "job_runs")
		}
	}

	res, err := json.Marshal(outputMsg)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to marshal output message", logger.ErrorField(err))
		return JobResult{ExitCode: JOB_EXIT_CODE_FAILED, Output: fmt.Sprintf("failed to marshal output message: %v", err)}, fmt.Errorf("failed to marshal output message: %w", err)
	}

	s.log.InfoContext(ctx, "Data clean up completed",
		logger.IntField("social_posts", int(totalPosts)),
		logger.IntField("retention_days", payload.RetentionDays),
	)
	if len(failed) > 0 {
		return JobResult{ExitCode: JOB_EXIT_CODE_FAILED, Output: string(res)}, fmt.Errorf("failed to clean up %v", failed)
	}
	return JobResult{ExitCode: JOB_EXIT_CODE_SUCCESS, Output: string(res)}, nil
}

func (s *DataCleanUpStrategy) result(ctx context.Context, table string, before time.Time, total int64, err error) DataCleanUpResult {
	result := DataCleanUpResult{
		Table:  table,
		Before: before.Format(time.RFC3339),
		Total:  total,
	}
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to delete older than", logger.StringField("table", table), logger.ErrorField(err))
		result.Error = fmt.Sprintf("failed to delete %s older than %v: %v", table, before, err)
	}
	return result
}

func (s *DataCleanUpStrategy) GetType() JobType {
	return JobTypePostRetention
}
