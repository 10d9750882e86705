package repository

import (
	"context"
	"geodrive-insight/internal/model"
	"geodrive-insight/pkg/utils"
	"time"

	"gorm.io/gorm"
)

type JobRunRepository interface {
	Create(ctx context.Context, run *model.JobRun, opts ...utils.DBOption) error
	Get(ctx context.Context, param model.GetJobRunParam, opts ...utils.DBOption) ([]model.JobRun, error)
	DeleteOlderThan(ctx context.Context, date time.Time, opts ...utils.DBOption) (int64, error)
}

type jobRunRepository struct {
	db *gorm.DB
}

func NewJobRunRepository(db *gorm.DB) JobRunRepository {
	return &jobRunRepository{db: db}
}

func (r *jobRunRepository) Create(ctx context.Context, run *model.JobRun, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(run).Error
}

// Get returns the most recent runs first.
func (r *jobRunRepository) Get(ctx context.Context, param model.GetJobRunParam, opts ...utils.DBOption) ([]model.JobRun, error) {
	var runs []model.JobRun
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	if param.JobType != "" {
		db = db.Where("job_type = ?", param.JobType)
	}
	if param.Limit > 0 {
		db = db.Limit(param.Limit)
	}
	if err := db.Order("started_at DESC, id DESC").Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *jobRunRepository) DeleteOlderThan(ctx context.Context, date time.Time, opts ...utils.DBOption) (int64, error) {
	result := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Where("created_at < ?", date).Delete(&model.JobRun{})
	return result.RowsAffected, result.Error
}
