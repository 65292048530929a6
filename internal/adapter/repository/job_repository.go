package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/entities"
)

// JobRepository handles processing job data operations
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create creates a new job
func (r *JobRepository) Create(ctx context.Context, job *entities.ProcessingJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// FindByID finds a job by ID
func (r *JobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ProcessingJob, error) {
	var job entities.ProcessingJob
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// ListPending returns pending jobs of the given type, oldest first.
// Jobs that burned through their retries stay parked as pending and are
// never handed to a worker again.
func (r *JobRepository) ListPending(ctx context.Context, jobType entities.JobType, limit int) ([]*entities.ProcessingJob, error) {
	var jobs []*entities.ProcessingJob
	if limit <= 0 {
		limit = 10
	}
	if err := r.db.WithContext(ctx).
		Where("status = ? AND job_type = ? AND retry_count < max_retries", entities.JobStatusPending, jobType).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// Claim atomically moves a pending job to running.
// Only one worker wins when several poll the same job.
func (r *JobRepository) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entities.ProcessingJob{}).
		Where("id = ? AND status = ?", id, entities.JobStatusPending).
		Updates(map[string]interface{}{
			"status":     entities.JobStatusRunning,
			"started_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkCompleted marks a job as completed
func (r *JobRepository) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.ProcessingJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       entities.JobStatusCompleted,
			"completed_at": now,
			"updated_at":   now,
		}).Error
}

// MarkFailed marks a job as failed with an error message
func (r *JobRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	return r.db.WithContext(ctx).
		Model(&entities.ProcessingJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     entities.JobStatusFailed,
			"last_error": errMsg,
			"updated_at": time.Now(),
		}).Error
}

// RequeueStale resets running jobs untouched since the cutoff back to pending
func (r *JobRepository) RequeueStale(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.ProcessingJob{}).
		Where("status = ? AND updated_at < ?", entities.JobStatusRunning, cutoff).
		Updates(map[string]interface{}{
			"status":      entities.JobStatusPending,
			"retry_count": gorm.Expr("retry_count + 1"),
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
