package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/entities"
)

// JobRepository defines the interface for processing job data access
type JobRepository interface {
	// Create creates a new job
	Create(ctx context.Context, job *entities.ProcessingJob) error

	// FindByID finds a job by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.ProcessingJob, error)

	// ListPending returns pending jobs of the given type, oldest first
	ListPending(ctx context.Context, jobType entities.JobType, limit int) ([]*entities.ProcessingJob, error)

	// Claim atomically moves a pending job to running.
	// Returns false when another worker already claimed it.
	Claim(ctx context.Context, id uuid.UUID) (bool, error)

	// MarkCompleted marks a job as completed
	MarkCompleted(ctx context.Context, id uuid.UUID) error

	// MarkFailed marks a job as failed with an error message
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error

	// RequeueStale resets running jobs untouched since the cutoff back to pending.
	// Returns the number of requeued jobs.
	RequeueStale(ctx context.Context, cutoff time.Time) (int64, error)
}
