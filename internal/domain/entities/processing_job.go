package entities

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the status of a processing job
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"   // Waiting for a worker
	JobStatusRunning   JobStatus = "running"   // Claimed by a worker
	JobStatusCompleted JobStatus = "completed" // Finished successfully
	JobStatusFailed    JobStatus = "failed"    // Failed after retries
)

// JobType represents the type of processing job
type JobType string

const (
	JobTypeTranscription JobType = "transcription" // Speech to text via Whisper
	JobTypeSummary       JobType = "summary"       // LLM analysis via Gemini
)

// ProcessingJob drives the background transcription and summary pipeline
type ProcessingJob struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CallID  uuid.UUID `json:"call_id" gorm:"type:uuid;not null;index"`
	JobType JobType   `json:"job_type" gorm:"type:varchar(50);not null;index"`
	Status  JobStatus `json:"status" gorm:"type:varchar(50);not null;index;default:'pending'"`

	RetryCount  int        `json:"retry_count" gorm:"type:integer;default:0"`
	MaxRetries  int        `json:"max_retries" gorm:"type:integer;default:3"`
	LastError   *string    `json:"last_error,omitempty" gorm:"type:text"`
	StartedAt   *time.Time `json:"started_at,omitempty" gorm:"type:timestamp"`
	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"type:timestamp"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (ProcessingJob) TableName() string {
	return "processing_jobs"
}

// NewProcessingJob creates a pending job for a call
func NewProcessingJob(callID uuid.UUID, jobType JobType) *ProcessingJob {
	now := time.Now()
	return &ProcessingJob{
		ID:         uuid.New(),
		CallID:     callID,
		JobType:    jobType,
		Status:     JobStatusPending,
		RetryCount: 0,
		MaxRetries: 3,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsRetryable checks if the job can be retried
func (j *ProcessingJob) IsRetryable() bool {
	return j.RetryCount < j.MaxRetries
}

// MarkAsRunning marks the job as claimed by a worker
func (j *ProcessingJob) MarkAsRunning() {
	j.Status = JobStatusRunning
	now := time.Now()
	j.StartedAt = &now
	j.UpdatedAt = now
}

// MarkAsCompleted marks the job as completed successfully
func (j *ProcessingJob) MarkAsCompleted() {
	j.Status = JobStatusCompleted
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// MarkAsFailed marks the job as failed with an error message
func (j *ProcessingJob) MarkAsFailed(errMsg string) {
	j.Status = JobStatusFailed
	j.LastError = &errMsg
	j.UpdatedAt = time.Now()
}
