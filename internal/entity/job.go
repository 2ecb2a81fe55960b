package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/legalintel/legal-intel/constants"
)

// ErrJobTerminal rejects transitions on completed or failed jobs.
var ErrJobTerminal = errors.New("job already in terminal state")

// ProcessingJob tracks one pipeline stage attempt for a document.
type ProcessingJob struct {
	ID           uuid.UUID          `json:"id"`
	DocumentID   uuid.UUID          `json:"document_id"`
	JobType      constants.JobType  `json:"job_type"`
	Status       constants.JobStatus `json:"status"`
	RetryCount   int                `json:"retry_count"`
	MaxRetries   int                `json:"max_retries"`
	ErrorMessage *string            `json:"error_message,omitempty"`
	ResultData   json.RawMessage    `json:"result_data,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	StartedAt    *time.Time         `json:"started_at,omitempty"`
	CompletedAt  *time.Time         `json:"completed_at,omitempty"`
}

// NewProcessingJob returns a pending job for one stage of a document.
func NewProcessingJob(documentID uuid.UUID, jobType constants.JobType) *ProcessingJob {
	return &ProcessingJob{
		ID:         uuid.New(),
		DocumentID: documentID,
		JobType:    jobType,
		Status:     constants.JobStatusPending,
		MaxRetries: constants.DefaultMaxRetries,
		CreatedAt:  time.Now().UTC(),
	}
}

// IsTerminal reports whether the job accepts no further transitions.
func (j *ProcessingJob) IsTerminal() bool {
	return j.Status == constants.JobStatusCompleted || j.Status == constants.JobStatusFailed
}

// Start marks the job as running and stamps the start time.
func (j *ProcessingJob) Start() error {
	if j.IsTerminal() {
		return fmt.Errorf("job %s is %s: %w", j.ID, j.Status, ErrJobTerminal)
	}
	now := time.Now().UTC()
	j.Status = constants.JobStatusProcessing
	j.StartedAt = &now
	return nil
}

// Complete marks the job as finished and records the stage result.
func (j *ProcessingJob) Complete(result json.RawMessage) error {
	if j.IsTerminal() {
		return fmt.Errorf("job %s is %s: %w", j.ID, j.Status, ErrJobTerminal)
	}
	now := time.Now().UTC()
	j.Status = constants.JobStatusCompleted
	j.CompletedAt = &now
	j.ResultData = result
	j.ErrorMessage = nil
	return nil
}

// Fail marks the job as failed with the given error message.
func (j *ProcessingJob) Fail(message string) error {
	if j.IsTerminal() {
		return fmt.Errorf("job %s is %s: %w", j.ID, j.Status, ErrJobTerminal)
	}
	now := time.Now().UTC()
	j.Status = constants.JobStatusFailed
	j.CompletedAt = &now
	j.ErrorMessage = &message
	return nil
}

// Retry consumes one attempt from the retry budget. When the budget is
// exhausted the job lands in failed; otherwise it resets to pending with
// the bookkeeping of the previous attempt cleared.
func (j *ProcessingJob) Retry() error {
	if j.Status == constants.JobStatusCompleted {
		return fmt.Errorf("job %s is completed: %w", j.ID, ErrJobTerminal)
	}
	j.RetryCount++
	if j.RetryCount >= j.MaxRetries {
		j.Status = constants.JobStatusFailed
		return nil
	}
	j.Status = constants.JobStatusPending
	j.StartedAt = nil
	j.CompletedAt = nil
	j.ErrorMessage = nil
	return nil
}
