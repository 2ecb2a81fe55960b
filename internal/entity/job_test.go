package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legalintel/legal-intel/constants"
)

func TestNewProcessingJob(t *testing.T) {
	docID := uuid.New()
	job := NewProcessingJob(docID, constants.JobTypeTextExtraction)

	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, docID, job.DocumentID)
	assert.Equal(t, constants.JobStatusPending, job.Status)
	assert.Equal(t, 0, job.RetryCount)
	assert.Equal(t, constants.DefaultMaxRetries, job.MaxRetries)
	assert.Nil(t, job.StartedAt)
	assert.Nil(t, job.CompletedAt)
}

func TestJobStartCompleteLifecycle(t *testing.T) {
	job := NewProcessingJob(uuid.New(), constants.JobTypeMetadataExtraction)

	require.NoError(t, job.Start())
	assert.Equal(t, constants.JobStatusProcessing, job.Status)
	assert.NotNil(t, job.StartedAt)

	result := json.RawMessage(`{"confidence":0.8}`)
	require.NoError(t, job.Complete(result))
	assert.Equal(t, constants.JobStatusCompleted, job.Status)
	assert.NotNil(t, job.CompletedAt)
	assert.Equal(t, result, job.ResultData)
	assert.Nil(t, job.ErrorMessage)
	assert.True(t, job.IsTerminal())
}

func TestJobFail(t *testing.T) {
	job := NewProcessingJob(uuid.New(), constants.JobTypeTextExtraction)
	require.NoError(t, job.Start())

	require.NoError(t, job.Fail("blob not found"))
	assert.Equal(t, constants.JobStatusFailed, job.Status)
	require.NotNil(t, job.ErrorMessage)
	assert.Equal(t, "blob not found", *job.ErrorMessage)
	assert.True(t, job.IsTerminal())
}

func TestJobTerminalRejectsTransitions(t *testing.T) {
	job := NewProcessingJob(uuid.New(), constants.JobTypeTextExtraction)
	require.NoError(t, job.Start())
	require.NoError(t, job.Complete(nil))

	assert.ErrorIs(t, job.Start(), ErrJobTerminal)
	assert.ErrorIs(t, job.Fail("too late"), ErrJobTerminal)
	assert.ErrorIs(t, job.Complete(nil), ErrJobTerminal)
	assert.ErrorIs(t, job.Retry(), ErrJobTerminal)
}

func TestJobRetryResetsAttempt(t *testing.T) {
	job := NewProcessingJob(uuid.New(), constants.JobTypeTextExtraction)
	require.NoError(t, job.Start())
	msg := "transient"
	job.ErrorMessage = &msg

	require.NoError(t, job.Retry())
	assert.Equal(t, constants.JobStatusPending, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	assert.Nil(t, job.StartedAt)
	assert.Nil(t, job.CompletedAt)
	assert.Nil(t, job.ErrorMessage)
}

func TestJobRetryExhaustsBudget(t *testing.T) {
	job := NewProcessingJob(uuid.New(), constants.JobTypeTextExtraction)
	job.MaxRetries = 2

	require.NoError(t, job.Start())
	require.NoError(t, job.Retry())
	assert.Equal(t, constants.JobStatusPending, job.Status)

	require.NoError(t, job.Start())
	require.NoError(t, job.Retry())
	assert.Equal(t, constants.JobStatusFailed, job.Status)
	assert.Equal(t, 2, job.RetryCount)
	assert.True(t, job.IsTerminal())
}

func TestDocumentIsDeleted(t *testing.T) {
	doc := &Document{Status: constants.StatusUploaded}
	assert.False(t, doc.IsDeleted())

	doc.Status = constants.StatusDeleted
	assert.True(t, doc.IsDeleted())

	deletedAt := time.Now().UTC()
	doc = &Document{Status: constants.StatusCompleted, DeletedAt: &deletedAt}
	assert.True(t, doc.IsDeleted())
}
