package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct {
		from, to DocumentStatus
	}{
		{StatusUploaded, StatusProcessing},
		{StatusPending, StatusProcessing},
		{StatusProcessing, StatusExtractingText},
		{StatusProcessing, StatusExtractingMetadata}, // text stage short-circuits on existing content
		{StatusExtractingText, StatusTextExtracted},
		{StatusTextExtracted, StatusExtractingMetadata},
		{StatusExtractingMetadata, StatusMetadataExtracted},
		{StatusMetadataExtracted, StatusCompleted},
		{StatusExtractingText, StatusFailed},
		{StatusFailed, StatusPending},
		{StatusFailed, StatusProcessing},
		{StatusCompleted, StatusProcessing}, // reprocess
		{StatusCompleted, StatusDeleted},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct {
		from, to DocumentStatus
	}{
		{StatusUploaded, StatusCompleted},
		{StatusUploaded, StatusTextExtracted},
		{StatusExtractingText, StatusCompleted},
		{StatusTextExtracted, StatusMetadataExtracted},
		{StatusCompleted, StatusFailed},
		{StatusDeleted, StatusProcessing},
		{StatusDeleted, StatusPending},
		{StatusFailed, StatusCompleted},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestTransitionSources(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{string(StatusProcessing), string(StatusTextExtracted)},
		TransitionSources(StatusExtractingMetadata))

	assert.ElementsMatch(t,
		[]string{string(StatusProcessing), string(StatusMetadataExtracted)},
		TransitionSources(StatusCompleted))

	// Every status but deleted may fail or be soft deleted.
	assert.Len(t, TransitionSources(StatusFailed), 7)
	assert.Len(t, TransitionSources(StatusDeleted), 9)
}

func TestDeletedAcceptsNothing(t *testing.T) {
	all := []DocumentStatus{
		StatusUploaded, StatusPending, StatusProcessing, StatusExtractingText,
		StatusTextExtracted, StatusExtractingMetadata, StatusMetadataExtracted,
		StatusCompleted, StatusFailed, StatusDeleted,
	}
	for _, to := range all {
		assert.False(t, CanTransition(StatusDeleted, to))
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.True(t, StatusDeleted.IsTerminal())

	assert.False(t, StatusUploaded.IsTerminal())
	assert.False(t, StatusProcessing.IsTerminal())
	assert.False(t, StatusExtractingMetadata.IsTerminal())
}

func TestProcessable(t *testing.T) {
	assert.True(t, StatusUploaded.Processable())
	assert.True(t, StatusPending.Processable())

	assert.False(t, StatusProcessing.Processable())
	assert.False(t, StatusCompleted.Processable())
	assert.False(t, StatusFailed.Processable())
	assert.False(t, StatusDeleted.Processable())
}

func TestNormalizeExt(t *testing.T) {
	assert.Equal(t, "pdf", NormalizeExt(".PDF"))
	assert.Equal(t, "docx", NormalizeExt("docx"))
	assert.Equal(t, "doc", NormalizeExt(".doc"))
}

func TestIsSupportedExt(t *testing.T) {
	assert.True(t, IsSupportedExt("pdf"))
	assert.True(t, IsSupportedExt(".DOCX"))
	assert.True(t, IsSupportedExt("doc"))

	assert.False(t, IsSupportedExt("txt"))
	assert.False(t, IsSupportedExt(""))
	assert.False(t, IsSupportedExt(".xlsx"))
}
