package constants

// DocumentStatus is the canonical lifecycle status for rows in documents.
type DocumentStatus string

// Stable values (store these exact strings in DB).
const (
	StatusUploaded           DocumentStatus = "uploaded"            // upload recorded, nothing processed yet
	StatusPending            DocumentStatus = "pending"             // queued for a sweep (reset path)
	StatusProcessing         DocumentStatus = "processing"          // claimed by a worker, transitions in flight
	StatusExtractingText     DocumentStatus = "extracting_text"     // stage 1 in progress
	StatusTextExtracted      DocumentStatus = "text_extracted"      // stage 1 done
	StatusExtractingMetadata DocumentStatus = "extracting_metadata" // stage 2 in progress
	StatusMetadataExtracted  DocumentStatus = "metadata_extracted"  // stage 2 done
	StatusCompleted          DocumentStatus = "completed"           // pipeline finished
	StatusFailed             DocumentStatus = "failed"              // terminal failure (reprocessable)
	StatusDeleted            DocumentStatus = "deleted"             // soft deleted
)

// documentTransitions declares the legal lifecycle moves. The table is the
// contract; anything not listed here is rejected.
var documentTransitions = map[DocumentStatus][]DocumentStatus{
	StatusUploaded:           {StatusProcessing, StatusExtractingText, StatusFailed, StatusDeleted},
	StatusPending:            {StatusProcessing, StatusExtractingText, StatusFailed, StatusDeleted},
	StatusProcessing:         {StatusExtractingText, StatusExtractingMetadata, StatusCompleted, StatusFailed, StatusDeleted},
	StatusExtractingText:     {StatusTextExtracted, StatusFailed, StatusDeleted},
	StatusTextExtracted:      {StatusExtractingMetadata, StatusFailed, StatusDeleted},
	StatusExtractingMetadata: {StatusMetadataExtracted, StatusFailed, StatusDeleted},
	StatusMetadataExtracted:  {StatusCompleted, StatusFailed, StatusDeleted},
	StatusCompleted:          {StatusProcessing, StatusDeleted},
	StatusFailed:             {StatusProcessing, StatusPending, StatusDeleted},
	StatusDeleted:            {},
}

// CanTransition reports whether moving a document from one status to another
// is a legal lifecycle transition.
func CanTransition(from, to DocumentStatus) bool {
	for _, next := range documentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionSources returns every status from which a document may legally
// move to the given status. Repositories use it to enforce the table in a
// single conditional update.
func TransitionSources(to DocumentStatus) []string {
	var from []string
	for s, nexts := range documentTransitions {
		for _, next := range nexts {
			if next == to {
				from = append(from, string(s))
			}
		}
	}
	return from
}

// IsTerminal reports whether a document status accepts no further pipeline
// transitions other than reprocessing or deletion.
func (s DocumentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusDeleted
}

// Processable reports whether a batch sweep should pick the document up.
func (s DocumentStatus) Processable() bool {
	return s == StatusUploaded || s == StatusPending
}

// JobStatus is the canonical status for rows in processing_jobs.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// JobType identifies which pipeline stage a processing job records.
type JobType string

const (
	JobTypeTextExtraction     JobType = "text_extraction"
	JobTypeMetadataExtraction JobType = "metadata_extraction"
	JobTypeDocumentProcessing JobType = "document_processing"
)

// DefaultMaxRetries is the retry budget for a processing job.
const DefaultMaxRetries = 3
