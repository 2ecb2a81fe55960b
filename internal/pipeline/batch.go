package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/legalintel/legal-intel/internal/common"
	"github.com/legalintel/legal-intel/internal/repository"
)

// Progress is a point-in-time snapshot of a running sweep.
type Progress struct {
	Current   int `json:"current"`
	Total     int `json:"total"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// Summary is the final accounting of one sweep.
type Summary struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Total     int `json:"total"`
}

// FailureRecord names one document a sweep could not process.
type FailureRecord struct {
	DocumentID uuid.UUID
	Filename   string
	Reason     string
}

// Worker processes one claimed document end to end.
type Worker interface {
	Process(ctx context.Context, documentID uuid.UUID) error
}

// Batch sweeps every processable document through the pipeline. Documents
// are isolated from each other: one failure never stops the sweep.
type Batch struct {
	docs   repository.DocumentRepository
	worker Worker
	log    *slog.Logger

	mu       sync.Mutex
	progress Progress
	failures []FailureRecord
}

func NewBatch(docs repository.DocumentRepository, worker Worker, log *slog.Logger) *Batch {
	if log == nil {
		log = slog.Default()
	}
	return &Batch{docs: docs, worker: worker, log: log}
}

// Run performs one sweep and returns its summary. Cancellation stops the
// sweep between documents; the summary covers what was attempted.
func (b *Batch) Run(ctx context.Context) (Summary, error) {
	batchID := uuid.New().String()
	ctx = common.WithBatchID(ctx, batchID)
	start := time.Now()

	docs, err := b.docs.ListProcessable(ctx)
	if err != nil {
		return Summary{}, err
	}

	b.setProgress(Progress{Total: len(docs)})
	b.log.Info("batch.sweep.start", "batch_id", batchID, "total", len(docs))

	processed, failed := 0, 0
	for i, doc := range docs {
		if ctx.Err() != nil {
			b.log.Warn("batch.sweep.cancelled", "batch_id", batchID, "at", i)
			break
		}

		err := b.worker.Process(ctx, doc.ID)
		switch {
		case err == nil:
			processed++
		case errors.Is(err, common.ErrConflict):
			// Someone else claimed it mid-sweep; not our failure.
			b.log.Info("batch.document.skipped", "batch_id", batchID, "document_id", doc.ID)
		default:
			failed++
			b.recordFailure(FailureRecord{DocumentID: doc.ID, Filename: doc.Filename, Reason: err.Error()})
			b.log.Error("batch.document.failed",
				"batch_id", batchID, "document_id", doc.ID,
				"filename", doc.Filename, "err", err)
		}

		b.setProgress(Progress{Current: i + 1, Total: len(docs), Processed: processed, Failed: failed})
	}

	summary := Summary{Processed: processed, Failed: failed, Total: len(docs)}
	b.log.Info("batch.sweep.done",
		"batch_id", batchID,
		"processed", summary.Processed,
		"failed", summary.Failed,
		"total", summary.Total,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return summary, nil
}

// Progress returns a snapshot safe to read while a sweep runs.
func (b *Batch) Progress() Progress {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.progress
}

// Failures returns the failure records of the most recent sweep.
func (b *Batch) Failures() []FailureRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]FailureRecord, len(b.failures))
	copy(out, b.failures)
	return out
}

func (b *Batch) setProgress(p Progress) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p.Current == 0 {
		b.failures = nil
	}
	b.progress = p
}

func (b *Batch) recordFailure(f FailureRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = append(b.failures, f)
}
