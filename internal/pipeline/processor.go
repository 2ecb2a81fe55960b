// Package pipeline drives documents through the extraction stages:
// claim, text extraction, metadata extraction, terminal status.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	"github.com/legalintel/legal-intel/constants"
	"github.com/legalintel/legal-intel/internal/common"
	"github.com/legalintel/legal-intel/internal/entity"
	"github.com/legalintel/legal-intel/internal/metadata"
	"github.com/legalintel/legal-intel/internal/repository"
	"github.com/legalintel/legal-intel/internal/storage"
	"github.com/legalintel/legal-intel/internal/textract"
)

// Config tunes per-stage retry behavior.
type Config struct {
	MaxRetries int
	RetryDelay time.Duration
}

// Processor runs the full pipeline for one document at a time.
type Processor struct {
	docs        repository.DocumentRepository
	contents    repository.ContentRepository
	jobs        repository.JobRepository
	store       storage.ObjectStore
	extractor   *textract.Extractor
	coordinator *metadata.Coordinator
	cfg         Config
	log         *slog.Logger
}

func NewProcessor(
	docs repository.DocumentRepository,
	contents repository.ContentRepository,
	jobs repository.JobRepository,
	store storage.ObjectStore,
	extractor *textract.Extractor,
	coordinator *metadata.Coordinator,
	cfg Config,
	log *slog.Logger,
) *Processor {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = constants.DefaultMaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Processor{
		docs:        docs,
		contents:    contents,
		jobs:        jobs,
		store:       store,
		extractor:   extractor,
		coordinator: coordinator,
		cfg:         cfg,
		log:         log,
	}
}

// Process claims a document and runs both stages. Losing the claim race
// surfaces as ErrConflict. Stages are idempotent: existing content and
// metadata rows are reused, not recomputed.
func (p *Processor) Process(ctx context.Context, documentID uuid.UUID) error {
	if err := p.docs.ClaimForProcessing(ctx, documentID); err != nil {
		return err
	}
	doc, err := p.docs.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	return p.run(ctx, doc)
}

// Reprocess discards a document's previous extraction artifacts and runs
// the pipeline again from scratch. A document currently being processed is
// a conflict.
func (p *Processor) Reprocess(ctx context.Context, documentID uuid.UUID) error {
	if err := p.docs.ClaimForProcessing(ctx, documentID); err != nil {
		return err
	}
	doc, err := p.docs.GetByID(ctx, documentID)
	if err != nil {
		return err
	}

	p.log.Info("reprocessing document", "document_id", documentID)
	if err := p.contents.DeleteByDocument(ctx, documentID); err != nil {
		return err
	}
	if err := p.jobs.DeleteByDocument(ctx, documentID); err != nil {
		return err
	}
	if p.coordinator != nil {
		if err := p.deleteMetadata(ctx, documentID); err != nil {
			return err
		}
	}
	return p.run(ctx, doc)
}

// CleanupFailed force-fails documents whose jobs exhausted their retry
// budget. Returns how many documents were marked.
func (p *Processor) CleanupFailed(ctx context.Context) (int, error) {
	ids, err := p.jobs.ListExhaustedDocuments(ctx)
	if err != nil {
		return 0, err
	}
	marked := 0
	for _, id := range ids {
		doc, err := p.docs.GetByID(ctx, id)
		if err != nil {
			p.log.Warn("cleanup lookup failed", "document_id", id, "err", err)
			continue
		}
		if doc.Status == constants.StatusFailed || doc.IsDeleted() {
			continue
		}
		if err := p.docs.MarkFailed(ctx, id, "Max retries exceeded"); err != nil {
			p.log.Warn("cleanup mark failed", "document_id", id, "err", err)
			continue
		}
		marked++
	}
	if marked > 0 {
		p.log.Info("failed documents cleaned up", "count", marked)
	}
	return marked, nil
}

func (p *Processor) run(ctx context.Context, doc *entity.Document) error {
	text, err := p.textStage(ctx, doc)
	if err != nil {
		_ = p.docs.MarkFailed(ctx, doc.ID, err.Error())
		return err
	}

	if err := p.metadataStage(ctx, doc, text); err != nil {
		_ = p.docs.MarkFailed(ctx, doc.ID, err.Error())
		return err
	}

	return p.docs.MarkCompleted(ctx, doc.ID)
}

// textStage downloads the blob and extracts its text. An existing content
// row short-circuits the stage.
func (p *Processor) textStage(ctx context.Context, doc *entity.Document) (string, error) {
	existing, err := p.contents.GetByDocument(ctx, doc.ID)
	if err == nil {
		p.log.Info("content already exists", "document_id", doc.ID)
		return existing.RawText, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return "", err
	}

	if err := p.docs.SetStatus(ctx, doc.ID, constants.StatusExtractingText); err != nil {
		return "", err
	}

	var res *textract.Result
	stageErr := p.runStage(ctx, doc.ID, constants.JobTypeTextExtraction,
		func() (json.RawMessage, error) {
			data, err := p.store.Get(ctx, doc.StoragePath)
			if err != nil {
				return nil, err
			}
			res, err = p.extractor.Extract(data, doc.FileExt)
			if err != nil {
				return nil, err
			}
			return json.Marshal(map[string]any{
				"word_count": res.WordCount,
				"method":     res.Method,
				"confidence": res.Confidence,
			})
		})
	if stageErr != nil {
		return "", stageErr
	}

	content := &entity.DocumentContent{
		DocumentID:       doc.ID,
		RawText:          res.Text,
		WordCount:        res.WordCount,
		CharacterCount:   res.CharacterCount,
		ExtractionMethod: res.Method,
		Confidence:       res.Confidence,
		Language:         res.Language,
	}
	if err := p.contents.Create(ctx, content); err != nil {
		return "", err
	}
	if err := p.docs.SetStatus(ctx, doc.ID, constants.StatusTextExtracted); err != nil {
		return "", err
	}
	return res.Text, nil
}

func (p *Processor) metadataStage(ctx context.Context, doc *entity.Document, text string) error {
	if err := p.docs.SetStatus(ctx, doc.ID, constants.StatusExtractingMetadata); err != nil {
		return err
	}

	stageErr := p.runStage(ctx, doc.ID, constants.JobTypeMetadataExtraction,
		func() (json.RawMessage, error) {
			md, err := p.coordinator.ExtractForDocument(ctx, doc.ID, text, doc.Filename)
			if err != nil {
				return nil, err
			}
			return json.Marshal(map[string]any{
				"extraction_method": md.ExtractionMethod,
				"confidence":        md.ExtractionConfidence,
			})
		})
	if stageErr != nil {
		return stageErr
	}

	return p.docs.SetStatus(ctx, doc.ID, constants.StatusMetadataExtracted)
}

// runStage tracks one stage attempt in a processing job and retries the
// stage function on transient errors. Format and content errors are not
// retried; they cannot heal on their own.
func (p *Processor) runStage(ctx context.Context, documentID uuid.UUID, jobType constants.JobType, fn func() (json.RawMessage, error)) error {
	job := entity.NewProcessingJob(documentID, jobType)
	job.MaxRetries = p.cfg.MaxRetries
	if err := p.jobs.Create(ctx, job); err != nil {
		return err
	}
	if err := job.Start(); err != nil {
		return err
	}
	if err := p.jobs.Update(ctx, job); err != nil {
		return err
	}

	var result json.RawMessage
	err := retry.Do(
		func() error {
			var fnErr error
			result, fnErr = fn()
			return fnErr
		},
		retry.Context(ctx),
		retry.Attempts(uint(p.cfg.MaxRetries)),
		retry.Delay(p.cfg.RetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, common.ErrUnsupportedFormat) &&
				!errors.Is(err, common.ErrEmptyContent)
		}),
		retry.OnRetry(func(n uint, err error) {
			// OnRetry also fires after the final attempt; no retry is
			// consumed when no further attempt will run.
			if n+1 >= uint(p.cfg.MaxRetries) {
				return
			}
			p.log.Warn("stage attempt failed, retrying",
				"document_id", documentID, "job_type", jobType,
				"attempt", n+1, "err", err)
			if rErr := job.Retry(); rErr == nil {
				_ = job.Start()
				_ = p.jobs.Update(ctx, job)
			}
		}),
	)
	if err != nil {
		if fErr := job.Fail(err.Error()); fErr == nil {
			_ = p.jobs.Update(ctx, job)
		}
		if job.RetryCount >= job.MaxRetries-1 {
			err = fmt.Errorf("%w: %v", common.ErrRetryExceeded, err)
		}
		return err
	}

	if err := job.Complete(result); err != nil {
		return err
	}
	return p.jobs.Update(ctx, job)
}

func (p *Processor) deleteMetadata(ctx context.Context, documentID uuid.UUID) error {
	return p.coordinator.DeleteForDocument(ctx, documentID)
}
