package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/legalintel/legal-intel/constants"
	"github.com/legalintel/legal-intel/internal/common"
	"github.com/legalintel/legal-intel/internal/entity"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	ListProcessable(ctx context.Context) ([]*entity.Document, error)
	ClaimForProcessing(ctx context.Context, id uuid.UUID) error
	SetStatus(ctx context.Context, id uuid.UUID, status constants.DocumentStatus) error
	MarkCompleted(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, message string) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type documentRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewDocumentRepository(pool *pgxpool.Pool, log *slog.Logger) DocumentRepository {
	if log == nil {
		log = slog.Default()
	}
	return &documentRepo{pool: pool, log: log}
}

const documentColumns = `id, filename, file_ext, file_size, content_type, storage_path,
	status, error_message, uploaded_at, processing_started_at, processing_completed_at, deleted_at`

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var d entity.Document
	err := row.Scan(&d.ID, &d.Filename, &d.FileExt, &d.FileSize, &d.ContentType,
		&d.StoragePath, &d.Status, &d.ErrorMessage, &d.UploadedAt,
		&d.ProcessingStartedAt, &d.ProcessingCompletedAt, &d.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *documentRepo) Create(ctx context.Context, doc *entity.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}
	if doc.Status == "" {
		doc.Status = constants.StatusUploaded
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO documents (id, filename, file_ext, file_size, content_type, storage_path, status, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		doc.ID, doc.Filename, doc.FileExt, doc.FileSize, doc.ContentType,
		doc.StoragePath, doc.Status, doc.UploadedAt)
	if err != nil {
		r.log.Error("document create failed", "filename", doc.Filename, "err", err)
		return common.WrapError(err, "create document")
	}
	r.log.Info("document created", "document_id", doc.ID, "filename", doc.Filename)
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapError(err, "get document")
	}
	return doc, nil
}

// ListProcessable returns non-deleted documents waiting for a sweep.
func (r *documentRepo) ListProcessable(ctx context.Context) ([]*entity.Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE status IN ($1, $2) AND deleted_at IS NULL
		ORDER BY uploaded_at`,
		constants.StatusUploaded, constants.StatusPending)
	if err != nil {
		return nil, common.WrapError(err, "list processable documents")
	}
	defer rows.Close()

	var docs []*entity.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, common.WrapError(err, "scan document")
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// ClaimForProcessing atomically moves a document into processing. The
// conditional update is the concurrency guard: losing the race surfaces
// as ErrConflict, a missing row as ErrNotFound.
func (r *documentRepo) ClaimForProcessing(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE documents
		SET status = $2, processing_started_at = $3, processing_completed_at = NULL, error_message = NULL
		WHERE id = $1 AND status NOT IN ($2, $4) AND deleted_at IS NULL`,
		id, constants.StatusProcessing, time.Now().UTC(), constants.StatusDeleted)
	if err != nil {
		r.log.Error("document claim failed", "document_id", id, "err", err)
		return common.WrapError(err, "claim document")
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		r.log.Warn("document claim lost", "document_id", id)
		return common.ErrConflict
	}
	r.log.Info("document claimed", "document_id", id)
	return nil
}

// SetStatus enforces the lifecycle transition table: the update only lands
// when the current status is a legal source for the target.
func (r *documentRepo) SetStatus(ctx context.Context, id uuid.UUID, status constants.DocumentStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE documents SET status = $2 WHERE id = $1 AND status = ANY($3)`,
		id, status, constants.TransitionSources(status))
	if err != nil {
		return common.WrapError(err, "set document status")
	}
	if tag.RowsAffected() == 0 {
		doc, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return getErr
		}
		r.log.Warn("illegal status transition rejected",
			"document_id", id, "from", doc.Status, "to", status)
		return fmt.Errorf("%w: document status %s does not transition to %s",
			common.ErrValidation, doc.Status, status)
	}
	return nil
}

func (r *documentRepo) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE documents
		SET status = $2, processing_completed_at = $3, error_message = NULL
		WHERE id = $1`,
		id, constants.StatusCompleted, time.Now().UTC())
	if err != nil {
		r.log.Error("document complete failed", "document_id", id, "err", err)
		return common.WrapError(err, "complete document")
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	r.log.Info("document completed", "document_id", id)
	return nil
}

func (r *documentRepo) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE documents
		SET status = $2, processing_completed_at = $3, error_message = $4
		WHERE id = $1`,
		id, constants.StatusFailed, time.Now().UTC(), message)
	if err != nil {
		r.log.Error("document fail-mark failed", "document_id", id, "err", err)
		return common.WrapError(err, "mark document failed")
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	r.log.Warn("document failed", "document_id", id, "error", message)
	return nil
}

func (r *documentRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE documents
		SET status = $2, deleted_at = $3
		WHERE id = $1 AND deleted_at IS NULL`,
		id, constants.StatusDeleted, time.Now().UTC())
	if err != nil {
		return common.WrapError(err, "soft delete document")
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	r.log.Info("document soft deleted", "document_id", id)
	return nil
}
