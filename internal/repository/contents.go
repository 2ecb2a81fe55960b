package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/legalintel/legal-intel/internal/common"
	"github.com/legalintel/legal-intel/internal/entity"
)

type ContentRepository interface {
	Create(ctx context.Context, content *entity.DocumentContent) error
	GetByDocument(ctx context.Context, documentID uuid.UUID) (*entity.DocumentContent, error)
	DeleteByDocument(ctx context.Context, documentID uuid.UUID) error
}

type contentRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewContentRepository(pool *pgxpool.Pool, log *slog.Logger) ContentRepository {
	if log == nil {
		log = slog.Default()
	}
	return &contentRepo{pool: pool, log: log}
}

func (r *contentRepo) Create(ctx context.Context, content *entity.DocumentContent) error {
	if content.ID == uuid.Nil {
		content.ID = uuid.New()
	}
	if content.ExtractedAt.IsZero() {
		content.ExtractedAt = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO document_contents
			(id, document_id, raw_text, word_count, character_count, extraction_method, confidence, language, extracted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		content.ID, content.DocumentID, content.RawText, content.WordCount,
		content.CharacterCount, content.ExtractionMethod, content.Confidence,
		content.Language, content.ExtractedAt)
	if err != nil {
		r.log.Error("content create failed", "document_id", content.DocumentID, "err", err)
		return common.WrapError(err, "create document content")
	}
	r.log.Info("content stored", "document_id", content.DocumentID,
		"word_count", content.WordCount, "method", content.ExtractionMethod)
	return nil
}

func (r *contentRepo) GetByDocument(ctx context.Context, documentID uuid.UUID) (*entity.DocumentContent, error) {
	var c entity.DocumentContent
	err := r.pool.QueryRow(ctx, `
		SELECT id, document_id, raw_text, word_count, character_count, extraction_method, confidence, language, extracted_at
		FROM document_contents
		WHERE document_id = $1`, documentID).
		Scan(&c.ID, &c.DocumentID, &c.RawText, &c.WordCount, &c.CharacterCount,
			&c.ExtractionMethod, &c.Confidence, &c.Language, &c.ExtractedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapError(err, "get document content")
	}
	return &c, nil
}

func (r *contentRepo) DeleteByDocument(ctx context.Context, documentID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM document_contents WHERE document_id = $1`, documentID)
	if err != nil {
		return common.WrapError(err, "delete document content")
	}
	return nil
}
