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

type MetadataRepository interface {
	Create(ctx context.Context, md *entity.DocumentMetadata) error
	GetByDocument(ctx context.Context, documentID uuid.UUID) (*entity.DocumentMetadata, error)
	DeleteByDocument(ctx context.Context, documentID uuid.UUID) error
}

type metadataRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewMetadataRepository(pool *pgxpool.Pool, log *slog.Logger) MetadataRepository {
	if log == nil {
		log = slog.Default()
	}
	return &metadataRepo{pool: pool, log: log}
}

const metadataColumns = `id, document_id, agreement_type, jurisdiction, governing_law, geography,
	industry_sector, parties, effective_date, expiration_date, contract_value, currency,
	keywords, tags, summary, extraction_confidence, extraction_method, extracted_at`

func (r *metadataRepo) Create(ctx context.Context, md *entity.DocumentMetadata) error {
	if md.ID == uuid.Nil {
		md.ID = uuid.New()
	}
	if md.ExtractedAt.IsZero() {
		md.ExtractedAt = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO document_metadata (`+metadataColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		md.ID, md.DocumentID, md.AgreementType, md.Jurisdiction, md.GoverningLaw,
		md.Geography, md.IndustrySector, md.Parties, md.EffectiveDate,
		md.ExpirationDate, md.ContractValue, md.Currency, md.Keywords, md.Tags,
		md.Summary, md.ExtractionConfidence, md.ExtractionMethod, md.ExtractedAt)
	if err != nil {
		r.log.Error("metadata create failed", "document_id", md.DocumentID, "err", err)
		return common.WrapError(err, "create document metadata")
	}
	r.log.Info("metadata stored", "document_id", md.DocumentID,
		"method", md.ExtractionMethod, "confidence", md.ExtractionConfidence)
	return nil
}

func (r *metadataRepo) GetByDocument(ctx context.Context, documentID uuid.UUID) (*entity.DocumentMetadata, error) {
	var m entity.DocumentMetadata
	err := r.pool.QueryRow(ctx,
		`SELECT `+metadataColumns+` FROM document_metadata WHERE document_id = $1`, documentID).
		Scan(&m.ID, &m.DocumentID, &m.AgreementType, &m.Jurisdiction, &m.GoverningLaw,
			&m.Geography, &m.IndustrySector, &m.Parties, &m.EffectiveDate,
			&m.ExpirationDate, &m.ContractValue, &m.Currency, &m.Keywords, &m.Tags,
			&m.Summary, &m.ExtractionConfidence, &m.ExtractionMethod, &m.ExtractedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapError(err, "get document metadata")
	}
	return &m, nil
}

func (r *metadataRepo) DeleteByDocument(ctx context.Context, documentID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM document_metadata WHERE document_id = $1`, documentID)
	if err != nil {
		return common.WrapError(err, "delete document metadata")
	}
	return nil
}
