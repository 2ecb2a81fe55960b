package metadata

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/legalintel/legal-intel/internal/common"
	"github.com/legalintel/legal-intel/internal/entity"
	"github.com/legalintel/legal-intel/internal/repository"
)

// Coordinator decides which extractor produces a document's metadata.
// AI goes first when it is available; any AI failure falls back to the
// rule engine. A metadata row carries exactly one provenance.
type Coordinator struct {
	repo  repository.MetadataRepository
	ai    Extractor
	rules Extractor
	log   *slog.Logger
}

func NewCoordinator(repo repository.MetadataRepository, ai, rules Extractor, log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{repo: repo, ai: ai, rules: rules, log: log}
}

// ExtractForDocument produces and persists the metadata row for a document.
// Idempotent: an existing row is returned unchanged.
func (c *Coordinator) ExtractForDocument(ctx context.Context, documentID uuid.UUID, text, filename string) (*entity.DocumentMetadata, error) {
	existing, err := c.repo.GetByDocument(ctx, documentID)
	if err == nil {
		c.log.Info("metadata already exists", "document_id", documentID)
		return existing, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	fields, method := c.extract(ctx, text, filename)
	row := toEntity(documentID, fields, method)
	if err := c.repo.Create(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

// DeleteForDocument drops a document's metadata row so a reprocess can
// produce a fresh one.
func (c *Coordinator) DeleteForDocument(ctx context.Context, documentID uuid.UUID) error {
	return c.repo.DeleteByDocument(ctx, documentID)
}

func (c *Coordinator) extract(ctx context.Context, text, filename string) (*Fields, string) {
	if c.ai != nil && c.ai.Available() {
		fields, err := c.ai.Extract(ctx, text, filename)
		if err == nil {
			return fields, entity.MethodAIPowered
		}
		c.log.Warn("ai extraction failed, falling back to rules",
			"filename", filename, "err", err)
	}
	fields, _ := c.rules.Extract(ctx, text, filename)
	return fields, entity.MethodRuleBased
}

func toEntity(documentID uuid.UUID, f *Fields, method string) *entity.DocumentMetadata {
	return &entity.DocumentMetadata{
		ID:                   uuid.New(),
		DocumentID:           documentID,
		AgreementType:        f.AgreementType,
		Jurisdiction:         f.Jurisdiction,
		GoverningLaw:         f.GoverningLaw,
		Geography:            f.Geography,
		IndustrySector:       f.IndustrySector,
		Parties:              f.Parties,
		EffectiveDate:        f.EffectiveDate,
		ExpirationDate:       f.ExpirationDate,
		ContractValue:        f.ContractValue,
		Currency:             f.Currency,
		Keywords:             f.Keywords,
		Tags:                 f.Tags,
		Summary:              f.Summary,
		ExtractionConfidence: f.Confidence,
		ExtractionMethod:     method,
	}
}
