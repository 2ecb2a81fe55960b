package query

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/legalintel/legal-intel/internal/common"
	"github.com/legalintel/legal-intel/internal/entity"
)

// DefaultLimit caps result sets when the caller does not say otherwise.
const DefaultLimit = 100

// BuildSQL turns criteria into a conjunctive SELECT over documents with
// EXISTS subqueries against the metadata table. Soft-deleted rows are
// always excluded. Pure function so the shape is unit-testable.
func BuildSQL(c *Criteria, limit int) (string, []any) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var (
		conds = []string{"d.deleted_at IS NULL"}
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	// The CONTRACTS wildcard means "any agreement": no type filter.
	if c.AgreementType != "" && c.AgreementType != AgreementTypeAll {
		conds = append(conds, `EXISTS (SELECT 1 FROM document_metadata m
			WHERE m.document_id = d.id AND m.agreement_type = `+arg(c.AgreementType)+`)`)
	}

	if c.Jurisdiction != "" {
		p := arg(c.Jurisdiction)
		conds = append(conds, `EXISTS (SELECT 1 FROM document_metadata m
			WHERE m.document_id = d.id AND (m.jurisdiction = `+p+` OR m.governing_law = `+p+`))`)
	}

	if c.IndustrySector != "" {
		conds = append(conds, `EXISTS (SELECT 1 FROM document_metadata m
			WHERE m.document_id = d.id AND m.industry_sector = `+arg(c.IndustrySector)+`)`)
	}

	if c.MinConfidence != nil {
		conds = append(conds, `EXISTS (SELECT 1 FROM document_metadata m
			WHERE m.document_id = d.id AND m.extraction_confidence >= `+arg(*c.MinConfidence)+`)`)
	}
	if c.MaxConfidence != nil {
		conds = append(conds, `EXISTS (SELECT 1 FROM document_metadata m
			WHERE m.document_id = d.id AND m.extraction_confidence <= `+arg(*c.MaxConfidence)+`)`)
	}

	for _, kw := range c.Keywords {
		p := arg(kw)
		conds = append(conds, `EXISTS (SELECT 1 FROM document_metadata m
			WHERE m.document_id = d.id AND (`+p+` = ANY(m.keywords) OR `+p+` = ANY(m.tags)
			OR m.summary ILIKE '%' || `+p+` || '%'))`)
	}

	order := "d.uploaded_at DESC"
	if c.DateFilter == "old" {
		order = "d.uploaded_at ASC"
	}

	sql := `SELECT d.id, d.filename, d.file_ext, d.file_size, d.content_type, d.storage_path,
	d.status, d.error_message, d.uploaded_at, d.processing_started_at, d.processing_completed_at, d.deleted_at
FROM documents d
WHERE ` + strings.Join(conds, "\n  AND ") + `
ORDER BY ` + order + `
LIMIT ` + arg(limit)

	return sql, args
}

// Executor runs structured queries against the document store. Its default
// limit applies when the caller passes none.
type Executor struct {
	pool         *pgxpool.Pool
	defaultLimit int
	log          *slog.Logger
}

func NewExecutor(pool *pgxpool.Pool, defaultLimit int, log *slog.Logger) *Executor {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if log == nil {
		log = slog.Default()
	}
	return &Executor{pool: pool, defaultLimit: defaultLimit, log: log}
}

func (e *Executor) limitFor(limit int) int {
	if limit > 0 {
		return limit
	}
	return e.defaultLimit
}

// Search executes the criteria and returns the matching documents.
func (e *Executor) Search(ctx context.Context, c *Criteria, limit int) ([]*entity.Document, error) {
	sql, args := BuildSQL(c, e.limitFor(limit))
	rows, err := e.pool.Query(ctx, sql, args...)
	if err != nil {
		e.log.Error("query execution failed", "err", err)
		return nil, common.WrapError(err, "execute document query")
	}
	defer rows.Close()

	var docs []*entity.Document
	for rows.Next() {
		var d entity.Document
		if err := rows.Scan(&d.ID, &d.Filename, &d.FileExt, &d.FileSize, &d.ContentType,
			&d.StoragePath, &d.Status, &d.ErrorMessage, &d.UploadedAt,
			&d.ProcessingStartedAt, &d.ProcessingCompletedAt, &d.DeletedAt); err != nil {
			return nil, common.WrapError(err, "scan document")
		}
		docs = append(docs, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(err, "read query rows")
	}

	e.log.Info("query executed", "query_type", c.QueryType, "results", len(docs))
	return docs, nil
}
