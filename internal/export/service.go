package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/legalintel/legal-intel/internal/entity"
	"github.com/legalintel/legal-intel/internal/pipeline"
	"github.com/legalintel/legal-intel/internal/repository"
)

// Service is a tiny façade over repositories that produces XLSX bytes for exports.
type Service struct {
	metadata repository.MetadataRepository
	logger   *slog.Logger
}

func NewService(metadata repository.MetadataRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{metadata: metadata, logger: logger}
}

// ExportDocumentsXLSX returns an XLSX workbook (as bytes) listing documents
// with their extracted metadata, one row per document.
func (s *Service) ExportDocumentsXLSX(ctx context.Context, docs []*entity.Document) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Documents"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Filename",
		"Status",
		"Agreement Type",
		"Jurisdiction",
		"Industry",
		"Parties",
		"Effective Date",
		"Expiration Date",
		"Contract Value",
		"Currency",
		"Confidence",
		"Method",
		"Uploaded",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, d := range docs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, d.Filename)
		write(2, string(d.Status))
		write(13, d.UploadedAt.Format("2006-01-02"))

		md, err := s.metadata.GetByDocument(ctx, d.ID)
		if err == nil {
			write(3, orDash(md.AgreementType))
			write(4, orDash(md.Jurisdiction))
			write(5, orDash(md.IndustrySector))
			write(6, truncate(strings.Join(md.Parties, "; "), 140))
			if md.EffectiveDate != nil {
				write(7, md.EffectiveDate.Format("2006-01-02"))
			}
			if md.ExpirationDate != nil {
				write(8, md.ExpirationDate.Format("2006-01-02"))
			}
			if md.ContractValue != nil {
				write(9, *md.ContractValue)
			}
			write(10, orDash(md.Currency))
			write(11, md.ExtractionConfidence)
			write(12, md.ExtractionMethod)
		}

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 36) // filename
	_ = f.SetColWidth(sheet, "C", "E", 20) // classification
	_ = f.SetColWidth(sheet, "F", "F", 48) // parties
	_ = f.SetColWidth(sheet, "G", "H", 14) // dates
	_ = f.SetColWidth(sheet, "M", "M", 12) // uploaded

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(docs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// ExportBatchReportXLSX writes a sweep summary with one row per failure.
func (s *Service) ExportBatchReportXLSX(summary pipeline.Summary, failures []pipeline.FailureRecord) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Batch Report"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	_ = f.SetCellValue(sheet, "A1", "Processed")
	_ = f.SetCellValue(sheet, "B1", "Failed")
	_ = f.SetCellValue(sheet, "C1", "Total")
	_ = f.SetCellValue(sheet, "A2", summary.Processed)
	_ = f.SetCellValue(sheet, "B2", summary.Failed)
	_ = f.SetCellValue(sheet, "C2", summary.Total)

	_ = f.SetCellValue(sheet, "A4", "Document ID")
	_ = f.SetCellValue(sheet, "B4", "Filename")
	_ = f.SetCellValue(sheet, "C4", "Reason")
	row := 5
	for _, fail := range failures {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), fail.DocumentID.String())
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), fail.Filename)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), truncate(fail.Reason, 200))
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 38)
	_ = f.SetColWidth(sheet, "B", "B", 36)
	_ = f.SetColWidth(sheet, "C", "C", 80)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "—"
	}
	return *s
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
