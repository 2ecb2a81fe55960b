package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/legalintel/legal-intel/constants"
	"github.com/legalintel/legal-intel/internal/common"
	"github.com/legalintel/legal-intel/internal/entity"
	"github.com/legalintel/legal-intel/internal/pipeline"
)

type fakeMetadataRepo struct {
	rows map[uuid.UUID]*entity.DocumentMetadata
}

func (f *fakeMetadataRepo) Create(_ context.Context, md *entity.DocumentMetadata) error {
	f.rows[md.DocumentID] = md
	return nil
}

func (f *fakeMetadataRepo) GetByDocument(_ context.Context, documentID uuid.UUID) (*entity.DocumentMetadata, error) {
	md, ok := f.rows[documentID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return md, nil
}

func (f *fakeMetadataRepo) DeleteByDocument(_ context.Context, documentID uuid.UUID) error {
	delete(f.rows, documentID)
	return nil
}

func strPtr(s string) *string { return &s }

func TestExportDocumentsXLSX(t *testing.T) {
	docID := uuid.New()
	effective := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	repo := &fakeMetadataRepo{rows: map[uuid.UUID]*entity.DocumentMetadata{
		docID: {
			DocumentID:           docID,
			AgreementType:        strPtr("NDA"),
			Jurisdiction:         strPtr("Delaware, USA"),
			IndustrySector:       strPtr("Technology"),
			Parties:              []string{"Acme Corporation", "Globex"},
			EffectiveDate:        &effective,
			Currency:             strPtr("USD"),
			ExtractionConfidence: 0.92,
			ExtractionMethod:     entity.MethodAIPowered,
		},
	}}

	docs := []*entity.Document{
		{
			ID:         docID,
			Filename:   "nda.pdf",
			Status:     constants.StatusCompleted,
			UploadedAt: time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			// No metadata row; only the document columns are filled.
			ID:         uuid.New(),
			Filename:   "pending.docx",
			Status:     constants.StatusUploaded,
			UploadedAt: time.Date(2024, 2, 2, 10, 0, 0, 0, time.UTC),
		},
	}

	data, err := NewService(repo, nil).ExportDocumentsXLSX(context.Background(), docs)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	const sheet = "Documents"
	get := func(cell string) string {
		v, err := wb.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Filename", get("A1"))
	assert.Equal(t, "Agreement Type", get("C1"))

	assert.Equal(t, "nda.pdf", get("A2"))
	assert.Equal(t, "completed", get("B2"))
	assert.Equal(t, "NDA", get("C2"))
	assert.Equal(t, "Delaware, USA", get("D2"))
	assert.Equal(t, "Acme Corporation; Globex", get("F2"))
	assert.Equal(t, "2024-01-15", get("G2"))
	assert.Equal(t, "ai_powered", get("L2"))
	assert.Equal(t, "2024-02-01", get("M2"))

	assert.Equal(t, "pending.docx", get("A3"))
	assert.Equal(t, "uploaded", get("B3"))
	assert.Equal(t, "", get("C3"))
}

func TestExportBatchReportXLSX(t *testing.T) {
	failureID := uuid.New()
	summary := pipeline.Summary{Processed: 3, Failed: 2, Total: 5}
	failures := []pipeline.FailureRecord{
		{DocumentID: failureID, Filename: "bad.docx", Reason: "corrupt archive"},
		{DocumentID: uuid.New(), Filename: "worse.pdf", Reason: "no extractable text content"},
	}

	data, err := NewService(&fakeMetadataRepo{rows: map[uuid.UUID]*entity.DocumentMetadata{}}, nil).
		ExportBatchReportXLSX(summary, failures)
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	const sheet = "Batch Report"
	get := func(cell string) string {
		v, err := wb.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "3", get("A2"))
	assert.Equal(t, "2", get("B2"))
	assert.Equal(t, "5", get("C2"))

	assert.Equal(t, failureID.String(), get("A5"))
	assert.Equal(t, "bad.docx", get("B5"))
	assert.Equal(t, "corrupt archive", get("C5"))
	assert.Equal(t, "worse.pdf", get("B6"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	got := truncate("abcdefghij", 5)
	assert.Len(t, []rune(got), 5)
	assert.Equal(t, "abcd…", got)
}
