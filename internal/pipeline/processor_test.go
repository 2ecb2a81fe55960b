package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legalintel/legal-intel/constants"
	"github.com/legalintel/legal-intel/internal/common"
	"github.com/legalintel/legal-intel/internal/entity"
	"github.com/legalintel/legal-intel/internal/metadata"
	"github.com/legalintel/legal-intel/internal/textract"
)

// In-memory repository and store fakes shared by the pipeline tests.

type fakeDocRepo struct {
	mu    sync.Mutex
	order []uuid.UUID
	docs  map[uuid.UUID]*entity.Document
	lists int
}

func newFakeDocRepo(docs ...*entity.Document) *fakeDocRepo {
	r := &fakeDocRepo{docs: map[uuid.UUID]*entity.Document{}}
	for _, d := range docs {
		r.order = append(r.order, d.ID)
		r.docs[d.ID] = d
	}
	return r
}

func (r *fakeDocRepo) Create(_ context.Context, doc *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, doc.ID)
	r.docs[doc.ID] = doc
	return nil
}

func (r *fakeDocRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return doc, nil
}

func (r *fakeDocRepo) ListProcessable(_ context.Context) ([]*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	var out []*entity.Document
	for _, id := range r.order {
		d := r.docs[id]
		if d.Status.Processable() && d.DeletedAt == nil {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDocRepo) ClaimForProcessing(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return common.ErrNotFound
	}
	if doc.Status == constants.StatusProcessing || doc.IsDeleted() {
		return common.ErrConflict
	}
	now := time.Now().UTC()
	doc.Status = constants.StatusProcessing
	doc.ProcessingStartedAt = &now
	doc.ErrorMessage = nil
	return nil
}

func (r *fakeDocRepo) SetStatus(_ context.Context, id uuid.UUID, status constants.DocumentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return common.ErrNotFound
	}
	if !constants.CanTransition(doc.Status, status) {
		return fmt.Errorf("%w: document status %s does not transition to %s",
			common.ErrValidation, doc.Status, status)
	}
	doc.Status = status
	return nil
}

func (r *fakeDocRepo) MarkCompleted(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return common.ErrNotFound
	}
	now := time.Now().UTC()
	doc.Status = constants.StatusCompleted
	doc.ProcessingCompletedAt = &now
	doc.ErrorMessage = nil
	return nil
}

func (r *fakeDocRepo) MarkFailed(_ context.Context, id uuid.UUID, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return common.ErrNotFound
	}
	doc.Status = constants.StatusFailed
	doc.ErrorMessage = &message
	return nil
}

func (r *fakeDocRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return common.ErrNotFound
	}
	now := time.Now().UTC()
	doc.Status = constants.StatusDeleted
	doc.DeletedAt = &now
	return nil
}

type fakeContentRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*entity.DocumentContent
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{rows: map[uuid.UUID]*entity.DocumentContent{}}
}

func (r *fakeContentRepo) Create(_ context.Context, c *entity.DocumentContent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[c.DocumentID] = c
	return nil
}

func (r *fakeContentRepo) GetByDocument(_ context.Context, documentID uuid.UUID) (*entity.DocumentContent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[documentID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return c, nil
}

func (r *fakeContentRepo) DeleteByDocument(_ context.Context, documentID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, documentID)
	return nil
}

type fakeJobRepo struct {
	mu        sync.Mutex
	jobs      []*entity.ProcessingJob
	exhausted []uuid.UUID
}

func (r *fakeJobRepo) Create(_ context.Context, job *entity.ProcessingJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, job)
	return nil
}

func (r *fakeJobRepo) Update(context.Context, *entity.ProcessingJob) error { return nil }

func (r *fakeJobRepo) ListByDocument(_ context.Context, documentID uuid.UUID) ([]*entity.ProcessingJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ProcessingJob
	for _, j := range r.jobs {
		if j.DocumentID == documentID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) ListExhaustedDocuments(context.Context) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exhausted, nil
}

func (r *fakeJobRepo) DeleteByDocument(_ context.Context, documentID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*entity.ProcessingJob
	for _, j := range r.jobs {
		if j.DocumentID != documentID {
			kept = append(kept, j)
		}
	}
	r.jobs = kept
	return nil
}

type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	getErr  error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (s *fakeObjectStore) Get(_ context.Context, objectPath string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	data, ok := s.objects[objectPath]
	if !ok {
		return nil, common.ErrNotFound
	}
	return data, nil
}

func (s *fakeObjectStore) Put(_ context.Context, objectPath string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectPath] = data
	return nil
}

type fakePipelineMetadataRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*entity.DocumentMetadata
}

func newFakePipelineMetadataRepo() *fakePipelineMetadataRepo {
	return &fakePipelineMetadataRepo{rows: map[uuid.UUID]*entity.DocumentMetadata{}}
}

func (r *fakePipelineMetadataRepo) Create(_ context.Context, md *entity.DocumentMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[md.DocumentID] = md
	return nil
}

func (r *fakePipelineMetadataRepo) GetByDocument(_ context.Context, documentID uuid.UUID) (*entity.DocumentMetadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	md, ok := r.rows[documentID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return md, nil
}

func (r *fakePipelineMetadataRepo) DeleteByDocument(_ context.Context, documentID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, documentID)
	return nil
}

// docxBytes builds a minimal OOXML archive around the given text.
func docxBytes(t *testing.T, text string) []byte {
	t.Helper()
	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>`)
	body.WriteString(text)
	body.WriteString(`</w:t></w:r></w:p></w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write(body.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

type pipelineFixture struct {
	docs     *fakeDocRepo
	contents *fakeContentRepo
	jobs     *fakeJobRepo
	store    *fakeObjectStore
	meta     *fakePipelineMetadataRepo
	proc     *Processor
}

func newPipelineFixture(docs ...*entity.Document) *pipelineFixture {
	f := &pipelineFixture{
		docs:     newFakeDocRepo(docs...),
		contents: newFakeContentRepo(),
		jobs:     &fakeJobRepo{},
		store:    newFakeObjectStore(),
		meta:     newFakePipelineMetadataRepo(),
	}
	coordinator := metadata.NewCoordinator(f.meta, nil, metadata.NewRuleEngine(nil), nil)
	f.proc = NewProcessor(f.docs, f.contents, f.jobs, f.store, textract.New(nil), coordinator,
		Config{MaxRetries: 2, RetryDelay: time.Millisecond}, nil)
	return f
}

func uploadedDoc(filename, ext string) *entity.Document {
	return &entity.Document{
		ID:          uuid.New(),
		Filename:    filename,
		FileExt:     ext,
		StoragePath: "documents/" + filename,
		Status:      constants.StatusUploaded,
		UploadedAt:  time.Now().UTC(),
	}
}

func TestProcessorHappyPath(t *testing.T) {
	doc := uploadedDoc("nda.docx", "docx")
	f := newPipelineFixture(doc)
	f.store.objects[doc.StoragePath] = docxBytes(t,
		"This non-disclosure agreement is governed by the laws of Delaware. Confidentiality obligations apply.")

	require.NoError(t, f.proc.Process(context.Background(), doc.ID))

	assert.Equal(t, constants.StatusCompleted, doc.Status)
	assert.NotNil(t, doc.ProcessingCompletedAt)

	content, err := f.contents.GetByDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "go_docx", content.ExtractionMethod)
	assert.Contains(t, content.RawText, "non-disclosure agreement")

	md, err := f.meta.GetByDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MethodRuleBased, md.ExtractionMethod)
	require.NotNil(t, md.AgreementType)
	assert.Equal(t, "NDA", *md.AgreementType)

	jobs, err := f.jobs.ListByDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, constants.JobTypeTextExtraction, jobs[0].JobType)
	assert.Equal(t, constants.JobStatusCompleted, jobs[0].Status)
	assert.Equal(t, constants.JobTypeMetadataExtraction, jobs[1].JobType)
	assert.Equal(t, constants.JobStatusCompleted, jobs[1].Status)
}

func TestProcessorUnsupportedFormatFailsWithoutRetry(t *testing.T) {
	doc := uploadedDoc("notes.txt", "txt")
	f := newPipelineFixture(doc)
	f.store.objects[doc.StoragePath] = []byte("plain text")

	err := f.proc.Process(context.Background(), doc.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
	assert.NotErrorIs(t, err, common.ErrRetryExceeded)

	assert.Equal(t, constants.StatusFailed, doc.Status)
	require.NotNil(t, doc.ErrorMessage)

	jobs, _ := f.jobs.ListByDocument(context.Background(), doc.ID)
	require.Len(t, jobs, 1)
	assert.Equal(t, constants.JobStatusFailed, jobs[0].Status)
	assert.Equal(t, 0, jobs[0].RetryCount)
}

func TestProcessorRetriesTransientErrors(t *testing.T) {
	doc := uploadedDoc("nda.docx", "docx")
	f := newPipelineFixture(doc)
	f.store.getErr = errors.New("object store down")

	err := f.proc.Process(context.Background(), doc.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrRetryExceeded)

	assert.Equal(t, constants.StatusFailed, doc.Status)

	jobs, _ := f.jobs.ListByDocument(context.Background(), doc.ID)
	require.Len(t, jobs, 1)
	assert.Equal(t, constants.JobStatusFailed, jobs[0].Status)
	assert.Equal(t, 1, jobs[0].RetryCount)
}

func TestProcessorClaimConflict(t *testing.T) {
	doc := uploadedDoc("nda.docx", "docx")
	doc.Status = constants.StatusProcessing
	f := newPipelineFixture(doc)

	err := f.proc.Process(context.Background(), doc.ID)
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestProcessorUnknownDocument(t *testing.T) {
	f := newPipelineFixture()
	err := f.proc.Process(context.Background(), uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestProcessorReusesExistingContent(t *testing.T) {
	doc := uploadedDoc("nda.docx", "docx")
	f := newPipelineFixture(doc)
	// No blob in the store: the pre-existing content row must carry the stage.
	require.NoError(t, f.contents.Create(context.Background(), &entity.DocumentContent{
		DocumentID: doc.ID,
		RawText:    "This service agreement covers consulting engagements.",
	}))

	require.NoError(t, f.proc.Process(context.Background(), doc.ID))
	assert.Equal(t, constants.StatusCompleted, doc.Status)

	md, err := f.meta.GetByDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	require.NotNil(t, md.AgreementType)
	assert.Equal(t, "Service Agreement", *md.AgreementType)
}

func TestProcessorReprocessDiscardsArtifacts(t *testing.T) {
	doc := uploadedDoc("nda.docx", "docx")
	doc.Status = constants.StatusCompleted
	f := newPipelineFixture(doc)
	f.store.objects[doc.StoragePath] = docxBytes(t, "This tenancy agreement is for the premises.")

	require.NoError(t, f.contents.Create(context.Background(), &entity.DocumentContent{
		DocumentID: doc.ID,
		RawText:    "stale text from an earlier run",
	}))
	require.NoError(t, f.meta.Create(context.Background(), &entity.DocumentMetadata{
		DocumentID:       doc.ID,
		ExtractionMethod: entity.MethodAIPowered,
	}))

	require.NoError(t, f.proc.Reprocess(context.Background(), doc.ID))
	assert.Equal(t, constants.StatusCompleted, doc.Status)

	content, err := f.contents.GetByDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Contains(t, content.RawText, "tenancy agreement")

	md, err := f.meta.GetByDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MethodRuleBased, md.ExtractionMethod)
	require.NotNil(t, md.AgreementType)
	assert.Equal(t, "Tenancy Agreement", *md.AgreementType)
}

func TestCleanupFailed(t *testing.T) {
	stuck := uploadedDoc("stuck.pdf", "pdf")
	stuck.Status = constants.StatusExtractingText
	already := uploadedDoc("already.pdf", "pdf")
	already.Status = constants.StatusFailed
	gone := uploadedDoc("gone.pdf", "pdf")
	now := time.Now().UTC()
	gone.Status = constants.StatusDeleted
	gone.DeletedAt = &now

	f := newPipelineFixture(stuck, already, gone)
	f.jobs.exhausted = []uuid.UUID{stuck.ID, already.ID, gone.ID, uuid.New()}

	marked, err := f.proc.CleanupFailed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	assert.Equal(t, constants.StatusFailed, stuck.Status)
	require.NotNil(t, stuck.ErrorMessage)
	assert.Equal(t, "Max retries exceeded", *stuck.ErrorMessage)
	assert.Equal(t, constants.StatusDeleted, gone.Status)
}
