package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/legalintel/legal-intel/constants"
)

// Document represents a stored legal document for data transfer between layers.
type Document struct {
	ID                    uuid.UUID                `json:"id"`
	Filename              string                   `json:"filename"`
	FileExt               string                   `json:"file_ext"`
	FileSize              int64                    `json:"file_size"`
	ContentType           string                   `json:"content_type"`
	StoragePath           string                   `json:"storage_path"`
	Status                constants.DocumentStatus `json:"status"`
	ErrorMessage          *string                  `json:"error_message,omitempty"`
	UploadedAt            time.Time                `json:"uploaded_at"`
	ProcessingStartedAt   *time.Time               `json:"processing_started_at,omitempty"`
	ProcessingCompletedAt *time.Time               `json:"processing_completed_at,omitempty"`
	DeletedAt             *time.Time               `json:"deleted_at,omitempty"`
}

// IsDeleted reports whether the document has been soft deleted.
func (d *Document) IsDeleted() bool {
	return d.DeletedAt != nil || d.Status == constants.StatusDeleted
}
