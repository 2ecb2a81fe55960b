package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentContent holds the extracted text for a document.
type DocumentContent struct {
	ID               uuid.UUID `json:"id"`
	DocumentID       uuid.UUID `json:"document_id"`
	RawText          string    `json:"raw_text"`
	WordCount        int       `json:"word_count"`
	CharacterCount   int       `json:"character_count"`
	ExtractionMethod string    `json:"extraction_method"`
	Confidence       float64   `json:"confidence"`
	Language         string    `json:"language"`
	ExtractedAt      time.Time `json:"extracted_at"`
}
