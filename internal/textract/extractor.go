// Package textract converts stored document bytes into plain text.
package textract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/legalintel/legal-intel/constants"
	"github.com/legalintel/legal-intel/internal/common"
)

// Result is the outcome of a successful text extraction.
type Result struct {
	Text           string
	WordCount      int
	CharacterCount int
	Method         string
	Confidence     float64
	Language       string
}

// Confidence assigned to deterministic (non-OCR) extraction.
const baseConfidence = 0.8

// Extractor dispatches on file extension to a format-specific reader.
type Extractor struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{log: log}
}

// Extract pulls the text out of raw document bytes. The extension decides
// the reader: pdf, or docx/doc (both read as OOXML archives).
func (e *Extractor) Extract(data []byte, ext string) (*Result, error) {
	ext = constants.NormalizeExt(ext)
	if !constants.IsSupportedExt(ext) {
		return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, ext)
	}

	var (
		text string
		err  error
	)
	switch ext {
	case "pdf":
		text, err = extractPDF(data)
	case "docx", "doc":
		text, err = extractDocx(data)
	}
	if err != nil {
		e.log.Error("text extraction failed", "ext", ext, "err", err)
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, common.ErrEmptyContent
	}

	res := &Result{
		Text:           text,
		WordCount:      len(strings.Fields(text)),
		CharacterCount: len(text),
		Method:         "go_" + ext,
		Confidence:     baseConfidence,
		Language:       "en",
	}
	e.log.Info("text extracted", "ext", ext, "words", res.WordCount, "chars", res.CharacterCount)
	return res, nil
}
