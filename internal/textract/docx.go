package textract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/legalintel/legal-intel/internal/common"
)

// extractDocx reads the OOXML main document part and joins paragraph text
// with newlines. Legacy .doc files that are not zip archives fail here and
// surface as an extraction error.
func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", common.WrapError(err, "open docx archive")
	}

	var docPart *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docPart = f
			break
		}
	}
	if docPart == nil {
		return "", common.WrapError(common.ErrEmptyContent, "docx missing word/document.xml")
	}

	rc, err := docPart.Open()
	if err != nil {
		return "", common.WrapError(err, "open document part")
	}
	defer rc.Close()

	return paragraphText(rc)
}

// paragraphText walks the document XML collecting run text (w:t) and
// emitting a newline at each paragraph boundary (w:p).
func paragraphText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", common.WrapError(err, "parse document xml")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
