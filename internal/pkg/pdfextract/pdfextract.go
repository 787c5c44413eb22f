package pdfextract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

var ErrEmptyFile = errors.New("pdf file is empty")

// Document is the plain text of a PDF along with its page count.
type Document struct {
	Text  string
	Pages int
}

// ExtractText reads the entire content of r and extracts plain text page by page.
// Pages without extractable text are skipped; Text is empty when none have any.
func ExtractText(r io.Reader) (*Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf failed: %w", err)
	}
	if len(b) == 0 {
		return nil, ErrEmptyFile
	}
	pdfReader, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("open pdf failed: %w", err)
	}

	numPages := pdfReader.NumPage()
	var buf strings.Builder
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d failed: %w", i, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(text)
	}
	return &Document{Text: buf.String(), Pages: numPages}, nil
}
