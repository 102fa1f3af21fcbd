package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	pdfcpu "github.com/pdfcpu/pdfcpu/pkg/api"
)

// parsePDF validates the document, extracts its plain text, and splits the
// text into chapters using heading heuristics.
func parsePDF(data []byte) (*Book, error) {
	rs := bytes.NewReader(data)

	if err := pdfcpu.Validate(rs, nil); err != nil {
		return nil, fmt.Errorf("invalid PDF: %w", err)
	}
	if _, err := rs.Seek(0, 0); err != nil {
		return nil, err
	}
	pageCount, err := pdfcpu.PageCount(rs, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}
	if pageCount == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(textReader); err != nil {
		return nil, fmt.Errorf("failed to read extracted text: %w", err)
	}

	text := buf.String()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("PDF contains no extractable text")
	}

	book := &Book{
		Title:    "Unknown Title",
		Chapters: splitIntoChapters(text),
	}
	if len(book.Chapters) == 0 {
		return nil, fmt.Errorf("no readable chapters found in PDF")
	}
	return book, nil
}
