// Package ingest extracts plain-text chapters from uploaded EPUB and PDF
// files. Parsed books live only in the in-memory library for the life of the
// process; nothing is persisted.
package ingest

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// Chapter is one extracted chapter: a display title plus plain-text content.
type Chapter struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Book is the result of parsing one uploaded file.
type Book struct {
	Title    string    `json:"title"`
	Chapters []Chapter `json:"chapters"`
}

// minChapterChars filters out navigation pages, copyright fragments, and
// other non-content documents.
const minChapterChars = 100

// Parse extracts a Book from raw file bytes, dispatching on the filename
// extension. Only .epub and .pdf are supported.
func Parse(data []byte, filename string, logger *slog.Logger) (*Book, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".epub":
		book, err := parseEPUB(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse EPUB: %w", err)
		}
		logger.Info("parsed EPUB", "title", book.Title, "chapters", len(book.Chapters))
		return book, nil
	case ".pdf":
		book, err := parsePDF(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PDF: %w", err)
		}
		if book.Title == "" || book.Title == "Unknown Title" {
			book.Title = deriveTitle(filename)
		}
		logger.Info("parsed PDF", "title", book.Title, "chapters", len(book.Chapters))
		return book, nil
	default:
		return nil, fmt.Errorf("unsupported file format: %s (only EPUB and PDF are supported)", filename)
	}
}

// deriveTitle turns an uploaded filename into a displayable book title.
func deriveTitle(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return strings.TrimSpace(base)
}
