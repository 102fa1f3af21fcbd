// Package library is the in-memory session store for parsed books. Books
// live for the life of the process only; there is no persistence layer.
package library

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"sonomancer/internal/ingest"
)

var (
	// ErrBookNotFound is returned for unknown book IDs.
	ErrBookNotFound = errors.New("book not found")
	// ErrChapterNotFound is returned for out-of-range chapter indices.
	ErrChapterNotFound = errors.New("chapter not found")
)

// Entry is one stored book with its upload metadata.
type Entry struct {
	ID         string
	Filename   string
	Title      string
	Chapters   []ingest.Chapter
	UploadedAt time.Time
}

// Store holds parsed books keyed by generated ID. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	books map[string]*Entry
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{books: make(map[string]*Entry)}
}

// Add stores a parsed book and returns its generated ID.
func (s *Store) Add(book *ingest.Book, filename string) string {
	id := uuid.New().String()

	title := book.Title
	if title == "" {
		title = filename
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.books[id] = &Entry{
		ID:         id,
		Filename:   filename,
		Title:      title,
		Chapters:   book.Chapters,
		UploadedAt: time.Now().UTC(),
	}
	return id
}

// Get returns a stored book by ID.
func (s *Store) Get(id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.books[id]
	if !ok {
		return nil, ErrBookNotFound
	}
	return entry, nil
}

// Chapter returns one chapter of a stored book by index.
func (s *Store) Chapter(id string, index int) (ingest.Chapter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.books[id]
	if !ok {
		return ingest.Chapter{}, ErrBookNotFound
	}
	if index < 0 || index >= len(entry.Chapters) {
		return ingest.Chapter{}, ErrChapterNotFound
	}
	return entry.Chapters[index], nil
}

// List returns all stored books ordered by upload time.
func (s *Store) List() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]*Entry, 0, len(s.books))
	for _, e := range s.books {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].UploadedAt.Before(entries[j].UploadedAt)
	})
	return entries
}

// Len returns the number of stored books.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books)
}
