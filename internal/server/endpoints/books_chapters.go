package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"sonomancer/internal/api"
	"sonomancer/internal/library"
	"sonomancer/internal/svcctx"
)

// ChapterSummary describes one chapter without its full text.
type ChapterSummary struct {
	Index     int    `json:"index"`
	Title     string `json:"title"`
	WordCount int    `json:"word_count"`
}

// ChaptersResponse is the response for the chapters endpoint.
type ChaptersResponse struct {
	BookID    string           `json:"book_id"`
	BookTitle string           `json:"book_title"`
	Chapters  []ChapterSummary `json:"chapters"`
}

// ListChaptersEndpoint handles GET /api/books/{id}/chapters.
type ListChaptersEndpoint struct{}

var _ api.Endpoint = (*ListChaptersEndpoint)(nil)

func (e *ListChaptersEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/books/{id}/chapters", e.handler
}

func (e *ListChaptersEndpoint) RequiresInit() bool { return true }

func (e *ListChaptersEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("id")
	if bookID == "" {
		writeError(w, http.StatusBadRequest, "book id is required")
		return
	}

	store := svcctx.LibraryFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "library not initialized")
		return
	}

	entry, err := store.Get(bookID)
	if err != nil {
		if errors.Is(err, library.ErrBookNotFound) {
			writeError(w, http.StatusNotFound, "book not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	chapters := make([]ChapterSummary, 0, len(entry.Chapters))
	for i, ch := range entry.Chapters {
		chapters = append(chapters, ChapterSummary{
			Index:     i,
			Title:     ch.Title,
			WordCount: len(strings.Fields(ch.Content)),
		})
	}

	writeJSON(w, http.StatusOK, ChaptersResponse{
		BookID:    entry.ID,
		BookTitle: entry.Title,
		Chapters:  chapters,
	})
}

func (e *ListChaptersEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "chapters <book-id>",
		Short: "List chapters of an uploaded book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ChaptersResponse
			path := fmt.Sprintf("/api/books/%s/chapters", args[0])
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
