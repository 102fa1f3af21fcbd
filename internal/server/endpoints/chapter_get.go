package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"sonomancer/internal/api"
	"sonomancer/internal/library"
	"sonomancer/internal/svcctx"
)

// ChapterResponse is a single chapter with its full text.
type ChapterResponse struct {
	BookID  string `json:"book_id"`
	Index   int    `json:"index"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// GetChapterEndpoint handles GET /api/books/{id}/chapters/{index}.
type GetChapterEndpoint struct{}

var _ api.Endpoint = (*GetChapterEndpoint)(nil)

func (e *GetChapterEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/books/{id}/chapters/{index}", e.handler
}

func (e *GetChapterEndpoint) RequiresInit() bool { return true }

func (e *GetChapterEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("id")
	if bookID == "" {
		writeError(w, http.StatusBadRequest, "book id is required")
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "chapter index must be an integer")
		return
	}

	store := svcctx.LibraryFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "library not initialized")
		return
	}

	chapter, err := store.Chapter(bookID, index)
	if err != nil {
		switch {
		case errors.Is(err, library.ErrBookNotFound):
			writeError(w, http.StatusNotFound, "book not found")
		case errors.Is(err, library.ErrChapterNotFound):
			writeError(w, http.StatusNotFound, "chapter not found")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, ChapterResponse{
		BookID:  bookID,
		Index:   index,
		Title:   chapter.Title,
		Content: chapter.Content,
	})
}

func (e *GetChapterEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "chapter <book-id> <index>",
		Short: "Get one chapter with its full text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ChapterResponse
			path := fmt.Sprintf("/api/books/%s/chapters/%s", args[0], args[1])
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
