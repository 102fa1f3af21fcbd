package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"sonomancer/internal/api"
	"sonomancer/internal/svcctx"
)

// ListBooksResponse is the response for listing books.
type ListBooksResponse struct {
	Books []Book `json:"books"`
}

// Book summarizes an uploaded book.
type Book struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Filename     string `json:"filename"`
	ChapterCount int    `json:"chapter_count"`
	UploadedAt   string `json:"uploaded_at"`
}

// ListBooksEndpoint handles GET /api/books.
type ListBooksEndpoint struct{}

var _ api.Endpoint = (*ListBooksEndpoint)(nil)

func (e *ListBooksEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/books", e.handler
}

func (e *ListBooksEndpoint) RequiresInit() bool { return true }

func (e *ListBooksEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.LibraryFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "library not initialized")
		return
	}

	books := make([]Book, 0)
	for _, entry := range store.List() {
		books = append(books, Book{
			ID:           entry.ID,
			Title:        entry.Title,
			Filename:     entry.Filename,
			ChapterCount: len(entry.Chapters),
			UploadedAt:   entry.UploadedAt.Format("2006-01-02T15:04:05Z"),
		})
	}

	writeJSON(w, http.StatusOK, ListBooksResponse{Books: books})
}

func (e *ListBooksEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List uploaded books",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ListBooksResponse
			if err := client.Get(cmd.Context(), "/api/books", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
