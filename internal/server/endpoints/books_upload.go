package endpoints

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"sonomancer/internal/api"
	"sonomancer/internal/ingest"
	"sonomancer/internal/svcctx"
)

// UploadResponse is returned after a successful book upload.
type UploadResponse struct {
	BookID       string `json:"book_id"`
	Title        string `json:"title"`
	ChapterCount int    `json:"chapter_count"`
}

// UploadBookEndpoint handles POST /api/books/upload with multipart file upload.
type UploadBookEndpoint struct{}

var _ api.Endpoint = (*UploadBookEndpoint)(nil)

func (e *UploadBookEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/books/upload", e.handler
}

func (e *UploadBookEndpoint) RequiresInit() bool { return true }

func (e *UploadBookEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	// 50MB max memory for the multipart form
	const maxMemory = 50 << 20
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	name := strings.ToLower(header.Filename)
	if !strings.HasSuffix(name, ".epub") && !strings.HasSuffix(name, ".pdf") {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("file %s is not an EPUB or PDF", header.Filename))
		return
	}

	store := svcctx.LibraryFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "library not initialized")
		return
	}
	logger := svcctx.LoggerFrom(r.Context())

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read upload: %v", err))
		return
	}

	book, err := ingest.Parse(data, header.Filename, logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse book: %v", err))
		return
	}
	if len(book.Chapters) == 0 {
		writeError(w, http.StatusBadRequest, "no readable chapters found")
		return
	}

	id := store.Add(book, header.Filename)
	if logger != nil {
		logger.Info("book uploaded",
			"book_id", id,
			"filename", header.Filename,
			"chapters", len(book.Chapters))
	}

	entry, err := store.Get(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		BookID:       id,
		Title:        entry.Title,
		ChapterCount: len(entry.Chapters),
	})
}

func (e *UploadBookEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an EPUB or PDF book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp UploadResponse
			if err := client.PostFile(cmd.Context(), "/api/books/upload", "file", args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
