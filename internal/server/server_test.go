package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sonomancer/internal/agent"
	"sonomancer/internal/config"
	"sonomancer/internal/ingest"
	"sonomancer/internal/providers"
	"sonomancer/internal/search"
	"sonomancer/internal/server/endpoints"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, searchSvc search.Service) *Server {
	t.Helper()
	if searchSvc == nil {
		searchSvc = &search.MockService{}
	}
	s, err := New(Config{
		Search: searchSvc,
		Logger: testLogger(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func addTestBook(s *Server, chapters ...string) string {
	book := &ingest.Book{Title: "Test Book"}
	for i, content := range chapters {
		book.Chapters = append(book.Chapters, ingest.Chapter{
			Title:   "Chapter " + string(rune('1'+i)),
			Content: content,
		})
	}
	return s.Library().Add(book, "test.epub")
}

func doRequest(s *Server, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(s, "GET", "/health", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp endpoints.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" {
		t.Fatalf("expected ok, got %q", resp.Status)
	}
}

func TestReadyEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	// No LLM provider registered yet
	rec := doRequest(s, "GET", "/ready", nil, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before providers registered, got %d", rec.Code)
	}

	s.Registry().RegisterLLM("mock", &providers.MockClient{})
	rec = doRequest(s, "GET", "/ready", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after provider registered, got %d", rec.Code)
	}
}

func TestUploadRejectsUnsupportedFormat(t *testing.T) {
	s := newTestServer(t, nil)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write([]byte("plain text"))
	writer.Close()

	rec := doRequest(s, "POST", "/api/books/upload", &buf, writer.FormDataContentType())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUploadRequiresFile(t *testing.T) {
	s := newTestServer(t, nil)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.WriteField("name", "no file here")
	writer.Close()

	rec := doRequest(s, "POST", "/api/books/upload", &buf, writer.FormDataContentType())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListBooksAndChapters(t *testing.T) {
	s := newTestServer(t, nil)
	id := addTestBook(s, "First chapter text.", "Second chapter text.")

	rec := doRequest(s, "GET", "/api/books", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list books: expected 200, got %d", rec.Code)
	}
	var list endpoints.ListBooksResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Books) != 1 || list.Books[0].ChapterCount != 2 {
		t.Fatalf("unexpected book list: %+v", list.Books)
	}

	rec = doRequest(s, "GET", "/api/books/"+id+"/chapters", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list chapters: expected 200, got %d", rec.Code)
	}
	var chapters endpoints.ChaptersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &chapters); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(chapters.Chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(chapters.Chapters))
	}

	rec = doRequest(s, "GET", "/api/books/"+id+"/chapters/1", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get chapter: expected 200, got %d", rec.Code)
	}
	var chapter endpoints.ChapterResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &chapter); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(chapter.Content, "Second chapter") {
		t.Fatalf("unexpected chapter content: %q", chapter.Content)
	}
}

func TestChapterNotFound(t *testing.T) {
	s := newTestServer(t, nil)
	id := addTestBook(s, "Only chapter.")

	rec := doRequest(s, "GET", "/api/books/"+id+"/chapters/5", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for bad index, got %d", rec.Code)
	}

	rec = doRequest(s, "GET", "/api/books/missing/chapters", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown book, got %d", rec.Code)
	}
}

func TestAmbienceEndpoint(t *testing.T) {
	mockSearch := &search.MockService{
		Results: [][]search.Video{{
			{ID: "abc123", Title: "Rainy Night Ambience 10 Hours", Description: "rain sounds for sleep"},
		}},
	}
	s := newTestServer(t, mockSearch)
	s.Registry().RegisterLLM("mock", &providers.MockClient{
		ResponseText: `{"atmosphere": "dark and stormy", "search_terms": "rain thunderstorm night", "reasoning": "storm imagery"}`,
	})

	id := addTestBook(s, "Rain hammered the windows. Thunder rolled across the moor. The candle guttered.")

	rec := doRequest(s, "GET", "/api/books/"+id+"/chapters/0/ambience", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result agent.AmbienceResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.YouTubeID != "abc123" {
		t.Fatalf("expected video abc123, got %q", result.YouTubeID)
	}
	if result.Mood != "dark and stormy" {
		t.Fatalf("unexpected mood %q", result.Mood)
	}
}

func TestAmbienceUsesConfiguredMaxResults(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfgYAML := "agent:\n  max_results: 1\ndefaults:\n  llm_provider: mock\n"
	if err := os.WriteFile(cfgPath, []byte(cfgYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cm, err := config.NewManager(cfgPath)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	// The second result would outrank the first, but the configured cap
	// of 1 keeps it out of the candidate list.
	mockSearch := &search.MockService{
		Results: [][]search.Video{{
			{ID: "first1", Title: "City Street Sounds", Description: "recorded downtown"},
			{ID: "second", Title: "Gentle Rain Ambient 8 Hours", Description: "calm rain"},
		}},
	}
	s, err := New(Config{
		Search:        mockSearch,
		ConfigManager: cm,
		Logger:        testLogger(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Registry().RegisterLLM("mock", &providers.MockClient{
		ResponseText: `{"atmosphere": "urban", "search_terms": "city street night", "reasoning": "street scene"}`,
	})

	id := addTestBook(s, "Taxis hissed over the wet asphalt. Neon bled into the puddles.")

	rec := doRequest(s, "GET", "/api/books/"+id+"/chapters/0/ambience", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result agent.AmbienceResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.YouTubeID != "first1" {
		t.Fatalf("expected capped candidate list to pick first1, got %q", result.YouTubeID)
	}
}

func TestAmbienceSearchFailureReturns502(t *testing.T) {
	s := newTestServer(t, &search.MockService{ShouldFail: true})
	s.Registry().RegisterLLM("mock", &providers.MockClient{
		ResponseText: `{"atmosphere": "calm", "search_terms": "calm river", "reasoning": "r"}`,
	})

	id := addTestBook(s, "A quiet river wound through the valley. Birds sang in the willows.")

	rec := doRequest(s, "GET", "/api/books/"+id+"/chapters/0/ambience", nil, "")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAmbienceNoLLMProvider(t *testing.T) {
	s := newTestServer(t, nil)
	id := addTestBook(s, "Some chapter text here.")

	rec := doRequest(s, "GET", "/api/books/"+id+"/chapters/0/ambience", nil, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	s, err := New(Config{
		Search:      &search.MockService{},
		FrontendURL: "http://localhost:3000",
		Logger:      testLogger(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := doRequest(s, "OPTIONS", "/api/books", nil, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected CORS origin %q", got)
	}

	rec = doRequest(s, "GET", "/health", nil, "")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected CORS header on normal request, got %q", got)
	}
}
