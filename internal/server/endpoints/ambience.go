package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"sonomancer/internal/agent"
	"sonomancer/internal/api"
	"sonomancer/internal/library"
	"sonomancer/internal/svcctx"
)

// AmbienceEndpoint handles GET /api/books/{id}/chapters/{index}/ambience.
// It runs the full analysis pipeline for one chapter and returns the
// selected soundscape.
type AmbienceEndpoint struct{}

var _ api.Endpoint = (*AmbienceEndpoint)(nil)

func (e *AmbienceEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/books/{id}/chapters/{index}/ambience", e.handler
}

func (e *AmbienceEndpoint) RequiresInit() bool { return true }

func (e *AmbienceEndpoint) handler(w http.ResponseWriter, r *http.Request) {
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
	registry := svcctx.RegistryFrom(r.Context())
	searchSvc := svcctx.SearchFrom(r.Context())
	logger := svcctx.LoggerFrom(r.Context())
	if store == nil || registry == nil || searchSvc == nil {
		writeError(w, http.StatusServiceUnavailable, "server not fully initialized")
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

	agentCfg := agent.Config{Logger: logger}
	llmName := ""
	if cm := svcctx.ConfigManagerFrom(r.Context()); cm != nil {
		cfg := cm.Get()
		llmName = cfg.Defaults.LLMProvider
		agentCfg.ExcerptCount = cfg.Agent.ExcerptCount
		agentCfg.ExcerptChars = cfg.Agent.ExcerptChars
		agentCfg.MaxResults = int64(cfg.Agent.MaxResults)
	}

	llm, err := registry.GetLLM(llmName)
	if err != nil {
		// Fall back to any registered provider
		names := registry.ListLLM()
		if len(names) == 0 {
			writeError(w, http.StatusServiceUnavailable, "no LLM provider configured")
			return
		}
		llm, err = registry.GetLLM(names[0])
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
	}

	result, err := agent.New(llm, searchSvc, agentCfg).AnalyzeChapterAmbience(r.Context(), chapter.Content)
	if err != nil {
		var stageErr *agent.StageError
		if errors.As(err, &stageErr) {
			writeError(w, http.StatusBadGateway, fmt.Sprintf("ambience analysis failed at %s: %v", stageErr.Stage, stageErr.Err))
			return
		}
		writeError(w, http.StatusBadGateway, fmt.Sprintf("ambience analysis failed: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (e *AmbienceEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "ambience <book-id> <index>",
		Short: "Find an ambient soundscape for a chapter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp agent.AmbienceResult
			path := fmt.Sprintf("/api/books/%s/chapters/%s/ambience", args[0], args[1])
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
