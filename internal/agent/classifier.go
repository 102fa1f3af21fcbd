package agent

import (
	"context"
	"fmt"

	"sonomancer/internal/providers"
)

const (
	classifyMaxTokens   = 150
	classifyTemperature = 0.7
)

// classifyPrompt asks for an open-ended atmosphere description plus a search
// query. Structured-only output is requested; the parser copes when the model
// ignores that.
const classifyPrompt = `Analyze the following excerpts from a book chapter and imagine the ambient background sound that would best accompany reading it.

Respond with ONLY a JSON object, no markdown fences and no surrounding text, with exactly these fields:
{"atmosphere": "short description of the chapter's atmosphere", "search_terms": "search query for ambient (non-musical) background sound", "reasoning": "one sentence on why this sound enhances the chapter"}

Text excerpts:
%s`

// classify turns an excerpt bundle into an Analysis via one model call.
// Transport failures propagate; malformed output is recovered by the parser.
func (a *Agent) classify(ctx context.Context, excerpts string) (Analysis, error) {
	result, err := a.llm.Chat(ctx, &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "user", Content: fmt.Sprintf(classifyPrompt, excerpts)},
		},
		MaxTokens:   classifyMaxTokens,
		Temperature: classifyTemperature,
	})
	if err != nil {
		return Analysis{}, fmt.Errorf("atmosphere classification failed: %w", err)
	}

	analysis := ParseAnalysis(result.Content)
	a.logger.Info("classified chapter atmosphere",
		"atmosphere", analysis.Atmosphere,
		"search_terms", analysis.SearchTerms,
		"tokens", result.TotalTokens,
	)
	return analysis, nil
}
