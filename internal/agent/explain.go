package agent

import (
	"context"
	"fmt"
	"strings"

	"sonomancer/internal/providers"
	"sonomancer/internal/search"
)

const (
	explainMaxTokens   = 60
	explainTemperature = 0.4
)

const explainPrompt = `Explain in ONE sentence why the video %q was chosen as background sound for a book chapter with this atmosphere: %q.

Keep it concise and focus on how the video's soundscape matches the chapter's emotional tone.

Video title: %s
Video description: %s`

// explain produces a one-sentence justification for the selection. Any
// failure of the model call is recovered with a deterministic fallback
// sentence; this never errors past its own boundary.
func (a *Agent) explain(ctx context.Context, analysis Analysis, video search.Video) string {
	desc := video.Description
	if desc == "" {
		desc = "No description available"
	}
	if len(desc) > 100 {
		desc = desc[:100]
	}

	result, err := a.llm.Chat(ctx, &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "user", Content: fmt.Sprintf(explainPrompt, video.Title, analysis.Atmosphere, video.Title, desc)},
		},
		MaxTokens:   explainMaxTokens,
		Temperature: explainTemperature,
	})
	if err != nil {
		a.logger.Warn("explanation call failed, using fallback", "error", err)
		return FallbackExplanation(analysis.Atmosphere)
	}

	explanation := strings.TrimSpace(result.Content)
	if explanation == "" {
		return FallbackExplanation(analysis.Atmosphere)
	}
	return explanation
}

// FallbackExplanation is the deterministic sentence used when explanation
// generation fails.
func FallbackExplanation(atmosphere string) string {
	return fmt.Sprintf("Selected for its %s atmosphere that matches the chapter's emotional tone.", atmosphere)
}
