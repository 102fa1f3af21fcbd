package agent

import "sonomancer/internal/search"

// AmbienceResult is the externally visible outcome of one chapter analysis.
type AmbienceResult struct {
	Mood        string `json:"mood"`
	YouTubeID   string `json:"youtube_id"`
	VideoTitle  string `json:"video_title"`
	Explanation string `json:"explanation"`
}

// ScoredSelection pairs the chosen video with the score that won it.
// The score is diagnostic only; it never leaves the agent.
type ScoredSelection struct {
	Video search.Video
	Score int
}
