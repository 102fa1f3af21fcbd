// Package search talks to the video search collaborator. The agent only
// depends on the Service interface so tests can substitute deterministic
// stand-ins.
package search

import "context"

// Video is one search result under consideration for selection.
type Video struct {
	ID          string `json:"video_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Channel     string `json:"channel"`
}

// Service performs free-text video searches. Implementations may legitimately
// return an empty list; that is not an error.
type Service interface {
	// Search returns up to maxResults candidate videos for the query.
	Search(ctx context.Context, query string, maxResults int64) ([]Video, error)

	// Name returns the service identifier (e.g., "youtube").
	Name() string
}
