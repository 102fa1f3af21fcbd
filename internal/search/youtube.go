package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	retry "github.com/avast/retry-go/v4"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const YouTubeName = "youtube"

// ambienceQualifier biases results toward ambient/atmosphere content rather
// than whatever the raw search terms would surface.
const ambienceQualifier = " ambience"

// YouTubeConfig holds configuration for the YouTube search client.
type YouTubeConfig struct {
	APIKey     string
	MaxRetries uint          // Transport retry attempts (default: 3)
	RetryDelay time.Duration // Base delay between retries (default: 500ms)
	Logger     *slog.Logger
}

// YouTubeClient implements Service using the YouTube Data API v3.
// Only long-form, embeddable videos are requested: ambience videos are
// typically hours long, and the reader embeds the player.
type YouTubeClient struct {
	service    *youtube.Service
	maxRetries uint
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewYouTubeClient creates a YouTube search client using API-key auth.
func NewYouTubeClient(ctx context.Context, cfg YouTubeConfig) (*YouTubeClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("youtube api key is required")
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	service, err := youtube.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &YouTubeClient{
		service:    service,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger,
	}, nil
}

// Name returns the service identifier.
func (c *YouTubeClient) Name() string {
	return YouTubeName
}

// Search queries YouTube for ambience videos matching the query.
func (c *YouTubeClient) Search(ctx context.Context, query string, maxResults int64) ([]Video, error) {
	q := BuildQuery(query)

	var resp *youtube.SearchListResponse
	err := retry.Do(
		func() error {
			call := c.service.Search.List([]string{"snippet"}).
				Q(q).
				Type("video").
				VideoDuration("long").
				VideoEmbeddable("true").
				MaxResults(maxResults)

			var callErr error
			resp, callErr = call.Context(ctx).Do()
			return callErr
		},
		retry.Context(ctx),
		retry.Attempts(c.maxRetries),
		retry.Delay(c.retryDelay),
		retry.RetryIf(isTransient),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("youtube search failed: %w", err)
	}

	videos := make([]Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		videos = append(videos, Video{
			ID:          item.Id.VideoId,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			Channel:     item.Snippet.ChannelTitle,
		})
	}

	c.logger.Debug("youtube search complete", "query", q, "results", len(videos))
	return videos, nil
}

// BuildQuery appends the ambience qualifier to a raw search-terms string.
func BuildQuery(terms string) string {
	return terms + ambienceQualifier
}

// isTransient reports whether a search error is worth retrying at the
// transport level (rate limiting, server-side failures).
func isTransient(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code >= 500
	}
	// Non-API errors are network-level; retry those too.
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Verify interface
var _ Service = (*YouTubeClient)(nil)
