// Package agent infers a chapter's ambient atmosphere and selects a matching
// background soundscape video. One call to AnalyzeChapterAmbience runs the
// whole pipeline: sample excerpts, classify atmosphere, search for
// candidates, rank, explain.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"sonomancer/internal/providers"
	"sonomancer/internal/search"
)

const (
	// DefaultMaxResults bounds the candidate list requested per search.
	DefaultMaxResults = 5

	// fallbackQuery is tried once when the creative query returns nothing.
	fallbackQuery = "calm ambient background sounds for reading"
)

// Pipeline stages, used to identify where a failed analysis gave up.
const (
	StageClassify = "classify"
	StageSearch   = "search"
	StageRank     = "rank"
)

// StageError wraps a pipeline failure with the stage that produced it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Config holds agent tuning knobs.
type Config struct {
	ExcerptCount int   // excerpts sampled per chapter (default 3)
	ExcerptChars int   // character cap per excerpt (default 200)
	MaxResults   int64 // search result cap (default 5)
	RandSeed     int64 // non-zero for reproducible sampling (tests)
	Logger       *slog.Logger
}

// Agent coordinates one chapter-ambience analysis at a time. It holds no
// cross-request state, so a single Agent is safe for concurrent analyses.
type Agent struct {
	llm        providers.LLMClient
	search     search.Service
	sampler    *Sampler
	maxResults int64
	logger     *slog.Logger
}

// New creates an agent over the given model and search collaborators.
func New(llm providers.LLMClient, searchSvc search.Service, cfg Config) *Agent {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	var rng *rand.Rand
	if cfg.RandSeed != 0 {
		rng = rand.New(rand.NewSource(cfg.RandSeed))
	}

	return &Agent{
		llm:        llm,
		search:     searchSvc,
		sampler:    NewSampler(cfg.ExcerptCount, cfg.ExcerptChars, rng, cfg.Logger),
		maxResults: cfg.MaxResults,
		logger:     cfg.Logger,
	}
}

// AnalyzeChapterAmbience runs the full pipeline for one chapter's plain text.
// It returns a complete AmbienceResult or a StageError naming the stage that
// failed.
func (a *Agent) AnalyzeChapterAmbience(ctx context.Context, chapterText string) (*AmbienceResult, error) {
	excerpts := a.sampler.Sample(chapterText)

	analysis, err := a.classify(ctx, excerpts)
	if err != nil {
		return nil, &StageError{Stage: StageClassify, Err: err}
	}

	videos, err := a.searchCandidates(ctx, analysis)
	if err != nil {
		return nil, &StageError{Stage: StageSearch, Err: err}
	}

	selection, err := SelectBestVideo(videos, analysis)
	if err != nil {
		return nil, &StageError{Stage: StageRank, Err: err}
	}
	a.logger.Info("selected video",
		"video_id", selection.Video.ID,
		"title", selection.Video.Title,
		"score", selection.Score,
	)

	explanation := a.explain(ctx, analysis, selection.Video)

	return &AmbienceResult{
		Mood:        analysis.Atmosphere,
		YouTubeID:   selection.Video.ID,
		VideoTitle:  selection.Video.Title,
		Explanation: explanation,
	}, nil
}

// searchCandidates runs the primary query and, if it comes back empty, the
// generic fallback query exactly once. Transport errors propagate without
// retry; an empty list after the fallback is returned as-is and fails at the
// rank stage.
func (a *Agent) searchCandidates(ctx context.Context, analysis Analysis) ([]search.Video, error) {
	videos, err := a.search.Search(ctx, analysis.SearchTerms, a.maxResults)
	if err != nil {
		return nil, err
	}
	if len(videos) > 0 {
		return videos, nil
	}

	a.logger.Warn("primary search returned no candidates, trying fallback",
		"query", analysis.SearchTerms,
	)
	return a.search.Search(ctx, fallbackQuery, a.maxResults)
}
