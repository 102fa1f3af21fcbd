package agent

import (
	"log/slog"
	"math/rand"
	"strings"
	"time"
)

const (
	// DefaultExcerptCount is how many excerpts are sampled per chapter.
	DefaultExcerptCount = 3
	// DefaultExcerptChars caps each excerpt's length.
	DefaultExcerptChars = 200

	sentenceDelimiter = ". "
	excerptSeparator  = "\n\n---\n\n"
)

// Sampler draws bounded representative excerpts from a chapter so the
// classifier prompt stays constant-size regardless of chapter length.
type Sampler struct {
	excerpts     int
	excerptChars int
	rng          *rand.Rand
	logger       *slog.Logger
}

// NewSampler creates a sampler. rng may be nil, in which case a time-seeded
// source is used; tests pass a fixed seed for reproducibility.
func NewSampler(excerpts, excerptChars int, rng *rand.Rand, logger *slog.Logger) *Sampler {
	if excerpts <= 0 {
		excerpts = DefaultExcerptCount
	}
	if excerptChars <= 0 {
		excerptChars = DefaultExcerptChars
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sampler{
		excerpts:     excerpts,
		excerptChars: excerptChars,
		rng:          rng,
		logger:       logger,
	}
}

// Sample returns a bounded excerpt bundle for the chapter text.
//
// Chapters with fewer pseudo-sentences than the excerpt count take the
// degenerate path: a verbatim prefix of the raw text. Otherwise each excerpt
// is a 3-sentence window starting at a random sentence index.
func (s *Sampler) Sample(text string) string {
	sentences := strings.Split(text, sentenceDelimiter)
	s.logger.Debug("sampling excerpts", "chapter_chars", len(text), "sentences", len(sentences))

	if len(sentences) < s.excerpts {
		limit := s.excerptChars * s.excerpts
		if limit > len(text) {
			limit = len(text)
		}
		s.logger.Debug("chapter too short, using raw prefix", "chars", limit)
		return text[:limit]
	}

	// randint(0, max(0, S-5)) inclusive: short chapters degenerate to
	// always starting at index 0, which may repeat excerpts. Fine.
	upper := len(sentences) - 5
	if upper < 0 {
		upper = 0
	}

	excerpts := make([]string, 0, s.excerpts)
	for i := 0; i < s.excerpts; i++ {
		start := s.rng.Intn(upper + 1)
		end := start + 3
		if end > len(sentences) {
			end = len(sentences)
		}
		excerpt := strings.Join(sentences[start:end], sentenceDelimiter)
		if len(excerpt) > s.excerptChars {
			excerpt = excerpt[:s.excerptChars]
		}
		excerpts = append(excerpts, excerpt)
		s.logger.Debug("sampled excerpt", "index", i, "start_sentence", start, "chars", len(excerpt))
	}

	return strings.Join(excerpts, excerptSeparator)
}
