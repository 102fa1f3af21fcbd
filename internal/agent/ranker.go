package agent

import (
	"errors"
	"strings"

	"sonomancer/internal/search"
)

// ErrNoCandidates is returned when selection is attempted over an empty
// candidate list. An all-zero or all-negative scoring list is NOT an error;
// the first candidate wins in that case.
var ErrNoCandidates = errors.New("no video candidates to select from")

// Scoring vocabularies. Read-only process-wide tables; matching is
// case-insensitive substring over title + description.
var (
	// ambientWords strongly indicate ambient/soundscape content.
	ambientWords = []string{
		"ambience", "ambient", "soundscape", "atmosphere", "background",
		"nature", "rain", "forest", "ocean", "waves", "wind", "fire",
		"crackling", "peaceful", "calm", "quiet", "gentle", "soft",
		"relaxing", "meditation", "study", "reading", "library", "coffee",
		"cafe", "fireplace", "thunder", "birds", "water",
	}

	// musicWords indicate musical content, which competes with the text
	// being read instead of sitting behind it.
	musicWords = []string{
		"music", "song", "melody", "beat", "rhythm", "bass", "drums",
		"guitar", "piano", "vocal", "lyrics", "album", "track", "playlist",
		"remix", "mix", "dj", "electronic", "synthwave",
	}

	// calmWords are mild descriptors worth a small bonus on top of any
	// ambient match for the same word.
	calmWords = []string{"gentle", "soft", "peaceful", "calm", "quiet", "subtle"}

	// avoidWords indicate content too aggressive for background listening.
	avoidWords = []string{"loud", "intense", "epic", "powerful", "heavy", "metal"}
)

const (
	ambientPoints  = 3
	musicPenalty   = 2
	longFormPoints = 2
	calmPoints     = 2
	avoidPenalty   = 3
)

// SelectBestVideo deterministically picks one candidate for the analysis.
//
// The running best starts as the first candidate with score 0; a later
// candidate must strictly exceed the running best to replace it. Ties and
// all-negative lists therefore resolve to the earliest candidate, never nil.
func SelectBestVideo(videos []search.Video, analysis Analysis) (ScoredSelection, error) {
	if len(videos) == 0 {
		return ScoredSelection{}, ErrNoCandidates
	}

	best := ScoredSelection{Video: videos[0], Score: 0}
	for _, v := range videos {
		score := scoreVideo(v)
		if score > best.Score {
			best = ScoredSelection{Video: v, Score: score}
		}
	}
	return best, nil
}

// scoreVideo applies the additive point system to one candidate.
func scoreVideo(v search.Video) int {
	text := strings.ToLower(v.Title + " " + v.Description)
	score := 0

	for _, w := range ambientWords {
		if strings.Contains(text, w) {
			score += ambientPoints
		}
	}
	for _, w := range musicWords {
		if strings.Contains(text, w) {
			score -= musicPenalty
		}
	}
	// "hour" also covers "hours"; a duration callout in the title is a
	// decent proxy for long-form ambient content.
	if strings.Contains(text, "hour") {
		score += longFormPoints
	}
	for _, w := range calmWords {
		if strings.Contains(text, w) {
			score += calmPoints
		}
	}
	for _, w := range avoidWords {
		if strings.Contains(text, w) {
			score -= avoidPenalty
		}
	}

	return score
}
