package ingest

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// chapterBreakRes match common chapter-heading styles at a line start.
var chapterBreakRes = []*regexp.Regexp{
	regexp.MustCompile(`\n\s*Chapter\s+\d+[:.\s]`),
	regexp.MustCompile(`\n\s*CHAPTER\s+\d+[:.\s]`),
	regexp.MustCompile(`\n\s*\d+\.\s+[A-Z][a-z]+`),
	regexp.MustCompile(`\n\s*[IVX]+\.\s+[A-Z][a-z]+`),
}

var (
	chapterLineRe  = regexp.MustCompile(`^(Chapter|CHAPTER)\s+\d+`)
	numberedLineRe = regexp.MustCompile(`^\d+\.\s+`)
)

// sectionTargetChars is the approximate chunk size used when no chapter
// headings are found.
const sectionTargetChars = 5000

// splitIntoChapters divides extracted PDF text into chapters at heading
// breaks, falling back to fixed-length sections when no heading pattern
// matches.
func splitIntoChapters(text string) []Chapter {
	breaks := []int{0}
	for _, re := range chapterBreakRes {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			breaks = append(breaks, loc[0])
		}
	}

	breaks = dedupeSorted(breaks)
	if len(breaks) <= 1 {
		return splitByLength(text, sectionTargetChars)
	}

	var chapters []Chapter
	for i, start := range breaks {
		end := len(text)
		if i+1 < len(breaks) {
			end = breaks[i+1]
		}

		chunk := strings.TrimSpace(text[start:end])
		if len(chunk) < minChapterChars {
			continue
		}

		lines := strings.SplitN(chunk, "\n", 4)
		if len(lines) > 3 {
			lines = lines[:3]
		}
		title := titleFromLines(lines)
		if title == "" {
			title = fmt.Sprintf("Chapter %d", len(chapters)+1)
		}
		chapters = append(chapters, Chapter{Title: title, Content: chunk})
	}
	return chapters
}

// splitByLength chunks text into sections of roughly target characters,
// breaking on word boundaries.
func splitByLength(text string, target int) []Chapter {
	words := strings.Fields(text)

	var chapters []Chapter
	var current []string
	currentLen := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chapters = append(chapters, Chapter{
			Title:   fmt.Sprintf("Section %d", len(chapters)+1),
			Content: strings.Join(current, " "),
		})
		current = nil
		currentLen = 0
	}

	for _, w := range words {
		current = append(current, w)
		currentLen += len(w) + 1
		if currentLen >= target {
			flush()
		}
	}
	flush()

	return chapters
}

// titleFromLines looks for a chapter heading or short title-like line among
// the first lines of a chunk.
func titleFromLines(lines []string) string {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if chapterLineRe.MatchString(line) {
			return line
		}
		if numberedLineRe.MatchString(line) && len(line) < 50 {
			return line
		}
		if len(line) > 5 && len(line) < 50 {
			return line
		}
	}
	return ""
}

func dedupeSorted(xs []int) []int {
	sort.Ints(xs)
	out := xs[:0]
	for i, x := range xs {
		if i == 0 || x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}
