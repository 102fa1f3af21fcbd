package agent

import (
	"encoding/json"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Analysis is the structured atmosphere description the classifier extracts
// from the model's output. All three fields are always populated.
type Analysis struct {
	Atmosphere  string `json:"atmosphere"`
	SearchTerms string `json:"search_terms"`
	Reasoning   string `json:"reasoning"`
}

// Fallbacks used when nothing usable can be recovered from the model output.
const (
	defaultAtmosphere  = "calm and contemplative"
	defaultSearchTerms = "calm ambient background sounds for reading"
	defaultReasoning   = "Matched to the overall tone of the chapter."

	// ambientSuffix is appended when search terms are derived from a raw
	// text prefix rather than a structured field.
	ambientSuffix = " ambient sounds"
)

// analysisSchema is the canonical shape of a well-formed classifier response.
const analysisSchemaJSON = `{
	"type": "object",
	"properties": {
		"atmosphere":   {"type": "string", "minLength": 1},
		"search_terms": {"type": "string", "minLength": 1},
		"reasoning":    {"type": "string", "minLength": 1}
	},
	"required": ["atmosphere", "search_terms", "reasoning"]
}`

var analysisSchema = jsonschema.MustCompileString("analysis.json", analysisSchemaJSON)

// ParseAnalysis recovers an Analysis from raw model output. It never fails:
// strategies are tried in order (strict decode, fence-stripped decode,
// embedded-JSON extraction, keyword-line heuristics, raw-prefix fallback)
// and whatever fields remain empty get safe defaults.
func ParseAnalysis(raw string) Analysis {
	if a, ok := decodeStructured(raw); ok {
		return a
	}

	a := extractFromLines(raw)
	trimmed := strings.TrimSpace(raw)
	if a.Atmosphere == "" && len(trimmed) > 20 {
		a.Atmosphere = firstChars(trimmed, 100)
		if a.SearchTerms == "" {
			a.SearchTerms = firstChars(trimmed, 30) + ambientSuffix
		}
	}

	if a.Atmosphere == "" {
		a.Atmosphere = defaultAtmosphere
	}
	if a.SearchTerms == "" {
		a.SearchTerms = defaultSearchTerms
	}
	if a.Reasoning == "" {
		a.Reasoning = defaultReasoning
	}
	return a
}

// decodeStructured attempts strict JSON decoding of the raw output and, if
// that fails, of the output with code fences stripped or with an embedded
// JSON object extracted.
func decodeStructured(raw string) (Analysis, bool) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return Analysis{}, false
	}

	candidates := []string{content}
	if stripped := stripCodeFences(content); stripped != "" && stripped != content {
		candidates = append(candidates, stripped)
	}
	if extracted := extractJSONCandidate(content); extracted != "" && extracted != content {
		candidates = append(candidates, extracted)
	}

	for _, candidate := range candidates {
		var doc any
		if err := json.Unmarshal([]byte(candidate), &doc); err != nil {
			continue
		}
		if err := analysisSchema.Validate(doc); err != nil {
			continue
		}
		var a Analysis
		if err := json.Unmarshal([]byte(candidate), &a); err != nil {
			continue
		}
		a.Atmosphere = strings.TrimSpace(a.Atmosphere)
		a.SearchTerms = strings.TrimSpace(a.SearchTerms)
		a.Reasoning = strings.TrimSpace(a.Reasoning)
		if a.Atmosphere != "" && a.SearchTerms != "" && a.Reasoning != "" {
			return a, true
		}
	}
	return Analysis{}, false
}

// stripCodeFences removes a leading markdown fence (optionally language
// tagged) and its closing counterpart.
func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return ""
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return ""
	}

	// Drop first fence line.
	lines = lines[1:]
	// Drop trailing fence if present.
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// extractJSONCandidate pulls the outermost {...} object out of surrounding
// prose.
func extractJSONCandidate(content string) string {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	if start < 0 {
		return ""
	}
	end := strings.LastIndex(trimmed, "}")
	if end < start {
		return ""
	}
	return strings.TrimSpace(trimmed[start : end+1])
}

// Keyword sets for line-oriented heuristic extraction, with plausible length
// windows per field.
var (
	atmosphereKeywords = []string{"atmosphere", "feeling", "mood", "tone"}
	searchKeywords     = []string{"search", "terms", "sounds", "ambient"}
	reasoningKeywords  = []string{"reasoning", "because", "why", "enhance"}
)

// extractFromLines scans non-empty lines for keyword:value pairs and
// recovers whichever of the three fields it can.
func extractFromLines(raw string) Analysis {
	var a Analysis
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		if a.Atmosphere == "" && containsAny(lower, atmosphereKeywords) {
			if v := valueAfterSeparator(line); plausible(v, 3, 100) {
				a.Atmosphere = v
			}
		}
		if a.SearchTerms == "" && containsAny(lower, searchKeywords) {
			if v := valueAfterSeparator(line); plausible(v, 5, 100) {
				a.SearchTerms = v
			}
		}
		if a.Reasoning == "" && containsAny(lower, reasoningKeywords) {
			if v := valueAfterSeparator(line); plausible(v, 10, 200) {
				a.Reasoning = v
			}
		}
	}
	return a
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// valueAfterSeparator returns the trimmed substring after the first ':' or
// '=', with surrounding quotes and trailing punctuation removed.
func valueAfterSeparator(line string) string {
	idx := strings.IndexAny(line, ":=")
	if idx < 0 || idx+1 >= len(line) {
		return ""
	}
	v := strings.TrimSpace(line[idx+1:])
	v = strings.Trim(v, `"'`)
	v = strings.TrimRight(v, ",")
	v = strings.Trim(v, `"'`)
	return strings.TrimSpace(v)
}

func plausible(v string, min, max int) bool {
	return len(v) >= min && len(v) <= max
}

func firstChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
