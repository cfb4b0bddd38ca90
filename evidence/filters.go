package evidence

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Outcome reports the result of running the filter pipeline.
type Outcome struct {
	Items   []Evidence // the narrowed evidence, original order preserved
	Applied []string   // names of the filters that triggered, in order
	Anomaly bool       // true when a filter emptied a non-empty set
}

// Pipeline narrows candidate evidence against the query text. Filters are
// composed in a fixed order (record-identifier, whole-word, date-range);
// each filter only narrows, never reorders. Extra phrases (for example
// canonical entity names from the resolver) widen the whole-word match set.
type Pipeline struct {
	logger *slog.Logger
}

// NewPipeline creates a filter pipeline. logger may be nil.
func NewPipeline(logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{logger: logger}
}

// Filter runs every triggered filter over items and reports what happened.
// An Anomaly means a filter removed everything from a non-empty input:
// callers must answer "no evidence" rather than silently succeed.
func (p *Pipeline) Filter(query string, items []Evidence, extraPhrases ...string) Outcome {
	out := Outcome{Items: items}

	if id, ok := queryRecordID(query); ok {
		out.Items = filterByRecordID(out.Items, id)
		out.Applied = append(out.Applied, "record-id")
	}

	if phrases := append(ExtractSubjectPhrases(query), extraPhrases...); len(phrases) > 0 && wantsWholeWord(query) {
		out.Items = filterByWholeWord(out.Items, phrases)
		out.Applied = append(out.Applied, "whole-word")
	}

	if r := ExtractDateRange(query); !r.IsZero() {
		out.Items = p.filterByDate(out.Items, r)
		out.Applied = append(out.Applied, "date-range")
	}

	if len(items) > 0 && len(out.Items) == 0 && len(out.Applied) > 0 {
		out.Anomaly = true
		p.logger.Warn("evidence filters removed all candidates",
			"query", query, "started_with", len(items), "filters", out.Applied)
	}
	return out
}

// --- record-identifier filter ---

var uuidPattern = regexp.MustCompile(
	`(?i)\b(?:urn:uuid:)?\{?[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\}?`)

// queryRecordID extracts an explicit meeting identifier from the query, if
// present, in canonical form. The same identifier can appear braced,
// urn-prefixed, or in mixed case; uuid.Parse normalizes them all.
func queryRecordID(query string) (string, bool) {
	m := uuidPattern.FindString(query)
	if m == "" {
		return "", false
	}
	id, err := uuid.Parse(m)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func filterByRecordID(items []Evidence, canonical string) []Evidence {
	var kept []Evidence
	for _, e := range items {
		id, err := uuid.Parse(e.RecordID)
		if err != nil {
			continue
		}
		if id.String() == canonical {
			kept = append(kept, e)
		}
	}
	return kept
}

// --- whole-word entity filter ---

// Phrasings that signal the query is about a specific subject, so evidence
// must actually mention it.
var aboutMarkers = []string{
	"about", "regarding", "mention", "mentions", "mentioned",
	"said on", "say about", "discussed",
}

func wantsWholeWord(query string) bool {
	lower := strings.ToLower(query)
	for _, m := range aboutMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return strings.Contains(query, `"`)
}

var quotedPattern = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)

// ExtractSubjectPhrases pulls candidate proper-noun phrases out of a query:
// quoted substrings, runs of capitalized words (including all-caps
// acronyms), and the phrase following an "about"-style marker.
func ExtractSubjectPhrases(query string) []string {
	seen := make(map[string]bool)
	var phrases []string
	add := func(p string) {
		p = strings.TrimSpace(strings.Trim(p, `.,;:?!"'`))
		key := strings.ToLower(p)
		if p == "" || seen[key] {
			return
		}
		seen[key] = true
		phrases = append(phrases, p)
	}

	for _, m := range quotedPattern.FindAllStringSubmatch(query, -1) {
		if m[1] != "" {
			add(m[1])
		} else {
			add(m[2])
		}
	}

	// Capitalized runs, skipping the sentence-initial word which is
	// capitalized for grammatical rather than proper-noun reasons.
	words := strings.Fields(query)
	var run []string
	flush := func() {
		if len(run) > 0 {
			add(strings.Join(run, " "))
			run = nil
		}
	}
	for i, w := range words {
		trimmed := strings.Trim(w, `.,;:?!"'`)
		if trimmed != "" && isCapitalized(trimmed) && !(i == 0 && !isAllCaps(trimmed)) {
			run = append(run, trimmed)
			continue
		}
		flush()
	}
	flush()

	// Phrase after each "about"-style marker, up to the next punctuation.
	// Every marker present contributes its tail: in "regarding X about Y"
	// both X and Y are plausible subjects.
	lower := strings.ToLower(query)
	for _, marker := range aboutMarkers {
		idx := strings.Index(lower, marker+" ")
		if idx < 0 {
			continue
		}
		rest := query[idx+len(marker)+1:]
		if cut := strings.IndexAny(rest, ".,;:?!"); cut >= 0 {
			rest = rest[:cut]
		}
		// Only short tails are plausible subjects.
		if tail := strings.Fields(rest); len(tail) > 0 && len(tail) <= 4 {
			add(strings.Join(tail, " "))
		}
	}

	return phrases
}

func isCapitalized(w string) bool {
	r := []rune(w)
	return len(r) > 0 && unicode.IsUpper(r[0]) && unicode.IsLetter(r[0])
}

func isAllCaps(w string) bool {
	letters := 0
	for _, r := range w {
		if unicode.IsLetter(r) {
			letters++
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return letters >= 2
}

// KeepMentions keeps evidence whose excerpt mentions at least one of the
// phrases as a whole word. Used by callers that already know the subject
// and only need the boundary-safe match, outside the query-triggered
// pipeline.
func KeepMentions(items []Evidence, phrases ...string) []Evidence {
	return filterByWholeWord(items, phrases)
}

// filterByWholeWord keeps evidence whose excerpt contains at least one
// phrase as a whole word, case-insensitively. Word-boundary matching is
// what keeps a short acronym like "AGI" from matching inside "AGIX".
func filterByWholeWord(items []Evidence, phrases []string) []Evidence {
	patterns := make([]*regexp.Regexp, 0, len(phrases))
	for _, p := range phrases {
		patterns = append(patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(p)+`\b`))
	}

	var kept []Evidence
	for _, e := range items {
		for _, pat := range patterns {
			if pat.MatchString(e.Excerpt) {
				kept = append(kept, e)
				break
			}
		}
	}
	return kept
}

// --- date-range filter ---

// filterByDate keeps evidence dated inside the range. Evidence with an
// unknown date is included (fail-open) and the pass-through is logged so
// false positives stay traceable.
func (p *Pipeline) filterByDate(items []Evidence, r DateRange) []Evidence {
	var kept []Evidence
	for _, e := range items {
		if e.Date.IsZero() {
			p.logger.Warn("evidence has no record date, passing date filter",
				"record_id", e.RecordID)
			kept = append(kept, e)
			continue
		}
		if r.Contains(e.Date) {
			kept = append(kept, e)
		}
	}
	return kept
}
