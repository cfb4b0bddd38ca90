package resolve

import (
	"regexp"
	"strings"
)

// Decorative patterns stripped from display names before matching, applied
// left to right. Archive display names accumulate organizational tags and
// platform decorations that are not part of the person's name.
var stripPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\s*\[[^\]]*\]`),     // bracketed org tags: "Stephen [QADAO]"
	regexp.MustCompile(`\s*\([^)]*\)$`),     // trailing parenthetical: "Maria (she/her)"
	regexp.MustCompile(`#\d{4,}$`),          // platform discriminator: "kenichi#0042"
	regexp.MustCompile(`\s*[|•·~]+\s*\S*$`), // separator-delimited suffix: "LB | Governance"
	regexp.MustCompile(`\s{2,}`),            // collapse runs of whitespace
}

// Normalize strips known decorative suffixes and tags from a free-text
// name and returns the normalized base name.
func Normalize(name string) string {
	out := name
	for _, p := range stripPatterns {
		out = p.ReplaceAllString(out, " ")
	}
	return strings.TrimSpace(out)
}

// Similarity scores how alike two names are: 1.0 for an exact
// case-insensitive match, otherwise the Sørensen–Dice coefficient over
// character bigrams. Symmetric, normalized to [0,1].
func Similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	ba := bigrams(a)
	bb := bigrams(b)
	if len(ba) == 0 || len(bb) == 0 {
		// Single-character names have no bigrams; equality was checked above.
		return 0
	}

	counts := make(map[string]int, len(ba))
	for _, g := range ba {
		counts[g]++
	}
	overlap := 0
	for _, g := range bb {
		if counts[g] > 0 {
			counts[g]--
			overlap++
		}
	}
	return 2 * float64(overlap) / float64(len(ba)+len(bb))
}

func bigrams(s string) []string {
	runes := []rune(s)
	if len(runes) < 2 {
		return nil
	}
	grams := make([]string, 0, len(runes)-1)
	for i := 0; i < len(runes)-1; i++ {
		grams = append(grams, string(runes[i:i+2]))
	}
	return grams
}
