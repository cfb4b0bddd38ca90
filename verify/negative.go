package verify

import (
	"strings"

	"github.com/SingularityNET-Archive/Archive-RAG-sub000/evidence"
)

// Linguistic markers of "nothing found" in generated answer text. The
// list is fixed so the detector stays reproducible across runs.
var negativePhrases = []string{
	"no mention of",
	"no mentions of",
	"not mentioned",
	"no information about",
	"no information available",
	"no relevant information",
	"no relevant summaries",
	"no summaries available",
	"no records of",
	"no evidence of",
	"nothing was found",
	"nothing was discussed",
	"could not find",
	"couldn't find",
	"unable to find",
	"does not appear in",
	"was not discussed",
	"were not discussed",
	"no results",
}

// Explicit negations that, at the start of a sentence, mark the whole
// answer as negative even without a listed phrase.
var negativeSentenceStarts = []string{
	"no.", "no,", "none.", "none,", "none of",
}

// IsNegativeAnswer reports whether generated answer text itself states
// that nothing was found.
func IsNegativeAnswer(answer string) bool {
	lower := strings.ToLower(strings.TrimSpace(answer))
	if lower == "" {
		return false
	}

	for _, p := range negativePhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}

	for _, sentence := range strings.Split(lower, ". ") {
		sentence = strings.TrimSpace(sentence)
		for _, s := range negativeSentenceStarts {
			if strings.HasPrefix(sentence, s) {
				return true
			}
		}
	}
	return lower == "no" || lower == "none"
}

// ApplyNegativePolicy discards citations from a negative answer so they
// cannot mislead the reader into believing there was support. Sentinel
// no-evidence citations survive because they document why nothing was
// found. The second return is true when the detector fired; the caller
// must then force evidence-found to false regardless of what upstream
// retrieval believed.
func ApplyNegativePolicy(answer string, citations []evidence.Citation) ([]evidence.Citation, bool) {
	if !IsNegativeAnswer(answer) {
		return citations, false
	}

	var kept []evidence.Citation
	for _, c := range citations {
		if c.RecordID == evidence.SentinelNoEvidence {
			kept = append(kept, c)
		}
	}
	return kept, true
}
