// Package verify is the terminal gate: no answer claiming evidentiary
// support leaves the engine without passing it.
package verify

import (
	"github.com/SingularityNET-Archive/Archive-RAG-sub000/evidence"
)

// Failure categorizes why verification rejected a citation set.
type Failure string

const (
	FailureNone              Failure = ""
	FailureMissingCitations  Failure = "missing_citations"
	FailureInvalidCitations  Failure = "invalid_citations"
	FailureMissingExtraction Failure = "missing_entity_extraction"
)

// Message returns the user-facing explanation for a failure category.
// Verification failure is a deliberate "cannot answer confidently"
// outcome, not a system error, so each category explains itself.
func (f Failure) Message() string {
	switch f {
	case FailureMissingCitations:
		return "The answer carried no citations, so it cannot be trusted."
	case FailureInvalidCitations:
		return "None of the citations reference a real meeting record."
	case FailureMissingExtraction:
		return "Citations lack entity extraction metadata required for this answer."
	default:
		return ""
	}
}

// Result is the outcome of citation verification. Derived per query and
// never persisted; the orchestrator consumes it to decide pass or fail.
type Result struct {
	Verified       bool    `json:"verified"`
	Failure        Failure `json:"failure,omitempty"`
	TotalCitations int     `json:"total_citations"`
	ValidCitations int     `json:"valid_citations"`
}

// Verify inspects a citation list and decides whether it constitutes
// acceptable evidence. With requireExtraction set, at least one valid
// citation must carry extraction metadata (a chunk classification or a
// mentioned-entity list); absent structured data is a normal state that
// fails the policy, never an error.
func Verify(citations []evidence.Citation, requireExtraction bool) Result {
	res := Result{TotalCitations: len(citations)}

	if len(citations) == 0 {
		res.Failure = FailureMissingCitations
		return res
	}

	for _, c := range citations {
		if c.Valid() {
			res.ValidCitations++
		}
	}
	if res.ValidCitations == 0 {
		res.Failure = FailureInvalidCitations
		return res
	}

	if requireExtraction {
		hasExtraction := false
		for _, c := range citations {
			if c.Valid() && !c.Tags.Empty() {
				hasExtraction = true
				break
			}
		}
		if !hasExtraction {
			res.Failure = FailureMissingExtraction
			return res
		}
	}

	res.Verified = true
	return res
}
