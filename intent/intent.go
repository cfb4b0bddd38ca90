// Package intent classifies a raw query into the handler category that
// should answer it. Classification is deterministic: a fixed, priority
// ordered rule list over the lowercased query text.
package intent

import (
	"strings"

	"github.com/SingularityNET-Archive/Archive-RAG-sub000/evidence"
)

// Intent is the category a query was classified into.
type Intent string

const (
	// Topic lists what was discussed in a grouping or period.
	Topic Intent = "topic"
	// DecisionList lists decisions made in a grouping or period.
	DecisionList Intent = "decision_list"
	// Quantitative answers counting/statistics questions from the
	// authoritative stores, bypassing the generative path.
	Quantitative Intent = "quantitative"
	// Relationship is the caller-invoked structured lookup. It is never
	// chosen from query text.
	Relationship Intent = "relationship"
	// Generic is the evidence-grounded fallback.
	Generic Intent = "generic"
)

// Keyword classes. Several can co-occur in one query ("how many decisions"
// holds both a counting and a decision word); the rule order below is the
// tie-break and must not be reordered.
var (
	topicKeywords = []string{
		"topic", "topics", "discussed", "discussion", "talked about",
		"talk about", "agenda", "covered",
	}
	decisionKeywords = []string{
		"decision", "decisions", "decided", "resolution", "resolutions",
		"agreed on", "agreed to",
	}
	listingKeywords = []string{
		"list", "show", "what are", "which", "enumerate", "all the",
	}
	statisticalKeywords = []string{
		"average", "mean", "median", "minimum", "maximum", "min ", "max ",
		"trend", "per month", "percentage", "most active", "least active",
	}
	countingKeywords = []string{
		"how many", "count", "number of", "total",
	}
	entityKindKeywords = []string{
		"meeting", "meetings", "workgroup", "workgroups", "guild", "guilds",
		"people", "person", "participant", "participants", "member", "members",
	}
)

// rule pairs a named predicate with the intent it selects. Rules are
// evaluated in order; the first match wins.
type rule struct {
	name  string
	match func(c *Classifier, q string) bool
	which Intent
}

var rules = []rule{
	{
		name: "topic",
		match: func(c *Classifier, q string) bool {
			return hasAny(q, topicKeywords) &&
				(c.mentionsWorkgroup(q) || evidence.HasDateReference(q))
		},
		which: Topic,
	},
	{
		// Decision listing outranks quantitative so "list decisions in
		// March" never routes into a count handler.
		name: "decision-list",
		match: func(c *Classifier, q string) bool {
			return hasAny(q, decisionKeywords) && hasAny(q, listingKeywords) &&
				(c.mentionsWorkgroup(q) || evidence.HasDateReference(q))
		},
		which: DecisionList,
	},
	{
		name: "quantitative",
		match: func(c *Classifier, q string) bool {
			if hasAny(q, statisticalKeywords) {
				return true
			}
			if hasAny(q, entityKindKeywords) && hasAny(q, countingKeywords) {
				return true
			}
			if strings.HasPrefix(q, "how many") || strings.HasPrefix(q, "count ") {
				return true
			}
			return hasAny(q, listingKeywords) && hasAny(q, entityKindKeywords)
		},
		which: Quantitative,
	},
}

// Classifier decides which specialized handler answers a query. It knows
// the archive's workgroup display names so rules can test for grouping
// mentions.
type Classifier struct {
	workgroups []string // lowercased display names
}

// New creates a classifier aware of the given workgroup names.
func New(workgroups []string) *Classifier {
	lowered := make([]string, 0, len(workgroups))
	for _, w := range workgroups {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			lowered = append(lowered, w)
		}
	}
	return &Classifier{workgroups: lowered}
}

// Classify returns the intent for the query text. Given the same text and
// the same workgroup set, the result is identical across runs.
func (c *Classifier) Classify(query string) Intent {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, r := range rules {
		if r.match(c, q) {
			return r.which
		}
	}
	return Generic
}

// Rule names in evaluation order, for audit records.
func RuleOrder() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}

func (c *Classifier) mentionsWorkgroup(q string) bool {
	for _, w := range c.workgroups {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}

func hasAny(q string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}
