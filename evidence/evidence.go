// Package evidence holds the candidate-evidence model and the filter
// pipeline that narrows retrieved excerpts before they may become citations.
package evidence

import "time"

// SentinelNoEvidence is the reserved record id used when there was nothing
// to cite. It documents why nothing was found and never counts as proof.
const SentinelNoEvidence = "no-summaries-available"

// SourceEntityStore is the citation record id for aggregate answers that
// were computed directly from the authoritative entity store.
const SourceEntityStore = "entity-store"

// ExtractionTags is the optional structured metadata attached to an
// excerpt by upstream entity extraction. A nil *ExtractionTags means "no
// extraction metadata", which is a normal state, not an error.
type ExtractionTags struct {
	ChunkType     string   `json:"chunk_type,omitempty"` // e.g. "topic", "decision", "narrative"
	Entities      []string `json:"entities,omitempty"`
	Relationships []string `json:"relationships,omitempty"`
}

// Empty reports whether the tags carry no usable extraction signal.
func (t *ExtractionTags) Empty() bool {
	return t == nil || (t.ChunkType == "" && len(t.Entities) == 0)
}

// Evidence is a retrieved excerpt plus its source-record metadata, not yet
// proven relevant. Filtering never mutates evidence in place; filters
// produce new slices.
type Evidence struct {
	RecordID  string          `json:"record_id"`
	Date      time.Time       `json:"date"` // zero when the record date is unknown
	Workgroup string          `json:"workgroup"`
	Excerpt   string          `json:"excerpt"`
	Score     float64         `json:"score"`
	Tags      *ExtractionTags `json:"tags,omitempty"`
}

// Citation is a validated evidence reference bound into a final answer.
// It is the unit of proof: it counts as valid evidence only when it
// resolves to a real record identifier rather than a sentinel.
type Citation struct {
	RecordID  string          `json:"recordId"`
	Date      string          `json:"date,omitempty"` // YYYY-MM-DD, empty if unknown
	Workgroup string          `json:"groupingName,omitempty"`
	Excerpt   string          `json:"excerpt,omitempty"`
	Tags      *ExtractionTags `json:"tags,omitempty"`
}

// Valid reports whether the citation references a real, traceable record.
func (c Citation) Valid() bool {
	return c.RecordID != "" && c.RecordID != SentinelNoEvidence
}

// NoEvidenceCitation builds the sentinel citation that documents why
// nothing could be cited.
func NoEvidenceCitation(reason string) Citation {
	return Citation{RecordID: SentinelNoEvidence, Excerpt: reason}
}

// Cite converts an evidence item into a citation.
func (e Evidence) Cite() Citation {
	c := Citation{
		RecordID:  e.RecordID,
		Workgroup: e.Workgroup,
		Excerpt:   e.Excerpt,
		Tags:      e.Tags,
	}
	if !e.Date.IsZero() {
		c.Date = e.Date.Format("2006-01-02")
	}
	return c
}

// CiteAll converts a filtered evidence slice into an ordered citation list.
func CiteAll(items []Evidence) []Citation {
	citations := make([]Citation, len(items))
	for i, e := range items {
		citations[i] = e.Cite()
	}
	return citations
}
