// Package retrieval implements the vector-search collaborator boundary:
// embed the query, search the excerpt index, and hand back candidate
// evidence for the orchestrator to filter and verify.
package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/SingularityNET-Archive/Archive-RAG-sub000/evidence"
	"github.com/SingularityNET-Archive/Archive-RAG-sub000/llm"
	"github.com/SingularityNET-Archive/Archive-RAG-sub000/store"
)

// Engine performs semantic search over archived meeting excerpts.
type Engine struct {
	store    *store.Store
	embedder llm.Provider
	logger   *slog.Logger
}

// New creates a retrieval engine. logger may be nil.
func New(s *store.Store, embedder llm.Provider, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: s, embedder: embedder, logger: logger}
}

// Search embeds the query and returns the topK nearest excerpts as
// candidate evidence, ordered by relevance. The returned slice is owned
// by the caller; nothing here retains or mutates it.
func (e *Engine) Search(ctx context.Context, query string, topK int) ([]evidence.Evidence, error) {
	if topK == 0 {
		topK = 10
	}

	start := time.Now()
	embeddings, err := e.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return nil, fmt.Errorf("embedding query: empty embedding returned")
	}

	hits, err := e.store.VectorSearch(ctx, embeddings[0], topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	e.logger.Debug("retrieval complete",
		"query", query, "hits", len(hits),
		"elapsed", time.Since(start).Round(time.Millisecond))

	return FromHits(hits), nil
}

// FromHits converts store hits into the evidence model, decoding the
// optional extraction-tag JSON. Malformed or absent tags become nil tags,
// never an error.
func FromHits(hits []store.SearchHit) []evidence.Evidence {
	items := make([]evidence.Evidence, 0, len(hits))
	for _, h := range hits {
		ev := evidence.Evidence{
			RecordID:  h.MeetingID,
			Workgroup: h.Workgroup,
			Excerpt:   h.Content,
			Score:     h.Score,
		}
		if h.Date != "" {
			if t, err := time.Parse("2006-01-02", h.Date); err == nil {
				ev.Date = t
			}
		}
		if h.Tags != "" {
			var tags evidence.ExtractionTags
			if err := json.Unmarshal([]byte(h.Tags), &tags); err == nil {
				ev.Tags = &tags
			}
		}
		items = append(items, ev)
	}
	return items
}
