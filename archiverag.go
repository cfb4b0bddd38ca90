// Package archiverag answers natural-language questions over an archive
// of meeting records. It never returns an answer claiming evidentiary
// support unless the citations behind it pass verification.
package archiverag

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/SingularityNET-Archive/Archive-RAG-sub000/aggregate"
	"github.com/SingularityNET-Archive/Archive-RAG-sub000/audit"
	"github.com/SingularityNET-Archive/Archive-RAG-sub000/entity"
	"github.com/SingularityNET-Archive/Archive-RAG-sub000/evidence"
	"github.com/SingularityNET-Archive/Archive-RAG-sub000/intent"
	"github.com/SingularityNET-Archive/Archive-RAG-sub000/llm"
	"github.com/SingularityNET-Archive/Archive-RAG-sub000/resolve"
	"github.com/SingularityNET-Archive/Archive-RAG-sub000/retrieval"
	"github.com/SingularityNET-Archive/Archive-RAG-sub000/store"
	"github.com/SingularityNET-Archive/Archive-RAG-sub000/verify"
	"github.com/SingularityNET-Archive/Archive-RAG-sub000/worker"
)

// Engine is the main entry point for the archive query engine.
type Engine interface {
	// Query answers a natural-language question with verified citations.
	Query(ctx context.Context, question string, opts ...QueryOption) (*QueryResult, error)

	// QueryRelated returns meeting records mentioning a known entity.
	// Invoked directly by callers with a structured identity, never
	// routed through text classification.
	QueryRelated(ctx context.Context, kind entity.Kind, id entity.ID) (*QueryResult, error)

	// Ingest loads meeting summary JSON files from a directory into the
	// record store and entity store. Returns the number of meetings loaded.
	Ingest(ctx context.Context, dir string) (int, error)

	// ClearResolverCache invalidates cached name resolutions. Call after
	// the entity store changes.
	ClearResolverCache()

	// Store returns the underlying record store for diagnostic access.
	Store() *store.Store

	// Entities returns the entity store for listing and lookup surfaces.
	Entities() entity.Store

	// Close cleanly shuts down the engine.
	Close() error
}

// QueryResult is the audited shape of an answered query. Downstream
// review tooling parses this serialization, so the field set is stable.
type QueryResult struct {
	QueryID       string              `json:"queryId"`
	Answer        string              `json:"answer"`
	Citations     []evidence.Citation `json:"citations"`
	EvidenceFound bool                `json:"evidenceFound"`
	Intent        string              `json:"intent"`
	Seed          int64               `json:"seed"`
	ModelVersion  string              `json:"modelVersion"`
	Timestamp     time.Time           `json:"timestamp"`
	AuditPath     string              `json:"auditPath,omitempty"`
}

// QueryOption configures query behavior.
type QueryOption func(*queryOptions)

type queryOptions struct {
	maxResults        int
	requireExtraction bool
	callerID          string

	// anomalies accumulates reportable conditions (all evidence filtered
	// out, fail-open passes) for the audit record.
	anomalies []string
}

// WithMaxResults sets the maximum number of evidence excerpts retrieved.
func WithMaxResults(n int) QueryOption {
	return func(o *queryOptions) { o.maxResults = n }
}

// WithRequireExtraction makes verification demand extraction metadata
// (chunk classification or mentioned-entity list) on at least one citation.
func WithRequireExtraction() QueryOption {
	return func(o *queryOptions) { o.requireExtraction = true }
}

// WithCallerID records the caller identity in the audit trail.
func WithCallerID(id string) QueryOption {
	return func(o *queryOptions) { o.callerID = id }
}

// searcher is the embedding + vector search collaborator boundary.
type searcher interface {
	Search(ctx context.Context, query string, topK int) ([]evidence.Evidence, error)
}

// counter is the quantitative aggregation boundary.
type counter interface {
	Answer(ctx context.Context, question, upstreamURL string) (*aggregate.Answer, error)
}

// engine is the concrete implementation of Engine.
type engine struct {
	cfg        Config
	store      *store.Store
	entities   entity.Store
	searcher   searcher
	generator  llm.Provider
	embedder   llm.Provider
	resolver   *resolve.Resolver
	pipeline   *evidence.Pipeline
	aggregator counter
	sink       audit.Sink
	runner     *worker.Runner
	seed       int64
	logger     *slog.Logger
	closed     atomic.Bool
}

// New creates an engine with the given configuration.
func New(cfg Config) (Engine, error) {
	if cfg.MinQueryLen <= 0 {
		cfg.MinQueryLen = 3
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 10
	}
	if cfg.EmbeddingDim <= 0 {
		cfg.EmbeddingDim = 768
	}
	if cfg.CollaboratorTimeoutSec <= 0 {
		cfg.CollaboratorTimeoutSec = 60
	}
	if cfg.ResolveThreshold < 0 || cfg.ResolveThreshold > 1 {
		return nil, fmt.Errorf("%w: resolve threshold %v out of range", ErrInvalidConfig, cfg.ResolveThreshold)
	}

	logger := slog.Default()

	s, err := store.New(cfg.resolveDBPath(), cfg.EmbeddingDim)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	chatLLM, err := llm.NewProvider(llm.Config{
		Provider: cfg.Chat.Provider,
		Model:    cfg.Chat.Model,
		BaseURL:  cfg.Chat.BaseURL,
		APIKey:   cfg.Chat.APIKey,
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("creating chat provider: %w", err)
	}

	embedLLM, err := llm.NewProvider(llm.Config{
		Provider: cfg.Embedding.Provider,
		Model:    cfg.Embedding.Model,
		BaseURL:  cfg.Embedding.BaseURL,
		APIKey:   cfg.Embedding.APIKey,
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("creating embedding provider: %w", err)
	}

	entities, err := entity.NewJSONStore(cfg.resolveEntityDir())
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("opening entity store: %w", err)
	}

	sink, err := audit.NewFileSink(cfg.resolveAuditDir(), logger)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("opening audit sink: %w", err)
	}

	runner, err := worker.NewRunner(cfg.Workers)
	if err != nil {
		s.Close()
		return nil, err
	}

	// The seed is fixed per engine instance so every audit record can be
	// replayed deterministically against the same model.
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &engine{
		cfg:        cfg,
		store:      s,
		entities:   entities,
		searcher:   retrieval.New(s, embedLLM, logger),
		generator:  chatLLM,
		embedder:   embedLLM,
		resolver:   resolve.New(cfg.ResolveThreshold, logger),
		pipeline:   evidence.NewPipeline(logger),
		aggregator: aggregate.New(entities, s, logger),
		sink:       sink,
		runner:     runner,
		seed:       seed,
		logger:     logger,
	}, nil
}

// Query classifies the question, dispatches it to the matching handler,
// and gates the result through citation verification before it leaves.
func (e *engine) Query(ctx context.Context, question string, opts ...QueryOption) (*QueryResult, error) {
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}

	options := &queryOptions{maxResults: e.cfg.MaxResults}
	for _, o := range opts {
		o(options)
	}

	trimmed := strings.TrimSpace(question)
	if len(trimmed) < e.cfg.MinQueryLen {
		return nil, fmt.Errorf("%w: need at least %d characters", ErrQueryTooShort, e.cfg.MinQueryLen)
	}

	queryID := uuid.NewString()

	workgroups, err := e.entities.List(ctx, entity.KindWorkgroup)
	if err != nil {
		e.logger.Warn("listing workgroups for classification failed", "error", err)
	}
	names := make([]string, len(workgroups))
	for i, wg := range workgroups {
		names[i] = wg.Name
	}

	it := intent.New(names).Classify(trimmed)
	e.logger.Info("query classified", "query_id", queryID, "intent", it)

	var answer string
	var citations []evidence.Citation
	switch it {
	case intent.Quantitative:
		answer, citations, err = e.answerQuantitative(ctx, trimmed)
	case intent.Topic:
		answer, citations, err = e.answerListing(ctx, trimmed, options, "topic", "Topics discussed")
	case intent.DecisionList:
		answer, citations, err = e.answerListing(ctx, trimmed, options, "decision", "Decisions recorded")
	default:
		answer, citations, err = e.answerGeneric(ctx, trimmed, options, workgroups)
	}
	if err != nil {
		return nil, err
	}

	return e.finalize(queryID, trimmed, answer, citations, string(it), options)
}

// QueryRelated looks up meeting records mentioning a known entity. The
// entity identity is structured input, so resolution is skipped.
func (e *engine) QueryRelated(ctx context.Context, kind entity.Kind, id entity.ID) (*QueryResult, error) {
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntityKind, kind)
	}

	ent, err := e.entities.Get(ctx, kind, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", ErrEntityNotFound, kind, id)
		}
		return nil, fmt.Errorf("loading entity: %w", err)
	}

	timeout := time.Duration(e.cfg.CollaboratorTimeoutSec) * time.Second
	hits, err := worker.Do(ctx, e.runner, timeout, func(ctx context.Context) ([]store.SearchHit, error) {
		return e.store.MeetingsMentioning(ctx, ent.Name, e.cfg.MaxResults)
	})
	if err != nil {
		return nil, e.mapCollaboratorErr(err)
	}

	items := retrieval.FromHits(hits)
	// The SQL lookup over-matches on substrings; keep only boundary-safe
	// mentions of the canonical name or an alias.
	items = evidence.KeepMentions(items, append([]string{ent.Name}, ent.Aliases...)...)

	queryID := uuid.NewString()
	question := fmt.Sprintf("records mentioning %s %q", kind, ent.Name)

	if len(items) == 0 {
		answer := fmt.Sprintf("There are no records of %s in the archived summaries.", ent.Name)
		citations := []evidence.Citation{evidence.NoEvidenceCitation("no records mention " + ent.Name)}
		return e.finalize(queryID, question, answer, citations, string(intent.Relationship), &queryOptions{})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s is mentioned in %d meeting record(s):\n", ent.Name, len(items))
	for _, ev := range items {
		fmt.Fprintf(&b, "- %s (%s): %s\n", ev.Workgroup, ev.RecordID, firstSentence(ev.Excerpt))
	}
	return e.finalize(queryID, question, b.String(), evidence.CiteAll(items), string(intent.Relationship), &queryOptions{})
}

// answerQuantitative bypasses the generative path entirely and reads
// authoritative counts.
func (e *engine) answerQuantitative(ctx context.Context, question string) (string, []evidence.Citation, error) {
	ans, err := e.aggregator.Answer(ctx, question, e.cfg.UpstreamIndexURL)
	if err != nil {
		return "", nil, e.mapCollaboratorErr(err)
	}
	return ans.Text, ans.Citations, nil
}

// answerListing handles topic and decision-list intents by scanning
// retrieved evidence for excerpts tagged with the wanted chunk type.
func (e *engine) answerListing(ctx context.Context, question string, options *queryOptions, chunkType, heading string) (string, []evidence.Citation, error) {
	items, err := e.search(ctx, question, options.maxResults)
	if err != nil {
		return "", nil, err
	}

	outcome := e.pipeline.Filter(question, items)
	if outcome.Anomaly {
		options.anomalies = append(options.anomalies,
			fmt.Sprintf("filters %v removed all %d candidates", outcome.Applied, len(items)))
	}
	if outcome.Anomaly || len(outcome.Items) == 0 {
		return noEvidenceAnswer(question)
	}

	// Prefer excerpts whose extraction tags identify the wanted chunk
	// type; untagged evidence is kept only when nothing is tagged.
	var tagged []evidence.Evidence
	for _, ev := range outcome.Items {
		if ev.Tags != nil && strings.EqualFold(ev.Tags.ChunkType, chunkType) {
			tagged = append(tagged, ev)
		}
	}
	if len(tagged) == 0 {
		tagged = outcome.Items
	}

	var b strings.Builder
	b.WriteString(heading + ":\n")
	for _, ev := range tagged {
		date := ""
		if !ev.Date.IsZero() {
			date = ev.Date.Format("2006-01-02") + ", "
		}
		fmt.Fprintf(&b, "- %s(%s): %s\n", date, ev.Workgroup, firstSentence(ev.Excerpt))
	}
	return b.String(), evidence.CiteAll(tagged), nil
}

// answerGeneric is the evidence-grounded generative path.
func (e *engine) answerGeneric(ctx context.Context, question string, options *queryOptions, workgroups []entity.CanonicalEntity) (string, []evidence.Citation, error) {
	items, err := e.search(ctx, question, options.maxResults)
	if err != nil {
		return "", nil, err
	}

	// Resolve subject mentions so filters also match canonical names and
	// aliases, not just the literal query spelling.
	extra := e.resolveSubjects(ctx, question, workgroups)

	outcome := e.pipeline.Filter(question, items, extra...)
	if outcome.Anomaly {
		options.anomalies = append(options.anomalies,
			fmt.Sprintf("filters %v removed all %d candidates", outcome.Applied, len(items)))
	}
	if outcome.Anomaly || len(outcome.Items) == 0 {
		return noEvidenceAnswer(question)
	}

	answer, err := e.generate(ctx, question, outcome.Items)
	if err != nil {
		return "", nil, err
	}
	return answer, evidence.CiteAll(outcome.Items), nil
}

// resolveSubjects maps proper-noun phrases in the query to canonical
// entity names. Unresolved phrases contribute nothing; the literal
// phrase is already matched by the filter pipeline.
func (e *engine) resolveSubjects(ctx context.Context, question string, workgroups []entity.CanonicalEntity) []string {
	phrases := evidence.ExtractSubjectPhrases(question)
	if len(phrases) == 0 {
		return nil
	}

	pool := make([]entity.CanonicalEntity, 0, 64)
	for _, kind := range []entity.Kind{entity.KindPerson, entity.KindTopic} {
		ents, err := e.entities.List(ctx, kind)
		if err != nil {
			e.logger.Warn("listing entities for resolution failed", "kind", kind, "error", err)
			continue
		}
		pool = append(pool, ents...)
	}
	pool = append(pool, workgroups...)

	var extra []string
	for _, p := range phrases {
		res, err := e.resolver.Resolve(p, pool, nil)
		if err != nil || !res.Resolved() {
			continue
		}
		if !strings.EqualFold(res.Name, p) {
			extra = append(extra, res.Name)
		}
	}
	return extra
}

// search runs retrieval off the request path with the collaborator deadline.
func (e *engine) search(ctx context.Context, question string, topK int) ([]evidence.Evidence, error) {
	timeout := time.Duration(e.cfg.CollaboratorTimeoutSec) * time.Second
	items, err := worker.Do(ctx, e.runner, timeout, func(ctx context.Context) ([]evidence.Evidence, error) {
		return e.searcher.Search(ctx, question, topK)
	})
	if err != nil {
		return nil, e.mapCollaboratorErr(err)
	}
	return items, nil
}

// generate asks the chat collaborator for an answer grounded strictly in
// the supplied evidence. The engine does not control how text is
// generated, only whether the result survives verification.
func (e *engine) generate(ctx context.Context, question string, items []evidence.Evidence) (string, error) {
	var b strings.Builder
	for _, ev := range items {
		fmt.Fprintf(&b, "[record %s | %s | %s]\n%s\n\n",
			ev.RecordID, ev.Date.Format("2006-01-02"), ev.Workgroup, ev.Excerpt)
	}

	req := llm.ChatRequest{
		Messages: []llm.Message{
			{Role: "system", Content: "You answer questions about archived meeting summaries. " +
				"Use only the provided excerpts. If the excerpts do not contain the answer, " +
				"say that no relevant summaries were found. Do not invent records."},
			{Role: "user", Content: "Excerpts:\n\n" + b.String() + "Question: " + question},
		},
		Temperature: 0,
		Seed:        e.seed,
	}

	timeout := time.Duration(e.cfg.CollaboratorTimeoutSec) * time.Second
	resp, err := worker.Do(ctx, e.runner, timeout, func(ctx context.Context) (*llm.ChatResponse, error) {
		return e.generator.Chat(ctx, req)
	})
	if err != nil {
		return "", e.mapCollaboratorErr(err)
	}
	return strings.TrimSpace(resp.Content), nil
}

// finalize applies the negative-response policy and the citation
// verifier, writes the audit record, and builds the result. This is the
// single exit for every answered query: no result claiming evidentiary
// support bypasses it.
func (e *engine) finalize(queryID, question, answer string, citations []evidence.Citation, usedIntent string, options *queryOptions) (*QueryResult, error) {
	evidenceFound := true

	kept, negative := verify.ApplyNegativePolicy(answer, citations)
	if negative {
		citations = kept
		evidenceFound = false
		if len(citations) == 0 {
			citations = []evidence.Citation{evidence.NoEvidenceCitation("answer reported no findings")}
		}
	} else {
		vr := verify.Verify(citations, options.requireExtraction)
		if !vr.Verified {
			e.logger.Warn("verification rejected answer",
				"query_id", queryID, "failure", vr.Failure,
				"total", vr.TotalCitations, "valid", vr.ValidCitations)
			answer = "I cannot answer confidently: " + vr.Failure.Message()
			citations = []evidence.Citation{evidence.NoEvidenceCitation(string(vr.Failure))}
			evidenceFound = false
		}
	}

	result := &QueryResult{
		QueryID:       queryID,
		Answer:        answer,
		Citations:     citations,
		EvidenceFound: evidenceFound,
		Intent:        usedIntent,
		Seed:          e.seed,
		ModelVersion:  e.cfg.Chat.Model,
		Timestamp:     time.Now().UTC(),
	}

	path, err := e.sink.Append(&audit.Record{
		QueryID:       queryID,
		Query:         question,
		CallerID:      options.callerID,
		Answer:        result.Answer,
		Citations:     result.Citations,
		EvidenceFound: result.EvidenceFound,
		Intent:        usedIntent,
		ModelVersion:  result.ModelVersion,
		Seed:          int(e.seed),
		Timestamp:     result.Timestamp,
		Anomalies:     options.anomalies,
	})
	if err != nil {
		// The answer is already verified; losing the audit record is a
		// fault worth surfacing, not swallowing.
		return nil, fmt.Errorf("writing audit record: %w", err)
	}
	result.AuditPath = path
	return result, nil
}

// mapCollaboratorErr translates collaborator failures into the engine's
// error taxonomy. Unreachable services are never conflated with "no
// evidence found".
func (e *engine) mapCollaboratorErr(err error) error {
	switch {
	case errors.Is(err, worker.ErrTimeout):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.Is(err, llm.ErrUnavailable):
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	default:
		return err
	}
}

// noEvidenceAnswer is the uniform outcome when retrieval or filtering
// leaves nothing citable.
func noEvidenceAnswer(question string) (string, []evidence.Citation, error) {
	return "No relevant summaries were found for this question.",
		[]evidence.Citation{evidence.NoEvidenceCitation("no evidence survived filtering for: " + question)},
		nil
}

// firstSentence trims an excerpt to its first sentence for listing output.
func firstSentence(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".!?"); i > 0 && i < len(s)-1 {
		return s[:i+1]
	}
	if len(s) > 200 {
		return s[:200] + "…"
	}
	return s
}

// ClearResolverCache invalidates cached resolutions.
func (e *engine) ClearResolverCache() {
	e.resolver.Clear()
}

// Store returns the underlying record store.
func (e *engine) Store() *store.Store {
	return e.store
}

// Entities returns the entity store.
func (e *engine) Entities() entity.Store {
	return e.entities
}

// Close shuts down the engine. Subsequent queries fail with ErrEngineClosed.
func (e *engine) Close() error {
	if e.closed.Swap(true) {
		return nil
	}
	e.runner.Close()
	return e.store.Close()
}

// --- ingestion ---

// meetingSummary is the archive's published meeting summary JSON shape,
// reduced to the fields the engine stores.
type meetingSummary struct {
	ID          string `json:"meeting_id"`
	Workgroup   string `json:"workgroup"`
	MeetingInfo struct {
		Date string `json:"date"`
	} `json:"meetingInfo"`
	AgendaItems []struct {
		Narrative        string   `json:"narrative,omitempty"`
		DiscussionPoints []string `json:"discussionPoints,omitempty"`
		DecisionItems    []struct {
			Decision string `json:"decision"`
		} `json:"decisionItems,omitempty"`
	} `json:"agendaItems"`
	People []string `json:"peoplePresent,omitempty"`
}

// Ingest loads every *.json summary under dir. Re-ingesting a meeting id
// replaces its excerpts and embeddings. Workgroup and attendee entities
// are saved so the resolver can match mentions against them.
func (e *engine) Ingest(ctx context.Context, dir string) (int, error) {
	if e.closed.Load() {
		return 0, ErrEngineClosed
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading summary directory: %w", err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.ingestFile(ctx, path); err != nil {
			e.logger.Warn("skipping summary file", "file", entry.Name(), "error", err)
			continue
		}
		loaded++
	}

	// Entity and record contents changed; cached resolutions are stale.
	e.resolver.Clear()

	e.logger.Info("ingestion complete", "dir", dir, "meetings", loaded)
	return loaded, nil
}

func (e *engine) ingestFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var sum meetingSummary
	if err := json.Unmarshal(data, &sum); err != nil {
		return fmt.Errorf("decoding summary: %w", err)
	}
	if sum.ID == "" {
		sum.ID = uuid.NewString()
	}

	excerpts := summaryExcerpts(sum)
	summaryText := make([]string, 0, len(excerpts))
	for _, ex := range excerpts {
		summaryText = append(summaryText, ex.Content)
	}

	if err := e.store.UpsertMeeting(ctx, store.Meeting{
		ID:        sum.ID,
		Date:      sum.MeetingInfo.Date,
		Workgroup: sum.Workgroup,
		Summary:   strings.Join(summaryText, "\n"),
	}); err != nil {
		return fmt.Errorf("upserting meeting: %w", err)
	}
	if err := e.store.DeleteMeetingData(ctx, sum.ID); err != nil {
		return fmt.Errorf("clearing old excerpts: %w", err)
	}

	ids, err := e.store.InsertExcerpts(ctx, excerpts)
	if err != nil {
		return fmt.Errorf("inserting excerpts: %w", err)
	}

	texts := make([]string, len(excerpts))
	for i, ex := range excerpts {
		texts[i] = ex.Content
	}
	embeddings, err := e.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding excerpts: %w", err)
	}
	for i, emb := range embeddings {
		if i >= len(ids) {
			break
		}
		if err := e.store.InsertEmbedding(ctx, ids[i], emb); err != nil {
			e.logger.Warn("storing embedding failed", "excerpt_id", ids[i], "error", err)
		}
	}

	e.saveEntities(ctx, sum)
	return nil
}

// summaryExcerpts flattens a summary into store excerpts, tagging each
// with its chunk classification so listing handlers and the verifier's
// extraction policy can use it.
func summaryExcerpts(sum meetingSummary) []store.Excerpt {
	var out []store.Excerpt
	add := func(content, section, chunkType string) {
		content = strings.TrimSpace(content)
		if content == "" {
			return
		}
		tags, _ := json.Marshal(evidence.ExtractionTags{
			ChunkType: chunkType,
			Entities:  sum.People,
		})
		out = append(out, store.Excerpt{
			MeetingID: sum.ID,
			Content:   content,
			Section:   section,
			Tags:      string(tags),
		})
	}

	for _, item := range sum.AgendaItems {
		add(item.Narrative, "narrative", "narrative")
		for _, p := range item.DiscussionPoints {
			add(p, "discussion", "topic")
		}
		for _, d := range item.DecisionItems {
			add(d.Decision, "decisions", "decision")
		}
	}
	return out
}

// saveEntities records the workgroup and attendees seen in a summary.
// Entity ids are derived from the lowercased name so repeated ingestion
// converges on one file per entity.
func (e *engine) saveEntities(ctx context.Context, sum meetingSummary) {
	save := func(name string, kind entity.Kind) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		id := entity.ID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(string(kind)+":"+strings.ToLower(name))).String())
		if err := e.entities.Save(ctx, entity.CanonicalEntity{ID: id, Name: name, Kind: kind}); err != nil {
			e.logger.Warn("saving entity failed", "kind", kind, "name", name, "error", err)
		}
	}

	save(sum.Workgroup, entity.KindWorkgroup)
	for _, p := range sum.People {
		save(p, entity.KindPerson)
	}
}
