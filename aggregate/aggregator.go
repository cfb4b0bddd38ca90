// Package aggregate answers counting and statistics questions directly
// from the authoritative stores, bypassing the generative path entirely.
package aggregate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SingularityNET-Archive/Archive-RAG-sub000/entity"
	"github.com/SingularityNET-Archive/Archive-RAG-sub000/evidence"
)

// RecordIndex is the slice of the meeting-record store the aggregator
// reads: totals and dates, nothing else.
type RecordIndex interface {
	CountMeetings(ctx context.Context) (int, error)
	MeetingDates(ctx context.Context) ([]time.Time, error)
}

// Answer is an aggregate result. Method is a hard contract, not optional
// metadata: it states exactly how the number was derived, and the
// verifier and audit trail depend on it for traceability.
type Answer struct {
	Count int `json:"count"`
	// UniqueCount, for meeting counts, is the number of distinct meeting
	// days among dated records; several records can share a date.
	UniqueCount *int                `json:"unique_count,omitempty"`
	Source      string              `json:"source"`
	Method      string              `json:"method"`
	Citations   []evidence.Citation `json:"citations"`
	Discrepancy string              `json:"discrepancy,omitempty"`
	Text        string              `json:"text"`
}

// Aggregator computes counts from the entity store and record index, with
// an optional cross-check against the archive's published bulk index.
type Aggregator struct {
	entities entity.Store
	records  RecordIndex
	httpc    *http.Client
	logger   *slog.Logger
}

// New creates an aggregator. logger may be nil.
func New(entities entity.Store, records RecordIndex, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		entities: entities,
		records:  records,
		httpc:    &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}
}

// Answer computes the aggregate for a counting/statistics question. The
// local authoritative count always comes first; when upstreamURL names a
// reachable bulk index, a second independent count is computed and any
// disagreement is reported rather than silently resolved.
func (a *Aggregator) Answer(ctx context.Context, question string, upstreamURL string) (*Answer, error) {
	q := strings.ToLower(question)

	if wantsAverage(q) {
		return a.averagePerMonth(ctx)
	}

	subject, kind, ok := subjectOf(q)
	if !ok {
		// An honest refusal beats a misleading meeting count.
		return &Answer{
			Source: "meeting record index",
			Method: "unsupported count subject",
			Text:   "There are no records of that kind to count; the archive counts meetings, people, workgroups, and topics.",
		}, nil
	}

	var local, upstream, uniqueDays int
	upstreamOK := false

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		local, err = a.countLocal(gctx, kind)
		return err
	})
	if subject == "meetings" {
		g.Go(func() error {
			dates, err := a.records.MeetingDates(gctx)
			if err != nil {
				return fmt.Errorf("reading meeting dates: %w", err)
			}
			days := make(map[string]bool)
			for _, d := range dates {
				days[d.Format("2006-01-02")] = true
			}
			uniqueDays = len(days)
			return nil
		})
	}
	if upstreamURL != "" && subject == "meetings" {
		g.Go(func() error {
			n, err := a.countUpstream(gctx, upstreamURL)
			if err != nil {
				// Upstream being down never blocks the authoritative answer.
				a.logger.Warn("upstream index unreachable", "url", upstreamURL, "error", err)
				return nil
			}
			upstream, upstreamOK = n, true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ans := &Answer{
		Count:  local,
		Source: sourceFor(subject),
		Method: methodFor(subject),
		Text:   fmt.Sprintf("There are %d %s in the archive.", local, subject),
	}
	ans.Citations = []evidence.Citation{{
		RecordID: evidence.SourceEntityStore,
		Excerpt:  fmt.Sprintf("%s: %d", ans.Method, local),
	}}
	if subject == "meetings" {
		u := uniqueDays
		ans.UniqueCount = &u
	}

	if upstreamOK && upstream != local {
		missing := upstream - local
		if missing > 0 {
			ans.Discrepancy = fmt.Sprintf(
				"%d records exist upstream but are not yet ingested (upstream %d, local %d).",
				missing, upstream, local)
		} else {
			ans.Discrepancy = fmt.Sprintf(
				"local archive holds %d records not present upstream (upstream %d, local %d).",
				-missing, upstream, local)
		}
		ans.Text += " " + ans.Discrepancy
	}

	return ans, nil
}

// averagePerMonth reports the arithmetic mean of meetings per calendar
// month over the archive's dated records.
func (a *Aggregator) averagePerMonth(ctx context.Context) (*Answer, error) {
	dates, err := a.records.MeetingDates(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading meeting dates: %w", err)
	}

	months := make(map[string]int)
	for _, d := range dates {
		months[d.Format("2006-01")]++
	}

	avg := 0.0
	if len(months) > 0 {
		avg = float64(len(dates)) / float64(len(months))
	}

	method := "arithmetic mean of dated meeting records per calendar month"
	return &Answer{
		Count:  len(dates),
		Source: "meeting record index",
		Method: method,
		Text:   fmt.Sprintf("On average there are %.1f meetings per month across %d months.", avg, len(months)),
		Citations: []evidence.Citation{{
			RecordID: evidence.SourceEntityStore,
			Excerpt:  fmt.Sprintf("%s: %.2f over %d records", method, avg, len(dates)),
		}},
	}, nil
}

func (a *Aggregator) countLocal(ctx context.Context, kind entity.Kind) (int, error) {
	if kind == "" {
		n, err := a.records.CountMeetings(ctx)
		if err != nil {
			return 0, fmt.Errorf("counting meeting records: %w", err)
		}
		return n, nil
	}
	n, err := a.entities.Count(ctx, kind)
	if err != nil {
		return 0, fmt.Errorf("counting %s entities: %w", kind, err)
	}
	return n, nil
}

// upstreamIndex is the published bulk index shape: either a bare JSON
// array of records or an object carrying a count.
type upstreamIndex struct {
	Count    int               `json:"count"`
	Meetings []json.RawMessage `json:"meetings"`
}

func (a *Aggregator) countUpstream(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := a.httpc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("upstream index returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return 0, err
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(body, &arr); err == nil {
		return len(arr), nil
	}
	var idx upstreamIndex
	if err := json.Unmarshal(body, &idx); err != nil {
		return 0, fmt.Errorf("decoding upstream index: %w", err)
	}
	if len(idx.Meetings) > 0 {
		return len(idx.Meetings), nil
	}
	return idx.Count, nil
}

func wantsAverage(q string) bool {
	return strings.Contains(q, "average") || strings.Contains(q, "mean") ||
		strings.Contains(q, "per month")
}

// subjectOf maps the question to what is being counted. Meetings come
// from the record index; people, workgroups and topics from the entity
// store. Anything else is not countable from the archive.
func subjectOf(q string) (string, entity.Kind, bool) {
	switch {
	case strings.Contains(q, "workgroup") || strings.Contains(q, "guild"):
		return "workgroups", entity.KindWorkgroup, true
	case strings.Contains(q, "people") || strings.Contains(q, "person") ||
		strings.Contains(q, "participant") || strings.Contains(q, "member"):
		return "people", entity.KindPerson, true
	case strings.Contains(q, "topic"):
		return "topics", entity.KindTopic, true
	case strings.Contains(q, "meeting") || strings.Contains(q, "summar") ||
		strings.Contains(q, "record"):
		return "meetings", "", true
	default:
		return "", "", false
	}
}

func sourceFor(subject string) string {
	if subject == "meetings" {
		return "meeting record index"
	}
	return "entity store"
}

func methodFor(subject string) string {
	if subject == "meetings" {
		return "direct count of archived meeting records"
	}
	return fmt.Sprintf("direct count of %s entity files", strings.TrimSuffix(subject, "s"))
}
