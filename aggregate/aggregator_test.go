package aggregate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SingularityNET-Archive/Archive-RAG-sub000/entity"
	"github.com/SingularityNET-Archive/Archive-RAG-sub000/evidence"
)

type fakeEntities struct {
	counts map[entity.Kind]int
}

func (f *fakeEntities) List(ctx context.Context, kind entity.Kind) ([]entity.CanonicalEntity, error) {
	return nil, nil
}

func (f *fakeEntities) Get(ctx context.Context, kind entity.Kind, id entity.ID) (*entity.CanonicalEntity, error) {
	return nil, entity.ErrNotFound
}

func (f *fakeEntities) Save(ctx context.Context, e entity.CanonicalEntity) error { return nil }

func (f *fakeEntities) Count(ctx context.Context, kind entity.Kind) (int, error) {
	return f.counts[kind], nil
}

type fakeRecords struct {
	total int
	dates []time.Time
}

func (f *fakeRecords) CountMeetings(ctx context.Context) (int, error)     { return f.total, nil }
func (f *fakeRecords) MeetingDates(ctx context.Context) ([]time.Time, error) { return f.dates, nil }

func TestAnswerMeetingCount(t *testing.T) {
	agg := New(&fakeEntities{}, &fakeRecords{total: 42}, nil)

	ans, err := agg.Answer(context.Background(), "How many meetings are there?", "")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if ans.Count != 42 {
		t.Errorf("count = %d, want 42", ans.Count)
	}
	if !strings.Contains(ans.Method, "direct count") {
		t.Errorf("method %q does not state direct count", ans.Method)
	}
	if len(ans.Citations) != 1 || ans.Citations[0].RecordID != evidence.SourceEntityStore {
		t.Errorf("citations = %+v, want single %s citation", ans.Citations, evidence.SourceEntityStore)
	}
	if ans.Discrepancy != "" {
		t.Errorf("unexpected discrepancy %q", ans.Discrepancy)
	}
}

func TestAnswerMeetingUniqueDays(t *testing.T) {
	day := func(s string) time.Time {
		d, _ := time.Parse("2006-01-02", s)
		return d
	}
	recs := &fakeRecords{total: 3, dates: []time.Time{
		day("2025-01-07"), day("2025-01-07"), day("2025-02-04"),
	}}
	agg := New(&fakeEntities{}, recs, nil)

	ans, err := agg.Answer(context.Background(), "How many meetings are there?", "")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if ans.Count != 3 {
		t.Errorf("count = %d, want 3", ans.Count)
	}
	if ans.UniqueCount == nil || *ans.UniqueCount != 2 {
		t.Errorf("unique count = %v, want 2 distinct meeting days", ans.UniqueCount)
	}
}

func TestAnswerUnsupportedSubject(t *testing.T) {
	agg := New(&fakeEntities{}, &fakeRecords{total: 42}, nil)

	ans, err := agg.Answer(context.Background(), "How many decisions were made?", "")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if ans.Count != 0 || len(ans.Citations) != 0 {
		t.Errorf("got count=%d citations=%v, want an empty refusal", ans.Count, ans.Citations)
	}
	if !strings.Contains(ans.Text, "no records of") {
		t.Errorf("text = %q, want a no-records refusal so the negative policy routes it", ans.Text)
	}
	if ans.Method != "unsupported count subject" {
		t.Errorf("method = %q, want unsupported count subject", ans.Method)
	}
}

func TestAnswerEntityCounts(t *testing.T) {
	ents := &fakeEntities{counts: map[entity.Kind]int{
		entity.KindPerson:    17,
		entity.KindWorkgroup: 5,
		entity.KindTopic:     9,
	}}
	agg := New(ents, &fakeRecords{total: 42}, nil)

	tests := []struct {
		question string
		want     int
	}{
		{"How many people are in the archive?", 17},
		{"count workgroups", 5},
		{"how many topics were discussed", 9},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			ans, err := agg.Answer(context.Background(), tt.question, "")
			if err != nil {
				t.Fatalf("Answer: %v", err)
			}
			if ans.Count != tt.want {
				t.Errorf("count = %d, want %d", ans.Count, tt.want)
			}
			if ans.Source != "entity store" {
				t.Errorf("source = %q, want entity store", ans.Source)
			}
		})
	}
}

func TestAnswerUpstreamDiscrepancy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count": 50}`))
	}))
	defer srv.Close()

	agg := New(&fakeEntities{}, &fakeRecords{total: 42}, nil)

	ans, err := agg.Answer(context.Background(), "how many meetings?", srv.URL)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if ans.Count != 42 {
		t.Errorf("count = %d, want local authoritative 42", ans.Count)
	}
	if !strings.Contains(ans.Discrepancy, "8 records exist upstream but are not yet ingested") {
		t.Errorf("discrepancy = %q, want missing-record message", ans.Discrepancy)
	}
}

func TestAnswerUpstreamUnreachable(t *testing.T) {
	agg := New(&fakeEntities{}, &fakeRecords{total: 42}, nil)

	ans, err := agg.Answer(context.Background(), "how many meetings?", "http://127.0.0.1:1/index.json")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if ans.Count != 42 || ans.Discrepancy != "" {
		t.Errorf("got count=%d discrepancy=%q, want clean local answer", ans.Count, ans.Discrepancy)
	}
}

func TestAnswerAveragePerMonth(t *testing.T) {
	day := func(s string) time.Time {
		d, _ := time.Parse("2006-01-02", s)
		return d
	}
	recs := &fakeRecords{dates: []time.Time{
		day("2025-01-07"), day("2025-01-21"),
		day("2025-02-04"), day("2025-02-18"),
		day("2025-03-04"), day("2025-03-18"),
	}}
	agg := New(&fakeEntities{}, recs, nil)

	ans, err := agg.Answer(context.Background(), "What is the average number of meetings per month?", "")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if !strings.Contains(ans.Text, "2.0 meetings per month") {
		t.Errorf("text = %q, want 2.0 per month", ans.Text)
	}
	if !strings.Contains(ans.Method, "mean") {
		t.Errorf("method = %q, want mean provenance", ans.Method)
	}
}
