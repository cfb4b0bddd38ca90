package audit

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/SingularityNET-Archive/Archive-RAG-sub000/evidence"
)

func newTestSink(t *testing.T) *FileSink {
	t.Helper()
	s, err := NewFileSink(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}
	return s
}

func TestAppendAndRead(t *testing.T) {
	s := newTestSink(t)

	rec := &Record{
		QueryID:       "q-123",
		Query:         "what did the treasury guild decide?",
		Answer:        "The guild approved the budget.",
		Citations:     []evidence.Citation{{RecordID: "rec-1", Excerpt: "budget approved"}},
		EvidenceFound: true,
		Intent:        "generic",
		ModelVersion:  "llama3.1:8b",
		Seed:          7,
	}

	path, err := s.Append(rec)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if !strings.HasSuffix(path, "q-123.json") {
		t.Errorf("path = %q, want query-id filename", path)
	}
	if rec.Timestamp.IsZero() {
		t.Error("timestamp not filled in")
	}

	got, err := s.Read("q-123")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Answer != rec.Answer || got.Seed != rec.Seed || !got.EvidenceFound {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
}

func TestAppendIdempotentUnderRetry(t *testing.T) {
	s := newTestSink(t)

	first := &Record{QueryID: "q-retry", Answer: "original"}
	path1, err := s.Append(first)
	if err != nil {
		t.Fatalf("first Append: %v", err)
	}

	retry := &Record{QueryID: "q-retry", Answer: "overwritten"}
	path2, err := s.Append(retry)
	if err != nil {
		t.Fatalf("retry Append: %v", err)
	}
	if path1 != path2 {
		t.Errorf("paths differ: %q vs %q", path1, path2)
	}

	got, err := s.Read("q-retry")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Answer != "original" {
		t.Errorf("answer = %q, retry must not overwrite the first record", got.Answer)
	}
}

func TestAppendLeavesOnlyCompleteRecords(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileSink(dir, nil)
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}

	for _, id := range []string{"q-a", "q-b", "q-b"} {
		if _, err := s.Append(&Record{QueryID: id, Answer: "a"}); err != nil {
			t.Fatalf("Append %s: %v", id, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("audit dir holds %d files, want exactly the two records", len(entries))
	}
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".json") {
			t.Errorf("stray file %q left in audit dir", e.Name())
		}
		if _, err := s.Read(strings.TrimSuffix(e.Name(), ".json")); err != nil {
			t.Errorf("record %q does not decode: %v", e.Name(), err)
		}
	}
}

func TestAppendRequiresQueryID(t *testing.T) {
	s := newTestSink(t)
	if _, err := s.Append(&Record{}); err == nil {
		t.Fatal("Append with empty query id should fail")
	}
}

func TestReadMissing(t *testing.T) {
	s := newTestSink(t)
	if _, err := s.Read("nope"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Read missing record: %v, want not-exist", err)
	}
}
