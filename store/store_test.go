//go:build cgo

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath, 4) // dim=4 for test vectors
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleMeeting(id, date string) Meeting {
	return Meeting{
		ID:        id,
		Date:      date,
		Workgroup: "Treasury Guild",
		Summary:   "Budget approvals and tooling discussion.",
	}
}

func TestUpsertAndGetMeeting(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	m := sampleMeeting("2d9e0f43-0000-4000-8000-000000000001", "2025-03-04")
	if err := s.UpsertMeeting(ctx, m); err != nil {
		t.Fatalf("UpsertMeeting: %v", err)
	}

	got, err := s.GetMeeting(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetMeeting: %v", err)
	}
	if got.Workgroup != m.Workgroup || got.Date != m.Date {
		t.Errorf("roundtrip mismatch: %+v", got)
	}

	// Upsert with same id must update, not duplicate.
	m.Summary = "Revised summary."
	if err := s.UpsertMeeting(ctx, m); err != nil {
		t.Fatalf("second UpsertMeeting: %v", err)
	}
	n, err := s.CountMeetings(ctx)
	if err != nil {
		t.Fatalf("CountMeetings: %v", err)
	}
	if n != 1 {
		t.Errorf("CountMeetings = %d, want 1", n)
	}
}

func TestMeetingDatesSkipsUndated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.UpsertMeeting(ctx, sampleMeeting("2d9e0f43-0000-4000-8000-000000000001", "2025-03-04"))
	s.UpsertMeeting(ctx, sampleMeeting("2d9e0f43-0000-4000-8000-000000000002", ""))

	dates, err := s.MeetingDates(ctx)
	if err != nil {
		t.Fatalf("MeetingDates: %v", err)
	}
	if len(dates) != 1 {
		t.Fatalf("got %d dates, want 1", len(dates))
	}
	if dates[0].Month() != time.March {
		t.Errorf("date = %v", dates[0])
	}
}

func TestVectorSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	meetingID := "2d9e0f43-0000-4000-8000-000000000001"
	if err := s.UpsertMeeting(ctx, sampleMeeting(meetingID, "2025-03-04")); err != nil {
		t.Fatalf("UpsertMeeting: %v", err)
	}

	ids, err := s.InsertExcerpts(ctx, []Excerpt{
		{MeetingID: meetingID, Content: "AGI research roadmap reviewed.", Section: "discussion"},
		{MeetingID: meetingID, Content: "Budget approved for Q2.", Section: "decision"},
	})
	if err != nil {
		t.Fatalf("InsertExcerpts: %v", err)
	}

	if err := s.InsertEmbedding(ctx, ids[0], []float32{1, 0, 0, 0}); err != nil {
		t.Fatalf("InsertEmbedding: %v", err)
	}
	if err := s.InsertEmbedding(ctx, ids[1], []float32{0, 1, 0, 0}); err != nil {
		t.Fatalf("InsertEmbedding: %v", err)
	}

	hits, err := s.VectorSearch(ctx, []float32{1, 0, 0, 0}, 2)
	if err != nil {
		t.Fatalf("VectorSearch: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].ExcerptID != ids[0] {
		t.Errorf("nearest hit = %d, want %d", hits[0].ExcerptID, ids[0])
	}
	if hits[0].MeetingID != meetingID || hits[0].Workgroup != "Treasury Guild" {
		t.Errorf("hit missing meeting metadata: %+v", hits[0])
	}
}

func TestMeetingsMentioning(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	meetingID := "2d9e0f43-0000-4000-8000-000000000001"
	s.UpsertMeeting(ctx, sampleMeeting(meetingID, "2025-03-04"))
	s.InsertExcerpts(ctx, []Excerpt{
		{MeetingID: meetingID, Content: "Stephen presented the archive tooling update."},
	})

	hits, err := s.MeetingsMentioning(ctx, "Stephen", 0)
	if err != nil {
		t.Fatalf("MeetingsMentioning: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(hits))
	}

	hits, err = s.MeetingsMentioning(ctx, "absent-term", 0)
	if err != nil {
		t.Fatalf("MeetingsMentioning: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("got %d hits for absent term", len(hits))
	}
}

func TestDeleteMeetingData(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	meetingID := "2d9e0f43-0000-4000-8000-000000000001"
	s.UpsertMeeting(ctx, sampleMeeting(meetingID, "2025-03-04"))
	ids, _ := s.InsertExcerpts(ctx, []Excerpt{{MeetingID: meetingID, Content: "x"}})
	s.InsertEmbedding(ctx, ids[0], []float32{1, 0, 0, 0})

	if err := s.DeleteMeetingData(ctx, meetingID); err != nil {
		t.Fatalf("DeleteMeetingData: %v", err)
	}

	hits, err := s.VectorSearch(ctx, []float32{1, 0, 0, 0}, 1)
	if err != nil {
		t.Fatalf("VectorSearch: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("embeddings survived DeleteMeetingData")
	}
}
