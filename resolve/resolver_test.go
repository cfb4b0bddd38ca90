package resolve

import (
	"errors"
	"testing"

	"github.com/SingularityNET-Archive/Archive-RAG-sub000/entity"
)

func testPool() []entity.CanonicalEntity {
	return []entity.CanonicalEntity{
		{ID: "person-stephen", Name: "Stephen", Kind: entity.KindPerson},
		{ID: "person-stefan", Name: "Stefan", Kind: entity.KindPerson},
		{ID: "person-maria", Name: "Maria", Aliases: []string{"Mary"}, Kind: entity.KindPerson},
	}
}

func TestNormalizeStripsDecorations(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Stephen [QADAO]", "Stephen"},
		{"Maria (she/her)", "Maria"},
		{"kenichi#0042", "kenichi"},
		{"LB | Governance", "LB"},
		{"  padded   name ", "padded name"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSimilarityProperties(t *testing.T) {
	if Similarity("Stephen", "stephen") != 1 {
		t.Error("case-insensitive exact match must score 1.0")
	}
	if Similarity("", "anything") != 0 {
		t.Error("empty input must score 0")
	}
	ab := Similarity("Stephen", "Stefan")
	ba := Similarity("Stefan", "Stephen")
	if ab != ba {
		t.Errorf("similarity is not symmetric: %v vs %v", ab, ba)
	}
	if ab <= 0 || ab >= 1 {
		t.Errorf("partial match out of range: %v", ab)
	}
	if Similarity("Stephen", "Stephan") < Similarity("Stephen", "Zoe") {
		t.Error("closer names must score higher")
	}
}

func TestResolveWithBracketedSuffix(t *testing.T) {
	r := New(0, nil)
	res, err := r.Resolve("Stephen [QADAO]", testPool(), nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.Resolved() {
		t.Fatal("expected a resolved identity")
	}
	if res.ID != "person-stephen" || res.Name != "Stephen" {
		t.Errorf("got (%s, %s), want (person-stephen, Stephen)", res.ID, res.Name)
	}
}

func TestResolveViaAlias(t *testing.T) {
	r := New(0, nil)
	res, err := r.Resolve("Mary", testPool(), nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.ID != "person-maria" || res.Name != "Maria" {
		t.Errorf("alias should resolve to canonical name: %+v", res)
	}
}

func TestResolveUnresolvedReturnsNormalizedName(t *testing.T) {
	r := New(0, nil)
	res, err := r.Resolve("Zebulon [ORG]", testPool(), nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Resolved() {
		t.Fatalf("unexpected resolution: %+v", res)
	}
	if res.Name != "Zebulon" {
		t.Errorf("unresolved name should be pattern-normalized, got %q", res.Name)
	}
}

func TestResolveEmptyName(t *testing.T) {
	r := New(0, nil)
	_, err := r.Resolve("   ", testPool(), nil)
	if !errors.Is(err, ErrEmptyName) {
		t.Errorf("want ErrEmptyName, got %v", err)
	}
}

func TestResolveTieBreakIsPoolOrder(t *testing.T) {
	pool := []entity.CanonicalEntity{
		{ID: "first", Name: "Sam", Kind: entity.KindPerson},
		{ID: "second", Name: "Sam", Kind: entity.KindPerson},
	}
	r := New(0, nil)
	res, err := r.Resolve("Sam", pool, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.ID != "first" {
		t.Errorf("tie must break by pool order, got %s", res.ID)
	}
}

func TestResolveIdempotentWithCache(t *testing.T) {
	r := New(0, nil)
	a, err := r.Resolve("Stephen", testPool(), nil)
	if err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	b, err := r.Resolve("Stephen", testPool(), nil)
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if a != b {
		t.Errorf("resolution not idempotent: %+v vs %+v", a, b)
	}

	// Case variation hits the same cache entry.
	c, err := r.Resolve("STEPHEN", testPool(), nil)
	if err != nil {
		t.Fatalf("third Resolve: %v", err)
	}
	if c != a {
		t.Errorf("lowercase-keyed cache missed: %+v vs %+v", c, a)
	}
}

func TestClearInvalidatesCache(t *testing.T) {
	r := New(0, nil)
	if _, err := r.Resolve("Stephen", testPool(), nil); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	r.Clear()
	// After a clear, resolving against a changed pool reflects the change.
	res, err := r.Resolve("Stephen", nil, nil)
	if err != nil {
		t.Fatalf("Resolve after Clear: %v", err)
	}
	if res.Resolved() {
		t.Errorf("stale cache entry survived Clear: %+v", res)
	}
}

func TestHintAffinityRerankIsSoft(t *testing.T) {
	pool := []entity.CanonicalEntity{
		{ID: "sam-treasury", Name: "Sam", Kind: entity.KindPerson},
		{ID: "sam-archives", Name: "Sam", Kind: entity.KindPerson, Aliases: []string{"Sam A"}},
	}

	withAffinity := &Hint{
		Workgroup: "Archives Workgroup",
		Records: []RecordMentions{
			{RecordID: "m1", Entities: []string{"Sam A", "Maria"}},
			{RecordID: "m2", Entities: []string{"Sam A"}},
		},
	}
	r := New(0, nil)
	res, err := r.Resolve("Sam", pool, withAffinity)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.ID != "sam-archives" {
		t.Errorf("affinity should promote the co-occurring entity, got %s", res.ID)
	}

	// With no affinity signal anywhere, similarity order (pool order on
	// ties) must hold: re-ranking is soft, never a hard filter.
	noAffinity := &Hint{
		Workgroup: "Archives Workgroup",
		Records:   []RecordMentions{{RecordID: "m3", Entities: []string{"Maria"}}},
	}
	res, err = r.Resolve("Sam", pool, noAffinity)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.ID != "sam-treasury" {
		t.Errorf("soft re-rank must keep original order without affinity, got %s", res.ID)
	}
}
