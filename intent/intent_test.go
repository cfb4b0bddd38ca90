package intent

import "testing"

func testClassifier() *Classifier {
	return New([]string{"Treasury Guild", "Archives Workgroup", "Onboarding Workgroup"})
}

func TestClassify(t *testing.T) {
	c := testClassifier()

	tests := []struct {
		name  string
		query string
		want  Intent
	}{
		{"bare count", "How many meetings are there?", Quantitative},
		{"count with entity kind", "What is the number of workgroups?", Quantitative},
		{"statistical", "What is the average number of meetings per month?", Quantitative},
		{"listing plus entity kind", "List all the workgroups", Quantitative},
		{"decision list with date", "List the decisions made in March 2025", DecisionList},
		{"decision list with workgroup", "Show decisions from the Treasury Guild", DecisionList},
		{"count of decisions routes to decision list", "List all the decisions in March", DecisionList},
		{"topic with workgroup", "What topics did the Archives Workgroup cover?", Topic},
		{"topic with date", "What was discussed in January 2025?", Topic},
		{"topic keyword without grouping or date", "What topics matter most?", Generic},
		{"generic question", "What was said about AGI?", Generic},
		{"empty", "", Generic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.query); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

// Decision-list must outrank quantitative when counting and decision words
// co-occur with a listing phrase.
func TestDecisionListOutranksQuantitative(t *testing.T) {
	c := testClassifier()
	got := c.Classify("List all the decisions made in March 2025")
	if got != DecisionList {
		t.Errorf("got %v, want %v", got, DecisionList)
	}
}

// "How many decisions ..." has no listing keyword, so the decision-list
// rule does not fire and the counting phrase wins.
func TestBareCountOfDecisions(t *testing.T) {
	c := testClassifier()
	got := c.Classify("How many decisions were made?")
	if got != Quantitative {
		t.Errorf("got %v, want %v", got, Quantitative)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := testClassifier()
	queries := []string{
		"How many meetings are there?",
		"List the decisions made in March 2025",
		"What was discussed in January 2025?",
		"What was said about AGI?",
	}
	for _, q := range queries {
		first := c.Classify(q)
		for i := 0; i < 50; i++ {
			if got := c.Classify(q); got != first {
				t.Fatalf("Classify(%q) flapped: %v then %v", q, first, got)
			}
		}
	}
}

func TestRuleOrder(t *testing.T) {
	want := []string{"topic", "decision-list", "quantitative"}
	got := RuleOrder()
	if len(got) != len(want) {
		t.Fatalf("RuleOrder() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rule %d = %q, want %q", i, got[i], want[i])
		}
	}
}
