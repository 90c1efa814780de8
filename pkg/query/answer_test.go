package query

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/kgraphrag/backend/pkg/common"
	"github.com/kgraphrag/backend/pkg/store"
)

func TestAnswer_InsufficientInformation(t *testing.T) {
	q := NewQueryClient(&fakeAIClient{completion: "should not be called"}, &fakeStorage{})

	answer, err := q.Answer(context.Background(), "empty-group", "What is the answer?", 10)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if answer.Answer != InsufficientInfoAnswer {
		t.Fatalf("answer = %q, want the fixed insufficient-info text", answer.Answer)
	}
	if answer.Confidence != 0 {
		t.Fatalf("confidence = %v, want 0", answer.Confidence)
	}
	if len(answer.Sources) != 0 || len(answer.EntitiesUsed) != 0 {
		t.Fatal("expected no sources or entities for an empty result")
	}
}

func TestAnswer_GroundedResponse(t *testing.T) {
	storage := &fakeStorage{
		entities: []store.ScoredEntity{
			scoredEntity("ACME CORP", 0.9),
		},
		relationships: []store.ScoredRelationship{
			{
				Relationship: common.Relationship{
					SourceName:  "JANE DOE",
					TargetName:  "ACME CORP",
					Label:       "LEADS",
					Description: "Jane Doe leads Acme Corp.",
					UpdatedAt:   time.Now(),
				},
				Score: 0.8,
			},
		},
	}
	q := NewQueryClient(&fakeAIClient{completion: "Jane Doe leads Acme Corp."}, storage)

	answer, err := q.Answer(context.Background(), "g1", "Who leads Acme Corp?", 10)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if answer.Answer != "Jane Doe leads Acme Corp." {
		t.Fatalf("answer = %q", answer.Answer)
	}
	if len(answer.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(answer.Sources))
	}
	if answer.Confidence <= 0 || answer.Confidence > 1 {
		t.Fatalf("confidence out of range: %v", answer.Confidence)
	}

	seen := map[string]bool{}
	for _, name := range answer.EntitiesUsed {
		if seen[name] {
			t.Fatalf("entity %q listed twice", name)
		}
		seen[name] = true
	}
	if !seen["ACME CORP"] || !seen["JANE DOE"] {
		t.Fatalf("entities used = %v", answer.EntitiesUsed)
	}
}

func TestConfidence(t *testing.T) {
	mkFacts := func(scores ...float64) []common.Fact {
		facts := make([]common.Fact, len(scores))
		for i, s := range scores {
			facts[i] = common.Fact{Score: s}
		}
		return facts
	}

	tests := []struct {
		name  string
		facts []common.Fact
		want  float64
	}{
		{name: "no facts", facts: nil, want: 0},
		{name: "single weak fact", facts: mkFacts(0.5), want: 0.6*0.5 + 0.4*0.2},
		{name: "five strong facts", facts: mkFacts(1, 0.9, 0.8, 0.7, 0.6), want: 0.6*1 + 0.4*1},
		{name: "volume capped beyond five", facts: mkFacts(0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5), want: 0.6*0.5 + 0.4*1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := confidence(tt.facts)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("confidence() = %v, want %v", got, tt.want)
			}
		})
	}
}
