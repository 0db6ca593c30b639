package analysis

import (
	"math"
	"testing"
)

func TestCompositeScoreRange(t *testing.T) {
	scorer := NewCompositeScorer()

	inputs := []string{
		"massacre",
		"triumph",
		"peace agreement breakthrough",
		"deadly attack kills dozens",
		"weather",
		"",
	}

	for _, input := range inputs {
		score := scorer.Score(input)
		if math.IsNaN(score) || math.IsInf(score, 0) {
			t.Errorf("Score for %q is not finite: %v", input, score)
		}
		if score < -1.5 || score > 1.5 {
			t.Errorf("Score for %q out of expected range: %v", input, score)
		}
	}
}

func TestCompositeScoreSigns(t *testing.T) {
	scorer := NewCompositeScorer()

	if score := scorer.Score("wonderful victory"); score <= 0 {
		t.Errorf("Expected positive score for 'wonderful victory', got %v", score)
	}
	if score := scorer.Score("brutal massacre"); score >= 0 {
		t.Errorf("Expected negative score for 'brutal massacre', got %v", score)
	}
	if score := scorer.Score("the report was published"); score != 0 {
		t.Errorf("Expected zero score for neutral text, got %v", score)
	}
}

func TestCompositeScoreDeterministic(t *testing.T) {
	scorer := NewCompositeScorer()

	first := scorer.Score("crisis deepens after failed talks")
	second := scorer.Score("crisis deepens after failed talks")
	if first != second {
		t.Errorf("Expected deterministic score, got %v and %v", first, second)
	}
}

func TestValenceScorerNegation(t *testing.T) {
	s := &valenceScorer{}

	positive := s.Score("good")
	negated := s.Score("not good")
	if positive <= 0 {
		t.Fatalf("Expected positive score for 'good', got %v", positive)
	}
	if negated >= 0 {
		t.Errorf("Expected negation to flip the sign, got %v", negated)
	}
}

func TestValenceScorerBooster(t *testing.T) {
	s := &valenceScorer{}

	plain := s.Score("good")
	boosted := s.Score("very good")
	if boosted <= plain {
		t.Errorf("Expected 'very good' (%v) to score above 'good' (%v)", boosted, plain)
	}
}

func TestStemmedScorerMatchesInflections(t *testing.T) {
	s := &stemmedScorer{}

	if score := s.Score("killings"); score >= 0 {
		t.Errorf("Expected negative score for 'killings' via stemming, got %v", score)
	}
}

func TestStem(t *testing.T) {
	cases := map[string]string{
		"killings": "kill",
		"bombing":  "bomb",
		"attacked": "attack",
		"wars":     "war",
		"peace":    "peace",
	}
	for input, expected := range cases {
		if got := stem(input); got != expected {
			t.Errorf("stem(%q) = %q, expected %q", input, got, expected)
		}
	}
}

func TestTokenize(t *testing.T) {
	tokens := tokenize("Broken ceasefire, 12 dead!")
	expected := []string{"broken", "ceasefire", "12", "dead"}
	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for i, want := range expected {
		if tokens[i] != want {
			t.Errorf("Token %d: expected %q, got %q", i, want, tokens[i])
		}
	}
}
