package analysis

import (
	"strings"
	"testing"
)

func TestExtractKeywords(t *testing.T) {
	e := NewExtractor()

	keywords, err := e.ExtractKeywords("Government announces new climate policy for the coastal regions")
	if err != nil {
		t.Fatal(err)
	}

	parts := SplitKeywords(keywords)
	for _, part := range parts {
		if stopwords[part] {
			t.Errorf("Stopword %q leaked into keywords", part)
		}
		if part != strings.ToLower(part) {
			t.Errorf("Keyword %q is not lowercased", part)
		}
	}

	if !strings.Contains(keywords, "climate") {
		t.Errorf("Expected 'climate' in keywords, got %q", keywords)
	}
	if strings.Contains(keywords, "new") {
		t.Errorf("Expected short/stopword 'new' to be dropped, got %q", keywords)
	}
}

func TestExtractKeywordsEmptyInput(t *testing.T) {
	e := NewExtractor()

	if _, err := e.ExtractKeywords(""); err == nil {
		t.Error("Expected error for empty input")
	}
	if _, err := e.ExtractKeywords("   "); err == nil {
		t.Error("Expected error for whitespace-only input")
	}
}

func TestExtractKeywordsDeduplicates(t *testing.T) {
	e := NewExtractor()

	keywords, err := e.ExtractKeywords("election election results results")
	if err != nil {
		t.Fatal(err)
	}

	if keywords != "election - results" {
		t.Errorf("Expected 'election - results', got %q", keywords)
	}
}

func TestExtractKeywordsStripsPunctuation(t *testing.T) {
	e := NewExtractor()

	keywords, err := e.ExtractKeywords("Ceasefire: \"fragile\" truce holds")
	if err != nil {
		t.Fatal(err)
	}

	for _, keyword := range SplitKeywords(keywords) {
		for _, r := range keyword {
			if r < 'a' || r > 'z' {
				t.Errorf("Keyword %q contains non-alphabetic character", keyword)
			}
		}
	}
}

func TestSplitKeywords(t *testing.T) {
	if got := SplitKeywords(""); len(got) != 0 {
		t.Errorf("Expected empty slice for empty input, got %v", got)
	}
	if got := SplitKeywords("one - two - three"); len(got) != 3 {
		t.Errorf("Expected 3 keywords, got %v", got)
	}
}

func TestExtractTopKeywords(t *testing.T) {
	articles := []KeywordSource{
		{Headline: "Election results announced", Keywords: "election - results"},
		{Headline: "Election turnout breaks record", Keywords: "election - turnout - record"},
		{Headline: "Storm hits coast", Keywords: "storm - coast"},
	}

	top := ExtractTopKeywords(articles)
	if len(top) == 0 {
		t.Fatal("Expected non-empty top keywords")
	}

	if top[0].Keyword != "election" {
		t.Errorf("Expected 'election' to rank first, got %q", top[0].Keyword)
	}
	if top[0].Count != 2 {
		t.Errorf("Expected count 2 for 'election', got %d", top[0].Count)
	}
}

func TestExtractTopKeywordsCombinesPhrases(t *testing.T) {
	articles := []KeywordSource{
		{Headline: "Climate summit opens in Geneva", Keywords: "climate - summit - geneva"},
		{Headline: "Climate summit ends without deal", Keywords: "climate - summit - deal"},
		{Headline: "Storm hits coast", Keywords: "storm - coast"},
	}

	top := ExtractTopKeywords(articles)

	var phrase *KeywordCount
	for i := range top {
		if top[i].Keyword == "climate summit" {
			phrase = &top[i]
		}
		if top[i].Keyword == "climate" || top[i].Keyword == "summit" {
			t.Errorf("Expected %q to be absorbed into the combined phrase", top[i].Keyword)
		}
	}
	if phrase == nil {
		t.Fatal("Expected combined phrase 'climate summit' in top keywords")
	}
	if phrase.Count != 4 {
		t.Errorf("Expected combined count 4, got %d", phrase.Count)
	}
}

func TestExtractTopKeywordsLimit(t *testing.T) {
	var articles []KeywordSource
	keywords := []string{
		"alpha", "bravo", "charlie", "delta", "echo", "foxtrot",
		"golf", "hotel", "india", "juliett", "kilo", "lima",
	}
	for _, k := range keywords {
		articles = append(articles, KeywordSource{Headline: k, Keywords: k})
	}

	top := ExtractTopKeywords(articles)
	if len(top) > topKeywordLimit {
		t.Errorf("Expected at most %d keywords, got %d", topKeywordLimit, len(top))
	}
}
