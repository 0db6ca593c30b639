package analysis

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// KeywordSeparator joins extracted keywords into the stored keyword string.
const KeywordSeparator = " - "

// KeywordExtractor produces a hyphen-joined keyword string from text. Any
// implementation satisfying this signature is substitutable.
type KeywordExtractor interface {
	ExtractKeywords(text string) (string, error)
}

// Extractor is the default keyword extractor: it keeps content-bearing
// tokens (stopwords and short function words dropped), lowercased and
// stripped to letters, deduplicated in first-seen order.
type Extractor struct{}

var _ KeywordExtractor = (*Extractor)(nil)

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) ExtractKeywords(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("keyword extraction requires a non-empty input")
	}

	words := strings.Fields(text)

	cleaned := make([]string, 0, len(words))
	for _, word := range words {
		cleaned = append(cleaned, stripNonAlpha(strings.ToLower(word)))
	}

	kept := lo.Filter(cleaned, func(word string, _ int) bool {
		return len(word) >= 3 && !stopwords[word]
	})

	return strings.Join(lo.Uniq(kept), KeywordSeparator), nil
}

// SplitKeywords is the inverse of ExtractKeywords' join. Empty input yields
// an empty slice, not one empty keyword.
func SplitKeywords(keywords string) []string {
	if keywords == "" {
		return nil
	}
	return strings.Split(keywords, KeywordSeparator)
}

func stripNonAlpha(word string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) && r < 128 {
			return r
		}
		return -1
	}, word)
}
