package analysis

import (
	"math"
	"strings"
)

// Scorer produces a sentiment score for a piece of text, roughly in [-1, 1].
// Any implementation satisfying this signature is substitutable.
type Scorer interface {
	Score(text string) float64
}

// CompositeScorer averages the scores of its members. The blend is a plain
// unweighted mean; swap members to change policy.
type CompositeScorer struct {
	scorers []Scorer
}

var _ Scorer = (*CompositeScorer)(nil)

// NewCompositeScorer returns the default three-scorer blend: a
// valence-shift scorer, a stemmed-lexicon scorer, and a comparative scorer.
func NewCompositeScorer() *CompositeScorer {
	return &CompositeScorer{
		scorers: []Scorer{
			&valenceScorer{},
			&stemmedScorer{},
			&comparativeScorer{},
		},
	}
}

func (c *CompositeScorer) Score(text string) float64 {
	if len(c.scorers) == 0 {
		return 0
	}

	total := 0.0
	for _, s := range c.scorers {
		total += s.Score(text)
	}
	return total / float64(len(c.scorers))
}

// valenceScorer sums lexicon valences with booster and negation handling,
// then squashes the sum onto [-1, 1].
type valenceScorer struct{}

func (v *valenceScorer) Score(text string) float64 {
	tokens := tokenize(text)

	sum := 0.0
	for i, token := range tokens {
		score, ok := valence[token]
		if !ok {
			continue
		}

		if i > 0 {
			prev := tokens[i-1]
			if boost, ok := boosters[prev]; ok {
				if score > 0 {
					score += boost
				} else {
					score -= boost
				}
			}
			if negations[prev] {
				score = -score
			}
		}

		sum += score
	}

	if sum == 0 {
		return 0
	}
	return sum / math.Sqrt(sum*sum+15)
}

// stemmedScorer averages lexicon valences over all tokens after suffix
// stripping, scaled from the [-5, 5] lexicon range.
type stemmedScorer struct{}

func (s *stemmedScorer) Score(text string) float64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	sum := 0.0
	for _, token := range tokens {
		score, ok := valence[token]
		if !ok {
			score, ok = valence[stem(token)]
		}
		if ok {
			sum += score
		}
	}

	return sum / float64(len(tokens)) / 5
}

// comparativeScorer is the per-token mean of matched valences, scaled from
// the lexicon range. Unlike stemmedScorer it divides by matched tokens only.
type comparativeScorer struct{}

func (c *comparativeScorer) Score(text string) float64 {
	tokens := tokenize(text)

	sum := 0.0
	matched := 0
	for _, token := range tokens {
		if score, ok := valence[token]; ok {
			sum += score
			matched++
		}
	}

	if matched == 0 {
		return 0
	}
	return sum / float64(matched) / 5
}

// stem strips common inflection suffixes so "killings" and "killed" hit the
// same lexicon entry as "killing"/"kill".
func stem(word string) string {
	for _, suffix := range []string{"ings", "ing", "ies", "ied", "ed", "es", "s"} {
		if strings.HasSuffix(word, suffix) && len(word)-len(suffix) >= 3 {
			return word[:len(word)-len(suffix)]
		}
	}
	return word
}

func tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			current.WriteRune(r)
		} else if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}
