package analysis

import (
	"sort"
	"strings"
)

const topKeywordLimit = 10

// KeywordCount is one entry of a top-keyword report.
type KeywordCount struct {
	Keyword string `bson:"keyword" json:"keyword"`
	Count   int    `bson:"count" json:"count"`
}

// KeywordSource is the projection of an article that top-keyword extraction
// needs.
type KeywordSource struct {
	Headline string
	Keywords string
}

// ExtractTopKeywords counts keyword occurrences across articles and returns
// the ten most frequent. Adjacent keywords that co-occur in more than one
// headline are reported as a combined phrase instead of separately.
func ExtractTopKeywords(articles []KeywordSource) []KeywordCount {
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, article := range articles {
		for _, keyword := range SplitKeywords(strings.ToLower(article.Keywords)) {
			if keyword == "" || stopwords[keyword] {
				continue
			}
			if _, seen := counts[keyword]; !seen {
				order = append(order, keyword)
			}
			counts[keyword]++
		}
	}

	// Stable ranking: by count descending, first-seen order on ties.
	rank := make(map[string]int, len(order))
	for i, keyword := range order {
		rank[keyword] = i
	}

	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return rank[order[i]] < rank[order[j]]
	})

	if len(order) > topKeywordLimit {
		order = order[:topKeywordLimit]
	}

	top := make([]KeywordCount, 0, len(order))
	for _, keyword := range order {
		top = append(top, KeywordCount{Keyword: keyword, Count: counts[keyword]})
	}

	return mergeCombined(top, articles)
}

// mergeCombined replaces pairs of top keywords with their combined phrase
// when the phrase itself shows up in multiple headlines.
func mergeCombined(top []KeywordCount, articles []KeywordSource) []KeywordCount {
	combined := make(map[string]KeywordCount)

	for i, first := range top {
		for _, second := range top[i+1:] {
			phrase := first.Keyword + " " + second.Keyword

			occurrences := 0
			for _, article := range articles {
				if strings.Contains(strings.ToLower(article.Headline), phrase) {
					occurrences++
				}
			}

			if occurrences > 1 {
				combined[phrase] = KeywordCount{
					Keyword: phrase,
					Count:   first.Count + second.Count,
				}
			}
		}
	}

	if len(combined) == 0 {
		return top
	}

	final := make([]KeywordCount, 0, len(top)+len(combined))
	for _, entry := range top {
		absorbed := false
		for phrase := range combined {
			if strings.Contains(phrase+" ", entry.Keyword+" ") || strings.HasSuffix(phrase, " "+entry.Keyword) {
				absorbed = true
				break
			}
		}
		if !absorbed {
			final = append(final, entry)
		}
	}
	for _, entry := range combined {
		final = append(final, entry)
	}

	sort.SliceStable(final, func(i, j int) bool {
		return final[i].Count > final[j].Count
	})

	return final
}
