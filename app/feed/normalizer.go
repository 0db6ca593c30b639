package feed

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/CoDataLab/newswire/app/analysis"
)

// descriptionLimit bounds the stored description length.
const descriptionLimit = 70

// Normalizer converts raw scraped items into canonical articles. Pure apart
// from the injected scorer and keyword extractor.
type Normalizer struct {
	scorer    analysis.Scorer
	extractor analysis.KeywordExtractor
}

func NewNormalizer(scorer analysis.Scorer, extractor analysis.KeywordExtractor) *Normalizer {
	return &Normalizer{
		scorer:    scorer,
		extractor: extractor,
	}
}

// Normalize produces the canonical article for one raw item. It returns an
// error only for items with no usable text; batch callers catch and skip,
// counting a normalization failure instead of aborting.
func (n *Normalizer) Normalize(item RawItem) (*Article, error) {
	descriptionSource := item.Description
	if strings.TrimSpace(descriptionSource) == "" {
		descriptionSource = item.Title
	}

	description := Truncate(SanitizeText(descriptionSource), descriptionLimit)

	keywordSource := item.Title
	if strings.TrimSpace(keywordSource) == "" {
		keywordSource = item.Description
	}
	if strings.TrimSpace(keywordSource) == "" {
		return nil, fmt.Errorf("item has no title or description to normalize")
	}

	keywords, err := n.extractor.ExtractKeywords(keywordSource)
	if err != nil {
		return nil, fmt.Errorf("keyword extraction failed: %w", err)
	}

	return &Article{
		Headline:    item.Title,
		ArticleURL:  item.Link,
		Description: description,
		Date:        n.parseDate(item),
		ImageURL:    item.ImageURL,
		Source:      item.Source,
		Credit:      CoerceString(item.Credit),
		Author:      CoerceString(item.Author),
		Publisher:   CoerceString(item.Publisher),
		Keywords:    keywords,
		Slug:        Slugify(item.Title),
		Label:       n.scoreKeywords(keywords),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// scoreKeywords scores each keyword independently and averages the results.
// Zero keywords default to a neutral label.
func (n *Normalizer) scoreKeywords(keywords string) float64 {
	list := analysis.SplitKeywords(keywords)
	if len(list) == 0 {
		return 0
	}

	total := 0.0
	for _, keyword := range list {
		total += n.scorer.Score(keyword)
	}

	label := total / float64(len(list))
	if math.IsNaN(label) || math.IsInf(label, 0) {
		return 0
	}
	return label
}

// parseDate resolves the publication date to epoch milliseconds, nil when
// missing or unparseable.
func (n *Normalizer) parseDate(item RawItem) *int64 {
	if item.Published != nil {
		millis := item.Published.UnixMilli()
		return &millis
	}

	if item.PubDate == "" {
		return nil
	}

	parsed, err := dateparse.ParseAny(item.PubDate)
	if err != nil {
		return nil
	}
	millis := parsed.UnixMilli()
	return &millis
}
