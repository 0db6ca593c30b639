package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/CoDataLab/newswire/app/database"
	"github.com/CoDataLab/newswire/app/feed"
	"github.com/CoDataLab/newswire/app/logger"
)

// ItemFetcher retrieves the raw items of one feed endpoint.
type ItemFetcher interface {
	FetchItems(ctx context.Context, url, sourceName string) ([]feed.RawItem, error)
}

// ItemNormalizer converts one raw item into its canonical article form.
type ItemNormalizer interface {
	Normalize(item feed.RawItem) (*feed.Article, error)
}

// SourceOutcome is the result of processing one source. Outcomes are
// index-aligned with the input slice, one per source regardless of failure.
type SourceOutcome struct {
	Source   string
	Fetched  int
	Inserted int
	Err      error
}

// Runner fans a source batch out over a bounded worker set. A failing
// source yields an error outcome without disturbing its siblings.
type Runner struct {
	fetcher     ItemFetcher
	normalizer  ItemNormalizer
	scrapRepo   database.ScrapRepository
	articleRepo database.ArticleRepository
	log         *logger.Logger
	limiter     *rate.Limiter
	concurrency int
	retries     int
}

func NewRunner(fetcher ItemFetcher, normalizer ItemNormalizer,
	scrapRepo database.ScrapRepository, articleRepo database.ArticleRepository,
	log *logger.Logger, limiter *rate.Limiter, concurrency, retries int) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{
		fetcher:     fetcher,
		normalizer:  normalizer,
		scrapRepo:   scrapRepo,
		articleRepo: articleRepo,
		log:         log,
		limiter:     limiter,
		concurrency: concurrency,
		retries:     retries,
	}
}

// Run processes every source in the batch and returns one outcome per
// source, in input order.
func (r *Runner) Run(ctx context.Context, sources []database.Source) []SourceOutcome {
	outcomes := make([]SourceOutcome, len(sources))
	sem := make(chan struct{}, r.concurrency)

	var wg sync.WaitGroup
	for i, source := range sources {
		wg.Add(1)
		go func(i int, source database.Source) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			outcomes[i] = r.processSource(ctx, source)
		}(i, source)
	}
	wg.Wait()

	return outcomes
}

func (r *Runner) processSource(ctx context.Context, source database.Source) SourceOutcome {
	outcome := SourceOutcome{Source: source.Name}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			outcome.Err = err
			return outcome
		}
	}

	r.log.Processing(fmt.Sprintf("Fetching %s", source.Name), map[string]any{"url": source.URL})

	items, err := withRetry(ctx, r.retries, source.Name, func(ctx context.Context) ([]feed.RawItem, error) {
		return r.fetcher.FetchItems(ctx, source.URL, source.Name)
	})
	if err != nil {
		outcome.Err = fmt.Errorf("failed to fetch %s: %w", source.Name, err)
		r.log.Warning(fmt.Sprintf("Skipping %s", source.Name), map[string]any{"error": err.Error()})
		return outcome
	}
	outcome.Fetched = len(items)

	if len(items) == 0 {
		r.log.Warning(fmt.Sprintf("No items from %s", source.Name), nil)
		return outcome
	}

	// Persistence gets the same retry policy as the fetch.
	if _, err := withRetry(ctx, r.retries, source.Name+" staging", func(ctx context.Context) (int, error) {
		return r.scrapRepo.InsertMany(ctx, items)
	}); err != nil {
		outcome.Err = fmt.Errorf("failed to stage items for %s: %w", source.Name, err)
		return outcome
	}

	articles := make([]feed.Article, 0, len(items))
	for _, item := range items {
		article, err := r.normalizer.Normalize(item)
		if err != nil {
			r.log.Warning(fmt.Sprintf("Dropping item from %s", source.Name), map[string]any{"error": err.Error()})
			continue
		}
		articles = append(articles, *article)
	}

	inserted, err := withRetry(ctx, r.retries, source.Name+" insert", func(ctx context.Context) (int, error) {
		return r.articleRepo.InsertMany(ctx, articles)
	})
	if err != nil {
		outcome.Err = fmt.Errorf("failed to insert articles for %s: %w", source.Name, err)
		return outcome
	}
	outcome.Inserted = inserted

	r.log.Success(fmt.Sprintf("Processed %s", source.Name), map[string]any{
		"fetched":  outcome.Fetched,
		"inserted": outcome.Inserted,
	})
	return outcome
}
