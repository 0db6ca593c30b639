package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-shiori/go-readability"

	"github.com/CoDataLab/newswire/app/database"
)

const (
	readTimeBatchSize = 10
	wordsPerMinute    = 200
	maxArticleSize    = 5 * 1024 * 1024
)

// ReadTimeTask backfills read-time estimates for articles that were
// ingested without one. Each pass handles a small batch; the scheduler
// re-enqueues the task on its regular interval.
type ReadTimeTask struct {
	Task
	articleRepo database.ArticleRepository
	httpClient  *http.Client
	userAgent   string
}

func NewReadTimeTask(articleRepo database.ArticleRepository, httpClient *http.Client, userAgent string) *ReadTimeTask {
	return &ReadTimeTask{
		Task:        NewTask(TaskTypeReadTime, "read time backfill"),
		articleRepo: articleRepo,
		httpClient:  httpClient,
		userAgent:   userAgent,
	}
}

func (t *ReadTimeTask) Execute(ctx context.Context) error {
	articles, err := t.articleRepo.FindWithoutReadTime(ctx, readTimeBatchSize)
	if err != nil {
		return fmt.Errorf("failed to load articles without read time: %w", err)
	}
	if len(articles) == 0 {
		return nil
	}

	for _, article := range articles {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		minutes, err := t.estimateArticle(ctx, article.ArticleURL)
		if err != nil {
			slog.Debug("Read time estimation failed", "url", article.ArticleURL, "error", err)
			// Mark the article so it is not retried on every pass.
			minutes = 1
		}

		if err := t.articleRepo.SetReadTime(ctx, article.ID, minutes); err != nil {
			return fmt.Errorf("failed to store read time: %w", err)
		}
	}

	slog.Debug("Read time backfill pass finished", "articles", len(articles))
	return nil
}

func (t *ReadTimeTask) estimateArticle(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArticleSize))
	if err != nil {
		return 0, fmt.Errorf("failed to read article body: %w", err)
	}

	parsed, err := readability.FromReader(strings.NewReader(string(data)), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to extract article content: %w", err)
	}

	return EstimateReadTime(parsed.TextContent), nil
}

// EstimateReadTime converts extracted article text into whole minutes at a
// fixed reading speed. Any non-empty text yields at least one minute.
func EstimateReadTime(text string) int {
	words := len(strings.Fields(text))
	minutes := words / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
