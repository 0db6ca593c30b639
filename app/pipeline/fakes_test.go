package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/CoDataLab/newswire/app/database"
	"github.com/CoDataLab/newswire/app/feed"
)

type fakeFetcher struct {
	mu       sync.Mutex
	items    map[string][]feed.RawItem
	failures map[string]int
	calls    map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		items:    make(map[string][]feed.RawItem),
		failures: make(map[string]int),
		calls:    make(map[string]int),
	}
}

func (f *fakeFetcher) FetchItems(_ context.Context, url, sourceName string) ([]feed.RawItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[url]++
	if remaining := f.failures[url]; remaining > 0 {
		f.failures[url] = remaining - 1
		return nil, fmt.Errorf("fetch failed for %s", sourceName)
	}
	return f.items[url], nil
}

type fakeNormalizer struct {
	failTitles map[string]bool
}

func (n *fakeNormalizer) Normalize(item feed.RawItem) (*feed.Article, error) {
	if n.failTitles[item.Title] {
		return nil, errors.New("item is empty")
	}
	return &feed.Article{
		Headline:   item.Title,
		ArticleURL: item.Link,
		Source:     item.Source,
	}, nil
}

type fakeScrapRepo struct {
	mu    sync.Mutex
	items []feed.RawItem
}

func (r *fakeScrapRepo) InsertMany(_ context.Context, items []feed.RawItem) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, items...)
	return len(items), nil
}

func (r *fakeScrapRepo) DeleteAll(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.items))
	r.items = nil
	return n, nil
}

func (r *fakeScrapRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

type fakeArticleRepo struct {
	mu             sync.Mutex
	articles       []feed.Article
	averageLabel   float64
	articleCount   int64
	removed        int64
	dedupeCalls    int
	insertErr      error
	averageQueries [][2]int64
}

func (r *fakeArticleRepo) InsertMany(_ context.Context, articles []feed.Article) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return 0, r.insertErr
	}
	r.articles = append(r.articles, articles...)
	return len(articles), nil
}

func (r *fakeArticleRepo) RemoveDuplicates(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dedupeCalls++
	return r.removed, nil
}

func (r *fakeArticleRepo) AverageLabel(_ context.Context, start, end int64) (float64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.averageQueries = append(r.averageQueries, [2]int64{start, end})
	return r.averageLabel, r.articleCount, nil
}

func (r *fakeArticleRepo) FindByDateRange(context.Context, int64, int64) ([]feed.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.articles, nil
}

func (r *fakeArticleRepo) FindLatest(context.Context, int64) ([]feed.Article, error) {
	return r.articles, nil
}

func (r *fakeArticleRepo) FindBySlug(context.Context, string) (*feed.Article, error) {
	return nil, nil
}

func (r *fakeArticleRepo) FindByKeyword(context.Context, string, int64) ([]feed.Article, error) {
	return nil, nil
}

func (r *fakeArticleRepo) FindWithoutReadTime(context.Context, int64) ([]feed.Article, error) {
	return nil, nil
}

func (r *fakeArticleRepo) SetReadTime(context.Context, primitive.ObjectID, int) error {
	return nil
}

func (r *fakeArticleRepo) IncrementViewCount(context.Context, string) error {
	return nil
}

func (r *fakeArticleRepo) Count(context.Context) (int64, error) {
	return int64(len(r.articles)), nil
}

type fakeSourceRepo struct {
	sources []database.Source
}

func (r *fakeSourceRepo) FindAll(context.Context) ([]database.Source, error) {
	return r.sources, nil
}

func (r *fakeSourceRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]database.Source, error) {
	var matched []database.Source
	for _, source := range r.sources {
		for _, id := range ids {
			if source.ID == id {
				matched = append(matched, source)
			}
		}
	}
	return matched, nil
}

func (r *fakeSourceRepo) FindByCategory(context.Context, string) ([]database.Source, error) {
	return nil, nil
}

func (r *fakeSourceRepo) DistinctCategories(context.Context) ([]string, error) {
	return nil, nil
}

func (r *fakeSourceRepo) Insert(context.Context, database.Source) (primitive.ObjectID, error) {
	return primitive.NewObjectID(), nil
}

func (r *fakeSourceRepo) Delete(context.Context, primitive.ObjectID) error {
	return nil
}

type fakeSourceGroupRepo struct {
	groups map[primitive.ObjectID]*database.SourceGroup
}

func (r *fakeSourceGroupRepo) FindByID(_ context.Context, id primitive.ObjectID) (*database.SourceGroup, error) {
	return r.groups[id], nil
}

func (r *fakeSourceGroupRepo) FindAll(context.Context) ([]database.SourceGroup, error) {
	var groups []database.SourceGroup
	for _, g := range r.groups {
		groups = append(groups, *g)
	}
	return groups, nil
}

func (r *fakeSourceGroupRepo) Upsert(context.Context, string, []primitive.ObjectID) (*database.SourceGroup, error) {
	return nil, nil
}

type fakeTensionRepo struct {
	mu       sync.Mutex
	tensions []database.Tension
}

func (r *fakeTensionRepo) FindByRange(_ context.Context, start, end time.Time) (*database.Tension, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tensions {
		if r.tensions[i].StartDate.Equal(start) && r.tensions[i].EndDate.Equal(end) {
			return &r.tensions[i], nil
		}
	}
	return nil, nil
}

func (r *fakeTensionRepo) Insert(_ context.Context, tension database.Tension) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tensions = append(r.tensions, tension)
	return nil
}

func (r *fakeTensionRepo) FindLatest(context.Context, int64) ([]database.Tension, error) {
	return r.tensions, nil
}

type fakeKeywordRepo struct {
	mu      sync.Mutex
	reports []database.KeywordReport
}

func (r *fakeKeywordRepo) FindByRange(_ context.Context, start, end time.Time) (*database.KeywordReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.reports {
		if r.reports[i].StartDate.Equal(start) && r.reports[i].EndDate.Equal(end) {
			return &r.reports[i], nil
		}
	}
	return nil, nil
}

func (r *fakeKeywordRepo) Insert(_ context.Context, report database.KeywordReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
	return nil
}

func (r *fakeKeywordRepo) FindLatest(context.Context, int64) ([]database.KeywordReport, error) {
	return r.reports, nil
}

type fakeTaskRepo struct {
	mu      sync.Mutex
	tasks   map[primitive.ObjectID]*database.ScrapeTask
	history []database.ScrapeHistory
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[primitive.ObjectID]*database.ScrapeTask)}
}

func (r *fakeTaskRepo) Insert(_ context.Context, task database.ScrapeTask) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	task.ID = id
	if task.Status == "" {
		task.Status = database.TaskStatusPending
	}
	r.tasks[id] = &task
	return id, nil
}

func (r *fakeTaskRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return errors.New("task not found")
	}
	task.Status = status
	return nil
}

func (r *fakeTaskRepo) Complete(_ context.Context, id primitive.ObjectID, stats database.TaskStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return errors.New("task not found")
	}
	task.Status = database.TaskStatusCompleted
	task.Stats = &stats
	now := time.Now()
	task.FinishedDate = &now
	return nil
}

func (r *fakeTaskRepo) Fail(_ context.Context, id primitive.ObjectID, errorMessage string, stats database.TaskStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return errors.New("task not found")
	}
	task.Status = database.TaskStatusFailed
	task.ErrorMessage = errorMessage
	task.Stats = &stats
	now := time.Now()
	task.FinishedDate = &now
	return nil
}

func (r *fakeTaskRepo) FindAll(context.Context) ([]database.ScrapeTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var tasks []database.ScrapeTask
	for _, t := range r.tasks {
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

func (r *fakeTaskRepo) FindByID(_ context.Context, id primitive.ObjectID) (*database.ScrapeTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tasks[id], nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) InsertHistory(_ context.Context, history database.ScrapeHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, history)
	return nil
}

func (r *fakeTaskRepo) FindHistory(context.Context, int64) ([]database.ScrapeHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history, nil
}
