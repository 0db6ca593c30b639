package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/CoDataLab/newswire/app/feed"
)

type ArticleRepository interface {
	// InsertMany performs an unordered bulk insert tolerant of individual
	// document failures; it returns the number of documents written.
	InsertMany(ctx context.Context, articles []feed.Article) (int, error)

	// RemoveDuplicates groups by exact headline, keeps the first document
	// of each group and deletes the rest. Returns the number removed.
	RemoveDuplicates(ctx context.Context) (int64, error)

	// AverageLabel returns the mean label and article count over a date
	// range (epoch milliseconds, inclusive).
	AverageLabel(ctx context.Context, start, end int64) (float64, int64, error)

	FindByDateRange(ctx context.Context, start, end int64) ([]feed.Article, error)
	FindLatest(ctx context.Context, limit int64) ([]feed.Article, error)
	FindBySlug(ctx context.Context, slug string) (*feed.Article, error)
	FindByKeyword(ctx context.Context, keyword string, limit int64) ([]feed.Article, error)
	FindWithoutReadTime(ctx context.Context, limit int64) ([]feed.Article, error)
	SetReadTime(ctx context.Context, id primitive.ObjectID, minutes int) error
	IncrementViewCount(ctx context.Context, slug string) error
	Count(ctx context.Context) (int64, error)
}

type ScrapRepository interface {
	// InsertMany performs an unordered bulk insert tolerant of individual
	// document failures; it returns the number of documents written.
	InsertMany(ctx context.Context, items []feed.RawItem) (int, error)

	// DeleteAll clears the temporary store after a successful run.
	DeleteAll(ctx context.Context) (int64, error)

	Count(ctx context.Context) (int64, error)
}

type SourceRepository interface {
	FindAll(ctx context.Context) ([]Source, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Source, error)
	FindByCategory(ctx context.Context, category string) ([]Source, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	Insert(ctx context.Context, source Source) (primitive.ObjectID, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type SourceGroupRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*SourceGroup, error)
	FindAll(ctx context.Context) ([]SourceGroup, error)
	Upsert(ctx context.Context, name string, sourceIDs []primitive.ObjectID) (*SourceGroup, error)
}

type TensionRepository interface {
	// FindByRange returns the stored tension for an exact [start, end]
	// pair, nil when none exists. Backs the aggregate idempotency check.
	FindByRange(ctx context.Context, start, end time.Time) (*Tension, error)
	Insert(ctx context.Context, tension Tension) error
	FindLatest(ctx context.Context, limit int64) ([]Tension, error)
}

type KeywordReportRepository interface {
	// FindByRange returns the stored report for an exact [start, end]
	// pair, nil when none exists. Backs the aggregate idempotency check.
	FindByRange(ctx context.Context, start, end time.Time) (*KeywordReport, error)
	Insert(ctx context.Context, report KeywordReport) error
	FindLatest(ctx context.Context, limit int64) ([]KeywordReport, error)
}

type TaskRepository interface {
	Insert(ctx context.Context, task ScrapeTask) (primitive.ObjectID, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
	Complete(ctx context.Context, id primitive.ObjectID, stats TaskStats) error
	Fail(ctx context.Context, id primitive.ObjectID, errorMessage string, stats TaskStats) error
	FindAll(ctx context.Context) ([]ScrapeTask, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*ScrapeTask, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	InsertHistory(ctx context.Context, history ScrapeHistory) error
	FindHistory(ctx context.Context, limit int64) ([]ScrapeHistory, error)
}
