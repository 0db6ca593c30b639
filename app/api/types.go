package api

import (
	"context"
	"time"

	"github.com/CoDataLab/newswire/app/cache"
	"github.com/CoDataLab/newswire/app/database"
	"github.com/CoDataLab/newswire/app/feed"
	"github.com/CoDataLab/newswire/app/logger"
	"github.com/CoDataLab/newswire/app/pipeline"
	"github.com/CoDataLab/newswire/app/tasks"
)

// PodcastFetcher retrieves the audio items of one podcast feed.
type PodcastFetcher interface {
	FetchPodcast(ctx context.Context, url string) ([]feed.PodcastItem, error)
}

var _ PodcastFetcher = (*feed.Fetcher)(nil)

type Handler struct {
	articleRepo     database.ArticleRepository
	scrapRepo       database.ScrapRepository
	sourceRepo      database.SourceRepository
	sourceGroupRepo database.SourceGroupRepository
	tensionRepo     database.TensionRepository
	keywordRepo     database.KeywordReportRepository
	taskRepo        database.TaskRepository
	orchestrator    *pipeline.Orchestrator
	scheduler       tasks.TaskSchedulerInterface
	fetcher         PodcastFetcher
	cache           *cache.Cache
	log             *logger.Logger
	startedAt       time.Time
	version         string
}

type createSourceRequest struct {
	Name           string `json:"source" binding:"required"`
	URL            string `json:"url" binding:"required,url"`
	LogoURL        string `json:"logoUrl"`
	MediaBias      string `json:"mediaBias"`
	RelatedCountry string `json:"relatedCountry"`
	Type           string `json:"type"`
	Category       string `json:"category"`
	Language       string `json:"language"`
}

type upsertGroupRequest struct {
	Name      string   `json:"name" binding:"required"`
	SourceIDs []string `json:"sourceIds" binding:"required,min=1"`
}

type scheduleTaskRequest struct {
	TaskName string    `json:"taskName" binding:"required"`
	GroupID  string    `json:"groupId" binding:"required"`
	DateTime time.Time `json:"dateTime"`
}
