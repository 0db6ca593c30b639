package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/CoDataLab/newswire/app/cache"
	"github.com/CoDataLab/newswire/app/database"
	"github.com/CoDataLab/newswire/app/logger"
	"github.com/CoDataLab/newswire/app/pipeline"
	"github.com/CoDataLab/newswire/app/tasks"
)

const defaultArticleLimit = 20

type HandlerParams struct {
	ArticleRepo     database.ArticleRepository
	ScrapRepo       database.ScrapRepository
	SourceRepo      database.SourceRepository
	SourceGroupRepo database.SourceGroupRepository
	TensionRepo     database.TensionRepository
	KeywordRepo     database.KeywordReportRepository
	TaskRepo        database.TaskRepository
	Orchestrator    *pipeline.Orchestrator
	Scheduler       tasks.TaskSchedulerInterface
	Fetcher         PodcastFetcher
	Cache           *cache.Cache
	Logger          *logger.Logger
	Version         string
}

func NewHandler(p HandlerParams) *Handler {
	return &Handler{
		articleRepo:     p.ArticleRepo,
		scrapRepo:       p.ScrapRepo,
		sourceRepo:      p.SourceRepo,
		sourceGroupRepo: p.SourceGroupRepo,
		tensionRepo:     p.TensionRepo,
		keywordRepo:     p.KeywordRepo,
		taskRepo:        p.TaskRepo,
		orchestrator:    p.Orchestrator,
		scheduler:       p.Scheduler,
		fetcher:         p.Fetcher,
		cache:           p.Cache,
		log:             p.Logger,
		startedAt:       time.Now(),
		version:         p.Version,
	}
}

func limitParam(c *gin.Context) int64 {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", strconv.Itoa(defaultArticleLimit)), 10, 64)
	if err != nil || limit < 1 || limit > 100 {
		return defaultArticleLimit
	}
	return limit
}

func (h *Handler) GetLatestArticles(c *gin.Context) {
	articles, err := h.articleRepo.FindLatest(c.Request.Context(), limitParam(c))
	if err != nil {
		slog.Error("Database error", "operation", "latest_articles", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, articles)
}

func (h *Handler) GetArticleBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	article, err := h.articleRepo.FindBySlug(c.Request.Context(), slug)
	if err != nil {
		slog.Error("Database error", "operation", "article_by_slug", "slug", slug, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	c.JSON(http.StatusOK, article)
}

func (h *Handler) GetArticlesByKeyword(c *gin.Context) {
	keyword := c.Param("keyword")
	if keyword == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	articles, err := h.articleRepo.FindByKeyword(c.Request.Context(), keyword, limitParam(c))
	if err != nil {
		slog.Error("Database error", "operation", "articles_by_keyword", "keyword", keyword, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, articles)
}

func (h *Handler) IncrementArticleView(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.articleRepo.IncrementViewCount(c.Request.Context(), slug); err != nil {
		slog.Error("Database error", "operation", "increment_view", "slug", slug, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetLatestTensions(c *gin.Context) {
	tensions, err := h.tensionRepo.FindLatest(c.Request.Context(), limitParam(c))
	if err != nil {
		slog.Error("Database error", "operation", "latest_tensions", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, tensions)
}

func (h *Handler) GetTopKeywords(c *gin.Context) {
	reports, err := h.keywordRepo.FindLatest(c.Request.Context(), limitParam(c))
	if err != nil {
		slog.Error("Database error", "operation", "top_keywords", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (h *Handler) ListSources(c *gin.Context) {
	sources, err := h.sourceRepo.FindAll(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "list_sources", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sources": sources, "count": len(sources)})
}

func (h *Handler) ListSourceCategories(c *gin.Context) {
	categories, err := h.sourceRepo.DistinctCategories(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "list_categories", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) GetSourcesByCategory(c *gin.Context) {
	category := c.Param("category")
	sources, err := h.sourceRepo.FindByCategory(c.Request.Context(), category)
	if err != nil {
		slog.Error("Database error", "operation", "sources_by_category", "category", category, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sources": sources, "count": len(sources)})
}

func (h *Handler) CreateSource(c *gin.Context) {
	var req createSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	source := database.Source{
		Name:           req.Name,
		URL:            req.URL,
		LogoURL:        req.LogoURL,
		MediaBias:      req.MediaBias,
		RelatedCountry: req.RelatedCountry,
		Type:           req.Type,
		Category:       req.Category,
		Language:       req.Language,
	}

	id, err := h.sourceRepo.Insert(c.Request.Context(), source)
	if err != nil {
		slog.Error("Database error", "operation", "create_source", "source", req.Name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.Hex()})
}

func (h *Handler) DeleteSource(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source id"})
		return
	}

	if err := h.sourceRepo.Delete(c.Request.Context(), id); err != nil {
		slog.Error("Database error", "operation", "delete_source", "id", id.Hex(), "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListSourceGroups(c *gin.Context) {
	groups, err := h.sourceGroupRepo.FindAll(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "list_source_groups", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups, "count": len(groups)})
}

func (h *Handler) UpsertSourceGroup(c *gin.Context) {
	var req upsertGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sourceIDs := make([]primitive.ObjectID, 0, len(req.SourceIDs))
	for _, raw := range req.SourceIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source id: " + raw})
			return
		}
		sourceIDs = append(sourceIDs, id)
	}

	group, err := h.sourceGroupRepo.Upsert(c.Request.Context(), req.Name, sourceIDs)
	if err != nil {
		slog.Error("Database error", "operation", "upsert_source_group", "group", req.Name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	// Group membership changed, drop the cached resolution.
	if err := h.cache.Delete(c.Request.Context(), cache.SourceGroupKey(group.ID.Hex())); err != nil {
		slog.Warn("Failed to invalidate source group cache", "group", req.Name, "error", err)
	}

	c.JSON(http.StatusOK, group)
}

const allSourcesGroupName = "All Sources"

// RebuildSourceGroups maintains one group per source category, plus a group
// spanning every source. Existing groups with the same name are updated in
// place and their cached resolutions dropped.
func (h *Handler) RebuildSourceGroups(c *gin.Context) {
	ctx := c.Request.Context()

	sources, err := h.sourceRepo.FindAll(ctx)
	if err != nil {
		slog.Error("Database error", "operation", "rebuild_source_groups", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(sources) == 0 {
		c.JSON(http.StatusOK, gin.H{"groups": []string{}, "count": 0})
		return
	}

	allIDs := make([]primitive.ObjectID, 0, len(sources))
	byCategory := make(map[string][]primitive.ObjectID)
	categories := make([]string, 0)
	for _, source := range sources {
		allIDs = append(allIDs, source.ID)
		if source.Category == "" {
			continue
		}
		if _, seen := byCategory[source.Category]; !seen {
			categories = append(categories, source.Category)
		}
		byCategory[source.Category] = append(byCategory[source.Category], source.ID)
	}

	rebuilt := make([]string, 0, len(categories)+1)
	for _, category := range categories {
		if !h.rebuildGroup(c, category, byCategory[category]) {
			return
		}
		rebuilt = append(rebuilt, category)
	}
	if !h.rebuildGroup(c, allSourcesGroupName, allIDs) {
		return
	}
	rebuilt = append(rebuilt, allSourcesGroupName)

	c.JSON(http.StatusOK, gin.H{"groups": rebuilt, "count": len(rebuilt)})
}

// rebuildGroup upserts one named group and invalidates its cache entry. On
// failure it writes the error response and reports false.
func (h *Handler) rebuildGroup(c *gin.Context, name string, sourceIDs []primitive.ObjectID) bool {
	ctx := c.Request.Context()

	group, err := h.sourceGroupRepo.Upsert(ctx, name, sourceIDs)
	if err != nil {
		slog.Error("Database error", "operation", "rebuild_source_groups", "group", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return false
	}

	if err := h.cache.Delete(ctx, cache.SourceGroupKey(group.ID.Hex())); err != nil {
		slog.Warn("Failed to invalidate source group cache", "group", name, "error", err)
	}
	return true
}

func (h *Handler) GetScrapCount(c *gin.Context) {
	count, err := h.scrapRepo.Count(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "scrap_count", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *Handler) PurgeScraps(c *gin.Context) {
	deleted, err := h.scrapRepo.DeleteAll(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "purge_scraps", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (h *Handler) GetPodcastItems(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url query parameter required"})
		return
	}

	items, err := h.fetcher.FetchPodcast(c.Request.Context(), url)
	if err != nil {
		slog.Error("Podcast fetch failed", "url", url, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch podcast feed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	health := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(h.startedAt).String(),
		"version":   h.version,
		"cache":     h.cache.Health(c.Request.Context()),
	}
	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	articleCount, err := h.articleRepo.Count(ctx)
	if err != nil {
		slog.Error("Database error", "operation", "stats", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	scrapCount, err := h.scrapRepo.Count(ctx)
	if err != nil {
		slog.Error("Database error", "operation", "stats", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": articleCount,
		"scraps":   scrapCount,
		"uptime":   time.Since(h.startedAt).String(),
		"version":  h.version,
	})
}
