package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer creates the HTTP server with all routes configured.
func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-API-Key, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler, apiAccessKey)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, apiAccessKey string) {
	// Public read surface
	r.GET("/articles/latest", handler.GetLatestArticles)
	r.GET("/articles/slug/:slug", handler.GetArticleBySlug)
	r.GET("/articles/keyword/:keyword", handler.GetArticlesByKeyword)
	r.POST("/articles/slug/:slug/view", handler.IncrementArticleView)
	r.GET("/tension/latest", handler.GetLatestTensions)
	r.GET("/keywords/top", handler.GetTopKeywords)

	// Health and status endpoints
	r.GET("/health", handler.HealthCheck)
	r.GET("/stats", handler.GetStats)

	// Admin endpoints (conditionally enabled with authentication)
	if apiAccessKey != "" {
		api := r.Group("/api")
		api.Use(authMiddleware(apiAccessKey))
		{
			api.GET("/sources", handler.ListSources)
			api.GET("/sources/categories", handler.ListSourceCategories)
			api.GET("/sources/category/:category", handler.GetSourcesByCategory)
			api.POST("/sources", handler.CreateSource)
			api.DELETE("/sources/:id", handler.DeleteSource)

			api.GET("/source-groups", handler.ListSourceGroups)
			api.POST("/source-groups", handler.UpsertSourceGroup)
			api.POST("/source-groups/rebuild", handler.RebuildSourceGroups)

			api.GET("/scrap/count", handler.GetScrapCount)
			api.DELETE("/scrap", handler.PurgeScraps)

			api.GET("/tasks", handler.ListTasks)
			api.POST("/tasks", handler.ScheduleTask)
			api.POST("/tasks/:id/execute", handler.ExecuteTask)
			api.DELETE("/tasks/:id", handler.DeleteTask)
			api.GET("/tasks/history", handler.GetScrapeHistory)

			api.GET("/podcast", handler.GetPodcastItems)

			api.GET("/logs", handler.GetLogHistory)
			api.DELETE("/logs", handler.ClearLogHistory)
			api.GET("/logs/stream", handler.StreamLogs)
		}
		slog.Info("Admin endpoints enabled with authentication")
	} else {
		slog.Info("Admin endpoints disabled (API_ACCESS_KEY not set)")
	}

	r.GET("/", func(c *gin.Context) {
		endpoints := map[string]string{
			"latest_articles": "/articles/latest",
			"article":         "/articles/slug/<slug>",
			"by_keyword":      "/articles/keyword/<keyword>",
			"tension":         "/tension/latest",
			"top_keywords":    "/keywords/top",
			"health":          "/health",
			"stats":           "/stats",
		}

		if apiAccessKey != "" {
			endpoints["sources"] = "/api/sources (requires X-API-Key header)"
			endpoints["source_groups"] = "/api/source-groups (requires X-API-Key header)"
			endpoints["tasks"] = "/api/tasks (requires X-API-Key header)"
			endpoints["logs"] = "/api/logs (requires X-API-Key header)"
		}

		c.JSON(200, gin.H{
			"service":     "Newswire",
			"version":     handler.version,
			"description": "News feed ingestion pipeline with normalization, sentiment scoring and deduplication",
			"endpoints":   endpoints,
			"api_status": map[string]interface{}{
				"enabled":       apiAccessKey != "",
				"auth_required": apiAccessKey != "",
				"header":        "X-API-Key",
			},
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}

// authMiddleware creates authentication middleware for admin endpoints
func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader("X-API-Key")

		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "API key required",
				"message": "Provide API key in X-API-Key header or Authorization: Bearer <key>",
			})
			c.Abort()
			return
		}

		if providedKey != apiAccessKey {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid API key",
				"message": "The provided API key is not valid",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
