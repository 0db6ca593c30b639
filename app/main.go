package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/CoDataLab/newswire/app/analysis"
	"github.com/CoDataLab/newswire/app/api"
	"github.com/CoDataLab/newswire/app/cache"
	"github.com/CoDataLab/newswire/app/cfg"
	"github.com/CoDataLab/newswire/app/database"
	"github.com/CoDataLab/newswire/app/feed"
	"github.com/CoDataLab/newswire/app/logger"
	"github.com/CoDataLab/newswire/app/pipeline"
	"github.com/CoDataLab/newswire/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Newswire server", "version", appCfg.Version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(ctx, appCfg.MongoURI, appCfg.DBName)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close(context.Background())
	slog.Info("Connected to database", "db", appCfg.DBName)

	articleRepo := database.NewArticleRepository(db)
	scrapRepo := database.NewScrapRepository(db)
	sourceRepo := database.NewSourceRepository(db)
	sourceGroupRepo := database.NewSourceGroupRepository(db)
	tensionRepo := database.NewTensionRepository(db)
	keywordRepo := database.NewKeywordReportRepository(db)
	taskRepo := database.NewTaskRepository(db)

	var groupCache *cache.Cache
	if appCfg.RedisAddr != "" {
		groupCache, err = cache.New(ctx, appCfg.RedisAddr)
		if err != nil {
			slog.Warn("Redis unavailable, source group caching disabled", "error", err)
			groupCache = nil
		} else {
			defer groupCache.Close()
		}
	}

	pipelineLog := logger.New()

	httpClient := &http.Client{Timeout: time.Duration(appCfg.FetchTimeout) * time.Second}
	fetcher := feed.NewFetcher(httpClient, appCfg.UserAgent, time.Duration(appCfg.FetchTimeout)*time.Second)
	normalizer := feed.NewNormalizer(analysis.NewCompositeScorer(), analysis.NewExtractor())

	limiter := rate.NewLimiter(rate.Every(time.Duration(appCfg.RateLimitMinMs)*time.Millisecond), appCfg.RateLimitBurst)
	runner := pipeline.NewRunner(fetcher, normalizer, scrapRepo, articleRepo,
		pipelineLog, limiter, appCfg.SourceConcurrency, appCfg.FetchRetries)

	orchestrator := pipeline.NewOrchestrator(pipeline.OrchestratorParams{
		Runner:          runner,
		SourceRepo:      sourceRepo,
		SourceGroupRepo: sourceGroupRepo,
		ArticleRepo:     articleRepo,
		ScrapRepo:       scrapRepo,
		TensionRepo:     tensionRepo,
		KeywordRepo:     keywordRepo,
		TaskRepo:        taskRepo,
		Cache:           groupCache,
		Logger:          pipelineLog,
		TensionWindow:   time.Duration(appCfg.TensionWindow) * time.Hour,
	})

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)
	scheduler := tasks.NewScheduler(orchestrator, taskRepo, articleRepo, httpClient)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(api.HandlerParams{
		ArticleRepo:     articleRepo,
		ScrapRepo:       scrapRepo,
		SourceRepo:      sourceRepo,
		SourceGroupRepo: sourceGroupRepo,
		TensionRepo:     tensionRepo,
		KeywordRepo:     keywordRepo,
		TaskRepo:        taskRepo,
		Orchestrator:    orchestrator,
		Scheduler:       scheduler,
		Fetcher:         fetcher,
		Cache:           groupCache,
		Logger:          pipelineLog,
		Version:         appCfg.Version,
	})
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err := <-serverErrChan:
		slog.Error("Server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", "error", err)
	}

	slog.Info("Newswire server stopped")
}
