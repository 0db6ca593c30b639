package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/CoDataLab/newswire/app/analysis"
	"github.com/CoDataLab/newswire/app/cache"
	"github.com/CoDataLab/newswire/app/database"
	"github.com/CoDataLab/newswire/app/logger"
)

// RunReport summarizes one completed pipeline run.
type RunReport struct {
	GroupName         string
	Outcomes          []SourceOutcome
	ArticlesProcessed int
	DuplicatesRemoved int64
	ScrapsPurged      int64
	Duration          time.Duration
}

// Orchestrator drives a full ingestion run: resolve the source group, fan
// out fetching, dedupe, refresh window aggregates, purge the staging store.
type Orchestrator struct {
	runner          *Runner
	sourceRepo      database.SourceRepository
	sourceGroupRepo database.SourceGroupRepository
	articleRepo     database.ArticleRepository
	scrapRepo       database.ScrapRepository
	tensionRepo     database.TensionRepository
	keywordRepo     database.KeywordReportRepository
	taskRepo        database.TaskRepository
	cache           *cache.Cache
	log             *logger.Logger
	tensionWindow   time.Duration
}

type OrchestratorParams struct {
	Runner          *Runner
	SourceRepo      database.SourceRepository
	SourceGroupRepo database.SourceGroupRepository
	ArticleRepo     database.ArticleRepository
	ScrapRepo       database.ScrapRepository
	TensionRepo     database.TensionRepository
	KeywordRepo     database.KeywordReportRepository
	TaskRepo        database.TaskRepository
	Cache           *cache.Cache
	Logger          *logger.Logger
	TensionWindow   time.Duration
}

func NewOrchestrator(p OrchestratorParams) *Orchestrator {
	return &Orchestrator{
		runner:          p.Runner,
		sourceRepo:      p.SourceRepo,
		sourceGroupRepo: p.SourceGroupRepo,
		articleRepo:     p.ArticleRepo,
		scrapRepo:       p.ScrapRepo,
		tensionRepo:     p.TensionRepo,
		keywordRepo:     p.KeywordRepo,
		taskRepo:        p.TaskRepo,
		cache:           p.Cache,
		log:             p.Logger,
		tensionWindow:   p.TensionWindow,
	}
}

// ResolveSources returns the sources of a group, served from cache when a
// recent resolution exists.
func (o *Orchestrator) ResolveSources(ctx context.Context, groupID primitive.ObjectID) (*database.SourceGroup, []database.Source, error) {
	group, err := o.sourceGroupRepo.FindByID(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	if group == nil {
		return nil, nil, fmt.Errorf("source group %s not found", groupID.Hex())
	}

	cached, hit, err := o.cache.GetSources(ctx, groupID.Hex())
	if err != nil {
		o.log.Warning("Source group cache unavailable", map[string]any{"error": err.Error()})
	}
	if hit {
		o.log.Info(fmt.Sprintf("Resolved %s from cache", group.Name), map[string]any{"sources": len(cached)})
		return group, cached, nil
	}

	sources, err := o.sourceRepo.FindByIDs(ctx, group.SourceIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(sources) == 0 {
		return nil, nil, fmt.Errorf("source group %s has no sources", group.Name)
	}

	if err := o.cache.SetSources(ctx, groupID.Hex(), sources); err != nil {
		o.log.Warning("Failed to cache source group", map[string]any{"error": err.Error()})
	}

	return group, sources, nil
}

// Execute runs the pipeline for one source group and returns its report.
// Individual source failures are recorded in the report, not returned.
func (o *Orchestrator) Execute(ctx context.Context, groupID primitive.ObjectID) (*RunReport, error) {
	started := time.Now()

	group, sources, err := o.ResolveSources(ctx, groupID)
	if err != nil {
		return nil, err
	}

	o.log.Info(fmt.Sprintf("Starting run for %s", group.Name), map[string]any{"sources": len(sources)})

	report := &RunReport{GroupName: group.Name}
	report.Outcomes = o.runner.Run(ctx, sources)
	for _, outcome := range report.Outcomes {
		report.ArticlesProcessed += outcome.Inserted
	}

	removed, err := o.articleRepo.RemoveDuplicates(ctx)
	if err != nil {
		return nil, fmt.Errorf("deduplication failed: %w", err)
	}
	report.DuplicatesRemoved = removed
	o.log.Info("Deduplication finished", map[string]any{"removed": removed})

	if err := o.refreshAggregates(ctx); err != nil {
		// Aggregates are rebuilt on the next run, the ingest still counts.
		o.log.Warning("Aggregate refresh failed", map[string]any{"error": err.Error()})
	}

	purged, err := o.scrapRepo.DeleteAll(ctx)
	if err != nil {
		o.log.Warning("Failed to purge staging store", map[string]any{"error": err.Error()})
	}
	report.ScrapsPurged = purged

	report.Duration = time.Since(started)
	o.log.Success(fmt.Sprintf("Run for %s finished", group.Name), map[string]any{
		"articles":   report.ArticlesProcessed,
		"duplicates": report.DuplicatesRemoved,
		"duration":   report.Duration.String(),
	})

	return report, nil
}

// ExecuteTask runs the pipeline for a stored task, driving its status
// through in progress to completed or failed.
func (o *Orchestrator) ExecuteTask(ctx context.Context, taskID primitive.ObjectID) error {
	task, err := o.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("task %s not found", taskID.Hex())
	}

	o.log.SetCurrentTask(taskID.Hex())
	defer o.log.SetCurrentTask("")

	if err := o.taskRepo.UpdateStatus(ctx, taskID, database.TaskStatusInProgress); err != nil {
		return err
	}

	started := time.Now()
	report, err := o.Execute(ctx, task.GroupID)
	if err != nil {
		stats := database.TaskStats{Duration: time.Since(started).Milliseconds()}
		o.log.Error(fmt.Sprintf("Task %s failed", task.TaskName), map[string]any{"error": err.Error()})
		if failErr := o.taskRepo.Fail(ctx, taskID, err.Error(), stats); failErr != nil {
			return fmt.Errorf("failed to record task failure: %w", failErr)
		}
		return err
	}

	stats := database.TaskStats{
		Duration:          report.Duration.Milliseconds(),
		ArticlesProcessed: report.ArticlesProcessed,
		DuplicatesRemoved: report.DuplicatesRemoved,
	}
	if err := o.taskRepo.Complete(ctx, taskID, stats); err != nil {
		return err
	}

	history := database.ScrapeHistory{
		ScrapeTime:   started,
		Length:       report.ArticlesProcessed,
		WaitTime:     report.Duration.Milliseconds(),
		TotalSources: len(report.Outcomes),
		Name:         report.GroupName,
	}
	if err := o.taskRepo.InsertHistory(ctx, history); err != nil {
		o.log.Warning("Failed to record scrape history", map[string]any{"error": err.Error()})
	}

	return nil
}

// refreshAggregates computes the tension value and top keyword report for
// the current window. Both are idempotent per window: an existing document
// for the exact [start, end] pair short-circuits the computation.
func (o *Orchestrator) refreshAggregates(ctx context.Context) error {
	end := time.Now().UTC().Truncate(time.Hour)
	start := end.Add(-o.tensionWindow)

	if err := o.computeTension(ctx, start, end); err != nil {
		return err
	}
	return o.computeTopKeywords(ctx, start, end)
}

func (o *Orchestrator) computeTension(ctx context.Context, start, end time.Time) error {
	existing, err := o.tensionRepo.FindByRange(ctx, start, end)
	if err != nil {
		return err
	}
	if existing != nil {
		o.log.Info("Tension already computed for window", map[string]any{"start": start, "end": end})
		return nil
	}

	average, count, err := o.articleRepo.AverageLabel(ctx, start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return err
	}
	if count == 0 {
		o.log.Info("No articles in tension window", map[string]any{"start": start, "end": end})
		return nil
	}

	tension := database.Tension{Value: average, StartDate: start, EndDate: end}
	if err := o.tensionRepo.Insert(ctx, tension); err != nil {
		return err
	}

	o.log.Success("Tension computed", map[string]any{"value": average, "articles": count})
	return nil
}

func (o *Orchestrator) computeTopKeywords(ctx context.Context, start, end time.Time) error {
	existing, err := o.keywordRepo.FindByRange(ctx, start, end)
	if err != nil {
		return err
	}
	if existing != nil {
		o.log.Info("Top keywords already computed for window", map[string]any{"start": start, "end": end})
		return nil
	}

	articles, err := o.articleRepo.FindByDateRange(ctx, start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		return nil
	}

	inputs := make([]analysis.KeywordSource, 0, len(articles))
	for _, article := range articles {
		inputs = append(inputs, analysis.KeywordSource{
			Headline: article.Headline,
			Keywords: article.Keywords,
		})
	}

	report := database.KeywordReport{
		StartDate:   start,
		EndDate:     end,
		TopKeywords: analysis.ExtractTopKeywords(inputs),
	}
	if err := o.keywordRepo.Insert(ctx, report); err != nil {
		return err
	}

	o.log.Success("Top keywords computed", map[string]any{"keywords": len(report.TopKeywords)})
	return nil
}
