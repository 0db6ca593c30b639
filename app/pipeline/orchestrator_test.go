package pipeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/CoDataLab/newswire/app/database"
	"github.com/CoDataLab/newswire/app/feed"
	"github.com/CoDataLab/newswire/app/logger"
)

type orchestratorFixture struct {
	orchestrator *Orchestrator
	fetcher      *fakeFetcher
	articles     *fakeArticleRepo
	scraps       *fakeScrapRepo
	tensions     *fakeTensionRepo
	keywords     *fakeKeywordRepo
	tasks        *fakeTaskRepo
	groupID      primitive.ObjectID
}

func newOrchestratorFixture() *orchestratorFixture {
	sourceID := primitive.NewObjectID()
	groupID := primitive.NewObjectID()

	fetcher := newFakeFetcher()
	fetcher.items["http://a.example/feed"] = []feed.RawItem{
		{Source: "A", Title: "Breaking news story", Link: "http://a.example/1"},
	}

	articles := &fakeArticleRepo{averageLabel: 0.25, articleCount: 4, removed: 2}
	scraps := &fakeScrapRepo{}
	tensions := &fakeTensionRepo{}
	keywords := &fakeKeywordRepo{}
	tasks := newFakeTaskRepo()

	runner := NewRunner(fetcher, &fakeNormalizer{}, scraps, articles, logger.New(), nil, 3, 0)

	orchestrator := NewOrchestrator(OrchestratorParams{
		Runner: runner,
		SourceRepo: &fakeSourceRepo{sources: []database.Source{
			{ID: sourceID, Name: "A", URL: "http://a.example/feed"},
		}},
		SourceGroupRepo: &fakeSourceGroupRepo{groups: map[primitive.ObjectID]*database.SourceGroup{
			groupID: {ID: groupID, Name: "world", SourceIDs: []primitive.ObjectID{sourceID}},
		}},
		ArticleRepo:   articles,
		ScrapRepo:     scraps,
		TensionRepo:   tensions,
		KeywordRepo:   keywords,
		TaskRepo:      tasks,
		Logger:        logger.New(),
		TensionWindow: 4 * time.Hour,
	})

	return &orchestratorFixture{
		orchestrator: orchestrator,
		fetcher:      fetcher,
		articles:     articles,
		scraps:       scraps,
		tensions:     tensions,
		keywords:     keywords,
		tasks:        tasks,
		groupID:      groupID,
	}
}

func TestOrchestratorExecute(t *testing.T) {
	f := newOrchestratorFixture()

	report, err := f.orchestrator.Execute(context.Background(), f.groupID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.GroupName != "world" {
		t.Errorf("expected group name world, got %s", report.GroupName)
	}
	if report.ArticlesProcessed != 1 {
		t.Errorf("expected 1 article processed, got %d", report.ArticlesProcessed)
	}
	if report.DuplicatesRemoved != 2 {
		t.Errorf("expected 2 duplicates removed, got %d", report.DuplicatesRemoved)
	}
	if f.articles.dedupeCalls != 1 {
		t.Errorf("expected 1 dedupe pass, got %d", f.articles.dedupeCalls)
	}

	// Staging store is purged after every run.
	if count, _ := f.scraps.Count(context.Background()); count != 0 {
		t.Errorf("expected staging store to be empty, got %d items", count)
	}

	if len(f.tensions.tensions) != 1 {
		t.Fatalf("expected 1 tension document, got %d", len(f.tensions.tensions))
	}
	if f.tensions.tensions[0].Value != 0.25 {
		t.Errorf("expected tension 0.25, got %f", f.tensions.tensions[0].Value)
	}
	if len(f.keywords.reports) != 1 {
		t.Errorf("expected 1 keyword report, got %d", len(f.keywords.reports))
	}
}

func TestOrchestratorAggregatesAreIdempotentPerWindow(t *testing.T) {
	f := newOrchestratorFixture()
	ctx := context.Background()

	if _, err := f.orchestrator.Execute(ctx, f.groupID); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if _, err := f.orchestrator.Execute(ctx, f.groupID); err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	// Both runs fall in the same truncated window, so the aggregates are
	// written exactly once.
	if len(f.tensions.tensions) != 1 {
		t.Errorf("expected 1 tension document after 2 runs, got %d", len(f.tensions.tensions))
	}
	if len(f.keywords.reports) != 1 {
		t.Errorf("expected 1 keyword report after 2 runs, got %d", len(f.keywords.reports))
	}
}

func TestOrchestratorMixedSourceGroup(t *testing.T) {
	fullID := primitive.NewObjectID()
	emptyID := primitive.NewObjectID()
	deadID := primitive.NewObjectID()
	groupID := primitive.NewObjectID()

	fetcher := newFakeFetcher()
	for i := 0; i < 5; i++ {
		fetcher.items["http://full.example/feed"] = append(fetcher.items["http://full.example/feed"],
			feed.RawItem{Source: "Full", Title: fmt.Sprintf("Story %d", i), Link: fmt.Sprintf("http://full.example/%d", i)})
	}
	fetcher.items["http://empty.example/feed"] = nil
	fetcher.failures["http://dead.example/feed"] = 10

	articles := &fakeArticleRepo{}
	scraps := &fakeScrapRepo{}
	log := logger.New()

	runner := NewRunner(fetcher, &fakeNormalizer{}, scraps, articles, log, nil, 3, 0)
	orchestrator := NewOrchestrator(OrchestratorParams{
		Runner: runner,
		SourceRepo: &fakeSourceRepo{sources: []database.Source{
			{ID: fullID, Name: "Full", URL: "http://full.example/feed"},
			{ID: emptyID, Name: "Empty", URL: "http://empty.example/feed"},
			{ID: deadID, Name: "Dead", URL: "http://dead.example/feed"},
		}},
		SourceGroupRepo: &fakeSourceGroupRepo{groups: map[primitive.ObjectID]*database.SourceGroup{
			groupID: {ID: groupID, Name: "mixed", SourceIDs: []primitive.ObjectID{fullID, emptyID, deadID}},
		}},
		ArticleRepo:   articles,
		ScrapRepo:     scraps,
		TensionRepo:   &fakeTensionRepo{},
		KeywordRepo:   &fakeKeywordRepo{},
		TaskRepo:      newFakeTaskRepo(),
		Logger:        log,
		TensionWindow: 4 * time.Hour,
	})

	report, err := orchestrator.Execute(context.Background(), groupID)
	if err != nil {
		t.Fatalf("mixed batch must still complete, got %v", err)
	}

	if report.ArticlesProcessed != 5 {
		t.Errorf("expected 5 articles from the healthy source, got %d", report.ArticlesProcessed)
	}
	if len(report.Outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(report.Outcomes))
	}
	if report.Outcomes[2].Err == nil {
		t.Error("expected error outcome for the dead source")
	}

	warnings := 0
	for _, entry := range log.Entries() {
		if entry.Level == logger.LevelWarning {
			warnings++
		}
	}
	if warnings == 0 {
		t.Error("expected a warning log event for the failing sources")
	}
}

func TestOrchestratorExecuteUnknownGroup(t *testing.T) {
	f := newOrchestratorFixture()

	_, err := f.orchestrator.Execute(context.Background(), primitive.NewObjectID())
	if err == nil {
		t.Fatal("expected error for unknown group")
	}
}

func TestOrchestratorExecuteTask(t *testing.T) {
	f := newOrchestratorFixture()
	ctx := context.Background()

	taskID, err := f.tasks.Insert(ctx, database.ScrapeTask{
		TaskName:    "morning run",
		SourceGroup: "world",
		GroupID:     f.groupID,
		DateTime:    time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := f.orchestrator.ExecuteTask(ctx, taskID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	task, _ := f.tasks.FindByID(ctx, taskID)
	if task.Status != database.TaskStatusCompleted {
		t.Errorf("expected completed status, got %s", task.Status)
	}
	if task.Stats == nil {
		t.Fatal("expected stats on completed task")
	}
	if task.Stats.ArticlesProcessed != 1 {
		t.Errorf("expected 1 article processed in stats, got %d", task.Stats.ArticlesProcessed)
	}
	if task.Stats.DuplicatesRemoved != 2 {
		t.Errorf("expected 2 duplicates removed in stats, got %d", task.Stats.DuplicatesRemoved)
	}
	if task.FinishedDate == nil {
		t.Error("expected finished date on completed task")
	}

	history, _ := f.tasks.FindHistory(ctx, 10)
	if len(history) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(history))
	}
	if history[0].Name != "world" {
		t.Errorf("expected history for group world, got %s", history[0].Name)
	}
}

func TestOrchestratorExecuteTaskFailure(t *testing.T) {
	f := newOrchestratorFixture()
	ctx := context.Background()

	taskID, err := f.tasks.Insert(ctx, database.ScrapeTask{
		TaskName:    "broken run",
		SourceGroup: "missing",
		GroupID:     primitive.NewObjectID(),
		DateTime:    time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := f.orchestrator.ExecuteTask(ctx, taskID); err == nil {
		t.Fatal("expected error for task with unknown group")
	}

	task, _ := f.tasks.FindByID(ctx, taskID)
	if task.Status != database.TaskStatusFailed {
		t.Errorf("expected failed status, got %s", task.Status)
	}
	if task.ErrorMessage == "" {
		t.Error("expected error message on failed task")
	}
}
