package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/CoDataLab/newswire/app/cfg"
	"github.com/CoDataLab/newswire/app/database"
	"github.com/CoDataLab/newswire/app/pipeline"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	orchestrator *pipeline.Orchestrator
	taskRepo     database.TaskRepository
	articleRepo  database.ArticleRepository
	httpClient   *http.Client
	userAgent    string
	interval     time.Duration
	workerCount  int
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	taskQueue    chan TaskInterface

	// inflight holds the stored task ids currently queued or executing, so
	// a slow queue cannot make consecutive ticks enqueue the same run twice.
	inflightMu sync.Mutex
	inflight   map[primitive.ObjectID]struct{}
}

func NewScheduler(orchestrator *pipeline.Orchestrator, taskRepo database.TaskRepository,
	articleRepo database.ArticleRepository, httpClient *http.Client) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		orchestrator: orchestrator,
		taskRepo:     taskRepo,
		articleRepo:  articleRepo,
		httpClient:   httpClient,
		userAgent:    cfg.UserAgent,
		interval:     time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount:  cfg.WorkerCount,
		ctx:          ctx,
		cancel:       cancel,
		taskQueue:    make(chan TaskInterface, 300),
		inflight:     make(map[primitive.ObjectID]struct{}),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueDueTasks()
				s.enqueueReadTimeBackfill()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// enqueueDueTasks picks up stored pipeline runs whose scheduled time has
// arrived and are still pending.
func (s *Scheduler) enqueueDueTasks() {
	stored, err := s.taskRepo.FindAll(s.ctx)
	if err != nil {
		slog.Warn("Failed to load scheduled tasks", "error", err)
		return
	}

	now := time.Now()
	due := lo.Filter(stored, func(task database.ScrapeTask, _ int) bool {
		return task.Status == database.TaskStatusPending && !task.DateTime.After(now)
	})
	if len(due) == 0 {
		return
	}

	slog.Debug("Enqueueing due pipeline tasks", "count", len(due))

	for _, task := range due {
		if !s.claimTask(task.ID) {
			continue
		}
		scrapeTask := NewScrapeTask(task.TaskName, task.ID, s.orchestrator)
		if err := s.EnqueueTask(scrapeTask); err != nil {
			s.releaseTask(task.ID)
			slog.Warn("Failed to enqueue ScrapeTask", "task", task.TaskName, "error", err)
		}
	}
}

// claimTask marks a stored run as in flight. Reports false when a previous
// tick already claimed it.
func (s *Scheduler) claimTask(id primitive.ObjectID) bool {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()

	if _, claimed := s.inflight[id]; claimed {
		return false
	}
	s.inflight[id] = struct{}{}
	return true
}

func (s *Scheduler) releaseTask(id primitive.ObjectID) {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	delete(s.inflight, id)
}

// releaseClaim drops the in-flight claim of a scrape run once it reached a
// terminal outcome. Other task types carry no claim.
func (s *Scheduler) releaseClaim(task TaskInterface) {
	if scrape, ok := task.(*ScrapeTask); ok {
		s.releaseTask(scrape.DocumentID())
	}
}

func (s *Scheduler) enqueueReadTimeBackfill() {
	task := NewReadTimeTask(s.articleRepo, s.httpClient, s.userAgent)
	if err := s.EnqueueTask(task); err != nil {
		slog.Warn("Failed to enqueue ReadTimeTask", "error", err)
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err == nil {
		s.releaseClaim(task)
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		s.releaseClaim(task)
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		return
	}

	task.IncrementRetryCount()
	retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
	if retryDelay > 30*time.Second {
		retryDelay = 30 * time.Second
	}

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "label", task.GetLabel(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	// Tracked in the WaitGroup so Stop cannot close the queue while a
	// retry is still waiting to send on it.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		select {
		case <-time.After(retryDelay):
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
			s.releaseClaim(task)
			return
		}

		if retryErr := s.EnqueueTask(task); retryErr != nil {
			s.releaseClaim(task)
			slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
		}
	}()
}
