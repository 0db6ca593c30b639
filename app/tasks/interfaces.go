package tasks

// TaskSchedulerInterface defines the interface for background task
// processing. The scheduler owns a worker pool, polls the task store for
// due pipeline runs and retries failed tasks with exponential backoff.
// Example usage:
//
//	scheduler := NewScheduler(orchestrator, taskRepo, articleRepo, httpClient)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewScrapeTask(...))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
