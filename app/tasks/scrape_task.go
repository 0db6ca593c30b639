package tasks

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/CoDataLab/newswire/app/pipeline"
)

// ScrapeTask executes one stored pipeline run through the orchestrator.
type ScrapeTask struct {
	Task
	taskID       primitive.ObjectID
	orchestrator *pipeline.Orchestrator
}

func NewScrapeTask(name string, taskID primitive.ObjectID, orchestrator *pipeline.Orchestrator) *ScrapeTask {
	return &ScrapeTask{
		Task:         NewTask(TaskTypeScrape, name),
		taskID:       taskID,
		orchestrator: orchestrator,
	}
}

// DocumentID is the stored task record this run belongs to.
func (t *ScrapeTask) DocumentID() primitive.ObjectID {
	return t.taskID
}

func (t *ScrapeTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.orchestrator.ExecuteTask(ctx, t.taskID); err != nil {
		return fmt.Errorf("failed to run pipeline task %s: %w", t.taskID.Hex(), err)
	}
	return nil
}
