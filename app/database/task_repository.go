package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ TaskRepository = (*taskRepository)(nil)

type taskRepository struct {
	tasks   *mongo.Collection
	history *mongo.Collection
}

func NewTaskRepository(db *DB) TaskRepository {
	return &taskRepository{
		tasks:   db.Collection(CollectionTasks),
		history: db.Collection(CollectionScrapeHistory),
	}
}

func (r *taskRepository) Insert(ctx context.Context, task ScrapeTask) (primitive.ObjectID, error) {
	if task.Status == "" {
		task.Status = TaskStatusPending
	}
	task.CreatedAt = time.Now()

	res, err := r.tasks.InsertOne(ctx, task)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert task: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := r.tasks.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"status": status},
	})
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("task %s not found", id.Hex())
	}
	return nil
}

func (r *taskRepository) Complete(ctx context.Context, id primitive.ObjectID, stats TaskStats) error {
	_, err := r.tasks.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"status":       TaskStatusCompleted,
			"stats":        stats,
			"finishedDate": time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}
	return nil
}

func (r *taskRepository) Fail(ctx context.Context, id primitive.ObjectID, errorMessage string, stats TaskStats) error {
	_, err := r.tasks.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"status":       TaskStatusFailed,
			"errorMessage": errorMessage,
			"stats":        stats,
			"finishedDate": time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to mark task failed: %w", err)
	}
	return nil
}

func (r *taskRepository) FindAll(ctx context.Context) ([]ScrapeTask, error) {
	opts := options.Find().SetSort(bson.D{{Key: "dateTime", Value: -1}})

	cursor, err := r.tasks.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []ScrapeTask
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

func (r *taskRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*ScrapeTask, error) {
	var task ScrapeTask
	err := r.tasks.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

func (r *taskRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.tasks.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("task %s not found", id.Hex())
	}
	return nil
}

func (r *taskRepository) InsertHistory(ctx context.Context, history ScrapeHistory) error {
	if _, err := r.history.InsertOne(ctx, history); err != nil {
		return fmt.Errorf("failed to insert scrape history: %w", err)
	}
	return nil
}

func (r *taskRepository) FindHistory(ctx context.Context, limit int64) ([]ScrapeHistory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "scrapeTime", Value: -1}}).SetLimit(limit)

	cursor, err := r.history.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query scrape history: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []ScrapeHistory
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode scrape history: %w", err)
	}
	return entries, nil
}
