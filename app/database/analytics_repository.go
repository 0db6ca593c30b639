package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ TensionRepository = (*tensionRepository)(nil)

type tensionRepository struct {
	collection *mongo.Collection
}

func NewTensionRepository(db *DB) TensionRepository {
	return &tensionRepository{collection: db.Collection(CollectionTensions)}
}

func (r *tensionRepository) FindByRange(ctx context.Context, start, end time.Time) (*Tension, error) {
	var tension Tension
	err := r.collection.FindOne(ctx, bson.M{
		"startDate": start,
		"endDate":   end,
	}).Decode(&tension)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find tension by range: %w", err)
	}
	return &tension, nil
}

func (r *tensionRepository) Insert(ctx context.Context, tension Tension) error {
	tension.CreatedAt = time.Now()
	if _, err := r.collection.InsertOne(ctx, tension); err != nil {
		return fmt.Errorf("failed to insert tension: %w", err)
	}
	return nil
}

func (r *tensionRepository) FindLatest(ctx context.Context, limit int64) ([]Tension, error) {
	opts := options.Find().SetSort(bson.D{{Key: "endDate", Value: -1}}).SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query tensions: %w", err)
	}
	defer cursor.Close(ctx)

	var tensions []Tension
	if err := cursor.All(ctx, &tensions); err != nil {
		return nil, fmt.Errorf("failed to decode tensions: %w", err)
	}
	return tensions, nil
}

var _ KeywordReportRepository = (*keywordReportRepository)(nil)

type keywordReportRepository struct {
	collection *mongo.Collection
}

func NewKeywordReportRepository(db *DB) KeywordReportRepository {
	return &keywordReportRepository{collection: db.Collection(CollectionTopKeywords)}
}

func (r *keywordReportRepository) FindByRange(ctx context.Context, start, end time.Time) (*KeywordReport, error) {
	var report KeywordReport
	err := r.collection.FindOne(ctx, bson.M{
		"startDate": start,
		"endDate":   end,
	}).Decode(&report)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find keyword report by range: %w", err)
	}
	return &report, nil
}

func (r *keywordReportRepository) Insert(ctx context.Context, report KeywordReport) error {
	report.CreatedAt = time.Now()
	if _, err := r.collection.InsertOne(ctx, report); err != nil {
		return fmt.Errorf("failed to insert keyword report: %w", err)
	}
	return nil
}

func (r *keywordReportRepository) FindLatest(ctx context.Context, limit int64) ([]KeywordReport, error) {
	opts := options.Find().SetSort(bson.D{{Key: "endDate", Value: -1}}).SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query keyword reports: %w", err)
	}
	defer cursor.Close(ctx)

	var reports []KeywordReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode keyword reports: %w", err)
	}
	return reports, nil
}
