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

var _ SourceRepository = (*sourceRepository)(nil)

type sourceRepository struct {
	collection *mongo.Collection
}

func NewSourceRepository(db *DB) SourceRepository {
	return &sourceRepository{collection: db.Collection(CollectionSources)}
}

func (r *sourceRepository) FindAll(ctx context.Context) ([]Source, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "source", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer cursor.Close(ctx)

	var sources []Source
	if err := cursor.All(ctx, &sources); err != nil {
		return nil, fmt.Errorf("failed to decode sources: %w", err)
	}
	return sources, nil
}

func (r *sourceRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Source, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to query sources by ids: %w", err)
	}
	defer cursor.Close(ctx)

	var sources []Source
	if err := cursor.All(ctx, &sources); err != nil {
		return nil, fmt.Errorf("failed to decode sources: %w", err)
	}
	return sources, nil
}

func (r *sourceRepository) FindByCategory(ctx context.Context, category string) ([]Source, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"category": category})
	if err != nil {
		return nil, fmt.Errorf("failed to query sources by category: %w", err)
	}
	defer cursor.Close(ctx)

	var sources []Source
	if err := cursor.All(ctx, &sources); err != nil {
		return nil, fmt.Errorf("failed to decode sources: %w", err)
	}
	return sources, nil
}

func (r *sourceRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			categories = append(categories, s)
		}
	}
	return categories, nil
}

func (r *sourceRepository) Insert(ctx context.Context, source Source) (primitive.ObjectID, error) {
	now := time.Now()
	source.CreatedAt = now
	source.UpdatedAt = now

	res, err := r.collection.InsertOne(ctx, source)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert source: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (r *sourceRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete source: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("source %s not found", id.Hex())
	}
	return nil
}

var _ SourceGroupRepository = (*sourceGroupRepository)(nil)

type sourceGroupRepository struct {
	collection *mongo.Collection
}

func NewSourceGroupRepository(db *DB) SourceGroupRepository {
	return &sourceGroupRepository{collection: db.Collection(CollectionSourceGroups)}
}

func (r *sourceGroupRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*SourceGroup, error) {
	var group SourceGroup
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&group)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find source group: %w", err)
	}
	return &group, nil
}

func (r *sourceGroupRepository) FindAll(ctx context.Context) ([]SourceGroup, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query source groups: %w", err)
	}
	defer cursor.Close(ctx)

	var groups []SourceGroup
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode source groups: %w", err)
	}
	return groups, nil
}

func (r *sourceGroupRepository) Upsert(ctx context.Context, name string, sourceIDs []primitive.ObjectID) (*SourceGroup, error) {
	now := time.Now()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	update := bson.M{
		"$set": bson.M{
			"sourceIds": sourceIDs,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"createdAt": now,
		},
	}

	var group SourceGroup
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"name": name}, update, opts).Decode(&group)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert source group: %w", err)
	}
	return &group, nil
}
