package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/CoDataLab/newswire/app/feed"
)

// duplicateBatchSize bounds how many duplicate groups are resolved per
// delete call.
const duplicateBatchSize = 100

var _ ArticleRepository = (*articleRepository)(nil)

type articleRepository struct {
	collection *mongo.Collection
}

func NewArticleRepository(db *DB) ArticleRepository {
	return &articleRepository{collection: db.Collection(CollectionArticles)}
}

func (r *articleRepository) InsertMany(ctx context.Context, articles []feed.Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, len(articles))
	for i, article := range articles {
		docs[i] = article
	}

	res, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		// Unordered inserts report per-document failures in a bulk write
		// exception; the rest of the batch still lands.
		var bulkErr mongo.BulkWriteException
		if errors.As(err, &bulkErr) {
			inserted := 0
			if res != nil {
				inserted = len(res.InsertedIDs)
			}
			slog.Warn("Partial article insert",
				"inserted", inserted,
				"failed", len(bulkErr.WriteErrors))
			return inserted, nil
		}
		return 0, fmt.Errorf("failed to insert articles: %w", err)
	}

	return len(res.InsertedIDs), nil
}

// duplicateGroup is one headline with the ids of every article carrying it.
type duplicateGroup struct {
	Headline string               `bson:"_id"`
	Docs     []primitive.ObjectID `bson:"docs"`
	Count    int                  `bson:"count"`
}

func (r *articleRepository) RemoveDuplicates(ctx context.Context) (int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$headline"},
			{Key: "docs", Value: bson.D{{Key: "$push", Value: "$_id"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "count", Value: bson.D{{Key: "$gt", Value: 1}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate duplicates: %w", err)
	}
	defer cursor.Close(ctx)

	var groups []duplicateGroup
	if err := cursor.All(ctx, &groups); err != nil {
		return 0, fmt.Errorf("failed to decode duplicate groups: %w", err)
	}

	var totalRemoved int64
	for _, idsToRemove := range batchDuplicateIDs(groups, duplicateBatchSize) {
		res, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": idsToRemove}})
		if err != nil {
			return totalRemoved, fmt.Errorf("failed to delete duplicates: %w", err)
		}
		totalRemoved += res.DeletedCount
	}

	return totalRemoved, nil
}

// batchDuplicateIDs resolves duplicate groups into delete batches. The first
// document of each group survives; groups are processed batchSize at a time.
func batchDuplicateIDs(groups []duplicateGroup, batchSize int) [][]primitive.ObjectID {
	var batches [][]primitive.ObjectID
	for start := 0; start < len(groups); start += batchSize {
		end := min(start+batchSize, len(groups))

		var idsToRemove []primitive.ObjectID
		for _, group := range groups[start:end] {
			if len(group.Docs) < 2 {
				continue
			}
			idsToRemove = append(idsToRemove, group.Docs[1:]...)
		}
		if len(idsToRemove) > 0 {
			batches = append(batches, idsToRemove)
		}
	}
	return batches
}

func (r *articleRepository) AverageLabel(ctx context.Context, start, end int64) (float64, int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "date", Value: bson.D{{Key: "$gte", Value: start}, {Key: "$lte", Value: end}}},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "averageLabel", Value: bson.D{{Key: "$avg", Value: "$label"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate labels: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		AverageLabel float64 `bson:"averageLabel"`
		Count        int64   `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, 0, fmt.Errorf("failed to decode label aggregate: %w", err)
	}

	if len(results) == 0 || results[0].Count == 0 {
		return 0, 0, nil
	}
	return results[0].AverageLabel, results[0].Count, nil
}

func (r *articleRepository) FindByDateRange(ctx context.Context, start, end int64) ([]feed.Article, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"date": bson.M{"$gte": start, "$lte": end},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query articles by date range: %w", err)
	}
	defer cursor.Close(ctx)

	var articles []feed.Article
	if err := cursor.All(ctx, &articles); err != nil {
		return nil, fmt.Errorf("failed to decode articles: %w", err)
	}
	return articles, nil
}

func (r *articleRepository) FindLatest(ctx context.Context, limit int64) ([]feed.Article, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest articles: %w", err)
	}
	defer cursor.Close(ctx)

	var articles []feed.Article
	if err := cursor.All(ctx, &articles); err != nil {
		return nil, fmt.Errorf("failed to decode articles: %w", err)
	}
	return articles, nil
}

func (r *articleRepository) FindBySlug(ctx context.Context, slug string) (*feed.Article, error) {
	var article feed.Article
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&article)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find article by slug: %w", err)
	}
	return &article, nil
}

func (r *articleRepository) FindByKeyword(ctx context.Context, keyword string, limit int64) ([]feed.Article, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{
		"keywords": bson.M{"$regex": primitive.Regex{Pattern: keyword, Options: "i"}},
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles by keyword: %w", err)
	}
	defer cursor.Close(ctx)

	var articles []feed.Article
	if err := cursor.All(ctx, &articles); err != nil {
		return nil, fmt.Errorf("failed to decode articles: %w", err)
	}
	return articles, nil
}

func (r *articleRepository) FindWithoutReadTime(ctx context.Context, limit int64) ([]feed.Article, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{
		"readTimeMinutes": bson.M{"$in": bson.A{nil, 0}},
		"articleUrl":      bson.M{"$ne": ""},
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles without read time: %w", err)
	}
	defer cursor.Close(ctx)

	var articles []feed.Article
	if err := cursor.All(ctx, &articles); err != nil {
		return nil, fmt.Errorf("failed to decode articles: %w", err)
	}
	return articles, nil
}

func (r *articleRepository) SetReadTime(ctx context.Context, id primitive.ObjectID, minutes int) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"readTimeMinutes": minutes},
	})
	if err != nil {
		return fmt.Errorf("failed to set read time: %w", err)
	}
	return nil
}

func (r *articleRepository) IncrementViewCount(ctx context.Context, slug string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"slug": slug}, bson.M{
		"$inc": bson.M{"viewCount": 1},
	})
	if err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
	}
	return nil
}

func (r *articleRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}
