package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/CoDataLab/newswire/app/feed"
)

var _ ScrapRepository = (*scrapRepository)(nil)

// scrapRepository stores raw feed items in the staging collection that is
// purged at the end of every pipeline run.
type scrapRepository struct {
	collection *mongo.Collection
}

func NewScrapRepository(db *DB) ScrapRepository {
	return &scrapRepository{collection: db.Collection(CollectionScraps)}
}

func (r *scrapRepository) InsertMany(ctx context.Context, items []feed.RawItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, len(items))
	for i, item := range items {
		docs[i] = item
	}

	res, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		var bulkErr mongo.BulkWriteException
		if errors.As(err, &bulkErr) {
			inserted := 0
			if res != nil {
				inserted = len(res.InsertedIDs)
			}
			slog.Warn("Partial raw item insert",
				"inserted", inserted,
				"failed", len(bulkErr.WriteErrors))
			return inserted, nil
		}
		return 0, fmt.Errorf("failed to insert raw items: %w", err)
	}

	return len(res.InsertedIDs), nil
}

func (r *scrapRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to purge raw items: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *scrapRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count raw items: %w", err)
	}
	return count, nil
}
