package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names used by the pipeline.
const (
	CollectionArticles      = "articles"
	CollectionScraps        = "scraps"
	CollectionSources       = "sources"
	CollectionSourceGroups  = "sourcegroups"
	CollectionTensions      = "tensions"
	CollectionTopKeywords   = "topkeywords"
	CollectionTasks         = "eventtasks"
	CollectionScrapeHistory = "scrapehistories"
)

// DB wraps the Mongo client and the application database handle.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewConnection connects to MongoDB and verifies the connection with a ping.
func NewConnection(ctx context.Context, uri, dbName string) (*DB, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &DB{
		client: client,
		db:     client.Database(dbName),
	}, nil
}

func (d *DB) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}
