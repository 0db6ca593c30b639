package database

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/CoDataLab/newswire/app/analysis"
)

// Source is a configured feed endpoint. Immutable during a pipeline run;
// owned by the admin surface.
type Source struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name           string             `bson:"source" json:"source"`
	URL            string             `bson:"url" json:"url"`
	LogoURL        string             `bson:"logoUrl,omitempty" json:"logoUrl,omitempty"`
	MediaBias      string             `bson:"mediaBias" json:"mediaBias"`
	RelatedCountry string             `bson:"relatedCountry" json:"relatedCountry"`
	Type           string             `bson:"type" json:"type"`
	Category       string             `bson:"category" json:"category"`
	Language       string             `bson:"language,omitempty" json:"language,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SourceGroup is a named collection of sources processed together in one
// pipeline run.
type SourceGroup struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string               `bson:"name" json:"name"`
	SourceIDs []primitive.ObjectID `bson:"sourceIds" json:"sourceIds"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Tension is the mean article label over a time window.
type Tension struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Value     float64            `bson:"value" json:"value"`
	StartDate time.Time          `bson:"startDate" json:"startDate"`
	EndDate   time.Time          `bson:"endDate" json:"endDate"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// KeywordReport stores the top keywords extracted over a time window.
type KeywordReport struct {
	ID          primitive.ObjectID      `bson:"_id,omitempty" json:"id,omitempty"`
	StartDate   time.Time               `bson:"startDate" json:"startDate"`
	EndDate     time.Time               `bson:"endDate" json:"endDate"`
	TopKeywords []analysis.KeywordCount `bson:"topKeywords" json:"topKeywords"`
	CreatedAt   time.Time               `bson:"createdAt" json:"createdAt"`
}

// Task status values. A run is created pending, moves to in progress when
// the pipeline picks it up, and terminates completed or failed.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in progress"
	TaskStatusCompleted  = "completed"
	TaskStatusFailed     = "failed"
)

// TaskStats carries the aggregate statistics of one pipeline run.
type TaskStats struct {
	Duration          int64 `bson:"duration" json:"duration"`
	ArticlesProcessed int   `bson:"articlesProcessed" json:"articlesProcessed"`
	DuplicatesRemoved int64 `bson:"duplicatesRemoved" json:"duplicatesRemoved"`
}

// ScrapeTask is one scheduled or on-demand pipeline run.
type ScrapeTask struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TaskName     string             `bson:"taskName" json:"taskName"`
	DateTime     time.Time          `bson:"dateTime" json:"dateTime"`
	SourceGroup  string             `bson:"sourceGroup" json:"sourceGroup"`
	GroupID      primitive.ObjectID `bson:"groupId,omitempty" json:"groupId,omitempty"`
	Status       string             `bson:"status" json:"status"`
	ErrorMessage string             `bson:"errorMessage,omitempty" json:"errorMessage,omitempty"`
	Stats        *TaskStats         `bson:"stats,omitempty" json:"stats,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	FinishedDate *time.Time         `bson:"finishedDate,omitempty" json:"finishedDate,omitempty"`
}

// ScrapeHistory records one completed run for the dashboard.
type ScrapeHistory struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ScrapeTime   time.Time          `bson:"scrapeTime" json:"scrapeTime"`
	Length       int                `bson:"length" json:"length"`
	WaitTime     int64              `bson:"waitTime" json:"waitTime"`
	TotalSources int                `bson:"totalSources" json:"totalSources"`
	Name         string             `bson:"name" json:"name"`
}
