package feed

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RawItem is the fetcher's output for one feed entry, prior to
// normalization. Creator, author, publisher and credit arrive in whatever
// shape the publisher chose (string, wrapped object, JSON-encoded string)
// and are kept as-is until normalization coerces them.
type RawItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Source      string             `bson:"source" json:"source"`
	Title       string             `bson:"title" json:"title"`
	Link        string             `bson:"link" json:"link"`
	Description string             `bson:"description" json:"description"`
	ImageURL    string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Creator     any                `bson:"creator,omitempty" json:"creator,omitempty"`
	Author      any                `bson:"author,omitempty" json:"author,omitempty"`
	Publisher   any                `bson:"publisher,omitempty" json:"publisher,omitempty"`
	Credit      any                `bson:"credit,omitempty" json:"credit,omitempty"`
	PubDate     string             `bson:"pubDate,omitempty" json:"pubDate,omitempty"`
	Published   *time.Time         `bson:"date,omitempty" json:"date,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"-"`
}

// Article is the canonical, sentiment-scored record served to the API.
// Date is epoch milliseconds; nil means the publication date could not be
// parsed and date-scoped queries will skip the record.
type Article struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Headline        string             `bson:"headline" json:"headline"`
	ArticleURL      string             `bson:"articleUrl" json:"articleUrl"`
	Description     string             `bson:"description" json:"description"`
	Date            *int64             `bson:"date" json:"date"`
	ImageURL        string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Source          string             `bson:"source" json:"source"`
	Credit          string             `bson:"credit,omitempty" json:"credit,omitempty"`
	Author          string             `bson:"author,omitempty" json:"author,omitempty"`
	Publisher       string             `bson:"publisher,omitempty" json:"publisher,omitempty"`
	Keywords        string             `bson:"keywords" json:"keywords"`
	Slug            string             `bson:"slug" json:"slug"`
	Label           float64            `bson:"label" json:"label"`
	ReadTimeMinutes int                `bson:"readTimeMinutes,omitempty" json:"readTimeMinutes,omitempty"`
	ViewCount       int                `bson:"viewCount" json:"viewCount"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

// PodcastItem is one entry of a podcast feed. Items without an enclosure
// audio URL are dropped at parse time.
type PodcastItem struct {
	Headline   string `bson:"headline" json:"headline"`
	Date       string `bson:"date" json:"date"`
	ArticleURL string `bson:"articleUrl" json:"articleUrl"`
	AudioURL   string `bson:"audioUrl" json:"audioUrl"`
}
