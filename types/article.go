package types

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Category buckets articles by topic for digest balancing.
type Category string

const (
	CategoryFunding Category = "funding"
	CategoryNews    Category = "news"
	CategoryWire    Category = "wire"
)

// FeedSource describes one configured syndication feed.
// Lower Priority wins when two sources carry the same story.
type FeedSource struct {
	Name     string   `json:"name"`
	URL      string   `json:"url"`
	Category Category `json:"category"`
	Priority int      `json:"priority"`
}

// Article is a single normalized feed entry. Articles are ephemeral:
// they live for one digest run and are never persisted.
type Article struct {
	Title          string    `json:"title"`
	Link           string    `json:"link"`
	PublishedAt    time.Time `json:"published_at"`
	BodySnippet    string    `json:"body_snippet"`
	SourceName     string    `json:"source_name"`
	SourceCategory Category  `json:"source_category"`
	SourcePriority int       `json:"source_priority"`
	Category       Category  `json:"category,omitempty"`
}

// GenerateID creates a short, stable ID by hashing the provided string input
func GenerateID(input string) string {
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:16]
}
