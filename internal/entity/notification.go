package entity

import "time"

// Importance buckets a notification by length.
type Importance string

const (
	ImportanceLow    Importance = "low"
	ImportanceMedium Importance = "medium"
	ImportanceHigh   Importance = "high"
)

// NotificationMetadata holds the text statistics computed for a notification.
type NotificationMetadata struct {
	WordCount   int        `json:"word_count"`
	ReadingTime int        `json:"reading_time"` // minutes
	Importance  Importance `json:"importance"`
}

// Notification mirrors the `notifications` PostgreSQL table schema.
type Notification struct {
	ID           int64                `json:"id"`
	JobID        string               `json:"job_id"`
	Title        string               `json:"title"`
	Content      string               `json:"content"`
	Summary      string               `json:"summary"`
	SourceURL    string               `json:"source_url"`
	SourceDomain string               `json:"source_domain"`
	Category     string               `json:"category"`
	ItemType     ItemType             `json:"item_type"`
	Attributes   map[string]string    `json:"attributes,omitempty"` // Stored as JSONB in PostgreSQL
	Metadata     NotificationMetadata `json:"metadata"`
	CreatedAt    time.Time            `json:"created_at"`
}
