package entity

import "time"

// PageFailure records a page that could not be fetched or extracted during a crawl.
// It mirrors the `crawl_failures` PostgreSQL table schema.
type PageFailure struct {
	ID       int64     `json:"-"`
	JobID    string    `json:"-"`
	URL      string    `json:"url"`
	Depth    int       `json:"depth"`
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failed_at"`
}
