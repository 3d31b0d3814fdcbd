package entity

import "time"

// JobState is the lifecycle state of a scrape job.
type JobState string

const (
	JobPending   JobState = "pending"
	JobRunning   JobState = "running"
	JobCompleted JobState = "completed"
	JobFailed    JobState = "failed"
)

// ScrapeJobStatus is the status record of one scrape job, stored in Redis.
type ScrapeJobStatus struct {
	JobID        string      `json:"job_id"`
	URL          string      `json:"url"`
	State        JobState    `json:"state"`
	ScrapedCount int         `json:"scraped_count"`
	NewCount     int         `json:"new_count"`
	Error        string      `json:"error,omitempty"`
	Stats        *CrawlStats `json:"stats,omitempty"`
	SubmittedAt  time.Time   `json:"submitted_at"`
	FinishedAt   *time.Time  `json:"finished_at,omitempty"`
}
