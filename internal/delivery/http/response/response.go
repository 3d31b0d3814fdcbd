package response

import (
	"time"

	"github.com/user/notice-crawler/internal/entity"
)

type SubmitScrapeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	JobID   string `json:"job_id"`
}

// ScrapeStatusResponse is a DTO for job status, mirroring entity.ScrapeJobStatus
type ScrapeStatusResponse struct {
	JobID        string             `json:"job_id"`
	URL          string             `json:"url"`
	Status       string             `json:"status"` // "pending", "running", "completed", "failed"
	ScrapedCount int                `json:"scraped_count"`
	NewCount     int                `json:"new_count"`
	Error        string             `json:"error,omitempty"`
	Stats        *entity.CrawlStats `json:"stats,omitempty"`
	SubmittedAt  time.Time          `json:"submitted_at"`
	FinishedAt   *time.Time         `json:"finished_at,omitempty"`
}

func FromJobStatus(s *entity.ScrapeJobStatus) ScrapeStatusResponse {
	return ScrapeStatusResponse{
		JobID:        s.JobID,
		URL:          s.URL,
		Status:       string(s.State),
		ScrapedCount: s.ScrapedCount,
		NewCount:     s.NewCount,
		Error:        s.Error,
		Stats:        s.Stats,
		SubmittedAt:  s.SubmittedAt,
		FinishedAt:   s.FinishedAt,
	}
}
