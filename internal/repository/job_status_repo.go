package repository

import (
	"context"
	"errors"

	"github.com/user/notice-crawler/internal/entity"
)

// ErrJobNotFound is returned when no status exists for a job ID.
var ErrJobNotFound = errors.New("scrape job not found")

// JobStatusRepository stores scrape job status records.
type JobStatusRepository interface {
	// Set writes the status of a job, replacing any previous record.
	Set(ctx context.Context, status *entity.ScrapeJobStatus) error
	// Get returns the status of a job or ErrJobNotFound.
	Get(ctx context.Context, jobID string) (*entity.ScrapeJobStatus, error)
}
