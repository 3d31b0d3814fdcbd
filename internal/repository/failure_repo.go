package repository

import (
	"context"

	"github.com/user/notice-crawler/internal/entity"
)

// FailureRepository defines the interface for recording pages that failed during a crawl.
type FailureRepository interface {
	// SaveAll records the failures of one scrape job.
	SaveAll(ctx context.Context, jobID string, failures []entity.PageFailure) error
}
