package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/notice-crawler/internal/entity"
	"github.com/user/notice-crawler/internal/repository"
)

const jobStatusPrefix = "scrape:job:"

// JobStatusRepoImpl stores job status records as JSON strings that expire after ttl.
type JobStatusRepoImpl struct {
	client *redis.Client
	ttl    time.Duration
}

// NewJobStatusRepo creates a new instance of JobStatusRepoImpl.
func NewJobStatusRepo(client *redis.Client, ttl time.Duration) *JobStatusRepoImpl {
	return &JobStatusRepoImpl{client: client, ttl: ttl}
}

func jobKey(jobID string) string {
	return jobStatusPrefix + jobID
}

// Set overwrites the status and refreshes its expiry.
func (r *JobStatusRepoImpl) Set(ctx context.Context, status *entity.ScrapeJobStatus) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, jobKey(status.JobID), payload, r.ttl).Err()
}

// Get returns repository.ErrJobNotFound for unknown or expired jobs.
func (r *JobStatusRepoImpl) Get(ctx context.Context, jobID string) (*entity.ScrapeJobStatus, error) {
	val, err := r.client.Get(ctx, jobKey(jobID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}

	var status entity.ScrapeJobStatus
	if err := json.Unmarshal(val, &status); err != nil {
		return nil, fmt.Errorf("decode job status %s: %w", jobID, err)
	}
	return &status, nil
}
