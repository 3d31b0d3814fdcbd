package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/notice-crawler/internal/entity"
)

// FailureRepoImpl records crawl failures in the `crawl_failures` table.
type FailureRepoImpl struct {
	db *pgxpool.Pool
}

// NewFailureRepo creates a new instance of FailureRepoImpl.
func NewFailureRepo(db *pgxpool.Pool) *FailureRepoImpl {
	return &FailureRepoImpl{db: db}
}

// SaveAll inserts all failures of a job in one transaction.
func (r *FailureRepoImpl) SaveAll(ctx context.Context, jobID string, failures []entity.PageFailure) error {
	if len(failures) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, f := range failures {
		batch.Queue(`INSERT INTO crawl_failures (job_id, url, depth, reason, failed_at) VALUES ($1, $2, $3, $4, $5)`,
			jobID, f.URL, f.Depth, f.Reason, f.FailedAt)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert crawl failures: %w", err)
	}

	return tx.Commit(ctx)
}
