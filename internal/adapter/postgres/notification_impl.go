package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/notice-crawler/internal/entity"
	"github.com/user/notice-crawler/internal/repository"
	"github.com/user/notice-crawler/pkg/utils"
)

// NotificationRepoImpl stores notifications in the `notifications` table.
type NotificationRepoImpl struct {
	db *pgxpool.Pool
}

// NewNotificationRepo creates a new instance of NotificationRepoImpl.
func NewNotificationRepo(db *pgxpool.Pool) *NotificationRepoImpl {
	return &NotificationRepoImpl{db: db}
}

// DedupKey identifies a notification by its title and source URL.
func DedupKey(title, sourceURL string) string {
	return utils.Fingerprint(title, sourceURL)
}

// Exists checks the dedup key instead of comparing the raw columns.
func (r *NotificationRepoImpl) Exists(ctx context.Context, title, sourceURL string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM notifications WHERE dedup_key = $1)`,
		DedupKey(title, sourceURL),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check notification: %w", err)
	}
	return exists, nil
}

// Save inserts n and fills in its ID and CreatedAt. A concurrent insert of the
// same notification yields repository.ErrDuplicateNotification.
func (r *NotificationRepoImpl) Save(ctx context.Context, n *entity.Notification) error {
	attrs := n.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}
	attributesJSON, err := json.Marshal(attrs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO notifications (dedup_key, job_id, title, content, summary, source_url, source_domain,
			category, item_type, attributes, word_count, reading_time, importance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (dedup_key) DO NOTHING
		RETURNING id, created_at;
	`
	err = r.db.QueryRow(ctx, query,
		DedupKey(n.Title, n.SourceURL),
		n.JobID,
		n.Title,
		n.Content,
		n.Summary,
		n.SourceURL,
		n.SourceDomain,
		n.Category,
		string(n.ItemType),
		attributesJSON,
		n.Metadata.WordCount,
		n.Metadata.ReadingTime,
		string(n.Metadata.Importance),
	).Scan(&n.ID, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// DO NOTHING returns no row.
		return repository.ErrDuplicateNotification
	}
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}
