package repository

import (
	"context"
	"errors"

	"github.com/user/notice-crawler/internal/entity"
)

// ErrDuplicateNotification is returned by Save when an equal notification is already stored.
var ErrDuplicateNotification = errors.New("notification already exists")

// NotificationRepository defines the interface for storing processed notifications.
type NotificationRepository interface {
	// Exists reports whether a notification with the same title and source URL is already stored.
	Exists(ctx context.Context, title, sourceURL string) (bool, error)
	// Save stores a new notification and sets its ID and CreatedAt.
	Save(ctx context.Context, n *entity.Notification) error
}
