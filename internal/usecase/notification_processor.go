package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/user/notice-crawler/internal/categorizer"
	"github.com/user/notice-crawler/internal/entity"
	"github.com/user/notice-crawler/internal/repository"
	"github.com/user/notice-crawler/internal/summarizer"
	"github.com/user/notice-crawler/pkg/metrics"
	"github.com/user/notice-crawler/pkg/utils"
)

// Summarizer produces a non-empty synopsis of a notice.
type Summarizer interface {
	Summarize(ctx context.Context, content, title string) string
}

// ProcessResult counts what happened to the items of one crawl.
type ProcessResult struct {
	Scraped int `json:"scraped"`
	New     int `json:"new"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// NotificationProcessor turns extracted items into stored notifications.
type NotificationProcessor struct {
	repo       repository.NotificationRepository
	summarizer Summarizer
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

func NewNotificationProcessor(repo repository.NotificationRepository, s Summarizer, logger *zap.Logger, m *metrics.Metrics) *NotificationProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationProcessor{repo: repo, summarizer: s, logger: logger, metrics: m}
}

// Enrich summarizes, categorizes and measures an item. It does not touch storage.
func (p *NotificationProcessor) Enrich(ctx context.Context, jobID string, item entity.ExtractedItem) *entity.Notification {
	title := strings.TrimSpace(item.Title)
	content := strings.TrimSpace(item.Content)

	return &entity.Notification{
		JobID:        jobID,
		Title:        title,
		Content:      content,
		Summary:      p.summarizer.Summarize(ctx, content, title),
		SourceURL:    item.URL,
		SourceDomain: utils.Hostname(item.URL),
		Category:     categorizer.Categorize(title, content),
		ItemType:     item.Type,
		Attributes:   item.Metadata,
		Metadata: entity.NotificationMetadata{
			WordCount:   summarizer.WordCount(content),
			ReadingTime: summarizer.ReadingTime(content),
			Importance:  summarizer.ImportanceOf(content),
		},
	}
}

// Process stores the items that are not stored yet. Items that fail are logged
// and skipped; only a cancelled context stops processing early.
func (p *NotificationProcessor) Process(ctx context.Context, jobID string, items []entity.ExtractedItem) (ProcessResult, error) {
	res := ProcessResult{Scraped: len(items)}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		title := strings.TrimSpace(item.Title)
		if title == "" {
			res.Skipped++
			continue
		}

		exists, err := p.repo.Exists(ctx, title, item.URL)
		if err != nil {
			p.logger.Error("Failed to check for existing notification", zap.String("url", item.URL), zap.Error(err))
			res.Failed++
			continue
		}
		if exists {
			res.Skipped++
			continue
		}

		n := p.Enrich(ctx, jobID, item)
		if err := p.repo.Save(ctx, n); err != nil {
			if errors.Is(err, repository.ErrDuplicateNotification) {
				res.Skipped++
				continue
			}
			p.logger.Error("Failed to save notification",
				zap.String("job_id", jobID),
				zap.String("url", item.URL),
				zap.Error(err),
			)
			res.Failed++
			continue
		}

		res.New++
		p.metrics.IncNotificationSaved()
	}
	return res, nil
}
