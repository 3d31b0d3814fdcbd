package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/notice-crawler/internal/entity"
)

func TestNotificationProcessor_Enrich(t *testing.T) {
	p := NewNotificationProcessor(newMemNotificationRepo(), stubSummarizer{}, zap.NewNop(), nil)

	item := entity.ExtractedItem{
		Title:    "  Health Ministry notice ",
		Content:  "vaccine hospital treatment " + strings.Repeat("word ", 250),
		URL:      "https://www.mohfw.gov.in/notices/1",
		Type:     entity.ItemTypeArticle,
		Metadata: map[string]string{"image_url": "https://www.mohfw.gov.in/a.png"},
	}
	n := p.Enrich(context.Background(), "job-1", item)

	assert.Equal(t, "job-1", n.JobID)
	assert.Equal(t, "Health Ministry notice", n.Title)
	assert.Equal(t, "summary of Health Ministry notice", n.Summary)
	assert.Equal(t, "health", n.Category)
	assert.Equal(t, "www.mohfw.gov.in", n.SourceDomain)
	assert.Equal(t, entity.ItemTypeArticle, n.ItemType)
	assert.Equal(t, item.Metadata, n.Attributes)
	assert.Equal(t, 253, n.Metadata.WordCount)
	assert.Equal(t, 2, n.Metadata.ReadingTime)
	assert.Equal(t, entity.ImportanceMedium, n.Metadata.Importance)
}

func TestNotificationProcessor_Process(t *testing.T) {
	repo := newMemNotificationRepo()
	p := NewNotificationProcessor(repo, stubSummarizer{}, zap.NewNop(), nil)

	items := []entity.ExtractedItem{
		{Title: "Exam schedule released", Content: "The board exam schedule is out.", URL: "https://site.gov/a"},
		{Title: "Exam schedule released", Content: "Same title and URL.", URL: "https://site.gov/a"},
		{Title: "Exam schedule released", Content: "Same title, other URL.", URL: "https://site.gov/b"},
		{Title: "   ", Content: "No title", URL: "https://site.gov/c"},
	}

	res, err := p.Process(context.Background(), "job-1", items)
	require.NoError(t, err)

	assert.Equal(t, ProcessResult{Scraped: 4, New: 2, Skipped: 2}, res)
	assert.Equal(t, 2, repo.count())

	// A second run stores nothing new.
	res, err = p.Process(context.Background(), "job-2", items)
	require.NoError(t, err)
	assert.Equal(t, 0, res.New)
	assert.Equal(t, 2, repo.count())
}

func TestNotificationProcessor_ItemErrorsAreSkipped(t *testing.T) {
	items := []entity.ExtractedItem{
		{Title: "Tender notice one", URL: "https://site.gov/1"},
		{Title: "Tender notice two", URL: "https://site.gov/2"},
	}

	t.Run("exists fails", func(t *testing.T) {
		repo := newMemNotificationRepo()
		repo.existsErr = errors.New("connection reset")
		p := NewNotificationProcessor(repo, stubSummarizer{}, zap.NewNop(), nil)

		res, err := p.Process(context.Background(), "job", items)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Failed)
	})

	t.Run("save fails", func(t *testing.T) {
		repo := newMemNotificationRepo()
		repo.saveErr = errors.New("disk full")
		p := NewNotificationProcessor(repo, stubSummarizer{}, zap.NewNop(), nil)

		res, err := p.Process(context.Background(), "job", items)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Failed)
		assert.Zero(t, res.New)
	})
}

func TestNotificationProcessor_Cancelled(t *testing.T) {
	repo := newMemNotificationRepo()
	p := NewNotificationProcessor(repo, stubSummarizer{}, zap.NewNop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Process(ctx, "job", []entity.ExtractedItem{{Title: "Anything at all", URL: "https://site.gov/"}})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, repo.count())
}
