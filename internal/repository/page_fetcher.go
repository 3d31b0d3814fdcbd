package repository

import (
	"context"
	"errors"

	"github.com/user/notice-crawler/internal/entity"
)

var (
	// ErrFetchFailed is returned when a page could not be loaded or parsed.
	ErrFetchFailed = errors.New("page fetch failed")
	// ErrNavigationTimeout is returned when a page did not load within the navigation timeout.
	ErrNavigationTimeout = errors.New("page navigation timed out")
)

// PageFetcher is the page-fetch capability used by a crawl.
type PageFetcher interface {
	// Open acquires the fetch backend for one crawl (for example a browser instance).
	Open(ctx context.Context) (FetchSession, error)
}

// FetchSession fetches pages for a single crawl invocation.
type FetchSession interface {
	// Fetch loads a URL and returns its DOM. The caller must Close the page.
	Fetch(ctx context.Context, url string) (*entity.Page, error)
	// Close releases the backend.
	Close() error
}

// RequestHeaders are sent with every page request, next to the configured User-Agent.
var RequestHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.5",
	"DNT":                       "1",
	"Upgrade-Insecure-Requests": "1",
}
