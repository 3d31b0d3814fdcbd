package http_fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/user/notice-crawler/internal/entity"
	"github.com/user/notice-crawler/internal/repository"
)

const maxBodySize = 5 << 20

// Config holds the HTTP client settings.
type Config struct {
	UserAgent       string
	PageLoadTimeout time.Duration
}

// HTTPFetcher downloads static HTML without rendering scripts.
type HTTPFetcher struct {
	client *http.Client
	cfg    Config
	logger *zap.Logger
}

// NewHTTPFetcher creates a page fetcher backed by net/http. A nil client uses
// a default client; the timeout is applied per request.
func NewHTTPFetcher(client *http.Client, cfg Config, logger *zap.Logger) *HTTPFetcher {
	if client == nil {
		client = &http.Client{}
	}
	if cfg.PageLoadTimeout <= 0 {
		cfg.PageLoadTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPFetcher{client: client, cfg: cfg, logger: logger}
}

// Open returns the fetcher itself; plain HTTP needs no per-crawl resources.
func (f *HTTPFetcher) Open(ctx context.Context) (repository.FetchSession, error) {
	return f, nil
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*entity.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.PageLoadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", repository.ErrFetchFailed, rawURL, err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	for k, v := range repository.RequestHeaders {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %s after %s", repository.ErrNavigationTimeout, rawURL, f.cfg.PageLoadTimeout)
		}
		return nil, fmt.Errorf("%w: %s: %w", repository.ErrFetchFailed, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: status code %d", repository.ErrFetchFailed, rawURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %s after %s", repository.ErrNavigationTimeout, rawURL, f.cfg.PageLoadTimeout)
		}
		return nil, fmt.Errorf("%w: parsing %s: %w", repository.ErrFetchFailed, rawURL, err)
	}

	f.logger.Debug("Fetched page", zap.String("url", rawURL), zap.Int("status", resp.StatusCode))
	// The final URL after redirects is the base for relative links.
	return entity.NewPage(resp.Request.URL, doc, nil), nil
}

// Close is a no-op.
func (f *HTTPFetcher) Close() error {
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
