package chromedp_fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/user/notice-crawler/internal/entity"
	"github.com/user/notice-crawler/internal/repository"
)

// Config holds the browser settings.
type Config struct {
	UserAgent       string
	ExecPath        string // empty uses the chromedp default lookup
	PageLoadTimeout time.Duration
}

// ChromedpFetcher renders pages in headless Chrome.
type ChromedpFetcher struct {
	cfg    Config
	logger *zap.Logger
}

// NewChromedpFetcher creates a page fetcher backed by chromedp.
func NewChromedpFetcher(cfg Config, logger *zap.Logger) repository.PageFetcher {
	if cfg.PageLoadTimeout <= 0 {
		cfg.PageLoadTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChromedpFetcher{cfg: cfg, logger: logger}
}

// Open starts one browser for a crawl. Each fetched page gets its own tab.
func (f *ChromedpFetcher) Open(ctx context.Context) (repository.FetchSession, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(f.cfg.UserAgent),
	)
	if f.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(f.cfg.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(f.logger.Sugar().Debugf))

	// Run with no actions launches the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	headers := make(network.Headers, len(repository.RequestHeaders))
	for k, v := range repository.RequestHeaders {
		headers[k] = v
	}

	return &browserSession{
		browserCtx: browserCtx,
		cancel: func() {
			browserCancel()
			allocCancel()
		},
		headers: headers,
		timeout: f.cfg.PageLoadTimeout,
		logger:  f.logger,
	}, nil
}

type browserSession struct {
	browserCtx context.Context
	cancel     context.CancelFunc
	headers    network.Headers
	timeout    time.Duration
	logger     *zap.Logger
}

// Fetch opens rawURL in a new tab. The tab stays open until the page is closed.
func (s *browserSession) Fetch(ctx context.Context, rawURL string) (*entity.Page, error) {
	tabCtx, closeTab := chromedp.NewContext(s.browserCtx)
	runCtx, cancelRun := context.WithTimeout(tabCtx, s.timeout)
	defer cancelRun()

	// Cancelling the crawl aborts the navigation.
	stop := context.AfterFunc(ctx, cancelRun)
	defer stop()

	var (
		location string
		html     string
	)
	err := chromedp.Run(runCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(s.headers),
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		closeTab()
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s after %s", repository.ErrNavigationTimeout, rawURL, s.timeout)
		}
		return nil, fmt.Errorf("%w: %s: %w", repository.ErrFetchFailed, rawURL, err)
	}

	pageURL, err := url.Parse(location)
	if err != nil || location == "" {
		pageURL, err = url.Parse(rawURL)
		if err != nil {
			closeTab()
			return nil, fmt.Errorf("%w: %s: %w", repository.ErrFetchFailed, rawURL, err)
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		closeTab()
		return nil, fmt.Errorf("%w: parsing %s: %w", repository.ErrFetchFailed, rawURL, err)
	}

	s.logger.Debug("Fetched page", zap.String("url", rawURL), zap.String("location", location))
	return entity.NewPage(pageURL, doc, closeTab), nil
}

// Close shuts the browser down.
func (s *browserSession) Close() error {
	s.cancel()
	return nil
}
