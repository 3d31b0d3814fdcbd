package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/user/notice-crawler/internal/entity"
	"github.com/user/notice-crawler/internal/extractor"
	"github.com/user/notice-crawler/internal/linkfilter"
	"github.com/user/notice-crawler/internal/politeness"
	"github.com/user/notice-crawler/internal/repository"
	"github.com/user/notice-crawler/pkg/metrics"
)

var (
	ErrPolicyViolation    = errors.New("crawling not allowed by robots.txt")
	ErrInvalidStartURL    = errors.New("invalid start URL")
	ErrFetcherUnavailable = errors.New("page fetcher unavailable")
)

const (
	DefaultMaxDepth = 2
	DefaultMaxPages = 20
)

// CrawlOptions bounds one crawl. A nil Delay uses the politeness delay of each host;
// a non-nil Delay, including zero, replaces it.
type CrawlOptions struct {
	MaxDepth       int
	MaxPages       int
	AllowedDomains []string
	Delay          *time.Duration
}

// CrawlResult is the outcome of one crawl.
type CrawlResult struct {
	Items []entity.ExtractedItem `json:"items"`
	Stats entity.CrawlStats      `json:"stats"`
}

// Crawler defines the interface for the breadth-first crawl of one site.
type Crawler interface {
	Crawl(ctx context.Context, startURL string, opts CrawlOptions) (*CrawlResult, error)
}

// CrawlerConfig holds the settings shared by every crawl.
type CrawlerConfig struct {
	Politeness    politeness.Config
	RobotsClient  *http.Client
	SiteOverrides []linkfilter.Override
}

type crawlerUseCase struct {
	fetcher   repository.PageFetcher
	extractor *extractor.Extractor
	cfg       CrawlerConfig
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewCrawlerUseCase creates a new instance of the crawler use case.
// It holds no per-crawl state, so one instance may run any number of crawls concurrently.
func NewCrawlerUseCase(
	fetcher repository.PageFetcher,
	ext *extractor.Extractor,
	cfg CrawlerConfig,
	logger *zap.Logger,
	m *metrics.Metrics,
) Crawler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &crawlerUseCase{
		fetcher:   fetcher,
		extractor: ext,
		cfg:       cfg,
		logger:    logger,
		metrics:   m,
	}
}

// Crawl fetches startURL and the in-scope pages reachable from it, breadth first.
// On cancellation it returns the partial result together with the context error.
func (uc *crawlerUseCase) Crawl(ctx context.Context, startURL string, opts CrawlOptions) (*CrawlResult, error) {
	start, err := url.Parse(startURL)
	if err != nil || (start.Scheme != "http" && start.Scheme != "https") || start.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStartURL, startURL)
	}
	if opts.MaxDepth < 0 {
		opts.MaxDepth = 0
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}

	guard := politeness.NewGuard(uc.cfg.RobotsClient, uc.cfg.Politeness, uc.logger, uc.metrics)
	host := start.Hostname()

	uc.logger.Info("Starting crawl",
		zap.String("target", host),
		zap.String("user_agent", uc.cfg.Politeness.UserAgent),
		zap.Bool("government", politeness.IsGovernmentHost(host)),
		zap.Int("max_depth", opts.MaxDepth),
		zap.Int("max_pages", opts.MaxPages),
	)

	job := newCrawlJob(start, opts, guard, linkfilter.New(start, opts.AllowedDomains, uc.cfg.SiteOverrides))

	if !guard.CheckRobots(ctx, start.String()) {
		return nil, fmt.Errorf("%w for %s", ErrPolicyViolation, host)
	}

	session, err := uc.fetcher.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetcherUnavailable, err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			uc.logger.Warn("Failed to close fetch session", zap.Error(err))
		}
	}()

	runErr := uc.run(ctx, job, session)
	result := job.result()
	uc.metrics.ObserveCrawl(host, result.Stats.Duration)

	uc.logger.Info("Crawl finished",
		zap.String("target", host),
		zap.Int("pages", result.Stats.TotalPages),
		zap.Int("failed", result.Stats.FailedRequests),
		zap.Int("items", result.Stats.ItemsFound),
		zap.Duration("duration", result.Stats.Duration),
	)
	return result, runErr
}

func (uc *crawlerUseCase) run(ctx context.Context, job *crawlJob, session repository.FetchSession) error {
	job.push(frontierEntry{url: job.start.String(), depth: 0})

	for len(job.queue) > 0 && job.crawledPages < job.opts.MaxPages {
		if err := ctx.Err(); err != nil {
			return err
		}

		entry := job.pop()
		if job.isVisited(entry.url) || entry.depth > job.opts.MaxDepth {
			continue
		}

		// The start URL was checked before the session was opened.
		if entry.depth > 0 && !job.guard.CheckRobots(ctx, entry.url) {
			job.skip(entry.url)
			uc.metrics.IncPage("disallowed")
			continue
		}

		uc.visit(ctx, job, session, entry)

		if len(job.queue) == 0 || job.crawledPages >= job.opts.MaxPages {
			break
		}
		if err := sleep(ctx, job.delayAfter(entry.url)); err != nil {
			return err
		}
	}
	return nil
}

// visit fetches and extracts one page. Failures are recorded on the job and never returned.
func (uc *crawlerUseCase) visit(ctx context.Context, job *crawlJob, session repository.FetchSession, entry frontierEntry) {
	uc.logger.Debug("Crawling page", zap.String("url", entry.url), zap.Int("depth", entry.depth))
	job.stats.TotalRequests++

	res, err := uc.fetchAndExtract(ctx, session, entry.url)
	if err != nil {
		uc.logger.Warn("Failed to crawl page", zap.String("url", entry.url), zap.Error(err))
		job.fail(entry, err)
		uc.metrics.IncPage("failure")
		return
	}

	job.items = append(job.items, res.Items...)
	if entry.depth < job.opts.MaxDepth {
		for _, link := range res.Links {
			if !job.isVisited(link) && job.filter.InScope(link) {
				job.push(frontierEntry{url: link, depth: entry.depth + 1})
			}
		}
	}

	job.markVisited(entry.url)
	job.crawledPages++
	job.stats.SuccessfulRequests++
	uc.metrics.IncPage("success")
}

// fetchAndExtract always closes the page it fetched.
func (uc *crawlerUseCase) fetchAndExtract(ctx context.Context, session repository.FetchSession, target string) (res extractor.Result, err error) {
	page, err := session.Fetch(ctx, target)
	if err != nil {
		return extractor.Result{}, err
	}
	defer page.Close()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extraction failed: %v", r)
		}
	}()
	return uc.extractor.Extract(page), nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
