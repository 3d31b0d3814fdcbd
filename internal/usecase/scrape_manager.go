package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/user/notice-crawler/internal/entity"
	"github.com/user/notice-crawler/internal/repository"
	"github.com/user/notice-crawler/pkg/metrics"
)

var (
	ErrTooManyJobs  = errors.New("too many scrape jobs running")
	ErrShuttingDown = errors.New("scrape manager is shutting down")
)

const (
	statusWriteTimeout = 5 * time.Second
	// partialWriteTimeout bounds storing the items of a crawl that was cut short.
	partialWriteTimeout = 30 * time.Second
)

// ScrapeRequest describes a scrape job. Nil limits use the configured defaults.
type ScrapeRequest struct {
	URL            string
	MaxDepth       *int
	MaxPages       *int
	AllowedDomains []string
	Delay          *time.Duration
}

// ScrapeManager defines the interface for running scrape jobs in the background.
type ScrapeManager interface {
	Submit(ctx context.Context, req ScrapeRequest) (string, error)
	GetStatus(ctx context.Context, jobID string) (*entity.ScrapeJobStatus, error)
	Shutdown(ctx context.Context) error
}

// ScrapeConfig holds the job limits.
type ScrapeConfig struct {
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	DefaultMaxDepth   int
	DefaultMaxPages   int
}

type scrapeManager struct {
	crawler     Crawler
	processor   *NotificationProcessor
	statusRepo  repository.JobStatusRepository
	failureRepo repository.FailureRepository
	cfg         ScrapeConfig
	logger      *zap.Logger
	metrics     *metrics.Metrics

	sem    *semaphore.Weighted
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewScrapeManager creates a new ScrapeManager use case.
func NewScrapeManager(
	crawler Crawler,
	processor *NotificationProcessor,
	statusRepo repository.JobStatusRepository,
	failureRepo repository.FailureRepository,
	cfg ScrapeConfig,
	logger *zap.Logger,
	m *metrics.Metrics,
) ScrapeManager {
	if cfg.MaxConcurrentJobs <= 0 {
		cfg.MaxConcurrentJobs = 1
	}
	if cfg.DefaultMaxPages <= 0 {
		cfg.DefaultMaxPages = DefaultMaxPages
	}
	if cfg.DefaultMaxDepth < 0 {
		cfg.DefaultMaxDepth = DefaultMaxDepth
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &scrapeManager{
		crawler:     crawler,
		processor:   processor,
		statusRepo:  statusRepo,
		failureRepo: failureRepo,
		cfg:         cfg,
		logger:      logger,
		metrics:     m,
		sem:         semaphore.NewWeighted(int64(cfg.MaxConcurrentJobs)),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Submit validates the request, records it as pending and starts it in the background.
func (m *scrapeManager) Submit(ctx context.Context, req ScrapeRequest) (string, error) {
	u, err := url.ParseRequestURI(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidStartURL, req.URL)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", ErrShuttingDown
	}
	if !m.sem.TryAcquire(1) {
		return "", ErrTooManyJobs
	}

	status := &entity.ScrapeJobStatus{
		JobID:       uuid.NewString(),
		URL:         req.URL,
		State:       entity.JobPending,
		SubmittedAt: time.Now().UTC(),
	}
	if err := m.statusRepo.Set(ctx, status); err != nil {
		m.sem.Release(1)
		return "", fmt.Errorf("failed to record scrape job: %w", err)
	}

	m.wg.Add(1)
	go m.run(status, m.crawlOptions(req))

	m.logger.Info("Scrape job submitted", zap.String("job_id", status.JobID), zap.String("url", req.URL))
	return status.JobID, nil
}

func (m *scrapeManager) GetStatus(ctx context.Context, jobID string) (*entity.ScrapeJobStatus, error) {
	return m.statusRepo.Get(ctx, jobID)
}

// Shutdown stops accepting jobs and waits for running ones. When ctx expires
// first, running jobs are cancelled and ctx's error is returned.
func (m *scrapeManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.cancel()
		return nil
	case <-ctx.Done():
		m.cancel()
		<-done
		return ctx.Err()
	}
}

func (m *scrapeManager) crawlOptions(req ScrapeRequest) CrawlOptions {
	opts := CrawlOptions{
		MaxDepth:       m.cfg.DefaultMaxDepth,
		MaxPages:       m.cfg.DefaultMaxPages,
		AllowedDomains: req.AllowedDomains,
		Delay:          req.Delay,
	}
	if req.MaxDepth != nil {
		opts.MaxDepth = *req.MaxDepth
	}
	if req.MaxPages != nil {
		opts.MaxPages = *req.MaxPages
	}
	return opts
}

func (m *scrapeManager) run(status *entity.ScrapeJobStatus, opts CrawlOptions) {
	defer m.wg.Done()
	defer m.sem.Release(1)

	ctx := m.ctx
	if m.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.JobTimeout)
		defer cancel()
	}
	logger := m.logger.With(zap.String("job_id", status.JobID))

	m.metrics.JobStarted()
	status.State = entity.JobRunning
	m.saveStatus(status, logger)

	err := m.execute(ctx, status, opts, logger)

	finished := time.Now().UTC()
	status.FinishedAt = &finished
	if err != nil {
		status.State = entity.JobFailed
		status.Error = err.Error()
		logger.Error("Scrape job failed", zap.Error(err))
	} else {
		status.State = entity.JobCompleted
		logger.Info("Scrape job completed",
			zap.Int("scraped", status.ScrapedCount),
			zap.Int("new", status.NewCount),
		)
	}
	m.saveStatus(status, logger)
	m.metrics.JobFinished(string(status.State))
}

// execute crawls and stores. A partial crawl result is still processed before
// the crawl error is returned.
func (m *scrapeManager) execute(ctx context.Context, status *entity.ScrapeJobStatus, opts CrawlOptions, logger *zap.Logger) error {
	result, crawlErr := m.crawler.Crawl(ctx, status.URL, opts)
	if result == nil {
		if crawlErr == nil {
			crawlErr = errors.New("crawl returned no result")
		}
		return crawlErr
	}
	status.Stats = &result.Stats

	// A timed-out or cancelled crawl still hands back what it found; store it
	// on a context that is not already done.
	if crawlErr != nil && ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.WithoutCancel(ctx), partialWriteTimeout)
		defer cancel()
	}

	if len(result.Stats.Failures) > 0 && m.failureRepo != nil {
		if err := m.failureRepo.SaveAll(ctx, status.JobID, result.Stats.Failures); err != nil {
			logger.Warn("Failed to persist page failures", zap.Error(err))
		}
	}

	processed, err := m.processor.Process(ctx, status.JobID, result.Items)
	status.ScrapedCount = processed.Scraped
	status.NewCount = processed.New

	if crawlErr != nil {
		return crawlErr
	}
	return err
}

// saveStatus writes with its own deadline so that the final state is stored
// even after the job context expired.
func (m *scrapeManager) saveStatus(status *entity.ScrapeJobStatus, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), statusWriteTimeout)
	defer cancel()
	if err := m.statusRepo.Set(ctx, status); err != nil {
		logger.Error("Failed to store job status", zap.String("state", string(status.State)), zap.Error(err))
	}
}
