// Package bootstrap builds the crawl pipeline from configuration. It is shared
// by the API server and the command-line crawler.
package bootstrap

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/user/notice-crawler/internal/adapter/chromedp_fetcher"
	"github.com/user/notice-crawler/internal/adapter/gemini"
	"github.com/user/notice-crawler/internal/adapter/http_fetcher"
	"github.com/user/notice-crawler/internal/extractor"
	"github.com/user/notice-crawler/internal/linkfilter"
	"github.com/user/notice-crawler/internal/politeness"
	"github.com/user/notice-crawler/internal/repository"
	"github.com/user/notice-crawler/internal/summarizer"
	"github.com/user/notice-crawler/internal/usecase"
	"github.com/user/notice-crawler/pkg/config"
	"github.com/user/notice-crawler/pkg/metrics"
)

const robotsTimeout = 10 * time.Second

// NewFetcher returns the page fetcher selected by FETCH_BACKEND.
func NewFetcher(cfg *config.Config, logger *zap.Logger) repository.PageFetcher {
	if cfg.FetchBackend == config.BackendHTTP {
		return http_fetcher.NewHTTPFetcher(nil, http_fetcher.Config{
			UserAgent:       cfg.UserAgent,
			PageLoadTimeout: cfg.PageLoadTimeoutDuration(),
		}, logger)
	}
	return chromedp_fetcher.NewChromedpFetcher(chromedp_fetcher.Config{
		UserAgent:       cfg.UserAgent,
		ExecPath:        cfg.ChromePath,
		PageLoadTimeout: cfg.PageLoadTimeoutDuration(),
	}, logger)
}

// NewCrawler wires fetcher, extractor and politeness settings into a crawler.
func NewCrawler(cfg *config.Config, fetcher repository.PageFetcher, logger *zap.Logger, m *metrics.Metrics) usecase.Crawler {
	ext := extractor.New(extractor.DefaultSites(), logger, m)
	return usecase.NewCrawlerUseCase(fetcher, ext, usecase.CrawlerConfig{
		Politeness: politeness.Config{
			UserAgent:       cfg.UserAgent,
			GovernmentDelay: cfg.GovernmentDelay(),
			RegularDelay:    cfg.RegularDelay(),
		},
		RobotsClient:  &http.Client{Timeout: robotsTimeout},
		SiteOverrides: linkfilter.DefaultOverrides,
	}, logger, m)
}

// NewSummarizer uses Gemini when an API key is configured. Without one every
// summary comes from the local fallback.
func NewSummarizer(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *summarizer.Summarizer {
	var generator repository.TextGenerator
	if cfg.GeminiAPIKey != "" {
		generator = gemini.NewClient(nil, cfg.GeminiEndpoint, cfg.GeminiAPIKey, cfg.GeminiModel)
	} else {
		logger.Warn("GEMINI_API_KEY not set, summaries use the text fallback")
	}
	limiter := summarizer.NewRateLimiter(cfg.AIRequestsPerMinute, summarizer.DefaultWindow)
	return summarizer.New(generator, limiter, cfg.SummaryTimeoutDuration(), logger, m)
}
