// Package summarizer produces short synopses of notices, using a rate-limited
// generative-text service when one is configured and an extractive fallback otherwise.
package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/user/notice-crawler/internal/repository"
	"github.com/user/notice-crawler/pkg/metrics"
	"github.com/user/notice-crawler/pkg/utils"
)

const (
	// DefaultRequestsPerMinute is the default AI call ceiling per window.
	DefaultRequestsPerMinute = 25
	// DefaultTimeout bounds a single AI call.
	DefaultTimeout = 20 * time.Second

	maxPromptContent = 2000
)

const promptTemplate = `Summarize this government notification/content in 2-3 sentences:

Title: %s
Content: %s

Summary should be:
- Easy to understand for general public
- Highlight key actions or deadlines
- Mention who is affected
- Keep it concise and actionable`

// Summarizer is shared by all crawls; the limiter is its only mutable state.
type Summarizer struct {
	generator repository.TextGenerator
	limiter   *RateLimiter
	timeout   time.Duration
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// New creates a Summarizer. generator may be nil, in which case every summary
// comes from the fallback.
func New(generator repository.TextGenerator, limiter *RateLimiter, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *Summarizer {
	if limiter == nil {
		limiter = NewRateLimiter(DefaultRequestsPerMinute, DefaultWindow)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Summarizer{
		generator: generator,
		limiter:   limiter,
		timeout:   timeout,
		logger:    logger,
		metrics:   m,
	}
}

// Summarize returns a non-empty summary of content. AI failures are logged and
// answered with the fallback.
func (s *Summarizer) Summarize(ctx context.Context, content, title string) string {
	if s.generator == nil {
		return s.fallback(content, title)
	}
	if !s.limiter.Allow() {
		s.logger.Debug("AI rate limit reached, using fallback summary")
		return s.fallback(content, title)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := fmt.Sprintf(promptTemplate, title, utils.Truncate(content, maxPromptContent))
	answer, err := s.generator.Generate(callCtx, prompt)
	if err != nil {
		s.logger.Warn("AI summarization failed, using fallback summary", zap.Error(err))
		return s.fallback(content, title)
	}
	if answer = strings.TrimSpace(answer); answer == "" {
		return s.fallback(content, title)
	}

	s.metrics.IncSummary("ai")
	return answer
}

func (s *Summarizer) fallback(content, title string) string {
	s.metrics.IncSummary("fallback")
	return Fallback(content, title)
}
