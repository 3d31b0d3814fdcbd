package politeness

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/user/notice-crawler/internal/entity"
	"github.com/user/notice-crawler/pkg/metrics"
)

const maxRobotsSize = 512 * 1024

var governmentSuffixes = []string{".gov", ".gov.in", ".gov.uk", ".europa.eu", ".gc.ca"}

// Config holds the politeness settings of a crawl.
type Config struct {
	UserAgent       string
	GovernmentDelay time.Duration
	RegularDelay    time.Duration
}

// Guard enforces robots.txt and per-host request delays for one crawl.
// Rules are fetched once per host and cached for the Guard's lifetime.
type Guard struct {
	client  *http.Client
	cfg     Config
	agent   string
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	rules   map[string]*Rules
	checked []entity.RobotsCheck
}

// NewGuard creates a Guard. A nil client uses http.DefaultClient.
func NewGuard(client *http.Client, cfg Config, logger *zap.Logger, m *metrics.Metrics) *Guard {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{
		client:  client,
		cfg:     cfg,
		agent:   AgentToken(cfg.UserAgent),
		logger:  logger,
		metrics: m,
		rules:   make(map[string]*Rules),
	}
}

// AgentToken derives the robots.txt agent token from a User-Agent string,
// e.g. "CivicSphereBot/1.0 (...)" becomes "civicspherebot".
func AgentToken(userAgent string) string {
	token, _, _ := strings.Cut(strings.TrimSpace(userAgent), "/")
	if i := strings.IndexByte(token, ' '); i >= 0 {
		token = token[:i]
	}
	return strings.ToLower(token)
}

// IsGovernmentHost reports whether host belongs to a government domain.
func IsGovernmentHost(host string) bool {
	host = strings.ToLower(host)
	for _, s := range governmentSuffixes {
		if strings.Contains(host, s) {
			return true
		}
	}
	return false
}

// CheckRobots reports whether target may be crawled. Unreachable or non-OK
// robots.txt files allow everything. Results holds one entry per host: the
// outcome for the URL that caused its robots.txt to be fetched.
func (g *Guard) CheckRobots(ctx context.Context, target string) bool {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return true
	}
	rules, fetched := g.rulesFor(ctx, u)
	allowed := rules.Allowed(target)

	if fetched {
		g.mu.Lock()
		g.checked = append(g.checked, entity.RobotsCheck{Domain: u.Hostname(), Allowed: allowed})
		g.mu.Unlock()
	}
	g.metrics.IncRobotsCheck(allowed)

	if !allowed {
		g.logger.Info("Blocked by robots.txt", zap.String("url", target))
	}
	return allowed
}

// DetermineDelay returns the delay to keep between requests to host.
// A robots.txt Crawl-delay longer than the default wins.
func (g *Guard) DetermineDelay(host string) time.Duration {
	delay := g.cfg.RegularDelay
	if IsGovernmentHost(host) {
		delay = g.cfg.GovernmentDelay
	}

	g.mu.Lock()
	rules := g.rules[host]
	g.mu.Unlock()

	if cd := rules.CrawlDelay(); cd > delay {
		delay = cd
	}
	return delay
}

// Results returns a copy of the robots checks made so far.
func (g *Guard) Results() []entity.RobotsCheck {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]entity.RobotsCheck, len(g.checked))
	copy(out, g.checked)
	return out
}

// rulesFor reports fetched=true only for the call that stored the host's rules.
func (g *Guard) rulesFor(ctx context.Context, u *url.URL) (rules *Rules, fetched bool) {
	host := u.Hostname()

	g.mu.Lock()
	rules, ok := g.rules[host]
	g.mu.Unlock()
	if ok {
		return rules, false
	}

	rules = g.fetchRules(ctx, u)

	g.mu.Lock()
	defer g.mu.Unlock()
	if cached, ok := g.rules[host]; ok {
		return cached, false
	}
	g.rules[host] = rules
	return rules, true
}

// fetchRules returns nil when robots.txt is unavailable.
func (g *Guard) fetchRules(ctx context.Context, u *url.URL) *Rules {
	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", g.cfg.UserAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Debug("Could not fetch robots.txt", zap.String("url", robotsURL), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsSize))
	if err != nil {
		return nil
	}
	return ParseRobots(string(body), g.agent)
}
