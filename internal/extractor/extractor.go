// Package extractor turns fetched pages into candidate notice items and outbound links.
package extractor

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/user/notice-crawler/internal/entity"
	"github.com/user/notice-crawler/pkg/metrics"
)

// GenericStrategy is the name reported for pages no site matched.
const GenericStrategy = "generic"

// Strategy extracts items from a parsed page.
type Strategy func(doc *goquery.Document, pageURL *url.URL) []entity.ExtractedItem

// Site binds a hostname matcher to a site-specific strategy.
type Site struct {
	Name    string
	Match   func(host string) bool
	Extract Strategy
}

// HostContains returns a matcher for hostnames containing fragment.
func HostContains(fragment string) func(string) bool {
	return func(host string) bool {
		return strings.Contains(strings.ToLower(host), fragment)
	}
}

// DefaultSites returns the site strategies shipped with the crawler.
func DefaultSites() []Site {
	return []Site{
		{Name: "hackernews", Match: HostContains("news.ycombinator.com"), Extract: HackerNews},
		{Name: "books", Match: HostContains("books.toscrape.com"), Extract: Books},
	}
}

// Result is what one page yields.
type Result struct {
	Items    []entity.ExtractedItem
	Links    []string
	Strategy string
}

// Extractor selects a strategy per page. Sites are tried in order and the
// generic strategy handles every page no site matched.
type Extractor struct {
	sites   []Site
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func New(sites []Site, logger *zap.Logger, m *metrics.Metrics) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{sites: sites, logger: logger, metrics: m}
}

// Extract returns the items and links found on page.
func (e *Extractor) Extract(page *entity.Page) Result {
	if page == nil || page.Document == nil || page.URL == nil {
		return Result{Strategy: GenericStrategy}
	}

	name, strategy := GenericStrategy, Strategy(Generic)
	host := page.Hostname()
	for _, s := range e.sites {
		if s.Match(host) {
			name, strategy = s.Name, s.Extract
			break
		}
	}

	items := strategy(page.Document, page.URL)
	links := DiscoverLinks(page.Document, page.URL)

	e.metrics.AddItems(name, len(items))
	e.logger.Debug("Extracted page",
		zap.String("url", page.URL.String()),
		zap.String("strategy", name),
		zap.Int("items", len(items)),
		zap.Int("links", len(links)),
	)
	return Result{Items: items, Links: links, Strategy: name}
}
