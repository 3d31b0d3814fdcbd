package usecase

import (
	"net/url"
	"time"

	"github.com/user/notice-crawler/internal/entity"
	"github.com/user/notice-crawler/internal/linkfilter"
	"github.com/user/notice-crawler/internal/politeness"
)

type frontierEntry struct {
	url   string
	depth int
}

// crawlJob is the state of a single crawl. It is built by every Crawl call and
// only touched by the goroutine running that crawl.
type crawlJob struct {
	start  *url.URL
	opts   CrawlOptions
	guard  *politeness.Guard
	filter *linkfilter.Filter

	queue        []frontierEntry
	queued       map[string]struct{}
	visited      map[string]struct{}
	domains      []string
	domainSet    map[string]struct{}
	items        []entity.ExtractedItem
	crawledPages int
	stats        entity.CrawlStats
}

func newCrawlJob(start *url.URL, opts CrawlOptions, guard *politeness.Guard, filter *linkfilter.Filter) *crawlJob {
	return &crawlJob{
		start:     start,
		opts:      opts,
		guard:     guard,
		filter:    filter,
		queued:    make(map[string]struct{}),
		visited:   make(map[string]struct{}),
		domainSet: make(map[string]struct{}),
		stats:     entity.CrawlStats{StartTime: time.Now()},
	}
}

// push appends to the frontier unless the URL is already waiting in it.
func (j *crawlJob) push(e frontierEntry) {
	if _, ok := j.queued[e.url]; ok {
		return
	}
	j.queued[e.url] = struct{}{}
	j.queue = append(j.queue, e)
}

func (j *crawlJob) pop() frontierEntry {
	e := j.queue[0]
	j.queue[0] = frontierEntry{}
	j.queue = j.queue[1:]
	return e
}

func (j *crawlJob) isVisited(u string) bool {
	_, ok := j.visited[u]
	return ok
}

// skip marks a URL as visited without counting its host as visited.
func (j *crawlJob) skip(rawURL string) {
	j.visited[rawURL] = struct{}{}
}

func (j *crawlJob) markVisited(rawURL string) {
	j.skip(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil {
		return
	}
	if host := u.Hostname(); host != "" {
		if _, ok := j.domainSet[host]; !ok {
			j.domainSet[host] = struct{}{}
			j.domains = append(j.domains, host)
		}
	}
}

func (j *crawlJob) fail(e frontierEntry, err error) {
	j.markVisited(e.url)
	j.stats.FailedRequests++
	j.stats.Failures = append(j.stats.Failures, entity.PageFailure{
		URL:      e.url,
		Depth:    e.depth,
		Reason:   err.Error(),
		FailedAt: time.Now(),
	})
}

// delayAfter returns the wait before the next request following a visit to rawURL.
func (j *crawlJob) delayAfter(rawURL string) time.Duration {
	if j.opts.Delay != nil {
		return *j.opts.Delay
	}
	host := j.start.Hostname()
	if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
		host = u.Hostname()
	}
	return j.guard.DetermineDelay(host)
}

func (j *crawlJob) result() *CrawlResult {
	stats := j.stats
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	stats.TotalPages = j.crawledPages
	stats.TotalURLs = len(j.visited)
	stats.ItemsFound = len(j.items)
	stats.RobotsChecked = j.guard.Results()
	stats.VisitedDomains = append([]string(nil), j.domains...)

	return &CrawlResult{Items: j.items, Stats: stats}
}
