package usecase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/notice-crawler/internal/entity"
	"github.com/user/notice-crawler/internal/repository"
)

// fakeFetcher serves HTML from memory and records what was fetched.
type fakeFetcher struct {
	mu       sync.Mutex
	pages    map[string]string
	failures map[string]error
	openErr  error

	opened        int
	fetched       []string
	pagesClosed   int
	sessionClosed bool
}

func newFakeFetcher(pages map[string]string) *fakeFetcher {
	return &fakeFetcher{pages: pages, failures: map[string]error{}}
}

func (f *fakeFetcher) Open(ctx context.Context) (repository.FetchSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.opened++
	return f, nil
}

func (f *fakeFetcher) Fetch(ctx context.Context, rawURL string) (*entity.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, rawURL)

	if err := f.failures[rawURL]; err != nil {
		return nil, err
	}
	html, ok := f.pages[rawURL]
	if !ok {
		return nil, fmt.Errorf("%w: 404 for %s", repository.ErrFetchFailed, rawURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return entity.NewPage(u, doc, func() {
		f.mu.Lock()
		f.pagesClosed++
		f.mu.Unlock()
	}), nil
}

func (f *fakeFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessionClosed = true
	return nil
}

func (f *fakeFetcher) fetchedURLs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.fetched...)
}

// robotsTransport answers robots.txt requests from memory.
type robotsTransport map[string]string

func (rt robotsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	body, ok := rt[req.URL.Host]
	status := http.StatusOK
	if !ok || req.URL.Path != "/robots.txt" {
		status = http.StatusNotFound
	}
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"text/plain"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}, nil
}

// noticePage renders a page with one article and links to the given paths.
func noticePage(title string, links ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><main>")
	fmt.Fprintf(&b, "<article><h2>%s</h2><p>Details of %s for all residents of the district.</p></article>", title, title)
	for i, l := range links {
		fmt.Fprintf(&b, `<a href="%s">Related notice %d</a>`, l, i)
	}
	b.WriteString("</main></body></html>")
	return b.String()
}

type memNotificationRepo struct {
	mu        sync.Mutex
	saved     []*entity.Notification
	keys      map[string]bool
	saveErr   error
	existsErr error
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{keys: map[string]bool{}}
}

func (r *memNotificationRepo) Exists(ctx context.Context, title, sourceURL string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.existsErr != nil {
		return false, r.existsErr
	}
	return r.keys[title+"|"+sourceURL], nil
}

func (r *memNotificationRepo) Save(ctx context.Context, n *entity.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	key := n.Title + "|" + n.SourceURL
	if r.keys[key] {
		return repository.ErrDuplicateNotification
	}
	r.keys[key] = true
	n.ID = int64(len(r.saved) + 1)
	r.saved = append(r.saved, n)
	return nil
}

func (r *memNotificationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

type memStatusRepo struct {
	mu       sync.Mutex
	statuses map[string]entity.ScrapeJobStatus
	history  map[string][]entity.JobState
	setErr   error
}

func newMemStatusRepo() *memStatusRepo {
	return &memStatusRepo{
		statuses: map[string]entity.ScrapeJobStatus{},
		history:  map[string][]entity.JobState{},
	}
}

func (r *memStatusRepo) Set(ctx context.Context, s *entity.ScrapeJobStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setErr != nil {
		return r.setErr
	}
	r.statuses[s.JobID] = *s
	r.history[s.JobID] = append(r.history[s.JobID], s.State)
	return nil
}

func (r *memStatusRepo) Get(ctx context.Context, jobID string) (*entity.ScrapeJobStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.statuses[jobID]
	if !ok {
		return nil, repository.ErrJobNotFound
	}
	return &s, nil
}

func (r *memStatusRepo) states(jobID string) []entity.JobState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.JobState(nil), r.history[jobID]...)
}

type memFailureRepo struct {
	mu    sync.Mutex
	saved map[string][]entity.PageFailure
}

func (r *memFailureRepo) SaveAll(ctx context.Context, jobID string, failures []entity.PageFailure) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saved == nil {
		r.saved = map[string][]entity.PageFailure{}
	}
	r.saved[jobID] = append(r.saved[jobID], failures...)
	return nil
}

func (r *memFailureRepo) get(jobID string) []entity.PageFailure {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saved[jobID]
}

type stubSummarizer struct{}

func (stubSummarizer) Summarize(ctx context.Context, content, title string) string {
	return "summary of " + title
}

// crawlerFunc adapts a function to the Crawler interface.
type crawlerFunc func(ctx context.Context, startURL string, opts CrawlOptions) (*CrawlResult, error)

func (f crawlerFunc) Crawl(ctx context.Context, startURL string, opts CrawlOptions) (*CrawlResult, error) {
	return f(ctx, startURL, opts)
}
