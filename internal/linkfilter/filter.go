// Package linkfilter decides which discovered links are worth queuing during a crawl.
package linkfilter

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	skipExtension   = regexp.MustCompile(`(?i)\.(pdf|doc|docx|xls|xlsx|ppt|pptx|zip|rar|exe|jpg|jpeg|png|gif|svg|css|js)$`)
	skipUtility     = regexp.MustCompile(`(?i)/(login|logout|admin|api|ajax|search|cart|checkout|account)(?:[/.]|$)`)
	skipBoilerplate = regexp.MustCompile(`(?i)/(privacy|terms|cookie|about|contact|help|support)/?$`)

	contentSection     = regexp.MustCompile(`(?i)/(article|post|blog|news|story|product|item)`)
	contentNumeric     = regexp.MustCompile(`/\d+`)
	contentDescriptive = regexp.MustCompile(`/[a-z-]+/`)

	skipQueryTerms = []string{"download", "sort=", "filter="}
)

// Override replaces the generic accept rule for a site.
type Override struct {
	// Host matches when the candidate hostname contains it.
	Host   string
	Accept func(u *url.URL) bool
}

// DefaultOverrides lists the site rules shipped with the crawler.
var DefaultOverrides = []Override{
	{
		Host: "books.toscrape.com",
		Accept: func(u *url.URL) bool {
			return strings.Contains(u.Path, "/catalogue/") || strings.Contains(u.Path, "/page_")
		},
	},
}

// Filter screens URLs for one crawl.
type Filter struct {
	start     string
	allowed   map[string]struct{}
	overrides []Override
}

// New builds a Filter for a crawl starting at startURL. The start URL's host is
// always allowed in addition to allowedDomains.
func New(startURL *url.URL, allowedDomains []string, overrides []Override) *Filter {
	f := &Filter{
		start:     startURL.String(),
		allowed:   make(map[string]struct{}, len(allowedDomains)+1),
		overrides: overrides,
	}
	f.allowed[strings.ToLower(startURL.Hostname())] = struct{}{}
	for _, d := range allowedDomains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			f.allowed[d] = struct{}{}
		}
	}
	return f
}

// AllowedDomains returns the hosts the crawl may visit.
func (f *Filter) AllowedDomains() []string {
	out := make([]string, 0, len(f.allowed))
	for d := range f.allowed {
		out = append(out, d)
	}
	return out
}

// InScope reports whether rawURL belongs to an allowed host and looks like content.
func (f *Filter) InScope(rawURL string) bool {
	if strings.Contains(rawURL, "#") {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if _, ok := f.allowed[host]; !ok {
		return false
	}

	for _, o := range f.overrides {
		if strings.Contains(host, o.Host) {
			return o.Accept(u)
		}
	}

	if isUtility(u) {
		return false
	}
	return isContent(u.Path) || u.String() == f.start
}

func isUtility(u *url.URL) bool {
	if skipExtension.MatchString(u.Path) || skipUtility.MatchString(u.Path) || skipBoilerplate.MatchString(u.Path) {
		return true
	}
	query := strings.ToLower(u.RawQuery)
	for _, term := range skipQueryTerms {
		if strings.Contains(query, term) {
			return true
		}
	}
	return false
}

func isContent(path string) bool {
	return contentSection.MatchString(path) || contentNumeric.MatchString(path) || contentDescriptive.MatchString(path)
}
