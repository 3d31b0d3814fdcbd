package politeness

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Rules holds the robots.txt directives relevant to our agent for one host.
type Rules struct {
	disallow   []string
	crawlDelay time.Duration
}

// Allowed reports whether target may be crawled. A Disallow path blocks the
// URL when it is "/", a prefix of the URL path, or a substring of the URL.
// Nil rules allow everything.
func (r *Rules) Allowed(target string) bool {
	if r == nil {
		return true
	}
	path := "/"
	if u, err := url.Parse(target); err == nil && u.Path != "" {
		path = u.Path
	}
	for _, d := range r.disallow {
		if d == "/" || strings.HasPrefix(path, d) || strings.Contains(target, d) {
			return false
		}
	}
	return true
}

// CrawlDelay returns the largest Crawl-delay found in relevant sections, or zero.
func (r *Rules) CrawlDelay() time.Duration {
	if r == nil {
		return 0
	}
	return r.crawlDelay
}

// ParseRobots parses a robots.txt body for agentToken. A User-agent section is
// relevant when its token is "*", agentToken, or contains "bot".
// An empty Disallow value allows everything and is ignored.
func ParseRobots(body string, agentToken string) *Rules {
	agentToken = strings.ToLower(agentToken)
	r := &Rules{}
	relevant := false

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "user-agent":
			agent := strings.ToLower(value)
			relevant = agent == "*" || agent == agentToken || strings.Contains(agent, "bot")
		case "disallow":
			if relevant && value != "" {
				r.disallow = append(r.disallow, value)
			}
		case "crawl-delay":
			if !relevant {
				continue
			}
			secs, err := strconv.ParseFloat(value, 64)
			if err != nil || secs <= 0 {
				continue
			}
			if d := time.Duration(secs * float64(time.Second)); d > r.crawlDelay {
				r.crawlDelay = d
			}
		}
	}
	return r
}
