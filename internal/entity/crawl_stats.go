package entity

import "time"

// RobotsCheck is the outcome of one robots.txt evaluation.
type RobotsCheck struct {
	Domain  string `json:"domain"`
	Allowed bool   `json:"allowed"`
}

// CrawlStats summarises one crawl invocation. It is not modified after the crawl returns.
type CrawlStats struct {
	StartTime          time.Time     `json:"start_time"`
	EndTime            time.Time     `json:"end_time"`
	Duration           time.Duration `json:"duration"`
	TotalRequests      int           `json:"total_requests"`
	SuccessfulRequests int           `json:"successful_requests"`
	FailedRequests     int           `json:"failed_requests"`
	TotalPages         int           `json:"total_pages"`
	TotalURLs          int           `json:"total_urls"`
	ItemsFound         int           `json:"items_found"`
	RobotsChecked      []RobotsCheck `json:"robots_checked"`
	VisitedDomains     []string      `json:"visited_domains"`
	Failures           []PageFailure `json:"failures,omitempty"`
}
