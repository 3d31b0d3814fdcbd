package request

// SubmitScrapeRequest is the body of POST /api/scrape. Omitted limits use the server defaults.
type SubmitScrapeRequest struct {
	URL            string   `json:"url"`
	MaxDepth       *int     `json:"max_depth,omitempty"`
	MaxPages       *int     `json:"max_pages,omitempty"`
	AllowedDomains []string `json:"allowed_domains,omitempty"`
	DelayMS        *int     `json:"delay_ms,omitempty"` // overrides the politeness delay
}
