package entity

import (
	"net/url"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// Page is a fetched, DOM-queryable page. It holds fetch-backend resources
// (a browser tab, for instance) until Close is called.
type Page struct {
	URL      *url.URL
	Document *goquery.Document

	once    sync.Once
	release func()
}

// NewPage wraps a parsed document. release may be nil.
func NewPage(u *url.URL, doc *goquery.Document, release func()) *Page {
	return &Page{URL: u, Document: doc, release: release}
}

// Hostname returns the page host without port.
func (p *Page) Hostname() string {
	if p.URL == nil {
		return ""
	}
	return p.URL.Hostname()
}

// Close releases the backend resources. Safe to call more than once.
func (p *Page) Close() {
	p.once.Do(func() {
		if p.release != nil {
			p.release()
		}
	})
}
