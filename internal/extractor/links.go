package extractor

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var skipHrefPrefixes = []string{"#", "mailto:", "tel:", "javascript:"}

// skipLinkWords marks anchors whose text points at non-content pages.
var skipLinkWords = []string{
	"home", "about", "contact", "login", "register", "logout",
	"privacy", "terms", "cookie", "subscribe", "newsletter",
	"facebook", "twitter", "instagram", "linkedin", "youtube",
	"share", "print", "email", "download",
}

// DiscoverLinks returns the absolute, de-duplicated URLs of the content anchors in doc,
// in document order.
func DiscoverLinks(doc *goquery.Document, pageURL *url.URL) []string {
	seen := make(map[string]struct{})
	var links []string

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || hasAnyPrefix(strings.ToLower(href), skipHrefPrefixes) {
			return
		}
		if containsAny(strings.ToLower(textOf(a)), skipLinkWords) || !isContentElement(a) {
			return
		}
		abs := resolveAttr(a, "href", pageURL)
		if abs == "" {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		links = append(links, abs)
	})
	return links
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
