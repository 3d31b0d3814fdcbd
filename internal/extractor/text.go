package extractor

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/notice-crawler/pkg/utils"
)

// excludedRegions matches structural areas that never hold notice content.
const excludedRegions = "nav, header, footer, .nav, .navbar, .menu, .sidebar, " +
	".breadcrumb, .pagination, .advertisement, .ad, .banner, " +
	".social, .share, .cookie, .popup, .modal, .overlay, " +
	"script, style, noscript"

var metadataPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\d+\s+(points?|pts?)\s+by\s+`),
	regexp.MustCompile(`(?i)^\d+\s+(comments?|hrs?|minutes?|days?)\s+ago`),
	regexp.MustCompile(`(?i)^(hide|reply|flag|favorite|share)$`),
	regexp.MustCompile(`(?i)^\d+\s+(votes?|likes?|shares?)$`),
	regexp.MustCompile(`(?i)^(posted|submitted|by|ago|comments?)\s`),
}

var navigationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(home|about|contact|login|register|search|menu|nav)$`),
	regexp.MustCompile(`(?i)^(cookie|privacy|terms|subscribe|newsletter)$`),
	regexp.MustCompile(`(?i)^(next|previous|more|load|show)\s`),
}

// isContentElement reports whether sel sits outside every excluded region.
func isContentElement(sel *goquery.Selection) bool {
	return sel.Closest(excludedRegions).Length() == 0
}

func isMetadataText(text string) bool {
	return matchesAny(metadataPatterns, strings.TrimSpace(text))
}

func isNavigationText(text string) bool {
	return matchesAny(navigationPatterns, strings.TrimSpace(text))
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// textOf returns the whitespace-collapsed text of sel.
func textOf(sel *goquery.Selection) string {
	return utils.CollapseSpace(sel.Text())
}

// resolveAttr resolves an URL-valued attribute of sel against base. It returns
// "" when the attribute is missing or does not parse.
func resolveAttr(sel *goquery.Selection, attr string, base *url.URL) string {
	raw, ok := sel.Attr(attr)
	if !ok || strings.TrimSpace(raw) == "" {
		return ""
	}
	abs, err := utils.ToAbsoluteURL(base, raw)
	if err != nil {
		return ""
	}
	return abs
}

// linkOr resolves the href of sel, falling back to the page URL.
func linkOr(sel *goquery.Selection, pageURL *url.URL) string {
	if sel.Length() > 0 {
		if href := resolveAttr(sel, "href", pageURL); href != "" {
			return href
		}
	}
	return pageURL.String()
}
