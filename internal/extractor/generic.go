package extractor

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/notice-crawler/internal/entity"
	"github.com/user/notice-crawler/pkg/utils"
)

const (
	maxContainerElements = 30
	maxFallbackHeadings  = 20

	minTitleLen     = 10
	maxTitleLen     = 300
	storedTitleLen  = 200
	minContentLen   = 20
	maxContentLen   = 1000
	minHeadingLen   = 15
	maxFallbackBody = 500
)

// containerSelectors are tried in order; the first one that yields items wins.
var containerSelectors = []string{
	"article",
	"main article",
	".article",
	".post",
	".story",
	".news-item",
	".content-item",
	".list-item",
	"main .content",
	".main-content",
	`[role="article"]`,
}

const (
	titleSelector   = "h1, h2, h3, h4, h5, h6, .title, .heading"
	bodySelector    = "p, .content, .description, .summary, .excerpt"
	headingSelector = "h1, h2, h3, h4, h5, h6"
)

// Generic extracts items from pages without a dedicated strategy. Content
// containers are tried first; headings are used only when no container yields items.
func Generic(doc *goquery.Document, pageURL *url.URL) []entity.ExtractedItem {
	for _, selector := range containerSelectors {
		if items := containerItems(doc, selector, pageURL); len(items) > 0 {
			return items
		}
	}
	return headingItems(doc, pageURL)
}

func containerItems(doc *goquery.Document, selector string, pageURL *url.URL) []entity.ExtractedItem {
	var items []entity.ExtractedItem
	doc.Find(selector).EachWithBreak(func(i int, el *goquery.Selection) bool {
		if i >= maxContainerElements {
			return false
		}
		if !isContentElement(el) {
			return true
		}

		titleEl := el.Find(titleSelector).First()
		if titleEl.Length() == 0 {
			titleEl = el.Find("a").First()
		}
		if titleEl.Length() == 0 {
			return true
		}
		bodyEl := el.Find(bodySelector).First()
		if bodyEl.Length() == 0 {
			bodyEl = el
		}
		linkEl := el.Find("a").First()
		if linkEl.Length() == 0 {
			linkEl = el.Closest("a")
		}

		title := textOf(titleEl)
		content := textOf(bodyEl)
		titleLen := utils.RuneLen(title)
		if titleLen <= minTitleLen || titleLen >= maxTitleLen ||
			utils.RuneLen(content) <= minContentLen ||
			isMetadataText(title) || isNavigationText(title) {
			return true
		}

		item := entity.ExtractedItem{
			Title:   utils.Truncate(title, storedTitleLen),
			Content: utils.Truncate(content, maxContentLen),
			URL:     linkOr(linkEl, pageURL),
			Type:    entity.ItemTypeArticle,
		}
		if img := resolveAttr(el.Find("img").First(), "src", pageURL); img != "" {
			item.Metadata = map[string]string{"image_url": img}
		}
		items = append(items, item)
		return true
	})
	return items
}

func headingItems(doc *goquery.Document, pageURL *url.URL) []entity.ExtractedItem {
	var items []entity.ExtractedItem
	doc.Find(headingSelector).EachWithBreak(func(i int, h *goquery.Selection) bool {
		if i >= maxFallbackHeadings {
			return false
		}
		if !isContentElement(h) {
			return true
		}

		text := textOf(h)
		n := utils.RuneLen(text)
		if n <= minHeadingLen || n >= maxTitleLen || isMetadataText(text) || isNavigationText(text) {
			return true
		}

		nearby := textOf(h.Next())
		if nearby == "" {
			nearby = textOf(h.Parent())
		}
		if nearby == "" {
			nearby = text
		}
		linkEl := h.Find("a").First()
		if linkEl.Length() == 0 {
			linkEl = h.Closest("a")
		}

		items = append(items, entity.ExtractedItem{
			Title:   text,
			Content: utils.Truncate(nearby, maxFallbackBody),
			URL:     linkOr(linkEl, pageURL),
			Type:    entity.ItemTypeContent,
		})
		return true
	})
	return items
}
