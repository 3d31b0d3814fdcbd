package extractor

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/notice-crawler/internal/entity"
	"github.com/user/notice-crawler/pkg/utils"
)

const (
	maxHackerNewsStories = 30
	maxBooks             = 50
)

var starRating = regexp.MustCompile(`star-rating (\w+)`)

// HackerNews extracts the story list of news.ycombinator.com.
func HackerNews(doc *goquery.Document, pageURL *url.URL) []entity.ExtractedItem {
	var items []entity.ExtractedItem
	doc.Find(".athing").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i >= maxHackerNewsStories {
			return false
		}
		titleEl := row.Find(".titleline > a").First()
		if titleEl.Length() == 0 {
			return true
		}
		title := textOf(titleEl)
		if utils.RuneLen(title) <= 5 {
			return true
		}

		sub := row.Next()
		score := orDefault(textOf(sub.Find(".score").First()), "0 points")
		author := orDefault(textOf(sub.Find(".hnuser").First()), "unknown")
		age := orDefault(textOf(sub.Find(".age").First()), "unknown")
		comments := orDefault(textOf(sub.Find(`a[href*="item?id="]:last-child`).First()), "0 comments")

		items = append(items, entity.ExtractedItem{
			Title:   utils.Truncate(title, maxTitleLen),
			Content: fmt.Sprintf("%s by %s %s | %s", score, author, age, comments),
			URL:     linkOr(titleEl, pageURL),
			Type:    entity.ItemTypeNews,
			Metadata: map[string]string{
				"score":    score,
				"author":   author,
				"age":      age,
				"comments": comments,
			},
		})
		return true
	})
	return items
}

// Books extracts the product grid of books.toscrape.com.
func Books(doc *goquery.Document, pageURL *url.URL) []entity.ExtractedItem {
	var items []entity.ExtractedItem
	doc.Find("article.product_pod").EachWithBreak(func(i int, el *goquery.Selection) bool {
		if i >= maxBooks {
			return false
		}
		titleEl := el.Find("h3 a").First()
		if titleEl.Length() == 0 {
			return true
		}
		title := strings.TrimSpace(titleEl.AttrOr("title", ""))
		if title == "" {
			title = textOf(titleEl)
		}
		if utils.RuneLen(title) <= 3 {
			return true
		}

		price := textOf(el.Find(".price_color").First())
		imageURL := resolveAttr(el.Find("img").First(), "src", pageURL)
		var rating string
		if m := starRating.FindStringSubmatch(el.Find(`[class*="star-rating"]`).First().AttrOr("class", "")); m != nil {
			rating = m[1]
		}

		metadata := map[string]string{}
		for k, v := range map[string]string{"price": price, "image_url": imageURL, "rating": rating} {
			if v != "" {
				metadata[k] = v
			}
		}

		items = append(items, entity.ExtractedItem{
			Title:    utils.Truncate(title, maxTitleLen),
			Content:  fmt.Sprintf("Price: %s, Rating: %s", orDefault(price, "N/A"), orDefault(rating, "N/A")),
			URL:      linkOr(titleEl, pageURL),
			Type:     entity.ItemTypeProduct,
			Metadata: metadata,
		})
		return true
	})
	return items
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
