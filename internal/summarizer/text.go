package summarizer

import (
	"regexp"
	"strings"

	"github.com/user/notice-crawler/internal/entity"
	"github.com/user/notice-crawler/pkg/utils"
)

const (
	wordsPerMinute = 200
	// Placeholder is returned when neither content nor title has any text.
	Placeholder = "No summary available."
)

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// WordCount returns the number of whitespace-delimited tokens in content.
func WordCount(content string) int {
	return len(strings.Fields(content))
}

// ReadingTime returns the estimated reading time in minutes, at least 1.
func ReadingTime(content string) int {
	words := WordCount(content)
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// ImportanceOf buckets content by length: over 500 words is high, over 200 medium.
func ImportanceOf(content string) entity.Importance {
	switch words := WordCount(content); {
	case words > 500:
		return entity.ImportanceHigh
	case words > 200:
		return entity.ImportanceMedium
	default:
		return entity.ImportanceLow
	}
}

// Fallback builds an extractive summary from content without any external call.
// It never returns an empty string.
func Fallback(content, title string) string {
	var sentences []string
	for _, s := range sentenceEnd.Split(content, -1) {
		if s = strings.TrimSpace(s); utils.RuneLen(s) > 20 {
			sentences = append(sentences, s)
			if len(sentences) == 2 {
				break
			}
		}
	}

	if summary := strings.Join(sentences, ". "); utils.RuneLen(summary) > 10 {
		if !strings.HasSuffix(summary, ".") {
			summary += "."
		}
		return summary
	}

	if content = strings.TrimSpace(content); content != "" {
		if utils.RuneLen(content) > 200 {
			return utils.Truncate(content, 200) + "..."
		}
		return content
	}
	if title = strings.TrimSpace(title); title != "" {
		return title
	}
	return Placeholder
}
