package categorizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
		want    string
	}{
		{name: "health notice", title: "Health Ministry notice", content: "vaccine hospital treatment", want: "health"},
		{name: "empty", title: "", content: "", want: General},
		{name: "no keywords", title: "Lorem ipsum", content: "dolor sit amet", want: General},
		{name: "below threshold", title: "", content: "wellness", want: General},
		{name: "title bonus lifts secondary match", title: "Therapy", content: "", want: "health"},
		{name: "tie goes to earlier category", title: "", content: "pension", want: "employment"},
		{name: "finance", title: "", content: "bank loan", want: "finance"},
		{name: "case insensitive", title: "SCHOLARSHIP RESULTS", content: "", want: "education"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.title, tt.content))
		})
	}
}

func TestScores(t *testing.T) {
	scores := Scores("Health Ministry notice", "vaccine hospital treatment")

	assert.Len(t, scores, len(Categories))
	assert.InDelta(t, 14.0, scores["health"], 0.001)
	assert.InDelta(t, 5.0, scores["taxation"], 0.001)
	assert.Zero(t, scores["environment"])
}

func TestCategoriesOrder(t *testing.T) {
	names := make([]string, 0, len(Categories))
	for _, c := range Categories {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{
		"health", "education", "employment", "taxation", "legal",
		"welfare", "infrastructure", "agriculture", "finance", "environment",
	}, names)
}
