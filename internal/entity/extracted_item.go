package entity

// ItemType tags the kind of content an extractor recognised.
type ItemType string

const (
	ItemTypeArticle ItemType = "article"
	ItemTypeNews    ItemType = "news"
	ItemTypeProduct ItemType = "product"
	ItemTypeContent ItemType = "content"
)

// ExtractedItem is a candidate notice pulled out of a single page.
type ExtractedItem struct {
	Title    string            `json:"title"`
	Content  string            `json:"content"`
	URL      string            `json:"url"`
	Type     ItemType          `json:"type"`
	Metadata map[string]string `json:"metadata,omitempty"` // extractor-specific
}
