// internal/search/models.go
package search

// Result is the common shape every collection maps into.
type Result struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Slug        string `json:"slug,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`

	normTitle string
	normBody  string
}
