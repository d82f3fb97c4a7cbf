package news

import (
	"context"
	"strings"
	"time"
)

// Item is one headline.
type Item struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Published   string    `json:"published"` // as sent by the feed
	PublishedAt time.Time `json:"published_at"`
	Source      string    `json:"source,omitempty"`
}

// Provider looks up headlines for a free-text query. Implementations never
// fail: an unavailable source yields no items.
type Provider interface {
	Search(ctx context.Context, query string) []Item
}

// Observer receives the outcome of every lookup.
type Observer interface {
	ObserveNews(status string)
}

// Lookup statuses reported to an Observer.
const (
	StatusOK    = "ok"
	StatusEmpty = "empty"
	StatusError = "error"
)

// Static returns a fixed set of items whose title mentions the query.
type Static struct {
	items []Item
}

// NewStatic creates a provider over items. A nil slice disables news.
func NewStatic(items []Item) *Static {
	return &Static{items: items}
}

// Search returns the items mentioning query, case-insensitively.
func (s *Static) Search(ctx context.Context, query string) []Item {
	q := strings.ToLower(strings.TrimSpace(query))
	var result []Item
	for _, item := range s.items {
		if q == "" || strings.Contains(strings.ToLower(item.Title), q) {
			result = append(result, item)
		}
	}
	return result
}

// Top returns at most n items.
func Top(items []Item, n int) []Item {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[:n]
}
