package news

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://news.google.com/rss/search"

	maxFeedBytes = 4 << 20
)

// GoogleConfig selects the feed endpoint and locale.
type GoogleConfig struct {
	BaseURL  string
	HL       string
	GL       string
	CEID     string
	Timeout  time.Duration
	Observer Observer
}

// Google searches the Google News RSS feed.
type Google struct {
	client *http.Client
	cfg    GoogleConfig
	logger *zap.Logger
}

// NewGoogle creates a Google News provider. Empty locale fields default to
// Traditional Chinese, Taiwan.
func NewGoogle(cfg GoogleConfig, logger *zap.Logger) *Google {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.HL == "" {
		cfg.HL = "zh-TW"
	}
	if cfg.GL == "" {
		cfg.GL = "TW"
	}
	if cfg.CEID == "" {
		cfg.CEID = "TW:zh-Hant"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Google{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		logger: logger,
	}
}

// FeedURL builds the search URL for query.
func (g *Google) FeedURL(query string) string {
	q := url.Values{}
	q.Set("q", query)
	q.Set("hl", g.cfg.HL)
	q.Set("gl", g.cfg.GL)
	q.Set("ceid", g.cfg.CEID)
	return g.cfg.BaseURL + "?" + q.Encode()
}

// Search returns the feed's items in feed order. Failures are logged and
// produce an empty result.
func (g *Google) Search(ctx context.Context, query string) []Item {
	items, err := g.fetch(ctx, query)
	switch {
	case err != nil:
		g.logger.Warn("news lookup failed", zap.String("query", query), zap.Error(err))
		g.observe(StatusError)
		return nil
	case len(items) == 0:
		g.observe(StatusEmpty)
	default:
		g.observe(StatusOK)
	}
	return items
}

func (g *Google) observe(status string) {
	if g.cfg.Observer != nil {
		g.cfg.Observer.ObserveNews(status)
	}
}

func (g *Google) fetch(ctx context.Context, query string) ([]Item, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.FeedURL(query), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/rss+xml, application/xml")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	// gofeed parsers hold per-parse state, so each lookup gets its own.
	feed, err := gofeed.NewParser().Parse(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, fi := range feed.Items {
		if fi == nil {
			continue
		}
		item := Item{
			Title:     strings.TrimSpace(fi.Title),
			Link:      fi.Link,
			Published: fi.Published,
		}
		if fi.PublishedParsed != nil {
			item.PublishedAt = *fi.PublishedParsed
		}
		item.Title, item.Source = splitSource(item.Title)
		items = append(items, item)
	}
	return items, nil
}

// splitSource separates the trailing " - Publisher" Google appends to titles.
func splitSource(title string) (string, string) {
	i := strings.LastIndex(title, " - ")
	if i <= 0 || i+3 >= len(title) {
		return title, ""
	}
	return title[:i], title[i+3:]
}
