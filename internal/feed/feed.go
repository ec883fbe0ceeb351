package feed

import (
	"context"
	"fmt"

	"github.com/k-hicham/dailybrief/internal/config"
	"github.com/mmcdole/gofeed"
)

// Item is one candidate article as a source supplied it. Title and URL are
// required for the item to be usable; Summary may be empty.
type Item struct {
	Title   string
	URL     string
	Summary string
}

// Usable reports whether the item carries enough data to be rendered.
func (it Item) Usable() bool {
	return it.Title != "" && it.URL != ""
}

// Fetcher retrieves candidate items from one primary source.
type Fetcher interface {
	Fetch(ctx context.Context, source config.Source, limit int) ([]Item, error)
}

// RSSFetcher reads RSS/Atom feeds.
type RSSFetcher struct {
	parser *gofeed.Parser
}

func NewRSSFetcher() *RSSFetcher {
	return &RSSFetcher{parser: gofeed.NewParser()}
}

// Fetch returns up to limit entries in feed order. Entries without a title
// or link are skipped.
func (f *RSSFetcher) Fetch(ctx context.Context, source config.Source, limit int) ([]Item, error) {
	parsed, err := f.parser.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source.Name, err)
	}

	items := make([]Item, 0, limit)
	for _, entry := range parsed.Items {
		if len(items) == limit {
			break
		}
		summary := entry.Description
		if summary == "" {
			summary = entry.Content
		}
		it := Item{
			Title:   entry.Title,
			URL:     entry.Link,
			Summary: summary,
		}
		if !it.Usable() {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}
