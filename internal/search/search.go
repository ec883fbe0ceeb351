package search

import (
	"context"
	"fmt"

	"github.com/k-hicham/dailybrief/internal/config"
	"github.com/k-hicham/dailybrief/internal/feed"
)

// Provider is implemented by keyword-search backends. It is the fallback
// path used when a primary feed yields nothing, and the only path for the
// watch category.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]feed.Item, error)
}

// New creates a Provider from the search config.
func New(cfg *config.Config) (Provider, error) {
	key := cfg.SearchKey()
	if key == "" {
		return nil, fmt.Errorf("search not configured: missing API key")
	}

	var lang, country string
	if cfg.Search != nil {
		lang = cfg.Search.Lang
		country = cfg.Search.Country
	}

	switch cfg.SearchProvider() {
	case "gnews":
		return NewGNewsClient(key, lang, country), nil
	case "serpapi":
		return NewSerpAPIClient(key, lang, country), nil
	default:
		return nil, fmt.Errorf("unknown search provider: %q (valid: gnews, serpapi)", cfg.SearchProvider())
	}
}
