package search

import (
	"context"
	"fmt"

	"github.com/k-hicham/dailybrief/internal/feed"
	g "github.com/serpapi/google-search-results-golang"
)

// SerpAPIClient queries Google News through SerpApi.
type SerpAPIClient struct {
	apiKey  string
	lang    string
	country string
}

func NewSerpAPIClient(apiKey, lang, country string) *SerpAPIClient {
	if lang == "" {
		lang = "en"
	}
	return &SerpAPIClient{apiKey: apiKey, lang: lang, country: country}
}

func (c *SerpAPIClient) Name() string { return "serpapi" }

// Search returns up to limit news results for the query. The SerpApi client
// library has no context support; ctx only bounds the caller's wait.
func (c *SerpAPIClient) Search(ctx context.Context, query string, limit int) ([]feed.Item, error) {
	parameter := map[string]string{
		"engine": "google",
		"q":      query,
		"tbm":    "nws",
		"hl":     c.lang,
	}
	if c.country != "" {
		parameter["gl"] = c.country
	}

	type answer struct {
		results map[string]interface{}
		err     error
	}
	done := make(chan answer, 1)
	go func() {
		s := g.NewGoogleSearch(parameter, c.apiKey)
		results, err := s.GetJSON()
		done <- answer{results, err}
	}()

	var results map[string]interface{}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case a := <-done:
		if a.err != nil {
			return nil, fmt.Errorf("serpapi search failed: %w", a.err)
		}
		results = a.results
	}

	raw, ok := results["news_results"].([]interface{})
	if !ok {
		// Some engines report news under organic_results.
		raw, ok = results["organic_results"].([]interface{})
		if !ok {
			return nil, nil
		}
	}

	items := make([]feed.Item, 0, limit)
	for _, entry := range raw {
		if len(items) == limit {
			break
		}
		res, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		title, _ := res["title"].(string)
		link, _ := res["link"].(string)
		snippet, _ := res["snippet"].(string)

		it := feed.Item{Title: title, URL: link, Summary: snippet}
		if !it.Usable() {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}
