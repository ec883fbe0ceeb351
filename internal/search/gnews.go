package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/k-hicham/dailybrief/internal/feed"
)

const gnewsBaseURL = "https://gnews.io/api/v4"

// GNewsClient queries the GNews search API (free tier: 300 requests/day).
type GNewsClient struct {
	apiKey  string
	lang    string
	country string
	baseURL string
	client  *http.Client
}

func NewGNewsClient(apiKey, lang, country string) *GNewsClient {
	if lang == "" {
		lang = "en"
	}
	return &GNewsClient{
		apiKey:  apiKey,
		lang:    lang,
		country: country,
		baseURL: gnewsBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *GNewsClient) Name() string { return "gnews" }

type gnewsArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

type gnewsResponse struct {
	TotalArticles int            `json:"totalArticles"`
	Articles      []gnewsArticle `json:"articles"`
}

// Search returns up to limit articles for the query, in provider-ranked order.
func (c *GNewsClient) Search(ctx context.Context, query string, limit int) ([]feed.Item, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("lang", c.lang)
	if c.country != "" {
		q.Set("country", c.country)
	}
	q.Set("max", strconv.Itoa(limit))
	q.Set("token", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("searching %q: gnews returned %s", query, resp.Status)
	}

	var body gnewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding gnews response: %w", err)
	}

	items := make([]feed.Item, 0, len(body.Articles))
	for _, a := range body.Articles {
		if len(items) == limit {
			break
		}
		it := feed.Item{Title: a.Title, URL: a.URL, Summary: a.Description}
		if !it.Usable() {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}
