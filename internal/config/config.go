package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Source is one primary feed inside a category.
type Source struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

// Category groups an ordered list of primary sources with a keyword used
// when one of them comes back empty.
type Category struct {
	Name    string   `yaml:"name"`
	Sources []Source `yaml:"sources"`
	Keyword string   `yaml:"keyword,omitempty"`
}

// SearchConfig selects and credentials the keyword-search provider.
type SearchConfig struct {
	Provider string `yaml:"provider"` // "gnews" or "serpapi"
	APIKey   string `yaml:"api_key,omitempty"`
	Lang     string `yaml:"lang,omitempty"`
	Country  string `yaml:"country,omitempty"`
}

// Target describes the document the brief is written into.
type Target struct {
	Path        string `yaml:"path"`
	StartMarker string `yaml:"start_marker,omitempty"`
	EndMarker   string `yaml:"end_marker,omitempty"`
	SectionID   string `yaml:"section_id,omitempty"`
	AnchorTag   string `yaml:"anchor_tag,omitempty"`
}

// Labels holds the human-visible strings of the generated fragment.
type Labels struct {
	BriefHeading string `yaml:"brief_heading,omitempty"`
	WatchHeading string `yaml:"watch_heading,omitempty"`
	ReadMore     string `yaml:"read_more,omitempty"`
	EmptyNotice  string `yaml:"empty_notice,omitempty"`
}

type Config struct {
	Categories    []Category    `yaml:"categories"`
	Watch         string        `yaml:"watch,omitempty"`
	Search        *SearchConfig `yaml:"search,omitempty"`
	Target        Target        `yaml:"target"`
	Labels        Labels        `yaml:"labels,omitempty"`
	FetchTimeout  string        `yaml:"fetch_timeout,omitempty"`
	CategoryCap   int           `yaml:"category_cap,omitempty"`
	SourceLimit   int           `yaml:"source_limit,omitempty"`
	SnippetLength int           `yaml:"snippet_length,omitempty"`
	Dedup         string        `yaml:"dedup,omitempty"` // "exact" or "casefold"
}

// SearchEnabled returns true if the keyword-search provider can be queried.
func (c *Config) SearchEnabled() bool {
	return c.SearchKey() != ""
}

// SearchKey returns the resolved provider API key (config or env var).
func (c *Config) SearchKey() string {
	if c.Search != nil && c.Search.APIKey != "" {
		return c.Search.APIKey
	}
	switch c.SearchProvider() {
	case "serpapi":
		return os.Getenv("SERPAPI_KEY")
	default:
		return os.Getenv("GNEWS_KEY")
	}
}

// SearchProvider returns the configured provider name, defaulting to gnews.
func (c *Config) SearchProvider() string {
	if c.Search == nil || c.Search.Provider == "" {
		return "gnews"
	}
	return c.Search.Provider
}

func (c *Config) FetchTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.FetchTimeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// GetCategoryCap returns the per-category item cap, defaulting to 5.
func (c *Config) GetCategoryCap() int {
	if c.CategoryCap <= 0 {
		return 5
	}
	return c.CategoryCap
}

// GetSourceLimit returns how many candidates are read per source, defaulting to 10.
func (c *Config) GetSourceLimit() int {
	if c.SourceLimit <= 0 {
		return 10
	}
	return c.SourceLimit
}

// GetSnippetLength returns the snippet truncation length, defaulting to 260.
func (c *Config) GetSnippetLength() int {
	if c.SnippetLength <= 0 {
		return 260
	}
	return c.SnippetLength
}

// GetDedup returns the title-key strictness, defaulting to exact match.
func (c *Config) GetDedup() string {
	if c.Dedup == "" {
		return "exact"
	}
	return c.Dedup
}

func (c *Config) GetStartMarker() string {
	if c.Target.StartMarker == "" {
		return "<!-- DAILY BRIEF START -->"
	}
	return c.Target.StartMarker
}

func (c *Config) GetEndMarker() string {
	if c.Target.EndMarker == "" {
		return "<!-- DAILY BRIEF END -->"
	}
	return c.Target.EndMarker
}

func (c *Config) GetSectionID() string {
	if c.Target.SectionID == "" {
		return "posts"
	}
	return c.Target.SectionID
}

func (c *Config) GetAnchorTag() string {
	if c.Target.AnchorTag == "" {
		return "main"
	}
	return c.Target.AnchorTag
}

func (c *Config) GetTargetPath() string {
	if c.Target.Path == "" {
		return "index.html"
	}
	return c.Target.Path
}

func (c *Config) GetBriefHeading() string {
	if c.Labels.BriefHeading == "" {
		return "🗞️ Daily Brief"
	}
	return c.Labels.BriefHeading
}

func (c *Config) GetWatchHeading() string {
	if c.Labels.WatchHeading == "" {
		return "🔍 Client Watch"
	}
	return c.Labels.WatchHeading
}

func (c *Config) GetReadMore() string {
	if c.Labels.ReadMore == "" {
		return "Voir la suite →"
	}
	return c.Labels.ReadMore
}

func (c *Config) GetEmptyNotice() string {
	if c.Labels.EmptyNotice == "" {
		return "(No news fetched)"
	}
	return c.Labels.EmptyNotice
}

// EnabledSources filters a category's source list down to the enabled ones.
func (cat *Category) EnabledSources() []Source {
	var out []Source
	for _, s := range cat.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// FallbackKeyword returns the keyword used when a primary source is empty:
// the configured one, or the first word of the category name.
func (cat *Category) FallbackKeyword() string {
	if cat.Keyword != "" {
		return cat.Keyword
	}
	return firstWord(cat.Name)
}

func firstWord(s string) string {
	for i, r := range s {
		if r == ' ' {
			return s[:i]
		}
	}
	return s
}

// HasFeedSources reports whether any category has at least one enabled
// primary feed. When false, the keyword-search credential is the only path
// to content and its absence is fatal at startup.
func (c *Config) HasFeedSources() bool {
	for _, cat := range c.Categories {
		if len(cat.EnabledSources()) > 0 {
			return true
		}
	}
	return false
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "dailybrief", "config.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if len(cfg.Categories) == 0 {
		cfg.Categories = defaults.Categories
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	validTypes := map[string]bool{"rss": true, "atom": true}
	for _, cat := range cfg.Categories {
		if cat.Name == "" {
			return fmt.Errorf("category with empty name")
		}
		if len(cat.Sources) == 0 && cat.Keyword == "" {
			return fmt.Errorf("category %q: needs sources or a keyword", cat.Name)
		}
		for _, s := range cat.Sources {
			if s.Name == "" {
				return fmt.Errorf("category %q: source with empty name", cat.Name)
			}
			if s.URL == "" {
				return fmt.Errorf("source %q: url is required", s.Name)
			}
			u, err := url.Parse(s.URL)
			if err != nil {
				return fmt.Errorf("source %q: invalid url: %w", s.Name, err)
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return fmt.Errorf("source %q: url scheme must be http or https, got %q", s.Name, u.Scheme)
			}
			if !validTypes[s.Type] {
				return fmt.Errorf("source %q: unknown type %q (valid: rss, atom)", s.Name, s.Type)
			}
		}
	}
	switch cfg.GetDedup() {
	case "exact", "casefold":
	default:
		return fmt.Errorf("dedup: unknown mode %q (valid: exact, casefold)", cfg.Dedup)
	}
	if cfg.Search != nil {
		switch cfg.SearchProvider() {
		case "gnews", "serpapi":
		default:
			return fmt.Errorf("search: unknown provider %q (valid: gnews, serpapi)", cfg.Search.Provider)
		}
	}
	return nil
}
