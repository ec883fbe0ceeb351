package brief

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/k-hicham/dailybrief/internal/config"
	"github.com/k-hicham/dailybrief/internal/feed"
	"github.com/k-hicham/dailybrief/internal/render"
	"github.com/k-hicham/dailybrief/internal/search"
)

// CategoryResult is the capped, deduplicated outcome for one category.
// Items are rendered HTML blocks in discovery order.
type CategoryResult struct {
	Name  string
	Items []string
}

// Empty reports whether the category produced nothing and should be
// omitted from the fragment.
func (r CategoryResult) Empty() bool { return len(r.Items) == 0 }

// SourceResult records what one primary source contributed, and whether
// the keyword fallback had to be queried in its place.
type SourceResult struct {
	Items        []feed.Item
	UsedFallback bool
}

// Brief is the assembled output of one run. Built fresh each run, handed
// once to the patcher, never persisted.
type Brief struct {
	Heading    string
	Categories []CategoryResult
	Watch      *CategoryResult
}

// Fragment concatenates the heading and all non-empty blocks. When every
// category (watch included) is empty, the heading is followed by an
// explicit placeholder so the patch step always has something to write.
func (b *Brief) Fragment(emptyNotice string) string {
	parts := []string{b.Heading}
	for _, cat := range b.Categories {
		parts = append(parts, render.CategoryBlock(cat.Name, cat.Items))
	}
	if b.Watch != nil {
		parts = append(parts, render.CategoryBlock(b.Watch.Name, b.Watch.Items))
	}
	if len(parts) == 1 {
		parts = append(parts, render.Placeholder(emptyNotice))
	}
	return strings.Join(parts, "\n")
}

// Options holds the collaborators and knobs for Compose.
type Options struct {
	Config  *config.Config
	Fetcher feed.Fetcher
	Search  search.Provider // nil when no credential is available
	Watch   string
	Now     time.Time
	Logf    func(format string, args ...any) // diagnostic sink, may be nil
}

func (o *Options) logf(format string, args ...any) {
	if o.Logf != nil {
		o.Logf(format, args...)
	}
}

// Aggregator produces one CategoryResult per category spec.
type Aggregator struct {
	opts *Options
}

func NewAggregator(opts *Options) *Aggregator {
	return &Aggregator{opts: opts}
}

// Aggregate queries the category's primary sources in order, deduplicates
// by title key across everything consulted, and stops at the category cap.
// A primary source that yields zero candidates triggers one keyword-search
// query whose candidates merge into the same scan. A category with no
// primary sources goes straight to keyword search.
func (a *Aggregator) Aggregate(ctx context.Context, cat config.Category) CategoryResult {
	cfg := a.opts.Config
	result := CategoryResult{Name: cat.Name}
	seen := make(map[string]bool)

	renderOpts := render.Options{
		SnippetLength: cfg.GetSnippetLength(),
		ReadMore:      cfg.GetReadMore(),
	}

	scan := func(items []feed.Item) {
		for _, it := range items {
			if len(result.Items) == cfg.GetCategoryCap() {
				return
			}
			key := a.titleKey(it.Title)
			if seen[key] {
				continue
			}
			seen[key] = true
			result.Items = append(result.Items, render.Item(it, renderOpts))
		}
	}

	sources := cat.EnabledSources()
	if len(sources) == 0 {
		scan(a.fallback(ctx, cat.FallbackKeyword()))
		return result
	}

	for _, src := range sources {
		if len(result.Items) == cfg.GetCategoryCap() {
			break
		}
		res := a.fetchSource(ctx, src, cat.FallbackKeyword())
		scan(res.Items)
	}
	return result
}

// fetchSource fetches one primary source, substituting a one-shot keyword
// query when the source comes back empty or broken.
func (a *Aggregator) fetchSource(ctx context.Context, src config.Source, keyword string) SourceResult {
	// The timeout bounds only the primary fetch. The fallback applies its
	// own inside fallback(), so a timed-out primary does not starve it.
	fctx, cancel := context.WithTimeout(ctx, a.opts.Config.FetchTimeoutDuration())
	defer cancel()
	items, err := a.opts.Fetcher.Fetch(fctx, src, a.opts.Config.GetSourceLimit())
	if err != nil {
		a.opts.logf("[warn] %v", err)
		items = nil
	}
	a.opts.logf("RSS  %s → %d items", src.URL, len(items))

	if len(items) > 0 {
		return SourceResult{Items: items}
	}
	fb := a.fallback(ctx, keyword)
	return SourceResult{Items: fb, UsedFallback: len(fb) > 0}
}

// fallback runs the keyword search, degrading to empty on any failure or
// when no provider is configured.
func (a *Aggregator) fallback(ctx context.Context, keyword string) []feed.Item {
	if a.opts.Search == nil || keyword == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, a.opts.Config.FetchTimeoutDuration())
	defer cancel()
	items, err := a.opts.Search.Search(ctx, keyword, a.opts.Config.GetSourceLimit())
	if err != nil {
		a.opts.logf("[warn] search %q: %v", keyword, err)
		return nil
	}
	a.opts.logf("%s %q → %d items", a.opts.Search.Name(), keyword, len(items))
	return items
}

func (a *Aggregator) titleKey(title string) string {
	if a.opts.Config.GetDedup() == "casefold" {
		return strings.ToLower(strings.TrimSpace(title))
	}
	return title
}

// Compose drives the aggregator over the configured categories plus the
// optional watch term and assembles the brief. Categories run
// concurrently; block order stays the configured order.
func Compose(ctx context.Context, opts Options) *Brief {
	cfg := opts.Config
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	b := &Brief{Heading: render.DateHeading(cfg.GetBriefHeading(), now)}
	agg := NewAggregator(&opts)

	results := make([]CategoryResult, len(cfg.Categories))
	var wg sync.WaitGroup
	for i, cat := range cfg.Categories {
		wg.Add(1)
		go func(i int, cat config.Category) {
			defer wg.Done()
			results[i] = agg.Aggregate(ctx, cat)
		}(i, cat)
	}
	wg.Wait()

	for _, r := range results {
		if r.Empty() {
			continue
		}
		b.Categories = append(b.Categories, r)
	}

	if opts.Watch != "" {
		watch := agg.Aggregate(ctx, config.Category{
			Name:    cfg.GetWatchHeading() + " – " + opts.Watch,
			Keyword: opts.Watch,
		})
		if !watch.Empty() {
			b.Watch = &watch
		}
	}

	return b
}
