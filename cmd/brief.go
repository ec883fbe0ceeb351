package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/k-hicham/dailybrief/internal/brief"
	"github.com/k-hicham/dailybrief/internal/config"
	"github.com/k-hicham/dailybrief/internal/feed"
	"github.com/k-hicham/dailybrief/internal/patch"
	"github.com/k-hicham/dailybrief/internal/search"
	"github.com/spf13/cobra"
)

func runBrief(cmd *cobra.Command, args []string) error {
	b, cfg, err := composeBrief(args)
	if err != nil {
		return err
	}
	fragment := b.Fragment(cfg.GetEmptyNotice())

	target := flagTarget
	if target == "" {
		target = cfg.GetTargetPath()
	}

	doc, err := os.ReadFile(target)
	if err != nil {
		return fmt.Errorf("reading target document: %w", err)
	}

	patched := patch.Apply(string(doc), fragment, patchOptions(cfg))

	if err := os.WriteFile(target, []byte(patched), 0o644); err != nil {
		return fmt.Errorf("writing target document: %w", err)
	}

	fmt.Printf("Daily brief injected into %s – %d chars\n", target, len(fragment))
	return nil
}

var previewCmd = &cobra.Command{
	Use:   "preview [watch keyword...]",
	Short: "Print the composed brief fragment without touching the document",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, cfg, err := composeBrief(args)
		if err != nil {
			return err
		}
		fmt.Println(b.Fragment(cfg.GetEmptyNotice()))
		return nil
	},
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured categories and sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		for _, cat := range cfg.Categories {
			fmt.Printf("%s (fallback: %s)\n", cat.Name, cat.FallbackKeyword())
			for _, s := range cat.Sources {
				state := "enabled"
				if !s.Enabled {
					state = "disabled"
				}
				fmt.Printf("  %-24s %-4s %s (%s)\n", s.Name, s.Type, s.URL, state)
			}
		}
		fmt.Printf("Search provider: %s", cfg.SearchProvider())
		if !cfg.SearchEnabled() {
			fmt.Print(" (no API key)")
		}
		fmt.Println()
		return nil
	},
}

// composeBrief loads configuration and runs the full aggregation pass.
// Partial source failures are contained inside the aggregator; only
// configuration problems surface here.
func composeBrief(args []string) (*brief.Brief, *config.Config, error) {
	// Local .env carries the search API key in dev setups. Missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if !cfg.HasFeedSources() && !cfg.SearchEnabled() {
		return nil, nil, fmt.Errorf("no enabled feed sources and no search API key: nothing to fetch")
	}

	var provider search.Provider
	if cfg.SearchEnabled() {
		provider, err = search.New(cfg)
		if err != nil {
			return nil, nil, err
		}
	} else if flagVerbose {
		fmt.Fprintln(os.Stderr, "[warn] no search API key: keyword fallback disabled")
	}

	opts := brief.Options{
		Config:  cfg,
		Fetcher: feed.NewRSSFetcher(),
		Search:  provider,
		Watch:   resolveWatch(args, cfg),
	}
	if flagVerbose {
		opts.Logf = func(format string, a ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", a...)
		}
	}

	return brief.Compose(context.Background(), opts), cfg, nil
}

// resolveWatch picks the watch keyword: positional args win, then the
// --watch flag, then the WATCH_KEYWORD environment variable, then config.
func resolveWatch(args []string, cfg *config.Config) string {
	if len(args) > 0 {
		return strings.TrimSpace(strings.Join(args, " "))
	}
	if flagWatch != "" {
		return flagWatch
	}
	if env := strings.TrimSpace(os.Getenv("WATCH_KEYWORD")); env != "" {
		return env
	}
	return cfg.Watch
}

func patchOptions(cfg *config.Config) patch.Options {
	return patch.Options{
		StartMarker: cfg.GetStartMarker(),
		EndMarker:   cfg.GetEndMarker(),
		SectionID:   cfg.GetSectionID(),
		AnchorTag:   cfg.GetAnchorTag(),
	}
}
