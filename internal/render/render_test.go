package render

import (
	"strings"
	"testing"
	"time"

	"github.com/k-hicham/dailybrief/internal/feed"
)

var testRenderOpts = Options{SnippetLength: 260, ReadMore: "Voir la suite →"}

func TestItemEscapesTitle(t *testing.T) {
	it := feed.Item{
		Title:   `<script>alert("x")</script>`,
		URL:     "https://example.com/a",
		Summary: "plain",
	}
	got := Item(it, testRenderOpts)
	if strings.Contains(got, "<script>") {
		t.Errorf("title not escaped: %q", got)
	}
	if !strings.Contains(got, "&lt;script&gt;") {
		t.Errorf("expected escaped title, got %q", got)
	}
}

func TestItemStripsSummaryMarkup(t *testing.T) {
	it := feed.Item{
		Title:   "Hello",
		URL:     "https://example.com/a",
		Summary: "<p>Some <b>bold</b> news</p>",
	}
	got := Item(it, testRenderOpts)
	if !strings.Contains(got, "Some bold news") {
		t.Errorf("summary markup not stripped: %q", got)
	}
}

func TestItemTruncatesSnippet(t *testing.T) {
	it := feed.Item{
		Title:   "Hello",
		URL:     "https://example.com/a",
		Summary: strings.Repeat("x", 500),
	}
	got := Item(it, Options{SnippetLength: 40, ReadMore: "more"})
	if strings.Contains(got, strings.Repeat("x", 41)) {
		t.Errorf("snippet not truncated: %q", got)
	}
	if !strings.Contains(got, "...") {
		t.Errorf("expected ellipsis in truncated snippet: %q", got)
	}
}

func TestItemLinksTwice(t *testing.T) {
	it := feed.Item{Title: "Hello", URL: "https://example.com/a", Summary: "s"}
	got := Item(it, testRenderOpts)
	if strings.Count(got, `href="https://example.com/a"`) != 2 {
		t.Errorf("expected title and read-more links, got %q", got)
	}
	if !strings.Contains(got, "Voir la suite →") {
		t.Errorf("read-more label missing: %q", got)
	}
}

func TestCategoryBlock(t *testing.T) {
	got := CategoryBlock("Tech & AI", []string{"<li>one</li>", "<li>two</li>"})
	if !strings.Contains(got, "<h2>Tech &amp; AI</h2>") {
		t.Errorf("heading missing or unescaped: %q", got)
	}
	if !strings.HasPrefix(got, "<article>") || !strings.HasSuffix(got, "</article>") {
		t.Errorf("block not wrapped in <article>: %q", got)
	}
	one := strings.Index(got, "<li>one</li>")
	two := strings.Index(got, "<li>two</li>")
	if one == -1 || two == -1 || one > two {
		t.Errorf("items missing or reordered: %q", got)
	}
}

func TestDateHeading(t *testing.T) {
	now := time.Date(2026, time.January, 5, 8, 30, 0, 0, time.UTC)
	got := DateHeading("🗞️ Daily Brief", now)
	if !strings.Contains(got, "05 Jan 2026") {
		t.Errorf("expected DD Mon YYYY date, got %q", got)
	}
	if !strings.Contains(got, "🗞️ Daily Brief") {
		t.Errorf("label missing: %q", got)
	}
}

func TestPlaceholder(t *testing.T) {
	got := Placeholder("(No news fetched)")
	if got != "<p><em>(No news fetched)</em></p>" {
		t.Errorf("Placeholder = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a long string", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		got := truncate(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestTruncateUTF8(t *testing.T) {
	// Multi-byte text truncates by rune, not byte
	input := "こんにちは世界です"
	got := truncate(input, 5)
	want := "こん..."
	if got != want {
		t.Errorf("truncate(%q, 5) = %q, want %q", input, got, want)
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<p>Hello</p>", "Hello"},
		{"<b>Bold</b> and <i>italic</i>", "Bold and italic"},
		{"No tags here", "No tags here"},
		{"<div>  Multiple   spaces  </div>", "Multiple spaces"},
		{"", ""},
		{"<a href=\"url\">Link</a> text", "Link text"},
	}
	for _, tt := range tests {
		got := stripHTML(tt.input)
		if got != tt.want {
			t.Errorf("stripHTML(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
