package render

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/k-hicham/dailybrief/internal/feed"
)

// Options controls the presentation of rendered items.
type Options struct {
	SnippetLength int
	ReadMore      string
}

// Item renders one candidate as an <li> with an escaped title link and a
// truncated plain-text snippet. The result is immutable once built.
func Item(it feed.Item, opts Options) string {
	title := html.EscapeString(it.Title)
	link := html.EscapeString(it.URL)
	snippet := html.EscapeString(truncate(stripHTML(it.Summary), opts.SnippetLength))
	more := html.EscapeString(opts.ReadMore)
	return fmt.Sprintf(
		`<li><strong><a href="%s" target="_blank">%s</a></strong><br>`+
			`<p class="snippet">%s <a href="%s" target="_blank">%s</a></p></li>`,
		link, title, snippet, link, more,
	)
}

// CategoryBlock wraps rendered items as one labeled <article> group.
func CategoryBlock(heading string, items []string) string {
	var b strings.Builder
	b.WriteString("<article>\n")
	b.WriteString("    <h2>" + html.EscapeString(heading) + "</h2>\n")
	b.WriteString("    <ul>\n")
	for _, it := range items {
		b.WriteString("        " + it + "\n")
	}
	b.WriteString("    </ul>\n")
	b.WriteString("</article>")
	return b.String()
}

// DateHeading renders the dated heading block that opens every brief.
func DateHeading(label string, now time.Time) string {
	return fmt.Sprintf("<article><h2>%s – %s</h2></article>",
		html.EscapeString(label), now.Format("02 Jan 2006"))
}

// Placeholder is emitted when no category yields content, so the patch
// step always has something to write.
func Placeholder(notice string) string {
	return "<p><em>" + html.EscapeString(notice) + "</em></p>"
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
