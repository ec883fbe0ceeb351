// Package patch rewrites the marker-bounded brief region of an HTML
// document. It is pure over strings: every byte outside the region is
// preserved exactly, and applying the same fragment twice converges.
package patch

import (
	"strings"

	"golang.org/x/net/html"
)

// Options identifies the owned region and the insertion anchors.
type Options struct {
	StartMarker string
	EndMarker   string
	SectionID   string // id of the container the brief lands in
	AnchorTag   string // enclosing tag whose last closing tag is the fallback anchor
}

// Apply strips any previous marker-bounded region from doc, then splices
// fragment (wrapped in the markers) back in: as last child of the element
// with id Options.SectionID when present, otherwise just before the last
// closing AnchorTag, otherwise at the end of the document.
func Apply(doc, fragment string, opts Options) string {
	doc = strip(doc, opts)
	at := insertionPoint(doc, opts)
	wrapped := opts.StartMarker + "\n" + fragment + "\n" + opts.EndMarker
	return doc[:at] + wrapped + doc[at:]
}

// strip removes the first marker-bounded region, markers included.
// Markers match case-insensitively. Unpaired markers leave doc unchanged.
func strip(doc string, opts Options) string {
	start := indexFold(doc, opts.StartMarker)
	if start < 0 {
		return doc
	}
	rest := doc[start+len(opts.StartMarker):]
	end := indexFold(rest, opts.EndMarker)
	if end < 0 {
		return doc
	}
	cut := start + len(opts.StartMarker) + end + len(opts.EndMarker)
	return doc[:start] + doc[cut:]
}

// insertionPoint returns the byte offset where the wrapped fragment goes.
func insertionPoint(doc string, opts Options) int {
	if at, ok := sectionClose(doc, opts.SectionID); ok {
		return at
	}
	if opts.AnchorTag != "" {
		if at := lastIndexFold(doc, "</"+opts.AnchorTag+">"); at >= 0 {
			return at
		}
	}
	return len(doc)
}

// sectionClose tokenizes doc looking for the first element whose id
// attribute equals sectionID and returns the offset of its closing tag.
// The tokenizer's raw bytes keep the offset exact; the document itself is
// never re-serialized.
func sectionClose(doc, sectionID string) (int, bool) {
	if sectionID == "" {
		return 0, false
	}

	z := html.NewTokenizer(strings.NewReader(doc))
	offset := 0
	var wantTag string
	depth := 0

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return 0, false
		}
		raw := z.Raw()
		at := offset
		offset += len(raw)

		switch tt {
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			if wantTag == "" {
				if hasAttr && tagID(z) == sectionID {
					wantTag = string(name)
					depth = 1
				}
			} else if string(name) == wantTag {
				depth++
			}
		case html.SelfClosingTagToken:
			// A self-closing container has no closing tag to land before;
			// the fragment goes right after it.
			if wantTag == "" {
				if _, hasAttr := z.TagName(); hasAttr && tagID(z) == sectionID {
					return at + len(raw), true
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if wantTag != "" && string(name) == wantTag {
				depth--
				if depth == 0 {
					return at, true
				}
			}
		}
	}
}

func tagID(z *html.Tokenizer) string {
	for {
		key, val, more := z.TagAttr()
		if string(key) == "id" {
			return string(val)
		}
		if !more {
			return ""
		}
	}
}

// indexFold is strings.Index with ASCII case folding. Folding byte by
// byte keeps offsets valid in documents with multi-byte text.
func indexFold(s, substr string) int {
	if substr == "" {
		return 0
	}
	for i := 0; i+len(substr) <= len(s); i++ {
		if equalFoldASCII(s[i:i+len(substr)], substr) {
			return i
		}
	}
	return -1
}

func lastIndexFold(s, substr string) int {
	if substr == "" {
		return len(s)
	}
	for i := len(s) - len(substr); i >= 0; i-- {
		if equalFoldASCII(s[i:i+len(substr)], substr) {
			return i
		}
	}
	return -1
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
