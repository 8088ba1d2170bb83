// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reqif

import (
	"strings"

	"golang.org/x/net/html"
)

// blockTags are the markup elements that force a line boundary when
// flattening rich text.
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "tr": true, "table": true,
	"ul": true, "ol": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "blockquote": true, "pre": true,
}

// flattenXHTML converts embedded XHTML markup to plain text. Paragraph
// and div boundaries and <br> become newlines, whitespace runs collapse
// to single spaces, blank lines are stripped. No tags survive in the
// output. The html parser tolerates the malformed fragments some
// exporters produce, so flattening never fails; at worst the input's
// bare text comes back.
func flattenXHTML(markup string) string {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return normalizeFlattened(markup)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			if n.Data == "br" {
				b.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			b.WriteString("\n")
		}
	}
	walk(doc)

	return normalizeFlattened(b.String())
}

// normalizeFlattened collapses whitespace runs within each line and
// drops blank lines.
func normalizeFlattened(s string) string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
