// Package htmltext turns provider HTML snippets into plain text.
package htmltext

import (
	"strings"

	"golang.org/x/net/html"
)

const Ellipsis = "..."

// Strip returns the concatenated text content of an HTML fragment, with
// entities decoded. Script and style bodies are dropped.
func Strip(fragment string) string {
	if fragment == "" {
		return ""
	}

	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		// html.Parse only fails on reader errors.
		return fragment
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return b.String()
}

// Truncate keeps the first limit characters of s and appends Ellipsis when
// anything was cut. Characters are runes, so multi-byte text is never split.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + Ellipsis
}
