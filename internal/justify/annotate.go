package justify

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Unit element names produced by Annotate.
const (
	WordTag  = "a-word"
	SpaceTag = "a-space"
)

// skipAnnotation lists elements whose text is never wrapped.
var skipAnnotation = map[string]bool{
	"script":   true,
	"style":    true,
	"textarea": true,
	"pre":      true,
	WordTag:    true,
	SpaceTag:   true,
}

// Annotate replaces every qualifying text node under root with alternating
// word and space units and returns the number of units created.
//
// A text node qualifies when it holds more than one character once newlines
// are removed. Each whitespace character becomes one space unit; repeated
// whitespace yields empty word units so words and spaces strictly alternate.
// The visible text is unchanged. Annotate is meant to run once per subtree:
// existing units are left alone, not re-split.
func Annotate(root *html.Node) int {
	var texts []*html.Node
	collectText(root, &texts)

	units := 0
	for _, n := range texts {
		units += wrapText(n)
	}
	return units
}

// collectText gathers qualifying text nodes before any mutation happens.
func collectText(n *html.Node, out *[]*html.Node) {
	switch n.Type {
	case html.TextNode:
		if utf8.RuneCountInString(strings.ReplaceAll(n.Data, "\n", "")) > 1 {
			*out = append(*out, n)
		}
		return
	case html.ElementNode:
		if skipAnnotation[n.Data] {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, out)
	}
}

// wrapText swaps one text node for its word/space units.
func wrapText(n *html.Node) int {
	parent := n.Parent
	if parent == nil {
		return 0
	}

	text := n.Data
	units := make([]*html.Node, 0, 2*strings.Count(text, " ")+1)
	start := 0
	for i, r := range text {
		if !isSpace(r) {
			continue
		}
		units = append(units, newUnit(WordTag, text[start:i]), newUnit(SpaceTag, string(r)))
		start = i + utf8.RuneLen(r)
	}
	units = append(units, newUnit(WordTag, text[start:]))

	for _, u := range units {
		parent.InsertBefore(u, n)
	}
	parent.RemoveChild(n)
	return len(units)
}

func newUnit(tag, text string) *html.Node {
	el := &html.Node{Type: html.ElementNode, Data: tag}
	if text != "" {
		el.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	return el
}

// isSpace reports HTML inter-element whitespace.
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

// TextContent concatenates every text node under n in document order.
func TextContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// elements returns every element named tag under root, in document order.
func elements(root *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}
