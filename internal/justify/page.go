package justify

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// PageID normalizes a section id by dropping every non-digit.
// "1" and "x1" both normalize to "1"; "01" stays "01".
func PageID(id string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, id)
}

// FindPage returns the first section whose id normalizes to page n,
// or nil when the document has no such page.
func FindPage(doc *html.Node, n int) *html.Node {
	want := strconv.Itoa(n)
	for _, s := range elements(doc, "section") {
		if PageID(attr(s, "id")) == want {
			return s
		}
	}
	return nil
}

// CountPages returns the number of consecutive pages starting at 1.
func CountPages(doc *html.Node) int {
	n := 0
	for FindPage(doc, n+1) != nil {
		n++
	}
	return n
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// setStyleProperty sets one declaration in the node's style attribute,
// replacing an existing declaration of the same property.
func setStyleProperty(n *html.Node, property, value string) {
	decl := property + ":" + value
	for i, a := range n.Attr {
		if a.Key != "style" {
			continue
		}
		var kept []string
		for _, d := range strings.Split(a.Val, ";") {
			d = strings.TrimSpace(d)
			if d == "" {
				continue
			}
			name, _, _ := strings.Cut(d, ":")
			if strings.EqualFold(strings.TrimSpace(name), property) {
				continue
			}
			kept = append(kept, d)
		}
		n.Attr[i].Val = strings.Join(append(kept, decl), ";")
		return
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: decl})
}
