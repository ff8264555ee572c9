package pipeline

import (
	"context"
	"strings"

	"golang.org/x/net/html"
)

// LinkTargets makes external links open in a new browsing context.
type LinkTargets struct{}

func (LinkTargets) Name() string { return "link-targets" }
func (LinkTargets) Step() Step   { return StepLinks }

// Apply sets target="_blank" and rel="noopener noreferrer" on every
// a[href] whose href starts with http.
func (LinkTargets) Apply(ctx context.Context, doc string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	root, isFragment, err := parseHTML(doc)
	if err != nil {
		return "", err
	}
	if walkElements(root, "a", markExternal) == 0 {
		return doc, nil
	}
	return renderHTML(root, isFragment)
}

// markExternal reports whether it changed n.
func markExternal(n *html.Node) bool {
	href, ok := getAttr(n, "href")
	if !ok || !isExternal(href) {
		return false
	}
	setAttr(n, "target", "_blank")
	setAttr(n, "rel", "noopener noreferrer")
	return true
}

func isExternal(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://")
}

// walkElements calls fn on every element named tag and returns how many
// calls reported a change.
func walkElements(n *html.Node, tag string, fn func(*html.Node) bool) int {
	changed := 0
	if n.Type == html.ElementNode && n.Data == tag && fn(n) {
		changed++
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		changed += walkElements(c, tag, fn)
	}
	return changed
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
