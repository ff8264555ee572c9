package pipeline

import (
	"context"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// styleURL matches url(...) in an inline style, with optional quotes.
var styleURL = regexp.MustCompile(`url\(\s*(['"]?)([^'")]+)(['"]?)\s*\)`)

// PathRewrite resolves relative references against the deck's directory.
type PathRewrite struct {
	SourceDir string
}

func (p *PathRewrite) Name() string { return "paths" }
func (p *PathRewrite) Step() Step   { return StepPrepare }

// Apply rewrites relative paths. An empty SourceDir leaves doc unchanged.
func (p *PathRewrite) Apply(ctx context.Context, doc string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return RewriteRelativePaths(doc, p.SourceDir)
}

// RewriteRelativePaths converts relative paths to absolute file:// URLs.
// If sourceDir is empty, returns the HTML unchanged.
//
// Rewrites:
//   - img[src]: relative paths to images
//   - a[href]: relative file paths (not anchors, not URLs)
//   - url(...) inside style attributes (slide backgrounds)
//
// Does NOT rewrite:
//   - srcset attributes
//   - url(...) inside <style> elements
//   - script[src]
//   - Absolute paths or URLs (already resolved)
func RewriteRelativePaths(htmlContent, sourceDir string) (string, error) {
	if sourceDir == "" {
		return htmlContent, nil
	}

	absSourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	rewriteNode(doc, absSourceDir)

	return renderHTML(doc, isFragment)
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Returns the parsed node, whether it was a fragment, and any error.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	// Full document: starts with <!DOCTYPE or <html
	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Fragment: parse with body context to avoid wrapping
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	return container, true, nil
}

// renderHTML renders the document back to string.
// For fragments, only renders the children (avoids adding <html><body> wrapper).
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// rewriteNode traverses the DOM and rewrites relative paths of images and
// inline style urls. Link targets are left to the link-targets stage.
func rewriteNode(n *html.Node, sourceDir string) {
	if n.Type == html.ElementNode {
		if n.Data == "img" {
			rewriteAttr(n, "src", sourceDir)
		}
		rewriteStyle(n, sourceDir)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, sourceDir)
	}
}

// rewriteAttr rewrites a single attribute if it's a relative path.
func rewriteAttr(n *html.Node, attrName, sourceDir string) {
	for i, attr := range n.Attr {
		if attr.Key != attrName {
			continue
		}
		if abs, ok := resolveRelative(attr.Val, sourceDir); ok {
			n.Attr[i].Val = abs
		}
	}
}

// rewriteStyle rewrites relative url(...) references of the style attribute.
func rewriteStyle(n *html.Node, sourceDir string) {
	for i, attr := range n.Attr {
		if attr.Key != "style" || !strings.Contains(attr.Val, "url(") {
			continue
		}
		n.Attr[i].Val = styleURL.ReplaceAllStringFunc(attr.Val, func(m string) string {
			sub := styleURL.FindStringSubmatch(m)
			abs, ok := resolveRelative(sub[2], sourceDir)
			if !ok {
				return m
			}
			return "url(" + sub[1] + abs + sub[3] + ")"
		})
	}
}

// resolveRelative returns the file:// URL of a relative path under sourceDir.
func resolveRelative(path, sourceDir string) (string, bool) {
	if !isRelativePath(path) {
		return "", false
	}
	absPath := filepath.Join(sourceDir, path)

	// Security: validate path is under sourceDir (prevent traversal)
	if !isPathUnderDir(absPath, sourceDir) {
		return "", false
	}
	return pathToFileURL(absPath), true
}

// isRelativePath returns true if the path should be rewritten.
func isRelativePath(path string) bool {
	if path == "" {
		return false
	}

	// Skip URLs (http, https, file, data, protocol-relative)
	if strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "file://") ||
		strings.HasPrefix(path, "data:") ||
		strings.HasPrefix(path, "mailto:") ||
		strings.HasPrefix(path, "//") {
		return false
	}

	// Skip anchors
	if strings.HasPrefix(path, "#") {
		return false
	}

	if filepath.IsAbs(path) {
		return false
	}

	return true
}

// isPathUnderDir checks if absPath is under dir (prevents path traversal).
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)

	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}

	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL.
// Handles both Unix and Windows paths correctly.
func pathToFileURL(absPath string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absPath),
	}
	return u.String()
}

// fileURLToPath is the inverse of pathToFileURL.
func fileURLToPath(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "file" {
		return "", false
	}
	p := u.Path
	// file:///C:/x parses to /C:/x on Windows paths.
	if len(p) > 2 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p), true
}
