package slidepress

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"golang.org/x/net/html"

	"github.com/alnah/go-slidepress/internal/justify"
)

// nodePath addresses an element of the live page: the index of its section
// among all sections, then element-child indices down from the section.
type nodePath struct {
	Section int   `json:"s"`
	Path    []int `json:"p"`
}

// measured is the geometry returned by measureJS.
type measured struct {
	Y     float64 `json:"y"`
	Width float64 `json:"width"`
}

const resolveJS = `const resolve = (p) => {
	let el = document.querySelectorAll('section')[p.s];
	for (const i of p.p) {
		el = el && el.children[i];
	}
	return el || null;
};`

const (
	syncJS = `(s, markup) => {
		document.querySelectorAll('section')[s].innerHTML = markup;
		return true;
	}`

	measureJS = `(paths) => {` + resolveJS + `
		return paths.map((p) => {
			const el = resolve(p);
			return el ? {y: el.getBoundingClientRect().y, width: el.offsetWidth} : null;
		});
	}`

	letterSpacingJS = `(paths, css) => {` + resolveJS + `
		paths.forEach((p) => {
			const el = resolve(p);
			if (el) el.style.letterSpacing = css;
		});
		return true;
	}`

	setJustifiedJS = `(on) => {
		let style = document.querySelector('style.slidepress-non-justify');
		if (on && style) {
			style.remove();
		} else if (!on && !style) {
			style = document.createElement('style');
			style.className = 'slidepress-non-justify';
			style.textContent = '* {text-align: left !important;}';
			document.head.appendChild(style);
		}
		return true;
	}`

	opacityJS    = `(o) => { document.body.style.opacity = String(o); return true; }`
	fontsReadyJS = `() => document.fonts.ready.then(() => true)`
)

// rodLayout implements justify.Layout on a go-rod page showing the
// document root was parsed from. Nodes are mapped to page elements by
// position, which holds as long as every markup change goes through Sync.
type rodLayout struct {
	page     *rod.Page
	sections map[*html.Node]int
}

// Compile-time interface check.
var _ justify.Layout = (*rodLayout)(nil)

func newRodLayout(page *rod.Page, root *html.Node) *rodLayout {
	l := &rodLayout{page: page, sections: make(map[*html.Node]int)}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "section" {
			l.sections[n] = len(l.sections)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return l
}

// locate returns the page address of n.
func (l *rodLayout) locate(n *html.Node) (nodePath, error) {
	var rev []int
	for cur := n; cur != nil; cur = cur.Parent {
		if s, ok := l.sections[cur]; ok {
			path := make([]int, 0, len(rev))
			for i := len(rev) - 1; i >= 0; i-- {
				path = append(path, rev[i])
			}
			return nodePath{Section: s, Path: path}, nil
		}
		rev = append(rev, elementIndex(cur))
	}
	return nodePath{}, fmt.Errorf("%w: <%s> is outside every section", ErrLayout, n.Data)
}

// elementIndex returns the position of n among its element siblings.
func elementIndex(n *html.Node) int {
	i := 0
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			i++
		}
	}
	return i
}

func (l *rodLayout) locateAll(nodes []*html.Node) ([]nodePath, error) {
	paths := make([]nodePath, len(nodes))
	for i, n := range nodes {
		p, err := l.locate(n)
		if err != nil {
			return nil, err
		}
		paths[i] = p
	}
	return paths, nil
}

func (l *rodLayout) eval(ctx context.Context, js string, args ...any) error {
	if _, err := l.page.Context(ctx).Eval(js, args...); err != nil {
		return fmt.Errorf("%w: %v", ErrLayout, err)
	}
	return nil
}

func (l *rodLayout) Show(ctx context.Context, page int) error {
	return l.eval(ctx, showPageJS, page)
}

// Sync replaces the section's content in the page with its current markup.
func (l *rodLayout) Sync(ctx context.Context, section *html.Node) error {
	s, ok := l.sections[section]
	if !ok {
		return fmt.Errorf("%w: unknown section", ErrLayout)
	}
	var buf strings.Builder
	for c := section.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return fmt.Errorf("rendering section: %w", err)
		}
	}
	return l.eval(ctx, syncJS, s, buf.String())
}

func (l *rodLayout) Measure(ctx context.Context, nodes []*html.Node) ([]justify.Box, error) {
	paths, err := l.locateAll(nodes)
	if err != nil {
		return nil, err
	}
	res, err := l.page.Context(ctx).Eval(measureJS, paths)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLayout, err)
	}
	var got []*measured
	if err := res.Value.Unmarshal(&got); err != nil {
		return nil, fmt.Errorf("%w: decoding boxes: %v", ErrLayout, err)
	}
	if len(got) != len(nodes) {
		return nil, fmt.Errorf("%w: %d boxes for %d nodes", ErrLayout, len(got), len(nodes))
	}

	boxes := make([]justify.Box, len(got))
	for i, m := range got {
		if m == nil {
			return nil, fmt.Errorf("%w: <%s> not found in page", ErrLayout, nodes[i].Data)
		}
		boxes[i] = justify.Box{Y: m.Y, Width: m.Width}
	}
	return boxes, nil
}

func (l *rodLayout) SetJustified(ctx context.Context, on bool) error {
	return l.eval(ctx, setJustifiedJS, on)
}

func (l *rodLayout) SetLetterSpacing(ctx context.Context, words []*html.Node, rem float64) error {
	paths, err := l.locateAll(words)
	if err != nil {
		return err
	}
	return l.eval(ctx, letterSpacingJS, paths, justify.FormatRem(rem))
}

func (l *rodLayout) SetOpacity(ctx context.Context, opacity float64) error {
	return l.eval(ctx, opacityJS, opacity)
}

func (l *rodLayout) FontsReady(ctx context.Context) error {
	return l.eval(ctx, fontsReadyJS)
}
