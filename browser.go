package slidepress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-slidepress/internal/fileutil"
	"github.com/alnah/go-slidepress/internal/justify"
	"github.com/alnah/go-slidepress/internal/process"
)

// renderer abstracts the browser so the converter can be tested without one.
type renderer interface {
	// Warm launches the browser ahead of the first page.
	Warm(ctx context.Context) error

	// Render loads doc and produces the requested exports.
	Render(ctx context.Context, doc string, opts renderOptions) (*rendered, error)

	// Bake runs the justification walk on doc in a live page.
	Bake(ctx context.Context, doc string, opts bakeOptions) (string, justify.Report, error)

	Close() error
}

// Compile-time interface check.
var _ renderer = (*rodRenderer)(nil)

// renderOptions holds options for one Render call.
type renderOptions struct {
	Export        Export
	Settings      RenderSettings
	Pages         int  // pages to screenshot, 1..Pages
	WaitJustified bool // wait for the client-side justifier to finish
	BaseDir       string
}

// bakeOptions holds options for one Bake call.
type bakeOptions struct {
	Settings RenderSettings
	Justify  justify.Settings
	BaseDir  string
}

// rendered holds the browser exports of a document.
type rendered struct {
	PDF   []byte
	JPEGs [][]byte
	Links map[int][]LinkBox
}

// cssPixelsPerInch converts slide sizes to PDF paper sizes.
const cssPixelsPerInch = 96

// errRendererClosed is returned when a closed renderer is used.
var errRendererClosed = errors.New("renderer closed")

// Page scripts. Slides are addressed by location hash, like the deck's own
// navigation does.
const (
	justifiedJS = `() => document.documentElement.dataset.justified === 'done'`

	showPageJS = `(n) => new Promise((resolve) => {
		location.hash = '#' + n;
		requestAnimationFrame(() => requestAnimationFrame(() => resolve(true)));
	})`

	// Sections match page n the way FindPage does: by the digits of their id.
	linkBoxesJS = `(n) => {
		const want = String(n);
		const section = Array.from(document.querySelectorAll('section'))
			.find((s) => (s.id || '').replace(/\D/g, '') === want);
		if (!section) {
			return [];
		}
		return Array.from(section.querySelectorAll('a[href]'))
			.map((a) => {
				const r = a.getBoundingClientRect();
				return {href: a.getAttribute('href'), x: r.left, y: r.top, right: r.right, bottom: r.bottom};
			})
			.filter((b) => b.bottom !== 0);
	}`

	// The deck's on-screen controller would show in every screenshot.
	hideControllerJS = `() => {
		document.querySelectorAll('.bespoke-marp-osc').forEach((el) => el.remove());
		return true;
	}`
)

// rodRenderer implements renderer using go-rod.
// Rod downloads Chromium on first run if no browser is found.
// The browser is launched once and shared by every page; safe for
// concurrent use.
type rodRenderer struct {
	timeout time.Duration
	bin     string
	logger  *slog.Logger

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	closed   bool
}

// newRodRenderer creates a rodRenderer. bin overrides ROD_BROWSER_BIN.
func newRodRenderer(timeout time.Duration, bin string, logger *slog.Logger) *rodRenderer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &rodRenderer{timeout: timeout, bin: bin, logger: logger}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, errRendererClosed
	}
	if r.browser != nil {
		return r.browser, nil
	}

	l := launcher.New()

	bin := r.bin
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || bin != "" {
		l = l.NoSandbox(true)
	}

	start := time.Now()
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		r.kill(l)
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser, r.launcher = b, l
	r.logger.Debug("browser launched", "pid", l.PID(), "duration_ms", time.Since(start).Milliseconds())
	return b, nil
}

// Warm launches the browser. The context is unused: a launch is never
// abandoned halfway.
func (r *rodRenderer) Warm(_ context.Context) error {
	_, err := r.ensureBrowser()
	return err
}

// Close releases browser resources and kills leftover Chrome processes.
// The renderer cannot be used afterwards.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.kill(r.launcher)
	r.browser, r.launcher = nil, nil
	return err
}

// kill terminates the launched browser and its children, then removes the
// user data directory.
func (r *rodRenderer) kill(l *launcher.Launcher) {
	if pid := l.PID(); pid > 0 {
		if err := process.KillProcessGroup(pid); err != nil {
			r.logger.Debug("killing browser process group", "pid", pid, "error", err)
			l.Kill()
		}
	}
	l.Cleanup()
}

// openPage loads doc in a new page sized to one slide. Relative references
// of doc resolve against baseDir when set. The returned function closes the
// page and removes the temporary file.
func (r *rodRenderer) openPage(ctx context.Context, doc string, rs RenderSettings, baseDir string) (*rod.Page, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	b, err := r.ensureBrowser()
	if err != nil {
		return nil, nil, err
	}

	if baseDir != "" {
		if doc, err = withBaseHref(doc, baseDir); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
		}
	}

	path, cleanup, err := fileutil.WriteTempFile(doc, "html")
	if err != nil {
		return nil, nil, err
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	done := func() {
		_ = page.Close()
		cleanup()
	}
	page = page.Context(ctx)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             rs.Width,
		Height:            rs.Height,
		DeviceScaleFactor: rs.DeviceScaleFactor,
	}); err != nil {
		done()
		return nil, nil, fmt.Errorf("%w: setting viewport: %v", ErrPageCreate, err)
	}

	timeout, err := r.waitTimeout(ctx)
	if err != nil {
		done()
		return nil, nil, err
	}
	if err := page.Navigate("file://" + path); err != nil {
		done()
		return nil, nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		done()
		return nil, nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	return page, done, nil
}

// waitTimeout returns the time left for a wait, from the context deadline
// or the renderer default.
func (r *rodRenderer) waitTimeout(ctx context.Context) (time.Duration, error) {
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return 0, context.DeadlineExceeded
		}
	}
	return timeout, nil
}

// Render loads doc and produces the exports selected in opts.
func (r *rodRenderer) Render(ctx context.Context, doc string, opts renderOptions) (*rendered, error) {
	page, done, err := r.openPage(ctx, doc, opts.Settings, opts.BaseDir)
	if err != nil {
		return nil, err
	}
	defer done()

	if opts.WaitJustified {
		timeout, err := r.waitTimeout(ctx)
		if err != nil {
			return nil, err
		}
		if err := page.Timeout(timeout).Wait(rod.Eval(justifiedJS)); err != nil {
			return nil, fmt.Errorf("%w: waiting for justification: %v", ErrPageLoad, err)
		}
	}

	out := &rendered{}
	if opts.Export.PDF {
		if out.PDF, err = printPDF(page, opts.Settings); err != nil {
			return nil, err
		}
	}

	if !opts.Export.JPEGs && !opts.Export.Links {
		return out, nil
	}
	if opts.Export.JPEGs {
		if _, err := page.Eval(hideControllerJS); err != nil {
			return nil, fmt.Errorf("%w: hiding controller: %v", ErrPageLoad, err)
		}
	}
	if opts.Export.Links {
		out.Links = make(map[int][]LinkBox, opts.Pages)
	}
	for n := 1; n <= opts.Pages; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := page.Eval(showPageJS, n); err != nil {
			return nil, fmt.Errorf("%w: page %d: showing: %v", ErrPageLoad, n, err)
		}
		if opts.Export.JPEGs {
			img, err := screenshot(page, opts.Settings)
			if err != nil {
				return nil, fmt.Errorf("page %d: %w", n, err)
			}
			out.JPEGs = append(out.JPEGs, img)
		}
		if opts.Export.Links {
			boxes, err := linkBoxes(page, n)
			if err != nil {
				return nil, fmt.Errorf("page %d: %w", n, err)
			}
			if len(boxes) > 0 {
				out.Links[n] = boxes
			}
		}
	}
	return out, nil
}

// printPDF prints the page with one slide per sheet and no margins.
func printPDF(page *rod.Page, rs RenderSettings) ([]byte, error) {
	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:      floatPtr(float64(rs.Width) / cssPixelsPerInch),
		PaperHeight:     floatPtr(float64(rs.Height) / cssPixelsPerInch),
		MarginTop:       floatPtr(0),
		MarginBottom:    floatPtr(0),
		MarginLeft:      floatPtr(0),
		MarginRight:     floatPtr(0),
		PrintBackground: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdfBuf, nil
}

// screenshot captures the displayed slide as JPEG, trimming CropPercent
// from every edge.
func screenshot(page *rod.Page, rs RenderSettings) ([]byte, error) {
	x, y, w, h := cropRect(rs)
	img, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: intPtr(rs.JPEGQuality),
		Clip:    &proto.PageViewport{X: x, Y: y, Width: w, Height: h, Scale: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScreenshot, err)
	}
	return img, nil
}

// cropRect returns the screenshot clip in CSS pixels.
func cropRect(rs RenderSettings) (x, y, w, h float64) {
	x = float64(rs.Width) * rs.CropPercent / 100
	y = float64(rs.Height) * rs.CropPercent / 100
	return x, y, float64(rs.Width) - 2*x, float64(rs.Height) - 2*y
}

// linkBoxes returns the rendered links of page n, which must be displayed.
// Links with an empty box are not rendered and are dropped.
func linkBoxes(page *rod.Page, n int) ([]LinkBox, error) {
	res, err := page.Eval(linkBoxesJS, n)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLinkPositions, err)
	}
	var boxes []LinkBox
	if err := res.Value.Unmarshal(&boxes); err != nil {
		return nil, fmt.Errorf("%w: decoding: %v", ErrLinkPositions, err)
	}
	return boxes, nil
}

// Bake justifies doc against a live rendering and serializes the adjusted
// markup. The walk mutates a parsed copy of doc; the browser only measures.
func (r *rodRenderer) Bake(ctx context.Context, doc string, opts bakeOptions) (string, justify.Report, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", justify.Report{}, fmt.Errorf("parsing HTML: %w", err)
	}

	page, done, err := r.openPage(ctx, doc, opts.Settings, opts.BaseDir)
	if err != nil {
		return "", justify.Report{}, err
	}
	defer done()

	w := &justify.Walker{
		Layout:   newRodLayout(page, root),
		Settings: opts.Justify,
		Logger:   r.logger,
	}
	rep, err := w.Walk(ctx, root)
	if err != nil {
		return "", rep, err
	}

	var buf strings.Builder
	if err := html.Render(&buf, root); err != nil {
		return "", rep, fmt.Errorf("rendering HTML: %w", err)
	}
	return buf.String(), rep, nil
}

// withBaseHref returns doc with a <base> element pointing at dir, so the
// page resolves relative stylesheet and font urls like the deck does.
// An existing <base> is kept.
func withBaseHref(doc, dir string) (string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}
	head := firstElement(root, "head")
	if head == nil || firstElement(head, "base") != nil {
		return doc, nil
	}
	base := &html.Node{
		Type:     html.ElementNode,
		Data:     "base",
		DataAtom: atom.Base,
		Attr:     []html.Attribute{{Key: "href", Val: fileutil.DirURL(dir)}},
	}
	head.InsertBefore(base, head.FirstChild)

	var buf strings.Builder
	if err := html.Render(&buf, root); err != nil {
		return "", fmt.Errorf("rendering HTML: %w", err)
	}
	return buf.String(), nil
}

// firstElement returns the first element named tag under n, depth first.
func firstElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := firstElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// intPtr returns a pointer to an int value.
func intPtr(v int) *int {
	return &v
}
