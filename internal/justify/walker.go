package justify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/net/html"
)

// PageReport summarizes the work done on one page.
type PageReport struct {
	Page     int
	Units    int       // word and space units created by Annotate
	Groups   int       // groups returned by the sampler
	Spacings []float64 // chosen spacing per group, in order
}

// Report summarizes a walk.
type Report struct {
	Pages    []PageReport // visited pages, in visiting order
	Restored int          // page displayed when the walk ended
}

// Walker drives annotation, sampling and search over every page of a
// document, one page at a time.
type Walker struct {
	Layout   Layout
	Settings Settings
	Logger   *slog.Logger
}

// Walk processes pages 1, 2, ... until no section normalizes to the next
// page number, then displays the restore page. It mutates doc in place.
//
// The document is hidden until fonts are ready; visibility returns when the
// first page is shown. Cancellation is checked between pages only.
func (w *Walker) Walk(ctx context.Context, doc *html.Node) (rep Report, err error) {
	if err := w.Settings.Validate(); err != nil {
		return Report{}, err
	}
	log := w.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	if err := w.Layout.SetOpacity(ctx, 0); err != nil {
		return Report{}, fmt.Errorf("hiding document: %w", err)
	}
	visible := false
	defer func() {
		if visible {
			return
		}
		if oerr := w.Layout.SetOpacity(context.WithoutCancel(ctx), 1); oerr != nil && err == nil {
			err = fmt.Errorf("restoring visibility: %w", oerr)
		}
	}()
	if err := w.Layout.FontsReady(ctx); err != nil {
		return Report{}, fmt.Errorf("waiting for fonts: %w", err)
	}

	sampler := &Sampler{Layout: w.Layout, Tolerance: w.Settings.LineTolerance}
	search := &Search{Layout: w.Layout, Grid: w.Settings.Grid()}

	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		page := FindPage(doc, n)
		if page == nil {
			rep.Restored, err = w.restore(ctx, doc)
			return rep, err
		}

		start := time.Now()
		if err := w.Layout.Show(ctx, n); err != nil {
			return rep, fmt.Errorf("page %d: showing: %w", n, err)
		}
		if !visible {
			if err := w.Layout.SetOpacity(ctx, 1); err != nil {
				return rep, fmt.Errorf("restoring visibility: %w", err)
			}
			visible = true
		}

		pr, err := w.page(ctx, sampler, search, page)
		if err != nil {
			return rep, fmt.Errorf("page %d: %w", n, err)
		}
		pr.Page = n
		rep.Pages = append(rep.Pages, pr)
		log.Debug("page justified",
			"page", n,
			"units", pr.Units,
			"groups", pr.Groups,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

// page runs annotate, sample and search on the active page.
func (w *Walker) page(ctx context.Context, sampler *Sampler, search *Search, page *html.Node) (PageReport, error) {
	var pr PageReport
	pr.Units = Annotate(page)
	if err := w.Layout.Sync(ctx, page); err != nil {
		return pr, fmt.Errorf("syncing annotation: %w", err)
	}

	groups, err := sampler.Sample(ctx, page)
	if err != nil {
		return pr, err
	}
	pr.Groups = len(groups)
	for _, g := range groups {
		fit, err := search.Fit(ctx, g)
		if err != nil {
			return pr, err
		}
		pr.Spacings = append(pr.Spacings, fit.Spacing)
	}
	return pr, nil
}

// restore displays the configured restore page, or page 1 when the
// document has no such page.
func (w *Walker) restore(ctx context.Context, doc *html.Node) (int, error) {
	n := w.Settings.restorePage()
	if FindPage(doc, n) == nil {
		n = 1
	}
	if err := w.Layout.Show(ctx, n); err != nil {
		return 0, fmt.Errorf("restoring page %d: %w", n, err)
	}
	return n, nil
}
