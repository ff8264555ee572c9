package justify

import (
	"context"

	"golang.org/x/net/html"
)

// Box is the rendered geometry of one unit.
type Box struct {
	Y     float64 // vertical offset of the unit's bounding rectangle
	Width float64 // rendered width in CSS pixels (offsetWidth)
}

// Layout abstracts the rendering engine the engine measures against.
// Nodes passed to a Layout belong to the document handed to Walker.Walk;
// implementations map them to their own rendered elements.
type Layout interface {
	// Show makes page n the displayed page.
	Show(ctx context.Context, page int) error

	// Sync pushes the current markup of section to the engine and reflows it.
	// Called once per page, after annotation.
	Sync(ctx context.Context, section *html.Node) error

	// Measure returns one Box per node, in order.
	Measure(ctx context.Context, nodes []*html.Node) ([]Box, error)

	// SetJustified toggles a style override forcing left alignment.
	// SetJustified(false) installs the override, SetJustified(true) removes it.
	SetJustified(ctx context.Context, on bool) error

	// SetLetterSpacing applies letter-spacing (in rem) to every word.
	SetLetterSpacing(ctx context.Context, words []*html.Node, rem float64) error

	// SetOpacity sets the opacity of the whole document.
	SetOpacity(ctx context.Context, opacity float64) error

	// FontsReady blocks until web fonts finished loading.
	FontsReady(ctx context.Context) error
}
