package justify

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/net/html"
)

// tieEpsilon is the largest objective difference still treated as a tie.
const tieEpsilon = 1e-9

// Fit is the outcome of a letter-spacing search for one group.
type Fit struct {
	Spacing float64 // chosen letter-spacing, in rem
	Ratio   float64 // anchor width divided by the group's base width
}

// Search fits the letter-spacing of one group at a time.
type Search struct {
	Layout Layout
	Grid   []float64 // candidate values, see Settings.Grid
}

// Fit tries every grid value on the group's words and keeps the one whose
// anchor width ratio is closest to 1. Equal distances prefer the smaller
// absolute spacing. The winner is applied in the layout and written to the
// words' style attribute.
// The scan is exhaustive since subpixel rounding makes the ratio
// non-monotonic near the optimum.
func (s *Search) Fit(ctx context.Context, g Group) (Fit, error) {
	if len(s.Grid) == 0 {
		return Fit{}, fmt.Errorf("%w: empty grid", ErrInvalidStep)
	}

	var best Fit
	for i, v := range s.Grid {
		if err := s.Layout.SetLetterSpacing(ctx, g.Words, v); err != nil {
			return Fit{}, fmt.Errorf("applying candidate %g: %w", v, err)
		}
		boxes, err := s.Layout.Measure(ctx, []*html.Node{g.Anchor})
		if err != nil {
			return Fit{}, fmt.Errorf("measuring candidate %g: %w", v, err)
		}
		cand := Fit{Spacing: v, Ratio: boxes[0].Width / g.Base}
		if i == 0 || better(cand, best) {
			best = cand
		}
	}

	if err := s.Layout.SetLetterSpacing(ctx, g.Words, best.Spacing); err != nil {
		return Fit{}, fmt.Errorf("applying %g: %w", best.Spacing, err)
	}
	for _, w := range g.Words {
		setStyleProperty(w, "letter-spacing", FormatRem(best.Spacing))
	}
	return best, nil
}

// better reports whether a beats b.
func better(a, b Fit) bool {
	da, db := math.Abs(a.Ratio-1), math.Abs(b.Ratio-1)
	if math.Abs(da-db) <= tieEpsilon {
		return math.Abs(a.Spacing) < math.Abs(b.Spacing)
	}
	return da < db
}

// FormatRem renders a spacing value as a CSS length.
func FormatRem(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + "rem"
}
