package justify

import (
	"context"
	"math"
	"testing"

	"golang.org/x/net/html"
)

// stubLayout reports an anchor width computed from the last applied spacing.
type stubLayout struct {
	modelLayout
	width   func(rem float64) float64
	current float64
	applied []float64
}

func (s *stubLayout) SetLetterSpacing(_ context.Context, _ []*html.Node, rem float64) error {
	s.current = rem
	s.applied = append(s.applied, rem)
	return nil
}

func (s *stubLayout) Measure(_ context.Context, nodes []*html.Node) ([]Box, error) {
	out := make([]Box, len(nodes))
	for i := range out {
		out[i].Width = s.width(s.current)
	}
	return out, nil
}

func stubGroup(t *testing.T) Group {
	t.Helper()
	doc := parseDoc(t, "<p>one two three</p>")
	Annotate(doc)
	return Group{
		Anchor:  elements(doc, SpaceTag)[0],
		Base:    4,
		Stretch: 1.25,
		Words:   elements(doc, WordTag),
	}
}

func TestSearch_Fit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		width       func(rem float64) float64
		wantSpacing float64
	}{
		{
			name:        "exact reproduction",
			width:       func(v float64) float64 { return 4 + (0.007-v)*100 },
			wantSpacing: 0.007,
		},
		{
			name:        "negative optimum",
			width:       func(v float64) float64 { return 4 + math.Abs(v+0.013)*50 },
			wantSpacing: -0.013,
		},
		{
			name:        "flat objective prefers zero",
			width:       func(float64) float64 { return 5 },
			wantSpacing: 0,
		},
		{
			name:        "already natural prefers zero",
			width:       func(float64) float64 { return 4 },
			wantSpacing: 0,
		},
		{
			name: "non-monotonic near optimum",
			width: func(v float64) float64 {
				switch {
				case math.Abs(v-0.003) < 1e-9:
					return 4.01
				case math.Abs(v-0.005) < 1e-9:
					return 4.3
				case math.Abs(v-0.006) < 1e-9:
					return 4.001
				}
				return 5
			},
			wantSpacing: 0.006,
		},
		{
			name:        "optimum outside interval clamps to bound",
			width:       func(v float64) float64 { return 4 + (0.5-v)*10 },
			wantSpacing: DefaultMaxRem,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := stubGroup(t)
			stub := &stubLayout{width: tt.width}
			s := &Search{Layout: stub, Grid: DefaultSettings().Grid()}

			fit, err := s.Fit(context.Background(), g)
			if err != nil {
				t.Fatalf("Fit() unexpected error: %v", err)
			}
			if math.Abs(fit.Spacing-tt.wantSpacing) > 1e-12 {
				t.Errorf("Fit() spacing = %v, want %v", fit.Spacing, tt.wantSpacing)
			}

			// No grid value is strictly closer to the natural width.
			best := math.Abs(fit.Ratio - 1)
			for _, v := range s.Grid {
				if d := math.Abs(tt.width(v)/g.Base - 1); d < best-tieEpsilon {
					t.Errorf("candidate %v ratio distance %v beats chosen %v", v, d, best)
				}
			}

			if last := stub.applied[len(stub.applied)-1]; last != fit.Spacing {
				t.Errorf("last applied spacing = %v, want winner %v", last, fit.Spacing)
			}
			wantStyle := "letter-spacing:" + FormatRem(fit.Spacing)
			for _, w := range g.Words {
				if got := attr(w, "style"); got != wantStyle {
					t.Errorf("word %q style = %q, want %q", TextContent(w), got, wantStyle)
				}
			}
		})
	}
}

func TestSearch_FitEmptyGrid(t *testing.T) {
	t.Parallel()

	s := &Search{Layout: &stubLayout{width: func(float64) float64 { return 4 }}}
	if _, err := s.Fit(context.Background(), stubGroup(t)); err == nil {
		t.Error("Fit() with empty grid: expected error")
	}
}

func TestBetter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b Fit
		want bool
	}{
		{"closer ratio wins", Fit{Spacing: 0.01, Ratio: 1.01}, Fit{Spacing: 0, Ratio: 1.1}, true},
		{"farther ratio loses", Fit{Spacing: 0, Ratio: 1.2}, Fit{Spacing: 0.01, Ratio: 1.01}, false},
		{"below and above are symmetric", Fit{Spacing: 0.002, Ratio: 0.99}, Fit{Spacing: 0.001, Ratio: 1.02}, true},
		{"tie prefers smaller magnitude", Fit{Spacing: -0.001, Ratio: 1.05}, Fit{Spacing: 0.003, Ratio: 0.95}, true},
		{"tie keeps smaller magnitude", Fit{Spacing: 0.004, Ratio: 1.05}, Fit{Spacing: 0, Ratio: 1.05}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := better(tt.a, tt.b); got != tt.want {
				t.Errorf("better(%+v, %+v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFormatRem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{0.004, "0.004rem"},
		{-0.02, "-0.02rem"},
		{0.0125, "0.0125rem"},
	}
	for _, tt := range tests {
		if got := FormatRem(tt.in); got != tt.want {
			t.Errorf("FormatRem(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
