package justify

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/net/html"
)

// lineBearing lists the ancestors whose lines are adjusted.
var lineBearing = map[string]bool{
	"p":  true,
	"li": true,
	"th": true,
	"td": true,
}

// Group is the set of units sharing one visual line of one ancestor.
type Group struct {
	Anchor  *html.Node   // space unit whose width drives the search
	Base    float64      // natural (non-justified) width of the anchor
	Stretch float64      // justified width divided by Base
	Words   []*html.Node // word units on the anchor's line
}

// unit is a word or space unit with its line-bearing ancestor.
type unit struct {
	node     *html.Node
	ancestor *html.Node
}

// Sampler measures space units and groups them per visual line.
type Sampler struct {
	Layout Layout

	// Tolerance is the vertical offset difference still treated as one line.
	Tolerance float64
}

// Sample returns the groups of an annotated page that need adjustment.
// Spaces that are not rendered or not stretched produce no group.
// Justification is always re-enabled before Sample returns.
func (s *Sampler) Sample(ctx context.Context, page *html.Node) (groups []Group, err error) {
	spaces := unitsOf(page, SpaceTag)
	words := unitsOf(page, WordTag)
	if len(spaces) == 0 {
		return nil, nil
	}

	boxes, err := s.Layout.Measure(ctx, nodesOf(spaces))
	if err != nil {
		return nil, fmt.Errorf("measuring spaces: %w", err)
	}
	spaces = s.dedup(spaces, boxes)

	if err := s.Layout.SetJustified(ctx, false); err != nil {
		return nil, fmt.Errorf("disabling justification: %w", err)
	}
	restored := false
	defer func() {
		if restored {
			return
		}
		if rerr := s.Layout.SetJustified(context.WithoutCancel(ctx), true); rerr != nil && err == nil {
			err = fmt.Errorf("re-enabling justification: %w", rerr)
		}
	}()

	natural, err := s.Layout.Measure(ctx, nodesOf(spaces))
	if err != nil {
		return nil, fmt.Errorf("measuring natural widths: %w", err)
	}

	if err := s.Layout.SetJustified(ctx, true); err != nil {
		return nil, fmt.Errorf("re-enabling justification: %w", err)
	}
	restored = true

	stretched, err := s.Layout.Measure(ctx, nodesOf(spaces))
	if err != nil {
		return nil, fmt.Errorf("measuring justified widths: %w", err)
	}
	wordBoxes, err := s.Layout.Measure(ctx, nodesOf(words))
	if err != nil {
		return nil, fmt.Errorf("measuring words: %w", err)
	}

	for i, sp := range spaces {
		w, w2 := natural[i].Width, stretched[i].Width
		if w == 0 || w == w2 {
			continue
		}
		g := Group{
			Anchor:  sp.node,
			Base:    w,
			Stretch: w2 / w,
		}
		for j, wd := range words {
			if wd.ancestor == sp.ancestor && s.sameLine(wordBoxes[j].Y, stretched[i].Y) {
				g.Words = append(g.Words, wd.node)
			}
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// dedup keeps the first space of every (ancestor, line) pair.
func (s *Sampler) dedup(spaces []unit, boxes []Box) []unit {
	type line struct {
		ancestor *html.Node
		y        float64
	}
	var seen []line
	var kept []unit
	for i, sp := range spaces {
		dup := false
		for _, l := range seen {
			if l.ancestor == sp.ancestor && s.sameLine(l.y, boxes[i].Y) {
				dup = true
				break
			}
		}
		seen = append(seen, line{sp.ancestor, boxes[i].Y})
		if dup {
			continue
		}
		kept = append(kept, sp)
	}
	return kept
}

func (s *Sampler) sameLine(a, b float64) bool {
	if s.Tolerance == 0 {
		return a == b
	}
	return math.Abs(a-b) <= s.Tolerance
}

// unitsOf collects the units named tag that have a line-bearing ancestor
// inside page.
func unitsOf(page *html.Node, tag string) []unit {
	var out []unit
	for _, n := range elements(page, tag) {
		if a := closestLineBearing(n, page); a != nil {
			out = append(out, unit{node: n, ancestor: a})
		}
	}
	return out
}

func closestLineBearing(n, stop *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && lineBearing[p.Data] {
			return p
		}
		if p == stop {
			break
		}
	}
	return nil
}

func nodesOf(units []unit) []*html.Node {
	nodes := make([]*html.Node, len(units))
	for i, u := range units {
		nodes[i] = u.node
	}
	return nodes
}
