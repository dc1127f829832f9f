// Package boundary indexes the edges of a region so that vertical scanlines
// can be intersected with it and points can be classified as inside or
// outside.
package boundary

import (
	"math"
	"slices"

	"github.com/piwi3910/ensurefill/internal/model"
)

// maxBuckets caps the column table for very wide regions; the bucket width
// grows instead.
const maxBuckets = 1 << 16

// edge is a non-degenerate boundary segment with x0 <= x1.
type edge struct {
	x0, y0 model.Coord
	x1, y1 model.Coord
	dydx   float64 // slope, precomputed for the y-intercept at a given x
}

// LinesIndex answers vertical-line intersection and inside/outside queries
// against a fixed set of boundary lines. Edges are bucketed by the x-range
// they span.
//
// A LinesIndex is immutable after construction and safe for concurrent use.
type LinesIndex struct {
	lines   []model.Line
	edges   []edge
	minX    model.Coord
	bucket  model.Coord
	columns [][]int32
}

// NewLinesIndex builds an index over lines. bucket is the column width in
// scaled units; non-positive values pick one from the extents.
func NewLinesIndex(lines []model.Line, bucket model.Coord) *LinesIndex {
	idx := &LinesIndex{lines: lines}

	var bb model.BoundingBox
	for _, l := range lines {
		if l.Degenerate() {
			continue
		}
		a, b := l.A, l.B
		if b.X < a.X {
			a, b = b, a
		}
		e := edge{x0: a.X, y0: a.Y, x1: b.X, y1: b.Y}
		if b.X != a.X {
			e.dydx = float64(b.Y-a.Y) / float64(b.X-a.X)
		}
		idx.edges = append(idx.edges, e)
		bb.MergePoint(a)
		bb.MergePoint(b)
	}
	if len(idx.edges) == 0 {
		return idx
	}

	width := bb.Max.X - bb.Min.X + 1
	if bucket <= 0 {
		bucket = max(width/model.Coord(max(1, len(idx.edges)/4)), 1)
	}
	if width/bucket >= maxBuckets {
		bucket = width/maxBuckets + 1
	}
	idx.minX = bb.Min.X
	idx.bucket = bucket
	idx.columns = make([][]int32, width/bucket+1)
	for i, e := range idx.edges {
		c0, c1 := idx.column(e.x0), idx.column(e.x1)
		for c := c0; c <= c1; c++ {
			idx.columns[c] = append(idx.columns[c], int32(i))
		}
	}
	return idx
}

func (idx *LinesIndex) column(x model.Coord) int {
	c := int((x - idx.minX) / idx.bucket)
	return max(0, min(c, len(idx.columns)-1))
}

// candidates returns the edges whose x-range may contain x.
func (idx *LinesIndex) candidates(x model.Coord) []int32 {
	if len(idx.columns) == 0 || x < idx.minX {
		return nil
	}
	c := int((x - idx.minX) / idx.bucket)
	if c >= len(idx.columns) {
		return nil
	}
	return idx.columns[c]
}

// Lines returns the lines the index was built from.
func (idx *LinesIndex) Lines() []model.Line {
	return idx.lines
}

// IntersectionsWithVertical returns the points where the vertical segment
// at x between ymin and ymax crosses the indexed lines, sorted by y.
// Endpoints touching the segment are included, so a vertex shared by two
// edges is reported once per edge. Vertical edges lying on the scanline are
// ignored.
func (idx *LinesIndex) IntersectionsWithVertical(x, ymin, ymax model.Coord) []model.Point {
	var out []model.Point
	for _, i := range idx.candidates(x) {
		e := idx.edges[i]
		if e.x0 == e.x1 || x < e.x0 || x > e.x1 {
			continue
		}
		var y model.Coord
		switch x {
		case e.x0:
			y = e.y0
		case e.x1:
			y = e.y1
		default:
			y = e.y0 + model.Coord(math.Round(float64(x-e.x0)*e.dydx))
		}
		if y < ymin || y > ymax {
			continue
		}
		out = append(out, model.Point{X: x, Y: y})
	}
	slices.SortFunc(out, func(a, b model.Point) int {
		switch {
		case a.Y < b.Y:
			return -1
		case a.Y > b.Y:
			return 1
		}
		return 0
	})
	return out
}

// Contains reports whether p lies strictly inside the region under the
// even-odd rule. Points on the boundary are not contained. It agrees with
// the sign of SignedDistance but only visits the column holding p.
func (idx *LinesIndex) Contains(p model.Point) bool {
	for _, i := range idx.candidates(p.X) {
		if distanceToSegment(p, idx.edges[i]) == 0 {
			return false
		}
	}
	return idx.inside(p)
}

// SignedDistance returns the distance from p to the nearest indexed line,
// negated when p is inside the region. Points on the boundary return 0.
// The nearest line may lie in any column, so every edge is visited; use
// Contains when only the sign matters.
func (idx *LinesIndex) SignedDistance(p model.Point) float64 {
	if len(idx.edges) == 0 {
		return math.Inf(1)
	}
	d := math.Inf(1)
	for _, e := range idx.edges {
		d = math.Min(d, distanceToSegment(p, e))
		if d == 0 {
			return 0
		}
	}
	if idx.inside(p) {
		return -d
	}
	return d
}

// inside counts crossings of the upward ray from p. Edges are treated as
// half-open in x so shared vertices count once.
func (idx *LinesIndex) inside(p model.Point) bool {
	in := false
	for _, i := range idx.candidates(p.X) {
		e := idx.edges[i]
		if e.x0 == e.x1 || p.X < e.x0 || p.X >= e.x1 {
			continue
		}
		y := float64(e.y0) + float64(p.X-e.x0)*e.dydx
		if y > float64(p.Y) {
			in = !in
		}
	}
	return in
}

func distanceToSegment(p model.Point, e edge) float64 {
	ax, ay := float64(e.x0), float64(e.y0)
	dx, dy := float64(e.x1)-ax, float64(e.y1)-ay
	px, py := float64(p.X)-ax, float64(p.Y)-ay
	l2 := dx*dx + dy*dy
	t := 0.0
	if l2 > 0 {
		t = math.Max(0, math.Min(1, (px*dx+py*dy)/l2))
	}
	ex, ey := px-t*dx, py-t*dy
	return math.Sqrt(ex*ex + ey*ey)
}
