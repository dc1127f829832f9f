package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/ensurefill/internal/model"
)

// shapeTracer grows one kind of open shape column by column.
type shapeTracer[S any] interface {
	// match returns the index of the section in column that continues
	// shape, or -1 when there is none or the choice is ambiguous. Sections
	// already claimed in this column are not eligible.
	match(shape *S, column []model.Line, claimed []bool) int
	// extend appends sec to shape.
	extend(shape *S, sec model.Line)
	// close finishes shape and moves it to the tracer's output.
	close(shape *S)
	// open starts a new shape at sec.
	open(sec model.Line) S
}

// traceColumns walks the scanlines left to right. Every open shape either
// claims one section of the next scanline or is closed; unclaimed sections
// start new shapes. Shapes still open after the last scanline are closed.
func traceColumns[S any](columns [][]model.Line, t shapeTracer[S]) {
	var open []S
	for _, column := range columns {
		claimed := make([]bool, len(column))
		next := make([]S, 0, len(open)+len(column))
		for i := range open {
			idx := t.match(&open[i], column, claimed)
			if idx < 0 {
				t.close(&open[i])
				continue
			}
			claimed[idx] = true
			t.extend(&open[i], column[idx])
			next = append(next, open[i])
		}
		for idx, sec := range column {
			if !claimed[idx] {
				next = append(next, t.open(sec))
			}
		}
		open = next
	}
	for i := range open {
		t.close(&open[i])
	}
}

// reconnectLimit is the squared distance below which consecutive section
// endpoints are joined directly.
func reconnectLimit(spacing model.Coord) float64 {
	s := float64(spacing)
	return 4 * s * s
}

// rail is a polygon being traced: the walked bottom and top boundaries.
type rail struct {
	lows  []model.Point
	highs []model.Point
}

// railTracer rebuilds the covered area as closed polygons.
type railTracer struct {
	spacing model.Coord
	limit   float64
	out     model.Polygons
}

func (t *railTracer) half() model.Point {
	return model.Point{X: t.spacing / 2}
}

func (t *railTracer) match(r *rail, column []model.Line, claimed []bool) int {
	low := r.lows[len(r.lows)-1].Y
	high := r.highs[len(r.highs)-1].Y
	idx := sort.Search(len(column), func(k int) bool { return column[k].B.Y >= low })
	if idx == len(column) || claimed[idx] {
		return -1
	}
	if !rangesOverlap(low, high, column[idx].A.Y, column[idx].B.Y) {
		return -1
	}
	if idx+1 < len(column) && rangesOverlap(low, high, column[idx+1].A.Y, column[idx+1].B.Y) {
		return -1
	}
	return idx
}

func (t *railTracer) extend(r *rail, sec model.Line) {
	r.lows = t.step(r.lows, sec.A)
	r.highs = t.step(r.highs, sec.B)
}

// step appends p to a rail. Long jumps get two bridging points half a
// spacing to either side so the rail does not cut diagonally across the
// column gap.
func (t *railTracer) step(pts []model.Point, p model.Point) []model.Point {
	last := pts[len(pts)-1]
	if last.DistanceSquared(p) < t.limit {
		return append(pts, p)
	}
	return append(pts, last.Add(t.half()), p.Sub(t.half()), p)
}

func (t *railTracer) close(r *rail) {
	lows := append(r.lows, r.lows[len(r.lows)-1].Add(t.half()))
	highs := append(r.highs, r.highs[len(r.highs)-1].Add(t.half()))
	poly := make(model.Polygon, 0, len(lows)+len(highs))
	poly = append(poly, lows...)
	for i := len(highs) - 1; i >= 0; i-- {
		poly = append(poly, highs[i])
	}
	t.out = append(t.out, poly)
	r.lows, r.highs = nil, nil
}

func (t *railTracer) open(sec model.Line) rail {
	return rail{
		lows:  []model.Point{sec.A.Sub(t.half()), sec.A},
		highs: []model.Point{sec.B.Sub(t.half()), sec.B},
	}
}

// pathTracer joins sections into zig-zag thick polylines.
type pathTracer struct {
	spacing model.Coord
	limit   float64
	out     model.ThickPolylines
}

func (t *pathTracer) match(tp *model.ThickPolyline, column []model.Line, claimed []bool) int {
	last := tp.LastPoint()
	reach := model.Coord(math.Ceil(math.Sqrt(t.limit)))
	start := sort.Search(len(column), func(k int) bool { return column[k].A.Y >= last.Y })
	if start > 0 {
		start--
	}
	for k := start; k < len(column); k++ {
		sec := column[k]
		if sec.A.Y > last.Y+reach {
			break
		}
		if claimed[k] {
			continue
		}
		if last.DistanceSquared(sec.A) < t.limit || last.DistanceSquared(sec.B) < t.limit {
			return k
		}
	}
	return -1
}

func (t *pathTracer) extend(tp *model.ThickPolyline, sec model.Line) {
	last := tp.LastPoint()
	if last.DistanceSquared(sec.B) < last.DistanceSquared(sec.A) {
		sec.A, sec.B = sec.B, sec.A
	}
	tp.Append(sec.A, t.spacing)
	tp.Append(sec.B, t.spacing)
}

func (t *pathTracer) close(tp *model.ThickPolyline) {
	if tp.IsValid() {
		t.out = append(t.out, *tp)
	}
	*tp = model.ThickPolyline{}
}

func (t *pathTracer) open(sec model.Line) model.ThickPolyline {
	tp := model.ThickPolyline{Endpoints: [2]bool{true, true}}
	tp.Append(sec.A, t.spacing)
	tp.Append(sec.B, t.spacing)
	return tp
}

// reconstruct traces the filtered sections twice: once into closed
// polygons describing the covered area and once into the primary fill
// paths.
func reconstruct(sections [][]model.Line, spacing model.Coord) (model.Polygons, model.ThickPolylines) {
	limit := reconnectLimit(spacing)

	rails := &railTracer{spacing: spacing, limit: limit}
	traceColumns[rail](sections, rails)

	paths := &pathTracer{spacing: spacing, limit: limit}
	traceColumns[model.ThickPolyline](sections, paths)

	return rails.out, paths.out
}
