package model

import (
	"fmt"
	"math"
)

// Coord is a scaled fixed-point coordinate. One unit is ScalingFactor mm.
type Coord = int64

// ScalingFactor is the size of one Coord unit in mm (1 nm).
const ScalingFactor = 1e-6

// ScaledEpsilon is the smallest distance treated as significant by the
// polygon operators.
var ScaledEpsilon = Scale(0.0001)

// Scale converts a length in mm to scaled units, rounding to nearest.
func Scale(mm float64) Coord {
	return Coord(math.Round(mm / ScalingFactor))
}

// Unscale converts a scaled length back to mm.
func Unscale(v Coord) float64 {
	return float64(v) * ScalingFactor
}

// Point is a 2D point in scaled coordinates.
type Point struct {
	X Coord `json:"x" yaml:"x"`
	Y Coord `json:"y" yaml:"y"`
}

// NewPointMM builds a Point from mm coordinates.
func NewPointMM(x, y float64) Point {
	return Point{X: Scale(x), Y: Scale(y)}
}

func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// DistanceSquared returns the squared euclidean distance as float64 to
// avoid overflowing int64 on long vectors.
func (p Point) DistanceSquared(q Point) float64 {
	dx := float64(p.X - q.X)
	dy := float64(p.Y - q.Y)
	return dx*dx + dy*dy
}

// Distance returns the euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Sqrt(p.DistanceSquared(q))
}

// Rotate rotates p around the origin given the cosine and sine of the angle.
// The result is rounded to the nearest scaled unit.
func (p Point) Rotate(cos, sin float64) Point {
	x := float64(p.X)
	y := float64(p.Y)
	return Point{
		X: Coord(math.Round(cos*x - sin*y)),
		Y: Coord(math.Round(cos*y + sin*x)),
	}
}

func (p Point) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", Unscale(p.X), Unscale(p.Y))
}

// Line is a segment from A to B.
type Line struct {
	A Point `json:"a"`
	B Point `json:"b"`
}

// Length returns the euclidean length of the segment.
func (l Line) Length() float64 {
	return l.A.Distance(l.B)
}

// Degenerate reports whether the segment collapsed to a single point.
func (l Line) Degenerate() bool {
	return l.A == l.B
}

// Midpoint returns the integer midpoint of the segment.
func (l Line) Midpoint() Point {
	return Point{X: (l.A.X + l.B.X) / 2, Y: (l.A.Y + l.B.Y) / 2}
}

// BoundingBox is an axis-aligned box. The zero value is an empty box that
// grows on the first merge.
type BoundingBox struct {
	Min     Point `json:"min"`
	Max     Point `json:"max"`
	Defined bool  `json:"defined"`
}

// MergePoint grows the box to contain p.
func (b *BoundingBox) MergePoint(p Point) {
	if !b.Defined {
		b.Min, b.Max, b.Defined = p, p, true
		return
	}
	b.Min.X = min(b.Min.X, p.X)
	b.Min.Y = min(b.Min.Y, p.Y)
	b.Max.X = max(b.Max.X, p.X)
	b.Max.Y = max(b.Max.Y, p.Y)
}

// Merge grows the box to contain o.
func (b *BoundingBox) Merge(o BoundingBox) {
	if !o.Defined {
		return
	}
	b.MergePoint(o.Min)
	b.MergePoint(o.Max)
}

// Offset grows the box by d on every side.
func (b *BoundingBox) Offset(d Coord) {
	if !b.Defined {
		return
	}
	b.Min = b.Min.Sub(Point{d, d})
	b.Max = b.Max.Add(Point{d, d})
}

// Size returns the width and height of the box as a point.
func (b BoundingBox) Size() Point {
	if !b.Defined {
		return Point{}
	}
	return b.Max.Sub(b.Min)
}

// Contains reports whether p lies inside or on the box.
func (b BoundingBox) Contains(p Point) bool {
	return b.Defined && p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Polygon is a closed ring of points. The last point connects back to the
// first. Outer contours are counter-clockwise (positive area), holes are
// clockwise.
type Polygon []Point

// Area returns the signed area using the shoelace formula.
func (pg Polygon) Area() float64 {
	n := len(pg)
	if n < 3 {
		return 0
	}
	var a float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a += float64(pg[i].X)*float64(pg[j].Y) - float64(pg[j].X)*float64(pg[i].Y)
	}
	return a / 2
}

// IsCounterClockwise reports whether the polygon has positive orientation.
func (pg Polygon) IsCounterClockwise() bool {
	return pg.Area() > 0
}

// Reverse flips the orientation in place.
func (pg Polygon) Reverse() {
	for i, j := 0, len(pg)-1; i < j; i, j = i+1, j-1 {
		pg[i], pg[j] = pg[j], pg[i]
	}
}

// BoundingBox returns the extents of the polygon.
func (pg Polygon) BoundingBox() BoundingBox {
	var bb BoundingBox
	for _, p := range pg {
		bb.MergePoint(p)
	}
	return bb
}

// Lines returns the closed edge list of the polygon.
func (pg Polygon) Lines() []Line {
	n := len(pg)
	if n < 2 {
		return nil
	}
	lines := make([]Line, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, Line{A: pg[i], B: pg[(i+1)%n]})
	}
	return lines
}

// Translate returns a copy shifted by d.
func (pg Polygon) Translate(d Point) Polygon {
	out := make(Polygon, len(pg))
	for i, p := range pg {
		out[i] = p.Add(d)
	}
	return out
}

// Polygons is a set of rings, typically contours and holes mixed.
type Polygons []Polygon

// BoundingBox returns the extents of all rings.
func (ps Polygons) BoundingBox() BoundingBox {
	var bb BoundingBox
	for _, pg := range ps {
		bb.Merge(pg.BoundingBox())
	}
	return bb
}

// Lines returns every edge of every ring.
func (ps Polygons) Lines() []Line {
	var lines []Line
	for _, pg := range ps {
		lines = append(lines, pg.Lines()...)
	}
	return lines
}

// Area returns the summed signed area, so holes subtract.
func (ps Polygons) Area() float64 {
	var a float64
	for _, pg := range ps {
		a += pg.Area()
	}
	return a
}

// Rotate rotates every point around the origin by angle radians.
func (ps Polygons) Rotate(angle float64) {
	cos, sin := math.Cos(angle), math.Sin(angle)
	for _, pg := range ps {
		for i, p := range pg {
			pg[i] = p.Rotate(cos, sin)
		}
	}
}

// Clone returns a deep copy.
func (ps Polygons) Clone() Polygons {
	out := make(Polygons, len(ps))
	for i, pg := range ps {
		out[i] = append(Polygon(nil), pg...)
	}
	return out
}

// ExPolygon is an outer contour with zero or more holes.
type ExPolygon struct {
	Contour Polygon  `json:"contour" yaml:"contour"`
	Holes   Polygons `json:"holes,omitempty" yaml:"holes,omitempty"`
}

// Polygons flattens the contour and holes into one ring set.
func (e ExPolygon) Polygons() Polygons {
	out := make(Polygons, 0, 1+len(e.Holes))
	out = append(out, e.Contour)
	return append(out, e.Holes...)
}

// Area returns contour area minus hole areas.
func (e ExPolygon) Area() float64 {
	a := math.Abs(e.Contour.Area())
	for _, h := range e.Holes {
		a -= math.Abs(h.Area())
	}
	return a
}

// ExPolygons is a set of ExPolygon.
type ExPolygons []ExPolygon

// Polygons flattens every ExPolygon into one ring set.
func (es ExPolygons) Polygons() Polygons {
	var out Polygons
	for _, e := range es {
		out = append(out, e.Polygons()...)
	}
	return out
}

// Area returns the total covered area.
func (es ExPolygons) Area() float64 {
	var a float64
	for _, e := range es {
		a += e.Area()
	}
	return a
}

// RectangleMM builds a counter-clockwise rectangle from mm coordinates.
func RectangleMM(x0, y0, x1, y1 float64) Polygon {
	return Polygon{
		NewPointMM(x0, y0),
		NewPointMM(x1, y0),
		NewPointMM(x1, y1),
		NewPointMM(x0, y1),
	}
}
