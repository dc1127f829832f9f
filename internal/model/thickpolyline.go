package model

import "math"

// ThickPolyline is a centerline path whose points each carry an extrusion
// width. Endpoints marks whether the first and last point are true open
// ends of the path rather than cut continuations.
type ThickPolyline struct {
	Points    []Point `json:"points" yaml:"points"`
	Width     []Coord `json:"width" yaml:"width"`
	Endpoints [2]bool `json:"endpoints" yaml:"endpoints"`
}

// Append adds a point with its width to the tail of the path.
func (tp *ThickPolyline) Append(p Point, w Coord) {
	tp.Points = append(tp.Points, p)
	tp.Width = append(tp.Width, w)
}

// Empty reports whether the path holds no points.
func (tp ThickPolyline) Empty() bool {
	return len(tp.Points) == 0
}

// IsValid reports whether the path has at least one segment.
func (tp ThickPolyline) IsValid() bool {
	return len(tp.Points) >= 2
}

// FirstPoint returns the start of the path.
func (tp ThickPolyline) FirstPoint() Point {
	return tp.Points[0]
}

// LastPoint returns the tail of the path.
func (tp ThickPolyline) LastPoint() Point {
	return tp.Points[len(tp.Points)-1]
}

// IsClosed reports whether the last point coincides with the first.
func (tp ThickPolyline) IsClosed() bool {
	return len(tp.Points) > 2 && tp.Points[0] == tp.Points[len(tp.Points)-1]
}

// Length returns the total length of the path in scaled units.
func (tp ThickPolyline) Length() float64 {
	var l float64
	for i := 1; i < len(tp.Points); i++ {
		l += tp.Points[i-1].Distance(tp.Points[i])
	}
	return l
}

// Reverse flips the direction of the path, including the endpoint flags.
func (tp *ThickPolyline) Reverse() {
	for i, j := 0, len(tp.Points)-1; i < j; i, j = i+1, j-1 {
		tp.Points[i], tp.Points[j] = tp.Points[j], tp.Points[i]
		tp.Width[i], tp.Width[j] = tp.Width[j], tp.Width[i]
	}
	tp.Endpoints[0], tp.Endpoints[1] = tp.Endpoints[1], tp.Endpoints[0]
}

// StartAtIndex rotates a closed path so that it starts and ends at point i.
// Open paths are left untouched.
func (tp *ThickPolyline) StartAtIndex(i int) {
	if !tp.IsClosed() || i <= 0 || i >= len(tp.Points)-1 {
		return
	}
	n := len(tp.Points) - 1 // drop the duplicated closing point
	pts := make([]Point, 0, n+1)
	ws := make([]Coord, 0, n+1)
	pts = append(pts, tp.Points[i:n]...)
	pts = append(pts, tp.Points[:i]...)
	ws = append(ws, tp.Width[i:n]...)
	ws = append(ws, tp.Width[:i]...)
	pts = append(pts, pts[0])
	ws = append(ws, ws[0])
	tp.Points = pts
	tp.Width = ws
}

// ClipEnd removes distance from the tail of the path. The new tail point is
// interpolated along the last remaining segment, and so is its width.
// Clipping more than the path length leaves a single point.
func (tp *ThickPolyline) ClipEnd(distance float64) {
	for distance > 0 && len(tp.Points) > 1 {
		n := len(tp.Points)
		last := tp.Points[n-1]
		prev := tp.Points[n-2]
		seg := last.Distance(prev)
		if seg > distance {
			t := distance / seg
			tp.Points[n-1] = Point{
				X: last.X + Coord(math.Round(float64(prev.X-last.X)*t)),
				Y: last.Y + Coord(math.Round(float64(prev.Y-last.Y)*t)),
			}
			tp.Width[n-1] = tp.Width[n-1] + Coord(math.Round(float64(tp.Width[n-2]-tp.Width[n-1])*t))
			return
		}
		distance -= seg
		tp.Points = tp.Points[:n-1]
		tp.Width = tp.Width[:n-1]
	}
}

// NearestPointIndex returns the index of the point in pts closest to p, or
// -1 when pts is empty.
func NearestPointIndex(pts []Point, p Point) int {
	best := -1
	bestDist := math.Inf(1)
	for i, q := range pts {
		if d := q.DistanceSquared(p); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// ThickPolylines is an ordered set of paths. Order is travel order.
type ThickPolylines []ThickPolyline

// TotalLength sums the length of every path in scaled units.
func (tps ThickPolylines) TotalLength() float64 {
	var l float64
	for _, tp := range tps {
		l += tp.Length()
	}
	return l
}

// Rotate rotates every point of every path around the origin.
func (tps ThickPolylines) Rotate(angle float64) {
	cos, sin := math.Cos(angle), math.Sin(angle)
	for _, tp := range tps {
		for i, p := range tp.Points {
			tp.Points[i] = p.Rotate(cos, sin)
		}
	}
}
