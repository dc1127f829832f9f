// Package walls generates variable-width perimeter toolpaths for small
// regions. The fill pipeline uses it to cover the gaps left between the
// reconstructed scanline shapes and the region boundary.
package walls

import (
	"github.com/piwi3910/ensurefill/internal/model"
	"github.com/piwi3910/ensurefill/internal/polyops"
)

// thinSearchSteps bounds the bisection used to place a loop in a region too
// thin for a full-width bead.
const thinSearchSteps = 16

// Junction is a point on an extrusion line together with the bead width
// at that point.
type Junction struct {
	P     model.Point `json:"p"`
	Width model.Coord `json:"width"`
}

// ExtrusionLine is a single wall path. Closed lines implicitly connect the
// last junction back to the first.
type ExtrusionLine struct {
	Junctions []Junction `json:"junctions"`
	IsClosed  bool       `json:"is_closed"`
	InsetIdx  int        `json:"inset_idx"`
}

// Empty reports whether the line has no junctions.
func (l ExtrusionLine) Empty() bool {
	return len(l.Junctions) == 0
}

// Length returns the length of the path including the closing segment.
func (l ExtrusionLine) Length() float64 {
	var total float64
	for i := 1; i < len(l.Junctions); i++ {
		total += l.Junctions[i-1].P.Distance(l.Junctions[i].P)
	}
	if l.IsClosed && len(l.Junctions) > 2 {
		total += l.Junctions[len(l.Junctions)-1].P.Distance(l.Junctions[0].P)
	}
	return total
}

// VariableWidthLines holds all lines of one inset.
type VariableWidthLines []ExtrusionLine

// WallRequest describes one wall generation call. Widths and the inset are
// in scaled units.
type WallRequest struct {
	Polygons    model.Polygons
	OuterWidth  model.Coord // width of the outermost loop
	InnerWidth  model.Coord // width of every further loop
	Loops       int
	Inset       model.Coord // distance from the boundary to the outer edge of the first loop
	LayerHeight float64     // mm
	Settings    model.PrintSettings
}

// WallGenerator produces wall toolpaths for a set of polygons. The result
// is indexed by inset, outermost first.
type WallGenerator interface {
	Generate(req WallRequest) []VariableWidthLines
}

// Concentric is a WallGenerator that emits constant-width loops at fixed
// insets. When the region cannot hold the first loop it places a single
// narrower loop as deep inside as the region allows. It does not model
// flow, so LayerHeight is ignored.
type Concentric struct{}

// Generate implements WallGenerator.
func (Concentric) Generate(req WallRequest) []VariableWidthLines {
	if len(req.Polygons) == 0 || req.Loops <= 0 || req.OuterWidth <= 0 {
		return nil
	}
	inner := req.InnerWidth
	if inner <= 0 {
		inner = req.OuterWidth
	}

	var out []VariableWidthLines
	for i := 0; i < req.Loops; i++ {
		width := req.OuterWidth
		d := req.Inset + req.OuterWidth/2
		if i > 0 {
			width = inner
			d = req.Inset + req.OuterWidth + model.Coord(i-1)*inner + inner/2
		}
		rings := polyops.Shrink(req.Polygons, float64(d))
		if len(rings) == 0 {
			if i == 0 {
				if thin := thinLoop(req); len(thin) > 0 {
					out = append(out, thin)
				}
			}
			break
		}
		out = append(out, ringsToLines(rings, width, i))
	}
	return out
}

// thinLoop finds the deepest inset that still leaves material and emits a
// loop there whose width reaches back to the boundary. Regions thinner
// than the minimum feature size produce nothing.
func thinLoop(req WallRequest) VariableWidthLines {
	minFeature := model.Scale(req.Settings.MinFeatureSizeMM())
	minBead := model.Scale(req.Settings.MinBeadWidthMM())

	lo := req.Inset + max(minFeature/2, 1)
	hi := req.Inset + req.OuterWidth/2
	best := polyops.Shrink(req.Polygons, float64(lo))
	if len(best) == 0 {
		return nil
	}
	bestD := lo
	for step := 0; step < thinSearchSteps && hi-lo > 1; step++ {
		mid := lo + (hi-lo)/2
		if rings := polyops.Shrink(req.Polygons, float64(mid)); len(rings) > 0 {
			best, bestD, lo = rings, mid, mid
		} else {
			hi = mid
		}
	}

	width := 2 * (bestD - req.Inset)
	width = min(max(width, minBead), req.OuterWidth)
	return ringsToLines(best, width, 0)
}

func ringsToLines(rings model.Polygons, width model.Coord, inset int) VariableWidthLines {
	lines := make(VariableWidthLines, 0, len(rings))
	for _, ring := range rings {
		if len(ring) < 3 {
			continue
		}
		line := ExtrusionLine{IsClosed: true, InsetIdx: inset}
		line.Junctions = make([]Junction, 0, len(ring))
		for _, p := range ring {
			line.Junctions = append(line.Junctions, Junction{P: p, Width: width})
		}
		lines = append(lines, line)
	}
	return lines
}

// ToThickPolyline converts an extrusion line to a thick polyline. Closed
// lines repeat their first point at the end; open lines are marked as
// having free ends.
func ToThickPolyline(line ExtrusionLine) model.ThickPolyline {
	var tp model.ThickPolyline
	for _, j := range line.Junctions {
		tp.Append(j.P, j.Width)
	}
	if line.IsClosed {
		if !tp.Empty() && tp.FirstPoint() != tp.LastPoint() {
			tp.Append(tp.FirstPoint(), tp.Width[0])
		}
		return tp
	}
	tp.Endpoints = [2]bool{true, true}
	return tp
}
