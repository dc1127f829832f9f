// Package polyops provides the 2D polygon algebra used by the fill
// pipeline: offsets, morphological opening/closing and boolean operations
// on scaled integer polygons. It wraps the Clipper library.
package polyops

import (
	clipper "github.com/ctessum/go.clipper"

	"github.com/piwi3910/ensurefill/internal/model"
)

// MiterLimit bounds how far a miter join may extend, as a multiple of the
// offset distance. Beyond the limit the corner is squared off.
const MiterLimit = 3.0

func toPath(pg model.Polygon) clipper.Path {
	path := make(clipper.Path, len(pg))
	for i, p := range pg {
		path[i] = &clipper.IntPoint{X: clipper.CInt(p.X), Y: clipper.CInt(p.Y)}
	}
	return path
}

func toPaths(ps model.Polygons) clipper.Paths {
	paths := make(clipper.Paths, 0, len(ps))
	for _, pg := range ps {
		if len(pg) < 3 {
			continue
		}
		paths = append(paths, toPath(pg))
	}
	return paths
}

func fromPath(path clipper.Path) model.Polygon {
	pg := make(model.Polygon, len(path))
	for i, ip := range path {
		pg[i] = model.Point{X: model.Coord(ip.X), Y: model.Coord(ip.Y)}
	}
	return pg
}

func fromPaths(paths clipper.Paths) model.Polygons {
	ps := make(model.Polygons, 0, len(paths))
	for _, path := range paths {
		if len(path) < 3 {
			continue
		}
		ps = append(ps, fromPath(path))
	}
	return ps
}

// Normalize orients the contour counter-clockwise and every hole clockwise
// and returns the flattened ring set.
func Normalize(ex model.ExPolygon) model.Polygons {
	out := make(model.Polygons, 0, 1+len(ex.Holes))
	contour := append(model.Polygon(nil), ex.Contour...)
	if !contour.IsCounterClockwise() {
		contour.Reverse()
	}
	out = append(out, contour)
	for _, h := range ex.Holes {
		hole := append(model.Polygon(nil), h...)
		if hole.IsCounterClockwise() {
			hole.Reverse()
		}
		out = append(out, hole)
	}
	return out
}

// NormalizeAll normalizes every ExPolygon and flattens the result.
func NormalizeAll(exs model.ExPolygons) model.Polygons {
	var out model.Polygons
	for _, ex := range exs {
		out = append(out, Normalize(ex)...)
	}
	return out
}

// Union merges overlapping rings using the non-zero fill rule.
func Union(ps model.Polygons) model.Polygons {
	c := clipper.NewClipper(clipper.IoNone)
	c.AddPaths(toPaths(ps), clipper.PtSubject, true)
	solution, ok := c.Execute1(clipper.CtUnion, clipper.PftNonZero, clipper.PftNonZero)
	if !ok {
		return nil
	}
	return fromPaths(solution)
}

// Offset grows the rings by delta, or shrinks them when delta is negative.
// Joins are mitered.
func Offset(ps model.Polygons, delta float64) model.Polygons {
	paths := toPaths(ps)
	if len(paths) == 0 {
		return nil
	}
	co := clipper.NewClipperOffset()
	co.MiterLimit = MiterLimit
	co.AddPaths(paths, clipper.JtMiter, clipper.EtClosedPolygon)
	return fromPaths(co.Execute(delta))
}

// Shrink offsets the rings inward by delta.
func Shrink(ps model.Polygons, delta float64) model.Polygons {
	return Offset(ps, -delta)
}

// Grow offsets the rings outward by delta.
func Grow(ps model.Polygons, delta float64) model.Polygons {
	return Offset(ps, delta)
}

// Opening shrinks then grows by delta, removing features thinner than
// 2*delta.
func Opening(ps model.Polygons, delta float64) model.Polygons {
	return Grow(Shrink(ps, delta), delta)
}

// Closing grows then shrinks by delta, bridging gaps narrower than 2*delta.
func Closing(ps model.Polygons, delta float64) model.Polygons {
	return Shrink(Grow(ps, delta), delta)
}

// Diff subtracts clip from subject.
func Diff(subject, clip model.Polygons) model.Polygons {
	c := clipper.NewClipper(clipper.IoNone)
	c.AddPaths(toPaths(subject), clipper.PtSubject, true)
	c.AddPaths(toPaths(clip), clipper.PtClip, true)
	solution, ok := c.Execute1(clipper.CtDifference, clipper.PftNonZero, clipper.PftNonZero)
	if !ok {
		return nil
	}
	return fromPaths(solution)
}

// DiffEx subtracts clip from subject and groups the result into contours
// with holes.
func DiffEx(subject, clip model.Polygons) model.ExPolygons {
	c := clipper.NewClipper(clipper.IoNone)
	c.AddPaths(toPaths(subject), clipper.PtSubject, true)
	c.AddPaths(toPaths(clip), clipper.PtClip, true)
	tree, ok := c.Execute2(clipper.CtDifference, clipper.PftNonZero, clipper.PftNonZero)
	if !ok || tree == nil {
		return nil
	}
	return fromPolyTree(tree)
}

// ToExPolygons unions the rings and groups them into contours with holes.
func ToExPolygons(ps model.Polygons) model.ExPolygons {
	c := clipper.NewClipper(clipper.IoNone)
	c.AddPaths(toPaths(ps), clipper.PtSubject, true)
	tree, ok := c.Execute2(clipper.CtUnion, clipper.PftNonZero, clipper.PftNonZero)
	if !ok || tree == nil {
		return nil
	}
	return fromPolyTree(tree)
}

// OffsetEx offsets every ExPolygon by delta and regroups the result.
func OffsetEx(exs model.ExPolygons, delta float64) model.ExPolygons {
	return ToExPolygons(Offset(NormalizeAll(exs), delta))
}

// OpeningEx applies Opening to every ExPolygon and regroups the result.
func OpeningEx(exs model.ExPolygons, delta float64) model.ExPolygons {
	return ToExPolygons(Opening(NormalizeAll(exs), delta))
}

// fromPolyTree walks outer nodes; each hole child becomes a hole of its
// parent and islands inside holes start new ExPolygons.
func fromPolyTree(tree *clipper.PolyTree) model.ExPolygons {
	var out model.ExPolygons
	var walk func(nodes []*clipper.PolyNode)
	walk = func(nodes []*clipper.PolyNode) {
		for _, outer := range nodes {
			if len(outer.Contour()) < 3 {
				continue
			}
			ex := model.ExPolygon{Contour: fromPath(outer.Contour())}
			for _, hole := range outer.Childs() {
				if len(hole.Contour()) >= 3 {
					ex.Holes = append(ex.Holes, fromPath(hole.Contour()))
				}
				walk(hole.Childs())
			}
			out = append(out, ex)
		}
	}
	walk(tree.Childs())
	return out
}
