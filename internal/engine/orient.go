package engine

import (
	"math"

	"github.com/piwi3910/ensurefill/internal/model"
	"github.com/piwi3910/ensurefill/internal/polyops"
)

// alignAngle returns the rotation that turns the fill direction into the
// vertical scan direction.
func alignAngle(fillAngle float64) float64 {
	return -fillAngle + math.Pi/2
}

// alignArea returns a rotated, consistently oriented copy of the area's
// rings so that scanlines run vertically. The input is not modified.
func alignArea(area model.ExPolygon, fillAngle float64) model.Polygons {
	rings := polyops.Normalize(area)
	rings.Rotate(alignAngle(fillAngle))
	return rings
}

// restorePaths rotates paths produced in the aligned frame back into the
// region's own frame.
func restorePaths(paths model.ThickPolylines, fillAngle float64) {
	paths.Rotate(-alignAngle(fillAngle))
}

// Restored returns copies of the aligned-frame geometry of r rotated back
// into the surface frame, matching r.Paths.
func (r *Result) Restored() (area, reconstructed model.Polygons, gaps model.ExPolygons) {
	back := -alignAngle(r.Angle)

	area = r.Area.Clone()
	area.Rotate(back)
	reconstructed = r.Reconstructed.Clone()
	reconstructed.Rotate(back)

	gaps = make(model.ExPolygons, len(r.Gaps))
	for i, g := range r.Gaps {
		contour := model.Polygons{g.Contour}.Clone()
		contour.Rotate(back)
		holes := g.Holes.Clone()
		holes.Rotate(back)
		gaps[i] = model.ExPolygon{Contour: contour[0], Holes: holes}
	}
	return area, reconstructed, gaps
}
