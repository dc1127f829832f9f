package engine

import (
	"github.com/piwi3910/ensurefill/internal/model"
	"github.com/piwi3910/ensurefill/internal/polyops"
	"github.com/piwi3910/ensurefill/internal/walls"
)

// gapOpeningRatio is the opening radius, relative to the spacing, used to
// drop gap slivers too small to print.
const gapOpeningRatio = 0.3

// findGaps returns the parts of area not covered by reconstructed, grown
// by overlap and opened to remove slivers.
func findGaps(area, reconstructed model.Polygons, spacing model.Coord, overlap float64) model.ExPolygons {
	gaps := polyops.DiffEx(area, reconstructed)
	if overlap != 0 {
		gaps = polyops.OffsetEx(gaps, float64(model.Scale(overlap)))
	}
	return polyops.OpeningEx(gaps, gapOpeningRatio*float64(spacing))
}

// fillGaps covers every gap with wall loops and appends them to out. Closed
// loops start at the point nearest to where the previous path ended. Every
// appended path is clipped at its tail and dropped if nothing printable
// remains.
func (f *Filler) fillGaps(gaps model.ExPolygons, spacing model.Coord, out model.ThickPolylines) model.ThickPolylines {
	log := Logger()
	clip := float64(model.Scale(f.params.LoopClipping))

	for _, gap := range gaps {
		loops := loopCount(gap.Contour.BoundingBox().Size(), spacing)
		insets := f.walls.Generate(walls.WallRequest{
			Polygons:    gap.Polygons(),
			OuterWidth:  spacing,
			InnerWidth:  spacing,
			Loops:       loops,
			Inset:       0,
			LayerHeight: f.params.LayerHeight,
			Settings:    *f.settings,
		})
		if len(insets) == 0 {
			continue
		}

		first := len(out)
		var lastPos model.Point
		if first > 0 {
			lastPos = out[first-1].LastPoint()
		}
		for _, inset := range insets {
			for _, line := range inset {
				if line.Empty() {
					continue
				}
				tp := walls.ToThickPolyline(line)
				if tp.Length() == 0 {
					log.Debug("dropping zero-length wall path", "inset", line.InsetIdx)
					continue
				}
				if line.IsClosed {
					tp.StartAtIndex(model.NearestPointIndex(tp.Points, lastPos))
				}
				out = append(out, tp)
				lastPos = tp.LastPoint()
			}
		}

		kept := out[:first]
		for _, tp := range out[first:] {
			tp.ClipEnd(clip)
			if tp.IsValid() && tp.Length() > 0 {
				kept = append(kept, tp)
			} else {
				log.Debug("dropping wall path consumed by loop clipping")
			}
		}
		out = kept
	}
	return out
}

// loopCount returns the loop budget for a gap with the given bounding box
// size. The wall generator stops early once the gap is consumed.
func loopCount(size model.Point, spacing model.Coord) int {
	return int(max(size.X, size.Y)/spacing) + 1
}
