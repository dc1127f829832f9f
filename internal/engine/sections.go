package engine

import (
	"github.com/piwi3910/ensurefill/internal/boundary"
	"github.com/piwi3910/ensurefill/internal/model"
)

// NarrowInfillAreaThreshold is the opening radius in mm applied before
// sizing the scanlines. Features thinner than twice this value get no
// scanlines of their own and are left to the gap filler.
const NarrowInfillAreaThreshold = 3.0

// sectionID identifies a section by its scanline and its position on the
// scanline.
type sectionID struct {
	line  int
	index int
}

// yOverlap reports whether the closed y-ranges of a and b intersect. Both
// sections must have A below B.
func yOverlap(a, b model.Line) bool {
	return rangesOverlap(a.A.Y, a.B.Y, b.A.Y, b.B.Y)
}

func rangesOverlap(alow, ahigh, blow, bhigh model.Coord) bool {
	return alow <= bhigh && blow <= ahigh
}

// buildSections casts vertical scanlines spaced by spacing across the
// bounding box of opened and returns, per scanline, the sorted runs that
// lie strictly inside internal.
func buildSections(internal, opened model.Polygons, spacing model.Coord) [][]model.Line {
	bb := opened.BoundingBox()
	if !bb.Defined || spacing <= 0 {
		return nil
	}
	n := int((bb.Max.X - bb.Min.X + spacing - 1) / spacing)
	index := boundary.NewLinesIndex(internal.Lines(), spacing)

	sections := make([][]model.Line, n)
	for i := range sections {
		x := bb.Min.X + model.Coord(i)*spacing
		sections[i] = scanline(index, x, bb.Min.Y, bb.Max.Y)
	}
	return sections
}

func scanline(index *boundary.LinesIndex, x, ymin, ymax model.Coord) []model.Line {
	hits := index.IntersectionsWithVertical(x, ymin, ymax)

	var column []model.Line
	for k := 0; k+1 < len(hits); k++ {
		sec := model.Line{A: hits[k], B: hits[k+1]}
		if index.Contains(sec.Midpoint()) {
			column = append(column, sec)
		}
	}

	// Boundary self-touches split one run into overlapping pieces. Fold each
	// piece into its successor and collapse it.
	for k := 0; k+1 < len(column); k++ {
		a, b := &column[k], &column[k+1]
		if yOverlap(*a, *b) {
			if a.A.Y < b.A.Y {
				b.A = a.A
			}
			if a.B.Y > b.B.Y {
				b.B = a.B
			}
			a.A = a.B
		}
	}
	return sweepDegenerate(column)
}

// sweepDegenerate removes collapsed sections in place.
func sweepDegenerate(column []model.Line) []model.Line {
	out := column[:0]
	for _, sec := range column {
		if !sec.Degenerate() {
			out = append(out, sec)
		}
	}
	return out
}
