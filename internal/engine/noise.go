package engine

import (
	"github.com/piwi3910/ensurefill/internal/model"
)

// NoiseFilter removes short, weakly connected sections. Such sections
// usually come from scanlines grazing a sharp tip of the boundary and would
// otherwise turn into tiny, badly attached extrusions.
type NoiseFilter struct {
	// LengthFilter is the length in scaled units below which a section is
	// a removal candidate.
	LengthFilter model.Coord
	// SkipsAllowed is how many long sections a chain of short sections may
	// pass through.
	SkipsAllowed int
	// MinRemovalCount is the cluster size above which removal no longer
	// depends on the cluster's surroundings.
	MinRemovalCount int
}

// DefaultNoiseFilter returns the filter tuned for typical FDM spacings.
func DefaultNoiseFilter() NoiseFilter {
	return NoiseFilter{
		LengthFilter:    model.Scale(4),
		SkipsAllowed:    2,
		MinRemovalCount: 3,
	}
}

// noiseNode is the work-list state of one visited section.
type noiseNode struct {
	id         sectionID
	skipsTaken int
	explored   bool
	neighbours []sectionID
}

// Apply collapses noisy sections and sweeps them out of every scanline. It
// returns the number of sections removed.
func (f NoiseFilter) Apply(sections [][]model.Line) int {
	removed := 0
	for line := range sections {
		for index := range sections[line] {
			sec := sections[line][index]
			if sec.Degenerate() || !f.short(sec) {
				continue
			}
			toRemove := f.cluster(sections, sectionID{line, index})
			for id := range toRemove {
				s := &sections[id.line][id.index]
				s.A = s.B
			}
			removed += len(toRemove)
		}
	}
	for line := range sections {
		sections[line] = sweepDegenerate(sections[line])
	}
	return removed
}

func (f NoiseFilter) short(sec model.Line) bool {
	return sec.Length() < float64(f.LengthFilter)
}

// cluster explores the sections reachable from start through overlapping
// neighbours in the following scanlines and decides, on unwind, which of
// them are noise.
func (f NoiseFilter) cluster(sections [][]model.Line, start sectionID) map[sectionID]bool {
	startSec := sections[start.line][start.index]
	toRemove := map[sectionID]bool{start: true}

	touchesPrevious := false
	if start.line > 0 {
		for _, prev := range sections[start.line-1] {
			if !prev.Degenerate() && yOverlap(startSec, prev) {
				touchesPrevious = true
				break
			}
		}
	}

	stack := []noiseNode{{id: start}}
	for len(stack) > 0 {
		top := len(stack) - 1
		curr := stack[top]
		currSec := sections[curr.id.line][curr.id.index]

		if curr.explored {
			remove := f.short(currSec) &&
				(len(toRemove)-curr.skipsTaken > f.MinRemovalCount ||
					(len(curr.neighbours) == 0 && !touchesPrevious))
			if !remove {
				for _, n := range curr.neighbours {
					if toRemove[n] {
						remove = true
						break
					}
				}
			}
			if !remove {
				delete(toRemove, curr.id)
			}
			stack = stack[:top]
			continue
		}

		stack[top].explored = true
		next := curr.id.line + 1
		if next >= len(sections) {
			continue
		}
		canSkip := currSec.Length() <= float64(f.LengthFilter) && curr.skipsTaken < f.SkipsAllowed
		for index, ns := range sections[next] {
			if ns.Degenerate() || !yOverlap(currSec, ns) || !(f.short(ns) || canSkip) {
				continue
			}
			id := sectionID{next, index}
			stack[top].neighbours = append(stack[top].neighbours, id)
			toRemove[id] = true
			skips := curr.skipsTaken
			if !f.short(ns) {
				skips++
			}
			stack = append(stack, noiseNode{id: id, skipsTaken: skips})
		}
	}
	return toRemove
}
