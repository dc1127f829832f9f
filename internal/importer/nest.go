package importer

import (
	"math"
	"sort"

	"github.com/piwi3910/ensurefill/internal/boundary"
	"github.com/piwi3910/ensurefill/internal/model"
)

// nestRings groups loose rings into ExPolygons by containment. A ring
// nested at even depth is an outer contour, at odd depth a hole of the
// ring directly enclosing it. Contours come out counter-clockwise and
// holes clockwise, largest contour first.
func nestRings(rings model.Polygons) model.ExPolygons {
	type node struct {
		ring   model.Polygon
		area   float64
		parent int
		depth  int
		index  *boundary.LinesIndex
	}

	nodes := make([]node, 0, len(rings))
	for _, r := range rings {
		if len(r) < 3 {
			continue
		}
		nodes = append(nodes, node{ring: r, area: math.Abs(r.Area()), parent: -1})
	}
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].area > nodes[j].area })

	for i := range nodes {
		nodes[i].index = boundary.NewLinesIndex(nodes[i].ring.Lines(), 0)
		probe := nodes[i].ring[0]
		// the smallest larger ring containing the probe is the parent
		for j := i - 1; j >= 0; j-- {
			if nodes[j].index.Contains(probe) {
				nodes[i].parent = j
				nodes[i].depth = nodes[j].depth + 1
				break
			}
		}
	}

	var out model.ExPolygons
	outer := make(map[int]int)
	for i, n := range nodes {
		if n.depth%2 != 0 {
			continue
		}
		contour := append(model.Polygon(nil), n.ring...)
		if !contour.IsCounterClockwise() {
			contour.Reverse()
		}
		outer[i] = len(out)
		out = append(out, model.ExPolygon{Contour: contour})
	}
	for _, n := range nodes {
		if n.depth%2 == 0 {
			continue
		}
		hole := append(model.Polygon(nil), n.ring...)
		if hole.IsCounterClockwise() {
			hole.Reverse()
		}
		ex := &out[outer[n.parent]]
		ex.Holes = append(ex.Holes, hole)
	}
	return out
}
