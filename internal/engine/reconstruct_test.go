package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/ensurefill/internal/model"
)

func TestReconstructStraightRun(t *testing.T) {
	spacing := model.Scale(0.5)
	sections := [][]model.Line{
		{vsec(0, 0, 10)},
		{vsec(1, 0, 10)},
		{vsec(2, 0, 10)},
	}

	polys, paths := reconstruct(sections, spacing)
	require.Len(t, polys, 1)
	require.Len(t, paths, 1)

	// rails span half a spacing past the outer scanlines
	bb := polys[0].BoundingBox()
	assert.Equal(t, model.Scale(-0.25), bb.Min.X)
	assert.Equal(t, model.Scale(1.25), bb.Max.X)
	assert.True(t, polys[0].IsCounterClockwise())
	assert.InDelta(t, 15.0, polys[0].Area()*model.ScalingFactor*model.ScalingFactor, 1e-6)

	want := []model.Point{
		model.NewPointMM(0, 0), model.NewPointMM(0, 10),
		model.NewPointMM(0.5, 10), model.NewPointMM(0.5, 0),
		model.NewPointMM(1, 0), model.NewPointMM(1, 10),
	}
	assert.Equal(t, want, paths[0].Points)
	assert.Equal(t, [2]bool{true, true}, paths[0].Endpoints)
}

func TestReconstructBridgesLongRailJump(t *testing.T) {
	spacing := model.Scale(0.5)
	sections := [][]model.Line{
		{vsec(0, 0, 10)},
		{vsec(1, 5, 10)},
	}

	polys, _ := reconstruct(sections, spacing)
	require.Len(t, polys, 1)

	// lows: seed, a0, bridge out, bridge in, a1, close
	// highs: seed, b0, b1, close
	assert.Len(t, polys[0], 10)
	assert.Contains(t, polys[0], model.NewPointMM(0.25, 0))
	assert.Contains(t, polys[0], model.NewPointMM(0.25, 5))
}

func TestReconstructClosesOnFork(t *testing.T) {
	spacing := model.Scale(0.5)
	sections := [][]model.Line{
		{vsec(0, 0, 10)},
		{vsec(1, 0, 4), vsec(1, 6, 10)},
	}

	polys, paths := reconstruct(sections, spacing)
	// the trunk closes at the fork and each branch starts its own rail
	assert.Len(t, polys, 3)
	// the path continues into the branch next to its tail
	require.Len(t, paths, 2)
	assert.Len(t, paths[0].Points, 4)
	assert.Equal(t, model.NewPointMM(0.5, 6), paths[0].LastPoint())
	assert.Len(t, paths[1].Points, 2)
	assert.Equal(t, model.NewPointMM(0.5, 0), paths[1].FirstPoint())
}

func TestReconstructPathEndsWhenNothingIsNear(t *testing.T) {
	spacing := model.Scale(0.5)
	sections := [][]model.Line{
		{vsec(0, 0, 10)},
		{},
		{vsec(2, 0, 10)},
	}

	polys, paths := reconstruct(sections, spacing)
	assert.Len(t, polys, 2)
	assert.Len(t, paths, 2)
}

func TestReconstructSectionClaimedOnce(t *testing.T) {
	spacing := model.Scale(0.5)
	// both runs end next to an end of the single section on the next
	// scanline; only the first may continue into it
	sections := [][]model.Line{
		{vsec(0, -3, 0), vsec(0, 2, 4)},
		{vsec(1, 0.2, 4)},
	}

	_, paths := reconstruct(sections, spacing)
	var points int
	for _, tp := range paths {
		points += len(tp.Points)
	}
	assert.Equal(t, 6, points)
	assert.Len(t, paths, 2)
}

func TestReconstructEmpty(t *testing.T) {
	polys, paths := reconstruct(nil, model.Scale(0.5))
	assert.Empty(t, polys)
	assert.Empty(t, paths)
}
