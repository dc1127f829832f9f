package walls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/ensurefill/internal/model"
)

func request(polys model.Polygons, width float64, loops int) WallRequest {
	return WallRequest{
		Polygons:    polys,
		OuterWidth:  model.Scale(width),
		InnerWidth:  model.Scale(width),
		Loops:       loops,
		LayerHeight: 0.2,
		Settings:    model.DefaultPrintSettings(),
	}
}

func TestConcentricLoopsAtInsets(t *testing.T) {
	req := request(model.Polygons{model.RectangleMM(0, 0, 10, 10)}, 0.5, 3)

	insets := Concentric{}.Generate(req)
	require.Len(t, insets, 3)
	for i, inset := range insets {
		require.Len(t, inset, 1)
		line := inset[0]
		assert.True(t, line.IsClosed)
		assert.Equal(t, i, line.InsetIdx)
		for _, j := range line.Junctions {
			assert.Equal(t, model.Scale(0.5), j.Width)
		}
		// loop i sits 0.25 + i*0.5 mm from the boundary
		side := 10 - 2*(0.25+0.5*float64(i))
		assert.InDelta(t, 4*side, model.Unscale(model.Coord(line.Length())), 1e-3)
	}
}

func TestConcentricStopsWhenRegionIsConsumed(t *testing.T) {
	req := request(model.Polygons{model.RectangleMM(0, 0, 2, 2)}, 0.5, 10)

	insets := Concentric{}.Generate(req)
	// centres at 0.25 and 0.75 fit, 1.25 does not
	assert.Len(t, insets, 2)
}

func TestConcentricThinFallback(t *testing.T) {
	req := request(model.Polygons{model.RectangleMM(0, 0, 10, 0.4)}, 0.5, 2)

	insets := Concentric{}.Generate(req)
	require.Len(t, insets, 1)
	require.Len(t, insets[0], 1)
	line := insets[0][0]
	w := model.Unscale(line.Junctions[0].Width)
	assert.GreaterOrEqual(t, w, model.DefaultPrintSettings().MinBeadWidthMM()-1e-6)
	assert.LessOrEqual(t, w, 0.5)
}

func TestConcentricTooThinForAnything(t *testing.T) {
	// thinner than the minimum feature size of 0.1mm
	req := request(model.Polygons{model.RectangleMM(0, 0, 10, 0.05)}, 0.5, 2)
	assert.Empty(t, Concentric{}.Generate(req))
}

func TestConcentricRejectsEmptyRequest(t *testing.T) {
	assert.Nil(t, Concentric{}.Generate(WallRequest{}))
	assert.Nil(t, Concentric{}.Generate(request(model.Polygons{model.RectangleMM(0, 0, 1, 1)}, 0.5, 0)))
}

func TestToThickPolylineClosed(t *testing.T) {
	line := ExtrusionLine{
		IsClosed: true,
		Junctions: []Junction{
			{P: model.NewPointMM(0, 0), Width: 10},
			{P: model.NewPointMM(1, 0), Width: 20},
			{P: model.NewPointMM(1, 1), Width: 30},
		},
	}
	tp := ToThickPolyline(line)
	require.Len(t, tp.Points, 4)
	assert.True(t, tp.IsClosed())
	assert.Equal(t, []model.Coord{10, 20, 30, 10}, tp.Width)
	assert.Equal(t, [2]bool{false, false}, tp.Endpoints)
}

func TestToThickPolylineOpen(t *testing.T) {
	line := ExtrusionLine{
		Junctions: []Junction{
			{P: model.NewPointMM(0, 0), Width: 10},
			{P: model.NewPointMM(2, 0), Width: 10},
		},
	}
	tp := ToThickPolyline(line)
	assert.Len(t, tp.Points, 2)
	assert.Equal(t, [2]bool{true, true}, tp.Endpoints)
	assert.InDelta(t, float64(model.Scale(2)), tp.Length(), 1)
	assert.InDelta(t, tp.Length(), line.Length(), 1e-9)
}
