package engine

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/ensurefill/internal/model"
	"github.com/piwi3910/ensurefill/internal/polyops"
)

// defaultTestParams fills vertically so that the aligned frame equals the
// input frame and expected coordinates can be written down directly.
func defaultTestParams() model.FillParams {
	p := model.DefaultFillParams()
	p.Angle = math.Pi / 2
	p.Spacing = 0.5
	p.Overlap = 0
	p.LoopClipping = 0.06
	p.LayerHeight = 0.2
	return p
}

func newTestFiller(t *testing.T, params model.FillParams, opts ...Option) *Filler {
	t.Helper()
	settings := model.DefaultPrintSettings()
	f, err := New(params, &settings, opts...)
	require.NoError(t, err)
	return f
}

func circleMM(cx, cy, r float64, n int) model.Polygon {
	pg := make(model.Polygon, n)
	for i := range pg {
		a := 2 * math.Pi * float64(i) / float64(n)
		pg[i] = model.NewPointMM(cx+r*math.Cos(a), cy+r*math.Sin(a))
	}
	return pg
}

func testSurfaces() map[string]model.Surface {
	// the band around the hole stays wider than twice the narrow-area
	// threshold after the half-spacing shrink, so it is scanned
	hole := model.RectangleMM(15, 15, 25, 25)
	hole.Reverse()
	return map[string]model.Surface{
		"rectangle": model.NewSurface("rectangle", model.ExPolygon{
			Contour: model.RectangleMM(0, 0, 20, 10),
		}),
		"l-shape with hole": model.NewSurface("l-shape", model.ExPolygon{
			Contour: model.Polygon{
				model.NewPointMM(0, 0),
				model.NewPointMM(30, 0),
				model.NewPointMM(30, 8),
				model.NewPointMM(8, 8),
				model.NewPointMM(8, 30),
				model.NewPointMM(0, 30),
			},
			Holes: model.Polygons{
				circleMM(4, 20, 2, 48),
			},
		}),
		"frame": model.NewSurface("frame", model.ExPolygon{
			Contour: model.RectangleMM(0, 0, 40, 40),
			Holes:   model.Polygons{hole},
		}),
		"triangle": model.NewSurface("triangle", model.ExPolygon{
			Contour: model.Polygon{
				model.NewPointMM(0, 0),
				model.NewPointMM(40, 10),
				model.NewPointMM(0, 20),
			},
		}),
		"disc": model.NewSurface("disc", model.ExPolygon{
			Contour: circleMM(0, 0, 12, 96),
		}),
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	settings := model.DefaultPrintSettings()

	_, err := New(defaultTestParams(), nil)
	assert.ErrorIs(t, err, ErrNoPrintSettings)

	p := defaultTestParams()
	p.Spacing = 0
	_, err = New(p, &settings)
	assert.ErrorIs(t, err, ErrInvalidSpacing)

	p = defaultTestParams()
	p.Overlap = p.Spacing
	_, err = New(p, &settings)
	assert.Error(t, err)

	f, err := New(defaultTestParams(), &settings)
	require.NoError(t, err)
	assert.Equal(t, defaultTestParams(), f.Params())
}

func TestRotationRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pg := make(model.Polygon, 500)
	for i := range pg {
		pg[i] = model.Point{
			X: model.Coord(rng.Int63n(4e8) - 2e8),
			Y: model.Coord(rng.Int63n(4e8) - 2e8),
		}
	}
	for _, deg := range []float64{0, 15, 45, 90, 127.3, 180, 271} {
		angle := model.DegToRad(deg)
		ps := model.Polygons{pg}.Clone()
		ps.Rotate(alignAngle(angle))
		paths := model.ThickPolylines{{Points: ps[0], Width: make([]model.Coord, len(ps[0]))}}
		restorePaths(paths, angle)

		for i, p := range paths[0].Points {
			assert.LessOrEqual(t, absCoord(p.X-pg[i].X), model.Coord(1), "angle %v point %d", deg, i)
			assert.LessOrEqual(t, absCoord(p.Y-pg[i].Y), model.Coord(1), "angle %v point %d", deg, i)
		}
	}
}

func TestResultRestoredMatchesSurfaceFrame(t *testing.T) {
	params := defaultTestParams()
	params.Angle = math.Pi / 6
	surface := testSurfaces()["frame"]

	res, err := newTestFiller(t, params).FillDetailed(surface)
	require.NoError(t, err)

	require.NotEmpty(t, res.Sections)
	require.Greater(t, res.Primary, 0)

	area, reconstructed, gaps := res.Restored()
	require.NotEmpty(t, reconstructed)
	want := surface.Area.Contour.BoundingBox()
	got := area.BoundingBox()
	assert.LessOrEqual(t, absCoord(got.Min.X-want.Min.X), model.Coord(2))
	assert.LessOrEqual(t, absCoord(got.Max.Y-want.Max.Y), model.Coord(2))

	// everything restored stays within the surface, up to rounding
	want.Offset(model.Scale(0.01))
	for _, ring := range append(reconstructed, gaps.Polygons()...) {
		for _, p := range ring {
			assert.True(t, want.Contains(p), "%v outside %v", p, want)
		}
	}
	for _, tp := range res.Paths {
		for _, p := range tp.Points {
			assert.True(t, want.Contains(p), "%v outside %v", p, want)
		}
	}
}

func absCoord(v model.Coord) model.Coord {
	if v < 0 {
		return -v
	}
	return v
}

func TestFillRectangle(t *testing.T) {
	f := newTestFiller(t, defaultTestParams())
	surface := testSurfaces()["rectangle"]

	res, err := f.FillDetailed(surface)
	require.NoError(t, err)

	spacing := model.Scale(0.5)
	require.NotEmpty(t, res.Sections)
	assert.Zero(t, res.Removed)

	// the first scanline lies on the shrunk boundary and finds nothing
	assert.Empty(t, res.Sections[0])
	for i := 1; i < len(res.Sections); i++ {
		require.Len(t, res.Sections[i], 1, "scanline %d", i)
		sec := res.Sections[i][0]
		assert.Equal(t, model.Scale(0.25)+model.Coord(i)*spacing, sec.A.X)
		assert.InDelta(t, 0.25, model.Unscale(sec.A.Y), 1e-6)
		assert.InDelta(t, 9.75, model.Unscale(sec.B.Y), 1e-6)
	}

	// the scanline strokes are chained into one zig-zag path, one stroke
	// per scanline, all at the nominal spacing
	require.Equal(t, 1, res.Primary)
	primary := res.Paths[0]
	assert.Len(t, primary.Points, 2*(len(res.Sections)-1))
	assert.Equal(t, [2]bool{true, true}, primary.Endpoints)
	for k := 0; k+1 < len(primary.Points); k += 2 {
		assert.Equal(t, primary.Points[k].X, primary.Points[k+1].X, "stroke %d is vertical", k/2)
	}
	for _, w := range primary.Width {
		assert.Equal(t, spacing, w)
	}
}

func TestFillSectionsInvariants(t *testing.T) {
	for name, surface := range testSurfaces() {
		for _, deg := range []float64{90, 45, 30, 0} {
			params := defaultTestParams()
			params.Angle = model.DegToRad(deg)
			f := newTestFiller(t, params)

			res, err := f.FillDetailed(surface)
			require.NoError(t, err, name)

			for i, column := range res.Sections {
				for k, sec := range column {
					assert.False(t, sec.Degenerate(), "%s@%v: scanline %d section %d is empty", name, deg, i, k)
					assert.Less(t, sec.A.Y, sec.B.Y)
					if k > 0 {
						assert.False(t, yOverlap(column[k-1], sec),
							"%s@%v: scanline %d sections %d and %d overlap", name, deg, i, k-1, k)
					}
				}
			}
		}
	}
}

func TestFillPathsAreValid(t *testing.T) {
	for name, surface := range testSurfaces() {
		for _, deg := range []float64{90, 45, 30} {
			params := defaultTestParams()
			params.Angle = model.DegToRad(deg)
			f := newTestFiller(t, params)

			paths, err := f.Fill(surface)
			require.NoError(t, err, name)
			require.NotEmpty(t, paths, name)

			for i, tp := range paths {
				assert.GreaterOrEqual(t, len(tp.Points), 2, "%s@%v path %d", name, deg, i)
				assert.Equal(t, len(tp.Points), len(tp.Width), "%s@%v path %d", name, deg, i)
				assert.Greater(t, tp.Length(), 0.0, "%s@%v path %d", name, deg, i)
			}
		}
	}
}

func TestFillCoversArea(t *testing.T) {
	for name, surface := range testSurfaces() {
		params := defaultTestParams()
		params.Angle = model.DegToRad(45)
		f := newTestFiller(t, params)

		res, err := f.FillDetailed(surface)
		require.NoError(t, err, name)

		covered := polyops.Union(append(res.Reconstructed.Clone(), polyops.NormalizeAll(res.Gaps)...))
		residue := polyops.Diff(res.Area, covered)
		// whatever is left uncovered must be thinner than the gap opening
		thick := polyops.Opening(residue, 1.05*gapOpeningRatio*float64(model.Scale(params.Spacing)))
		assert.Less(t, math.Abs(thick.Area()), 0.005*math.Abs(res.Area.Area()), name)
	}
}

func TestFillNarrowFeatureIsOpenedAway(t *testing.T) {
	surface := model.NewSurface("tongue", model.ExPolygon{
		Contour: polyops.Union(model.Polygons{
			model.RectangleMM(0, 0, 20, 20),
			model.RectangleMM(20, 9.5, 30, 10.5),
		})[0],
	})
	f := newTestFiller(t, defaultTestParams())

	res, err := f.FillDetailed(surface)
	require.NoError(t, err)

	limit := model.Scale(20)
	for i, column := range res.Sections {
		for _, sec := range column {
			assert.LessOrEqual(t, sec.A.X, limit, "scanline %d reaches into the tongue", i)
		}
	}

	// the tongue is still printed, by the gap filler
	var inTongue bool
	for _, tp := range res.Paths[res.Primary:] {
		for _, p := range tp.Points {
			if p.X > model.Scale(21) {
				inTongue = true
			}
		}
	}
	assert.True(t, inTongue)
}

func TestFillSliverUsesSingleWallLoop(t *testing.T) {
	surface := model.NewSurface("sliver", model.ExPolygon{
		Contour: model.RectangleMM(0, 0, 10, 0.4),
	})
	params := defaultTestParams()
	params.Spacing = 0.45
	params.Angle = math.Pi / 4
	f := newTestFiller(t, params)

	res, err := f.FillDetailed(surface)
	require.NoError(t, err)

	var sections int
	for _, column := range res.Sections {
		sections += len(column)
	}
	assert.Zero(t, sections)
	assert.Zero(t, res.Primary)
	require.Len(t, res.Gaps, 1)
	require.Len(t, res.Paths, 1)
	assert.Greater(t, model.Unscale(model.Coord(res.Paths[0].Length())), 15.0)
}

func TestFillEmptySurface(t *testing.T) {
	f := newTestFiller(t, defaultTestParams())
	paths, err := f.Fill(model.Surface{})
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestNoiseFilterIdempotentOnFillOutput(t *testing.T) {
	for name, surface := range testSurfaces() {
		params := defaultTestParams()
		params.Angle = model.DegToRad(30)
		f := newTestFiller(t, params)

		res, err := f.FillDetailed(surface)
		require.NoError(t, err, name)
		assert.Zero(t, DefaultNoiseFilter().Apply(res.Sections), name)
	}
}

type recordingSink struct {
	mu            sync.Mutex
	keys          []string
	reconstructed []int
	fail          bool
}

func (s *recordingSink) Surface(key string, area, reconstructed model.Polygons, gaps model.ExPolygons, paths model.ThickPolylines) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, key)
	s.reconstructed = append(s.reconstructed, len(reconstructed))
	if s.fail {
		return errors.New("disk full")
	}
	return nil
}

func TestFillReportsToDebugSink(t *testing.T) {
	sink := &recordingSink{}
	f := newTestFiller(t, defaultTestParams(), WithDebugSink(sink))
	surface := testSurfaces()["frame"]

	_, err := f.Fill(surface)
	require.NoError(t, err)
	assert.Equal(t, []string{surface.DebugKey()}, sink.keys)
	require.Len(t, sink.reconstructed, 1)
	assert.Greater(t, sink.reconstructed[0], 0)

	// sink failures never fail the fill
	sink.fail = true
	paths, err := f.Fill(surface)
	require.NoError(t, err)
	assert.NotEmpty(t, paths)
}

func TestFillSurfacesKeepsOrder(t *testing.T) {
	f := newTestFiller(t, defaultTestParams())
	all := testSurfaces()
	surfaces := []model.Surface{all["rectangle"], all["disc"], all["frame"], all["triangle"]}

	got, err := f.FillSurfaces(context.Background(), surfaces, 3)
	require.NoError(t, err)
	require.Len(t, got, len(surfaces))
	for i, s := range surfaces {
		want, err := f.Fill(s)
		require.NoError(t, err)
		assert.Equal(t, want, got[i], "surface %d", i)
	}
}

func TestFillSurfacesHonoursCancellation(t *testing.T) {
	f := newTestFiller(t, defaultTestParams())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.FillSurfaces(ctx, []model.Surface{testSurfaces()["disc"]}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFillSurfacesDetailedMatchesFillDetailed(t *testing.T) {
	f := newTestFiller(t, defaultTestParams())
	all := testSurfaces()
	surfaces := []model.Surface{all["frame"], all["rectangle"]}

	got, err := f.FillSurfacesDetailed(context.Background(), surfaces, 2)
	require.NoError(t, err)
	require.Len(t, got, len(surfaces))
	for i, s := range surfaces {
		want, err := f.FillDetailed(s)
		require.NoError(t, err)
		assert.Equal(t, want.Paths, got[i].Paths, "surface %d", i)
		assert.Equal(t, want.Primary, got[i].Primary, "surface %d", i)
		assert.Len(t, got[i].Gaps, len(want.Gaps), "surface %d", i)
	}
}

func TestFrameBandIsScanned(t *testing.T) {
	surface := testSurfaces()["frame"]
	res, err := newTestFiller(t, defaultTestParams()).FillDetailed(surface)
	require.NoError(t, err)

	scanned := 0
	for _, col := range res.Sections {
		scanned += len(col)
	}
	assert.Greater(t, scanned, 0)
	assert.Greater(t, res.Primary, 0)
	// the scanned band leaves only boundary slivers to the gap filler
	assert.Less(t, res.Gaps.Area(), 0.5*surface.Area.Area())
}

func TestNarrowFrameIsLeftToGapFiller(t *testing.T) {
	hole := model.RectangleMM(10, 10, 15, 15)
	hole.Reverse()
	narrow := model.NewSurface("narrow frame", model.ExPolygon{
		Contour: model.RectangleMM(5, 5, 20, 20),
		Holes:   model.Polygons{hole},
	})

	res, err := newTestFiller(t, defaultTestParams()).FillDetailed(narrow)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Primary)
	assert.NotEmpty(t, res.Gaps)
	assert.NotEmpty(t, res.Paths)
}
