package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/ensurefill/internal/model"
	"github.com/piwi3910/ensurefill/internal/polyops"
	"github.com/piwi3910/ensurefill/internal/walls"
)

var (
	// ErrNoPrintSettings is returned when no print settings are supplied.
	ErrNoPrintSettings = errors.New("print settings are required")
	// ErrInvalidSpacing is returned when the line spacing is not positive.
	ErrInvalidSpacing = errors.New("spacing must be positive")
)

// DebugSink receives the intermediate geometry of every filled surface.
// All geometry is in the aligned frame, where scanlines are vertical.
// Implementations must be safe for concurrent use when FillSurfaces runs
// with more than one worker.
type DebugSink interface {
	Surface(key string, area, reconstructed model.Polygons, gaps model.ExPolygons, paths model.ThickPolylines) error
}

// Option configures a Filler.
type Option func(*Filler)

// WithWalls replaces the wall generator used for the gaps.
func WithWalls(g walls.WallGenerator) Option {
	return func(f *Filler) { f.walls = g }
}

// WithDebugSink installs a sink that receives intermediate geometry.
func WithDebugSink(s DebugSink) Option {
	return func(f *Filler) { f.debug = s }
}

// WithNoiseFilter overrides the default noise filter tuning.
func WithNoiseFilter(nf NoiseFilter) Option {
	return func(f *Filler) { f.noise = nf }
}

// Filler computes ensuring infill for single regions. It holds no state
// between calls and is safe for concurrent use.
type Filler struct {
	params   model.FillParams
	settings *model.PrintSettings
	walls    walls.WallGenerator
	debug    DebugSink
	noise    NoiseFilter
}

// New validates the parameters and returns a Filler. settings is consumed
// only by the wall generator but is required.
func New(params model.FillParams, settings *model.PrintSettings, opts ...Option) (*Filler, error) {
	if settings == nil {
		return nil, ErrNoPrintSettings
	}
	if params.Spacing <= 0 {
		return nil, fmt.Errorf("%w, got %g", ErrInvalidSpacing, params.Spacing)
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fill params: %w", err)
	}
	f := &Filler{
		params:   params,
		settings: settings,
		walls:    walls.Concentric{},
		noise:    DefaultNoiseFilter(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Params returns the fill parameters the Filler was built with.
func (f *Filler) Params() model.FillParams {
	return f.params
}

// Result holds the fill paths together with the intermediate stages.
// Everything but Paths is in the aligned frame.
type Result struct {
	Paths         model.ThickPolylines
	Area          model.Polygons // area rotated into the aligned frame
	Sections      [][]model.Line // per scanline, after noise filtering
	Removed       int            // sections removed as noise
	Reconstructed model.Polygons
	Gaps          model.ExPolygons
	Primary       int // number of paths traced from sections, the rest fill gaps
	Angle         float64
}

// Fill returns the toolpaths covering surface, in travel order.
func (f *Filler) Fill(surface model.Surface) (model.ThickPolylines, error) {
	res, err := f.FillDetailed(surface)
	if err != nil {
		return nil, err
	}
	return res.Paths, nil
}

// FillDetailed runs the pipeline and keeps every intermediate stage.
func (f *Filler) FillDetailed(surface model.Surface) (*Result, error) {
	log := Logger()
	res := &Result{Angle: f.params.Angle}
	if len(surface.Area.Contour) < 3 {
		return res, nil
	}

	spacing := model.Scale(f.params.Spacing)
	area := alignArea(surface.Area, f.params.Angle)
	res.Area = area

	internal := polyops.Shrink(area, 0.5*float64(spacing)-float64(model.Scale(f.params.Overlap)))
	opened := polyops.Opening(internal, float64(model.Scale(NarrowInfillAreaThreshold)))
	res.Sections = buildSections(internal, opened, spacing)
	res.Removed = f.noise.Apply(res.Sections)
	log.Debug("sections built",
		"surface", surface.ID,
		"scanlines", len(res.Sections),
		"removed", res.Removed)

	polys, paths := reconstruct(res.Sections, spacing)
	res.Reconstructed = polyops.Closing(polys, float64(model.ScaledEpsilon))
	res.Primary = len(paths)
	log.Debug("sections reconstructed",
		"surface", surface.ID,
		"polygons", len(res.Reconstructed),
		"paths", len(paths))

	res.Gaps = findGaps(area, res.Reconstructed, spacing, f.params.Overlap)
	paths = f.fillGaps(res.Gaps, spacing, paths)
	log.Debug("gaps filled",
		"surface", surface.ID,
		"gaps", len(res.Gaps),
		"paths", len(paths)-res.Primary)

	if f.debug != nil {
		if err := f.debug.Surface(surface.DebugKey(), area, res.Reconstructed, res.Gaps, paths); err != nil {
			log.Warn("debug sink failed", "surface", surface.ID, "err", err)
		}
	}

	restorePaths(paths, f.params.Angle)
	res.Paths = paths
	log.Info("surface filled",
		"surface", surface.ID,
		"paths", len(paths),
		"length_mm", model.Unscale(model.Coord(paths.TotalLength())))
	return res, nil
}

// FillSurfaces fills independent surfaces in parallel. At most workers
// surfaces are processed at once; zero or less means one per CPU. Results
// are in input order. The first error cancels the remaining work.
func (f *Filler) FillSurfaces(ctx context.Context, surfaces []model.Surface, workers int) ([]model.ThickPolylines, error) {
	detailed, err := f.FillSurfacesDetailed(ctx, surfaces, workers)
	if err != nil {
		return nil, err
	}
	results := make([]model.ThickPolylines, len(detailed))
	for i, res := range detailed {
		results[i] = res.Paths
	}
	return results, nil
}

// FillSurfacesDetailed is FillSurfaces keeping every intermediate stage.
func (f *Filler) FillSurfacesDetailed(ctx context.Context, surfaces []model.Surface, workers int) ([]*Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := make([]*Result, len(surfaces))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, surface := range surfaces {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := f.FillDetailed(surface)
			if err != nil {
				return fmt.Errorf("failed to fill surface %s: %w", surface.ID, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
