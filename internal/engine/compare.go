package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/ensurefill/internal/model"
)

// ComparisonScenario defines a named set of fill parameters to compare.
type ComparisonScenario struct {
	Name   string
	Params model.FillParams
}

// ComparisonResult holds the fill result and computed statistics for a
// single scenario.
type ComparisonResult struct {
	Scenario    ComparisonScenario
	Result      *Result
	Err         error
	PathCount   int
	GapPaths    int
	TotalLength float64 // mm
	// UncoveredPercent is the share of the area left to the gap filler.
	UncoveredPercent float64
}

// CompareScenarios fills the surface once per scenario and returns the
// results in scenario order. This shows side by side how angle, spacing or
// overlap changes affect the toolpaths of a region.
func CompareScenarios(scenarios []ComparisonScenario, surface model.Surface, settings *model.PrintSettings, opts ...Option) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		cr := ComparisonResult{Scenario: scenario}
		f, err := New(scenario.Params, settings, opts...)
		if err != nil {
			cr.Err = err
			results = append(results, cr)
			continue
		}
		res, err := f.FillDetailed(surface)
		if err != nil {
			cr.Err = err
			results = append(results, cr)
			continue
		}

		cr.Result = res
		cr.PathCount = len(res.Paths)
		cr.GapPaths = len(res.Paths) - res.Primary
		cr.TotalLength = model.Unscale(model.Coord(res.Paths.TotalLength()))
		if area := math.Abs(surface.Area.Area()); area > 0 {
			cr.UncoveredPercent = 100 * res.Gaps.Area() / area
		}
		results = append(results, cr)
	}

	return results
}

// BuildDefaultScenarios generates comparison scenarios around the base
// parameters, varying the fill angle and spacing.
func BuildDefaultScenarios(base model.FillParams) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:   "Current Settings",
			Params: base,
		},
	}

	// Scenario: perpendicular direction
	perp := base
	perp.Angle = math.Mod(base.Angle+math.Pi/2, math.Pi)
	scenarios = append(scenarios, ComparisonScenario{
		Name:   fmt.Sprintf("Angle %.0f°", model.RadToDeg(perp.Angle)),
		Params: perp,
	})

	// Scenario: axis aligned, unless that is already the base
	if math.Mod(base.Angle, math.Pi/2) != 0 {
		axis := base
		axis.Angle = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:   "Angle 0°",
			Params: axis,
		})
	}

	// Scenario: 10% wider spacing
	wide := base
	wide.Spacing = base.Spacing * 1.1
	scenarios = append(scenarios, ComparisonScenario{
		Name:   fmt.Sprintf("Spacing %.3fmm", wide.Spacing),
		Params: wide,
	})

	// Scenario: no overlap
	if base.Overlap > 0 {
		noOverlap := base
		noOverlap.Overlap = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:   "No Overlap",
			Params: noOverlap,
		})
	}

	return scenarios
}
