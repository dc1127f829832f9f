package model

import (
	"math"
	"strings"
	"testing"
)

func TestFillParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *FillParams)
		wantErr string
	}{
		{"defaults", func(p *FillParams) {}, ""},
		{"zero spacing", func(p *FillParams) { p.Spacing = 0 }, "spacing"},
		{"nan spacing", func(p *FillParams) { p.Spacing = math.NaN() }, "spacing"},
		{"negative overlap", func(p *FillParams) { p.Overlap = -0.1 }, "overlap"},
		{"overlap at half spacing", func(p *FillParams) { p.Overlap = p.Spacing / 2 }, "overlap"},
		{"negative clipping", func(p *FillParams) { p.LoopClipping = -1 }, "loop clipping"},
		{"zero layer height", func(p *FillParams) { p.LayerHeight = 0 }, "layer height"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultFillParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSpacingForDensity(t *testing.T) {
	if got := SpacingForDensity(0.45, 1); got != 0.45 {
		t.Errorf("expected 0.45 at full density, got %f", got)
	}
	if got := SpacingForDensity(0.45, 2); got != 0.45 {
		t.Errorf("expected density clamped to 1, got %f", got)
	}
	if got := SpacingForDensity(0.4, 0.5); math.Abs(got-0.8) > 1e-12 {
		t.Errorf("expected 0.8 at half density, got %f", got)
	}
	if got := SpacingForDensity(0.4, 0); got != 0 {
		t.Errorf("expected 0 for zero density, got %f", got)
	}
}

func TestPrintSettingsDerived(t *testing.T) {
	s := DefaultPrintSettings()
	if math.Abs(s.MinBeadWidthMM()-0.34) > 1e-12 {
		t.Errorf("expected min bead 0.34mm, got %f", s.MinBeadWidthMM())
	}
	if math.Abs(s.MinFeatureSizeMM()-0.1) > 1e-12 {
		t.Errorf("expected min feature 0.1mm, got %f", s.MinFeatureSizeMM())
	}
	if math.Abs(s.FilamentArea()-2.40528) > 1e-4 {
		t.Errorf("expected filament area ~2.405mm², got %f", s.FilamentArea())
	}
}

func TestSurfaceDebugKey(t *testing.T) {
	s := NewSurface("sq", ExPolygon{Contour: RectangleMM(0, 0, 1, 1)})
	if len(s.ID) != 8 {
		t.Errorf("expected 8 character ID, got %q", s.ID)
	}
	if !strings.HasPrefix(s.DebugKey(), "surface") {
		t.Errorf("expected key to start with surface, got %s", s.DebugKey())
	}
	other := NewSurface("sq", ExPolygon{Contour: RectangleMM(0, 0, 1, 1)})
	if s.DebugKey() != other.DebugKey() {
		t.Error("expected equal areas to share a debug key")
	}
}
