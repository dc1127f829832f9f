package model

import (
	"math"
	"testing"
)

func TestNozzlePresetApplyToSettings(t *testing.T) {
	np := NewNozzlePreset("0.6mm", 0.6, 0.68)
	settings := DefaultPrintSettings()
	params := DefaultFillParams()
	params.Density = 0.5

	np.ApplyToSettings(&settings, &params)

	if settings.NozzleDiameter != 0.6 {
		t.Errorf("expected nozzle 0.6, got %f", settings.NozzleDiameter)
	}
	if math.Abs(settings.MinBeadWidthMM()-0.51) > 1e-9 {
		t.Errorf("expected min bead 0.51mm, got %f", settings.MinBeadWidthMM())
	}
	if math.Abs(params.Spacing-1.36) > 1e-9 {
		t.Errorf("expected spacing 1.36 at half density, got %f", params.Spacing)
	}
}

func TestNozzlePresetWithoutLineWidthKeepsSpacing(t *testing.T) {
	np := NozzlePreset{Diameter: 0.4}
	settings := DefaultPrintSettings()
	params := DefaultFillParams()
	want := params.Spacing

	np.ApplyToSettings(&settings, &params)
	if params.Spacing != want {
		t.Errorf("expected spacing unchanged %f, got %f", want, params.Spacing)
	}
}

func TestFilamentPresetApplyToSettings(t *testing.T) {
	fp := NewFilamentPreset("PETG", "PETG", 1.75, 0.95, 50, 1.0)
	settings := DefaultPrintSettings()
	motion := DefaultMotionSettings()

	fp.ApplyToSettings(&settings, &motion)

	if settings.ExtrusionMultiplier != 0.95 {
		t.Errorf("expected multiplier 0.95, got %f", settings.ExtrusionMultiplier)
	}
	if motion.InfillSpeed != 50 || motion.RetractLen != 1.0 {
		t.Errorf("expected speed 50 and retract 1.0, got %f and %f", motion.InfillSpeed, motion.RetractLen)
	}
}

func TestInventoryFind(t *testing.T) {
	inv := DefaultInventory()

	nozzle := inv.FindNozzleByName("0.4mm Brass")
	if nozzle == nil {
		t.Fatal("expected to find '0.4mm Brass'")
	}
	if inv.FindNozzleByID(nozzle.ID) != nozzle {
		t.Error("expected lookup by ID to return the same preset")
	}
	if inv.FindNozzleByName("missing") != nil {
		t.Error("expected nil for nonexistent nozzle")
	}

	filament := inv.FindFilamentByName("Generic PLA")
	if filament == nil {
		t.Fatal("expected to find 'Generic PLA'")
	}
	if inv.FindFilamentByID(filament.ID) != filament {
		t.Error("expected lookup by ID to return the same preset")
	}
	if inv.FindFilamentByID("missing") != nil {
		t.Error("expected nil for nonexistent filament")
	}

	if len(inv.NozzleNames()) != len(inv.Nozzles) || len(inv.FilamentNames()) != len(inv.Filaments) {
		t.Error("expected one name per preset")
	}
}
