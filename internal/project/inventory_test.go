package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/ensurefill/internal/model"
	"gopkg.in/yaml.v3"
)

func TestDefaultInventoryPath(t *testing.T) {
	path, err := DefaultInventoryPath()
	if err != nil {
		t.Fatalf("DefaultInventoryPath failed: %v", err)
	}
	if filepath.Base(path) != "inventory.yaml" {
		t.Errorf("expected inventory.yaml, got %s", filepath.Base(path))
	}
	if !strings.Contains(path, ".ensurefill") {
		t.Errorf("expected path under .ensurefill, got %s", path)
	}
}

func TestSaveAndLoadInventory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")

	inv := model.Inventory{
		Nozzles: []model.NozzlePreset{
			{ID: "n1", Name: "Test Nozzle", Diameter: 0.5, MinBeadWidth: 80, MinFeatureSize: 20, LineWidth: 0.55},
		},
		Filaments: []model.FilamentPreset{
			{ID: "f1", Name: "Test PLA", Material: "PLA", Diameter: 1.75, ExtrusionMultiplier: 0.98, InfillSpeed: 45, RetractLen: 0.6},
		},
	}

	if err := SaveInventory(path, inv); err != nil {
		t.Fatalf("SaveInventory failed: %v", err)
	}

	loaded, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}

	if len(loaded.Nozzles) != 1 || loaded.Nozzles[0].LineWidth != 0.55 {
		t.Errorf("expected nozzle with line width 0.55, got %+v", loaded.Nozzles)
	}
	if len(loaded.Filaments) != 1 || loaded.Filaments[0].ExtrusionMultiplier != 0.98 {
		t.Errorf("expected filament with multiplier 0.98, got %+v", loaded.Filaments)
	}
}

func TestLoadInventoryCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "inventory.yaml")

	inv, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}

	defaults := model.DefaultInventory()
	if len(inv.Nozzles) != len(defaults.Nozzles) {
		t.Errorf("expected %d default nozzles, got %d", len(defaults.Nozzles), len(inv.Nozzles))
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("expected default inventory to be saved")
	}

	// a second load reads the saved file back
	again, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("second LoadInventory failed: %v", err)
	}
	if again.Nozzles[0].ID != inv.Nozzles[0].ID {
		t.Errorf("expected stable IDs, got %s and %s", inv.Nozzles[0].ID, again.Nozzles[0].ID)
	}
}

func TestImportInventory(t *testing.T) {
	existing := model.Inventory{
		Nozzles: []model.NozzlePreset{
			{ID: "noz-001", Name: "Existing 0.4", Diameter: 0.4},
		},
		Filaments: []model.FilamentPreset{
			{ID: "fil-001", Name: "Existing PLA", Material: "PLA", Diameter: 1.75},
		},
	}

	imported := model.Inventory{
		Nozzles: []model.NozzlePreset{
			{ID: "noz-001", Name: "Duplicate 0.4", Diameter: 0.4},
			{ID: "noz-002", Name: "New 0.6", Diameter: 0.6},
		},
		Filaments: []model.FilamentPreset{
			{ID: "fil-002", Name: "New PETG", Material: "PETG", Diameter: 1.75},
		},
	}

	importPath := filepath.Join(t.TempDir(), "import.yaml")
	data, err := yaml.Marshal(imported)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(importPath, data, 0644); err != nil {
		t.Fatalf("failed to write import file: %v", err)
	}

	merged, err := ImportInventory(importPath, existing)
	if err != nil {
		t.Fatalf("ImportInventory failed: %v", err)
	}

	if len(merged.Nozzles) != 2 {
		t.Errorf("expected 2 nozzles after merge, got %d", len(merged.Nozzles))
	}
	if merged.Nozzles[0].Name != "Existing 0.4" {
		t.Errorf("expected first nozzle to be 'Existing 0.4', got %q", merged.Nozzles[0].Name)
	}
	if merged.Nozzles[1].Name != "New 0.6" {
		t.Errorf("expected second nozzle to be 'New 0.6', got %q", merged.Nozzles[1].Name)
	}
	if len(merged.Filaments) != 2 {
		t.Errorf("expected 2 filaments after merge, got %d", len(merged.Filaments))
	}
}

func TestImportInventoryMissingFile(t *testing.T) {
	existing := model.DefaultInventory()
	merged, err := ImportInventory(filepath.Join(t.TempDir(), "nope.json"), existing)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if len(merged.Nozzles) != len(existing.Nozzles) {
		t.Error("expected existing inventory to be returned unchanged")
	}
}
