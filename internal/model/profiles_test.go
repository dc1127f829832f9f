package model

import (
	"testing"
)

func TestAllProfilesIncludesBuiltInAndCustom(t *testing.T) {
	CustomProfiles = nil

	builtInCount := len(GCodeProfiles)
	all := AllProfiles()
	if len(all) != builtInCount {
		t.Errorf("expected %d profiles with no custom, got %d", builtInCount, len(all))
	}

	CustomProfiles = []GCodeProfile{
		{Name: "Custom1", Description: "Test custom"},
	}
	defer func() { CustomProfiles = nil }()

	all = AllProfiles()
	if len(all) != builtInCount+1 {
		t.Errorf("expected %d profiles with 1 custom, got %d", builtInCount+1, len(all))
	}
}

func TestGetProfileFindsCustom(t *testing.T) {
	CustomProfiles = []GCodeProfile{
		{Name: "MyCustom", Description: "Custom profile", RapidMove: "G0", FeedMove: "G1"},
	}
	defer func() { CustomProfiles = nil }()

	p := GetProfile("MyCustom")
	if p.Name != "MyCustom" {
		t.Errorf("expected MyCustom, got %s", p.Name)
	}
}

func TestGetProfileFallsBackToGeneric(t *testing.T) {
	p := GetProfile("NonExistent")
	if p.Name != "Generic" {
		t.Errorf("expected Generic fallback, got %s", p.Name)
	}
}

func TestGetProfileNamesIncludesCustom(t *testing.T) {
	CustomProfiles = []GCodeProfile{
		{Name: "CustomA"},
		{Name: "CustomB"},
	}
	defer func() { CustomProfiles = nil }()

	found := map[string]bool{}
	for _, n := range GetProfileNames() {
		found[n] = true
	}

	for _, want := range []string{"Marlin", "Klipper", "CustomA", "CustomB"} {
		if !found[want] {
			t.Errorf("missing profile %s", want)
		}
	}
}

func TestAddCustomProfile(t *testing.T) {
	CustomProfiles = nil
	defer func() { CustomProfiles = nil }()

	p := GCodeProfile{Name: "NewProfile", Description: "New", IsBuiltIn: true}
	if err := AddCustomProfile(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(CustomProfiles) != 1 {
		t.Fatalf("expected 1 custom profile, got %d", len(CustomProfiles))
	}
	if CustomProfiles[0].Name != "NewProfile" {
		t.Errorf("expected NewProfile, got %s", CustomProfiles[0].Name)
	}
	if CustomProfiles[0].IsBuiltIn {
		t.Error("custom profile should not be built-in")
	}
}

func TestAddCustomProfileRejectsBuiltInName(t *testing.T) {
	CustomProfiles = nil
	defer func() { CustomProfiles = nil }()

	if err := AddCustomProfile(GCodeProfile{Name: "Marlin"}); err == nil {
		t.Fatal("expected error when adding profile with built-in name")
	}
	if err := AddCustomProfile(GCodeProfile{}); err == nil {
		t.Fatal("expected error when adding profile without name")
	}
}

func TestAddCustomProfileUpdatesExisting(t *testing.T) {
	CustomProfiles = nil
	defer func() { CustomProfiles = nil }()

	_ = AddCustomProfile(GCodeProfile{Name: "MyProfile", Description: "Version 1"})
	_ = AddCustomProfile(GCodeProfile{Name: "MyProfile", Description: "Version 2"})

	if len(CustomProfiles) != 1 {
		t.Fatalf("expected 1 custom profile after update, got %d", len(CustomProfiles))
	}
	if CustomProfiles[0].Description != "Version 2" {
		t.Errorf("expected updated description, got %s", CustomProfiles[0].Description)
	}
}

func TestRemoveCustomProfile(t *testing.T) {
	CustomProfiles = []GCodeProfile{
		{Name: "ToRemove", Description: "Remove me"},
	}
	defer func() { CustomProfiles = nil }()

	if err := RemoveCustomProfile("ToRemove"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(CustomProfiles) != 0 {
		t.Error("profile was not removed")
	}
}

func TestRemoveCustomProfileRejectsBuiltIn(t *testing.T) {
	if err := RemoveCustomProfile("Klipper"); err == nil {
		t.Fatal("expected error when removing built-in profile")
	}
}

func TestRemoveCustomProfileNotFound(t *testing.T) {
	CustomProfiles = nil
	if err := RemoveCustomProfile("NonExistent"); err == nil {
		t.Fatal("expected error when removing non-existent profile")
	}
}

func TestNewCustomProfile(t *testing.T) {
	p := NewCustomProfile("Test Custom")
	if p.Name != "Test Custom" {
		t.Errorf("expected name 'Test Custom', got %s", p.Name)
	}
	if p.IsBuiltIn {
		t.Error("custom profile should not be built-in")
	}
	if p.RapidMove != "G0" {
		t.Errorf("expected G0 rapid move from Generic, got %s", p.RapidMove)
	}

	p.StartCode[0] = "changed"
	if GetProfile("Generic").StartCode[0] == "changed" {
		t.Error("custom profile should not share start code with Generic")
	}
}

func TestBuiltInProfilesMarkedCorrectly(t *testing.T) {
	for _, p := range GCodeProfiles {
		if !p.IsBuiltIn {
			t.Errorf("built-in profile %s should have IsBuiltIn=true", p.Name)
		}
	}
	if GCodeProfiles[len(GCodeProfiles)-1].Name != "Generic" {
		t.Error("Generic must be the last built-in profile")
	}
}

func TestBuiltInProfilesValidate(t *testing.T) {
	for _, p := range GCodeProfiles {
		if err := p.Validate(); err != nil {
			t.Errorf("built-in profile %s: %v", p.Name, err)
		}
	}
}

func TestGCodeProfileValidate(t *testing.T) {
	valid := NewCustomProfile("Mine")

	tests := []struct {
		name   string
		modify func(*GCodeProfile)
		ok     bool
	}{
		{"valid", func(p *GCodeProfile) {}, true},
		{"empty mode defaults to relative", func(p *GCodeProfile) { p.ExtrusionMode = "" }, true},
		{"lower case m83", func(p *GCodeProfile) { p.ExtrusionMode = "m83" }, true},
		{"no name", func(p *GCodeProfile) { p.Name = " " }, false},
		{"no rapid move", func(p *GCodeProfile) { p.RapidMove = "" }, false},
		{"no feed move", func(p *GCodeProfile) { p.FeedMove = "" }, false},
		{"absolute extrusion", func(p *GCodeProfile) { p.ExtrusionMode = "M82" }, false},
		{"unknown mode", func(p *GCodeProfile) { p.ExtrusionMode = "M84" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.modify(&p)
			err := p.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestAddCustomProfileRejectsAbsoluteExtrusion(t *testing.T) {
	CustomProfiles = nil
	defer func() { CustomProfiles = nil }()

	if err := AddCustomProfile(GCodeProfile{Name: "Abs", ExtrusionMode: "M82"}); err == nil {
		t.Fatal("expected error for M82 profile")
	}
	if len(CustomProfiles) != 0 {
		t.Errorf("expected no profiles added, got %d", len(CustomProfiles))
	}
}
