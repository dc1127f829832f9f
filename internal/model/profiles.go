package model

import (
	"fmt"
	"strings"
)

// CustomProfiles holds user-defined profiles loaded at startup. They are
// looked up after the built-in ones.
var CustomProfiles []GCodeProfile

// AllProfiles returns the built-in profiles followed by the custom ones.
func AllProfiles() []GCodeProfile {
	all := make([]GCodeProfile, 0, len(GCodeProfiles)+len(CustomProfiles))
	all = append(all, GCodeProfiles...)
	return append(all, CustomProfiles...)
}

// GetProfile returns a G-code profile by name, or the Generic profile if not found.
func GetProfile(name string) GCodeProfile {
	for _, p := range AllProfiles() {
		if p.Name == name {
			return p
		}
	}
	return GCodeProfiles[len(GCodeProfiles)-1] // Return Generic (last one)
}

// GetProfileNames returns a list of all available profile names.
func GetProfileNames() []string {
	var names []string
	for _, p := range AllProfiles() {
		names = append(names, p.Name)
	}
	return names
}

// IsBuiltInProfileName reports whether name is reserved by a built-in profile.
func IsBuiltInProfileName(name string) bool {
	for _, p := range GCodeProfiles {
		if p.Name == name {
			return true
		}
	}
	return false
}

// AddCustomProfile adds a profile or replaces the custom profile with the
// same name. Built-in names are reserved.
func AddCustomProfile(p GCodeProfile) error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	if IsBuiltInProfileName(p.Name) {
		return fmt.Errorf("cannot override built-in profile %q", p.Name)
	}
	if err := checkExtrusionMode(p.ExtrusionMode); err != nil {
		return fmt.Errorf("profile %q: %w", p.Name, err)
	}
	p.IsBuiltIn = false
	for i := range CustomProfiles {
		if CustomProfiles[i].Name == p.Name {
			CustomProfiles[i] = p
			return nil
		}
	}
	CustomProfiles = append(CustomProfiles, p)
	return nil
}

// RemoveCustomProfile deletes a custom profile by name.
func RemoveCustomProfile(name string) error {
	if IsBuiltInProfileName(name) {
		return fmt.Errorf("cannot remove built-in profile %q", name)
	}
	for i := range CustomProfiles {
		if CustomProfiles[i].Name == name {
			CustomProfiles = append(CustomProfiles[:i], CustomProfiles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("profile %q not found", name)
}

// NewCustomProfile returns a copy of the Generic profile under a new name.
func NewCustomProfile(name string) GCodeProfile {
	p := GetProfile("Generic")
	p.Name = name
	p.Description = "Custom profile"
	p.IsBuiltIn = false
	p.StartCode = append([]string(nil), p.StartCode...)
	p.EndCode = append([]string(nil), p.EndCode...)
	return p
}

// Validate checks that the profile can drive the G-code writer: it needs a
// name, both move commands and an extrusion mode the writer honours.
func (p GCodeProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("profile name is required")
	}
	if strings.TrimSpace(p.RapidMove) == "" {
		return fmt.Errorf("profile %q: rapid move command is empty", p.Name)
	}
	if strings.TrimSpace(p.FeedMove) == "" {
		return fmt.Errorf("profile %q: feed move command is empty", p.Name)
	}
	if err := checkExtrusionMode(p.ExtrusionMode); err != nil {
		return fmt.Errorf("profile %q: %w", p.Name, err)
	}
	return nil
}

// An empty mode means the default, relative extrusion.
func checkExtrusionMode(mode string) error {
	mode = strings.ToUpper(strings.TrimSpace(mode))
	if mode == "" || mode == RelativeExtrusion {
		return nil
	}
	if mode == "M82" {
		return fmt.Errorf("absolute extrusion (M82) is not supported, E values are always relative")
	}
	return fmt.Errorf("unknown extrusion mode %q", mode)
}
