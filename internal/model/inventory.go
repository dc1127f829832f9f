package model

import "github.com/google/uuid"

// NozzlePreset represents a reusable nozzle configuration.
type NozzlePreset struct {
	ID             string  `json:"id" yaml:"id"`
	Name           string  `json:"name" yaml:"name"`
	Diameter       float64 `json:"diameter" yaml:"diameter"`                 // mm
	MinBeadWidth   float64 `json:"min_bead_width" yaml:"min_bead_width"`     // % of diameter
	MinFeatureSize float64 `json:"min_feature_size" yaml:"min_feature_size"` // % of diameter
	LineWidth      float64 `json:"line_width" yaml:"line_width"`             // mm, default infill spacing
}

// NewNozzlePreset creates a new NozzlePreset with a generated ID and the
// usual 85% / 25% bead limits.
func NewNozzlePreset(name string, diameter, lineWidth float64) NozzlePreset {
	return NozzlePreset{
		ID:             uuid.New().String()[:8],
		Name:           name,
		Diameter:       diameter,
		MinBeadWidth:   85,
		MinFeatureSize: 25,
		LineWidth:      lineWidth,
	}
}

// ApplyToSettings copies this nozzle's parameters into print settings and
// uses its line width as the fill spacing.
func (np NozzlePreset) ApplyToSettings(s *PrintSettings, p *FillParams) {
	s.NozzleDiameter = np.Diameter
	s.MinBeadWidth = np.MinBeadWidth
	s.MinFeatureSize = np.MinFeatureSize
	if np.LineWidth > 0 {
		p.Spacing = SpacingForDensity(np.LineWidth, p.Density)
	}
}

// FilamentPreset represents a reusable material definition.
type FilamentPreset struct {
	ID                  string  `json:"id" yaml:"id"`
	Name                string  `json:"name" yaml:"name"`
	Material            string  `json:"material" yaml:"material"`
	Diameter            float64 `json:"diameter" yaml:"diameter"` // mm
	ExtrusionMultiplier float64 `json:"extrusion_multiplier" yaml:"extrusion_multiplier"`
	InfillSpeed         float64 `json:"infill_speed" yaml:"infill_speed"`     // mm/s
	RetractLen          float64 `json:"retract_length" yaml:"retract_length"` // mm
}

// NewFilamentPreset creates a new FilamentPreset with a generated ID.
func NewFilamentPreset(name, material string, diameter, multiplier, speed, retract float64) FilamentPreset {
	return FilamentPreset{
		ID:                  uuid.New().String()[:8],
		Name:                name,
		Material:            material,
		Diameter:            diameter,
		ExtrusionMultiplier: multiplier,
		InfillSpeed:         speed,
		RetractLen:          retract,
	}
}

// ApplyToSettings copies this filament's parameters into print and motion
// settings.
func (fp FilamentPreset) ApplyToSettings(s *PrintSettings, m *MotionSettings) {
	s.FilamentDiameter = fp.Diameter
	s.ExtrusionMultiplier = fp.ExtrusionMultiplier
	m.InfillSpeed = fp.InfillSpeed
	m.RetractLen = fp.RetractLen
}

// Inventory holds the user's saved nozzle and filament presets.
type Inventory struct {
	Nozzles   []NozzlePreset   `json:"nozzles" yaml:"nozzles"`
	Filaments []FilamentPreset `json:"filaments" yaml:"filaments"`
}

// DefaultInventory returns an inventory populated with common defaults.
func DefaultInventory() Inventory {
	return Inventory{
		Nozzles: []NozzlePreset{
			NewNozzlePreset("0.4mm Brass", 0.4, 0.45),
			NewNozzlePreset("0.25mm Brass", 0.25, 0.27),
			NewNozzlePreset("0.6mm Hardened", 0.6, 0.68),
			NewNozzlePreset("0.8mm Hardened", 0.8, 0.9),
		},
		Filaments: []FilamentPreset{
			NewFilamentPreset("Generic PLA", "PLA", 1.75, 1.0, 60, 0.8),
			NewFilamentPreset("Generic PETG", "PETG", 1.75, 0.95, 50, 1.0),
			NewFilamentPreset("Generic ABS", "ABS", 1.75, 1.0, 60, 0.8),
			NewFilamentPreset("Generic TPU", "TPU", 1.75, 1.05, 25, 0),
			NewFilamentPreset("PLA 2.85mm", "PLA", 2.85, 1.0, 50, 1.5),
		},
	}
}

// FindNozzleByID returns a pointer to the nozzle with the given ID, or nil.
func (inv *Inventory) FindNozzleByID(id string) *NozzlePreset {
	for i := range inv.Nozzles {
		if inv.Nozzles[i].ID == id {
			return &inv.Nozzles[i]
		}
	}
	return nil
}

// FindFilamentByID returns a pointer to the filament with the given ID, or nil.
func (inv *Inventory) FindFilamentByID(id string) *FilamentPreset {
	for i := range inv.Filaments {
		if inv.Filaments[i].ID == id {
			return &inv.Filaments[i]
		}
	}
	return nil
}

// NozzleNames returns the nozzle preset names.
func (inv *Inventory) NozzleNames() []string {
	names := make([]string, len(inv.Nozzles))
	for i, n := range inv.Nozzles {
		names[i] = n.Name
	}
	return names
}

// FilamentNames returns the filament preset names.
func (inv *Inventory) FilamentNames() []string {
	names := make([]string, len(inv.Filaments))
	for i, f := range inv.Filaments {
		names[i] = f.Name
	}
	return names
}

// FindNozzleByName returns a pointer to the first nozzle with the given name, or nil.
func (inv *Inventory) FindNozzleByName(name string) *NozzlePreset {
	for i := range inv.Nozzles {
		if inv.Nozzles[i].Name == name {
			return &inv.Nozzles[i]
		}
	}
	return nil
}

// FindFilamentByName returns a pointer to the first filament with the given name, or nil.
func (inv *Inventory) FindFilamentByName(name string) *FilamentPreset {
	for i := range inv.Filaments {
		if inv.Filaments[i].Name == name {
			return &inv.Filaments[i]
		}
	}
	return nil
}
