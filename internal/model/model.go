package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Surface is a single fillable region of a slice.
type Surface struct {
	ID   string    `json:"id" yaml:"id"`
	Name string    `json:"name,omitempty" yaml:"name,omitempty"`
	Area ExPolygon `json:"area" yaml:"area"`
}

func NewSurface(name string, area ExPolygon) Surface {
	return Surface{
		ID:   uuid.New().String()[:8],
		Name: name,
		Area: area,
	}
}

// DebugKey is the area-derived identifier used to name debug artifacts.
func (s Surface) DebugKey() string {
	return fmt.Sprintf("surface%.0f", s.Area.Area())
}

// FillParams holds the per-call fill configuration. Lengths are in mm,
// the angle is in radians.
type FillParams struct {
	Angle        float64 `json:"angle" yaml:"angle"`                 // Fill direction, radians from the X axis
	Spacing      float64 `json:"spacing" yaml:"spacing"`             // Line-to-line pitch mm
	Overlap      float64 `json:"overlap" yaml:"overlap"`             // Overlap trim with the perimeters mm
	LoopClipping float64 `json:"loop_clipping" yaml:"loop_clipping"` // Length clipped off each gap-fill path tail mm
	LayerHeight  float64 `json:"layer_height" yaml:"layer_height"`   // Current layer height mm
	Density      float64 `json:"density" yaml:"density"`             // Fill density 0..1, informational once Spacing is set
}

// DefaultFillParams returns parameters for a 0.4mm nozzle at full density.
func DefaultFillParams() FillParams {
	return FillParams{
		Angle:        math.Pi / 4,
		Spacing:      0.45,
		Overlap:      0.0,
		LoopClipping: 0.06,
		LayerHeight:  0.2,
		Density:      1.0,
	}
}

// Validate checks the parameters that the fill pipeline cannot recover from.
func (p FillParams) Validate() error {
	var errs []error
	if p.Spacing <= 0 || math.IsNaN(p.Spacing) {
		errs = append(errs, fmt.Errorf("spacing must be positive, got %g", p.Spacing))
	}
	if p.Overlap < 0 || (p.Spacing > 0 && p.Overlap >= p.Spacing/2) {
		errs = append(errs, fmt.Errorf("overlap must be in [0, spacing/2), got %g", p.Overlap))
	}
	if p.LoopClipping < 0 {
		errs = append(errs, fmt.Errorf("loop clipping must not be negative, got %g", p.LoopClipping))
	}
	if p.LayerHeight <= 0 {
		errs = append(errs, fmt.Errorf("layer height must be positive, got %g", p.LayerHeight))
	}
	return errors.Join(errs...)
}

// SpacingForDensity derives the line pitch from an extrusion width and a
// fill density in (0, 1].
func SpacingForDensity(width, density float64) float64 {
	if density <= 0 {
		return 0
	}
	return width / math.Min(density, 1)
}

// PrintSettings groups the process, material and printer settings read by
// the wall generator and the G-code writer.
type PrintSettings struct {
	NozzleDiameter      float64 `json:"nozzle_diameter" yaml:"nozzle_diameter"`           // mm
	FilamentDiameter    float64 `json:"filament_diameter" yaml:"filament_diameter"`       // mm
	ExtrusionMultiplier float64 `json:"extrusion_multiplier" yaml:"extrusion_multiplier"` // Flow ratio
	MinBeadWidth        float64 `json:"min_bead_width" yaml:"min_bead_width"`             // % of nozzle diameter
	MinFeatureSize      float64 `json:"min_feature_size" yaml:"min_feature_size"`         // % of nozzle diameter
}

func DefaultPrintSettings() PrintSettings {
	return PrintSettings{
		NozzleDiameter:      0.4,
		FilamentDiameter:    1.75,
		ExtrusionMultiplier: 1.0,
		MinBeadWidth:        85,
		MinFeatureSize:      25,
	}
}

// MinBeadWidthMM resolves the percentage setting against the nozzle.
func (s PrintSettings) MinBeadWidthMM() float64 {
	return s.NozzleDiameter * s.MinBeadWidth / 100
}

// MinFeatureSizeMM resolves the percentage setting against the nozzle.
func (s PrintSettings) MinFeatureSizeMM() float64 {
	return s.NozzleDiameter * s.MinFeatureSize / 100
}

// FilamentArea returns the cross-section of the filament in mm².
func (s PrintSettings) FilamentArea() float64 {
	r := s.FilamentDiameter / 2
	return math.Pi * r * r
}

// MotionSettings holds the feed rates used when writing G-code. They come
// from configuration; the fill never chooses them.
type MotionSettings struct {
	TravelSpeed  float64 `json:"travel_speed" yaml:"travel_speed"`     // mm/s
	InfillSpeed  float64 `json:"infill_speed" yaml:"infill_speed"`     // mm/s
	RetractLen   float64 `json:"retract_length" yaml:"retract_length"` // mm of filament
	RetractSpeed float64 `json:"retract_speed" yaml:"retract_speed"`   // mm/s
	ZHop         float64 `json:"z_hop" yaml:"z_hop"`                   // mm
	GCodeProfile string  `json:"gcode_profile" yaml:"gcode_profile"`   // Name of the G-code flavour
}

func DefaultMotionSettings() MotionSettings {
	return MotionSettings{
		TravelSpeed:  150,
		InfillSpeed:  60,
		RetractLen:   0.8,
		RetractSpeed: 35,
		ZHop:         0,
		GCodeProfile: "Generic",
	}
}

// GCodeProfile defines the output dialect for a printer firmware.
type GCodeProfile struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	IsBuiltIn   bool   `json:"-" yaml:"-"`

	StartCode []string `json:"start_code" yaml:"start_code"` // Commands at start of file
	EndCode   []string `json:"end_code" yaml:"end_code"`     // Commands at end of file

	ExtrusionMode string `json:"extrusion_mode" yaml:"extrusion_mode"` // Only RelativeExtrusion is supported
	ResetExtruder string `json:"reset_extruder" yaml:"reset_extruder"` // G92 E0 or equivalent
	RapidMove     string `json:"rapid_move" yaml:"rapid_move"`         // G0 or equivalent
	FeedMove      string `json:"feed_move" yaml:"feed_move"`           // G1 or equivalent

	CommentPrefix string `json:"comment_prefix" yaml:"comment_prefix"`
	CommentSuffix string `json:"comment_suffix" yaml:"comment_suffix"`

	DecimalPlaces   int `json:"decimal_places" yaml:"decimal_places"`     // Coordinate decimals
	ExtrusionPlaces int `json:"extrusion_places" yaml:"extrusion_places"` // E-axis decimals
}

// RelativeExtrusion selects relative E values. The writer emits every E
// word as a delta, so it is the only extrusion mode a profile may declare.
const RelativeExtrusion = "M83"

// Built-in G-code profiles
var GCodeProfiles = []GCodeProfile{
	{
		Name:            "Marlin",
		Description:     "Marlin 2.x firmware",
		IsBuiltIn:       true,
		StartCode:       []string{"G21", "G90"},
		EndCode:         []string{"M107"},
		ExtrusionMode:   RelativeExtrusion,
		ResetExtruder:   "G92 E0",
		RapidMove:       "G0",
		FeedMove:        "G1",
		CommentPrefix:   ";",
		DecimalPlaces:   3,
		ExtrusionPlaces: 5,
	},
	{
		Name:            "Klipper",
		Description:     "Klipper host firmware",
		IsBuiltIn:       true,
		StartCode:       []string{"G21", "G90"},
		EndCode:         []string{},
		ExtrusionMode:   RelativeExtrusion,
		ResetExtruder:   "G92 E0",
		RapidMove:       "G0",
		FeedMove:        "G1",
		CommentPrefix:   ";",
		DecimalPlaces:   3,
		ExtrusionPlaces: 5,
	},
	{
		Name:            "RepRapFirmware",
		Description:     "Duet RepRapFirmware 3",
		IsBuiltIn:       true,
		StartCode:       []string{"G21", "G90"},
		EndCode:         []string{},
		ExtrusionMode:   RelativeExtrusion,
		ResetExtruder:   "G92 E0",
		RapidMove:       "G0",
		FeedMove:        "G1",
		CommentPrefix:   ";",
		DecimalPlaces:   3,
		ExtrusionPlaces: 5,
	},
	{
		Name:            "Generic",
		Description:     "Generic RepRap G-code",
		IsBuiltIn:       true,
		StartCode:       []string{"G21", "G90"},
		EndCode:         []string{},
		ExtrusionMode:   RelativeExtrusion,
		ResetExtruder:   "G92 E0",
		RapidMove:       "G0",
		FeedMove:        "G1",
		CommentPrefix:   ";",
		DecimalPlaces:   3,
		ExtrusionPlaces: 5,
	},
}

// Job ties a surface, its settings and an optional result together for
// save/load.
type Job struct {
	ID      string         `json:"id" yaml:"id"`
	Surface Surface        `json:"surface" yaml:"surface"`
	Params  FillParams     `json:"params" yaml:"params"`
	Print   PrintSettings  `json:"print" yaml:"print"`
	Motion  MotionSettings `json:"motion" yaml:"motion"`
	Result  ThickPolylines `json:"result,omitempty" yaml:"result,omitempty"`
}

func NewJob(surface Surface) Job {
	return Job{
		ID:      uuid.New().String()[:8],
		Surface: surface,
		Params:  DefaultFillParams(),
		Print:   DefaultPrintSettings(),
		Motion:  DefaultMotionSettings(),
	}
}
