package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default fill settings applied to new jobs
	DefaultAngle        float64 `json:"default_angle" yaml:"default_angle"` // degrees
	DefaultSpacing      float64 `json:"default_spacing" yaml:"default_spacing"`
	DefaultOverlap      float64 `json:"default_overlap" yaml:"default_overlap"`
	DefaultLoopClipping float64 `json:"default_loop_clipping" yaml:"default_loop_clipping"`
	DefaultLayerHeight  float64 `json:"default_layer_height" yaml:"default_layer_height"`
	DefaultGCodeProfile string  `json:"default_gcode_profile" yaml:"default_gcode_profile"`

	Print  PrintSettings  `json:"print" yaml:"print"`
	Motion MotionSettings `json:"motion" yaml:"motion"`

	// Application preferences
	LogLevel    string   `json:"log_level" yaml:"log_level"` // "debug", "info", "warn", "error"
	DebugDir    string   `json:"debug_dir" yaml:"debug_dir"` // empty disables debug output
	Workers     int      `json:"workers" yaml:"workers"`     // parallel regions, 0 = one per CPU
	RecentFiles []string `json:"recent_files" yaml:"recent_files"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultFillParams().
func DefaultAppConfig() AppConfig {
	defaults := DefaultFillParams()
	return AppConfig{
		DefaultAngle:        RadToDeg(defaults.Angle),
		DefaultSpacing:      defaults.Spacing,
		DefaultOverlap:      defaults.Overlap,
		DefaultLoopClipping: defaults.LoopClipping,
		DefaultLayerHeight:  defaults.LayerHeight,
		DefaultGCodeProfile: DefaultMotionSettings().GCodeProfile,
		Print:               DefaultPrintSettings(),
		Motion:              DefaultMotionSettings(),
		LogLevel:            "info",
		RecentFiles:         []string{},
	}
}

// ApplyToParams copies the default values from AppConfig into FillParams.
// This is used when creating a new job so it inherits the user's saved defaults.
func (c AppConfig) ApplyToParams(p *FillParams) {
	p.Angle = DegToRad(c.DefaultAngle)
	p.Spacing = c.DefaultSpacing
	p.Overlap = c.DefaultOverlap
	p.LoopClipping = c.DefaultLoopClipping
	p.LayerHeight = c.DefaultLayerHeight
}

// ApplyToJob copies defaults, print and motion settings into a job.
func (c AppConfig) ApplyToJob(j *Job) {
	c.ApplyToParams(&j.Params)
	j.Print = c.Print
	j.Motion = c.Motion
	if c.DefaultGCodeProfile != "" {
		j.Motion.GCodeProfile = c.DefaultGCodeProfile
	}
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * 0.017453292519943295
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 57.29577951308232
}
