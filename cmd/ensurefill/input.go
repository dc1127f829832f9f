package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/ensurefill/internal/importer"
	"github.com/piwi3910/ensurefill/internal/model"
	"github.com/piwi3910/ensurefill/internal/project"
)

// jobSettings are the flags shared by the commands that fill surfaces.
type jobSettings struct {
	angle        float64 // degrees
	spacing      float64
	density      float64
	overlap      float64
	loopClipping float64
	layerHeight  float64
	nozzle       string
	filament     string
	profile      string
}

func (s *jobSettings) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&s.angle, "angle", 0, "fill angle in degrees")
	f.Float64Var(&s.spacing, "spacing", 0, "line spacing in mm at full density")
	f.Float64Var(&s.density, "density", 1, "fill density in (0, 1]")
	f.Float64Var(&s.overlap, "overlap", 0, "overlap with the perimeters in mm")
	f.Float64Var(&s.loopClipping, "loop-clipping", 0, "length clipped off each gap path in mm")
	f.Float64Var(&s.layerHeight, "layer-height", 0, "layer height in mm")
	f.StringVar(&s.nozzle, "nozzle", "", "nozzle preset name")
	f.StringVar(&s.filament, "filament", "", "filament preset name")
	f.StringVar(&s.profile, "profile", "", "G-code profile name")
}

// apply resolves the job settings in order: config defaults, the loaded
// job (if any), presets, then explicitly set flags.
func (s *jobSettings) apply(cmd *cobra.Command, cfg model.AppConfig, job *model.Job, fromFile bool) error {
	if !fromFile {
		cfg.ApplyToJob(job)
	}

	if s.nozzle != "" || s.filament != "" {
		inv, _, err := project.LoadOrCreateInventory()
		if err != nil {
			return fmt.Errorf("failed to load presets: %w", err)
		}
		if s.nozzle != "" {
			np := inv.FindNozzleByName(s.nozzle)
			if np == nil {
				return fmt.Errorf("unknown nozzle preset %q (have %s)", s.nozzle, strings.Join(inv.NozzleNames(), ", "))
			}
			np.ApplyToSettings(&job.Print, &job.Params)
		}
		if s.filament != "" {
			fp := inv.FindFilamentByName(s.filament)
			if fp == nil {
				return fmt.Errorf("unknown filament preset %q (have %s)", s.filament, strings.Join(inv.FilamentNames(), ", "))
			}
			fp.ApplyToSettings(&job.Print, &job.Motion)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("angle") {
		job.Params.Angle = model.DegToRad(s.angle)
	}
	if flags.Changed("spacing") {
		job.Params.Spacing = s.spacing
	}
	if flags.Changed("density") {
		job.Params.Density = s.density
		job.Params.Spacing = model.SpacingForDensity(job.Params.Spacing, s.density)
	}
	if flags.Changed("overlap") {
		job.Params.Overlap = s.overlap
	}
	if flags.Changed("loop-clipping") {
		job.Params.LoopClipping = s.loopClipping
	}
	if flags.Changed("layer-height") {
		job.Params.LayerHeight = s.layerHeight
	}
	if s.profile != "" {
		job.Motion.GCodeProfile = s.profile
	}
	return job.Params.Validate()
}

func isJobFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// loadInput reads the surfaces to fill. Job files carry their own
// settings, which are returned in job with fromFile set.
func loadInput(path string, log *slog.Logger) (surfaces []model.Surface, job model.Job, fromFile bool, err error) {
	if isJobFile(path) {
		file, err := project.ImportJob(path)
		if err != nil {
			return nil, model.Job{}, false, err
		}
		return []model.Surface{file.Job.Surface}, file.Job, true, nil
	}

	result := importer.ImportFile(path)
	for _, w := range result.Warnings {
		log.Warn(w, "file", path)
	}
	if len(result.Surfaces) == 0 {
		errs := make([]error, 0, len(result.Errors))
		for _, e := range result.Errors {
			errs = append(errs, errors.New(e))
		}
		return nil, model.Job{}, false, fmt.Errorf("failed to import %s: %w", path, errors.Join(errs...))
	}
	for _, e := range result.Errors {
		log.Warn(e, "file", path)
	}
	log.Info("areas imported", "file", path, "surfaces", len(result.Surfaces))
	return result.Surfaces, model.NewJob(model.Surface{}), false, nil
}
