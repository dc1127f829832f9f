package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/piwi3910/ensurefill/internal/engine"
	"github.com/piwi3910/ensurefill/internal/export"
	"github.com/piwi3910/ensurefill/internal/gcode"
	"github.com/piwi3910/ensurefill/internal/model"
	"github.com/piwi3910/ensurefill/internal/project"
)

type fillOutputs struct {
	gcode    string
	pdf      string
	xlsx     string
	dxf      string
	jobsDir  string
	debugDir string
	z        float64
	workers  int
}

func newFillCmd(a *app) *cobra.Command {
	var settings jobSettings
	var out fillOutputs

	cmd := &cobra.Command{
		Use:   "fill INPUT",
		Short: "Fill the areas of a DXF, CSV, XLSX or job file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFill(cmd, args[0], &settings, &out)
		},
	}
	settings.register(cmd)
	f := cmd.Flags()
	f.StringVar(&out.gcode, "gcode", "", "write G-code to this file")
	f.StringVar(&out.pdf, "pdf", "", "write a PDF plot to this file")
	f.StringVar(&out.xlsx, "xlsx", "", "write an XLSX path report to this file")
	f.StringVar(&out.dxf, "dxf", "", "write a DXF drawing to this file")
	f.StringVar(&out.jobsDir, "save-jobs", "", "save one job file per surface into this directory")
	f.StringVar(&out.debugDir, "debug-dir", "", "write per-surface debug PDFs into this directory (overrides config)")
	f.Float64Var(&out.z, "z", 0, "layer Z in mm, defaults to the layer height")
	f.IntVar(&out.workers, "workers", 0, "surfaces filled in parallel, 0 uses the config value")
	return cmd
}

func (a *app) runFill(cmd *cobra.Command, input string, settings *jobSettings, out *fillOutputs) error {
	surfaces, job, fromFile, err := loadInput(input, a.log)
	if err != nil {
		return err
	}
	if err := settings.apply(cmd, a.config, &job, fromFile); err != nil {
		return err
	}

	var opts []engine.Option
	debugDir := a.config.DebugDir
	if out.debugDir != "" {
		debugDir = out.debugDir
	}
	if debugDir != "" {
		opts = append(opts, engine.WithDebugSink(export.PDFDebugSink{Dir: debugDir}))
	}

	filler, err := engine.New(job.Params, &job.Print, opts...)
	if err != nil {
		return err
	}

	workers := out.workers
	if workers == 0 {
		workers = a.config.Workers
	}
	results, err := filler.FillSurfacesDetailed(cmd.Context(), surfaces, workers)
	if err != nil {
		return err
	}

	var all model.ThickPolylines
	plots := make([]export.Plot, len(surfaces))
	for i, res := range results {
		all = append(all, res.Paths...)
		area, reconstructed, gaps := res.Restored()
		plots[i] = export.Plot{
			Title:         surfaceTitle(surfaces[i]),
			Area:          area,
			Reconstructed: reconstructed,
			Gaps:          gaps,
			Paths:         res.Paths,
		}
	}
	a.log.Info("fill complete",
		"surfaces", len(surfaces),
		"paths", len(all),
		"length_mm", model.Unscale(model.Coord(all.TotalLength())))

	if out.gcode != "" {
		z := out.z
		if z == 0 {
			z = job.Params.LayerHeight
		}
		gen := gcode.New(job.Print, job.Motion, job.Params.LayerHeight)
		code := gen.GenerateLayer(all, z, filepath.Base(input))
		if err := os.WriteFile(out.gcode, []byte(code), 0644); err != nil {
			return fmt.Errorf("failed to write G-code: %w", err)
		}
		a.log.Info("G-code written", "file", out.gcode, "filament_mm", gen.ExtrusionTotal(all))
	}
	if out.pdf != "" {
		if err := export.ExportPDF(out.pdf, plots); err != nil {
			return err
		}
		a.log.Info("PDF written", "file", out.pdf)
	}
	if out.xlsx != "" {
		if err := export.ExportReport(out.xlsx, plots); err != nil {
			return err
		}
		a.log.Info("report written", "file", out.xlsx)
	}
	if out.dxf != "" {
		if err := export.ExportDXF(out.dxf, plots); err != nil {
			return err
		}
		a.log.Info("DXF written", "file", out.dxf)
	}
	if out.jobsDir != "" {
		for i, s := range surfaces {
			j := job
			j.ID = s.ID
			j.Surface = s
			j.Result = results[i].Paths
			path := filepath.Join(out.jobsDir, s.ID+".yaml")
			if err := project.ExportJob(path, j); err != nil {
				return err
			}
		}
		a.log.Info("jobs saved", "dir", out.jobsDir, "count", len(surfaces))
	}

	project.AddRecentFile(&a.config, input, 10)
	if err := project.SaveAppConfig(a.configPath, a.config); err != nil {
		a.log.Warn("failed to update recent files", "err", err)
	}
	return nil
}

func surfaceTitle(s model.Surface) string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}
