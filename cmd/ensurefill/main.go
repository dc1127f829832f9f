// ensurefill generates ensuring infill toolpaths for 3D-printing slice
// regions and writes them as G-code, PDF, XLSX or DXF.
//
// Build:
//   go build -o ensurefill ./cmd/ensurefill
//
// Usage:
//   ensurefill config init
//   ensurefill fill part.dxf --gcode part.gcode --pdf part.pdf
//   ensurefill compare part.dxf
//   ensurefill inspect part.gcode

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/ensurefill/internal/engine"
	"github.com/piwi3910/ensurefill/internal/model"
	"github.com/piwi3910/ensurefill/internal/project"
)

// app carries the state shared by all commands once the root command has
// loaded the configuration.
type app struct {
	configPath string
	logLevel   string
	config     model.AppConfig
	profiles   project.ProfileStore
	log        *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "ensurefill",
		Short:         "Ensuring infill toolpath generator",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", project.DefaultConfigPath(), "configuration file (.yaml or .json)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	root.AddCommand(
		newFillCmd(a),
		newCompareCmd(a),
		newInspectCmd(a),
		newConfigCmd(a),
		newProfilesCmd(a),
		newPresetsCmd(a),
	)
	return root
}

// load reads the configuration and custom profiles and installs the logger.
func (a *app) load() error {
	cfg, err := project.LoadAppConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", a.configPath, err)
	}
	a.config = cfg

	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}
	a.log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	engine.SetLogger(a.log)

	store, err := project.DefaultProfileStore()
	if err != nil {
		a.log.Warn("no profile store", "err", err)
		return nil
	}
	a.profiles = store
	profiles, err := store.Load()
	if err != nil {
		a.log.Warn("skipped custom profiles", "path", store.Path, "err", err)
	}
	model.CustomProfiles = profiles
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
