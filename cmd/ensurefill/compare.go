package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/ensurefill/internal/engine"
	"github.com/piwi3910/ensurefill/internal/model"
)

func newCompareCmd(a *app) *cobra.Command {
	var settings jobSettings

	cmd := &cobra.Command{
		Use:   "compare INPUT",
		Short: "Fill each area with alternative settings and compare the results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			surfaces, job, fromFile, err := loadInput(args[0], a.log)
			if err != nil {
				return err
			}
			if err := settings.apply(cmd, a.config, &job, fromFile); err != nil {
				return err
			}

			scenarios := engine.BuildDefaultScenarios(job.Params)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, s := range surfaces {
				fmt.Fprintf(w, "%s (%.2f mm²)\n", surfaceTitle(s), s.Area.Area()*model.ScalingFactor*model.ScalingFactor)
				fmt.Fprintln(w, "SCENARIO\tANGLE\tSPACING\tPATHS\tGAP PATHS\tLENGTH mm\tUNCOVERED %\t")
				for _, r := range engine.CompareScenarios(scenarios, s, &job.Print) {
					if r.Err != nil {
						fmt.Fprintf(w, "%s\t\t\terror: %v\t\t\t\t\n", r.Scenario.Name, r.Err)
						continue
					}
					fmt.Fprintf(w, "%s\t%.1f\t%.3f\t%d\t%d\t%.1f\t%.2f\t\n",
						r.Scenario.Name,
						model.RadToDeg(r.Scenario.Params.Angle),
						r.Scenario.Params.Spacing,
						r.PathCount,
						r.GapPaths,
						r.TotalLength,
						r.UncoveredPercent)
				}
				fmt.Fprintln(w)
			}
			return w.Flush()
		},
	}
	settings.register(cmd)
	return cmd
}
