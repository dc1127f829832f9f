package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/ensurefill/internal/project"
)

func newPresetsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Manage nozzle and filament presets",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the saved presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, path, err := project.LoadOrCreateInventory()
			if err != nil {
				return err
			}
			a.log.Debug("presets loaded", "file", path)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NOZZLE\tDIAMETER\tLINE WIDTH\t")
			for _, n := range inv.Nozzles {
				fmt.Fprintf(w, "%s\t%.2f\t%.2f\t\n", n.Name, n.Diameter, n.LineWidth)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "FILAMENT\tMATERIAL\tDIAMETER\tFLOW\tSPEED\tRETRACT\t")
			for _, f := range inv.Filaments {
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%.0f\t%.1f\t\n",
					f.Name, f.Material, f.Diameter, f.ExtrusionMultiplier, f.InfillSpeed, f.RetractLen)
			}
			return w.Flush()
		},
	}

	importCmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Merge presets from a file into the saved presets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, path, err := project.LoadOrCreateInventory()
			if err != nil {
				return err
			}
			merged, err := project.ImportInventory(args[0], inv)
			if err != nil {
				return err
			}
			if err := project.SaveInventory(path, merged); err != nil {
				return err
			}
			a.log.Info("presets imported",
				"nozzles", len(merged.Nozzles)-len(inv.Nozzles),
				"filaments", len(merged.Filaments)-len(inv.Filaments))
			return nil
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write the saved presets to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, _, err := project.LoadOrCreateInventory()
			if err != nil {
				return err
			}
			return project.SaveInventory(args[0], inv)
		},
	}

	cmd.AddCommand(listCmd, importCmd, exportCmd)
	return cmd
}
