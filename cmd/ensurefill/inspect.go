package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/piwi3910/ensurefill/internal/gcode"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE.gcode",
		Short: "Summarize the moves of a G-code file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			moves := gcode.ParseGCode(string(data))
			s := gcode.Summarize(moves)
			a.log.Debug("G-code parsed", "file", args[0], "moves", len(moves))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Moves:       %d\n", s.Moves)
			fmt.Fprintf(out, "Extrusions:  %d (%.2f mm)\n", s.Extrusions, s.ExtrudeLength)
			fmt.Fprintf(out, "Travels:     %d (%.2f mm)\n", s.Travels, s.TravelLength)
			fmt.Fprintf(out, "Retractions: %d\n", s.Retractions)
			fmt.Fprintf(out, "Filament:    %.3f mm\n", s.Filament)
			if s.Extrusions > 0 {
				fmt.Fprintf(out, "Extents:     X %.3f..%.3f  Y %.3f..%.3f\n", s.MinX, s.MaxX, s.MinY, s.MaxY)
			}
			fmt.Fprintf(out, "Duration:    %s\n", s.Duration.Round(time.Second))
			return nil
		},
	}
}
