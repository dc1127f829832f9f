package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/ensurefill/internal/model"
	"github.com/piwi3910/ensurefill/internal/project"
)

func newProfilesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List, import and export G-code profiles",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the built-in and custom profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tKIND\tDESCRIPTION\t")
			for _, p := range model.AllProfiles() {
				kind := "custom"
				if p.IsBuiltIn {
					kind = "built-in"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t\n", p.Name, kind, p.Description)
			}
			return w.Flush()
		},
	}

	importCmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Add a profile file to the custom profiles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.ImportProfile(args[0])
			if err != nil {
				return err
			}
			if err := model.AddCustomProfile(p); err != nil {
				return err
			}
			if err := a.saveProfiles(); err != nil {
				return err
			}
			a.log.Info("profile imported", "name", p.Name)
			return nil
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export NAME FILE",
		Short: "Write a profile to a file for sharing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := model.GetProfile(args[0])
			if p.Name != args[0] {
				return fmt.Errorf("unknown profile %q", args[0])
			}
			return project.ExportProfile(args[1], p)
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove NAME",
		Short: "Delete a custom profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := model.RemoveCustomProfile(args[0]); err != nil {
				return err
			}
			return a.saveProfiles()
		},
	}

	cmd.AddCommand(listCmd, importCmd, exportCmd, removeCmd)
	return cmd
}

func (a *app) saveProfiles() error {
	if a.profiles.Path == "" {
		return fmt.Errorf("no location to store custom profiles")
	}
	return a.profiles.Save(model.CustomProfiles)
}
