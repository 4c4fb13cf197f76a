package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fincast-dev/fincast/internal/report"
)

func newScenariosCommand(g *globalFlags) *cobra.Command {
	scenariosCmd := &cobra.Command{
		Use:     "scenarios",
		Aliases: []string{"scenario"},
		Short:   "Manage stored scenarios",
	}
	scenariosCmd.AddCommand(
		newScenariosListCommand(g),
		newScenariosShowCommand(g),
		newScenariosRemoveCommand(g),
		newScenariosClearCommand(g),
	)
	return scenariosCmd
}

func newScenariosListCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored scenario names",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(g, cmd.ErrOrStderr(), envOptions{})
			if err != nil {
				return err
			}
			defer e.Close()

			names, err := e.svc.Names(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newScenariosShowCommand(g *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print a stored scenario month by month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			e, err := setup(g, cmd.ErrOrStderr(), envOptions{})
			if err != nil {
				return err
			}
			defer e.Close()

			snaps, err := e.svc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return report.WriteSnapshots(cmd.OutOrStdout(), snaps, outFormat)
		},
	}

	cmd.Flags().StringVar(&format, "format", string(report.FormatTable), "output format: table, csv or json")
	return cmd
}

func newScenariosRemoveCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <name>...",
		Aliases: []string{"delete"},
		Short:   "Delete stored scenarios",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(g, cmd.ErrOrStderr(), envOptions{})
			if err != nil {
				return err
			}
			defer e.Close()

			for _, name := range args {
				if err := e.svc.Delete(cmd.Context(), name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", name)
			}
			return nil
		},
	}
}

func newScenariosClearCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(g, cmd.ErrOrStderr(), envOptions{})
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.svc.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All scenarios cleared")
			return nil
		},
	}
}
