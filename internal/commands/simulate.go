package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fincast-dev/fincast/internal/aggregate"
	"github.com/fincast-dev/fincast/internal/model"
	"github.com/fincast-dev/fincast/internal/plan"
	"github.com/fincast-dev/fincast/internal/report"
	"github.com/fincast-dev/fincast/internal/scenario"
)

func newSimulateCommand(g *globalFlags) *cobra.Command {
	var freq, format string
	var noStore, monthly bool

	cmd := &cobra.Command{
		Use:   "simulate <plan>...",
		Short: "Validate, simulate and store one or more plans",
		Long: "Each argument is a YAML or JSON plan file, or a directory holding plan.yaml\n" +
			"and optional accounts.csv, incomes.csv and spendings.csv tables.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			e, err := setup(g, cmd.ErrOrStderr(), envOptions{memory: noStore})
			if err != nil {
				return err
			}
			defer e.Close()

			res, err := e.resolution(freq)
			if err != nil {
				return err
			}

			inputs := make([]scenario.Input, 0, len(args))
			for _, path := range args {
				raw, err := plan.LoadFile(path)
				if err != nil {
					return err
				}
				inputs = append(inputs, scenario.Input{Raw: raw, Source: path})
			}

			results, err := e.svc.RunAll(cmd.Context(), inputs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if monthly {
				for _, r := range results {
					fmt.Fprintf(out, "# %s\n", r.Name)
					if err := report.WriteSnapshots(out, r.Snapshots, outFormat); err != nil {
						return err
					}
				}
				return nil
			}

			byName := make(map[string][]model.Snapshot, len(results))
			for _, r := range results {
				byName[r.Name] = r.Snapshots
			}
			return report.WriteRecords(out, aggregate.Aggregate(byName, res), outFormat)
		},
	}

	cmd.Flags().StringVar(&freq, "freq", "", "report resolution: M, Q or Y (default from config)")
	cmd.Flags().StringVar(&format, "format", string(report.FormatTable), "output format: table, csv or json")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "do not keep the simulated scenarios")
	cmd.Flags().BoolVar(&monthly, "monthly", false, "print every simulated month instead of the aggregated report")

	return cmd
}
