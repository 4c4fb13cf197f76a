package commands

import (
	"github.com/spf13/cobra"

	"github.com/fincast-dev/fincast/internal/aggregate"
	"github.com/fincast-dev/fincast/internal/report"
)

func newReportCommand(g *globalFlags) *cobra.Command {
	var freq, format string
	var pivot bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Aggregate every stored scenario",
		Args:  cobra.NoArgs,
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

			res, err := e.resolution(freq)
			if err != nil {
				return err
			}

			records, err := e.svc.Records(cmd.Context(), res)
			if err != nil {
				return err
			}
			if pivot {
				return report.WritePivot(cmd.OutOrStdout(), aggregate.Pivot(records), outFormat)
			}
			return report.WriteRecords(cmd.OutOrStdout(), records, outFormat)
		},
	}

	cmd.Flags().StringVar(&freq, "freq", "", "resolution: M, Q or Y (default from config)")
	cmd.Flags().StringVar(&format, "format", string(report.FormatTable), "output format: table, csv or json")
	cmd.Flags().BoolVar(&pivot, "pivot", false, "one row per period, one column pair per scenario")

	return cmd
}
