package commands

import (
	"github.com/spf13/cobra"

	"github.com/fincast-dev/fincast/internal/buildinfo"
)

type globalFlags struct {
	dir       string
	config    string
	logLevel  string
	logFormat string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var g globalFlags

	rootCmd := &cobra.Command{
		Use:     "fincast",
		Short:   "Personal finance projections across scenarios",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&g.dir, "dir", "C", ".", "project directory")
	pf.StringVar(&g.config, "config", "", "config file (default <dir>/fincast.yaml)")
	pf.StringVar(&g.logLevel, "log-level", "", "log level (overrides config)")
	pf.StringVar(&g.logFormat, "log-format", "", "log format: text or json (overrides config)")

	rootCmd.AddCommand(
		newInitCommand(),
		newSimulateCommand(&g),
		newReportCommand(&g),
		newScenariosCommand(&g),
		newHistoryCommand(&g),
		newServeCommand(&g),
	)

	return rootCmd
}
