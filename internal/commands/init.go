package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/fincast-dev/fincast/internal/config"
	"github.com/fincast-dev/fincast/internal/plan"
)

func newInitCommand() *cobra.Command {
	var startYear int
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new fincast project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, startYear, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized fincast project at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().IntVar(&startYear, "start-year", time.Now().Year(), "first year of the example plan")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing fincast.yaml")

	return cmd
}

func runInit(dir string, startYear int, force bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	}

	// Create directory structure.
	for _, d := range []string{"plans", "data", "logs"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write fincast.yaml.
	cfg := config.Default(startYear)
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write the example plan.
	if err := plan.SaveFile(filepath.Join(dir, "plans", "example.yaml"), plan.DefaultRaw(startYear)); err != nil {
		return fmt.Errorf("writing example plan: %w", err)
	}

	// Write .gitignore.
	gitignore := "data/\nlogs/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	return nil
}
