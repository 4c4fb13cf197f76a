package main

import (
	"os"

	"github.com/fincast-dev/fincast/internal/commands"
)

func main() {
	rootCmd := commands.NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		commands.PrintError(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}
