package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "btree",
		Short:        "In-memory B-tree shell and benchmark",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newShellCommand(), newBenchCommand())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
