package main

import (
	"github.com/spf13/cobra"

	"github.com/solarwerk/pv-planner/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "pv-planner-api",
	Short: "pv-planner-api serves BOM derivation, the material catalog and projects.",
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(cli.NewCmdVersion())
}
