package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/solarwerk/pv-planner/internal/cli"
)

func main() {
	command := NewPlannerCtlCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewPlannerCtlCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pv-planner [flags] [options]",
		Short: "pv-planner derives bills of materials of PV installations.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.AddCommand(cli.NewCmdDerive())
	cmd.AddCommand(cli.NewCmdVersion())

	return cmd
}
