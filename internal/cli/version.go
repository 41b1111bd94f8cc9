package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/solarwerk/pv-planner/pkg/version"
)

type VersionOptions struct {
	out io.Writer
}

func DefaultVersionOptions() *VersionOptions {
	return &VersionOptions{
		out: os.Stdout,
	}
}

func NewCmdVersion() *cobra.Command {
	o := DefaultVersionOptions()
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print pv-planner version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd.Context(), args)
		},
	}
	return cmd
}

func (o *VersionOptions) Run(ctx context.Context, args []string) error {
	_, err := fmt.Fprintf(o.out, "pv-planner version: %s\n", version.Get().String())
	return err
}
