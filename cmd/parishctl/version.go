package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"parish.org/internal/obs"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			obs.InitBuildInfo(version, commit)
			fmt.Fprintf(cmd.OutOrStdout(), "parishctl version %s (commit %s)\n", version, commit)
		},
	}
}
