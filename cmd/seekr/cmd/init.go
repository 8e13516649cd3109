package cmd

import (
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Build the initial index for a workspace",
		Long:  "init runs a non-forced index(path, force=false) pass, same as 'seekr index' on a workspace with no prior index.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd.Context(), cmd, args, false)
		},
	}
}
