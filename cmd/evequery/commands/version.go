package commands

import (
	"github.com/spf13/cobra"

	"go-evelink/pkg/version"
)

func versionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// skip the root pre-run, no client is needed
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), version.Get(), opts.compact)
		},
	}
}
