package commands

import (
	"context"

	"github.com/spf13/cobra"

	"go-evelink/pkg/eveapi/eve"
)

func alliancesCmd(opts *options) *cobra.Command {
	var allianceID int64

	cmd := &cobra.Command{
		Use:   "alliances",
		Short: "Print every alliance with its member corporations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context) (any, error) {
				alliances, err := opts.mapper.Alliances(ctx)
				if err != nil || allianceID == 0 {
					return alliances, err
				}
				if alliance, ok := alliances[allianceID]; ok {
					return eve.AllianceDirectory{allianceID: alliance}, nil
				}
				return eve.AllianceDirectory{}, nil
			})
		},
	}

	cmd.Flags().Int64Var(&allianceID, "id", 0, "only print this alliance")
	return cmd
}
