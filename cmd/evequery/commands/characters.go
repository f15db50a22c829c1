package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"go-evelink/pkg/eveapi/eve"
)

func idsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ids NAME...",
		Short: "Resolve character names to IDs in one request",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context) (eve.CharacterIDMap, error) {
				return opts.mapper.CharacterIDsFromNames(ctx, args)
			})
		},
	}
}

type idResult struct {
	Name        string `json:"name"`
	CharacterID *int64 `json:"character_id"`
}

func idCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "id NAME",
		Short: "Resolve one character name to its ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context) (idResult, error) {
				id, err := opts.mapper.CharacterIDFromName(ctx, args[0])
				return idResult{Name: args[0], CharacterID: id}, err
			})
		},
	}
}

func characterCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "character ID",
		Short: "Print a character's public profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			charID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || charID <= 0 {
				return fmt.Errorf("invalid character ID %q", args[0])
			}
			return run(cmd, opts, func(ctx context.Context) (*eve.CharacterInfo, error) {
				return opts.mapper.CharacterInfoFromID(ctx, charID)
			})
		},
	}
}
