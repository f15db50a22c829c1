package commands

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"go-evelink/pkg/config"
	"go-evelink/pkg/eveapi"
	"go-evelink/pkg/eveapi/eve"
)

type options struct {
	baseURL string
	timeout time.Duration
	compact bool

	mapper *eve.EVE
}

func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "evequery",
		Short:        "Query the EVE Online XML API /eve/ calls and print JSON",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			if opts.baseURL == "" {
				opts.baseURL = config.GetEveAPIBaseURL()
			}
			client := eveapi.NewClient(
				eveapi.WithBaseURL(opts.baseURL),
				eveapi.WithCacheManager(eveapi.NewMemoryCacheManager(time.Minute)),
			)
			opts.mapper = eve.New(client)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "API base URL (default $EVE_API_BASE_URL or "+config.DefaultEveAPIBaseURL+")")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall request timeout")
	root.PersistentFlags().BoolVar(&opts.compact, "compact", false, "print JSON on one line")

	root.AddCommand(idsCmd(opts), idCmd(opts), characterCmd(opts), alliancesCmd(opts), versionCmd(opts))
	return root
}

// run calls fn under the configured timeout and prints its result as JSON
func run[T any](cmd *cobra.Command, opts *options, fn func(ctx context.Context) (T, error)) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	result, err := fn(ctx)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result, opts.compact)
}

func printJSON(w io.Writer, v any, compact bool) error {
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
