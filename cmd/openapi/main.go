package main

import (
	"encoding/json"
	"fmt"
	"os"

	"go-evelink/internal/eve/routes"
	"go-evelink/internal/eve/services"
	"go-evelink/pkg/version"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		output string
		prefix string
	)

	cmd := &cobra.Command{
		Use:          "openapi",
		Short:        "Export the evelink OpenAPI 3.1 specification",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := json.MarshalIndent(buildAPI(prefix).OpenAPI(), "", "  ")
			if err != nil {
				return err
			}

			if output == "-" {
				_, err = cmd.OutOrStdout().Write(append(spec, '\n'))
				return err
			}
			if err := os.WriteFile(output, spec, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "OpenAPI specification exported to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "evelink-openapi.json", `output file, or "-" for stdout`)
	cmd.Flags().StringVar(&prefix, "prefix", "", "API prefix the server is mounted under, e.g. /api")
	return cmd
}

// buildAPI registers the same operations as the server without any backend
func buildAPI(prefix string) huma.API {
	config := huma.DefaultConfig("EVE Link API", version.Get().Version)
	config.Info.Description = "EVE Online XML API /eve/ calls mapped to JSON"
	if prefix != "" {
		config.Servers = []*huma.Server{{URL: prefix}}
	}

	api := humachi.New(chi.NewRouter(), config)
	routes.NewModule(services.NewService(nil, nil, "none")).RegisterUnifiedRoutes(api, "/eve")
	return api
}
