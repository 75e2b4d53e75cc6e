package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yusu/unioncloud-cli/internal/api"
)

// version is set at build time via ldflags
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print version information",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := newFormatter(cmd)
			if f.Structured() {
				return f.Output(map[string]any{
					"version":     version,
					"client":      api.Version,
					"api_version": api.APIVersion,
				})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "unioncloud version %s (client %s, API %s)\n", version, api.Version, api.APIVersion)
			return nil
		},
	}
}
