package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yusu/unioncloud-cli/internal/config"
	"github.com/yusu/unioncloud-cli/internal/debug"
	"github.com/yusu/unioncloud-cli/internal/dryrun"
	"github.com/yusu/unioncloud-cli/internal/iocontext"
	"github.com/yusu/unioncloud-cli/internal/outfmt"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Host     string
	Config   string
	CABundle string
	Output   string
	JQ       string
	Debug    bool
	DryRun   bool
}

// flags and settings are package-level state reset at the start of every
// Execute call. Commands read them only from inside RunE.
var (
	flags    rootFlags
	settings config.Settings
)

// Execute runs the CLI with args and returns the command's error, which
// has already been reported on stderr.
func Execute(ctx context.Context, args []string) error {
	flags = rootFlags{}
	settings = config.Settings{}

	root := &cobra.Command{
		Use:           "unioncloud",
		Short:         "Command-line client for the UnionCloud API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			s, err := loadSettings()
			if err != nil {
				return err
			}
			settings = s

			output := flags.Output
			if output == "" {
				output = settings.Output
			}
			mode, err := outfmt.Parse(output)
			if err != nil {
				return err
			}
			ctx = outfmt.WithMode(ctx, mode)
			if flags.JQ != "" {
				ctx = outfmt.WithQuery(ctx, flags.JQ)
			}

			ioStreams := iocontext.DefaultIO()
			ctx = iocontext.WithIO(ctx, ioStreams)
			cmd.SetOut(ioStreams.Out)
			cmd.SetErr(ioStreams.ErrOut)

			debug.SetupLogger(flags.Debug)
			ctx = debug.WithDebug(ctx, flags.Debug)
			ctx = dryrun.WithDryRun(ctx, flags.DryRun)

			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetContext(ctx)
	root.SetArgs(args)
	root.PersistentFlags().StringVar(&flags.Host, "host", "", "API host, e.g. union.unioncloud.co.uk (env UNIONCLOUD_HOST)")
	root.PersistentFlags().StringVar(&flags.Config, "config", "", "Config file (default $XDG_CONFIG_HOME/unioncloud/config.yaml)")
	root.PersistentFlags().StringVar(&flags.CABundle, "ca-bundle", "", "PEM file with the CA certificates to trust (env UNIONCLOUD_CA_BUNDLE)")
	root.PersistentFlags().StringVarP(&flags.Output, "output", "o", "", "Output format: text|json|jsonl|yaml (env UNIONCLOUD_OUTPUT)")
	root.PersistentFlags().StringVar(&flags.JQ, "jq", "", "JQ expression to filter output")
	root.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Log HTTP exchanges to stderr")
	root.PersistentFlags().BoolVar(&flags.DryRun, "dry-run", false, "Print write requests instead of sending them")

	root.AddCommand(newAuthCmd())
	root.AddCommand(newUsersCmd())
	root.AddCommand(newUserGroupsCmd())
	root.AddCommand(newMembershipsCmd())
	root.AddCommand(newEventsCmd())
	root.AddCommand(newElectionsCmd())
	root.AddCommand(newUploadsCmd())
	root.AddCommand(newGroupsCmd())
	root.AddCommand(newVersionCmd())

	targetCmd, err := root.ExecuteC()
	if err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			reportError(targetCmd, root, err)
		}
		return err
	}
	return nil
}

// loadSettings reads the config file and environment, then applies the
// global flags on top.
func loadSettings() (config.Settings, error) {
	s, err := config.LoadSettings(flags.Config)
	if err != nil {
		return config.Settings{}, err
	}
	if flags.Host != "" {
		s.Host = config.NormalizeHost(flags.Host)
	}
	if flags.CABundle != "" {
		s.CABundle = flags.CABundle
	}
	return s, nil
}

func reportError(target, root *cobra.Command, err error) {
	ctx := root.Context()
	if target != nil && target.Context() != nil {
		ctx = target.Context()
	}
	errOut := iocontext.GetIO(ctx).ErrOut
	if outfmt.IsJSON(ctx) {
		if writeErr := writeJSONError(errOut, err); writeErr == nil {
			return
		}
	}
	_, _ = fmt.Fprint(errOut, HandleError(err))
}
