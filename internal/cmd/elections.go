package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/yusu/unioncloud-cli/internal/api"
)

var electionColumns = []string{"election_id", "election_name", "position_name", "start_date", "end_date", "status"}

func newElectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "elections",
		Aliases: []string{"election"},
		Short:   "Read elections, positions and results",
	}

	cmd.AddCommand(newElectionPagedCmd("categories", "List election categories", false,
		func(ctx context.Context, c *api.Client, page int, _ api.Mode) (api.Record, error) {
			return c.Elections().Categories(ctx, page)
		}))
	cmd.AddCommand(newElectionItemCmd("category <category-id>", "Show an election category", "category ID", false,
		func(ctx context.Context, c *api.Client, id int, _ api.Mode) (api.Record, error) {
			return c.Elections().Category(ctx, id)
		}))
	cmd.AddCommand(newElectionPagedCmd("positions", "List election positions", true,
		func(ctx context.Context, c *api.Client, page int, mode api.Mode) (api.Record, error) {
			return c.Elections().Positions(ctx, page, mode)
		}))
	cmd.AddCommand(newElectionItemCmd("position <position-id>", "Show an election position", "position ID", true,
		func(ctx context.Context, c *api.Client, id int, mode api.Mode) (api.Record, error) {
			return c.Elections().Position(ctx, id, mode)
		}))
	cmd.AddCommand(newElectionPagedCmd("list", "List elections", true,
		func(ctx context.Context, c *api.Client, page int, mode api.Mode) (api.Record, error) {
			return c.Elections().List(ctx, page, mode)
		}))
	cmd.AddCommand(newElectionItemCmd("get <election-id>", "Show an election", "election ID", true,
		func(ctx context.Context, c *api.Client, id int, mode api.Mode) (api.Record, error) {
			return c.Elections().Get(ctx, id, mode)
		}))
	cmd.AddCommand(newElectionsStandingsCmd())
	cmd.AddCommand(newElectionsVotesCmd())
	cmd.AddCommand(newElectionsVotersCmd(false))
	cmd.AddCommand(newElectionsVotersCmd(true))

	return cmd
}

type electionPageFunc func(ctx context.Context, c *api.Client, page int, mode api.Mode) (api.Record, error)

func newElectionPagedCmd(use, short string, withMode bool, fetch electionPageFunc) *cobra.Command {
	var (
		page int
		mode string
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := parseMode(mode)
			if err != nil {
				return err
			}
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			env, err := fetch(cmd.Context(), client, page, m)
			if err != nil {
				return err
			}
			return printEnvelope(cmd, env, electionColumns...)
		},
	}

	addPageFlag(cmd, &page)
	if withMode {
		addModeFlag(cmd, &mode)
	}
	return cmd
}

type electionItemFunc func(ctx context.Context, c *api.Client, id int, mode api.Mode) (api.Record, error)

func newElectionItemCmd(use, short, idName string, withMode bool, fetch electionItemFunc) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], idName)
			if err != nil {
				return err
			}
			m, err := parseMode(mode)
			if err != nil {
				return err
			}
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			env, err := fetch(cmd.Context(), client, id, m)
			if err != nil {
				return err
			}
			return printEnvelope(cmd, env, electionColumns...)
		},
	}

	if withMode {
		addModeFlag(cmd, &mode)
	}
	return cmd
}

func newElectionsStandingsCmd() *cobra.Command {
	var (
		page int
		mode string
	)

	cmd := &cobra.Command{
		Use:   "standings <election-id>",
		Short: "Show the candidates standing in an election",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "election ID")
			if err != nil {
				return err
			}
			m, err := parseMode(mode)
			if err != nil {
				return err
			}
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			env, err := client.Elections().Standings(cmd.Context(), id, page, m)
			if err != nil {
				return err
			}
			return printEnvelope(cmd, env, "uid", "forename", "surname", "position_name", "status")
		},
	}

	addPageFlag(cmd, &page)
	addModeFlag(cmd, &mode)
	return cmd
}

func newElectionsVotesCmd() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "votes <election-id>",
		Short: "Show the votes cast in an election",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "election ID")
			if err != nil {
				return err
			}
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			env, err := client.Elections().Votes(cmd.Context(), id, page)
			if err != nil {
				return err
			}
			return printEnvelope(cmd, env)
		},
	}

	addPageFlag(cmd, &page)
	return cmd
}

// newElectionsVotersCmd builds "voters" or, with demographics set,
// "demographics". Both read an export file written by the API.
func newElectionsVotersCmd(demographics bool) *cobra.Command {
	var (
		page      int
		mode      string
		voterType string
	)

	use, short := "voters <election-id>", "Export the voters of an election"
	if demographics {
		use, short = "demographics <election-id>", "Export voter demographics for an election"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "election ID")
			if err != nil {
				return err
			}
			m, err := parseMode(mode)
			if err != nil {
				return err
			}
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}

			var result any
			if demographics {
				result, err = client.Elections().VotersDemographics(cmd.Context(), id, api.VoterType(voterType), page, m)
			} else {
				result, err = client.Elections().Voters(cmd.Context(), id, api.VoterType(voterType), page)
			}
			if err != nil {
				return err
			}
			return printValue(cmd, result, "uid", "forename", "surname", "email")
		},
	}

	addPageFlag(cmd, &page)
	cmd.Flags().StringVar(&voterType, "voter-type", string(api.VoterTypeActual), "Which voters to export")
	if demographics {
		addModeFlag(cmd, &mode)
	}
	return cmd
}
