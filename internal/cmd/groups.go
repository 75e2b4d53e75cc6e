package cmd

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"
)

func newGroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Legacy student group endpoints",
	}

	cmd.AddCommand(newGroupsDetailsCmd())
	cmd.AddCommand(newGroupsSaveMembershipsCmd())

	return cmd
}

func newGroupsDetailsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "details",
		Short: "List student groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			groups, err := client.Groups().Details(cmd.Context())
			if err != nil {
				return err
			}
			return printRecords(cmd, groups, "group_id", "group_name", "group_type")
		},
	}
}

func newGroupsSaveMembershipsCmd() *cobra.Command {
	var params map[string]string

	cmd := &cobra.Command{
		Use:     "save-memberships",
		Short:   "Record group memberships",
		Example: `  unioncloud groups save-memberships --param group_id=12 --param uid=42`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(params) == 0 {
				return errors.New("at least one --param is required")
			}
			if done, err := previewQuery(cmd, http.MethodPost, "/save_memberships", "group memberships", params); done {
				return err
			}
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			result, err := client.Groups().SaveMemberships(cmd.Context(), params)
			if err != nil {
				return err
			}
			return printEnvelope(cmd, result)
		},
	}

	cmd.Flags().StringToStringVar(&params, "param", nil, "Request parameter as key=value (repeatable)")
	return cmd
}
