package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var userColumns = []string{"uid", "forename", "surname", "email", "id_number"}

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Look up and manage users",
	}

	cmd.AddCommand(newUsersGetCmd())
	cmd.AddCommand(newUsersSearchCmd())
	cmd.AddCommand(newUsersMembershipsCmd())
	cmd.AddCommand(newUsersUpdateCmd())
	cmd.AddCommand(newUsersDeleteCmd())

	return cmd
}

func newUsersGetCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "get <uid>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := parseID(args[0], "user ID")
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
			user, err := client.Users().Get(cmd.Context(), uid, m)
			if err != nil {
				return err
			}
			return printRecord(cmd, user)
		},
	}

	addModeFlag(cmd, &mode)
	return cmd
}

func newUsersSearchCmd() *cobra.Command {
	var (
		mode    string
		filters map[string]string
		data    dataFlags
	)

	cmd := &cobra.Command{
		Use:     "search",
		Short:   "Search users by field values",
		Example: `  unioncloud users search --filter surname=Smith --filter forename=Jo`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := parseMode(mode)
			if err != nil {
				return err
			}
			query, err := searchFilters(cmd, filters, data)
			if err != nil {
				return err
			}
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			users, err := client.Users().Search(cmd.Context(), query, m)
			if err != nil {
				return err
			}
			return printRecords(cmd, users, userColumns...)
		},
	}

	addModeFlag(cmd, &mode)
	addFilterFlags(cmd, &filters, &data)
	return cmd
}

func newUsersMembershipsCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "memberships <uid>",
		Short: "List a user's group memberships",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := parseID(args[0], "user ID")
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
			memberships, err := client.Users().GroupMemberships(cmd.Context(), uid, m)
			if err != nil {
				return err
			}
			return printRecords(cmd, memberships, membershipColumns...)
		},
	}

	addModeFlag(cmd, &mode)
	return cmd
}

func newUsersUpdateCmd() *cobra.Command {
	var data dataFlags

	cmd := &cobra.Command{
		Use:     "update <uid>",
		Short:   "Update a user",
		Example: `  unioncloud users update 42 --data '{"alternate_email_address":"jo@example.com"}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := parseID(args[0], "user ID")
			if err != nil {
				return err
			}
			rec, err := data.record(cmd)
			if err != nil {
				return err
			}
			if done, err := previewWrite(cmd, http.MethodPut, fmt.Sprintf("/users/%d", uid), fmt.Sprintf("user %d", uid), rec); done {
				return err
			}
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			user, err := client.Users().Update(cmd.Context(), uid, rec)
			if err != nil {
				return err
			}
			return printRecord(cmd, user)
		},
	}

	addDataFlags(cmd, &data)
	return cmd
}

func newUsersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <uid>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := parseID(args[0], "user ID")
			if err != nil {
				return err
			}
			if done, err := previewWrite(cmd, http.MethodDelete, fmt.Sprintf("/users/%d", uid), fmt.Sprintf("user %d", uid), nil); done {
				return err
			}
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			result, err := client.Users().Delete(cmd.Context(), uid)
			if err != nil {
				return err
			}
			return printRecord(cmd, result)
		},
	}
}
