package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/yusu/unioncloud-cli/internal/api"
	"github.com/yusu/unioncloud-cli/internal/resolve"
)

var (
	userGroupColumns  = []string{"ug_id", "ug_name", "ug_type", "ug_description"}
	membershipColumns = []string{"ugm_id", "uid", "ug_id", "ug_name", "ugm_start_date", "ugm_expiry_date"}
)

func newUserGroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "usergroups",
		Aliases: []string{"usergroup", "ug"},
		Short:   "Manage user groups",
		Long: `Manage user groups.

Commands taking a <group> accept either the numeric ug_id or part of the
group name, which is matched against the full group list.`,
	}

	cmd.AddCommand(newUserGroupsListCmd())
	cmd.AddCommand(newUserGroupsGetCmd())
	cmd.AddCommand(newUserGroupsSearchCmd())
	cmd.AddCommand(newUserGroupsMembersCmd())
	cmd.AddCommand(newUserGroupsCreateCmd())
	cmd.AddCommand(newUserGroupsUpdateCmd())
	cmd.AddCommand(newUserGroupsDeleteCmd())
	cmd.AddCommand(newUserGroupsFoldersCmd())
	cmd.AddCommand(newUserGroupsFindCmd())

	return cmd
}

func userGroupNames(ctx context.Context, client *api.Client) ([]resolve.Named, error) {
	groups, err := client.UserGroups().All(ctx, api.ModeBasic)
	if err != nil {
		return nil, err
	}
	return resolve.FromRecords(groups, "ug_id", "ug_name"), nil
}

// resolveUserGroup returns the ug_id for a numeric ID or a group name.
func resolveUserGroup(ctx context.Context, client *api.Client, arg string) (int, error) {
	id, err := resolve.ID(arg, func() ([]resolve.Named, error) {
		return userGroupNames(ctx, client)
	})
	if err != nil {
		return 0, fmt.Errorf("user group %q: %w", arg, err)
	}
	return id, nil
}

func newUserGroupsListCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List every user group",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := parseMode(mode)
			if err != nil {
				return err
			}
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			groups, err := client.UserGroups().All(cmd.Context(), m)
			if err != nil {
				return err
			}
			return printRecords(cmd, groups, userGroupColumns...)
		},
	}

	addModeFlag(cmd, &mode)
	return cmd
}

func newUserGroupsGetCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "get <group>",
		Short: "Show one user group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseMode(mode)
			if err != nil {
				return err
			}
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			id, err := resolveUserGroup(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}
			group, err := client.UserGroups().Get(cmd.Context(), id, m)
			if err != nil {
				return err
			}
			return printRecord(cmd, group)
		},
	}

	addModeFlag(cmd, &mode)
	return cmd
}

func newUserGroupsSearchCmd() *cobra.Command {
	var (
		mode    string
		filters map[string]string
		data    dataFlags
	)

	cmd := &cobra.Command{
		Use:     "search",
		Short:   "Search user groups by field values",
		Example: `  unioncloud usergroups search --filter ug_type_name=Society`,
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
			groups, err := client.UserGroups().Search(cmd.Context(), query, m)
			if err != nil {
				return err
			}
			return printRecords(cmd, groups, userGroupColumns...)
		},
	}

	addModeFlag(cmd, &mode)
	addFilterFlags(cmd, &filters, &data)
	return cmd
}

func newUserGroupsMembersCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "members <group>",
		Short: "List every membership of a user group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseMode(mode)
			if err != nil {
				return err
			}
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			id, err := resolveUserGroup(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}
			members, err := client.UserGroups().Members(cmd.Context(), id, m)
			if err != nil {
				return err
			}
			return printRecords(cmd, members, membershipColumns...)
		},
	}

	addModeFlag(cmd, &mode)
	return cmd
}

func newUserGroupsCreateCmd() *cobra.Command {
	var data dataFlags

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a user group",
		Example: `  unioncloud usergroups create --data '{"ug_name":"Chess Society","ug_type_id":3}'`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rec, err := data.record(cmd)
			if err != nil {
				return err
			}
			if done, err := previewWrite(cmd, http.MethodPost, "/user_groups", "user group", rec); done {
				return err
			}
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			created, err := client.UserGroups().Create(cmd.Context(), rec)
			if err != nil {
				return err
			}
			return printRecords(cmd, created, userGroupColumns...)
		},
	}

	addDataFlags(cmd, &data)
	return cmd
}

func newUserGroupsUpdateCmd() *cobra.Command {
	var data dataFlags

	cmd := &cobra.Command{
		Use:   "update <group>",
		Short: "Update a user group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := data.record(cmd)
			if err != nil {
				return err
			}
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			id, err := resolveUserGroup(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}
			if done, err := previewWrite(cmd, http.MethodPut, fmt.Sprintf("/user_groups/%d", id), fmt.Sprintf("user group %d", id), rec); done {
				return err
			}
			group, err := client.UserGroups().Update(cmd.Context(), id, rec)
			if err != nil {
				return err
			}
			return printRecord(cmd, group)
		},
	}

	addDataFlags(cmd, &data)
	return cmd
}

func newUserGroupsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <group>",
		Short: "Delete a user group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			id, err := resolveUserGroup(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}
			if done, err := previewWrite(cmd, http.MethodDelete, fmt.Sprintf("/user_groups/%d", id), fmt.Sprintf("user group %d", id), nil); done {
				return err
			}
			result, err := client.UserGroups().Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printRecord(cmd, result)
		},
	}
}

func newUserGroupsFoldersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "folders",
		Short: "Show the user group folder structure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			folders, err := client.UserGroups().FolderStructure(cmd.Context())
			if err != nil {
				return err
			}
			return printRecords(cmd, folders, "ug_folder_id", "ug_folder_name", "ug_folder_parent_id")
		},
	}
}

func newUserGroupsFindCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "find <name>",
		Short: "Fuzzy-find user groups by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			named, err := userGroupNames(cmd.Context(), client)
			if err != nil {
				return err
			}

			matches := resolve.FuzzyMatchAll(args[0], named, limit)
			rows := make([]api.Record, 0, len(matches))
			for _, m := range matches {
				rows = append(rows, api.Record{"ug_id": m.ID, "ug_name": m.Name, "score": m.Score})
			}
			return printRecords(cmd, rows, "ug_id", "ug_name", "score")
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of matches")
	return cmd
}
