package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func newMembershipsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "memberships",
		Aliases: []string{"membership", "ugm"},
		Short:   "Manage user group memberships",
	}

	cmd.AddCommand(newMembershipsCreateCmd())
	cmd.AddCommand(newMembershipsUploadCmd())
	cmd.AddCommand(newMembershipsUpdateCmd())
	cmd.AddCommand(newMembershipsDeleteCmd())

	return cmd
}

func newMembershipsCreateCmd() *cobra.Command {
	var data dataFlags

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Add a user to a group",
		Example: `  unioncloud memberships create --data '{"uid":42,"ug_id":7,"ugm_expiry_date":"2026-07-31"}'`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rec, err := data.record(cmd)
			if err != nil {
				return err
			}
			if done, err := previewWrite(cmd, http.MethodPost, "/user_group_memberships", "membership", rec); done {
				return err
			}
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			created, err := client.Memberships().Create(cmd.Context(), rec)
			if err != nil {
				return err
			}
			return printRecords(cmd, created, membershipColumns...)
		},
	}

	addDataFlags(cmd, &data)
	return cmd
}

func newMembershipsUploadCmd() *cobra.Command {
	var data dataFlags

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Create many memberships in one request",
		Long:  "Create many memberships in one request. The payload is a JSON array of membership objects.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			recs, err := data.records(cmd)
			if err != nil {
				return err
			}
			if done, err := previewWrite(cmd, http.MethodPost, "/user_group_memberships/upload", fmt.Sprintf("%d memberships", len(recs)), recs); done {
				return err
			}
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			created, err := client.Memberships().CreateMultiple(cmd.Context(), recs)
			if err != nil {
				return err
			}
			return printRecords(cmd, created, membershipColumns...)
		},
	}

	addDataFlags(cmd, &data)
	return cmd
}

func newMembershipsUpdateCmd() *cobra.Command {
	var data dataFlags

	cmd := &cobra.Command{
		Use:   "update <ugm-id>",
		Short: "Update a membership",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "membership ID")
			if err != nil {
				return err
			}
			rec, err := data.record(cmd)
			if err != nil {
				return err
			}
			if done, err := previewWrite(cmd, http.MethodPut, fmt.Sprintf("/user_group_memberships/%d", id), fmt.Sprintf("membership %d", id), rec); done {
				return err
			}
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			updated, err := client.Memberships().Update(cmd.Context(), id, rec)
			if err != nil {
				return err
			}
			return printRecords(cmd, updated, membershipColumns...)
		},
	}

	addDataFlags(cmd, &data)
	return cmd
}

func newMembershipsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <ugm-id>",
		Short: "Remove a membership",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "membership ID")
			if err != nil {
				return err
			}
			if done, err := previewWrite(cmd, http.MethodDelete, fmt.Sprintf("/user_group_memberships/%d", id), fmt.Sprintf("membership %d", id), nil); done {
				return err
			}
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			deleted, err := client.Memberships().Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printRecords(cmd, deleted, membershipColumns...)
		},
	}
}
