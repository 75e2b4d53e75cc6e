package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/yusu/unioncloud-cli/internal/api"
)

type uploadFunc func(ctx context.Context, c *api.Client, records []api.Record) ([]api.Record, error)

func newUploadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "uploads",
		Aliases: []string{"upload"},
		Short:   "Bulk-upload students, guests and programmes",
		Long: `Bulk-upload students, guests and programmes.

The payload is a JSON array of records in the format the upload endpoint
expects; a single object is sent as a one-record upload.`,
	}

	cmd.AddCommand(newUploadCmd("students", "Upload student records",
		func(ctx context.Context, c *api.Client, recs []api.Record) ([]api.Record, error) {
			return c.Uploads().Students(ctx, recs)
		}))
	cmd.AddCommand(newUploadCmd("guests", "Upload guest records",
		func(ctx context.Context, c *api.Client, recs []api.Record) ([]api.Record, error) {
			return c.Uploads().Guests(ctx, recs)
		}))
	cmd.AddCommand(newUploadCmd("programmes", "Upload programme records",
		func(ctx context.Context, c *api.Client, recs []api.Record) ([]api.Record, error) {
			return c.Uploads().Programmes(ctx, recs)
		}))

	return cmd
}

func newUploadCmd(use, short string, upload uploadFunc) *cobra.Command {
	var data dataFlags

	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		Example: "  unioncloud uploads " + use + " --data-file records.json",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			recs, err := data.records(cmd)
			if err != nil {
				return err
			}
			if done, err := previewWrite(cmd, http.MethodPost, "/json/upload/"+use, fmt.Sprintf("%d %s", len(recs), use), recs); done {
				return err
			}
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			result, err := upload(cmd.Context(), client, recs)
			if err != nil {
				return err
			}
			return printRecords(cmd, result)
		},
	}

	addDataFlags(cmd, &data)
	return cmd
}
