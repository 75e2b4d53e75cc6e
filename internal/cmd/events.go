package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/yusu/unioncloud-cli/internal/api"
)

var eventColumns = []string{"event_id", "event_name", "event_type", "start_date", "end_date", "location"}

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "events",
		Aliases: []string{"event"},
		Short:   "Manage events",
	}

	cmd.AddCommand(newEventsListCmd())
	cmd.AddCommand(newEventsGetCmd())
	cmd.AddCommand(newEventsSearchCmd())
	cmd.AddCommand(newEventsCreateCmd())
	cmd.AddCommand(newEventsUpdateCmd())
	cmd.AddCommand(newEventsCancelCmd())
	cmd.AddCommand(newEventsAttendeesCmd())
	cmd.AddCommand(newEventsTypesCmd())
	cmd.AddCommand(newEventChildCmd("tickets", "Manage an event's ticket types", "event_ticket_types", "ticket type",
		func(c *api.Client) eventChildService { return c.EventTicketTypes() }))
	cmd.AddCommand(newEventChildCmd("questions", "Manage an event's questions", "questions", "question",
		func(c *api.Client) eventChildService { return c.EventQuestions() }))

	return cmd
}

func newEventsListCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List events",
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
			events, err := client.Events().All(cmd.Context(), m)
			if err != nil {
				return err
			}
			return printRecords(cmd, events, eventColumns...)
		},
	}

	addModeFlag(cmd, &mode)
	return cmd
}

func newEventsGetCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "get <event-id>",
		Short: "Show one event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "event ID")
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
			event, err := client.Events().Get(cmd.Context(), id, m)
			if err != nil {
				return err
			}
			return printRecord(cmd, event)
		},
	}

	addModeFlag(cmd, &mode)
	return cmd
}

func newEventsSearchCmd() *cobra.Command {
	var (
		mode    string
		filters map[string]string
		data    dataFlags
	)

	cmd := &cobra.Command{
		Use:     "search",
		Short:   "Search events by field values",
		Example: `  unioncloud events search --filter event_name=Freshers`,
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
			events, err := client.Events().Search(cmd.Context(), query, m)
			if err != nil {
				return err
			}
			return printRecords(cmd, events, eventColumns...)
		},
	}

	addModeFlag(cmd, &mode)
	addFilterFlags(cmd, &filters, &data)
	return cmd
}

func newEventsCreateCmd() *cobra.Command {
	var data dataFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rec, err := data.record(cmd)
			if err != nil {
				return err
			}
			if done, err := previewWrite(cmd, http.MethodPost, "/events", "event", rec); done {
				return err
			}
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			created, err := client.Events().Create(cmd.Context(), rec)
			if err != nil {
				return err
			}
			return printRecords(cmd, created, eventColumns...)
		},
	}

	addDataFlags(cmd, &data)
	return cmd
}

func newEventsUpdateCmd() *cobra.Command {
	var data dataFlags

	cmd := &cobra.Command{
		Use:   "update <event-id>",
		Short: "Update an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "event ID")
			if err != nil {
				return err
			}
			rec, err := data.record(cmd)
			if err != nil {
				return err
			}
			if done, err := previewWrite(cmd, http.MethodPut, fmt.Sprintf("/events/%d", id), fmt.Sprintf("event %d", id), rec); done {
				return err
			}
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			updated, err := client.Events().Update(cmd.Context(), id, rec)
			if err != nil {
				return err
			}
			return printRecords(cmd, updated, eventColumns...)
		},
	}

	addDataFlags(cmd, &data)
	return cmd
}

func newEventsCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <event-id>",
		Short: "Cancel an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "event ID")
			if err != nil {
				return err
			}
			if done, err := previewWrite(cmd, http.MethodPut, fmt.Sprintf("/events/%d/cancel", id), fmt.Sprintf("event %d", id), nil); done {
				return err
			}
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			cancelled, err := client.Events().Cancel(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printRecords(cmd, cancelled, eventColumns...)
		},
	}
}

func newEventsAttendeesCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "attendees <event-id>",
		Short: "List an event's attendees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "event ID")
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
			attendees, err := client.Events().Attendees(cmd.Context(), id, m)
			if err != nil {
				return err
			}
			return printRecords(cmd, attendees, "uid", "forename", "surname", "email", "ticket_type_name")
		},
	}

	addModeFlag(cmd, &mode)
	return cmd
}

func newEventsTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List event types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			types, err := client.EventTypes().List(cmd.Context())
			if err != nil {
				return err
			}
			return printRecords(cmd, types, "event_type_id", "event_type_name")
		},
	}
}

// eventChildService is implemented by the resources nested under an event.
type eventChildService interface {
	Create(ctx context.Context, eventID int, data api.Record) ([]api.Record, error)
	Update(ctx context.Context, eventID, childID int, data api.Record) ([]api.Record, error)
	Delete(ctx context.Context, eventID, childID int) ([]api.Record, error)
}

func newEventChildCmd(use, short, kind, idName string, service func(*api.Client) eventChildService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}

	var createData dataFlags
	create := &cobra.Command{
		Use:   "create <event-id>",
		Short: "Add one to an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID, err := parseID(args[0], "event ID")
			if err != nil {
				return err
			}
			rec, err := createData.record(cmd)
			if err != nil {
				return err
			}
			if done, err := previewWrite(cmd, http.MethodPost, fmt.Sprintf("/events/%d/%s", eventID, kind), fmt.Sprintf("%s on event %d", idName, eventID), rec); done {
				return err
			}
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			created, err := service(client).Create(cmd.Context(), eventID, rec)
			if err != nil {
				return err
			}
			return printRecords(cmd, created)
		},
	}
	addDataFlags(create, &createData)

	var updateData dataFlags
	update := &cobra.Command{
		Use:   "update <event-id> <id>",
		Short: "Update one on an event",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID, childID, err := parseEventChildIDs(args, idName)
			if err != nil {
				return err
			}
			rec, err := updateData.record(cmd)
			if err != nil {
				return err
			}
			if done, err := previewWrite(cmd, http.MethodPut, fmt.Sprintf("/events/%d/%s/%d", eventID, kind, childID), fmt.Sprintf("%s %d on event %d", idName, childID, eventID), rec); done {
				return err
			}
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			updated, err := service(client).Update(cmd.Context(), eventID, childID, rec)
			if err != nil {
				return err
			}
			return printRecords(cmd, updated)
		},
	}
	addDataFlags(update, &updateData)

	del := &cobra.Command{
		Use:   "delete <event-id> <id>",
		Short: "Remove one from an event",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID, childID, err := parseEventChildIDs(args, idName)
			if err != nil {
				return err
			}
			if done, err := previewWrite(cmd, http.MethodDelete, fmt.Sprintf("/events/%d/%s/%d", eventID, kind, childID), fmt.Sprintf("%s %d on event %d", idName, childID, eventID), nil); done {
				return err
			}
			client, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			deleted, err := service(client).Delete(cmd.Context(), eventID, childID)
			if err != nil {
				return err
			}
			return printRecords(cmd, deleted)
		},
	}

	cmd.AddCommand(create, update, del)
	return cmd
}

func parseEventChildIDs(args []string, idName string) (int, int, error) {
	eventID, err := parseID(args[0], "event ID")
	if err != nil {
		return 0, 0, err
	}
	childID, err := parseID(args[1], idName+" ID")
	if err != nil {
		return 0, 0, err
	}
	return eventID, childID, nil
}
