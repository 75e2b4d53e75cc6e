package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yusu/unioncloud-cli/internal/api"
	"github.com/yusu/unioncloud-cli/internal/dryrun"
	"github.com/yusu/unioncloud-cli/internal/iocontext"
	"github.com/yusu/unioncloud-cli/internal/outfmt"
)

const maxFallbackColumns = 6

var modeChoices = []string{string(api.ModeBasic), string(api.ModeStandard), string(api.ModeFull)}

func newFormatter(cmd *cobra.Command) *outfmt.Formatter {
	ioStreams := iocontext.GetIO(cmd.Context())
	return outfmt.NewFormatter(cmd.Context(), ioStreams.Out, ioStreams.ErrOut)
}

// parseID parses a positive numeric ID argument.
func parseID(arg, name string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a number", name, arg)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid %s %d: must be positive", name, id)
	}
	return id, nil
}

func parseMode(s string) (api.Mode, error) {
	mode, err := api.ParseMode(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return "", api.NewValidationError("mode", s, modeChoices)
	}
	return mode, nil
}

func addModeFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "mode", "", "Detail level: basic|standard|full (default depends on the endpoint)")
}

func addPageFlag(cmd *cobra.Command, target *int) {
	cmd.Flags().IntVar(target, "page", 1, "Page number")
}

// dataFlags are the --data / --data-file inputs of write commands.
type dataFlags struct {
	Data string
	File string
}

func addDataFlags(cmd *cobra.Command, d *dataFlags) {
	cmd.Flags().StringVar(&d.Data, "data", "", "JSON payload")
	cmd.Flags().StringVar(&d.File, "data-file", "", "Read the JSON payload from a file ('-' for stdin)")
}

func (d dataFlags) read(cmd *cobra.Command) ([]byte, error) {
	switch {
	case d.Data != "" && d.File != "":
		return nil, errors.New("--data and --data-file cannot be used together")
	case d.Data != "":
		return []byte(d.Data), nil
	case d.File != "":
		raw, err := iocontext.GetIO(cmd.Context()).ReadInput(d.File)
		if err != nil {
			return nil, fmt.Errorf("failed to read --data-file: %w", err)
		}
		return raw, nil
	default:
		return nil, errors.New("--data or --data-file is required")
	}
}

// record decodes the payload as a single JSON object.
func (d dataFlags) record(cmd *cobra.Command) (api.Record, error) {
	raw, err := d.read(cmd)
	if err != nil {
		return nil, err
	}
	var rec api.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("invalid argument: payload must be a JSON object: %w", err)
	}
	if rec == nil {
		return nil, errors.New("invalid argument: payload must be a JSON object")
	}
	return rec, nil
}

// records decodes the payload as a JSON array of objects. A single object
// is accepted as a one-element list.
func (d dataFlags) records(cmd *cobra.Command) ([]api.Record, error) {
	raw, err := d.read(cmd)
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "{") {
		rec, err := d.record(cmd)
		if err != nil {
			return nil, err
		}
		return []api.Record{rec}, nil
	}
	var recs []api.Record
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, fmt.Errorf("invalid argument: payload must be a JSON array of objects: %w", err)
	}
	return recs, nil
}

// printRecords writes records in the selected mode. Text mode renders a
// table with the preferred columns that occur in the data.
func printRecords(cmd *cobra.Command, records []api.Record, preferred ...string) error {
	f := newFormatter(cmd)
	if f.Structured() {
		return f.Output(records)
	}
	if len(records) == 0 {
		f.Empty("No results.")
		return nil
	}
	return f.Records(columnsFor(records, preferred), records)
}

func printRecord(cmd *cobra.Command, rec api.Record) error {
	f := newFormatter(cmd)
	if f.Structured() {
		return f.Output(rec)
	}
	return f.Record(rec)
}

// printEnvelope writes a whole response envelope. Text mode renders its
// data rows when it has any.
func printEnvelope(cmd *cobra.Command, env api.Record, preferred ...string) error {
	f := newFormatter(cmd)
	if f.Structured() {
		return f.Output(env)
	}
	rows, ok := envelopeRows(env["data"])
	if !ok {
		return f.Record(env)
	}
	return printRecords(cmd, rows, preferred...)
}

// printValue writes data of unknown shape, such as a decoded export.
func printValue(cmd *cobra.Command, v any, preferred ...string) error {
	switch val := v.(type) {
	case map[string]any:
		return printRecord(cmd, val)
	case []any:
		if rows, ok := envelopeRows(val); ok {
			return printRecords(cmd, rows, preferred...)
		}
	}
	return newFormatter(cmd).Output(v)
}

func envelopeRows(v any) ([]api.Record, bool) {
	switch data := v.(type) {
	case []api.Record:
		return data, true
	case []any:
		rows := make([]api.Record, 0, len(data))
		for _, item := range data {
			rec, ok := item.(map[string]any)
			if !ok {
				return nil, false
			}
			rows = append(rows, rec)
		}
		return rows, true
	default:
		return nil, false
	}
}

// columnsFor returns the preferred keys present in any record, or the
// first record's keys when none are.
func columnsFor(records []api.Record, preferred []string) []string {
	var cols []string
	for _, key := range preferred {
		for _, rec := range records {
			if _, ok := rec[key]; ok {
				cols = append(cols, key)
				break
			}
		}
	}
	if len(cols) > 0 || len(records) == 0 {
		return cols
	}

	for key := range records[0] {
		cols = append(cols, key)
	}
	sort.Strings(cols)
	if len(cols) > maxFallbackColumns {
		cols = cols[:maxFallbackColumns]
	}
	return cols
}

// previewWrite prints the request a write command would send when
// --dry-run is set. done reports that the command should stop there.
func previewWrite(cmd *cobra.Command, method, path, resource string, payload any) (done bool, err error) {
	return writePreview(cmd, &dryrun.Preview{Method: method, Path: path, Resource: resource, Payload: payload})
}

func previewQuery(cmd *cobra.Command, method, path, resource string, query map[string]string) (done bool, err error) {
	return writePreview(cmd, &dryrun.Preview{Method: method, Path: path, Resource: resource, Query: query})
}

func writePreview(cmd *cobra.Command, p *dryrun.Preview) (bool, error) {
	if !dryrun.IsEnabled(cmd.Context()) {
		return false, nil
	}
	f := newFormatter(cmd)
	if f.Structured() {
		return true, f.Output(p.Structured())
	}
	p.Write(iocontext.GetIO(cmd.Context()).Out)
	return true, nil
}

func addFilterFlags(cmd *cobra.Command, filters *map[string]string, d *dataFlags) {
	cmd.Flags().StringToStringVar(filters, "filter", nil, "Search filter as key=value (repeatable)")
	cmd.Flags().StringVar(&d.Data, "data", "", "Search filters as a JSON object")
	cmd.Flags().StringVar(&d.File, "data-file", "", "Read search filters from a JSON file ('-' for stdin)")
}

// searchFilters merges --filter pairs over a --data object.
func searchFilters(cmd *cobra.Command, filters map[string]string, d dataFlags) (api.Record, error) {
	out := api.Record{}
	if d.Data != "" || d.File != "" {
		rec, err := d.record(cmd)
		if err != nil {
			return nil, err
		}
		out = rec
	}
	for k, v := range filters {
		out[k] = v
	}
	if len(out) == 0 {
		return nil, errors.New("at least one --filter or --data is required")
	}
	return out, nil
}
