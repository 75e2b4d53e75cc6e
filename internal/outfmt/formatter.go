package outfmt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// Formatter handles output formatting for commands.
type Formatter struct {
	ctx    context.Context
	out    io.Writer
	errOut io.Writer
}

// NewFormatter creates a new Formatter
func NewFormatter(ctx context.Context, out, errOut io.Writer) *Formatter {
	return &Formatter{ctx: ctx, out: out, errOut: errOut}
}

// Structured reports whether Output will write the data itself. In text
// mode without a --jq query the caller renders a table instead.
func (f *Formatter) Structured() bool {
	return ModeFromContext(f.ctx) != Text || GetQuery(f.ctx) != ""
}

// Output writes data in the context's mode after applying any --jq query.
// A query in text mode prints the filtered result as JSON.
func (f *Formatter) Output(data any) error {
	filtered, err := ApplyQuery(data, GetQuery(f.ctx))
	if err != nil {
		return err
	}
	switch ModeFromContext(f.ctx) {
	case JSONL:
		return WriteJSONL(f.out, filtered)
	case YAML:
		return WriteYAML(f.out, filtered)
	default:
		return WriteJSON(f.out, filtered)
	}
}

// Table renders rows under headers.
func (f *Formatter) Table(headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(f.out)
	cols := make([]any, len(headers))
	for i, h := range headers {
		cols[i] = h
	}
	table.Header(cols...)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// Records renders one row per record using the given keys as columns.
func (f *Formatter) Records(keys []string, records []map[string]any) error {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(keys))
		for i, k := range keys {
			row[i] = Cell(rec[k])
		}
		rows = append(rows, row)
	}
	return f.Table(keys, rows)
}

// Record renders a single record as a property/value table, keys sorted.
func (f *Formatter) Record(rec map[string]any) error {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, Cell(rec[k])})
	}
	return f.Table([]string{"Property", "Value"}, rows)
}

// Empty writes a message to stderr indicating no results.
func (f *Formatter) Empty(message string) {
	_, _ = fmt.Fprintln(f.errOut, message)
}

// Cell formats a decoded JSON value for a table cell.
func Cell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}
