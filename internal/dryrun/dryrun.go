// Package dryrun previews write requests without sending them.
package dryrun

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

type contextKey struct{}

// WithDryRun returns a context with dry-run mode set.
func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, contextKey{}, enabled)
}

// IsEnabled reports whether dry-run mode is set on ctx.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(contextKey{}).(bool); ok {
		return v
	}
	return false
}

// Preview describes a write request that was not sent.
type Preview struct {
	Method   string            `json:"method"`
	Path     string            `json:"path"`
	Resource string            `json:"resource"`
	Payload  any               `json:"payload,omitempty"`
	Query    map[string]string `json:"query,omitempty"`
}

// Write renders the preview for a terminal.
func (p *Preview) Write(w io.Writer) {
	_, _ = fmt.Fprintf(w, "[DRY-RUN] %s /api%s (%s)\n", p.Method, p.Path, p.Resource)

	if len(p.Query) > 0 {
		keys := make([]string, 0, len(p.Query))
		for k := range p.Query {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = fmt.Fprintf(w, "  %s=%s\n", k, p.Query[k])
		}
	}

	if p.Payload != nil {
		raw, err := json.MarshalIndent(p.Payload, "  ", "  ")
		if err == nil {
			_, _ = fmt.Fprintf(w, "  %s\n", raw)
		}
	}

	_, _ = fmt.Fprintln(w, "No changes made (dry-run mode)")
}

// Structured returns the preview as a map for JSON or YAML output.
func (p *Preview) Structured() map[string]any {
	out := map[string]any{
		"dry_run":  true,
		"method":   p.Method,
		"path":     "/api" + p.Path,
		"resource": p.Resource,
	}
	if p.Payload != nil {
		out["payload"] = p.Payload
	}
	if len(p.Query) > 0 {
		out["query"] = p.Query
	}
	return out
}
