package outfmt

import (
	"context"

	"github.com/yusu/unioncloud-cli/internal/filter"
)

type queryKey struct{}

// WithQuery adds a JQ query to the context
func WithQuery(ctx context.Context, query string) context.Context {
	return context.WithValue(ctx, queryKey{}, query)
}

// GetQuery retrieves the JQ query from context
func GetQuery(ctx context.Context) string {
	if q, ok := ctx.Value(queryKey{}).(string); ok {
		return q
	}
	return ""
}

// ApplyQuery filters v with query. An empty query returns v unchanged.
func ApplyQuery(v any, query string) (any, error) {
	if query == "" {
		return v, nil
	}
	return filter.Apply(v, query)
}
