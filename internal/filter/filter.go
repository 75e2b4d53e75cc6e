// Package filter applies jq expressions (--jq) to command results.
package filter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// NormalizeExpression undoes shell escaping that breaks jq operators.
// Zsh turns ! into \! even inside single quotes.
func NormalizeExpression(expr string) string {
	return strings.ReplaceAll(expr, `\!`, `!`)
}

// Apply runs expression against data. A single result is returned as-is;
// several are returned as a slice. data may be any JSON-encodable value.
func Apply(data any, expression string) (any, error) {
	if expression == "" {
		return data, nil
	}

	query, err := gojq.Parse(NormalizeExpression(expression))
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	input, err := toJQValue(data)
	if err != nil {
		return nil, err
	}

	results, err := runQuery(query, input)
	if err != nil {
		return nil, err
	}
	return collapse(results), nil
}

// ApplyToJSON filters JSON bytes and returns indented JSON.
func ApplyToJSON(jsonData []byte, expression string) ([]byte, error) {
	if expression == "" {
		return jsonData, nil
	}
	var data any
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	result, err := Apply(data, expression)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(result, "", "  ")
}

func runQuery(query *gojq.Query, data any) ([]any, error) {
	iter := query.Run(data)

	var results []any
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("filter error: %w", err)
		}
		results = append(results, v)
	}
	return results, nil
}

func collapse(results []any) any {
	if len(results) == 1 {
		return results[0]
	}
	return results
}

// toJQValue converts typed Go values (for example []map[string]any) to the
// plain maps, slices and float64s gojq operates on.
func toJQValue(data any) (any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("filter input is not JSON: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("filter input is not JSON: %w", err)
	}
	return out, nil
}
