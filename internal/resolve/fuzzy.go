// Package resolve turns user-typed names into UnionCloud numeric IDs.
package resolve

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Named is anything with a numeric ID and a display name.
type Named struct {
	ID   int
	Name string
}

// Match is a ranked fuzzy result.
type Match struct {
	ID    int
	Name  string
	Score int
}

var (
	ErrEmptyQuery = errors.New("empty search query")
	ErrEmptyItems = errors.New("no items to match against")
)

// AmbiguousError means the best candidates scored the same.
type AmbiguousError struct {
	Query   string
	Matches []Match
}

func (e *AmbiguousError) Error() string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "ambiguous match for %q", e.Query)
	if len(e.Matches) > 0 {
		b.WriteString(", candidates:")
		for _, m := range e.Matches {
			_, _ = fmt.Fprintf(&b, "\n  %d: %s", m.ID, m.Name)
		}
	}
	return b.String()
}

type lowerNames []Named

func (s lowerNames) String(i int) string { return strings.ToLower(s[i].Name) }
func (s lowerNames) Len() int            { return len(s) }

// FromRecords builds Named values from decoded API records, reading the ID
// from idKey and the name from nameKey. Records without a numeric ID or
// a name are skipped.
func FromRecords(records []map[string]any, idKey, nameKey string) []Named {
	out := make([]Named, 0, len(records))
	for _, rec := range records {
		id, ok := numericID(rec[idKey])
		if !ok {
			continue
		}
		name, _ := rec[nameKey].(string)
		if name == "" {
			continue
		}
		out = append(out, Named{ID: id, Name: name})
	}
	return out
}

func numericID(v any) (int, bool) {
	switch id := v.(type) {
	case float64:
		return int(id), id == float64(int(id))
	case int:
		return id, true
	case string:
		n, err := strconv.Atoi(id)
		return n, err == nil
	default:
		return 0, false
	}
}

// FuzzyMatch returns the ID of the item whose name best matches query.
// A case-insensitive exact match always wins. A tie between the two best
// fuzzy results is an *AmbiguousError.
func FuzzyMatch(query string, items []Named) (int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, ErrEmptyQuery
	}
	if len(items) == 0 {
		return 0, ErrEmptyItems
	}

	for _, item := range items {
		if strings.EqualFold(item.Name, query) {
			return item.ID, nil
		}
	}

	results := fuzzy.FindFrom(strings.ToLower(query), lowerNames(items))
	if len(results) == 0 {
		return 0, fmt.Errorf("no match found for %q", query)
	}
	if len(results) > 1 && results[0].Score == results[1].Score {
		return 0, &AmbiguousError{Query: query, Matches: buildMatches(items, results, 5)}
	}
	return items[results[0].Index].ID, nil
}

// FuzzyMatchAll returns up to limit matches, best first.
func FuzzyMatchAll(query string, items []Named, limit int) []Match {
	query = strings.TrimSpace(query)
	if query == "" || len(items) == 0 || limit <= 0 {
		return nil
	}
	return buildMatches(items, fuzzy.FindFrom(strings.ToLower(query), lowerNames(items)), limit)
}

// ID parses arg as a numeric ID, or loads candidates and matches arg
// against their names. load is only called for non-numeric input.
func ID(arg string, load func() ([]Named, error)) (int, error) {
	if id, err := strconv.Atoi(strings.TrimSpace(arg)); err == nil {
		if id <= 0 {
			return 0, fmt.Errorf("invalid ID %d: must be positive", id)
		}
		return id, nil
	}
	items, err := load()
	if err != nil {
		return 0, err
	}
	return FuzzyMatch(arg, items)
}

func buildMatches(items []Named, results fuzzy.Matches, limit int) []Match {
	if len(results) == 0 || limit <= 0 {
		return nil
	}
	if len(results) > limit {
		results = results[:limit]
	}
	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{ID: items[r.Index].ID, Name: items[r.Index].Name, Score: r.Score}
	}
	return matches
}
