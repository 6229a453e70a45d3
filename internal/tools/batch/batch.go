package batch

import (
	"context"
	"fmt"
	"strings"
)

// Item statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// Result is the outcome of one item.
type Result[T any] struct {
	Item   string `json:"item"`
	Status string `json:"status"`
	Value  *T     `json:"value,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Report aggregates the results of a batch.
type Report[T any] struct {
	Total     int         `json:"total"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Skipped   int         `json:"skipped,omitempty"`
	Results   []Result[T] `json:"results"`
}

// ParseStringOrArray parses a tool argument that is either a single string
// or an array of strings. Entries are trimmed and must not be empty.
func ParseStringOrArray(param any, paramName string) ([]string, error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", paramName)
	}

	var raw []any
	switch v := param.(type) {
	case string:
		raw = []any{v}
	case []string:
		for _, s := range v {
			raw = append(raw, s)
		}
	case []any:
		raw = v
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s cannot be empty", paramName)
	}

	out := make([]string, 0, len(raw))
	for i, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			if len(raw) == 1 {
				return nil, fmt.Errorf("%s cannot be empty", paramName)
			}
			return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
		}
		out = append(out, s)
	}
	return out, nil
}

// Process calls fn for each item in order and collects the outcomes. Once
// ctx is done the remaining items are reported as skipped.
func Process[T any](ctx context.Context, items []string, fn func(ctx context.Context, item string) (T, error)) Report[T] {
	report := Report[T]{
		Total:   len(items),
		Results: make([]Result[T], 0, len(items)),
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			report.Results = append(report.Results, Result[T]{Item: item, Status: StatusSkipped, Error: err.Error()})
			report.Skipped++
			continue
		}
		v, err := fn(ctx, item)
		if err != nil {
			report.Results = append(report.Results, Result[T]{Item: item, Status: StatusError, Error: err.Error()})
			report.Failed++
			continue
		}
		report.Results = append(report.Results, Result[T]{Item: item, Status: StatusSuccess, Value: &v})
		report.Succeeded++
	}

	return report
}

// OK reports whether every item succeeded.
func (r Report[T]) OK() bool {
	return r.Succeeded == r.Total
}
