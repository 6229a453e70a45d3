package common

import (
	"fmt"
	"math"
	"strings"
)

// StringArg returns a trimmed string argument, or "" when absent or not a
// string.
func StringArg(args map[string]interface{}, key string) string {
	v, ok := args[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

// RequiredStringArg is StringArg that fails on an empty value.
func RequiredStringArg(args map[string]interface{}, key string) (string, error) {
	v := StringArg(args, key)
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

// IntArg returns an integer argument. JSON numbers arrive as float64 and
// must be whole. ok is false when the argument is absent.
func IntArg(args map[string]interface{}, key string) (value int, ok bool, err error) {
	raw, present := args[key]
	if !present || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false, fmt.Errorf("%s must be a whole number, got %v", key, v)
		}
		return int(v), true, nil
	case int:
		return v, true, nil
	default:
		return 0, false, fmt.Errorf("%s must be a number", key)
	}
}

// IntPtrArg returns nil when the argument is absent.
func IntPtrArg(args map[string]interface{}, key string) (*int, error) {
	v, ok, err := IntArg(args, key)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}

// BoolArg returns a boolean argument, false when absent.
func BoolArg(args map[string]interface{}, key string) bool {
	v, _ := args[key].(bool)
	return v
}

// StringListArg accepts a comma-separated string or an array of strings.
// Empty entries are dropped.
func StringListArg(args map[string]interface{}, key string) []string {
	var parts []string
	switch v := args[key].(type) {
	case string:
		parts = strings.Split(v, ",")
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
	case []string:
		parts = v
	}
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
