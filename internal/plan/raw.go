package plan

import (
	"math"
	"strings"
)

// Raw node field names.
const (
	FieldID               = "id"
	FieldType             = "type"
	FieldTitle            = "title"
	FieldDefinitionOfDone = "definition_of_done"
	FieldDependsOn        = "depends_on"
	FieldOwner            = "owner"
	FieldEstimateHours    = "estimate_hours"
	FieldPriority         = "priority"
)

// FieldOrder is the canonical order of known node fields when writing.
var FieldOrder = []string{
	FieldID, FieldType, FieldTitle, FieldDefinitionOfDone, FieldDependsOn,
	FieldOwner, FieldEstimateHours, FieldPriority,
}

// AsMap returns v as a string-keyed mapping.
func AsMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// NonBlankString returns v when it is a string with non-space content.
func NonBlankString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// StringList returns v as a list of strings. An empty list is valid; nil is not.
func StringList(v any) ([]string, bool) {
	switch l := v.(type) {
	case []string:
		return l, true
	case []any:
		out := make([]string, 0, len(l))
		for _, item := range l {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// Strings returns the string entries of a list, skipping anything else.
// Non-lists yield nil.
func Strings(v any) []string {
	var items []any
	switch l := v.(type) {
	case []string:
		return append([]string(nil), l...)
	case []any:
		items = l
	default:
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// ListLen returns the length of v when it is a list.
func ListLen(v any) (int, bool) {
	switch l := v.(type) {
	case []string:
		return len(l), true
	case []any:
		return len(l), true
	}
	return 0, false
}

// Number returns v as a float64 when it is numeric.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}

// Integer returns v as an int when it is an integer value.
func Integer(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// NodeID returns the id of a raw node record when it has a string id.
func NodeID(raw any) (string, bool) {
	m, ok := AsMap(raw)
	if !ok {
		return "", false
	}
	id, ok := m[FieldID].(string)
	return id, ok
}

// CloneValue deep-copies maps and lists produced by the loaders.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneNode(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = CloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	}
	return v
}

// CloneNode deep-copies a raw node record.
func CloneNode(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}

// StringsToAny converts a string slice to the list shape loaders produce.
func StringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
