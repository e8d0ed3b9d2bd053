package errmatch

import (
	"fmt"
	"strings"
)

// Well-known context keys.
const (
	ContextLabel = "label"
	ContextKey   = "key"
	ContextLimit = "limit"
	ContextValue = "value"
)

// Context carries kind-specific details of a failure, such as the field
// label, a limit, or the offending value.
type Context map[string]any

// Label returns the display label of the failing field.
func (c Context) Label() string {
	return c.String(ContextLabel)
}

// Key returns the raw key of the failing field.
func (c Context) Key() string {
	return c.String(ContextKey)
}

// Limit returns the constraint limit, or nil if the kind has none.
func (c Context) Limit() any {
	return c[ContextLimit]
}

// Value returns the offending value.
func (c Context) Value() any {
	return c[ContextValue]
}

// String formats the value stored under key, or returns "" if absent.
func (c Context) String(key string) string {
	v, ok := c[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// ErrorItem is one failure reported by the validation engine.
type ErrorItem struct {
	Kind    Kind
	Message string
	Path    []string
	Context Context
}

// Field returns the dotted path of the failing field.
func (e ErrorItem) Field() string {
	return strings.Join(e.Path, ".")
}
