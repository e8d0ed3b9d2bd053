// Package types provides shared type definitions used by the server and CLI.
package types

import (
	"github.com/oszuidwest/zwfm-errmatch/errmatch"
)

// ResolvedError is the single error reported for a failed validation.
type ResolvedError struct {
	Message string `json:"message"`         // Resolved user-facing message
	Index   int    `json:"index"`           // Position of the winning item
	Kind    string `json:"kind"`            // Failure kind of the winning item
	Field   string `json:"field,omitempty"` // Dotted path of the winning field
	Value   any    `json:"value,omitempty"` // The invalid value that was provided
	Count   int    `json:"count"`           // Number of failures reported
}

func (e *ResolvedError) Error() string {
	return e.Message
}

// NewResolvedError builds a ResolvedError from a resolution. It satisfies
// errmatch.Constructor.
func NewResolvedError(items []errmatch.ErrorItem, message string, index int) error {
	winner := items[index]
	return &ResolvedError{
		Message: message,
		Index:   index,
		Kind:    string(winner.Kind),
		Field:   winner.Field(),
		Value:   winner.Context.Value(),
		Count:   len(items),
	}
}
