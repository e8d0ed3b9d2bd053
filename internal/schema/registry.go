// Package schema keeps the named request schemas the service validates
// payloads against.
package schema

import (
	"errors"
	"slices"
	"sync"

	"github.com/m-mizutani/goerr/v2"
)

// Sentinel errors for the registry.
var (
	ErrUnknownSchema   = errors.New("unknown schema")
	ErrDuplicateSchema = errors.New("duplicate schema")
)

// Schema describes a request type. New must return a pointer to a fresh
// zero value that JSON can be decoded into.
type Schema struct {
	Name        string
	Description string
	New         func() any
}

// Registry maps schema names to schemas. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]Schema
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]Schema)}
}

// Register adds s to the registry.
func (r *Registry) Register(s Schema) error {
	if s.Name == "" || s.New == nil {
		return goerr.New("schema needs a name and a constructor", goerr.V("name", s.Name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[s.Name]; exists {
		return goerr.Wrap(ErrDuplicateSchema, "cannot register schema", goerr.V("name", s.Name))
	}
	r.schemas[s.Name] = s
	return nil
}

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schemas[name]
	if !ok {
		return Schema{}, goerr.Wrap(ErrUnknownSchema, "schema lookup failed", goerr.V("name", name))
	}
	return s, nil
}

// Names returns the registered schema names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// All returns every schema sorted by name.
func (r *Registry) All() []Schema {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Schema, 0, len(names))
	for _, name := range names {
		if s, ok := r.schemas[name]; ok {
			out = append(out, s)
		}
	}
	return out
}
