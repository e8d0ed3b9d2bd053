package errmatch

import (
	"maps"

	"github.com/m-mizutani/goerr/v2"
)

// MessageFunc computes a message from an error item.
type MessageFunc func(item ErrorItem) string

// Entry is a single map value: either a literal message or a computed one.
// The zero Entry is treated as absent.
type Entry struct {
	literal  string
	computed MessageFunc
	set      bool
}

// Literal returns an entry that always yields s.
func Literal(s string) Entry {
	return Entry{literal: s, set: true}
}

// Computed returns an entry that calls fn with the matching item.
// A nil fn yields the zero Entry.
func Computed(fn MessageFunc) Entry {
	if fn == nil {
		return Entry{}
	}
	return Entry{computed: fn, set: true}
}

// IsZero reports whether e holds neither a literal nor a function.
func (e Entry) IsZero() bool {
	return !e.set
}

// IsComputed reports whether e holds a message function.
func (e Entry) IsComputed() bool {
	return e.computed != nil
}

// Text returns the literal message, or "" for computed entries.
func (e Entry) Text() string {
	return e.literal
}

// Message evaluates e against item.
func (e Entry) Message(item ErrorItem) string {
	if e.computed != nil {
		return e.computed(item)
	}
	return e.literal
}

// Map translates failure kinds into messages. The Fallback key holds the
// entry used when no item kind matches. A Map is only read during
// resolution and may be shared between goroutines.
type Map map[Kind]Entry

// FromValues builds a Map from loosely typed values. Each value must be a
// string, a MessageFunc, a func(ErrorItem) string, or an Entry; the key
// "fallback" fills the fallback slot.
func FromValues(values map[string]any) (Map, error) {
	m := make(Map, len(values))
	for key, v := range values {
		switch val := v.(type) {
		case string:
			m[Kind(key)] = Literal(val)
		case MessageFunc:
			m[Kind(key)] = Computed(val)
		case func(ErrorItem) string:
			m[Kind(key)] = Computed(val)
		case Entry:
			m[Kind(key)] = val
		default:
			return nil, goerr.Wrap(ErrInvalidEntry, "unsupported error map value",
				goerr.V("kind", key),
				goerr.V("type", typeName(v)))
		}
	}
	return m, nil
}

// With returns a copy of m with kind set to e.
func (m Map) With(kind Kind, e Entry) Map {
	out := maps.Clone(m)
	if out == nil {
		out = make(Map, 1)
	}
	out[kind] = e
	return out
}

// lookup returns the entry for kind, ignoring zero entries.
func (m Map) lookup(kind Kind) (Entry, bool) {
	e, ok := m[kind]
	if !ok || e.IsZero() {
		return Entry{}, false
	}
	return e, true
}
