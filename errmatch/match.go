// Package errmatch reduces the failures reported by a validation engine to a
// single user-facing error.
//
// A Map translates failure kinds into messages. Resolve walks the reported
// items in order and lets the last matching item win. When nothing matches
// it falls back to the map's Fallback entry and finally to the first item's
// own message. Match wraps that resolution into an error, optionally built by
// a caller-supplied Constructor.
package errmatch

import (
	"github.com/m-mizutani/goerr/v2"
)

// Resolution is the outcome of resolving an item sequence: the chosen
// message and the index of the item it belongs to.
type Resolution struct {
	Message string
	Index   int
}

// Constructor builds the final error from the original items and the
// resolved message and index. Its result is returned unchanged.
type Constructor func(items []ErrorItem, message string, index int) error

// Resolve selects one message for items using m.
//
// Items are folded in order. A literal entry records the item's index and,
// if non-empty, replaces the running message. A computed entry records the
// index and always replaces the running message, even with "". If the
// message is still empty after the fold, a computed fallback is called with
// items[0] and the index is reset to 0; a literal fallback is used as is and
// keeps the fold's index. If that is empty too, items[0].Message is used
// with index 0.
//
// Resolve returns ErrNoErrorItems for an empty sequence. Panics raised by
// message functions are not recovered.
func Resolve(m Map, items []ErrorItem) (Resolution, error) {
	if len(items) == 0 {
		return Resolution{}, goerr.Wrap(ErrNoErrorItems, "cannot resolve")
	}

	var (
		message string
		index   int
	)
	for i, item := range items {
		e, ok := m.lookup(item.Kind)
		if !ok {
			continue
		}
		index = i
		if e.IsComputed() {
			message = e.Message(item)
			continue
		}
		if lit := e.Text(); lit != "" {
			message = lit
		}
	}

	if message == "" {
		if fb, ok := m.lookup(Fallback); ok {
			if fb.IsComputed() {
				index = 0
				message = fb.Message(items[index])
			} else {
				message = fb.Text()
			}
		}
	}

	if message == "" {
		index = 0
		message = items[index].Message
	}

	return Resolution{Message: message, Index: index}, nil
}

// Match returns a function turning a failed validation's items into a
// single error. Without a Constructor the result is a *TypeError.
func Match(m Map, ctor Constructor) func(items []ErrorItem) error {
	return func(items []ErrorItem) error {
		res, err := Resolve(m, items)
		if err != nil {
			return err
		}
		if ctor != nil {
			return ctor(items, res.Message, res.Index)
		}
		return &TypeError{
			Message: res.Message,
			Index:   res.Index,
			Item:    items[res.Index],
		}
	}
}
