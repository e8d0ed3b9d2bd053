package validation

import "reflect"

// Test helpers exposing internals to validation_test.

func KindFor(tag string, t reflect.Type) string {
	return string(kindFor(tag, classify(t)))
}

var ParseLimit = parseLimit
