package errmatch_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/oszuidwest/zwfm-errmatch/errmatch"
)

func TestKind_Category(t *testing.T) {
	tests := []struct {
		kind errmatch.Kind
		want errmatch.Category
	}{
		{errmatch.AnyRequired, errmatch.CategoryAny},
		{errmatch.StringRegexInvertName, errmatch.CategoryString},
		{errmatch.DateTimestampUnix, errmatch.CategoryDate},
		{errmatch.ObjectRenameRegexOverride, errmatch.CategoryObject},
		{errmatch.Kind("custom"), errmatch.Category("custom")},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			gt.Value(t, tt.kind.Category()).Equal(tt.want)
		})
	}
}

func TestKinds_Vocabulary(t *testing.T) {
	kinds := errmatch.Kinds()
	gt.Array(t, kinds).Length(114)

	seen := map[errmatch.Kind]bool{}
	for _, k := range kinds {
		gt.Bool(t, seen[k]).False()
		seen[k] = true
		gt.Bool(t, k.Known()).True()
	}

	gt.Bool(t, errmatch.Fallback.Known()).False()
	gt.Bool(t, errmatch.Kind("string.nope").Known()).False()

	// Callers cannot mutate the shared vocabulary.
	kinds[0] = "mutated"
	gt.Value(t, errmatch.Kinds()[0]).Equal(errmatch.AnyUnknown)
}

func TestKindsOf(t *testing.T) {
	gt.Array(t, errmatch.KindsOf(errmatch.CategoryLazy)).Length(2)
	gt.Array(t, errmatch.KindsOf(errmatch.CategorySymbol)).Length(2)
	gt.Array(t, errmatch.KindsOf(errmatch.CategoryBoolean)).Length(1)
	gt.Array(t, errmatch.KindsOf(errmatch.Category("nope"))).Length(0)

	total := 0
	for _, c := range errmatch.Categories() {
		total += len(errmatch.KindsOf(c))
	}
	gt.Number(t, total).Equal(len(errmatch.Kinds()))
}

func TestKinds_MatchesErrorMapKeys(t *testing.T) {
	// The full vocabulary, in declaration order.
	want := []string{
		"any.unknown",
		"any.invalid",
		"any.empty",
		"any.required",
		"any.allowOnly",
		"any.default",
		"alternatives.base",
		"alternatives.child",
		"array.base",
		"array.includes",
		"array.includesSingle",
		"array.includesOne",
		"array.includesOneSingle",
		"array.includesRequiredUnknowns",
		"array.includesRequiredKnowns",
		"array.includesRequiredBoth",
		"array.excludes",
		"array.excludesSingle",
		"array.min",
		"array.max",
		"array.length",
		"array.ordered",
		"array.orderedLength",
		"array.ref",
		"array.sparse",
		"array.unique",
		"boolean.base",
		"binary.base",
		"binary.min",
		"binary.max",
		"binary.length",
		"date.base",
		"date.format",
		"date.strict",
		"date.min",
		"date.max",
		"date.less",
		"date.greater",
		"date.isoDate",
		"date.timestamp.javascript",
		"date.timestamp.unix",
		"date.ref",
		"function.base",
		"function.arity",
		"function.minArity",
		"function.maxArity",
		"function.ref",
		"function.class",
		"lazy.base",
		"lazy.schema",
		"object.base",
		"object.child",
		"object.min",
		"object.max",
		"object.length",
		"object.allowUnknown",
		"object.with",
		"object.without",
		"object.missing",
		"object.xor",
		"object.or",
		"object.and",
		"object.nand",
		"object.assert",
		"object.rename.multiple",
		"object.rename.override",
		"object.rename.regex.multiple",
		"object.rename.regex.override",
		"object.type",
		"object.schema",
		"number.base",
		"number.min",
		"number.max",
		"number.less",
		"number.greater",
		"number.float",
		"number.integer",
		"number.negative",
		"number.positive",
		"number.precision",
		"number.ref",
		"number.multiple",
		"number.port",
		"string.base",
		"string.min",
		"string.max",
		"string.length",
		"string.alphanum",
		"string.token",
		"string.regex.base",
		"string.regex.name",
		"string.regex.invert.base",
		"string.regex.invert.name",
		"string.email",
		"string.uri",
		"string.uriRelativeOnly",
		"string.uriCustomScheme",
		"string.isoDate",
		"string.guid",
		"string.hex",
		"string.hexAlign",
		"string.base64",
		"string.dataUri",
		"string.hostname",
		"string.normalize",
		"string.lowercase",
		"string.uppercase",
		"string.trim",
		"string.creditCard",
		"string.ref",
		"string.ip",
		"string.ipVersion",
		"symbol.base",
		"symbol.map",
	}

	got := errmatch.Kinds()
	gt.Array(t, got).Length(len(want)).Required()
	for i, k := range got {
		gt.Value(t, string(k)).Equal(want[i])
	}
	gt.Bool(t, errmatch.StringBase64.Known()).True()
	gt.Value(t, errmatch.StringBase64.Category()).Equal(errmatch.CategoryString)
}
