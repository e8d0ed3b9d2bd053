package errmatch_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/oszuidwest/zwfm-errmatch/errmatch"
)

func TestEntry_Variants(t *testing.T) {
	lit := errmatch.Literal("x")
	gt.Bool(t, lit.IsZero()).False()
	gt.Bool(t, lit.IsComputed()).False()
	gt.Value(t, lit.Message(errmatch.ErrorItem{})).Equal("x")

	comp := errmatch.Computed(func(e errmatch.ErrorItem) string { return string(e.Kind) })
	gt.Bool(t, comp.IsComputed()).True()
	gt.Value(t, comp.Text()).Equal("")
	gt.Value(t, comp.Message(errmatch.ErrorItem{Kind: errmatch.AnyEmpty})).Equal("any.empty")

	gt.Bool(t, errmatch.Computed(nil).IsZero()).True()
	gt.Bool(t, errmatch.Entry{}.IsZero()).True()
	gt.Bool(t, errmatch.Literal("").IsZero()).False()
}

func TestFromValues(t *testing.T) {
	m, err := errmatch.FromValues(map[string]any{
		"any.required": "required",
		"string.min":   errmatch.InvalidLabel("is too short"),
		"string.max":   errmatch.Literal("too long"),
		"fallback":     func(e errmatch.ErrorItem) string { return "fb" },
	})
	gt.NoError(t, err).Required()
	gt.Number(t, len(m)).Equal(4)
	gt.Bool(t, m[errmatch.StringMin].IsComputed()).True()
	gt.Bool(t, m[errmatch.Fallback].IsComputed()).True()
	gt.Value(t, m[errmatch.StringMax].Text()).Equal("too long")
}

func TestFromValues_RejectsUnsupported(t *testing.T) {
	_, err := errmatch.FromValues(map[string]any{"number.min": 3})
	gt.Error(t, err).Is(errmatch.ErrInvalidEntry)

	_, err = errmatch.FromValues(map[string]any{"number.min": nil})
	gt.Error(t, err).Is(errmatch.ErrInvalidEntry)
}

func TestMap_With(t *testing.T) {
	base := errmatch.Map{errmatch.AnyRequired: errmatch.Literal("a")}
	next := base.With(errmatch.Fallback, errmatch.Literal("b"))

	gt.Number(t, len(base)).Equal(1)
	gt.Number(t, len(next)).Equal(2)

	var empty errmatch.Map
	gt.Number(t, len(empty.With(errmatch.AnyRequired, errmatch.Literal("c")))).Equal(1)
}

func TestInvalidLabel(t *testing.T) {
	e := errmatch.ErrorItem{Context: errmatch.Context{errmatch.ContextLabel: "t"}}

	gt.Value(t, errmatch.InvalidLabel("")(e)).Equal("t is invalid")
	gt.Value(t, errmatch.InvalidLabel("é inválido")(e)).Equal("t é inválido")
}

func TestContext_Accessors(t *testing.T) {
	c := errmatch.Context{
		errmatch.ContextLabel: "age",
		errmatch.ContextKey:   "Age",
		errmatch.ContextLimit: 13,
		errmatch.ContextValue: nil,
	}
	gt.Value(t, c.Label()).Equal("age")
	gt.Value(t, c.Key()).Equal("Age")
	gt.Value(t, c.String(errmatch.ContextLimit)).Equal("13")
	gt.Value(t, c.String(errmatch.ContextValue)).Equal("")
	gt.Value(t, c.String("missing")).Equal("")

	var nilCtx errmatch.Context
	gt.Value(t, nilCtx.Label()).Equal("")

	item := errmatch.ErrorItem{Path: []string{"user", "age"}}
	gt.Value(t, item.Field()).Equal("user.age")
}
