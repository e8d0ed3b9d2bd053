package types_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/oszuidwest/zwfm-errmatch/errmatch"
	"github.com/oszuidwest/zwfm-errmatch/internal/types"
)

func TestNewResolvedError(t *testing.T) {
	items := []errmatch.ErrorItem{
		{Kind: errmatch.StringMin, Message: "a", Path: []string{"user", "name"}, Context: errmatch.Context{errmatch.ContextValue: "ab"}},
		{Kind: errmatch.AnyRequired, Message: "b", Path: []string{"email"}},
	}

	err := errmatch.Match(errmatch.Map{errmatch.StringMin: errmatch.Literal("too short")}, types.NewResolvedError)(items)

	var re *types.ResolvedError
	gt.Bool(t, errors.As(err, &re)).True()
	gt.Value(t, re.Message).Equal("too short")
	gt.Number(t, re.Index).Equal(0)
	gt.Value(t, re.Kind).Equal("string.min")
	gt.Value(t, re.Field).Equal("user.name")
	gt.Value(t, re.Value).Equal(any("ab"))
	gt.Number(t, re.Count).Equal(2)
	gt.Value(t, re.Error()).Equal("too short")
}
