// Package validation adapts go-playground/validator failures into error
// items that errmatch can resolve.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/m-mizutani/goerr/v2"
	"github.com/oszuidwest/zwfm-errmatch/errmatch"
)

// Context keys added on top of the errmatch defaults.
const (
	ContextTag    = "tag"
	ContextValids = "valids"
	ContextPeer   = "peer"
)

// Validator validates structs and reports failures as error items.
// It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator that labels fields by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag names in labels instead of struct field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &Validator{validate: v}
}

// Engine returns the underlying validator, e.g. to register custom tags.
func (v *Validator) Engine() *validator.Validate {
	return v.validate
}

// Items validates s and returns one item per failed constraint, in struct
// field order. A nil slice means s is valid.
func (v *Validator) Items(s any) ([]errmatch.ErrorItem, error) {
	err := v.validate.Struct(s)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, goerr.Wrap(err, "failed to validate", goerr.V("type", reflect.TypeOf(s)))
	}

	return Convert(verrs), nil
}

// Check validates s and, on failure, hands the items to resolve and returns
// its error. It returns nil when s is valid.
func (v *Validator) Check(s any, resolve func([]errmatch.ErrorItem) error) error {
	items, err := v.Items(s)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return resolve(items)
}

// Convert translates validator errors into error items.
func Convert(verrs validator.ValidationErrors) []errmatch.ErrorItem {
	items := make([]errmatch.ErrorItem, 0, len(verrs))
	for _, fe := range verrs {
		items = append(items, convertOne(fe))
	}
	return items
}

func convertOne(fe validator.FieldError) errmatch.ErrorItem {
	kind := KindOf(fe)
	label := fe.Field()

	ctx := errmatch.Context{
		errmatch.ContextLabel: label,
		errmatch.ContextKey:   fe.StructField(),
		errmatch.ContextValue: fe.Value(),
		ContextTag:            fe.Tag(),
	}
	if param := fe.Param(); param != "" {
		ctx[errmatch.ContextLimit] = parseLimit(param)
		switch fe.Tag() {
		case "oneof":
			ctx[ContextValids] = strings.Fields(param)
		case "required_with", "required_with_all", "required_without", "required_without_all",
			"excluded_with", "excluded_with_all", "eqfield", "nefield":
			ctx[ContextPeer] = param
		}
	}

	return errmatch.ErrorItem{
		Kind:    kind,
		Message: defaultMessage(kind, fe.Tag(), ctx),
		Path:    fieldPath(fe.Namespace()),
		Context: ctx,
	}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) []string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return parts
}
