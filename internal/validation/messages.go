package validation

import (
	"fmt"
	"strings"

	"github.com/oszuidwest/zwfm-errmatch/errmatch"
)

// phrases holds the default wording per kind. A %s verb receives the limit.
var phrases = map[errmatch.Kind]string{
	errmatch.AnyRequired:      "is required",
	errmatch.AnyUnknown:       "is not allowed",
	errmatch.AnyInvalid:       "contains an invalid value",
	errmatch.AnyDefault:       "must be left at its default value",
	errmatch.StringMin:        "length must be at least %s characters long",
	errmatch.StringMax:        "length must be less than or equal to %s characters long",
	errmatch.StringLength:     "length must be %s characters long",
	errmatch.NumberMin:        "must be greater than or equal to %s",
	errmatch.NumberMax:        "must be less than or equal to %s",
	errmatch.NumberGreater:    "must be greater than %s",
	errmatch.NumberLess:       "must be less than %s",
	errmatch.NumberBase:       "must be a number",
	errmatch.NumberPort:       "must be a valid port",
	errmatch.ArrayMin:         "must contain at least %s items",
	errmatch.ArrayMax:         "must contain less than or equal to %s items",
	errmatch.ArrayLength:      "must contain %s items",
	errmatch.ArrayUnique:      "contains a duplicate value",
	errmatch.ObjectMin:        "must have at least %s keys",
	errmatch.ObjectMax:        "must have less than or equal to %s keys",
	errmatch.ObjectLength:     "must have %s keys",
	errmatch.ObjectWith:       "missing required peer %q",
	errmatch.ObjectWithout:    "conflict with forbidden peer %q",
	errmatch.ObjectMissing:    "must be set when %s is missing",
	errmatch.BinaryMin:        "must be at least %s bytes",
	errmatch.BinaryMax:        "must be less than or equal to %s bytes",
	errmatch.BinaryLength:     "must be %s bytes",
	errmatch.DateMin:          "must be larger than or equal to %s",
	errmatch.DateMax:          "must be less than or equal to %s",
	errmatch.DateGreater:      "must be greater than %s",
	errmatch.DateLess:         "must be less than %s",
	errmatch.DateFormat:       "must be in %s format",
	errmatch.BooleanBase:      "must be a boolean",
	errmatch.StringEmail:      "must be a valid email",
	errmatch.StringURI:        "must be a valid uri",
	errmatch.StringHostname:   "must be a valid hostname",
	errmatch.StringIP:         "must be a valid ip address",
	errmatch.StringIPVersion:  "must be a valid ip address of the required version",
	errmatch.StringAlphanum:   "must only contain alpha-numeric characters",
	errmatch.StringHex:        "must only contain hexadecimal characters",
	errmatch.StringBase64:     "must be a valid base64 string",
	errmatch.StringDataURI:    "must be a valid dataUri string",
	errmatch.StringGUID:       "must be a valid GUID",
	errmatch.StringLowercase:  "must only contain lowercase characters",
	errmatch.StringUppercase:  "must only contain uppercase characters",
	errmatch.StringCreditCard: "must be a credit card",
}

// defaultMessage renders the built-in message for an item, prefixed by its
// quoted label.
func defaultMessage(kind errmatch.Kind, tag string, ctx errmatch.Context) string {
	label := fmt.Sprintf("%q", ctx.Label())

	if kind == errmatch.AnyAllowOnly {
		if valids, ok := ctx[ContextValids].([]string); ok {
			return fmt.Sprintf("%s must be one of [%s]", label, strings.Join(valids, ", "))
		}
		return fmt.Sprintf("%s must be %s", label, ctx.String(errmatch.ContextLimit))
	}

	phrase, ok := phrases[kind]
	if !ok {
		return fmt.Sprintf("%s failed validation '%s'", label, tag)
	}
	if strings.Contains(phrase, "%") {
		phrase = fmt.Sprintf(phrase, ctx.String(errmatch.ContextLimit))
	}
	return label + " " + phrase
}
