package validation

import (
	"reflect"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oszuidwest/zwfm-errmatch/errmatch"
)

// valueClass groups reflect kinds the way failure kinds are categorised.
type valueClass int

const (
	classOther valueClass = iota
	classString
	classNumber
	classArray
	classObject
	classBinary
	classDate
	classBool
)

var timeType = reflect.TypeOf(time.Time{})

func classify(t reflect.Type) valueClass {
	if t == nil {
		return classOther
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == timeType {
		return classDate
	}
	switch t.Kind() {
	case reflect.String:
		return classString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return classNumber
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return classBinary
		}
		return classArray
	case reflect.Map, reflect.Struct:
		return classObject
	case reflect.Bool:
		return classBool
	default:
		return classOther
	}
}

// Size-like tags whose kind depends on the field type.
var sized = map[string]map[valueClass]errmatch.Kind{
	"min": {
		classString: errmatch.StringMin,
		classNumber: errmatch.NumberMin,
		classArray:  errmatch.ArrayMin,
		classObject: errmatch.ObjectMin,
		classBinary: errmatch.BinaryMin,
		classDate:   errmatch.DateMin,
	},
	"max": {
		classString: errmatch.StringMax,
		classNumber: errmatch.NumberMax,
		classArray:  errmatch.ArrayMax,
		classObject: errmatch.ObjectMax,
		classBinary: errmatch.BinaryMax,
		classDate:   errmatch.DateMax,
	},
	"len": {
		classString: errmatch.StringLength,
		classArray:  errmatch.ArrayLength,
		classObject: errmatch.ObjectLength,
		classBinary: errmatch.BinaryLength,
	},
	"gt": {
		classNumber: errmatch.NumberGreater,
		classDate:   errmatch.DateGreater,
		classString: errmatch.StringMin,
		classArray:  errmatch.ArrayMin,
	},
	"lt": {
		classNumber: errmatch.NumberLess,
		classDate:   errmatch.DateLess,
		classString: errmatch.StringMax,
		classArray:  errmatch.ArrayMax,
	},
}

func init() {
	sized["gte"] = sized["min"]
	sized["lte"] = sized["max"]
}

// Tags with a single kind regardless of field type.
var fixed = map[string]errmatch.Kind{
	"required":             errmatch.AnyRequired,
	"required_if":          errmatch.AnyRequired,
	"required_unless":      errmatch.AnyRequired,
	"required_with":        errmatch.ObjectWith,
	"required_with_all":    errmatch.ObjectWith,
	"required_without":     errmatch.ObjectMissing,
	"required_without_all": errmatch.ObjectMissing,
	"excluded_with":        errmatch.ObjectWithout,
	"excluded_with_all":    errmatch.ObjectWithout,
	"excluded":             errmatch.AnyUnknown,
	"isdefault":            errmatch.AnyDefault,
	"oneof":                errmatch.AnyAllowOnly,
	"eq":                   errmatch.AnyAllowOnly,
	"eqfield":              errmatch.AnyAllowOnly,
	"ne":                   errmatch.AnyInvalid,
	"nefield":              errmatch.AnyInvalid,
	"email":                errmatch.StringEmail,
	"url":                  errmatch.StringURI,
	"http_url":             errmatch.StringURI,
	"uri":                  errmatch.StringURI,
	"hostname":             errmatch.StringHostname,
	"hostname_rfc1123":     errmatch.StringHostname,
	"fqdn":                 errmatch.StringHostname,
	"ip":                   errmatch.StringIP,
	"ipv4":                 errmatch.StringIPVersion,
	"ipv6":                 errmatch.StringIPVersion,
	"alphanum":             errmatch.StringAlphanum,
	"hexadecimal":          errmatch.StringHex,
	"base64":               errmatch.StringBase64,
	"datauri":              errmatch.StringDataURI,
	"uuid":                 errmatch.StringGUID,
	"uuid4":                errmatch.StringGUID,
	"lowercase":            errmatch.StringLowercase,
	"uppercase":            errmatch.StringUppercase,
	"credit_card":          errmatch.StringCreditCard,
	"datetime":             errmatch.DateFormat,
	"boolean":              errmatch.BooleanBase,
	"number":               errmatch.NumberBase,
	"numeric":              errmatch.NumberBase,
	"unique":               errmatch.ArrayUnique,
	"port":                 errmatch.NumberPort,
}

// KindOf returns the failure kind for a validator error. Tags without a
// known equivalent are passed through verbatim.
func KindOf(fe validator.FieldError) errmatch.Kind {
	return kindFor(fe.Tag(), classify(fe.Type()))
}

func kindFor(tag string, class valueClass) errmatch.Kind {
	if byClass, ok := sized[tag]; ok {
		if k, ok := byClass[class]; ok {
			return k
		}
	}
	if k, ok := fixed[tag]; ok {
		return k
	}
	return errmatch.Kind(tag)
}

// parseLimit returns param as an int or float when it is numeric.
func parseLimit(param string) any {
	if n, err := strconv.ParseInt(param, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(param, 64); err == nil {
		return f
	}
	return param
}
