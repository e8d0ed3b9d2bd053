package errmatch

import (
	"slices"
	"strings"
)

// Kind identifies which constraint an error item failed, for example
// "string.min" or "any.required". The constants below form the recognized
// vocabulary; any other string is still a valid Kind and is matched by
// plain string equality.
type Kind string

// Fallback is the reserved map slot consulted when no item kind matches.
const Fallback Kind = "fallback"

// Recognized failure kinds.
const (
	// Generic failures.
	AnyUnknown   Kind = "any.unknown"
	AnyInvalid   Kind = "any.invalid"
	AnyEmpty     Kind = "any.empty"
	AnyRequired  Kind = "any.required"
	AnyAllowOnly Kind = "any.allowOnly"
	AnyDefault   Kind = "any.default"

	// Alternatives failures.
	AlternativesBase  Kind = "alternatives.base"
	AlternativesChild Kind = "alternatives.child"

	// Array failures.
	ArrayBase                     Kind = "array.base"
	ArrayIncludes                 Kind = "array.includes"
	ArrayIncludesSingle           Kind = "array.includesSingle"
	ArrayIncludesOne              Kind = "array.includesOne"
	ArrayIncludesOneSingle        Kind = "array.includesOneSingle"
	ArrayIncludesRequiredUnknowns Kind = "array.includesRequiredUnknowns"
	ArrayIncludesRequiredKnowns   Kind = "array.includesRequiredKnowns"
	ArrayIncludesRequiredBoth     Kind = "array.includesRequiredBoth"
	ArrayExcludes                 Kind = "array.excludes"
	ArrayExcludesSingle           Kind = "array.excludesSingle"
	ArrayMin                      Kind = "array.min"
	ArrayMax                      Kind = "array.max"
	ArrayLength                   Kind = "array.length"
	ArrayOrdered                  Kind = "array.ordered"
	ArrayOrderedLength            Kind = "array.orderedLength"
	ArrayRef                      Kind = "array.ref"
	ArraySparse                   Kind = "array.sparse"
	ArrayUnique                   Kind = "array.unique"

	// Boolean failures.
	BooleanBase Kind = "boolean.base"

	// Binary failures.
	BinaryBase   Kind = "binary.base"
	BinaryMin    Kind = "binary.min"
	BinaryMax    Kind = "binary.max"
	BinaryLength Kind = "binary.length"

	// Date failures.
	DateBase                Kind = "date.base"
	DateFormat              Kind = "date.format"
	DateStrict              Kind = "date.strict"
	DateMin                 Kind = "date.min"
	DateMax                 Kind = "date.max"
	DateLess                Kind = "date.less"
	DateGreater             Kind = "date.greater"
	DateISODate             Kind = "date.isoDate"
	DateTimestampJavascript Kind = "date.timestamp.javascript"
	DateTimestampUnix       Kind = "date.timestamp.unix"
	DateRef                 Kind = "date.ref"

	// Function failures.
	FunctionBase     Kind = "function.base"
	FunctionArity    Kind = "function.arity"
	FunctionMinArity Kind = "function.minArity"
	FunctionMaxArity Kind = "function.maxArity"
	FunctionRef      Kind = "function.ref"
	FunctionClass    Kind = "function.class"

	// Lazy failures.
	LazyBase   Kind = "lazy.base"
	LazySchema Kind = "lazy.schema"

	// Object failures.
	ObjectBase                Kind = "object.base"
	ObjectChild               Kind = "object.child"
	ObjectMin                 Kind = "object.min"
	ObjectMax                 Kind = "object.max"
	ObjectLength              Kind = "object.length"
	ObjectAllowUnknown        Kind = "object.allowUnknown"
	ObjectWith                Kind = "object.with"
	ObjectWithout             Kind = "object.without"
	ObjectMissing             Kind = "object.missing"
	ObjectXor                 Kind = "object.xor"
	ObjectOr                  Kind = "object.or"
	ObjectAnd                 Kind = "object.and"
	ObjectNand                Kind = "object.nand"
	ObjectAssert              Kind = "object.assert"
	ObjectRenameMultiple      Kind = "object.rename.multiple"
	ObjectRenameOverride      Kind = "object.rename.override"
	ObjectRenameRegexMultiple Kind = "object.rename.regex.multiple"
	ObjectRenameRegexOverride Kind = "object.rename.regex.override"
	ObjectType                Kind = "object.type"
	ObjectSchema              Kind = "object.schema"

	// Number failures.
	NumberBase      Kind = "number.base"
	NumberMin       Kind = "number.min"
	NumberMax       Kind = "number.max"
	NumberLess      Kind = "number.less"
	NumberGreater   Kind = "number.greater"
	NumberFloat     Kind = "number.float"
	NumberInteger   Kind = "number.integer"
	NumberNegative  Kind = "number.negative"
	NumberPositive  Kind = "number.positive"
	NumberPrecision Kind = "number.precision"
	NumberRef       Kind = "number.ref"
	NumberMultiple  Kind = "number.multiple"
	NumberPort      Kind = "number.port"

	// String failures.
	StringBase            Kind = "string.base"
	StringMin             Kind = "string.min"
	StringMax             Kind = "string.max"
	StringLength          Kind = "string.length"
	StringAlphanum        Kind = "string.alphanum"
	StringToken           Kind = "string.token"
	StringRegexBase       Kind = "string.regex.base"
	StringRegexName       Kind = "string.regex.name"
	StringRegexInvertBase Kind = "string.regex.invert.base"
	StringRegexInvertName Kind = "string.regex.invert.name"
	StringEmail           Kind = "string.email"
	StringURI             Kind = "string.uri"
	StringURIRelativeOnly Kind = "string.uriRelativeOnly"
	StringURICustomScheme Kind = "string.uriCustomScheme"
	StringISODate         Kind = "string.isoDate"
	StringGUID            Kind = "string.guid"
	StringHex             Kind = "string.hex"
	StringHexAlign        Kind = "string.hexAlign"
	StringBase64          Kind = "string.base64"
	StringDataURI         Kind = "string.dataUri"
	StringHostname        Kind = "string.hostname"
	StringNormalize       Kind = "string.normalize"
	StringLowercase       Kind = "string.lowercase"
	StringUppercase       Kind = "string.uppercase"
	StringTrim            Kind = "string.trim"
	StringCreditCard      Kind = "string.creditCard"
	StringRef             Kind = "string.ref"
	StringIP              Kind = "string.ip"
	StringIPVersion       Kind = "string.ipVersion"

	// Symbol failures.
	SymbolBase Kind = "symbol.base"
	SymbolMap  Kind = "symbol.map"
)

// Category groups kinds by the type of value that failed.
type Category string

// Kind categories.
const (
	CategoryAny          Category = "any"
	CategoryAlternatives Category = "alternatives"
	CategoryArray        Category = "array"
	CategoryBoolean      Category = "boolean"
	CategoryBinary       Category = "binary"
	CategoryDate         Category = "date"
	CategoryFunction     Category = "function"
	CategoryLazy         Category = "lazy"
	CategoryObject       Category = "object"
	CategoryNumber       Category = "number"
	CategoryString       Category = "string"
	CategorySymbol       Category = "symbol"
)

var categories = []Category{
	CategoryAny,
	CategoryAlternatives,
	CategoryArray,
	CategoryBoolean,
	CategoryBinary,
	CategoryDate,
	CategoryFunction,
	CategoryLazy,
	CategoryObject,
	CategoryNumber,
	CategoryString,
	CategorySymbol,
}

var vocabulary = []Kind{
	AnyUnknown,
	AnyInvalid,
	AnyEmpty,
	AnyRequired,
	AnyAllowOnly,
	AnyDefault,
	AlternativesBase,
	AlternativesChild,
	ArrayBase,
	ArrayIncludes,
	ArrayIncludesSingle,
	ArrayIncludesOne,
	ArrayIncludesOneSingle,
	ArrayIncludesRequiredUnknowns,
	ArrayIncludesRequiredKnowns,
	ArrayIncludesRequiredBoth,
	ArrayExcludes,
	ArrayExcludesSingle,
	ArrayMin,
	ArrayMax,
	ArrayLength,
	ArrayOrdered,
	ArrayOrderedLength,
	ArrayRef,
	ArraySparse,
	ArrayUnique,
	BooleanBase,
	BinaryBase,
	BinaryMin,
	BinaryMax,
	BinaryLength,
	DateBase,
	DateFormat,
	DateStrict,
	DateMin,
	DateMax,
	DateLess,
	DateGreater,
	DateISODate,
	DateTimestampJavascript,
	DateTimestampUnix,
	DateRef,
	FunctionBase,
	FunctionArity,
	FunctionMinArity,
	FunctionMaxArity,
	FunctionRef,
	FunctionClass,
	LazyBase,
	LazySchema,
	ObjectBase,
	ObjectChild,
	ObjectMin,
	ObjectMax,
	ObjectLength,
	ObjectAllowUnknown,
	ObjectWith,
	ObjectWithout,
	ObjectMissing,
	ObjectXor,
	ObjectOr,
	ObjectAnd,
	ObjectNand,
	ObjectAssert,
	ObjectRenameMultiple,
	ObjectRenameOverride,
	ObjectRenameRegexMultiple,
	ObjectRenameRegexOverride,
	ObjectType,
	ObjectSchema,
	NumberBase,
	NumberMin,
	NumberMax,
	NumberLess,
	NumberGreater,
	NumberFloat,
	NumberInteger,
	NumberNegative,
	NumberPositive,
	NumberPrecision,
	NumberRef,
	NumberMultiple,
	NumberPort,
	StringBase,
	StringMin,
	StringMax,
	StringLength,
	StringAlphanum,
	StringToken,
	StringRegexBase,
	StringRegexName,
	StringRegexInvertBase,
	StringRegexInvertName,
	StringEmail,
	StringURI,
	StringURIRelativeOnly,
	StringURICustomScheme,
	StringISODate,
	StringGUID,
	StringHex,
	StringHexAlign,
	StringBase64,
	StringDataURI,
	StringHostname,
	StringNormalize,
	StringLowercase,
	StringUppercase,
	StringTrim,
	StringCreditCard,
	StringRef,
	StringIP,
	StringIPVersion,
	SymbolBase,
	SymbolMap,
}

var known = func() map[Kind]struct{} {
	m := make(map[Kind]struct{}, len(vocabulary))
	for _, k := range vocabulary {
		m[k] = struct{}{}
	}
	return m
}()

// Kinds returns the recognized vocabulary in declaration order.
func Kinds() []Kind {
	return slices.Clone(vocabulary)
}

// Categories returns every kind category.
func Categories() []Category {
	return slices.Clone(categories)
}

// KindsOf returns the recognized kinds belonging to category c.
func KindsOf(c Category) []Kind {
	var out []Kind
	for _, k := range vocabulary {
		if k.Category() == c {
			out = append(out, k)
		}
	}
	return out
}

// Known reports whether k is part of the recognized vocabulary.
func (k Kind) Known() bool {
	_, ok := known[k]
	return ok
}

// Category returns the part of k before the first dot.
func (k Kind) Category() Category {
	c, _, _ := strings.Cut(string(k), ".")
	return Category(c)
}

func (k Kind) String() string {
	return string(k)
}
