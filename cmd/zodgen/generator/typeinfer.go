package generator

import "strings"

// Semantic output types. Enum types carry their literal values as
// "enum:a,b,c".
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
	TypeEmail   = "email"
	TypeURL     = "url"
	TypeUUID    = "uuid"
	TypeFile    = "file"
	TypeEnum    = "enum"

	enumTypePrefix = "enum:"
)

// Rule categorization tables. These mirror the host validation engine's own
// classification; the table test in typeinfer_test.go fails loudly when the
// supported rule set drifts.
var (
	booleanTypeRules = []string{
		"boolean", "accepted", "accepted_if", "declined", "declined_if",
	}
	numericTypeRules = []string{
		"numeric", "integer", "decimal", "multiple_of",
		"digits", "digits_between", "min_digits", "max_digits",
	}
	arrayTypeRules = []string{
		"array", "list",
	}
	stringSubtypeRules = map[string]string{
		"email": TypeEmail,
		"url":   TypeURL,
		"uuid":  TypeUUID,
		"ulid":  TypeString,
		"json":  TypeString,
	}
	dateTypeRules = []string{
		"date", "date_format", "date_equals",
		"after", "after_or_equal", "before", "before_or_equal",
	}
	fileTypeRules = []string{
		"file", "image", "mimes", "mimetypes", "extensions", "dimensions",
	}
	enumTypeRules = []string{"in", "enum"}
)

// InferType determines the semantic output type for a field from its
// normalized rule list, using a fixed precedence ordering: boolean, then
// numeric, array, specific string subtypes, date (string), file, one-of,
// then the explicit string marker. A path ending in a wildcard segment
// defaults to array only when no rule matched; everything else defaults
// to string.
//
// Pure and deterministic: the same rule set always infers the same type.
func InferType(entries []RuleEntry, path string) string {
	set := NewRuleSet(entries)

	if set.Has(booleanTypeRules...) {
		return TypeBoolean
	}
	if set.Has(numericTypeRules...) {
		return TypeNumber
	}
	if set.Has(arrayTypeRules...) {
		return TypeArray
	}
	for _, e := range entries {
		if t, ok := stringSubtypeRules[e.Name]; ok {
			return t
		}
	}
	if set.Has(dateTypeRules...) {
		return TypeString
	}
	if set.Has(fileTypeRules...) {
		return TypeFile
	}
	for _, name := range enumTypeRules {
		if e, ok := set[name]; ok {
			if len(e.Params) > 0 {
				return enumTypePrefix + strings.Join(e.Params, ",")
			}
			return TypeEnum
		}
	}
	// an explicit string marker pins the type before the wildcard default,
	// so declared array items stay scalars
	if set.Has("string") {
		return TypeString
	}
	if strings.HasSuffix(path, ".*") || path == "*" {
		return TypeArray
	}
	return TypeString
}

// IsEnumType reports whether t is an enum type (with or without values).
func IsEnumType(t string) bool {
	return t == TypeEnum || strings.HasPrefix(t, enumTypePrefix)
}

// EnumValues extracts the literal values from an enum type string.
func EnumValues(t string) []string {
	if !strings.HasPrefix(t, enumTypePrefix) {
		return nil
	}
	return strings.Split(strings.TrimPrefix(t, enumTypePrefix), ",")
}

// IsStringLikeType reports whether t compiles to a Zod string base.
func IsStringLikeType(t string) bool {
	switch t {
	case TypeString, TypeEmail, TypeURL, TypeUUID:
		return true
	}
	return false
}

// IsNumericRuleSet reports whether the rule list classifies the field as
// numeric. Used to select the .numeric variant of size messages.
func IsNumericRuleSet(entries []RuleEntry) bool {
	return NewRuleSet(entries).Has(numericTypeRules...)
}

// IsArrayRuleSet reports whether the rule list contains an array-class rule.
func IsArrayRuleSet(entries []RuleEntry) bool {
	return NewRuleSet(entries).Has(arrayTypeRules...)
}

// IsFileRuleSet reports whether the rule list contains a file-class rule.
func IsFileRuleSet(entries []RuleEntry) bool {
	return NewRuleSet(entries).Has(fileTypeRules...)
}
