package generator

import (
	"fmt"
	"strings"
)

// chainCalls translates the node's ordered rule list into builder-chain
// suffixes. Rules with no chain equivalent for the node's type are skipped
// quietly; a verbose log line records each skip.
func chainCalls(ctx *CompileContext, node *ResolvedValidationSet) string {
	var sb strings.Builder
	for _, v := range node.Validations {
		if IsCrossFieldRule(v.Rule) {
			continue
		}
		call, handled := translateRule(node, v)
		if !handled {
			ctx.Log().Skip("rule %s on %s has no chain translation for type %s", v.Rule, node.FieldName, node.InferredType)
			continue
		}
		sb.WriteString(call)
	}
	return sb.String()
}

// translateRule renders the chain call(s) for one resolved rule in the
// context of the node's inferred type. The second return is false when the
// rule has no translation in that context.
func translateRule(node *ResolvedValidationSet, v ResolvedRule) (string, bool) {
	t := node.InferredType
	msg := tsQuote(v.Message)
	stringLike := IsStringLikeType(t)

	switch v.Rule {
	case "required", "present", "filled":
		return requiredCheck(node, v), true
	case "nullable", "sometimes", "optional", "missing":
		// structural, applied by the compiler wrapper
		return "", true
	case "string", "numeric", "boolean", "array", "list", "file":
		// covered by the base builder
		return "", true
	case "date":
		if stringLike {
			return fmt.Sprintf(".refine((val) => !Number.isNaN(Date.parse(val)), %s)", msg), true
		}

	case "min":
		switch {
		case t == TypeNumber:
			return fmt.Sprintf(".min(%s, %s)", v.Param(0), msg), true
		case t == TypeFile:
			return fmt.Sprintf(".refine((file) => file.size >= %s * 1024, %s)", v.Param(0), msg), true
		case stringLike || t == TypeArray:
			return fmt.Sprintf(".min(%s, %s)", v.Param(0), msg), true
		}
	case "max":
		switch {
		case t == TypeNumber:
			return fmt.Sprintf(".max(%s, %s)", v.Param(0), msg), true
		case t == TypeFile:
			return fmt.Sprintf(".refine((file) => file.size <= %s * 1024, %s)", v.Param(0), msg), true
		case stringLike || t == TypeArray:
			return fmt.Sprintf(".max(%s, %s)", v.Param(0), msg), true
		}
	case "size":
		switch {
		case t == TypeNumber:
			return fmt.Sprintf(".refine((val) => val === %s, %s)", v.Param(0), msg), true
		case t == TypeFile:
			return fmt.Sprintf(".refine((file) => file.size === %s * 1024, %s)", v.Param(0), msg), true
		case stringLike || t == TypeArray:
			return fmt.Sprintf(".length(%s, %s)", v.Param(0), msg), true
		}
	case "between":
		switch {
		case t == TypeNumber:
			return fmt.Sprintf(".min(%s, %s).max(%s, %s)", v.Param(0), msg, v.Param(1), msg), true
		case stringLike || t == TypeArray:
			return fmt.Sprintf(".min(%s, %s).max(%s, %s)", v.Param(0), msg, v.Param(1), msg), true
		}
	case "gt":
		if t == TypeNumber {
			return fmt.Sprintf(".gt(%s, %s)", v.Param(0), msg), true
		}
		if stringLike || t == TypeArray {
			return fmt.Sprintf(".refine((val) => val.length > %s, %s)", v.Param(0), msg), true
		}
	case "gte":
		if t == TypeNumber {
			return fmt.Sprintf(".gte(%s, %s)", v.Param(0), msg), true
		}
		if stringLike || t == TypeArray {
			return fmt.Sprintf(".min(%s, %s)", v.Param(0), msg), true
		}
	case "lt":
		if t == TypeNumber {
			return fmt.Sprintf(".lt(%s, %s)", v.Param(0), msg), true
		}
		if stringLike || t == TypeArray {
			return fmt.Sprintf(".refine((val) => val.length < %s, %s)", v.Param(0), msg), true
		}
	case "lte":
		if t == TypeNumber {
			return fmt.Sprintf(".lte(%s, %s)", v.Param(0), msg), true
		}
		if stringLike || t == TypeArray {
			return fmt.Sprintf(".max(%s, %s)", v.Param(0), msg), true
		}
	case "multiple_of":
		if t == TypeNumber {
			return fmt.Sprintf(".multipleOf(%s, %s)", v.Param(0), msg), true
		}

	case "integer", "int":
		if t == TypeNumber {
			return fmt.Sprintf(".int(%s)", msg), true
		}
	case "decimal":
		// decimal-place counting has no chain form
		return "", false
	case "digits":
		if t == TypeNumber {
			return fmt.Sprintf(`.refine((val) => /^\d{%s}$/.test(String(val)), %s)`, v.Param(0), msg), true
		}
	case "digits_between":
		if t == TypeNumber {
			return fmt.Sprintf(`.refine((val) => /^\d{%s,%s}$/.test(String(val)), %s)`, v.Param(0), v.Param(1), msg), true
		}
	case "min_digits":
		if t == TypeNumber {
			return fmt.Sprintf(`.refine((val) => /^\d{%s,}$/.test(String(val)), %s)`, v.Param(0), msg), true
		}
	case "max_digits":
		if t == TypeNumber {
			return fmt.Sprintf(`.refine((val) => /^\d{1,%s}$/.test(String(val)), %s)`, v.Param(0), msg), true
		}

	case "email":
		if stringLike {
			return fmt.Sprintf(".email(%s)", msg), true
		}
	case "url":
		if stringLike {
			return fmt.Sprintf(".url(%s)", msg), true
		}
	case "uuid":
		if stringLike {
			return fmt.Sprintf(".uuid(%s)", msg), true
		}
	case "ulid":
		if stringLike {
			return fmt.Sprintf(".ulid(%s)", msg), true
		}
	case "ip":
		if stringLike {
			return fmt.Sprintf(".ip(%s)", msg), true
		}
	case "ipv4":
		if stringLike {
			return fmt.Sprintf(".ip({ version: 'v4', message: %s })", msg), true
		}
	case "ipv6":
		if stringLike {
			return fmt.Sprintf(".ip({ version: 'v6', message: %s })", msg), true
		}

	case "regex":
		if stringLike {
			return fmt.Sprintf(".regex(%s, %s)", tsRegex(v.Param(0)), msg), true
		}
	case "not_regex":
		if stringLike {
			return fmt.Sprintf(".refine((val) => !%s.test(val), %s)", tsRegex(v.Param(0)), msg), true
		}
	case "alpha":
		if stringLike {
			return fmt.Sprintf(".regex(/^[a-zA-Z]+$/, %s)", msg), true
		}
	case "alpha_num":
		if stringLike {
			return fmt.Sprintf(".regex(/^[a-zA-Z0-9]+$/, %s)", msg), true
		}
	case "alpha_dash":
		if stringLike {
			return fmt.Sprintf(".regex(/^[a-zA-Z0-9_-]+$/, %s)", msg), true
		}
	case "ascii":
		if stringLike {
			return fmt.Sprintf(".regex(/^[\\x00-\\x7F]*$/, %s)", msg), true
		}
	case "lowercase":
		if stringLike {
			return fmt.Sprintf(".refine((val) => val === val.toLowerCase(), %s)", msg), true
		}
	case "uppercase":
		if stringLike {
			return fmt.Sprintf(".refine((val) => val === val.toUpperCase(), %s)", msg), true
		}
	case "starts_with":
		if stringLike {
			if len(v.Params) == 1 {
				return fmt.Sprintf(".startsWith(%s, %s)", tsQuote(v.Param(0)), msg), true
			}
			return fmt.Sprintf(".refine((val) => %s.some((p) => val.startsWith(p)), %s)", tsStringArray(v.Params), msg), true
		}
	case "ends_with":
		if stringLike {
			if len(v.Params) == 1 {
				return fmt.Sprintf(".endsWith(%s, %s)", tsQuote(v.Param(0)), msg), true
			}
			return fmt.Sprintf(".refine((val) => %s.some((p) => val.endsWith(p)), %s)", tsStringArray(v.Params), msg), true
		}
	case "doesnt_start_with":
		if stringLike {
			return fmt.Sprintf(".refine((val) => !%s.some((p) => val.startsWith(p)), %s)", tsStringArray(v.Params), msg), true
		}
	case "doesnt_end_with":
		if stringLike {
			return fmt.Sprintf(".refine((val) => !%s.some((p) => val.endsWith(p)), %s)", tsStringArray(v.Params), msg), true
		}
	case "json":
		if stringLike {
			return fmt.Sprintf(".refine((val) => { try { JSON.parse(val); return true; } catch { return false; } }, %s)", msg), true
		}

	case "date_format":
		if stringLike {
			if re, ok := dateFormatRegex(v.Param(0)); ok {
				return fmt.Sprintf(".regex(%s, %s)", re, msg), true
			}
			return fmt.Sprintf(".min(1, %s)", msg), true
		}
	case "after", "before", "after_or_equal", "before_or_equal", "date_equals":
		if stringLike {
			return dateCompareCall(v, msg)
		}

	case "in":
		return fmt.Sprintf(".refine((val) => %s.includes(val), %s)", tsParamArray(v.Params), msg), true
	case "not_in":
		return fmt.Sprintf(".refine((val) => !%s.includes(val), %s)", tsParamArray(v.Params), msg), true

	case "distinct":
		if t == TypeArray {
			return fmt.Sprintf(".refine((val) => new Set(val).size === val.length, %s)", msg), true
		}

	case "accepted":
		if t == TypeBoolean {
			return fmt.Sprintf(".refine((val) => val === true, %s)", msg), true
		}
	case "declined":
		if t == TypeBoolean {
			return fmt.Sprintf(".refine((val) => val === false, %s)", msg), true
		}

	case "image":
		if t == TypeFile {
			return fmt.Sprintf(".refine((file) => file.type.startsWith('image/'), %s)", msg), true
		}
	case "mimetypes":
		if t == TypeFile {
			return fmt.Sprintf(".refine((file) => %s.includes(file.type), %s)", tsStringArray(v.Params), msg), true
		}
	case "mimes", "extensions":
		if t == TypeFile {
			return fmt.Sprintf(".refine((file) => %s.includes(file.name.split('.').pop() ?? ''), %s)", tsStringArray(v.Params), msg), true
		}
	}

	return "", false
}

// requiredCheck renders the explicit non-empty check for required, present,
// and filled, by inferred type. Structural types enforce presence through
// the wrapper (no .optional() suffix) and need no chain call. For filled
// the check composes with .optional(): present values must be non-empty
// while omission stays allowed.
func requiredCheck(node *ResolvedValidationSet, v ResolvedRule) string {
	if node.EnumRef != "" || node.SchemaRef != "" || IsEnumType(node.InferredType) {
		return ""
	}
	msg := tsQuote(v.Message)
	switch {
	case IsStringLikeType(node.InferredType):
		if hasExplicitLengthFloor(node) {
			return ""
		}
		return fmt.Sprintf(".min(1, %s)", msg)
	case node.InferredType == TypeNumber:
		return fmt.Sprintf(".refine((val) => val !== undefined, %s)", msg)
	case node.InferredType == TypeArray:
		if hasExplicitLengthFloor(node) {
			return ""
		}
		return fmt.Sprintf(".min(1, %s)", msg)
	}
	return ""
}

// hasExplicitLengthFloor reports whether the field already carries a rule
// that bounds its length from below.
func hasExplicitLengthFloor(node *ResolvedValidationSet) bool {
	for _, v := range node.Validations {
		switch v.Rule {
		case "min", "size", "between", "gte":
			return true
		}
	}
	return false
}

// dateCompareCall renders a Date.parse comparison against a literal
// boundary. Comparisons against sibling fields have no single-field form.
func dateCompareCall(v ResolvedRule, msg string) (string, bool) {
	op := map[string]string{
		"after":           ">",
		"after_or_equal":  ">=",
		"before":          "<",
		"before_or_equal": "<=",
		"date_equals":     "===",
	}[v.Rule]

	boundary := ""
	switch v.Param(0) {
	case "now", "today":
		boundary = "Date.now()"
	case "tomorrow", "yesterday":
		// relative keywords beyond today need runtime arithmetic
		return "", false
	default:
		if !looksLikeDateLiteral(v.Param(0)) {
			return "", false
		}
		boundary = fmt.Sprintf("Date.parse(%s)", tsQuote(v.Param(0)))
	}
	return fmt.Sprintf(".refine((val) => Date.parse(val) %s %s, %s)", op, boundary, msg), true
}

// looksLikeDateLiteral distinguishes a literal date parameter from a
// sibling field reference.
func looksLikeDateLiteral(s string) bool {
	for _, c := range s {
		if c >= '0' && c <= '9' {
			return true
		}
	}
	return false
}

// tsStringArray renders string parameters as a TS array literal.
func tsStringArray(params []string) string {
	quoted := make([]string, 0, len(params))
	for _, p := range params {
		quoted = append(quoted, tsQuote(p))
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// tsParamArray renders parameters as a TS array literal, keeping numeric
// and boolean literals bare.
func tsParamArray(params []string) string {
	lits := make([]string, 0, len(params))
	for _, p := range params {
		lits = append(lits, tsValueLiteral(p))
	}
	return "[" + strings.Join(lits, ", ") + "]"
}
