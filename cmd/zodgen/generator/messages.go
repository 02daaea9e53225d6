package generator

import (
	"fmt"
	"strings"
)

// ruleAliases maps rule names whose custom messages satisfy each other.
// A message registered under "enum" answers a lookup for "in" and back.
var ruleAliases = map[string][]string{
	"in":   {"enum"},
	"enum": {"in"},
}

// MessageResolver resolves the most specific applicable human message for
// a (field, rule) pair: explicit custom message, then aliased custom
// message, then the locale template with placeholder substitution, then a
// synthesized fallback. Attribute display names are substituted last.
type MessageResolver struct {
	// Messages holds the owning class's custom messages keyed
	// "field.ruleName" with the rule name's first letter lowercased.
	Messages map[string]string

	// Catalog supplies locale-translated default templates.
	Catalog *Catalog
}

// NewMessageResolver builds a resolver for one class's message map.
func NewMessageResolver(messages map[string]string, catalog *Catalog) *MessageResolver {
	return &MessageResolver{Messages: messages, Catalog: catalog}
}

// Resolve returns the message for rule on the given field. The full rule
// list of the field selects the numeric/array/file message variants.
// Missing custom messages are expected and fall through; unset field, rule
// name, or catalog is a precondition violation and returns an error.
func (m *MessageResolver) Resolve(field string, rule RuleEntry, all []RuleEntry) (string, error) {
	if field == "" {
		return "", fmt.Errorf("message resolution: field is unset")
	}
	if rule.Name == "" {
		return "", fmt.Errorf("message resolution: rule name is unset for field %q", field)
	}
	if m.Catalog == nil {
		return "", fmt.Errorf("message resolution: no message catalog configured")
	}

	// 1. Exact custom message.
	if msg, ok := m.customMessage(field, rule.Name); ok {
		return m.substituteAttribute(field, msg), nil
	}

	// 2. Custom message under a known alias.
	for _, alias := range ruleAliases[rule.Name] {
		if msg, ok := m.customMessage(field, alias); ok {
			return m.substituteAttribute(field, msg), nil
		}
	}

	// 3. Locale-translated default template.
	if template, ok := m.Catalog.Lookup(rule.Name, messageContext(all)); ok {
		msg := m.substituteParams(field, rule, template)
		return m.substituteAttribute(field, msg), nil
	}

	// 4. Synthesized fallback.
	msg := fmt.Sprintf("The %s field validation failed.", DisplayName(field))
	return msg, nil
}

// HasCustom reports whether an explicit custom message (direct or aliased)
// exists for the field/rule pair.
func (m *MessageResolver) HasCustom(field, rule string) bool {
	if _, ok := m.customMessage(field, rule); ok {
		return true
	}
	for _, alias := range ruleAliases[rule] {
		if _, ok := m.customMessage(field, alias); ok {
			return true
		}
	}
	return false
}

// customMessage looks up "field.rule" case-insensitively on the rule name,
// honoring the lowercased-first-letter key convention.
func (m *MessageResolver) customMessage(field, rule string) (string, bool) {
	if len(m.Messages) == 0 {
		return "", false
	}
	candidates := []string{
		field + "." + lowerFirst(rule),
		field + "." + rule,
	}
	for _, key := range candidates {
		if msg, ok := m.Messages[key]; ok {
			return msg, true
		}
	}
	// Case-insensitive scan on the rule-name portion.
	prefix := strings.ToLower(field + ".")
	want := strings.ToLower(rule)
	for key, msg := range m.Messages {
		lower := strings.ToLower(key)
		if strings.HasPrefix(lower, prefix) && strings.TrimPrefix(lower, prefix) == want {
			return msg, true
		}
	}
	return "", false
}

// messageContext picks the template variant context from the rule list.
func messageContext(all []RuleEntry) string {
	switch {
	case IsNumericRuleSet(all):
		return "numeric"
	case IsArrayRuleSet(all):
		return "array"
	case IsFileRuleSet(all):
		return "file"
	}
	return "string"
}

// substituteParams fills rule-specific placeholders in a template.
func (m *MessageResolver) substituteParams(field string, rule RuleEntry, template string) string {
	msg := template
	replace := func(token, value string) {
		msg = strings.ReplaceAll(msg, token, value)
	}

	switch rule.Name {
	case "min", "min_digits":
		replace(":min", rule.Param(0))
	case "max", "max_digits":
		replace(":max", rule.Param(0))
	case "size":
		replace(":size", rule.Param(0))
	case "between", "digits_between":
		replace(":min", rule.Param(0))
		replace(":max", rule.Param(1))
	case "gt", "gte", "lt", "lte", "multiple_of":
		replace(":value", rule.Param(0))
	case "digits":
		replace(":digits", rule.Param(0))
	case "decimal":
		replace(":decimal", strings.Join(rule.Params, " to "))
	case "date_format":
		replace(":format", rule.Param(0))
	case "after", "after_or_equal", "before", "before_or_equal", "date_equals":
		replace(":date", DisplayName(rule.Param(0)))
	case "required_if", "accepted_if", "declined_if":
		replace(":other", DisplayName(NormalizeSiblingPath(field, rule.Param(0))))
		replace(":value", strings.Join(rule.Params[min(1, len(rule.Params)):], ", "))
	case "required_unless":
		replace(":other", DisplayName(NormalizeSiblingPath(field, rule.Param(0))))
		replace(":values", strings.Join(rule.Params[min(1, len(rule.Params)):], ", "))
	case "required_with", "required_without":
		names := make([]string, 0, len(rule.Params))
		for _, p := range rule.Params {
			names = append(names, DisplayName(NormalizeSiblingPath(field, p)))
		}
		replace(":values", strings.Join(names, " / "))
	case "same", "different":
		replace(":other", DisplayName(NormalizeSiblingPath(field, rule.Param(0))))
	default:
		replace(":values", strings.Join(rule.Params, ", "))
		replace(":value", rule.Param(0))
	}
	return msg
}

// substituteAttribute replaces the :attribute placeholder and any raw
// field token with the friendly display name.
func (m *MessageResolver) substituteAttribute(field, msg string) string {
	display := DisplayName(field)
	msg = strings.ReplaceAll(msg, ":attribute", display)
	// A template may carry the raw field token; prefer the friendly form.
	// Only standalone occurrences are rewritten: the token embedded in a
	// longer identifier is part of the author's text.
	if display != field {
		msg = replaceStandalone(msg, field, display)
	}
	return msg
}

// replaceStandalone replaces occurrences of token in s that are not
// bordered by identifier characters.
func replaceStandalone(s, token, repl string) string {
	if token == "" {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); {
		j := strings.Index(s[i:], token)
		if j < 0 {
			sb.WriteString(s[i:])
			break
		}
		j += i
		end := j + len(token)
		if isIdentBoundary(s, j-1) && isIdentBoundary(s, end) {
			sb.WriteString(s[i:j])
			sb.WriteString(repl)
		} else {
			sb.WriteString(s[i:end])
		}
		i = end
	}
	return sb.String()
}

// isIdentBoundary reports whether position i in s does not continue an
// identifier. Out-of-range counts as a boundary.
func isIdentBoundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	c := s[i]
	switch {
	case c == '_':
	case c >= 'a' && c <= 'z':
	case c >= 'A' && c <= 'Z':
	case c >= '0' && c <= '9':
	default:
		return true
	}
	return false
}

// DisplayName converts a field path to its human-readable attribute name:
// wildcard segments are dropped, the leaf segment wins, and underscores
// become spaces.
func DisplayName(field string) string {
	segments := strings.Split(field, ".")
	name := ""
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "*" && segments[i] != "" {
			name = segments[i]
			break
		}
	}
	if name == "" {
		name = field
	}
	return strings.ReplaceAll(name, "_", " ")
}

// NormalizeSiblingPath resolves a dependent-field name relative to the
// current field's nesting context: "sibling" referenced from
// "parent.*.child" resolves to "parent.*.sibling". Names that already
// carry a path are kept as declared.
func NormalizeSiblingPath(field, other string) string {
	if other == "" || strings.Contains(other, ".") {
		return other
	}
	idx := strings.LastIndex(field, ".")
	if idx < 0 {
		return other
	}
	return field[:idx+1] + other
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'A' && s[0] <= 'Z' {
		return string(s[0]+('a'-'A')) + s[1:]
	}
	return s
}
