// Package generator implements the rule-resolution and schema-compilation
// pipeline: flat dot-and-wildcard rule maps in, Zod schema source out.
package generator

import (
	"fmt"
	"strings"
)

// RuleEntry is one named, parameterized validation rule. Immutable once
// parsed; equality is by normalized name for de-duplication.
type RuleEntry struct {
	Name   string
	Params []string
}

// Param returns the i-th parameter or empty string.
func (r RuleEntry) Param(i int) string {
	if i < len(r.Params) {
		return r.Params[i]
	}
	return ""
}

func (r RuleEntry) String() string {
	if len(r.Params) == 0 {
		return r.Name
	}
	return r.Name + ":" + strings.Join(r.Params, ",")
}

// FragmentMode controls how a SchemaFragment combines with compiled output.
type FragmentMode string

const (
	// FragmentAppend concatenates the fragment after the compiled chain.
	FragmentAppend FragmentMode = "append"
	// FragmentReplace discards the compiled chain for the node entirely.
	FragmentReplace FragmentMode = "replace"
)

// SchemaFragment is an opaque, user-authored snippet of Zod code attached
// to a field. Consumed exactly once during compilation of the owning node.
type SchemaFragment struct {
	Code string
	Mode FragmentMode
}

// RuleObject is a rule representation that may carry a literal fragment in
// addition to its name and parameters. Rule objects without a name are
// assigned a synthetic name during normalization.
type RuleObject struct {
	Name     string
	Params   []string
	Fragment *SchemaFragment
}

// NormalizeRules coerces a heterogeneous rule representation (pipe string,
// list of strings/rule objects, or a single rule object) into a canonical
// ordered rule list plus at most one schema fragment.
//
// Fragment combination: the first non-nil fragment wins; a later fragment
// with identical code is ignored; a later append-mode fragment with
// different code is concatenated onto the first.
func NormalizeRules(value any) ([]RuleEntry, *SchemaFragment, error) {
	var entries []RuleEntry
	var fragment *SchemaFragment
	synthetic := 0

	addObject := func(obj RuleObject) {
		name := strings.TrimSpace(obj.Name)
		if name == "" {
			synthetic++
			name = fmt.Sprintf("custom_rule_%d", synthetic)
		}
		entries = append(entries, RuleEntry{Name: normalizeRuleName(name), Params: obj.Params})
		if obj.Fragment == nil {
			return
		}
		switch {
		case fragment == nil:
			f := *obj.Fragment
			fragment = &f
		case obj.Fragment.Code == fragment.Code:
			// identical rendered code, silently ignored
		case obj.Fragment.Mode == FragmentAppend:
			fragment.Code += obj.Fragment.Code
		}
	}

	switch v := value.(type) {
	case nil:
	case string:
		entries = append(entries, parsePipeString(v)...)
	case RuleObject:
		addObject(v)
	case *RuleObject:
		if v != nil {
			addObject(*v)
		}
	case []string:
		for _, s := range v {
			entries = append(entries, parsePipeString(s)...)
		}
	case []any:
		for _, item := range v {
			switch it := item.(type) {
			case string:
				entries = append(entries, parsePipeString(it)...)
			case RuleObject:
				addObject(it)
			case *RuleObject:
				if it != nil {
					addObject(*it)
				}
			default:
				return nil, nil, fmt.Errorf("unsupported rule representation %T", item)
			}
		}
	default:
		return nil, nil, fmt.Errorf("unsupported rule representation %T", value)
	}

	return dedupeRules(entries), fragment, nil
}

// parsePipeString splits a pipe-delimited rule string into entries.
// Splitting happens only at top level: a '|' inside a bracket or paren
// group (regex alternations) does not split.
func parsePipeString(s string) []RuleEntry {
	var entries []RuleEntry
	for _, segment := range splitTopLevel(s, '|') {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		entries = append(entries, parseRuleSegment(segment))
	}
	return entries
}

// parseRuleSegment parses "name" or "name:p1,p2". The regex rule keeps its
// entire parameter verbatim since patterns may contain commas.
func parseRuleSegment(segment string) RuleEntry {
	name, rawParams, found := strings.Cut(segment, ":")
	name = normalizeRuleName(name)
	if !found || rawParams == "" {
		return RuleEntry{Name: name}
	}
	if name == "regex" || name == "not_regex" {
		return RuleEntry{Name: name, Params: []string{rawParams}}
	}
	var params []string
	for _, p := range strings.Split(rawParams, ",") {
		params = append(params, strings.TrimSpace(p))
	}
	return RuleEntry{Name: name, Params: params}
}

// splitTopLevel splits s on sep, ignoring separators nested inside
// [...] or (...) groups.
func splitTopLevel(s string, sep rune) []string {
	var parts []string
	var sb strings.Builder
	depth := 0
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
			sb.WriteRune(r)
		case r == '\\':
			escaped = true
			sb.WriteRune(r)
		case r == '[' || r == '(':
			depth++
			sb.WriteRune(r)
		case r == ']' || r == ')':
			if depth > 0 {
				depth--
			}
			sb.WriteRune(r)
		case r == sep && depth == 0:
			parts = append(parts, sb.String())
			sb.Reset()
		default:
			sb.WriteRune(r)
		}
	}
	parts = append(parts, sb.String())
	return parts
}

// normalizeRuleName lowercases and converts camelCase/kebab-case rule
// names to the canonical snake_case spelling.
func normalizeRuleName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "-", "_")
	var sb strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && name[i-1] != '_' {
				sb.WriteByte('_')
			}
			sb.WriteRune(r + ('a' - 'A'))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// dedupeRules drops later entries whose normalized name repeats an earlier
// one, keeping first-declared parameters.
func dedupeRules(entries []RuleEntry) []RuleEntry {
	seen := make(map[string]bool, len(entries))
	out := entries[:0]
	for _, e := range entries {
		if seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		out = append(out, e)
	}
	return out
}

// RuleSet is a lookup view over a rule list.
type RuleSet map[string]RuleEntry

// NewRuleSet builds a name-keyed view of entries.
func NewRuleSet(entries []RuleEntry) RuleSet {
	set := make(RuleSet, len(entries))
	for _, e := range entries {
		if _, ok := set[e.Name]; !ok {
			set[e.Name] = e
		}
	}
	return set
}

// Has reports whether the set contains any of the given rule names.
func (s RuleSet) Has(names ...string) bool {
	for _, n := range names {
		if _, ok := s[n]; ok {
			return true
		}
	}
	return false
}

// Meta-rule classification. Required/present bar omission; nullable allows
// explicit null; sometimes marks the field optional. The filled rule is
// deliberately outside the required class: it bars empty values only when
// the field is present, so a filled-only field stays omittable.
var (
	requiredClassRules = []string{"required", "present"}
	nullableClassRules = []string{"nullable"}
	optionalClassRules = []string{"sometimes", "optional", "missing"}
)

// IsRequiredRule reports whether name belongs to the required class.
func IsRequiredRule(name string) bool { return containsName(requiredClassRules, name) }

// IsNullableRule reports whether name belongs to the nullable class.
func IsNullableRule(name string) bool { return containsName(nullableClassRules, name) }

// IsOptionalRule reports whether name marks the field optional.
func IsOptionalRule(name string) bool { return containsName(optionalClassRules, name) }

// IsMetaRule reports whether the rule is handled structurally rather than
// as a chain call.
func IsMetaRule(name string) bool {
	return IsRequiredRule(name) || IsNullableRule(name) || IsOptionalRule(name)
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
