package generator

import (
	"fmt"
	"strings"
)

// EnumHandler compiles one-of fields. Literal value lists become z.enum
// calls; fields bound to a named enum reference become z.nativeEnum calls
// against the imported enum object.
type EnumHandler struct{}

func (h *EnumHandler) Name() string  { return "enum" }
func (h *EnumHandler) Priority() int { return PriorityEnum }

// CanHandleType accepts everything; the node predicate does the real
// selection so that a named enum reference wins even when type inference
// saw a plain string.
func (h *EnumHandler) CanHandleType(t string) bool { return true }

func (h *EnumHandler) CanHandleNode(node *ResolvedValidationSet) bool {
	return node.EnumRef != "" || IsEnumType(node.InferredType)
}

func (h *EnumHandler) Compile(ctx *CompileContext, node *ResolvedValidationSet) (string, error) {
	ctx.AddEnumRef(node.EnumRef)
	base, err := h.base(node)
	if err != nil {
		return "", err
	}
	return base + chainCalls(ctx, withoutEnumRules(node)), nil
}

func (h *EnumHandler) base(node *ResolvedValidationSet) (string, error) {
	if node.EnumRef != "" {
		return fmt.Sprintf("z.nativeEnum(%s)", node.EnumRef), nil
	}

	values := EnumValues(node.InferredType)
	rule, ok := enumRule(node)
	if len(values) == 0 && ok {
		values = rule.Params
	}
	if len(values) == 0 {
		return "", fmt.Errorf("enum field %s has no values", node.FieldName)
	}

	lits := make([]string, 0, len(values))
	for _, v := range values {
		lits = append(lits, tsQuote(v))
	}
	expr := "z.enum([" + strings.Join(lits, ", ") + "]"
	if ok && rule.HasCustomMessage {
		expr += ", { message: " + tsQuote(rule.Message) + " }"
	}
	return expr + ")", nil
}

// enumRule finds the in/enum rule that supplied the value list.
func enumRule(node *ResolvedValidationSet) (ResolvedRule, bool) {
	for _, name := range enumTypeRules {
		if r, ok := node.Rule(name); ok {
			return r, true
		}
	}
	return ResolvedRule{}, false
}

// withoutEnumRules copies the node minus the in/enum rules, which the base
// expression already consumed.
func withoutEnumRules(node *ResolvedValidationSet) *ResolvedValidationSet {
	filtered := *node
	filtered.Validations = nil
	for _, v := range node.Validations {
		if containsName(enumTypeRules, v.Rule) {
			continue
		}
		filtered.Validations = append(filtered.Validations, v)
	}
	return &filtered
}
