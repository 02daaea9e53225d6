package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ruleforge/zodgen/zodkit"
)

// crossFieldRuleNames are rules whose logic spans sibling fields. They are
// never emitted on the owning field's chain; the nearest enclosing object
// collects them into one whole-object post-validation step.
var crossFieldRuleNames = []string{
	"required_if", "required_unless", "required_with", "required_without",
}

// IsCrossFieldRule reports whether the rule is compiled at object level.
func IsCrossFieldRule(name string) bool { return containsName(crossFieldRuleNames, name) }

// Compiler renders resolved validation trees into Zod source expressions
// through the handler registry.
type Compiler struct {
	registry *Registry
	log      *zodkit.Logger
}

// NewCompiler creates a compiler over the given registry.
func NewCompiler(registry *Registry, log *zodkit.Logger) *Compiler {
	if log == nil {
		log = zodkit.NewLogger()
	}
	return &Compiler{registry: registry, log: log}
}

// CompileContext is passed through one schema compilation. Handlers use it
// to recurse into child nodes and to record schema dependencies.
type CompileContext struct {
	compiler *Compiler
	deps     map[string]bool
	enums    map[string]bool
}

// Log returns the run logger.
func (ctx *CompileContext) Log() *zodkit.Logger { return ctx.compiler.log }

// AddDependency records a referenced schema name.
func (ctx *CompileContext) AddDependency(name string) {
	if name != "" {
		ctx.deps[name] = true
	}
}

// AddEnumRef records a named enum the schema references, so the writer can
// import it.
func (ctx *CompileContext) AddEnumRef(name string) {
	if name != "" {
		ctx.enums[name] = true
	}
}

// CompiledSchema is one schema rendered to source, with the names it
// references for import wiring and output ordering.
type CompiledSchema struct {
	Data *ExtractedSchemaData

	// Source is the full schema expression, without the export wrapper.
	Source string

	// EnumRefs lists named enums referenced via z.nativeEnum.
	EnumRefs []string
}

// CompileSchema compiles one extracted schema into its full object
// expression, recording referenced schema names on Data.Dependencies.
func (c *Compiler) CompileSchema(data *ExtractedSchemaData) (*CompiledSchema, error) {
	ctx := &CompileContext{
		compiler: c,
		deps:     make(map[string]bool),
		enums:    make(map[string]bool),
	}

	var props []propertyLine
	var crossFields []crossFieldCheck
	for _, p := range data.Properties {
		if strings.Contains(p.Name, ".") {
			// internal bookkeeping artifact of grouping, never surfaced
			continue
		}
		expr, err := ctx.CompileProperty(p)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", data.ClassName, p.Name, err)
		}
		props = append(props, propertyLine{name: p.Name, expr: expr})
		crossFields = append(crossFields, collectCrossFields(p.Name, p.Validations)...)
	}

	data.Dependencies = sortedKeys(ctx.deps)
	return &CompiledSchema{
		Data:     data,
		Source:   objectLiteral(props) + superRefine(crossFields),
		EnumRefs: sortedKeys(ctx.enums),
	}, nil
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CompileProperty compiles one top-level property, honoring its optional
// flag and schema override.
func (ctx *CompileContext) CompileProperty(p *SchemaPropertyData) (string, error) {
	fragment := p.Validations.Fragment
	if p.SchemaOverride != nil {
		fragment = p.SchemaOverride
	}
	optional := p.IsOptional || p.Validations.IsFieldOptional()
	return ctx.compileWrapped(p.Validations, fragment, optional)
}

// CompileNode compiles a nested node with its own fragment and flags.
func (ctx *CompileContext) CompileNode(node *ResolvedValidationSet) (string, error) {
	return ctx.compileWrapped(node, node.Fragment, node.IsFieldOptional())
}

// CompileItem compiles an array item node. Items never take the
// .optional() suffix: element presence is the array's concern.
func (ctx *CompileContext) CompileItem(node *ResolvedValidationSet) (string, error) {
	return ctx.compileWrapped(node, node.Fragment, false)
}

// compileWrapped dispatches the node to the winning handler and applies
// fragment, nullable, and optional handling in that order.
func (ctx *CompileContext) compileWrapped(node *ResolvedValidationSet, fragment *SchemaFragment, optional bool) (string, error) {
	var expr string
	if fragment != nil && fragment.Mode == FragmentReplace {
		expr = fragment.Code
		// the fragment bypasses the reference handler, but the import and
		// output ordering still depend on the referenced names
		ctx.AddDependency(node.SchemaRef)
		ctx.AddEnumRef(node.EnumRef)
	} else {
		h := ctx.compiler.registry.Match(node)
		if h == nil {
			// the universal fallback should make this unreachable; if it
			// happens the registry is misconfigured and silently dropping
			// the field is unacceptable
			return "", fmt.Errorf("no handler registered for type %q (field %s)", node.InferredType, node.FieldName)
		}
		compiled, err := h.Compile(ctx, node)
		if err != nil {
			return "", err
		}
		expr = compiled
		if fragment != nil && fragment.Mode == FragmentAppend {
			expr += fragment.Code
		}
	}

	if node.IsFieldNullable() {
		expr += ".nullable()"
	}
	if optional && !node.IsFieldRequired() {
		expr += ".optional()"
	}
	return expr, nil
}

// propertyLine is one rendered property of an object literal.
type propertyLine struct {
	name string
	expr string
}

// objectLiteral renders a multi-line z.object({...}) expression.
func objectLiteral(props []propertyLine) string {
	if len(props) == 0 {
		return "z.object({})"
	}
	var sb strings.Builder
	sb.WriteString("z.object({\n")
	for _, p := range props {
		sb.WriteString("  ")
		sb.WriteString(tsPropertyKey(p.name))
		sb.WriteString(": ")
		sb.WriteString(indentTail(p.expr, 1))
		sb.WriteString(",\n")
	}
	sb.WriteString("})")
	return sb.String()
}

// indentTail indents every line but the first by n two-space levels, so a
// multi-line child expression nests correctly inside its parent.
func indentTail(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) == 1 {
		return s
	}
	pad := strings.Repeat("  ", n)
	for i := 1; i < len(lines); i++ {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}

// crossFieldCheck is one collected cross-field condition for an enclosing
// object's post-validation step.
type crossFieldCheck struct {
	field   string // property name within the object
	rule    ResolvedRule
	message string
}

// collectCrossFields gathers cross-field rules declared on one property.
func collectCrossFields(name string, set *ResolvedValidationSet) []crossFieldCheck {
	var checks []crossFieldCheck
	for _, v := range set.Validations {
		if IsCrossFieldRule(v.Rule) {
			checks = append(checks, crossFieldCheck{field: name, rule: v, message: v.Message})
		}
	}
	return checks
}

// superRefine renders the whole-object post-validation step, one
// conditional issue-reporting branch per collected cross-field rule.
func superRefine(checks []crossFieldCheck) string {
	if len(checks) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(".superRefine((data, ctx) => {\n")
	for _, check := range checks {
		cond := crossFieldCondition(check)
		if cond == "" {
			continue
		}
		sb.WriteString("  if (" + cond + ") {\n")
		sb.WriteString("    ctx.addIssue({\n")
		sb.WriteString("      code: z.ZodIssueCode.custom,\n")
		sb.WriteString("      message: " + tsQuote(check.message) + ",\n")
		sb.WriteString("      path: [" + tsQuote(check.field) + "],\n")
		sb.WriteString("    });\n")
		sb.WriteString("  }\n")
	}
	sb.WriteString("})")
	return sb.String()
}

// crossFieldCondition renders the trigger condition for one cross-field
// rule relative to the enclosing object's data.
func crossFieldCondition(check crossFieldCheck) string {
	field := tsAccess("data", check.field)
	missing := field + " === undefined"

	switch check.rule.Rule {
	case "required_if":
		other := tsAccess("data", siblingKey(check.rule.Param(0)))
		var eqs []string
		for _, v := range check.rule.Params[1:] {
			eqs = append(eqs, other+" === "+tsValueLiteral(v))
		}
		if len(eqs) == 0 {
			return ""
		}
		return "(" + strings.Join(eqs, " || ") + ") && " + missing
	case "required_unless":
		other := tsAccess("data", siblingKey(check.rule.Param(0)))
		var eqs []string
		for _, v := range check.rule.Params[1:] {
			eqs = append(eqs, other+" === "+tsValueLiteral(v))
		}
		if len(eqs) == 0 {
			return ""
		}
		return "!(" + strings.Join(eqs, " || ") + ") && " + missing
	case "required_with":
		var present []string
		for _, p := range check.rule.Params {
			present = append(present, tsAccess("data", siblingKey(p))+" !== undefined")
		}
		if len(present) == 0 {
			return ""
		}
		return "(" + strings.Join(present, " || ") + ") && " + missing
	case "required_without":
		var absent []string
		for _, p := range check.rule.Params {
			absent = append(absent, tsAccess("data", siblingKey(p))+" === undefined")
		}
		if len(absent) == 0 {
			return ""
		}
		return "(" + strings.Join(absent, " || ") + ") && " + missing
	}
	return ""
}

// siblingKey reduces a possibly path-qualified dependent-field name to its
// key within the enclosing object.
func siblingKey(param string) string {
	if idx := strings.LastIndex(param, "."); idx >= 0 {
		return param[idx+1:]
	}
	return param
}

// tsValueLiteral renders a rule parameter as a TS literal: numbers and
// booleans stay bare, everything else is quoted.
func tsValueLiteral(v string) string {
	switch v {
	case "true", "false", "null":
		return v
	}
	if isNumericLiteral(v) {
		return v
	}
	return tsQuote(v)
}

func isNumericLiteral(v string) bool {
	if v == "" {
		return false
	}
	dot := false
	for i, c := range v {
		switch {
		case c == '-' && i == 0:
		case c == '.' && !dot:
			dot = true
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return v != "-" && v != "." && v != "-."
}
