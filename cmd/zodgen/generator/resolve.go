package generator

import "fmt"

// ResolvedRule is one fully resolved validation: rule, parameters, and the
// human message that accompanies it in the emitted schema.
type ResolvedRule struct {
	Rule       string
	Params     []string
	Message    string
	IsRequired bool
	IsNullable bool

	// HasCustomMessage records that Message came from an explicit custom
	// message rather than a locale template; some emissions only attach a
	// message argument in that case.
	HasCustomMessage bool
}

// Param returns the i-th parameter or empty string.
func (r ResolvedRule) Param(i int) string {
	if i < len(r.Params) {
		return r.Params[i]
	}
	return ""
}

// ResolvedValidationSet is the fully typed, nested representation of one
// field's validation requirements.
//
// Exactly one of NestedValidations and ObjectProperties is non-nil, or
// both are nil for a pure scalar leaf.
type ResolvedValidationSet struct {
	// FieldName is the full field path of this node.
	FieldName string

	// Validations is the ordered resolved rule list.
	Validations []ResolvedRule

	// InferredType is one of the semantic types, or "enum:<values>".
	InferredType string

	// NestedValidations describes the item shape when InferredType is
	// array.
	NestedValidations *ResolvedValidationSet

	// ObjectProperties holds named child nodes when the node represents
	// an object.
	ObjectProperties []*ResolvedProperty

	// Fragment is the literal override attached to this node, if any.
	Fragment *SchemaFragment

	// EnumRef names a reusable enum to reference instead of literal
	// values.
	EnumRef string

	// SchemaRef names another schema this node references; recorded as a
	// dependency and emitted as a schema reference.
	SchemaRef string

	// Optional marks the field optional via extraction metadata.
	Optional bool
}

// ResolvedProperty is one named property of an object node.
type ResolvedProperty struct {
	Name string
	Set  *ResolvedValidationSet
}

// Property returns the named property's set or nil.
func (s *ResolvedValidationSet) Property(name string) *ResolvedValidationSet {
	for _, p := range s.ObjectProperties {
		if p.Name == name {
			return p.Set
		}
	}
	return nil
}

// IsFieldRequired reports whether the rule list contains a required-class
// rule.
func (s *ResolvedValidationSet) IsFieldRequired() bool {
	for _, v := range s.Validations {
		if v.IsRequired {
			return true
		}
	}
	return false
}

// IsFieldNullable reports whether the rule list contains a nullable-class
// rule. A field may be required and nullable at once: nullable admits an
// explicit null while required still bars omission.
func (s *ResolvedValidationSet) IsFieldNullable() bool {
	for _, v := range s.Validations {
		if v.IsNullable {
			return true
		}
	}
	return false
}

// IsFieldOptional reports whether the field may be omitted.
func (s *ResolvedValidationSet) IsFieldOptional() bool {
	if s.Optional {
		return true
	}
	for _, v := range s.Validations {
		if IsOptionalRule(v.Rule) {
			return true
		}
	}
	return !s.IsFieldRequired()
}

// Rule returns the resolved rule with the given name, if present.
func (s *ResolvedValidationSet) Rule(name string) (ResolvedRule, bool) {
	for _, v := range s.Validations {
		if v.Rule == name {
			return v, true
		}
	}
	return ResolvedRule{}, false
}

// SchemaPropertyData is the externally visible unit handed to the
// compiler: one top-level field of a schema class.
type SchemaPropertyData struct {
	Name           string
	IsOptional     bool
	Validations    *ResolvedValidationSet
	SchemaOverride *SchemaFragment
}

// ExtractedSchemaData is the compiled description of one source class.
type ExtractedSchemaData struct {
	Name       string
	ClassName  string
	Type       string
	Properties []*SchemaPropertyData

	// Dependencies lists other schema names referenced by object and
	// array-of-object fields, for topological output ordering.
	Dependencies []string
}

// Resolver builds ResolvedValidationSet trees from grouped nodes,
// attaching inferred types and resolved messages.
type Resolver struct {
	messages *MessageResolver
	meta     map[string]FieldMeta
}

// NewResolver creates a resolver for one class.
func NewResolver(messages *MessageResolver, meta map[string]FieldMeta) *Resolver {
	return &Resolver{messages: messages, meta: meta}
}

// ResolveNode converts one grouped node (and its subtree) into a resolved
// validation set.
func (r *Resolver) ResolveNode(n *GroupedNode) (*ResolvedValidationSet, error) {
	set := &ResolvedValidationSet{
		FieldName: n.Path,
		Fragment:  n.Fragment,
	}
	if m, ok := r.meta[n.Path]; ok {
		set.EnumRef = m.EnumRef
		set.SchemaRef = m.SchemaRef
		set.Optional = m.IsOptional
	}

	for _, rule := range n.Rules {
		msg, err := r.messages.Resolve(n.Path, rule, n.Rules)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", n.Path, err)
		}
		set.Validations = append(set.Validations, ResolvedRule{
			Rule:             rule.Name,
			Params:           rule.Params,
			Message:          msg,
			IsRequired:       IsRequiredRule(rule.Name),
			IsNullable:       IsNullableRule(rule.Name),
			HasCustomMessage: r.messages.HasCustom(n.Path, rule.Name),
		})
	}

	switch {
	case n.IsArray():
		set.InferredType = TypeArray
		nested, err := r.ResolveNode(n.Wildcard())
		if err != nil {
			return nil, err
		}
		set.NestedValidations = nested
	case !n.IsLeaf():
		set.InferredType = TypeObject
		for _, c := range n.Children() {
			child, err := r.ResolveNode(c)
			if err != nil {
				return nil, err
			}
			set.ObjectProperties = append(set.ObjectProperties, &ResolvedProperty{
				Name: c.Name,
				Set:  child,
			})
		}
	default:
		set.InferredType = InferType(n.Rules, n.Path)
	}

	return set, nil
}
